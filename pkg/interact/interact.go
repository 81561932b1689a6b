// Package interact implements what happens when a user clicks a cell.
//
// A click blends the clicked cell's color into each of its neighbors in
// turn. The clicked cell keeps its color throughout, so every neighbor is
// blended against the same original color. As soon as one blend lands
// within the similarity threshold of the clicked color, the clicked cell and
// that neighbor are both removed and the click ends; neighbors after it are
// left untouched.
//
// The whole click is applied to the [diagram.Store] as one transaction, so
// observers see a single new state per click.
package interact

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/errors"
	"github.com/matzehuels/cellblend/pkg/observability"
	"github.com/matzehuels/cellblend/pkg/partition"
	"github.com/matzehuels/cellblend/pkg/points"
)

// Blend records one neighbor color change.
type Blend struct {
	Index int       `json:"index"`
	From  color.Hex `json:"from"`
	To    color.Hex `json:"to"`
}

// Outcome describes the effect of one click.
type Outcome struct {
	Clicked   int           `json:"clicked"`
	Color     color.Hex     `json:"color"`
	Blends    []Blend       `json:"blends"`
	Converged bool          `json:"converged"`
	Removed   []int         `json:"removed,omitempty"` // indices before removal, ascending
	State     diagram.State `json:"-"`
}

// Cells is the mutable view a click operates on. [diagram.Tx] implements it.
type Cells interface {
	Len() int
	ColorAt(i int) (color.Hex, error)
	SetColorAt(i int, c color.Hex) error
	RemoveAt(indices ...int)
}

var _ Cells = (*diagram.Tx)(nil)

// Apply runs the click algorithm against cells.
//
// Neighbor indices outside [0, cells.Len()) and the clicked index itself are
// skipped. An out-of-range clicked index is an INVALID_INDEX error and leaves
// cells unchanged.
func Apply(cells Cells, clicked int, neighbors []int, threshold float64) (Outcome, error) {
	out := Outcome{Clicked: clicked, Blends: []Blend{}}

	clickedColor, err := cells.ColorAt(clicked)
	if err != nil {
		return out, err
	}
	out.Color = clickedColor

	n := cells.Len()
	for _, j := range neighbors {
		if j < 0 || j >= n || j == clicked {
			continue
		}
		prev, err := cells.ColorAt(j)
		if err != nil {
			return out, err
		}
		blended := color.Average(clickedColor, prev)
		if err := cells.SetColorAt(j, blended); err != nil {
			return out, err
		}
		out.Blends = append(out.Blends, Blend{Index: j, From: prev, To: blended})

		if color.Similar(blended, clickedColor, threshold) {
			out.Converged = true
			out.Removed = []int{clicked, j}
			slices.Sort(out.Removed)
			cells.RemoveAt(clicked, j)
			break
		}
	}
	return out, nil
}

// Controller applies clicks to a store.
// Clicks are processed one at a time; the store serializes them.
type Controller struct {
	store     *diagram.Store
	build     partition.Builder
	threshold float64
	logger    *log.Logger
}

// New creates a controller. A nil build uses [partition.NewPartitioner], a
// non-positive threshold uses [color.DefaultThreshold], and a nil logger uses
// log.Default().
func New(store *diagram.Store, build partition.Builder, threshold float64, logger *log.Logger) *Controller {
	if build == nil {
		build = partition.NewPartitioner
	}
	if threshold <= 0 {
		threshold = color.DefaultThreshold
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		store:     store,
		build:     build,
		threshold: threshold,
		logger:    logger,
	}
}

// Threshold returns the similarity threshold in use.
func (c *Controller) Threshold() float64 { return c.threshold }

// OnCellClicked applies a click on cell clicked with the given neighbor
// list, in the order supplied.
func (c *Controller) OnCellClicked(ctx context.Context, clicked int, neighbors []int) (Outcome, error) {
	return c.apply(ctx, clicked, func([]points.Point) (int, []int, error) {
		return clicked, neighbors, nil
	})
}

// Click applies a click on cell index, asking the partitioner for its
// neighbors in the state the click is applied to.
func (c *Controller) Click(ctx context.Context, index int) (Outcome, error) {
	return c.apply(ctx, index, func(pts []points.Point) (int, []int, error) {
		if err := errors.ValidateIndex(index, len(pts)); err != nil {
			return index, nil, err
		}
		return index, c.build(pts).Neighbors(index), nil
	})
}

// ClickAt clicks the cell containing plane coordinates (x, y).
func (c *Controller) ClickAt(ctx context.Context, x, y float64) (Outcome, error) {
	bounds := c.store.Snapshot().Bounds
	if !bounds.Contains(x, y) {
		return Outcome{Clicked: -1}, errors.New(errors.ErrCodeInvalidInput, "point (%.1f, %.1f) outside the plane", x, y)
	}
	return c.apply(ctx, -1, func(pts []points.Point) (int, []int, error) {
		p := c.build(pts)
		i := p.Locate(x, y)
		if i < 0 {
			return i, nil, errors.New(errors.ErrCodeNotFound, "no cells to click")
		}
		return i, p.Neighbors(i), nil
	})
}

// target resolves the clicked cell and its neighbors from the points the
// click will be applied to.
type target func(pts []points.Point) (clicked int, neighbors []int, err error)

func (c *Controller) apply(ctx context.Context, hint int, resolve target) (Outcome, error) {
	start := time.Now()
	hooks := observability.Interaction()

	out := Outcome{Clicked: hint}
	st, err := c.store.Update(func(tx *diagram.Tx) error {
		clicked, neighbors, err := resolve(tx.Points())
		if err != nil {
			out.Clicked = clicked
			return err
		}
		hooks.OnClick(ctx, clicked, len(neighbors))
		out, err = Apply(tx, clicked, neighbors, c.threshold)
		return err
	})
	if err != nil {
		c.logger.Debug("click rejected", "cell", out.Clicked, "err", err)
		return out, err
	}
	out.State = st

	if out.Converged {
		hooks.OnConverge(ctx, out.Removed[0], out.Removed[1])
		c.logger.Info("cells converged", "removed", out.Removed, "remaining", st.Len())
	}
	c.logger.Debug("click applied",
		"cell", out.Clicked,
		"color", out.Color,
		"blends", len(out.Blends),
		"converged", out.Converged,
		"version", st.Version)
	hooks.OnClickComplete(ctx, out.Clicked, len(out.Blends), out.Converged, time.Since(start))
	return out, nil
}
