package diagram

import (
	"slices"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/points"
)

// State is one published snapshot of a diagram.
type State struct {
	Generation string         `json:"generation"`
	Version    uint64         `json:"version"`
	Bounds     points.Bounds  `json:"bounds"`
	Points     []points.Point `json:"points"`
}

// Len returns the number of cells.
func (s State) Len() int { return len(s.Points) }

// At returns the point at index i.
func (s State) At(i int) (points.Point, bool) {
	if i < 0 || i >= len(s.Points) {
		return points.Point{}, false
	}
	return s.Points[i], true
}

// Colors returns the cell colors in index order.
func (s State) Colors() []color.Hex {
	out := make([]color.Hex, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Color
	}
	return out
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Points = slices.Clone(s.Points)
	if s.Points == nil {
		s.Points = []points.Point{}
	}
	return s
}

// Without returns a copy of pts with the given indices removed.
// Remaining points keep their relative order, so every point after a removed
// index moves down. Out-of-range and repeated indices are ignored.
func Without(pts []points.Point, indices ...int) []points.Point {
	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(pts) {
			drop[i] = struct{}{}
		}
	}
	out := make([]points.Point, 0, len(pts)-len(drop))
	for i, p := range pts {
		if _, ok := drop[i]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
