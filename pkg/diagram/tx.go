package diagram

import (
	"slices"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/errors"
	"github.com/matzehuels/cellblend/pkg/points"
)

// Tx is a working copy of the points inside [Store.Update].
// It is only valid for the duration of the callback.
type Tx struct {
	points  []points.Point
	changed bool
}

// Len returns the current number of cells in the working copy.
func (tx *Tx) Len() int { return len(tx.points) }

// ColorAt returns the color of cell i.
func (tx *Tx) ColorAt(i int) (color.Hex, error) {
	if err := errors.ValidateIndex(i, len(tx.points)); err != nil {
		return "", err
	}
	return tx.points[i].Color, nil
}

// SetColorAt replaces the color of cell i. The color is stored in
// canonical form.
func (tx *Tx) SetColorAt(i int, c color.Hex) error {
	if err := errors.ValidateIndex(i, len(tx.points)); err != nil {
		return err
	}
	h, err := color.Normalize(string(c))
	if err != nil {
		return err
	}
	tx.points[i].Color = h
	tx.changed = true
	return nil
}

// RemoveAt removes cells from the working copy. Indices refer to the
// working copy as it is when RemoveAt is called.
func (tx *Tx) RemoveAt(indices ...int) {
	before := len(tx.points)
	tx.points = Without(tx.points, indices...)
	if len(tx.points) != before {
		tx.changed = true
	}
}

// Points returns a copy of the working points.
func (tx *Tx) Points() []points.Point {
	return slices.Clone(tx.points)
}
