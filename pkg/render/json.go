package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/errors"
)

// WriteJSON encodes s as indented JSON.
// The output can be read back with [ReadJSON].
func WriteJSON(s diagram.State, w io.Writer) error {
	s = s.Clone()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a state written by [WriteJSON]. Colors are normalized and
// every point must lie inside the state's bounds.
func ReadJSON(r io.Reader) (diagram.State, error) {
	var s diagram.State
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return diagram.State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode state")
	}
	if err := errors.ValidateDimension("width", s.Bounds.Width); err != nil {
		return diagram.State{}, err
	}
	if err := errors.ValidateDimension("height", s.Bounds.Height); err != nil {
		return diagram.State{}, err
	}
	if err := errors.ValidatePointCount(len(s.Points)); err != nil {
		return diagram.State{}, err
	}
	for i := range s.Points {
		p := &s.Points[i]
		if !s.Bounds.Contains(p.X, p.Y) {
			return diagram.State{}, errors.New(errors.ErrCodeInvalidInput, "point %d (%g, %g) outside bounds", i, p.X, p.Y)
		}
		h, err := color.Normalize(string(p.Color))
		if err != nil {
			return diagram.State{}, fmt.Errorf("point %d: %w", i, err)
		}
		p.Color = h
	}
	return s.Clone(), nil
}

// ExportJSON writes s to the file at path.
func ExportJSON(s diagram.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}

// ImportJSON reads a state from the file at path.
func ImportJSON(path string) (diagram.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return diagram.State{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
