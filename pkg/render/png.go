package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/diagram"
)

// PNG rasterizes the state. The image is Bounds scaled by [WithScale].
func PNG(s diagram.State, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	f := newFrame(s, o)

	w := int(s.Bounds.Width * o.scale)
	h := int(s.Bounds.Height * o.scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("png: empty canvas %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(o.scale, o.scale)
	dc.SetHexColor(emptyFill)
	dc.Clear()

	for _, sp := range f.grid.Spans() {
		if sp.Owner < 0 {
			continue
		}
		// Overdraw by a fraction of a pixel so neighboring spans leave no seams.
		dc.DrawRectangle(float64(sp.Col)*f.cellW, float64(sp.Row)*f.cellH, float64(sp.Len)*f.cellW+0.5, f.cellH+0.5)
		dc.SetHexColor(string(fill(s, sp.Owner)))
		dc.Fill()
	}

	if edges := f.grid.Edges(); len(edges) > 0 {
		for _, e := range edges {
			x0, y0, x1, y1 := f.edgeLine(e)
			dc.MoveTo(x0, y0)
			dc.LineTo(x1, y1)
		}
		// Line width is in output pixels.
		dc.SetLineWidth(max(1, o.scale))
		dc.SetHexColor(outlineColor)
		dc.Stroke()
	}

	if o.sites {
		for _, p := range s.Points {
			dc.DrawCircle(p.X, p.Y, 3)
			dc.SetHexColor(string(color.Contrast(fillHex(p.Color))))
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("png: encode: %w", err)
	}
	return buf.Bytes(), nil
}
