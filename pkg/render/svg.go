package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/partition"
)

const (
	emptyFill    = "#FFFFFF"
	outlineColor = "#000000"
)

const cellCSS = `
    .cell { cursor: pointer; }
    .cell:hover { opacity: 0.85; }
    .edges, .site { pointer-events: none; }`

const clickJS = `
    document.querySelectorAll('.cell').forEach(el => {
      el.addEventListener('click', () => {
        fetch(%s.replace('{index}', el.dataset.index), { method: 'POST' })
          .then(() => window.location.reload());
      });
    });`

// SVG renders the state as an SVG document.
func SVG(s diagram.State, opts ...Option) []byte {
	o := newOptions(opts)
	f := newFrame(s, o)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" shape-rendering="crispEdges">`+"\n",
		s.Bounds.Width, s.Bounds.Height, s.Bounds.Width, s.Bounds.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cellCSS)

	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", emptyFill)
	for _, sp := range f.grid.Spans() {
		if sp.Owner < 0 {
			continue
		}
		fmt.Fprintf(&buf, `  <rect class="cell" data-index="%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			sp.Owner, float64(sp.Col)*f.cellW, float64(sp.Row)*f.cellH, float64(sp.Len)*f.cellW, f.cellH, fill(s, sp.Owner))
	}

	if edges := f.grid.Edges(); len(edges) > 0 {
		fmt.Fprintf(&buf, `  <path class="edges" d="%s" fill="none" stroke="%s" stroke-width="1"/>`+"\n", outlinePath(f, edges), outlineColor)
	}

	if o.sites {
		for i, p := range s.Points {
			fmt.Fprintf(&buf, `  <circle class="site" data-index="%d" cx="%.2f" cy="%.2f" r="3" fill="%s"/>`+"\n",
				i, p.X, p.Y, color.Contrast(fillHex(p.Color)))
		}
	}

	if o.clickPath != "" {
		fmt.Fprintf(&buf, "  <script><![CDATA[%s\n  ]]></script>\n", fmt.Sprintf(clickJS, strconv.Quote(o.clickPath)))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// outlinePath joins the cell borders into one SVG path.
func outlinePath(f frame, edges []partition.Edge) string {
	var d strings.Builder
	for _, e := range edges {
		x0, y0, x1, y1 := f.edgeLine(e)
		if e.Vertical {
			fmt.Fprintf(&d, "M%.2f %.2fV%.2f", x0, y0, y1)
		} else {
			fmt.Fprintf(&d, "M%.2f %.2fH%.2f", x0, y0, x1)
		}
	}
	return d.String()
}

func fill(s diagram.State, i int) color.Hex {
	p, ok := s.At(i)
	if !ok {
		return emptyFill
	}
	return fillHex(p.Color)
}

// fillHex keeps malformed colors out of the markup.
func fillHex(h color.Hex) color.Hex {
	if n, err := color.Normalize(string(h)); err == nil {
		return n
	}
	return color.Black
}
