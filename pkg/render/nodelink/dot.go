package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/partition"
)

// Options configures neighbor graph generation.
type Options struct {
	// Detailed adds the color to node labels and links hull cells to an
	// "outside" node.
	Detailed bool
}

const outsideNode = "outside"

// ToDOT converts a state and its partitioner to an undirected DOT graph.
// Edges are emitted once per adjacent pair, lower index first.
func ToDOT(s diagram.State, p partition.Partitioner, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14, width=0.5, fixedsize=false];\n")
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("\n")

	hull := false
	for i, pt := range s.Points {
		fmt.Fprintf(&buf, "  %d [%s];\n", i, strings.Join(fmtAttrs(i, pt.Color, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for i := range s.Points {
		for _, j := range p.Neighbors(i) {
			switch {
			case j == partition.Boundary:
				if opts.Detailed {
					fmt.Fprintf(&buf, "  %d -- %s [style=dashed];\n", i, outsideNode)
					hull = true
				}
			case j > i && j < len(s.Points):
				fmt.Fprintf(&buf, "  %d -- %d;\n", i, j)
			}
		}
	}
	if hull {
		fmt.Fprintf(&buf, "  %s [shape=box, style=dashed, label=%q];\n", outsideNode, outsideNode)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(i int, c color.Hex, detailed bool) []string {
	h, err := color.Normalize(string(c))
	if err != nil {
		h = color.Black
	}
	label := strconv.Itoa(i)
	if detailed {
		label += "\n" + string(h)
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", string(h)),
		fmt.Sprintf("fontcolor=%q", string(color.Contrast(h))),
	}
}

// RenderSVG lays out a DOT graph and renders it to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// pixel one so the graph scales like the other renderings.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	head := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(head))
}
