package render

import (
	"bytes"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/errors"
	"github.com/matzehuels/cellblend/pkg/points"
)

func halves() diagram.State {
	return diagram.State{
		Generation: "gen",
		Version:    3,
		Bounds:     points.Bounds{Width: 100, Height: 100},
		Points: []points.Point{
			{X: 25, Y: 50, Color: "#FF0000"},
			{X: 75, Y: 50, Color: "#0000FF"},
		},
	}
}

func TestSVG(t *testing.T) {
	svg := string(SVG(halves(), WithResolution(4)))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if n := strings.Count(svg, `class="cell"`); n != 8 {
		t.Errorf("got %d cell spans, want 8 (two per row)", n)
	}
	for _, want := range []string{
		`data-index="0" x="0.00" y="0.00" width="50.00" height="25.00" fill="#FF0000"`,
		`data-index="1" x="50.00" y="75.00" width="50.00" height="25.00" fill="#0000FF"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(svg, "<script") {
		t.Error("script emitted without WithClickScript")
	}
	if strings.Contains(svg, `class="site"`) {
		t.Error("sites emitted without WithSites")
	}
}

func TestSVGSitesAndScript(t *testing.T) {
	svg := string(SVG(halves(), WithResolution(4), WithSites(), WithClickScript("/cells/{index}/click")))

	if n := strings.Count(svg, `class="site"`); n != 2 {
		t.Errorf("got %d sites, want 2", n)
	}
	if !strings.Contains(svg, `"/cells/{index}/click"`) {
		t.Error("click path missing from script")
	}
}

func TestSVGEmptyState(t *testing.T) {
	s := diagram.State{Bounds: points.Bounds{Width: 10, Height: 10}}
	svg := string(SVG(s))
	if strings.Contains(svg, `class="cell"`) {
		t.Error("empty state should draw no cells")
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG(halves(), WithResolution(10), WithScale(2))
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("size = %dx%d, want 200x200", b.Dx(), b.Dy())
	}

	tests := []struct {
		x, y    int
		r, g, b uint32
	}{
		{20, 100, 0xFF, 0, 0},
		{180, 100, 0, 0, 0xFF},
		{100, 100, 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b, _ := img.At(tt.x, tt.y).RGBA()
		if r>>8 != tt.r || g>>8 != tt.g || b>>8 != tt.b {
			t.Errorf("pixel (%d,%d) = %02X%02X%02X", tt.x, tt.y, r>>8, g>>8, b>>8)
		}
	}
}

func TestSVGOutlines(t *testing.T) {
	svg := string(SVG(halves(), WithResolution(4)))
	if n := strings.Count(svg, `class="edges"`); n != 1 {
		t.Fatalf("edges paths = %d, want 1", n)
	}
	if !strings.Contains(svg, `d="M50.00 0.00V100.00"`) {
		t.Errorf("missing border between the halves:\n%s", svg)
	}

	one := halves()
	one.Points = one.Points[:1]
	if strings.Contains(string(SVG(one, WithResolution(4))), `class="edges"`) {
		t.Error("a single cell has no borders")
	}
}

func TestPNGEmptyCanvas(t *testing.T) {
	if _, err := PNG(diagram.State{}); err == nil {
		t.Error("expected error for zero bounds")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	in := halves()
	if err := ExportJSON(in, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	out, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if out.Generation != in.Generation || out.Version != in.Version || out.Bounds != in.Bounds {
		t.Errorf("header = %+v, want %+v", out, in)
	}
	for i := range in.Points {
		if out.Points[i] != in.Points[i] {
			t.Errorf("point %d = %+v, want %+v", i, out.Points[i], in.Points[i])
		}
	}
}

func TestReadJSONNormalizesColors(t *testing.T) {
	in := `{"bounds":{"width":10,"height":10},"points":[{"x":1,"y":1,"color":"#abcdef"}]}`
	s, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if s.Points[0].Color != "#ABCDEF" {
		t.Errorf("color = %s, want #ABCDEF", s.Points[0].Color)
	}
}

func TestReadJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"syntax", `{`, errors.ErrCodeInvalidInput},
		{"no bounds", `{"points":[]}`, errors.ErrCodeInvalidInput},
		{"outside", `{"bounds":{"width":10,"height":10},"points":[{"x":11,"y":1,"color":"#000000"}]}`, errors.ErrCodeInvalidInput},
		{"color", `{"bounds":{"width":10,"height":10},"points":[{"x":1,"y":1,"color":"red"}]}`, errors.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}
