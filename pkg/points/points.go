// Package points generates the labeled points a diagram is built from.
//
// Coordinates are drawn uniformly from a [Bounds] rectangle and colors are
// drawn uniformly and independently from a palette. Every point gets its own
// draw, so two neighbors can share a color and a palette color can be absent
// from a small diagram.
package points

import (
	"math/rand/v2"
	"time"

	"github.com/matzehuels/cellblend/pkg/color"
)

// Point is one site of the partition.
type Point struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Color color.Hex `json:"color"`
}

// Bounds is the plane [0, Width) x [0, Height).
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultBounds is the plane used when no size is configured.
var DefaultBounds = Bounds{Width: 500, Height: 500}

// Contains reports whether (x, y) lies inside b.
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Generator draws points and colors from a seeded source.
// A Generator is not safe for concurrent use.
type Generator struct {
	Bounds  Bounds
	Palette color.Palette
	rng     *rand.Rand
}

// NewGenerator returns a generator over bounds and palette.
// A zero seed selects a time-based seed.
func NewGenerator(bounds Bounds, palette color.Palette, seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		Bounds:  bounds,
		Palette: palette,
		rng:     rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
	}
}

// Rand exposes the generator's random source.
func (g *Generator) Rand() *rand.Rand { return g.rng }

// Generate returns n fresh points. n <= 0 yields an empty slice.
func (g *Generator) Generate(n int) []Point {
	if n <= 0 {
		return []Point{}
	}
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			X:     g.rng.Float64() * g.Bounds.Width,
			Y:     g.rng.Float64() * g.Bounds.Height,
			Color: g.Palette.Pick(g.rng),
		}
	}
	return pts
}

// Recolor returns a copy of pts with every color redrawn from the palette.
func (g *Generator) Recolor(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		p.Color = g.Palette.Pick(g.rng)
		out[i] = p
	}
	return out
}
