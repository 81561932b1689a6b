// Package partition answers adjacency questions about a set of points.
//
// The partition of the plane into cells (one per point, each cell holding
// the locations closer to its point than to any other) is never built here.
// [Delaunay] delegates to a Delaunay triangulation, whose edges connect
// exactly the points whose cells share a boundary, and reads neighbor sets
// off the triangle list.
//
// Points on the convex hull own unbounded cells. Their neighbor lists end
// with the [Boundary] sentinel, which callers must filter out.
package partition

import (
	"cmp"
	"math"
	"slices"

	"github.com/fogleman/delaunay"

	"github.com/matzehuels/cellblend/pkg/points"
)

// Boundary marks the unbounded side of a hull cell in a neighbor list.
const Boundary = -1

// Partitioner reports adjacency between the cells of a point set.
type Partitioner interface {
	// Len returns the number of cells.
	Len() int

	// Neighbors returns the cells adjacent to cell i in ascending order,
	// followed by Boundary if the cell is unbounded. An out-of-range i
	// yields nil.
	Neighbors(i int) []int

	// Locate returns the cell containing (x, y), or -1 if there are no cells.
	Locate(x, y float64) int
}

// Builder constructs a Partitioner for a point set.
type Builder func(pts []points.Point) Partitioner

// Delaunay is a Partitioner backed by a Delaunay triangulation.
type Delaunay struct {
	pts       []points.Point
	neighbors [][]int
}

// New triangulates pts.
//
// Inputs with no triangulation (fewer than three points, or all points on
// one line) fall back to a chain: points are ordered along the line and each
// one neighbors its predecessor and successor.
func New(pts []points.Point) *Delaunay {
	d := &Delaunay{
		pts:       slices.Clone(pts),
		neighbors: make([][]int, len(pts)),
	}
	if len(pts) < 3 {
		d.chain()
		return d
	}

	in := make([]delaunay.Point, len(pts))
	for i, p := range pts {
		in[i] = delaunay.Point{X: p.X, Y: p.Y}
	}

	tri, err := delaunay.Triangulate(in)
	if err != nil || len(tri.Triangles) == 0 {
		d.chain()
		return d
	}
	d.fromTriangles(tri)
	return d
}

// NewPartitioner is a [Builder] for [Delaunay].
func NewPartitioner(pts []points.Point) Partitioner { return New(pts) }

func (d *Delaunay) fromTriangles(tri *delaunay.Triangulation) {
	sets := make([]map[int]struct{}, len(d.pts))
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}
	link := func(a, b int) {
		if a == b {
			return
		}
		sets[a][b] = struct{}{}
		sets[b][a] = struct{}{}
	}
	for t := 0; t+2 < len(tri.Triangles); t += 3 {
		a, b, c := tri.Triangles[t], tri.Triangles[t+1], tri.Triangles[t+2]
		link(a, b)
		link(b, c)
		link(c, a)
	}

	hull := make(map[int]struct{})
	for e, opposite := range tri.Halfedges {
		if opposite == -1 {
			hull[tri.Triangles[e]] = struct{}{}
			hull[tri.Triangles[nextHalfedge(e)]] = struct{}{}
		}
	}

	for i, set := range sets {
		ns := make([]int, 0, len(set)+1)
		for j := range set {
			ns = append(ns, j)
		}
		slices.Sort(ns)
		if _, ok := hull[i]; ok {
			ns = append(ns, Boundary)
		}
		d.neighbors[i] = ns
	}
}

func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

func (d *Delaunay) chain() {
	order := make([]int, len(d.pts))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		pa, pb := d.pts[a], d.pts[b]
		if c := cmp.Compare(pa.X, pb.X); c != 0 {
			return c
		}
		return cmp.Compare(pa.Y, pb.Y)
	})

	for k, i := range order {
		var ns []int
		if k > 0 {
			ns = append(ns, order[k-1])
		}
		if k < len(order)-1 {
			ns = append(ns, order[k+1])
		}
		slices.Sort(ns)
		d.neighbors[i] = append(ns, Boundary)
	}
}

// Len implements Partitioner.
func (d *Delaunay) Len() int { return len(d.pts) }

// Neighbors implements Partitioner.
func (d *Delaunay) Neighbors(i int) []int {
	if i < 0 || i >= len(d.neighbors) {
		return nil
	}
	return slices.Clone(d.neighbors[i])
}

// Locate implements Partitioner. Ties go to the lower index.
func (d *Delaunay) Locate(x, y float64) int {
	return nearest(d.pts, x, y)
}

func nearest(pts []points.Point, x, y float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, p := range pts {
		dx, dy := p.X-x, p.Y-y
		if dist := dx*dx + dy*dy; dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

var _ Partitioner = (*Delaunay)(nil)
