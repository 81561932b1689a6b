package partition

import "github.com/matzehuels/cellblend/pkg/points"

// Grid maps raster cells to the index of the partition cell that owns them.
type Grid struct {
	Cols, Rows int
	Owner      []int // row-major, len Cols*Rows; -1 where there are no cells
}

// At returns the owner of raster cell (col, row).
func (g Grid) At(col, row int) int {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return -1
	}
	return g.Owner[row*g.Cols+col]
}

// Raster samples p at the center of every cell of a cols x rows grid laid
// over bounds.
func Raster(p Partitioner, bounds points.Bounds, cols, rows int) Grid {
	g := Grid{Cols: max(cols, 0), Rows: max(rows, 0)}
	g.Owner = make([]int, g.Cols*g.Rows)
	if g.Cols == 0 || g.Rows == 0 {
		return g
	}
	cw := bounds.Width / float64(g.Cols)
	ch := bounds.Height / float64(g.Rows)
	for row := 0; row < g.Rows; row++ {
		y := (float64(row) + 0.5) * ch
		for col := 0; col < g.Cols; col++ {
			x := (float64(col) + 0.5) * cw
			g.Owner[row*g.Cols+col] = p.Locate(x, y)
		}
	}
	return g
}

// Span is a horizontal run of raster cells with the same owner.
type Span struct {
	Row, Col, Len int
	Owner         int
}

// Spans splits every grid row into runs of equal owners.
func (g Grid) Spans() []Span {
	var out []Span
	for row := 0; row < g.Rows; row++ {
		start := 0
		for col := 1; col <= g.Cols; col++ {
			if col < g.Cols && g.At(col, row) == g.At(start, row) {
				continue
			}
			out = append(out, Span{Row: row, Col: start, Len: col - start, Owner: g.At(start, row)})
			start = col
		}
	}
	return out
}

// Edge is a straight run of raster cell sides separating two owners. A
// vertical edge lies on the left side of column Col and covers Len rows from
// Row; a horizontal edge lies on the top side of row Row and covers Len
// columns from Col.
type Edge struct {
	Vertical      bool
	Row, Col, Len int
}

// Edges returns the borders between cells inside the grid, merged into
// maximal runs. The outer frame of the grid is not included.
func (g Grid) Edges() []Edge {
	var out []Edge
	for col := 1; col < g.Cols; col++ {
		start := -1
		for row := 0; row <= g.Rows; row++ {
			border := row < g.Rows && g.At(col-1, row) != g.At(col, row)
			if border && start < 0 {
				start = row
			} else if !border && start >= 0 {
				out = append(out, Edge{Vertical: true, Row: start, Col: col, Len: row - start})
				start = -1
			}
		}
	}
	for row := 1; row < g.Rows; row++ {
		start := -1
		for col := 0; col <= g.Cols; col++ {
			border := col < g.Cols && g.At(col, row-1) != g.At(col, row)
			if border && start < 0 {
				start = col
			} else if !border && start >= 0 {
				out = append(out, Edge{Row: row, Col: start, Len: col - start})
				start = -1
			}
		}
	}
	return out
}
