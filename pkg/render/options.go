package render

import (
	"math"

	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/partition"
)

// DefaultResolution is the number of raster columns used when none is set.
const DefaultResolution = 120

// Option configures SVG and PNG rendering.
type Option func(*options)

type options struct {
	resolution  int
	scale       float64
	sites       bool
	clickPath   string
	partitioner partition.Partitioner
}

// WithResolution sets the number of raster columns. Rows follow the aspect ratio.
func WithResolution(cols int) Option { return func(o *options) { o.resolution = cols } }

// WithScale multiplies the PNG pixel size (default 1).
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithSites draws a dot on every site.
func WithSites() Option { return func(o *options) { o.sites = true } }

// WithClickScript embeds a script that POSTs to path when a cell is clicked.
// The literal "{index}" in path is replaced by the cell index.
func WithClickScript(path string) Option { return func(o *options) { o.clickPath = path } }

// WithPartitioner reuses an already built partitioner for the state's points.
func WithPartitioner(p partition.Partitioner) Option { return func(o *options) { o.partitioner = p } }

func newOptions(opts []Option) options {
	o := options{resolution: DefaultResolution, scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.resolution <= 0 {
		o.resolution = DefaultResolution
	}
	if o.scale <= 0 {
		o.scale = 1
	}
	return o
}

// frame is a rasterized state ready to draw.
type frame struct {
	state        diagram.State
	grid         partition.Grid
	cellW, cellH float64
}

func newFrame(s diagram.State, o options) frame {
	p := o.partitioner
	if p == nil || p.Len() != s.Len() {
		p = partition.New(s.Points)
	}
	cols := o.resolution
	rows := 1
	if s.Bounds.Width > 0 {
		rows = max(1, int(math.Round(float64(cols)*s.Bounds.Height/s.Bounds.Width)))
	}
	f := frame{state: s, grid: partition.Raster(p, s.Bounds, cols, rows)}
	if cols > 0 {
		f.cellW = s.Bounds.Width / float64(cols)
	}
	f.cellH = s.Bounds.Height / float64(rows)
	return f
}

// edgeLine returns the plane coordinates of e's endpoints.
func (f frame) edgeLine(e partition.Edge) (x0, y0, x1, y1 float64) {
	x0, y0 = float64(e.Col)*f.cellW, float64(e.Row)*f.cellH
	if e.Vertical {
		return x0, y0, x0, y0 + float64(e.Len)*f.cellH
	}
	return x0, y0, x0 + float64(e.Len)*f.cellW, y0
}
