package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/partition"
	"github.com/matzehuels/cellblend/pkg/render"
	"github.com/matzehuels/cellblend/pkg/render/nodelink"
)

// renderer renders one state, building its partitioner at most once.
type renderer struct {
	state diagram.State
	opts  Options
	part  partition.Partitioner
}

func newRenderer(s diagram.State, opts Options) *renderer {
	return &renderer{state: s, opts: opts}
}

func (r *renderer) partitioner() partition.Partitioner {
	if r.part == nil {
		r.part = partition.New(r.state.Points)
	}
	return r.part
}

func (r *renderer) renderOpts() []render.Option {
	opts := []render.Option{
		render.WithResolution(r.opts.Resolution),
		render.WithScale(r.opts.Scale),
		render.WithPartitioner(r.partitioner()),
	}
	if r.opts.Sites {
		opts = append(opts, render.WithSites())
	}
	return opts
}

// Render produces one format.
func (r *renderer) Render(ctx context.Context, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		opts := r.renderOpts()
		if r.opts.ClickPath != "" {
			opts = append(opts, render.WithClickScript(r.opts.ClickPath))
		}
		return render.SVG(r.state, opts...), nil
	case FormatPNG:
		return render.PNG(r.state, r.renderOpts()...)
	case FormatJSON:
		var buf bytes.Buffer
		if err := render.WriteJSON(r.state, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(r.dot()), nil
	case FormatAdjacency:
		return nodelink.RenderSVG(ctx, r.dot())
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *renderer) dot() string {
	return nodelink.ToDOT(r.state, r.partitioner(), nodelink.Options{Detailed: r.opts.Detailed})
}

// Render renders s without caching.
func Render(ctx context.Context, s diagram.State, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r := newRenderer(s, opts)
	out := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, err := r.Render(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		out[f] = data
	}
	return out, nil
}
