package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellblend/pkg/cache"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/observability"
	"github.com/matzehuels/cellblend/pkg/points"
)

// Runner renders states with artifact caching.
//
// A Runner holds no per-run state; one Runner may serve concurrent renders.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer selects the default keyer, a nil cache disables caching, and a
// nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// StateHash hashes the parts of s that affect rendering: bounds and points.
// Generation and version are left out, so identical diagrams share artifacts.
func StateHash(s diagram.State) string {
	data, _ := json.Marshal(struct {
		Bounds points.Bounds  `json:"bounds"`
		Points []points.Point `json:"points"`
	}{s.Bounds, s.Points})
	return cache.Hash(data)
}

// Render renders every requested format, reading and filling the cache.
// Cache failures are logged and never fail the render.
func (r *Runner) Render(ctx context.Context, s diagram.State, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Formats, s.Len())

	res := &Result{
		StateHash: StateHash(s),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	rend := newRenderer(s, opts)

	var err error
	for _, f := range opts.Formats {
		var hit bool
		if res.Artifacts[f], hit, err = r.renderCached(ctx, rend, res.StateHash, f, opts); err != nil {
			err = fmt.Errorf("render %s: %w", f, err)
			break
		}
		if hit {
			res.Hits = append(res.Hits, f)
		}
	}
	res.Duration = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, res.Duration, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("rendered diagram",
		"cells", s.Len(),
		"formats", opts.Formats,
		"cached", len(res.Hits),
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) renderCached(ctx context.Context, rend *renderer, hash, format string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
	hooks := observability.Cache()

	if !opts.Refresh {
		data, ok, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		} else if ok {
			hooks.OnCacheHit(ctx, key)
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, key)
	}

	data, err := rend.Render(ctx, format)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "error", err)
	} else {
		hooks.OnCacheSet(ctx, key, len(data))
	}
	return data, false, nil
}
