// Package pipeline turns diagram states into output artifacts.
//
// The CLI's render command and the HTTP server both render through a
// [Runner], so they share one cache and one set of format rules.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Render(ctx, store.Snapshot(), pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Each artifact is cached under a key derived from the state's points and
// the options that affect that format, so re-rendering an unchanged diagram
// is a cache read.
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/cellblend/pkg/cache"
	"github.com/matzehuels/cellblend/pkg/errors"
	"github.com/matzehuels/cellblend/pkg/render"
)

// Output formats.
const (
	FormatSVG       = "svg"
	FormatPNG       = "png"
	FormatJSON      = "json"
	FormatDOT       = "dot"
	FormatAdjacency = "adjacency" // neighbor graph as SVG
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON, FormatDOT, FormatAdjacency}

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 1.0

	// DefaultTTL is how long artifacts stay cached.
	DefaultTTL = 24 * time.Hour
)

// Extension returns the file extension used when writing format to disk.
func Extension(format string) string {
	if format == FormatAdjacency {
		return "adjacency.svg"
	}
	return format
}

// ContentType returns the MIME type of an artifact.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatAdjacency:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz"
	}
}

// Options controls a render run.
type Options struct {
	Formats    []string `json:"formats,omitempty"`
	Resolution int      `json:"resolution,omitempty"` // raster columns
	Scale      float64  `json:"scale,omitempty"`      // PNG only
	Sites      bool     `json:"sites,omitempty"`
	ClickPath  string   `json:"click_path,omitempty"` // SVG click script target
	Detailed   bool     `json:"detailed,omitempty"`   // DOT and adjacency labels

	TTL     time.Duration `json:"-"`
	Refresh bool          `json:"-"` // bypass cache reads
}

// ValidateAndSetDefaults lowercases and deduplicates formats, fills in
// defaults, and rejects unknown formats.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	seen := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, Formats); err != nil {
			return err
		}
		if f = strings.ToLower(f); !slices.Contains(seen, f) {
			seen = append(seen, f)
		}
	}
	o.Formats = seen

	if o.Resolution < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "resolution cannot be negative: %d", o.Resolution)
	}
	if o.Resolution == 0 {
		o.Resolution = render.DefaultResolution
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale cannot be negative: %g", o.Scale)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	return nil
}

// ArtifactKeyOpts returns the options relevant to one format's cache key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Resolution = o.Resolution
		k.ShowSites = o.Sites
		k.Interactive = o.ClickPath != ""
	case FormatPNG:
		k.Resolution = o.Resolution
		k.ShowSites = o.Sites
		k.Scale = o.Scale
	case FormatDOT, FormatAdjacency:
		k.Detailed = o.Detailed
	}
	return k
}

// Result holds the artifacts of one run.
type Result struct {
	// StateHash identifies the rendered points.
	StateHash string

	// Artifacts maps format to bytes.
	Artifacts map[string][]byte

	// Hits lists formats served from the cache.
	Hits []string

	Duration time.Duration
}
