package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellblend/pkg/config"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/pipeline"
	"github.com/matzehuels/cellblend/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // base path; the format extension is appended
	input      string // state JSON to start from instead of fresh points
	formats    string
	clicks     []int // cell indices clicked in order
	resolution int
	scale      float64
	sites      bool
	detailed   bool
	noCache    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags diagramFlags
	opts := renderOpts{output: appName, scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a diagram to files",
		Long: `Render a diagram to files, optionally after a sequence of clicks.

Each --click index refers to the diagram as it is when that click happens,
so indices shift down after cells are removed.`,
		Example: `  cellblend render --seed 7 --click 3 --click 0 -f svg,png
  cellblend render -i saved.json -f adjacency -o board`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, &opts)
		},
	}

	addDiagramFlags(cmd, &flags)
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output base path")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "start from a state saved as JSON")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated)")
	cmd.Flags().IntSliceVar(&opts.clicks, "click", nil, "click cell index before rendering (repeatable)")
	cmd.Flags().IntVar(&opts.resolution, "resolution", render.DefaultResolution, "raster columns for svg and png")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")
	cmd.Flags().BoolVar(&opts.sites, "sites", false, "draw a dot on every point")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label neighbor graph nodes with colors")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg config.Config, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var loaded *diagram.State
	if opts.input != "" {
		st, err := render.ImportJSON(opts.input)
		if err != nil {
			return err
		}
		cfg.Width, cfg.Height = st.Bounds.Width, st.Bounds.Height
		loaded = &st
	}

	g, err := c.newGame(cfg)
	if err != nil {
		return err
	}
	if loaded != nil {
		if _, err := g.store.Replace(loaded.Points); err != nil {
			return fmt.Errorf("load %s: %w", opts.input, err)
		}
		logger.Infof("Loaded %d cells from %s", loaded.Len(), opts.input)
	}

	removed := 0
	for _, i := range opts.clicks {
		out, err := g.ctrl.Click(ctx, i)
		if err != nil {
			return fmt.Errorf("click %d: %w", i, err)
		}
		removed += len(out.Removed)
		logger.Debug("clicked", "cell", i, "blends", len(out.Blends), "converged", out.Converged)
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	st := g.store.Snapshot()
	sp := newSpinnerWithContext(ctx, "Rendering")
	sp.Start()
	res, err := runner.Render(ctx, st, pipeline.Options{
		Formats:    parseList(opts.formats),
		Resolution: opts.resolution,
		Scale:      opts.scale,
		Sites:      opts.sites,
		Detailed:   opts.detailed,
		TTL:        cfg.Cache.TTL.Duration,
	})
	sp.Stop()
	if err != nil {
		return err
	}

	base := basePath(opts.output)
	var paths []string
	for _, f := range pipelineOrder(res.Artifacts) {
		path := base + "." + pipeline.Extension(f)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	prog.done(fmt.Sprintf("Rendered %d cells", st.Len()))
	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(st.Len(), len(opts.clicks), removed, len(res.Hits) == len(res.Artifacts))
	printNextStep("Play it interactively", "cellblend serve")
	return nil
}

// pipelineOrder returns the artifact formats in the canonical format order.
func pipelineOrder(artifacts map[string][]byte) []string {
	var out []string
	for _, f := range pipeline.Formats {
		if _, ok := artifacts[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// basePath strips a known format extension from output.
func basePath(output string) string {
	// Longest extension first so "x.adjacency.svg" is not read as "x.adjacency" + ".svg".
	formats := []string{pipeline.FormatAdjacency, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatJSON, pipeline.FormatDOT}
	for _, f := range formats {
		if ext := "." + pipeline.Extension(f); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
