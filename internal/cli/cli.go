package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellblend/pkg/buildinfo"
	"github.com/matzehuels/cellblend/pkg/cache"
	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/config"
	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/interact"
	"github.com/matzehuels/cellblend/pkg/pipeline"
	"github.com/matzehuels/cellblend/pkg/points"
)

// appName is the application name used for directories and display.
const appName = "cellblend"

// redisKeyPrefix namespaces artifact keys in a shared Redis.
const redisKeyPrefix = appName + ":"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded by the root command before any subcommand runs.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cellblend is a color-blending game played on a Voronoi diagram",
		Long: `cellblend scatters colored points over a plane and divides it into cells,
one per point. Clicking a cell pulls its neighbors' colors toward its own;
when a neighbor ends up close enough in color, both cells disappear.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/cellblend/config.toml)")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the default path if it exists.
func (c *CLI) loadConfig() error {
	path, optional := c.configPath, false
	if path == "" {
		p, err := config.DefaultPath(appName)
		if err != nil {
			return nil
		}
		path, optional = p, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// diagramFlags are the per-command overrides of the diagram settings.
type diagramFlags struct {
	points    int
	width     float64
	height    float64
	seed      uint64
	threshold float64
	palette   string
	generate  bool
}

func addDiagramFlags(cmd *cobra.Command, f *diagramFlags) {
	cmd.Flags().IntVarP(&f.points, "points", "n", config.DefaultPoints, "number of points")
	cmd.Flags().Float64Var(&f.width, "width", points.DefaultBounds.Width, "plane width")
	cmd.Flags().Float64Var(&f.height, "height", points.DefaultBounds.Height, "plane height")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", color.DefaultThreshold, "color distance below which two cells converge")
	cmd.Flags().StringVar(&f.palette, "palette", "", "comma-separated custom palette, e.g. #FF0000,#00FF00")
	cmd.Flags().BoolVar(&f.generate, "generate-palette", false, "generate a palette instead of using the default one")
}

// resolveConfig returns the loaded config with the flags the user set applied.
func (c *CLI) resolveConfig(cmd *cobra.Command, f *diagramFlags) (config.Config, error) {
	cfg := c.Config
	changed := cmd.Flags().Changed
	if changed("points") {
		cfg.Points = f.points
	}
	if changed("width") {
		cfg.Width = f.width
	}
	if changed("height") {
		cfg.Height = f.height
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if f.generate {
		cfg.PaletteMode = config.PaletteGenerated
	}
	if f.palette != "" {
		cfg.PaletteMode = config.PaletteCustom
		cfg.Palette = parseList(f.palette)
	}
	return cfg, cfg.Validate()
}

// game is a store with its controller, built from one config.
type game struct {
	cfg     config.Config
	palette color.Palette
	store   *diagram.Store
	ctrl    *interact.Controller
}

func (c *CLI) newGame(cfg config.Config) (*game, error) {
	gen := points.NewGenerator(cfg.Bounds(), nil, cfg.Seed)
	pal, err := cfg.ResolvePalette(gen.Rand())
	if err != nil {
		return nil, err
	}
	gen.Palette = pal

	store := diagram.NewStore(gen, cfg.Points, c.Logger)
	return &game{
		cfg:     cfg,
		palette: pal,
		store:   store,
		ctrl:    interact.New(store, nil, cfg.Threshold, c.Logger),
	}, nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, redisKeyPrefix), c.Logger), nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				c.Logger.Warn("caching disabled", "error", err)
				return pipeline.NewRunner(nil, nil, c.Logger), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return pipeline.NewRunner(fc, nil, c.Logger), nil
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/cellblend/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseList splits a comma-separated flag value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
