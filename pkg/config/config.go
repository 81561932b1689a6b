// Package config loads cellblend settings from TOML.
//
// Settings come from three layers, later layers winning: built-in defaults,
// an optional TOML file, and command-line flags applied by the CLI. A
// complete file looks like:
//
//	width = 500.0
//	height = 500.0
//	points = 10
//	threshold = 50.0
//	seed = 0
//	palette_mode = "default"   # default | generated | custom
//	palette = []               # used when palette_mode = "custom"
//
//	[cache]
//	backend = "file"           # none | file | redis
//	dir = ""
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/errors"
	"github.com/matzehuels/cellblend/pkg/points"
)

// Default values.
const (
	DefaultPoints      = 10
	DefaultPaletteSize = 10
	DefaultServerAddr  = ":8080"
	DefaultRedisAddr   = "localhost:6379"
	DefaultCacheTTL    = 24 * time.Hour
)

// Palette modes.
const (
	PaletteDefault   = "default"
	PaletteGenerated = "generated"
	PaletteCustom    = "custom"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config holds every setting cellblend reads.
type Config struct {
	Width       float64  `toml:"width"`
	Height      float64  `toml:"height"`
	Points      int      `toml:"points"`
	Threshold   float64  `toml:"threshold"`
	Seed        uint64   `toml:"seed"`
	PaletteMode string   `toml:"palette_mode"`
	Palette     []string `toml:"palette"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration that decodes from TOML strings like "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a Config with every default applied.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued fields with defaults.
func (c *Config) SetDefaults() {
	if c.Width == 0 {
		c.Width = points.DefaultBounds.Width
	}
	if c.Height == 0 {
		c.Height = points.DefaultBounds.Height
	}
	if c.Points == 0 {
		c.Points = DefaultPoints
	}
	if c.Threshold == 0 {
		c.Threshold = color.DefaultThreshold
	}
	if c.PaletteMode == "" {
		c.PaletteMode = PaletteDefault
		if len(c.Palette) > 0 {
			c.PaletteMode = PaletteCustom
		}
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = DefaultRedisAddr
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := errors.ValidateDimension("width", c.Width); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "width")
	}
	if err := errors.ValidateDimension("height", c.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "height")
	}
	if err := errors.ValidatePointCount(c.Points); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "points")
	}
	if c.Threshold <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "threshold must be positive, got %v", c.Threshold)
	}
	switch c.PaletteMode {
	case PaletteDefault, PaletteGenerated:
	case PaletteCustom:
		if _, err := color.ParsePalette(c.Palette); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown palette mode %q", c.PaletteMode)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// Bounds returns the configured plane.
func (c *Config) Bounds() points.Bounds {
	return points.Bounds{Width: c.Width, Height: c.Height}
}

// ResolvePalette returns the palette selected by PaletteMode.
// Generated palettes are drawn from rng.
func (c *Config) ResolvePalette(rng *rand.Rand) (color.Palette, error) {
	switch c.PaletteMode {
	case PaletteGenerated:
		return color.GeneratePalette(DefaultPaletteSize, rng), nil
	case PaletteCustom:
		return color.ParsePalette(c.Palette)
	default:
		return color.DefaultPalette, nil
	}
}

// Load reads a TOML file at path on top of the defaults.
// A missing file is not an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && optional:
	case err != nil:
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	default:
		if err := Decode(data, &c); err != nil {
			return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}
	c.SetDefaults()
	return c, nil
}

// Decode parses TOML data into c. Unknown keys are rejected.
func Decode(data []byte, c *Config) error {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	return nil
}

// DefaultPath returns the XDG config file location
// (~/.config/cellblend/config.toml).
func DefaultPath(app string) (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, app, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", app, "config.toml"), nil
}
