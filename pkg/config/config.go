// Package config loads and validates patchlayout settings.
//
// Settings come from a TOML or YAML file, chosen by file extension, layered
// over [Default]. The default location follows the XDG base directory
// convention: $XDG_CONFIG_HOME/patchlayout/config.toml, or
// ~/.config/patchlayout/config.toml.
//
// A minimal file:
//
//	[canvas]
//	cell_width = 16
//	cell_height = 12
//	box_spacing = 4
//
//	[arrange]
//	hardware_on_sides = true
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/layout/arrange"
	"github.com/matzehuels/patchlayout/pkg/core/layout/repulse"
	"github.com/matzehuels/patchlayout/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "patchlayout"

// Cache backends.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// Config holds every patchlayout setting.
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas" yaml:"canvas" json:"canvas"`
	Arrange ArrangeConfig `toml:"arrange" yaml:"arrange" json:"arrange"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache" json:"cache"`
	Server  ServerConfig  `toml:"server" yaml:"server" json:"server"`
}

// CanvasConfig describes the canvas metrics shared by every layout.
type CanvasConfig struct {
	CellWidth         float64 `toml:"cell_width" yaml:"cell_width" json:"cell_width"`
	CellHeight        float64 `toml:"cell_height" yaml:"cell_height" json:"cell_height"`
	BoxSpacing        float64 `toml:"box_spacing" yaml:"box_spacing" json:"box_spacing"`
	HorizontalSpacing float64 `toml:"horizontal_spacing" yaml:"horizontal_spacing" json:"horizontal_spacing"`
	Magnet            float64 `toml:"magnet" yaml:"magnet" json:"magnet"`
	PreventOverlap    bool    `toml:"prevent_overlap" yaml:"prevent_overlap" json:"prevent_overlap"`
}

// ArrangeConfig controls the whole-canvas arrangements.
type ArrangeConfig struct {
	ColumnGap       float64 `toml:"column_gap" yaml:"column_gap" json:"column_gap"`
	FaceGap         float64 `toml:"face_gap" yaml:"face_gap" json:"face_gap"`
	HardwareOnSides bool    `toml:"hardware_on_sides" yaml:"hardware_on_sides" json:"hardware_on_sides"`
}

// CacheConfig selects where layout results are cached.
type CacheConfig struct {
	Backend   string `toml:"backend" yaml:"backend" json:"backend"` // "file", "redis", "none"
	Dir       string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr" json:"redis_addr,omitempty"`
	TTL       string `toml:"ttl" yaml:"ttl" json:"ttl"`
}

// ServerConfig controls `patchlayout serve`.
type ServerConfig struct {
	Addr         string `toml:"addr" yaml:"addr" json:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			CellWidth:         16,
			CellHeight:        12,
			BoxSpacing:        4,
			HorizontalSpacing: 24,
			Magnet:            12,
			PreventOverlap:    true,
		},
		Arrange: ArrangeConfig{
			ColumnGap:       80,
			FaceGap:         300,
			HardwareOnSides: true,
		},
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			RedisAddr: "localhost:6379",
			TTL:       "24h",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 4 << 20,
		},
	}
}

// Dir returns the patchlayout config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName)
}

// Path returns the default config file path.
func Path() string { return filepath.Join(Dir(), "config.toml") }

// CacheDir returns the default directory of the file cache.
func CacheDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, AppName)
}

// Load reads the config file at path over the defaults and validates the
// result. The format is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault reads the config file at [Path]. A missing file is not an
// error: the defaults are returned.
func LoadDefault() (*Config, error) {
	cfg, err := Load(Path())
	if errors.Is(err, errors.ErrCodeNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes cfg to path, creating its directory. The format is chosen by
// extension like in [Load].
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_ = enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	cv := c.Canvas
	if cv.CellWidth <= 0 || cv.CellHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid cells must be larger than zero (got %gx%g)", cv.CellWidth, cv.CellHeight)
	}
	if cv.BoxSpacing < 0 || cv.HorizontalSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "box spacings must not be negative")
	}
	if cv.Magnet < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "magnet must not be negative (got %g)", cv.Magnet)
	}
	if c.Arrange.ColumnGap < 0 || c.Arrange.FaceGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "arrangement gaps must not be negative")
	}

	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendNone:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}

	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_body_bytes must be positive")
	}
	return nil
}

// CacheTTL parses the cache entry lifetime. An empty value means entries
// never expire.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// Grid returns the snapping grid. Grid lines are offset by half the box
// spacing so that boxes on neighboring lines keep their spacing.
func (c *Config) Grid() geom.Grid {
	return geom.Grid{
		CellWidth:  c.Canvas.CellWidth,
		CellHeight: c.Canvas.CellHeight,
		Offset:     c.Canvas.BoxSpacing / 2,
	}
}

// Resolver returns the overlap resolver metrics.
func (c *Config) Resolver() repulse.Config {
	return repulse.Config{
		Grid:              c.Grid(),
		BoxSpacing:        c.Canvas.BoxSpacing,
		HorizontalSpacing: c.Canvas.HorizontalSpacing,
		Magnet:            c.Canvas.Magnet,
		PreventOverlap:    c.Canvas.PreventOverlap,
	}
}

// Arrangement returns the metrics of the follow-signal and face-to-face
// arrangements.
func (c *Config) Arrangement() arrange.Config {
	return arrange.Config{
		Resolver:        c.Resolver(),
		ColumnGap:       c.Arrange.ColumnGap,
		FaceGap:         c.Arrange.FaceGap,
		HardwareOnSides: c.Arrange.HardwareOnSides,
	}
}
