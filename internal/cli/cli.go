package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patchlayout/pkg/cache"
	"github.com/matzehuels/patchlayout/pkg/config"
	"github.com/matzehuels/patchlayout/pkg/observability"
	"github.com/matzehuels/patchlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results; status lines and logs go to stderr.
	Out io.Writer

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration, or the defaults before the root
// command ran.
func (c *CLI) Config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// loadConfig reads --config, or the default file when the flag is empty.
func (c *CLI) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	if ttl, err := c.Config().CacheTTL(); err == nil {
		r.TTL = ttl
	}
	return r, nil
}

// newCache opens the configured cache. A cache that cannot be opened
// disables caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config()
	if noCache || cfg.Cache.Backend == config.CacheBackendNone {
		return cache.NewNullCache(), nil
	}
	cc, err := cache.Open(ctx, cache.Options{
		Backend:   cfg.Cache.Backend,
		Dir:       cacheDir(cfg),
		RedisAddr: cfg.Cache.RedisAddr,
		Logger:    c.Logger,
	})
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return cc, nil
}

// installHooks routes observability events to the CLI logger.
func (c *CLI) installHooks() {
	h := observability.NewLogHooks(c.Logger)
	observability.SetLayoutHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// options returns pipeline options carrying the configured metrics.
func (c *CLI) options() pipeline.Options {
	cfg := c.Config()
	return pipeline.Options{
		HardwareOnSides: cfg.Arrange.HardwareOnSides,
		Metrics:         cfg.Arrangement(),
		Logger:          c.Logger,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, or the
// XDG cache directory (~/.cache/patchlayout/).
func cacheDir(cfg *config.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	return config.CacheDir()
}
