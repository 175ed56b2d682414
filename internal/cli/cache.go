package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patchlayout/pkg/cache"
	"github.com/matzehuels/patchlayout/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config()
			if cfg.Cache.Backend == config.CacheBackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			cc, err := cache.Open(cmd.Context(), cache.Options{
				Backend:   cfg.Cache.Backend,
				Dir:       cacheDir(cfg),
				RedisAddr: cfg.Cache.RedisAddr,
				Logger:    c.Logger,
			})
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %q cannot be cleared", cfg.Cache.Backend)
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			switch cfg.Cache.Backend {
			case config.CacheBackendRedis:
				printDetail("Redis: %s", cfg.Cache.RedisAddr)
			default:
				printDetail("Directory: %s", cacheDir(cfg))
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.out(), cacheDir(c.Config()))
			return err
		},
	}
}
