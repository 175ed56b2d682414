package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/patchlayout/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve the layout engine as an HTTP JSON API.

Endpoints: POST /v1/columns, POST /v1/arrange, POST /v1/resolve, GET /healthz.
Results are cached in the configured cache backend; a redis backend lets
several servers share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config()
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			c.installHooks()
			srv := server.New(runner,
				server.WithLogger(c.Logger),
				server.WithMetrics(cfg.Arrangement()),
				server.WithHardwareOnSides(cfg.Arrange.HardwareOnSides),
				server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
