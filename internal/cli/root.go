package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/patchlayout/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent pre-run loads the configuration named by --config (or the
// default file, when present) and attaches the logger to the command
// context. Commands retrieve it with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Patchlayout arranges patchbay boxes along the signal flow",
		Long: `Patchlayout lays out the routing graph of an audio/MIDI patchbay as boxes on a canvas.

It assigns every client to a column following the signal flow, splitting
clients that sit on a connection cycle, and moves boxes apart so that no two
of them overlap.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint()+")")

	root.AddCommand(c.columnsCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func defaultConfigHint() string {
	return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
}
