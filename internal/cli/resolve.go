package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/patchlayout/pkg/graph"
)

// resolveOpts holds the flags of the resolve command.
type resolveOpts struct {
	output      string
	all         bool
	interactive bool
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve <request.json>",
		Short: "Compute the moves that keep boxes from overlapping",
		Long: `Compute the moves that keep the boxes of a resolve request from overlapping.

The request lists the scene boxes and the repulsers that just moved. With
--all the whole scene is settled instead. With --interactive the moves are
shown in a table for review before they are written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "settle the whole scene, ignoring repulsers")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "review the moves before writing them")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, path string, opts resolveOpts) error {
	req, err := graph.ReadResolveRequestFile(path)
	if err != nil {
		return err
	}
	if opts.all {
		req.All = true
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Resolve(ctx, req, c.options())
	if err != nil {
		return err
	}

	if opts.interactive {
		final, err := tea.NewProgram(NewMoveListModel(res.Moves, req.Boxes), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("move browser: %w", err)
		}
		if m, ok := final.(MoveListModel); !ok || !m.Accepted {
			printWarning("Discarded %d move(s)", len(res.Moves))
			return nil
		}
	}

	return c.writeResult(opts.output, res, fmt.Sprintf("Resolved %d move(s)", len(res.Moves)))
}

// writeResult writes v as JSON to path, or to the command output when path
// is empty.
func (c *CLI) writeResult(path string, v any, summary string) error {
	if path == "" {
		return graph.Write(c.out(), v)
	}
	if err := graph.WriteFile(path, v); err != nil {
		return err
	}
	printSuccess("%s", summary)
	printFile(path)
	return nil
}

func (c *CLI) out() io.Writer {
	if c.Out == nil {
		return io.Discard
	}
	return c.Out
}
