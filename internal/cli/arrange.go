package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patchlayout/pkg/graph"
	"github.com/matzehuels/patchlayout/pkg/pipeline"
)

// arrangeOpts holds the flags of the arrange command.
type arrangeOpts struct {
	mode    string
	output  string
	noCache bool
}

// arrangeCommand creates the arrange command.
func (c *CLI) arrangeCommand() *cobra.Command {
	var opts arrangeOpts

	cmd := &cobra.Command{
		Use:   "arrange <snapshot.json>",
		Short: "Place every box of a routing graph on the canvas",
		Long: `Place every box of a routing graph snapshot on the canvas.

Mode "follow" lays the boxes out in columns along the signal flow. Mode
"face" splits every client and puts all outputs in a left column facing all
inputs in a right column. Box sizes come from the snapshot boxes; boxes
without one get a default size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runArrange(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", graph.ModeFollowSignal, "arrangement: follow, face")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runArrange(ctx context.Context, path string, opts arrangeOpts) error {
	if err := pipeline.ValidateMode(opts.mode); err != nil {
		return err
	}
	snap, err := graph.ReadSnapshotFile(path)
	if err != nil {
		return err
	}
	g, err := graph.ToPatch(snap, loggerFromContext(ctx))
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.options()
	popts.Mode = opts.mode
	res, hit, err := runner.ArrangeWithCacheInfo(ctx, g, snap.Boxes, popts)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("arranged", "mode", res.Mode, "boxes", len(res.Positions), "cached", hit)

	return c.writeResult(opts.output, res, fmt.Sprintf("Arranged %d box(es)", len(res.Positions)))
}
