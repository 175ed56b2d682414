package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/patchlayout/pkg/errors"
	"github.com/matzehuels/patchlayout/pkg/graph"
	"github.com/matzehuels/patchlayout/pkg/pipeline"
)

// columnsOpts holds the flags of the columns command.
type columnsOpts struct {
	format          string
	output          string
	hardwareOnSides bool
	noCache         bool
	refresh         bool
}

// columnsCommand creates the columns command.
func (c *CLI) columnsCommand() *cobra.Command {
	var opts columnsOpts

	cmd := &cobra.Command{
		Use:   "columns <snapshot.json>...",
		Short: "Assign every box of a routing graph to a column",
		Long: `Assign every box of one or more routing graph snapshots to a column.

With a single snapshot the result goes to stdout, or to --output. With several
snapshots each result is written next to its input as <name>.columns.<format>,
or into the --output directory.`,
		Example: `  patchlayout columns session.json
  patchlayout columns session.json --format svg -o session.svg
  patchlayout columns sessions/*.json --format dot -o out/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("hardware-on-sides") {
				opts.hardwareOnSides = c.Config().Arrange.HardwareOnSides
			}
			return c.runColumns(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatJSON, "output format: json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one snapshot) or directory (several)")
	cmd.Flags().BoolVar(&opts.hardwareOnSides, "hardware-on-sides", false, "keep hardware boxes in the outer columns")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runColumns(ctx context.Context, inputs []string, opts columnsOpts) error {
	if err := pipeline.ValidateFormat(opts.format); err != nil {
		return err
	}
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.options()
	popts.Format = opts.format
	popts.HardwareOnSides = opts.hardwareOnSides
	popts.Refresh = opts.refresh

	if len(inputs) == 1 && opts.output == "" {
		res, err := c.columnsOne(ctx, runner, inputs[0], popts)
		if err != nil {
			return err
		}
		_, err = c.out().Write(res.Artifact)
		return err
	}

	outputs, err := columnsOutputs(inputs, opts.output, opts.format)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	spin := newSpinner(ctx, fmt.Sprintf("Assigning columns for %d snapshot(s)...", len(inputs)))
	spin.Start()
	type output struct {
		path string
		res  *pipeline.Result
	}
	var (
		mu      sync.Mutex
		written []output
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, in := range inputs {
		out := outputs[i]
		g.Go(func() error {
			res, err := c.columnsOne(gctx, runner, in, popts)
			if err != nil {
				return err
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(out, res.Artifact, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			mu.Lock()
			written = append(written, output{out, res})
			mu.Unlock()
			logger.Debug("wrote columns", "input", in, "output", out,
				"boxes", res.Stats.BoxCount, "cached", res.CacheInfo.ColumnsHit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spin.StopWithError("Column assignment failed")
		return err
	}
	spin.Stop()

	prog.done(fmt.Sprintf("assigned columns for %d snapshot(s)", len(inputs)))
	slices.SortFunc(written, func(a, b output) int { return strings.Compare(a.path, b.path) })
	for _, w := range written {
		printFile(w.path)
		printStats(w.res.Stats.BoxCount, w.res.Columns.Count, len(w.res.Columns.Split), w.res.CacheInfo.ColumnsHit)
	}
	return nil
}

// columnsOne runs the pipeline on one snapshot file.
func (c *CLI) columnsOne(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) (*pipeline.Result, error) {
	snap, err := graph.ReadSnapshotFile(path)
	if err != nil {
		return nil, err
	}
	res, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// columnsOutputs names the output file of every input. Two inputs must not
// share an output file.
func columnsOutputs(inputs []string, output, format string) ([]string, error) {
	outs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		out := columnsOutput(in, output, format, len(inputs) > 1)
		if prev, dup := seen[filepath.Clean(out)]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s and %s would both be written to %s", prev, in, out)
		}
		seen[filepath.Clean(out)] = in
		outs[i] = out
	}
	return outs, nil
}

// columnsOutput names the output file of input. With several inputs, output
// is a directory.
func columnsOutput(input, output, format string, many bool) string {
	if !many && output != "" {
		return output
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".columns." + format
	if output != "" {
		return filepath.Join(output, base)
	}
	return filepath.Join(filepath.Dir(input), base)
}
