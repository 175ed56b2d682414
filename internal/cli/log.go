// Package cli implements the patchlayout command-line interface.
//
// The commands read routing graph snapshots in JSON, run them through
// the layout pipeline and write the results as JSON, DOT or SVG.
//
// # Commands
//
//   - columns: assign every box to a column, splitting feedback loops
//   - arrange: place boxes using the follow-signal or face-to-face arrangement
//   - resolve: push overlapping boxes apart (interactive review with -i)
//   - serve: expose the pipeline over HTTP
//   - config, cache: manage the configuration file and the layout cache
//
// Every command accepts --verbose (-v) for debug logging. The logger travels
// through the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a timestamped logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Assigned 3 snapshots (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
