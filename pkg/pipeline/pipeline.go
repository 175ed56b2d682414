// Package pipeline runs the layout engine for the CLI and the HTTP server.
//
// This package chains the stages a host runs on a routing graph snapshot,
// so every entry point behaves the same and caches the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Columns: assign every box of the graph to a column
//  2. Arrange: optionally place the boxes on the canvas (follow or face)
//  3. Render: serialize the column assignment (JSON, DOT or SVG)
//
// Overlap resolution is a separate entry point, [Runner.Resolve], since it
// works on box rectangles rather than on the graph.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, snapshot, pipeline.Options{
//	    Format: pipeline.FormatSVG,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Artifact)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patchlayout/pkg/cache"
	"github.com/matzehuels/patchlayout/pkg/core/layout/arrange"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
	"github.com/matzehuels/patchlayout/pkg/errors"
	"github.com/matzehuels/patchlayout/pkg/graph"
)

// =============================================================================
// Default Values
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// DefaultFormat is the default output format.
const DefaultFormat = FormatJSON

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidModes is the set of supported arrangement modes.
var ValidModes = map[string]bool{
	graph.ModeFollowSignal: true,
	graph.ModeFaceToFace:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Columns options
	HardwareOnSides bool `json:"hardware_on_sides,omitempty"`

	// Arrange options; an empty mode skips the stage
	Mode string `json:"mode,omitempty"`

	// Render options
	Format string `json:"format,omitempty"`

	// Refresh skips cache lookups; results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	// Metrics holds the canvas metrics; zero means arrange.DefaultConfig.
	// Its HardwareOnSides is replaced by the field above.
	Metrics arrange.Config `json:"-"`
	Logger  *log.Logger    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed routing graph.
	Graph *patch.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Columns is the column assignment.
	Columns graph.ColumnsResult

	// Arrangement holds the box positions, when a mode was requested.
	Arrangement *graph.ArrangeResult

	// Artifact is the column assignment rendered in the requested format.
	Artifact []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	BoxCount    int
	Splits      int
	ColumnsTime time.Duration
	ArrangeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ColumnsHit bool
	ArrangeHit bool
	RenderHit  bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateMode checks that an arrangement mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid mode: %q (must be one of: follow, face)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Mode != "" {
		if err := ValidateMode(o.Mode); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// SetDefaults fills in the format, metrics and logger.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Metrics == (arrange.Config{}) {
		o.Metrics = arrange.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ColumnsKeyOpts returns cache key options for the column assignment.
func (o *Options) ColumnsKeyOpts() cache.ColumnsKeyOpts {
	return cache.ColumnsKeyOpts{HardwareOnSides: o.HardwareOnSides}
}

// ArrangeKeyOpts returns cache key options for the arrangement.
func (o *Options) ArrangeKeyOpts() cache.ArrangeKeyOpts {
	data, _ := graph.Marshal(metricsKey(o.arrangement()))
	return cache.ArrangeKeyOpts{Mode: o.Mode, ConfigHash: cache.Hash(data)}
}

// RenderKeyOpts returns cache key options for rendering.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: o.Format}
}

// arrangement returns the metrics the arrange stage runs with, so that it
// splits and places hardware exactly like the columns stage.
func (o *Options) arrangement() arrange.Config {
	cfg := o.Metrics
	cfg.HardwareOnSides = o.HardwareOnSides
	return cfg
}

// metricsKey flattens the arrangement metrics for hashing.
func metricsKey(c arrange.Config) map[string]any {
	r := c.Resolver
	return map[string]any{
		"cell_width":         r.Grid.CellWidth,
		"cell_height":        r.Grid.CellHeight,
		"offset":             r.Grid.Offset,
		"box_spacing":        r.BoxSpacing,
		"horizontal_spacing": r.HorizontalSpacing,
		"magnet":             r.Magnet,
		"prevent_overlap":    r.PreventOverlap,
		"column_gap":         c.ColumnGap,
		"face_gap":           c.FaceGap,
		"hardware_on_sides":  c.HardwareOnSides,
	}
}

// Describe formats the options for log lines.
func (o *Options) Describe() string {
	mode := o.Mode
	if mode == "" {
		mode = "none"
	}
	return fmt.Sprintf("format=%s mode=%s hardware_on_sides=%t", o.Format, mode, o.HardwareOnSides)
}
