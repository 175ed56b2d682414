package pipeline

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patchlayout/pkg/cache"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
	"github.com/matzehuels/patchlayout/pkg/graph"
	"github.com/matzehuels/patchlayout/pkg/observability"
)

// Stage names reported to the layout hooks.
const (
	StageColumns = "columns"
	StageArrange = "arrange"
	StageResolve = "resolve"
	StageRender  = "render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the lifetime of every cached result when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the columns → arrange → render pipeline on a snapshot.
// The arrange stage only runs when opts.Mode is set.
func (r *Runner) Execute(ctx context.Context, s graph.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	r.Logger.Debug("executing pipeline", "options", opts.Describe())

	g, err := graph.ToPatch(s, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result := &Result{
		Graph:     g,
		GraphHash: graphHash(g),
	}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Stage 1: Columns
	start := time.Now()
	cols, hit, err := r.ColumnsWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	result.Columns = cols
	result.Stats.BoxCount = len(cols.Columns)
	result.Stats.Splits = cols.Splits
	result.Stats.ColumnsTime = time.Since(start)
	result.CacheInfo.ColumnsHit = hit

	r.Logger.Info("assigned columns",
		"boxes", len(cols.Columns),
		"columns", cols.Count,
		"split", len(cols.Split),
		"duration", result.Stats.ColumnsTime)

	// Stage 2: Arrange
	if opts.Mode != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start = time.Now()
		arr, hit, err := r.ArrangeWithCacheInfo(ctx, g, s.Boxes, opts)
		if err != nil {
			return nil, fmt.Errorf("arrange: %w", err)
		}
		result.Arrangement = &arr
		result.Stats.ArrangeTime = time.Since(start)
		result.CacheInfo.ArrangeHit = hit

		r.Logger.Info("arranged boxes",
			"mode", arr.Mode,
			"boxes", len(arr.Positions),
			"settled", arr.Settled,
			"duration", result.Stats.ArrangeTime)
	}

	// Stage 3: Render
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	artifact, hit, err := r.RenderWithCacheInfo(ctx, g, cols, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact = artifact
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Debug("rendered columns",
		"format", opts.Format,
		"bytes", len(artifact),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ColumnsWithCacheInfo assigns columns with caching and returns cache hit info.
func (r *Runner) ColumnsWithCacheInfo(ctx context.Context, g *patch.Graph, opts Options) (graph.ColumnsResult, bool, error) {
	opts.SetDefaults()
	r.applyLogger(&opts)

	cacheKey := r.Keyer.ColumnsKey(graphHash(g), opts.ColumnsKeyOpts())

	var cols graph.ColumnsResult
	if r.lookup(ctx, StageColumns, cacheKey, opts.Refresh, &cols) {
		return cols, true, nil
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, StageColumns, g.NodeCount())
	start := time.Now()
	cols, err := AssignColumns(g, opts)
	hooks.OnLayoutComplete(ctx, StageColumns, time.Since(start), err)
	if err != nil {
		return graph.ColumnsResult{}, false, err
	}
	if len(cols.Split) > 0 {
		hooks.OnSplit(ctx, cols.Split)
	}

	r.store(ctx, StageColumns, cacheKey, cols, r.ttl(cache.TTLColumns))
	return cols, false, nil
}

// Columns is a convenience wrapper that calls ColumnsWithCacheInfo and discards the cache hit info.
func (r *Runner) Columns(ctx context.Context, g *patch.Graph, opts Options) (graph.ColumnsResult, error) {
	cols, _, err := r.ColumnsWithCacheInfo(ctx, g, opts)
	return cols, err
}

// ArrangeWithCacheInfo places the boxes with caching and returns cache hit
// info. boxes gives the box sizes; their positions are ignored.
func (r *Runner) ArrangeWithCacheInfo(ctx context.Context, g *patch.Graph, boxes []graph.Box, opts Options) (graph.ArrangeResult, bool, error) {
	opts.SetDefaults()
	r.applyLogger(&opts)
	if err := ValidateMode(opts.Mode); err != nil {
		return graph.ArrangeResult{}, false, err
	}

	cacheKey := r.Keyer.ArrangeKey(sizesHash(g, boxes), opts.ArrangeKeyOpts())

	var arr graph.ArrangeResult
	if r.lookup(ctx, StageArrange, cacheKey, opts.Refresh, &arr) {
		return arr, true, nil
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, StageArrange, g.NodeCount())
	start := time.Now()
	arr, err := Arrange(g, graph.Sizes(boxes), opts)
	hooks.OnLayoutComplete(ctx, StageArrange, time.Since(start), err)
	if err != nil {
		return graph.ArrangeResult{}, false, err
	}

	r.store(ctx, StageArrange, cacheKey, arr, r.ttl(cache.TTLArrange))
	return arr, false, nil
}

// Arrange is a convenience wrapper that calls ArrangeWithCacheInfo and discards the cache hit info.
func (r *Runner) Arrange(ctx context.Context, g *patch.Graph, boxes []graph.Box, opts Options) (graph.ArrangeResult, error) {
	arr, _, err := r.ArrangeWithCacheInfo(ctx, g, boxes, opts)
	return arr, err
}

// RenderWithCacheInfo renders a column assignment with caching and returns
// cache hit info. JSON output is cheap and never cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *patch.Graph, cols graph.ColumnsResult, opts Options) ([]byte, bool, error) {
	opts.SetDefaults()
	r.applyLogger(&opts)
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, false, err
	}
	if opts.Format == FormatJSON {
		data, err := Render(ctx, g, cols, opts.Format)
		return data, false, err
	}

	colsData, err := json.Marshal(struct {
		Graph   graph.Snapshot      `json:"graph"`
		Columns graph.ColumnsResult `json:"columns"`
	}{graph.FromPatch(g), cols})
	if err != nil {
		return nil, false, fmt.Errorf("serialize columns for cache key: %w", err)
	}
	cacheKey := r.Keyer.RenderKey(cache.Hash(colsData), opts.RenderKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, StageRender)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, StageRender)
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, StageRender, len(cols.Columns))
	start := time.Now()
	data, err := Render(ctx, g, cols, opts.Format)
	hooks.OnLayoutComplete(ctx, StageRender, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLRender)); err != nil {
		r.Logger.Warn("cache write failed", "stage", StageRender, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, StageRender, len(data))
	}
	return data, false, nil
}

// Resolve answers a resolve request with the metrics of opts. Resolution is
// interactive and never cached.
func (r *Runner) Resolve(ctx context.Context, req graph.ResolveRequest, opts Options) (graph.ResolveResult, error) {
	opts.SetDefaults()
	r.applyLogger(&opts)
	if err := ctx.Err(); err != nil {
		return graph.ResolveResult{}, err
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, StageResolve, len(req.Boxes))
	start := time.Now()
	res, err := Resolve(req, opts.Metrics.Resolver, opts.Logger)
	hooks.OnLayoutComplete(ctx, StageResolve, time.Since(start), err)
	if err != nil {
		return graph.ResolveResult{}, err
	}

	r.Logger.Debug("resolved overlaps",
		"boxes", len(req.Boxes),
		"repulsers", len(req.Repulsers),
		"moves", len(res.Moves),
		"duration", time.Since(start))
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup decodes the cached entry under key into v. A decoding failure
// counts as a miss, so the stage recomputes and overwrites the entry.
func (r *Runner) lookup(ctx context.Context, stage, key string, refresh bool, v any) bool {
	if refresh {
		return false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "stage", stage, "err", err)
	}
	if err == nil && hit && json.Unmarshal(data, v) == nil {
		observability.Cache().OnCacheHit(ctx, stage)
		return true
	}
	observability.Cache().OnCacheMiss(ctx, stage)
	return false
}

// store caches v under key. Cache failures never fail a stage.
func (r *Runner) store(ctx context.Context, stage, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "stage", stage, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, stage, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// graphHash returns the content hash of g. Node order is part of it since
// it drives the assignment.
func graphHash(g *patch.Graph) string {
	nodes := g.Nodes()
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	data, _ := json.Marshal(struct {
		Graph graph.Snapshot `json:"graph"`
		Order []int          `json:"order"`
	}{graph.FromPatch(g), ids})
	return cache.Hash(data)
}

// sizesHash extends the graph hash with the box sizes.
func sizesHash(g *patch.Graph, boxes []graph.Box) string {
	type size struct {
		Key    string  `json:"key"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	sizes := make([]size, len(boxes))
	for i, b := range boxes {
		sizes[i] = size{Key: b.Key().String(), Width: b.Width, Height: b.Height}
	}
	slices.SortFunc(sizes, func(a, b size) int { return cmp.Compare(a.Key, b.Key) })
	data, _ := json.Marshal(struct {
		Graph string `json:"graph"`
		Sizes []size `json:"sizes"`
	}{graphHash(g), sizes})
	return cache.Hash(data)
}
