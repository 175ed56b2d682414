package repulse

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

// Box is a box of the scene with its current rectangle. A null rectangle
// marks a box that is being removed.
type Box struct {
	Key  patch.BoxKey
	Rect geom.Rect
}

// Repulser is a box whose rectangle is final for this round.
type Repulser struct {
	Key  patch.BoxKey
	Rect geom.Rect
}

// Move is the destination of a box that had to move.
type Move struct {
	Key  patch.BoxKey
	X, Y float64
	Path []Direction // directions the box was pushed in
}

// Resolver computes the moves that keep boxes apart. A Resolver holds no
// state between calls and is safe for concurrent use.
type Resolver struct {
	cfg    Config
	logger *log.Logger
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithLogger sets the logger used for warnings about skipped boxes.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a resolver for the given canvas metrics.
func New(cfg Config, opts ...Option) *Resolver {
	r := &Resolver{
		cfg:    cfg,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the canvas metrics of r.
func (r *Resolver) Config() Config { return r.cfg }

// Overlaps reports whether a and b stand closer than the box margins allow.
func (r *Resolver) Overlaps(a, b Box) bool {
	return r.cfg.tooClose(a.Rect, a.Key.Mode, b.Rect, b.Key.Mode)
}

// Resolve pushes away every scene box standing too close to one of the
// repulsers, cascading until no pushed box is too close to another
// repulser. Repulsers never move; their rectangle in repulsers wins over the
// one in scene. hint is the preferred direction of the first pushes.
//
// Moves are returned in processing order. Resolve returns nil when overlap
// prevention is disabled.
func (r *Resolver) Resolve(scene []Box, repulsers []Repulser, hint Direction) []Move {
	if !r.cfg.PreventOverlap {
		return nil
	}
	s := r.newRun(scene)
	s.seed(repulsers, hint)
	s.drain()
	return s.moves
}

// ResolveAll settles the whole scene: boxes are taken in key order, each
// one not yet settled becomes a repulser for the boxes after it. Afterwards
// no two boxes of the scene stand too close.
func (r *Resolver) ResolveAll(scene []Box) []Move {
	if !r.cfg.PreventOverlap {
		return nil
	}
	s := r.newRun(scene)
	for _, k := range s.order {
		if !s.eligible(k) {
			continue
		}
		s.seen[k] = true
		s.fixed[k] = true
		o := &obstacle{key: k, rect: s.rects[k]}
		s.obstacles = append(s.obstacles, o)
		s.collect(o, []Direction{DirectionNone}, true)
		s.drain()
	}
	return s.moves
}

// PullUp follows a change of height of box key, whose rectangle was before.
// The boxes stacked right below it are dragged by the height difference, up
// when the box shrank and down when it grew. Boxes they now cover are then
// pushed in that same direction.
func (r *Resolver) PullUp(scene []Box, key patch.BoxKey, before geom.Rect) []Move {
	if !r.cfg.PreventOverlap {
		return nil
	}
	s := r.newRun(scene)
	now, ok := s.rects[key]
	if !ok || now.IsNull() {
		r.logger.Warn("cannot pull boxes up to an unknown box", "box", key)
		return nil
	}

	stack := s.below(key, before, now.Top())
	delta := before.Height - now.Height
	hint := DirectionUp
	if delta < 0 {
		hint = DirectionDown
	}

	var moves []Move
	repulsers := make([]Repulser, 0, len(stack)+1)
	for _, k := range stack {
		rect := s.rects[k].Translated(0, -delta)
		if delta != 0 {
			moves = append(moves, Move{Key: k, X: rect.X, Y: rect.Y, Path: []Direction{hint}})
		}
		s.rects[k] = rect
		repulsers = append(repulsers, Repulser{Key: k, Rect: rect})
	}
	repulsers = append(repulsers, Repulser{Key: key, Rect: now})

	s.seed(repulsers, hint)
	s.drain()
	return append(moves, s.moves...)
}

// obstacle is a repulser of the current run.
type obstacle struct {
	key  patch.BoxKey
	rect geom.Rect
}

// run is the state of one resolver call.
type run struct {
	cfg    Config
	logger *log.Logger

	order []patch.BoxKey // scene keys, ascending
	rects map[patch.BoxKey]geom.Rect

	obstacles []*obstacle
	fixed     map[patch.BoxKey]bool // repulsers, never moved
	seen      map[patch.BoxKey]bool // queued at least once

	q     queue
	moves []Move
}

func (r *Resolver) newRun(scene []Box) *run {
	s := &run{
		cfg:    r.cfg,
		logger: r.logger,
		rects:  make(map[patch.BoxKey]geom.Rect, len(scene)),
		fixed:  make(map[patch.BoxKey]bool),
		seen:   make(map[patch.BoxKey]bool),
	}
	for _, b := range scene {
		if _, dup := s.rects[b.Key]; dup {
			r.logger.Warn("duplicate box in scene, keeping the first one", "box", b.Key)
			continue
		}
		s.rects[b.Key] = b.Rect
		s.order = append(s.order, b.Key)
	}
	slices.SortFunc(s.order, patch.BoxKey.Compare)
	return s
}

// eligible reports whether box k may still be queued.
func (s *run) eligible(k patch.BoxKey) bool {
	return !s.fixed[k] && !s.seen[k] && !s.rects[k].IsNull()
}

// seed registers the repulsers and queues every box too close to one of
// them.
func (s *run) seed(repulsers []Repulser, hint Direction) {
	reps := slices.Clone(repulsers)
	slices.SortStableFunc(reps, func(a, b Repulser) int { return a.Key.Compare(b.Key) })

	var fresh []*obstacle
	for _, rep := range reps {
		if s.fixed[rep.Key] {
			s.logger.Warn("duplicate repulser, keeping the first one", "box", rep.Key)
			continue
		}
		s.fixed[rep.Key] = true
		if rep.Rect.IsNull() {
			s.logger.Warn("skipping repulser without rectangle", "box", rep.Key)
			continue
		}
		o := &obstacle{key: rep.Key, rect: rep.Rect}
		s.obstacles = append(s.obstacles, o)
		fresh = append(fresh, o)
	}
	for _, o := range fresh {
		s.collect(o, []Direction{hint}, true)
	}
}

// collect queues the boxes too close to o. With initial set, path only
// holds the preferred direction and each candidate starts with the
// direction it would take; otherwise candidates inherit path.
func (s *run) collect(o *obstacle, path []Direction, initial bool) {
	for _, k := range s.order {
		if !s.eligible(k) {
			continue
		}
		rect := s.rects[k]
		if !s.cfg.tooClose(o.rect, o.key.Mode, rect, k.Mode) {
			continue
		}
		c := &candidate{key: k, rect: rect, by: o}
		if initial {
			c.path = []Direction{direction(o.rect, rect, path)}
		} else {
			c.path = slices.Clone(path)
		}
		s.seen[k] = true
		s.q.push(c)
	}
}

func (s *run) drain() {
	for s.q.Len() > 0 {
		s.place(s.q.pop())
	}
}

// place moves candidate c out of the way of every repulser, then makes it a
// repulser itself.
func (s *run) place(c *candidate) {
	mode := c.key.Mode
	path := slices.Clone(c.path)

	dir := direction(c.by.rect, c.rect, path)
	path = append(path, dir)
	rect := s.cfg.push(dir, c.by.rect, c.by.key.Mode, c.rect, mode, true)

	consulted := make(map[*obstacle]bool)
	for {
		o := s.closest(rect, mode, consulted)
		if o == nil {
			break
		}
		consulted[o] = true
		dir = direction(o.rect, rect, path)
		rect = s.cfg.push(dir, o.rect, o.key.Mode, rect, mode, true)
		path = append(path, dir)
	}
	rect = s.escape(c.key, rect, path[len(path)-1])

	o := &obstacle{key: c.key, rect: rect}
	s.obstacles = append(s.obstacles, o)
	s.fixed[c.key] = true
	if prev := s.rects[c.key]; prev.X != rect.X || prev.Y != rect.Y {
		s.moves = append(s.moves, Move{Key: c.key, X: rect.X, Y: rect.Y, Path: path})
	}
	s.rects[c.key] = rect

	s.collect(o, path, false)
}

// closest returns the first repulser rect is too close to, skipping the
// ones in skip.
func (s *run) closest(rect geom.Rect, mode patch.PortMode, skip map[*obstacle]bool) *obstacle {
	for _, o := range s.obstacles {
		if skip[o] {
			continue
		}
		if s.cfg.tooClose(o.rect, o.key.Mode, rect, mode) {
			return o
		}
	}
	return nil
}

// escape keeps pushing rect along dir, without magnet, until it is clear of
// every repulser. Each push leaves one repulser behind for good, so there
// are at most as many pushes as repulsers.
func (s *run) escape(key patch.BoxKey, rect geom.Rect, dir Direction) geom.Rect {
	for i := 0; ; i++ {
		o := s.closest(rect, key.Mode, nil)
		if o == nil {
			return rect
		}
		if i == len(s.obstacles) {
			s.logger.Warn("box still too close to a repulser", "box", key, "repulser", o.key)
			return rect
		}
		rect = s.cfg.push(dir, o.rect, o.key.Mode, rect, key.Mode, false)
	}
}

// below returns the boxes stacked under key, transitively, starting with
// key itself: a box belongs to the stack when it starts below limit and
// touches the bottom margin of a box of the stack.
func (s *run) below(key patch.BoxKey, before geom.Rect, limit float64) []patch.BoxKey {
	stack := []patch.BoxKey{key}
	member := map[patch.BoxKey]bool{key: true}
	for i := 0; i < len(stack); i++ {
		area := s.rects[stack[i]]
		if i == 0 {
			area = before
		}
		area = area.Adjusted(0, 0, 0, s.cfg.BoxSpacing+1)
		for _, k := range s.order {
			rect := s.rects[k]
			if member[k] || rect.IsNull() {
				continue
			}
			if rect.Intersects(area) && rect.Top() >= limit {
				member[k] = true
				stack = append(stack, k)
			}
		}
	}
	return stack[1:]
}
