package cache

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/xmlnav/query"
)

// Selector wraps an Evaluator with identity-keyed memoization.
//
// Contract:
// - Concurrency: safe for concurrent use; concurrent misses on one key share a single evaluation.
// - Context: a caller's cancellation ends only its own wait, never the shared evaluation.
// - Ownership: returned slices belong to the caller.
// - Errors: evaluator errors are returned unchanged and never cached.
type Selector[N Node] struct {
	eval   Evaluator[N]
	cache  Cache[N]
	keyer  Keyer
	policy Policy

	group singleflight.Group // collapses concurrent misses per key
	stats counters
}

// NewSelector creates a memoizing selector.
// If c is nil a MemoryCache is used; if keyer is nil NewDefaultKeyer is used.
func NewSelector[N Node](eval Evaluator[N], c Cache[N], keyer Keyer, policy Policy) *Selector[N] {
	if c == nil {
		c = NewMemoryCache[N]()
	}
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &Selector[N]{
		eval:   eval,
		cache:  c,
		keyer:  keyer,
		policy: policy,
	}
}

// Select returns the nodes matched by expr relative to node.
// On cache hit, returns the stored sequence without calling the evaluator.
// On cache miss, evaluates once and stores the result.
func (s *Selector[N]) Select(ctx context.Context, expr query.Expression, node N) ([]N, error) {
	if s.eval == nil {
		return nil, ErrNilEvaluator
	}

	if !s.policy.ShouldCache() {
		s.stats.bypassed.Add(1)
		return s.evaluate(ctx, expr, node)
	}

	key, err := s.keyer.Key(node, expr)
	if err != nil {
		if errors.Is(err, ErrIdentityMissing) && s.policy.MissingIdentity == Bypass {
			s.stats.bypassed.Add(1)
			return s.evaluate(ctx, expr, node)
		}
		return nil, err
	}

	if cached, ok := s.cache.Get(ctx, key); ok {
		s.stats.hits.Add(1)
		return cached, nil
	}
	s.stats.misses.Add(1)

	// The shared evaluation outlives any single caller's cancellation; each
	// caller stops waiting on its own ctx. Deadlines belong to the evaluator.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key.String(), func() (any, error) {
		// Another caller may have stored the entry after our Get.
		if cached, ok := s.cache.Get(flightCtx, key); ok {
			return cached, nil
		}
		result, err := s.evaluate(flightCtx, expr, node)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(flightCtx, key, result)
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Result is shared by every caller collapsed into this flight.
		return slices.Clone(res.Val.([]N)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SelectOne returns the first node matched by expr. It shares Select's
// cache entry; an empty result returns ok=false with a nil error.
func (s *Selector[N]) SelectOne(ctx context.Context, expr query.Expression, node N) (N, bool, error) {
	var zero N
	nodes, err := s.Select(ctx, expr, node)
	if err != nil || len(nodes) == 0 {
		return zero, false, err
	}
	return nodes[0], true, nil
}

// Reset drops every cached entry. Counters are kept.
func (s *Selector[N]) Reset(ctx context.Context) {
	s.cache.Clear(ctx)
}

// Stats returns a snapshot of the selector counters.
func (s *Selector[N]) Stats() Stats {
	snap := s.stats.snapshot()
	snap.Entries = s.cache.Len()
	return snap
}

func (s *Selector[N]) evaluate(ctx context.Context, expr query.Expression, node N) ([]N, error) {
	s.stats.evaluations.Add(1)
	result, err := s.eval.Evaluate(ctx, expr, node)
	if err != nil {
		s.stats.errors.Add(1)
		return nil, err
	}
	return result, nil
}

// Stats is a point-in-time view of selector activity.
type Stats struct {
	Hits        int64
	Misses      int64
	Evaluations int64
	Bypassed    int64
	Errors      int64
	Entries     int
}

type counters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	evaluations atomic.Int64
	bypassed    atomic.Int64
	errors      atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evaluations: c.evaluations.Load(),
		Bypassed:    c.bypassed.Load(),
		Errors:      c.errors.Load(),
	}
}
