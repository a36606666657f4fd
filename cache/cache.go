package cache

import (
	"context"
	"errors"
	"strings"

	"github.com/jonwraymond/xmlnav/query"
)

// Sentinel errors for cache operations.
var (
	ErrNilCache        = errors.New("cache: cache is nil")
	ErrNilEvaluator    = errors.New("cache: evaluator is nil")
	ErrInvalidKey      = errors.New("cache: key is invalid")
	ErrIdentityMissing = errors.New("cache: context node has no identity")
)

// Node is the only view of a document node the cache needs.
type Node interface {
	// Attribute returns the named attribute's value and whether it exists.
	Attribute(name string) (string, bool)
}

// Evaluator runs a selection expression against a context node.
//
// Contract:
// - Ordering: results are returned in document order.
// - Errors: a failed evaluation returns a non-nil error; zero matches is not an error.
type Evaluator[N Node] interface {
	Evaluate(ctx context.Context, expr query.Expression, node N) ([]N, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc[N Node] func(ctx context.Context, expr query.Expression, node N) ([]N, error)

// Evaluate calls f.
func (f EvaluatorFunc[N]) Evaluate(ctx context.Context, expr query.Expression, node N) ([]N, error) {
	return f(ctx, expr, node)
}

// Cache stores evaluated node sequences.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: Get returns a slice the caller may modify; Set keeps its own copy.
// - Errors: Get never errors; it returns (nil, false) on miss.
type Cache[N any] interface {
	// Get retrieves a cached sequence. Returns (nil, false) on miss.
	Get(ctx context.Context, key Key) ([]N, bool)

	// Set stores a sequence for the lifetime of the cache.
	Set(ctx context.Context, key Key, value []N) error

	// Delete removes one entry. Idempotent - no error on miss.
	Delete(ctx context.Context, key Key) error

	// Clear removes every entry.
	Clear(ctx context.Context)

	// Len returns the number of entries.
	Len() int
}

// ValidateKey checks if a key is usable for caching.
func ValidateKey(key Key) error {
	if strings.TrimSpace(key.Identity) == "" {
		return ErrIdentityMissing
	}
	if key.Expression == "" {
		return ErrInvalidKey
	}
	return nil
}
