package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/query"
)

// DefaultTimeout applies when TimeoutConfig.Timeout is not positive.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration of one evaluation.
	// Default: 30 seconds
	Timeout time.Duration
}

// Timeout bounds the duration of an operation.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Timeout{config: config}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// Execute runs op with a deadline. The operation keeps running in its own
// goroutine after the deadline; its result is discarded. Cancellation of
// the parent context is returned as-is, expiry of the deadline as ErrTimeout.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// WithTimeout decorates next so that each evaluation is bounded by d.
// A timed-out evaluation returns ErrTimeout, which a cache.Selector never
// caches.
func WithTimeout[N cache.Node](next cache.Evaluator[N], d time.Duration) cache.Evaluator[N] {
	t := NewTimeout(TimeoutConfig{Timeout: d})
	return cache.EvaluatorFunc[N](func(ctx context.Context, expr query.Expression, node N) ([]N, error) {
		var result []N
		err := t.Execute(ctx, func(ctx context.Context) error {
			var err error
			result, err = next.Evaluate(ctx, expr, node)
			return err
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}
