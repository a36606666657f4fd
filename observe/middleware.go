package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/query"
)

// Middleware wraps evaluation with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: evaluators returned by Instrument are safe for concurrent
//     use when the wrapped evaluator is.
//   - Errors: errors from the wrapped evaluator are recorded and returned unchanged.
//   - Ownership: result slices are passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger

	identityAttr string
}

// NewMiddleware creates a Middleware from observability components. Nil
// components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Middleware{
		tracer:       tracer,
		metrics:      metrics,
		logger:       logger,
		identityAttr: cache.DefaultIdentityAttribute,
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// WithIdentityAttribute returns a copy reporting context identity from attr.
func (m *Middleware) WithIdentityAttribute(attr string) *Middleware {
	cp := *m
	if attr != "" {
		cp.identityAttr = attr
	}
	return &cp
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Instrument decorates next so that every evaluation gets a span, metric
// samples and a log line. Cache hits never reach next, so only real
// evaluations are observed when Instrument sits under a cache.Selector.
func Instrument[N cache.Node](m *Middleware, name string, next cache.Evaluator[N]) cache.Evaluator[N] {
	return cache.EvaluatorFunc[N](func(ctx context.Context, expr query.Expression, node N) ([]N, error) {
		meta := QueryMeta{Evaluator: name, Expression: expr.String()}
		if id, ok := node.Attribute(m.identityAttr); ok {
			meta.Identity = id
		}

		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		result, err := next.Evaluate(ctx, expr, node)

		duration := time.Since(start)
		m.tracer.EndSpan(span, len(result), err)
		m.metrics.RecordEvaluation(ctx, meta, duration, len(result), err)

		logger := m.logger.WithQuery(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "evaluation failed", fields...)
		} else {
			fields = append(fields, Field{Key: "results", Value: len(result)})
			logger.Debug(ctx, "evaluation completed", fields...)
		}

		return result, err
	})
}
