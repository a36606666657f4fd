package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/xmlnav/cache"
)

// Metrics records evaluation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	RecordEvaluation(ctx context.Context, meta QueryMeta, duration time.Duration, results int, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	resultHist   metric.Int64Histogram
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"xmlnav.eval.total",
		metric.WithDescription("Total number of XPath evaluations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"xmlnav.eval.errors",
		metric.WithDescription("Total number of failed XPath evaluations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"xmlnav.eval.duration_ms",
		metric.WithDescription("XPath evaluation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	resultHist, err := meter.Int64Histogram(
		"xmlnav.eval.results",
		metric.WithDescription("Nodes returned per XPath evaluation"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		resultHist:   resultHist,
	}, nil
}

// RecordEvaluation records one evaluation. Expressions are not used as
// attributes to keep cardinality bounded.
func (m *metricsImpl) RecordEvaluation(ctx context.Context, meta QueryMeta, duration time.Duration, results int, err error) {
	var attrs []attribute.KeyValue
	if meta.Evaluator != "" {
		attrs = append(attrs, attribute.String("xpath.evaluator", meta.Evaluator))
	}
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	} else {
		m.resultHist.Record(ctx, int64(results), opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

type noopMetrics struct{}

func (m *noopMetrics) RecordEvaluation(context.Context, QueryMeta, time.Duration, int, error) {}

// StatsFunc returns a snapshot of selector activity, typically
// (*cache.Selector[N]).Stats.
type StatsFunc func() cache.Stats

// RegisterCacheStats publishes selector counters as observable instruments:
// xmlnav.cache.hits, misses, evaluations, bypassed, errors and the
// xmlnav.cache.entries gauge. Unregister the returned registration on
// shutdown.
func RegisterCacheStats(meter metric.Meter, name string, stats StatsFunc) (metric.Registration, error) {
	if stats == nil {
		return nil, ErrNilStats
	}

	counter := func(n, desc string) (metric.Int64ObservableCounter, error) {
		return meter.Int64ObservableCounter("xmlnav.cache."+n,
			metric.WithDescription(desc),
			metric.WithUnit("{call}"),
		)
	}

	hits, err := counter("hits", "Selections answered from the cache")
	if err != nil {
		return nil, err
	}
	misses, err := counter("misses", "Selections that missed the cache")
	if err != nil {
		return nil, err
	}
	evaluations, err := counter("evaluations", "Evaluator invocations made by the selector")
	if err != nil {
		return nil, err
	}
	bypassed, err := counter("bypassed", "Selections evaluated without the cache")
	if err != nil {
		return nil, err
	}
	failures, err := counter("errors", "Evaluator invocations that failed")
	if err != nil {
		return nil, err
	}
	entries, err := meter.Int64ObservableGauge("xmlnav.cache.entries",
		metric.WithDescription("Cached (identity, expression) entries"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	opt := metric.WithAttributes(attribute.String("xmlnav.cache", name))
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(hits, s.Hits, opt)
		o.ObserveInt64(misses, s.Misses, opt)
		o.ObserveInt64(evaluations, s.Evaluations, opt)
		o.ObserveInt64(bypassed, s.Bypassed, opt)
		o.ObserveInt64(failures, s.Errors, opt)
		o.ObserveInt64(entries, int64(s.Entries), opt)
		return nil
	}, hits, misses, evaluations, bypassed, failures, entries)
}
