// Package bootstrap assembles a ready-to-use Navigator from an XML document
// and a config.Config.
//
// The evaluation pipeline, outermost first, is:
//
//	cache.Selector -> observe.Instrument -> resilience.WithBulkhead -> resilience.WithTimeout -> xmldoc.Evaluator
//
// so cache hits are never observed or throttled, and a timed-out evaluation
// still releases its bulkhead slot.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/config"
	"github.com/jonwraymond/xmlnav/nav"
	"github.com/jonwraymond/xmlnav/observe"
	"github.com/jonwraymond/xmlnav/resilience"
	"github.com/jonwraymond/xmlnav/xmldoc"
)

// EvaluatorName labels spans, metrics and logs produced by the pipeline.
const EvaluatorName = "xmldoc"

// Runtime owns a document, its navigator and the telemetry behind it.
type Runtime struct {
	Document  *xmldoc.Document
	Navigator *nav.Navigator[*xmldoc.Node]
	Observer  observe.Observer

	selector *cache.Selector[*xmldoc.Node]
	bulkhead *resilience.Bulkhead
	stats    metric.Registration
}

type options struct {
	logWriter io.Writer
	newID     func() string
}

// Option configures Open and New.
type Option func(*options)

// WithLogWriter sends log lines to w instead of stderr.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithIDGenerator replaces the generator used when identity.assign is set.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// Open parses r with cfg's identity settings and calls New.
func Open(ctx context.Context, r io.Reader, cfg config.Config, opts ...Option) (*Runtime, error) {
	o := collect(opts)
	doc, err := xmldoc.Parse(r, xmldoc.Options{
		IdentityAttribute: cfg.Identity.Attribute,
		AssignIdentity:    cfg.Identity.Assign,
		NewID:             o.newID,
	})
	if err != nil {
		return nil, err
	}
	return New(ctx, doc, cfg, opts...)
}

// New wires doc into a Navigator according to cfg.
func New(ctx context.Context, doc *xmldoc.Document, cfg config.Config, opts ...Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doc.IdentityAttribute() != cfg.Identity.Attribute {
		return nil, fmt.Errorf("%w: document keyed by %q, config by %q",
			config.ErrInvalidConfig, doc.IdentityAttribute(), cfg.Identity.Attribute)
	}
	o := collect(opts)

	obsCfg := cfg.ObserverConfig()
	obsCfg.Logging.Writer = o.logWriter
	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, err
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, errors.Join(err, obs.Shutdown(ctx))
	}

	rt := &Runtime{Document: doc, Observer: obs}

	// The bulkhead sits inside the deadline: an evaluation abandoned on
	// timeout keeps its slot until it actually returns.
	var eval cache.Evaluator[*xmldoc.Node] = doc.Evaluator()
	if n := cfg.Evaluation.MaxConcurrent; n > 0 {
		rt.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: n,
			MaxWait:       cfg.Evaluation.MaxWait,
		})
		eval = resilience.WithBulkhead(eval, rt.bulkhead)
	}
	if t := cfg.Evaluation.Timeout; t > 0 {
		eval = resilience.WithTimeout(eval, t)
	}
	eval = observe.Instrument(mw.WithIdentityAttribute(cfg.Identity.Attribute), EvaluatorName, eval)

	keyer := cache.NewAttributeKeyer(cfg.Identity.Attribute)
	rt.selector = cache.NewSelector[*xmldoc.Node](eval, nil, keyer, cfg.Policy())
	rt.Navigator = nav.New(rt.selector, nav.WithIDAttribute(cfg.Navigation.IDAttribute))

	rt.stats, err = observe.RegisterCacheStats(obs.Meter(), EvaluatorName, rt.selector.Stats)
	if err != nil {
		return nil, errors.Join(err, obs.Shutdown(ctx))
	}

	obs.Logger().Debug(ctx, "navigator ready",
		observe.Field{Key: "nodes", Value: doc.Len()},
		observe.Field{Key: "identity_attribute", Value: cfg.Identity.Attribute},
		observe.Field{Key: "cache_disabled", Value: cfg.Cache.Disabled},
	)
	return rt, nil
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Stats returns the selector counters.
func (rt *Runtime) Stats() cache.Stats {
	return rt.selector.Stats()
}

// Bulkhead returns the evaluation bulkhead, or nil when concurrency is unbounded.
func (rt *Runtime) Bulkhead() *resilience.Bulkhead {
	return rt.bulkhead
}

// Shutdown unregisters instruments and flushes telemetry.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var errs []error
	if rt.stats != nil {
		if err := rt.stats.Unregister(); err != nil {
			errs = append(errs, err)
		}
		rt.stats = nil
	}
	if err := rt.Observer.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	rt.selector.Reset(ctx)
	return errors.Join(errs...)
}
