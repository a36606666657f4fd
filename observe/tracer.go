package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// QueryMeta describes one evaluation for telemetry purposes.
type QueryMeta struct {
	Evaluator  string // evaluator label, e.g. "xmldoc" (optional)
	Expression string // XPath text
	Identity   string // context node identity (may be empty)
}

// SpanName returns the deterministic span name.
// Format: xmlnav.eval.<evaluator> or xmlnav.eval
func (m QueryMeta) SpanName() string {
	if m.Evaluator != "" {
		return "xmlnav.eval." + m.Evaluator
	}
	return "xmlnav.eval"
}

// Tracer wraps OpenTelemetry tracing with evaluation spans.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span)

	// EndSpan records the result count and any error, then ends the span.
	EndSpan(span trace.Span, results int, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("xpath.expression", meta.Expression),
		attribute.Bool("xpath.error", false),
	}
	if meta.Evaluator != "" {
		attrs = append(attrs, attribute.String("xpath.evaluator", meta.Evaluator))
	}
	if meta.Identity != "" {
		attrs = append(attrs, attribute.String("xpath.context", meta.Identity))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, results int, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("xpath.error", true))
		span.RecordError(err)
	} else {
		span.SetAttributes(attribute.Int("xpath.results", results))
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta QueryMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ int, _ error) {
	span.End()
}
