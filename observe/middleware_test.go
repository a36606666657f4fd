package observe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/query"
)

type attrNode map[string]string

func (n attrNode) Attribute(name string) (string, bool) {
	v, ok := n[name]
	return v, ok
}

type middlewareFixture struct {
	spans   *tracetest.SpanRecorder
	metrics *recordingMetrics
	logs    *bytes.Buffer
	mw      *Middleware
}

type recordingMetrics struct {
	calls   int
	results int
	err     error
	meta    QueryMeta
}

func (m *recordingMetrics) RecordEvaluation(_ context.Context, meta QueryMeta, _ time.Duration, results int, err error) {
	m.calls++
	m.meta = meta
	m.results = results
	m.err = err
}

func mustExpr(t *testing.T) query.Expression {
	t.Helper()
	expr, err := query.Build(query.Descendant, query.AnyTag(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return expr
}

func newMiddlewareFixture() *middlewareFixture {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	var logs bytes.Buffer
	metrics := &recordingMetrics{}
	return &middlewareFixture{
		spans:   spans,
		metrics: metrics,
		logs:    &logs,
		mw:      NewMiddleware(newTracer(tp.Tracer("test")), metrics, NewLoggerWithWriter("debug", &logs)),
	}
}

func TestInstrument_Success(t *testing.T) {
	f := newMiddlewareFixture()
	want := []attrNode{{"xml:id": "a"}, {"xml:id": "b"}}
	inner := cache.EvaluatorFunc[attrNode](func(context.Context, query.Expression, attrNode) ([]attrNode, error) {
		return want, nil
	})

	eval := Instrument[attrNode](f.mw, "xmldoc", inner)
	expr, _ := query.Build(query.Child, query.Tag("p"), nil)
	got, err := eval.Evaluate(context.Background(), expr, attrNode{"xml:id": "d1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected results to pass through, got %d", len(got))
	}

	if n := len(f.spans.Ended()); n != 1 {
		t.Fatalf("expected 1 span, got %d", n)
	}
	if f.metrics.calls != 1 || f.metrics.results != 2 || f.metrics.err != nil {
		t.Errorf("unexpected metrics %+v", f.metrics)
	}
	if f.metrics.meta.Identity != "d1" || f.metrics.meta.Expression != "./p" {
		t.Errorf("unexpected meta %+v", f.metrics.meta)
	}

	out := f.logs.String()
	if !strings.Contains(out, `"msg":"evaluation completed"`) || !strings.Contains(out, `"xpath.context":"d1"`) {
		t.Errorf("unexpected log output %q", out)
	}
}

func TestInstrument_ErrorPassThrough(t *testing.T) {
	f := newMiddlewareFixture()
	boom := errors.New("boom")
	inner := cache.EvaluatorFunc[attrNode](func(context.Context, query.Expression, attrNode) ([]attrNode, error) {
		return nil, boom
	})

	eval := Instrument[attrNode](f.mw, "", inner)
	_, err := eval.Evaluate(context.Background(), mustExpr(t), attrNode{})
	if err != boom {
		t.Fatalf("expected error unchanged, got %v", err)
	}
	if f.metrics.err != boom {
		t.Error("expected error recorded in metrics")
	}
	if !strings.Contains(f.logs.String(), `"level":"error"`) {
		t.Errorf("expected error log, got %q", f.logs.String())
	}
	if f.spans.Ended()[0].Name() != "xmlnav.eval" {
		t.Errorf("unexpected span name %q", f.spans.Ended()[0].Name())
	}
}

func TestInstrument_IdentityAttribute(t *testing.T) {
	f := newMiddlewareFixture()
	mw := f.mw.WithIdentityAttribute("uid")
	inner := cache.EvaluatorFunc[attrNode](func(context.Context, query.Expression, attrNode) ([]attrNode, error) {
		return nil, nil
	})

	_, _ = Instrument[attrNode](mw, "x", inner).Evaluate(context.Background(), mustExpr(t), attrNode{"uid": "u1", "xml:id": "ignored"})
	if f.metrics.meta.Identity != "u1" {
		t.Errorf("expected identity u1, got %q", f.metrics.meta.Identity)
	}
	if f.mw.identityAttr != cache.DefaultIdentityAttribute {
		t.Error("WithIdentityAttribute must not modify the receiver")
	}
}

// TestInstrument_UnderSelector verifies cache hits are not observed.
func TestInstrument_UnderSelector(t *testing.T) {
	f := newMiddlewareFixture()
	inner := cache.EvaluatorFunc[attrNode](func(context.Context, query.Expression, attrNode) ([]attrNode, error) {
		return []attrNode{{}}, nil
	})
	sel := cache.NewSelector[attrNode](Instrument[attrNode](f.mw, "x", inner), nil, nil, cache.DefaultPolicy())

	node := attrNode{"xml:id": "n"}
	for i := 0; i < 3; i++ {
		if _, err := sel.Select(context.Background(), mustExpr(t), node); err != nil {
			t.Fatal(err)
		}
	}
	if f.metrics.calls != 1 {
		t.Errorf("expected 1 observed evaluation, got %d", f.metrics.calls)
	}
}

func TestNewMiddleware_NilComponents(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil)
	inner := cache.EvaluatorFunc[attrNode](func(context.Context, query.Expression, attrNode) ([]attrNode, error) {
		return nil, nil
	})
	if _, err := Instrument[attrNode](mw, "x", inner).Evaluate(context.Background(), mustExpr(t), attrNode{}); err != nil {
		t.Fatal(err)
	}
}
