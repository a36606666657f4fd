package nav

import (
	"context"
	"testing"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/query"
)

type chainNode struct {
	id     string
	parent *chainNode
}

func (n *chainNode) Attribute(name string) (string, bool) {
	if name == cache.DefaultIdentityAttribute {
		return n.id, true
	}
	return "", false
}

// chainEvaluator answers ancestor steps in document order and nothing else.
type chainEvaluator struct {
	calls int
}

func (e *chainEvaluator) Evaluate(_ context.Context, expr query.Expression, node *chainNode) ([]*chainNode, error) {
	e.calls++
	if expr.String() != "./ancestor::*" {
		return nil, nil
	}
	var out []*chainNode
	for p := node.parent; p != nil; p = p.parent {
		out = append([]*chainNode{p}, out...)
	}
	return out, nil
}

// TestSelect_AncestorReversal verifies root -> A -> B -> node yields B, A, root.
func TestSelect_AncestorReversal(t *testing.T) {
	root := &chainNode{id: "root"}
	a := &chainNode{id: "A", parent: root}
	b := &chainNode{id: "B", parent: a}
	node := &chainNode{id: "node", parent: b}

	eval := &chainEvaluator{}
	n := New(cache.NewSelector[*chainNode](eval, nil, nil, cache.DefaultPolicy()))
	ctx := context.Background()

	got, err := n.Ancestors(ctx, query.AnyTag(), node)
	if err != nil {
		t.Fatalf("Ancestors() error = %v", err)
	}
	want := []*chainNode{b, a, root}
	if len(got) != len(want) {
		t.Fatalf("expected %d ancestors, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i].id, got[i].id)
		}
	}

	closest, ok, err := n.FirstAncestor(ctx, query.AnyTag(), node)
	if err != nil || !ok || closest != b {
		t.Errorf("FirstAncestor() = %v, %v, %v", closest, ok, err)
	}
	farthest, ok, err := n.LastAncestor(ctx, query.AnyTag(), node)
	if err != nil || !ok || farthest != root {
		t.Errorf("LastAncestor() = %v, %v, %v", farthest, ok, err)
	}
	if eval.calls != 1 {
		t.Errorf("expected 1 evaluation, got %d", eval.calls)
	}
}

func TestSelect_NonAncestorKeepsOrder(t *testing.T) {
	eval := cache.EvaluatorFunc[*chainNode](func(context.Context, query.Expression, *chainNode) ([]*chainNode, error) {
		return []*chainNode{{id: "1"}, {id: "2"}}, nil
	})
	n := New(cache.NewSelector[*chainNode](eval, nil, nil, cache.DefaultPolicy()))

	got, err := n.Select(context.Background(), query.Preceding, query.AnyTag(), nil, &chainNode{id: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].id != "1" || got[1].id != "2" {
		t.Errorf("expected document order, got %s,%s", got[0].id, got[1].id)
	}
}

func TestNew_Options(t *testing.T) {
	sel := cache.NewSelector[*chainNode](&chainEvaluator{}, nil, nil, cache.DefaultPolicy())

	if n := New(sel); n.idAttr != DefaultIDAttribute {
		t.Errorf("expected default id attribute, got %q", n.idAttr)
	}
	if n := New(sel, WithIDAttribute("")); n.idAttr != DefaultIDAttribute {
		t.Errorf("empty option should keep default, got %q", n.idAttr)
	}
	if n := New(sel, WithIDAttribute("key")); n.idAttr != "key" {
		t.Errorf("expected key, got %q", n.idAttr)
	}
	if New(sel).Selector() != sel {
		t.Error("Selector() should return the configured selector")
	}
}
