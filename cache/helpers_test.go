package cache

import (
	"context"
	"sync"

	"github.com/jonwraymond/xmlnav/query"
)

// testNode is a minimal Node with a map of attributes.
type testNode struct {
	name  string
	attrs map[string]string
}

func newNode(name, id string) *testNode {
	n := &testNode{name: name, attrs: map[string]string{}}
	if id != "" {
		n.attrs[DefaultIdentityAttribute] = id
	}
	return n
}

func (n *testNode) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// countingEvaluator records calls and returns configured results.
type countingEvaluator struct {
	mu      sync.Mutex
	calls   int
	results map[string][]*testNode
	err     error
	gate    chan struct{}
}

func (e *countingEvaluator) Evaluate(_ context.Context, expr query.Expression, _ *testNode) ([]*testNode, error) {
	if e.gate != nil {
		<-e.gate
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.results[expr.String()], nil
}

func (e *countingEvaluator) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
