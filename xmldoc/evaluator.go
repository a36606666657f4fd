package xmldoc

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/jonwraymond/xmlnav/query"
)

// Evaluator runs XPath expressions against one Document.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ordering: results are sorted into document order without duplicates.
// - Errors: compile and runtime failures wrap ErrEvaluation.
type Evaluator struct {
	doc      *Document
	compiled sync.Map // expression text -> *xpath.Expr
}

// NewEvaluator creates an evaluator for doc.
func NewEvaluator(doc *Document) *Evaluator {
	return &Evaluator{doc: doc}
}

// Evaluate returns the nodes selected by expr relative to node.
// Attribute nodes selected by expr are not part of the result.
func (e *Evaluator) Evaluate(ctx context.Context, expr query.Expression, node *Node) ([]*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if node == nil {
		return nil, ErrNilNode
	}
	if node.doc != e.doc {
		return nil, ErrForeignNode
	}

	compiled, err := e.compile(expr.String())
	if err != nil {
		return nil, err
	}

	raw, err := selectAll(node.raw, compiled)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEvaluation, expr, err)
	}

	result := make([]*Node, 0, len(raw))
	for _, r := range raw {
		if n, ok := e.doc.nodes[r]; ok {
			result = append(result, n)
		}
	}

	// Reverse axes come back nearest-first; callers rely on document order.
	slices.SortFunc(result, func(a, b *Node) int { return a.pos - b.pos })
	return slices.Compact(result), nil
}

func (e *Evaluator) compile(text string) (*xpath.Expr, error) {
	if cached, ok := e.compiled.Load(text); ok {
		return cached.(*xpath.Expr), nil
	}
	compiled, err := xpath.Compile(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrEvaluation, text, err)
	}
	actual, _ := e.compiled.LoadOrStore(text, compiled)
	return actual.(*xpath.Expr), nil
}

// selectAll converts xpath runtime panics (non node-set results, bad casts)
// into errors.
func selectAll(top *xmlquery.Node, compiled *xpath.Expr) (nodes []*xmlquery.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return xmlquery.QuerySelectorAll(top, compiled), nil
}
