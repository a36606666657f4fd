package nav

import (
	"context"
	"slices"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/query"
)

// DefaultIDAttribute is the attribute DescendantByID matches.
const DefaultIDAttribute = "id"

// Navigator answers axis queries relative to a context node.
//
// Contract:
// - Concurrency: safe for concurrent use when the Selector is.
// - Ordering: document order, except Ancestors which is closest first.
// - Errors: construction errors (query.ErrConstruction) happen before evaluation;
//   evaluator errors are returned unchanged; no match is not an error.
type Navigator[N cache.Node] struct {
	sel    *cache.Selector[N]
	idAttr string
}

type options struct {
	idAttr string
}

// Option configures a Navigator.
type Option func(*options)

// WithIDAttribute sets the attribute DescendantByID matches.
func WithIDAttribute(name string) Option {
	return func(o *options) {
		if name != "" {
			o.idAttr = name
		}
	}
}

// New creates a Navigator over sel.
func New[N cache.Node](sel *cache.Selector[N], opts ...Option) *Navigator[N] {
	o := options{idAttr: DefaultIDAttribute}
	for _, opt := range opts {
		opt(&o)
	}
	return &Navigator[N]{sel: sel, idAttr: o.idAttr}
}

// Selector returns the underlying memoizing selector.
func (n *Navigator[N]) Selector() *cache.Selector[N] {
	return n.sel
}

// Select runs one step along axis. Ancestor results are closest first;
// every other axis is in document order.
func (n *Navigator[N]) Select(ctx context.Context, axis query.Axis, tags query.TagSpec, filter query.AttrFilter, node N) ([]N, error) {
	nodes, err := n.all(ctx, axis, tags, filter, node)
	if err != nil {
		return nil, err
	}
	if axis == query.Ancestor {
		slices.Reverse(nodes)
	}
	return nodes, nil
}

// Children returns child elements matching tags.
func (n *Navigator[N]) Children(ctx context.Context, tags query.TagSpec, node N) ([]N, error) {
	return n.all(ctx, query.Child, tags, nil, node)
}

// FirstChild returns the first matching child.
func (n *Navigator[N]) FirstChild(ctx context.Context, tags query.TagSpec, node N) (N, bool, error) {
	return n.first(ctx, query.Child, tags, nil, node)
}

// LastChild returns the last matching child.
func (n *Navigator[N]) LastChild(ctx context.Context, tags query.TagSpec, node N) (N, bool, error) {
	return n.last(ctx, query.Child, tags, nil, node)
}

// Descendants returns descendant elements matching tags.
func (n *Navigator[N]) Descendants(ctx context.Context, tags query.TagSpec, node N) ([]N, error) {
	return n.all(ctx, query.Descendant, tags, nil, node)
}

// FirstDescendant returns the first matching descendant in document order.
func (n *Navigator[N]) FirstDescendant(ctx context.Context, tags query.TagSpec, node N) (N, bool, error) {
	return n.first(ctx, query.Descendant, tags, nil, node)
}

// LastDescendant returns the last matching descendant in document order.
func (n *Navigator[N]) LastDescendant(ctx context.Context, tags query.TagSpec, node N) (N, bool, error) {
	return n.last(ctx, query.Descendant, tags, nil, node)
}

// DescendantsWithAttributes returns descendants matching tags and filter.
func (n *Navigator[N]) DescendantsWithAttributes(ctx context.Context, tags query.TagSpec, filter query.AttrFilter, node N) ([]N, error) {
	return n.all(ctx, query.Descendant, tags, filter, node)
}

// DescendantByID returns the first descendant of any tag whose id attribute
// equals id. Duplicates are not rejected; the first in document order wins.
func (n *Navigator[N]) DescendantByID(ctx context.Context, id string, node N) (N, bool, error) {
	return n.first(ctx, query.Descendant, query.AnyTag(), query.Attrs(query.Eq(n.idAttr, id)), node)
}

// Ancestors returns matching ancestors, closest first.
func (n *Navigator[N]) Ancestors(ctx context.Context, tags query.TagSpec, node N) ([]N, error) {
	return n.Select(ctx, query.Ancestor, tags, nil, node)
}

// FirstAncestor returns the closest matching ancestor.
func (n *Navigator[N]) FirstAncestor(ctx context.Context, tags query.TagSpec, node N) (N, bool, error) {
	// Closest is last in document order.
	return n.last(ctx, query.Ancestor, tags, nil, node)
}

// LastAncestor returns the farthest matching ancestor.
func (n *Navigator[N]) LastAncestor(ctx context.Context, tags query.TagSpec, node N) (N, bool, error) {
	return n.first(ctx, query.Ancestor, tags, nil, node)
}

// Parent returns the parent node. The document element's parent is the
// document node.
func (n *Navigator[N]) Parent(ctx context.Context, node N) (N, bool, error) {
	return n.first(ctx, query.Parent, query.AnyNode(), nil, node)
}

// Preceding returns matching nodes before node, excluding ancestors, in
// document order.
func (n *Navigator[N]) Preceding(ctx context.Context, tags query.TagSpec, node N) ([]N, error) {
	return n.all(ctx, query.Preceding, tags, nil, node)
}

// FirstPreceding returns the earliest matching preceding node in document order.
func (n *Navigator[N]) FirstPreceding(ctx context.Context, tags query.TagSpec, node N) (N, bool, error) {
	return n.first(ctx, query.Preceding, tags, nil, node)
}

// LastPreceding returns the matching preceding node nearest to node.
func (n *Navigator[N]) LastPreceding(ctx context.Context, tags query.TagSpec, node N) (N, bool, error) {
	return n.last(ctx, query.Preceding, tags, nil, node)
}

// PrecedingWithAttributes returns preceding nodes matching tags and filter.
func (n *Navigator[N]) PrecedingWithAttributes(ctx context.Context, tags query.TagSpec, filter query.AttrFilter, node N) ([]N, error) {
	return n.all(ctx, query.Preceding, tags, filter, node)
}

// FirstPrecedingWithAttributes returns the first of PrecedingWithAttributes.
func (n *Navigator[N]) FirstPrecedingWithAttributes(ctx context.Context, tags query.TagSpec, filter query.AttrFilter, node N) (N, bool, error) {
	return n.first(ctx, query.Preceding, tags, filter, node)
}

// PrecedingSiblings returns matching siblings before node.
func (n *Navigator[N]) PrecedingSiblings(ctx context.Context, tags query.TagSpec, node N) ([]N, error) {
	return n.all(ctx, query.PrecedingSibling, tags, nil, node)
}

// Following returns matching nodes after node, excluding descendants.
func (n *Navigator[N]) Following(ctx context.Context, tags query.TagSpec, node N) ([]N, error) {
	return n.all(ctx, query.Following, tags, nil, node)
}

// FirstFollowing returns the nearest matching following node.
func (n *Navigator[N]) FirstFollowing(ctx context.Context, tags query.TagSpec, node N) (N, bool, error) {
	return n.first(ctx, query.Following, tags, nil, node)
}

// FollowingWithAttributes returns following nodes matching tags and filter.
func (n *Navigator[N]) FollowingWithAttributes(ctx context.Context, tags query.TagSpec, filter query.AttrFilter, node N) ([]N, error) {
	return n.all(ctx, query.Following, tags, filter, node)
}

// FirstFollowingWithAttributes returns the first of FollowingWithAttributes.
func (n *Navigator[N]) FirstFollowingWithAttributes(ctx context.Context, tags query.TagSpec, filter query.AttrFilter, node N) (N, bool, error) {
	return n.first(ctx, query.Following, tags, filter, node)
}

// FollowingSiblings returns matching siblings after node.
func (n *Navigator[N]) FollowingSiblings(ctx context.Context, tags query.TagSpec, node N) ([]N, error) {
	return n.all(ctx, query.FollowingSibling, tags, nil, node)
}

func (n *Navigator[N]) all(ctx context.Context, axis query.Axis, tags query.TagSpec, filter query.AttrFilter, node N) ([]N, error) {
	expr, err := query.Build(axis, tags, filter)
	if err != nil {
		return nil, err
	}
	return n.sel.Select(ctx, expr, node)
}

// first takes index 0 in document order through SelectOne.
func (n *Navigator[N]) first(ctx context.Context, axis query.Axis, tags query.TagSpec, filter query.AttrFilter, node N) (N, bool, error) {
	expr, err := query.Build(axis, tags, filter)
	if err != nil {
		var zero N
		return zero, false, err
	}
	return n.sel.SelectOne(ctx, expr, node)
}

// last takes the final index in document order.
func (n *Navigator[N]) last(ctx context.Context, axis query.Axis, tags query.TagSpec, filter query.AttrFilter, node N) (N, bool, error) {
	var zero N
	nodes, err := n.all(ctx, axis, tags, filter, node)
	if err != nil || len(nodes) == 0 {
		return zero, false, err
	}
	return nodes[len(nodes)-1], true, nil
}
