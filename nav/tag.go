package nav

import (
	"context"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/query"
)

// TagQuery is a Navigator with a fixed TagSpec, for call sites that ask the
// same question of many nodes.
//
//	notes := n.Tag(query.Tag("note"))
//	for _, p := range paragraphs {
//	    first, ok, err := notes.FirstFollowing(ctx, p)
//	    ...
//	}
type TagQuery[N cache.Node] struct {
	nav  *Navigator[N]
	tags query.TagSpec
}

// Tag binds tags to a reusable query.
func (n *Navigator[N]) Tag(tags query.TagSpec) TagQuery[N] {
	return TagQuery[N]{nav: n, tags: tags}
}

// Tags returns the bound TagSpec.
func (q TagQuery[N]) Tags() query.TagSpec {
	return q.tags
}

func (q TagQuery[N]) Children(ctx context.Context, node N) ([]N, error) {
	return q.nav.Children(ctx, q.tags, node)
}

func (q TagQuery[N]) FirstChild(ctx context.Context, node N) (N, bool, error) {
	return q.nav.FirstChild(ctx, q.tags, node)
}

func (q TagQuery[N]) Descendants(ctx context.Context, node N) ([]N, error) {
	return q.nav.Descendants(ctx, q.tags, node)
}

func (q TagQuery[N]) FirstDescendant(ctx context.Context, node N) (N, bool, error) {
	return q.nav.FirstDescendant(ctx, q.tags, node)
}

// WithAttributes is DescendantsWithAttributes with the bound tags.
func (q TagQuery[N]) WithAttributes(ctx context.Context, filter query.AttrFilter, node N) ([]N, error) {
	return q.nav.DescendantsWithAttributes(ctx, q.tags, filter, node)
}

func (q TagQuery[N]) Ancestors(ctx context.Context, node N) ([]N, error) {
	return q.nav.Ancestors(ctx, q.tags, node)
}

func (q TagQuery[N]) FirstAncestor(ctx context.Context, node N) (N, bool, error) {
	return q.nav.FirstAncestor(ctx, q.tags, node)
}

func (q TagQuery[N]) Preceding(ctx context.Context, node N) ([]N, error) {
	return q.nav.Preceding(ctx, q.tags, node)
}

func (q TagQuery[N]) LastPreceding(ctx context.Context, node N) (N, bool, error) {
	return q.nav.LastPreceding(ctx, q.tags, node)
}

func (q TagQuery[N]) Following(ctx context.Context, node N) ([]N, error) {
	return q.nav.Following(ctx, q.tags, node)
}

func (q TagQuery[N]) FirstFollowing(ctx context.Context, node N) (N, bool, error) {
	return q.nav.FirstFollowing(ctx, q.tags, node)
}
