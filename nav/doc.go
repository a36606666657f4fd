// Package nav provides axis-oriented navigation over an XML tree.
//
// Every operation builds an XPath expression with package query, evaluates it
// once per (context identity, expression) through a cache.Selector, and then
// applies a selection policy: all matches, first, last, or reversed.
//
// Ordering follows document order for every axis except Ancestors, which is
// reversed so the closest ancestor comes first. First and Last variants
// report absence with ok=false and a nil error; only Required turns absence
// into ErrNotFound.
//
//	n := nav.New(cache.NewSelector[*xmldoc.Node](doc.Evaluator(), nil, nil, cache.DefaultPolicy()))
//	notes, err := n.DescendantsWithAttributes(ctx, query.Tag("note"), query.Attrs(query.Has("target")), body)
//	div, ok, err := n.FirstAncestor(ctx, query.Tag("div"), notes[0])
package nav
