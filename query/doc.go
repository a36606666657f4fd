// Package query synthesizes XPath selection expressions from an axis, a tag
// spec and an attribute filter.
//
// Building is pure: no I/O and no state. The same inputs always produce the
// same Expression text, and semantically different inputs never produce the
// same text. Attribute values are delimited by apostrophes; a value that
// contains an apostrophe cannot be embedded and is rejected with
// ErrUnquotableValue rather than silently corrupting the expression.
//
// # Shapes
//
//	Build(Descendant, Tag("item"), Attrs(Eq("id", "42")))
//	    .//item[@id='42']
//	Build(Descendant, Tags("a", "b"), Attrs(Eq("x", "1")))
//	    .//*[(self::a or self::b) and (@x='1')]
//	Build(Ancestor, AnyTag(), nil)
//	    ./ancestor::*
package query
