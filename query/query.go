package query

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	or  = " or "
	and = " and "

	// Quote delimits attribute values inside an expression.
	Quote = "'"
)

// Expression is an immutable XPath selection expression.
type Expression struct {
	text string
}

// Raw wraps expression text that was produced elsewhere.
// No validation is performed.
func Raw(text string) Expression {
	return Expression{text: text}
}

// String returns the expression text.
func (e Expression) String() string {
	return e.text
}

// IsZero reports whether the expression is empty.
func (e Expression) IsZero() bool {
	return e.text == ""
}

// TagSpec selects elements by one tag name or by a set of tag names.
type TagSpec struct {
	names   []string
	anyNode bool
}

// Tag matches elements named name. "*" matches any element.
func Tag(name string) TagSpec {
	return TagSpec{names: []string{name}}
}

// Tags matches elements whose name is any of names.
func Tags(names ...string) TagSpec {
	return TagSpec{names: append([]string(nil), names...)}
}

// AnyTag matches any element.
func AnyTag() TagSpec {
	return Tag("*")
}

// AnyNode matches any node, including the document node and text.
func AnyNode() TagSpec {
	return TagSpec{anyNode: true}
}

// Names returns a copy of the tag names.
func (t TagSpec) Names() []string {
	return append([]string(nil), t.names...)
}

// Attr is a single attribute test.
type Attr struct {
	Name string
	// Value is compared only when AnyValue is false.
	Value    string
	AnyValue bool
}

// Has requires the attribute to exist with any value.
func Has(name string) Attr {
	return Attr{Name: name, AnyValue: true}
}

// Eq requires the attribute to equal value.
func Eq(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// AttrFilter is an ordered conjunction of attribute tests.
// Order only affects the expression text.
type AttrFilter []Attr

// Attrs builds an AttrFilter.
func Attrs(attrs ...Attr) AttrFilter {
	return AttrFilter(attrs)
}

// AttrClause renders the filter as "@a and @b='v'". An empty filter renders
// as the empty string; callers must then omit the predicate entirely.
func AttrClause(filter AttrFilter) (string, error) {
	clauses := make([]string, 0, len(filter))
	for _, a := range filter {
		if !isQName(a.Name) {
			return "", fmt.Errorf("%w: attribute %q", ErrInvalidName, a.Name)
		}
		if a.AnyValue {
			clauses = append(clauses, "@"+a.Name)
			continue
		}
		if strings.Contains(a.Value, Quote) {
			return "", fmt.Errorf("%w: @%s=%q", ErrUnquotableValue, a.Name, a.Value)
		}
		clauses = append(clauses, "@"+a.Name+"="+Quote+a.Value+Quote)
	}
	return strings.Join(clauses, and), nil
}

// TagDisjunction renders "self::a or self::b".
func TagDisjunction(names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrEmptyTagSpec
	}
	clauses := make([]string, len(names))
	for i, name := range names {
		if !isTagName(name) {
			return "", fmt.Errorf("%w: tag %q", ErrInvalidName, name)
		}
		clauses[i] = "self::" + name
	}
	return strings.Join(clauses, or), nil
}

// Step describes one location step.
type Step struct {
	Axis   Axis
	Tags   TagSpec
	Filter AttrFilter
	// Absolute anchors the step at the document root instead of the context node.
	Absolute bool
}

// Build returns the context-relative expression for axis, tags and filter.
func Build(axis Axis, tags TagSpec, filter AttrFilter) (Expression, error) {
	return Step{Axis: axis, Tags: tags, Filter: filter}.Expression()
}

// Expression renders the step.
func (s Step) Expression() (Expression, error) {
	if !s.Axis.valid() {
		return Expression{}, fmt.Errorf("%w: %d", ErrUnknownAxis, int(s.Axis))
	}

	attrs, err := AttrClause(s.Filter)
	if err != nil {
		return Expression{}, err
	}

	var nodeTest, predicate string
	switch {
	case s.Tags.anyNode:
		nodeTest = "node()"
		if attrs != "" {
			predicate = "[" + attrs + "]"
		}
	case len(s.Tags.names) == 0:
		return Expression{}, ErrEmptyTagSpec
	case len(s.Tags.names) == 1:
		nodeTest = s.Tags.names[0]
		if !isTagName(nodeTest) {
			return Expression{}, fmt.Errorf("%w: tag %q", ErrInvalidName, nodeTest)
		}
		if attrs != "" {
			predicate = "[" + attrs + "]"
		}
	default:
		tags, err := TagDisjunction(s.Tags.names)
		if err != nil {
			return Expression{}, err
		}
		nodeTest = "*"
		if attrs != "" {
			predicate = "[(" + tags + ")" + and + "(" + attrs + ")]"
		} else {
			predicate = "[(" + tags + ")]"
		}
	}

	if !s.Absolute && s.Tags.anyNode && predicate == "" {
		switch s.Axis {
		case Parent:
			return Expression{text: "./.."}, nil
		case Self:
			return Expression{text: "."}, nil
		}
	}

	return Expression{text: s.Axis.prefix(s.Absolute) + nodeTest + predicate}, nil
}

// isTagName reports whether name is a QName or the "*" wildcard.
func isTagName(name string) bool {
	return name == "*" || isQName(name)
}

// isQName reports whether name is an NCName, optionally prefixed by "ncname:".
func isQName(name string) bool {
	prefix, local, found := strings.Cut(name, ":")
	if !found {
		return isNCName(name)
	}
	return isNCName(prefix) && isNCName(local)
}

func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)):
		default:
			return false
		}
	}
	return true
}
