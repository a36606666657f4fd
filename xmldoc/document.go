package xmldoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"
)

// DefaultIdentityAttribute is stamped when Options.IdentityAttribute is empty.
const DefaultIdentityAttribute = "xml:id"

// Options configures Parse.
type Options struct {
	// IdentityAttribute names the attribute carrying node identity.
	// Default: "xml:id"
	IdentityAttribute string

	// AssignIdentity stamps a generated value on every element lacking
	// IdentityAttribute.
	AssignIdentity bool

	// NewID generates identity values. Default: uuid.NewString.
	NewID func() string
}

// Document is a parsed, read-only XML tree.
type Document struct {
	root     *Node
	nodes    map[*xmlquery.Node]*Node
	order    []*Node
	identity string
}

// Parse reads an XML document.
func Parse(r io.Reader, opts Options) (*Document, error) {
	// Apply defaults
	if opts.IdentityAttribute == "" {
		opts.IdentityAttribute = DefaultIdentityAttribute
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	raw, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	doc := &Document{
		nodes:    make(map[*xmlquery.Node]*Node),
		identity: opts.IdentityAttribute,
	}
	doc.index(raw, opts)
	doc.root = doc.nodes[raw]
	return doc, nil
}

// ParseString reads an XML document from s.
func ParseString(s string, opts Options) (*Document, error) {
	return Parse(strings.NewReader(s), opts)
}

// index walks the tree in document order, creating one handle per node.
func (d *Document) index(n *xmlquery.Node, opts Options) {
	if opts.AssignIdentity && n.Type == xmlquery.ElementNode {
		if _, ok := lookupAttr(n, opts.IdentityAttribute); !ok {
			xmlquery.AddAttr(n, opts.IdentityAttribute, opts.NewID())
		}
	}

	node := &Node{raw: n, doc: d, pos: len(d.order)}
	d.nodes[n] = node
	d.order = append(d.order, node)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.index(c, opts)
	}
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// Element returns the document element, or nil for an empty document.
func (d *Document) Element() *Node {
	for c := d.root.raw.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return d.nodes[c]
		}
	}
	return nil
}

// Lookup returns the handle for a raw node.
func (d *Document) Lookup(raw *xmlquery.Node) (*Node, bool) {
	n, ok := d.nodes[raw]
	return n, ok
}

// Len returns the number of nodes, attributes excluded.
func (d *Document) Len() int {
	return len(d.order)
}

// IdentityAttribute returns the attribute carrying node identity.
func (d *Document) IdentityAttribute() string {
	return d.identity
}

// Evaluator returns a new evaluator bound to d.
func (d *Document) Evaluator() *Evaluator {
	return NewEvaluator(d)
}
