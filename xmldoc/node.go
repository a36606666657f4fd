package xmldoc

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// DocumentIdentity is the identity the document node reports for the
// document's identity attribute. It is not a valid NCName, so no element
// value can collide with it.
const DocumentIdentity = "#document"

// Node is a stable handle to one node of a Document.
type Node struct {
	raw *xmlquery.Node
	doc *Document
	pos int
}

// Attribute returns the value of the named attribute. Prefixed names such as
// "xml:id" match by prefix; the xml prefix also matches its namespace URI.
func (n *Node) Attribute(name string) (string, bool) {
	if n == nil || n.raw == nil {
		return "", false
	}
	if n.raw.Type == xmlquery.DocumentNode {
		if n.doc != nil && name == n.doc.identity {
			return DocumentIdentity, true
		}
		return "", false
	}
	return lookupAttr(n.raw, name)
}

// Name returns the qualified element name, or "" for non-element nodes.
func (n *Node) Name() string {
	if n.raw.Type != xmlquery.ElementNode {
		return ""
	}
	if n.raw.Prefix != "" {
		return n.raw.Prefix + ":" + n.raw.Data
	}
	return n.raw.Data
}

// Text returns the concatenated text content.
func (n *Node) Text() string {
	return n.raw.InnerText()
}

// Position returns the node's index in document order.
func (n *Node) Position() int {
	return n.pos
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n.raw.Type == xmlquery.ElementNode
}

// Raw returns the underlying xmlquery node. Callers must not modify it.
func (n *Node) Raw() *xmlquery.Node {
	return n.raw
}

// Document returns the owning document.
func (n *Node) Document() *Document {
	return n.doc
}

// String renders "name#identity", or "#document" for the document node.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.raw.Type {
	case xmlquery.DocumentNode:
		return "#document"
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return "#text"
	case xmlquery.ElementNode:
	default:
		return "#node"
	}
	if id, ok := n.Attribute(n.doc.identity); ok {
		return n.Name() + "#" + id
	}
	return n.Name()
}

func lookupAttr(raw *xmlquery.Node, name string) (string, bool) {
	prefix, local, found := strings.Cut(name, ":")
	if !found {
		prefix, local = "", name
	}
	for _, a := range raw.Attr {
		if a.Name.Local != local {
			continue
		}
		switch a.Name.Space {
		case prefix:
			return a.Value, true
		case xmlNamespace:
			if prefix == "xml" {
				return a.Value, true
			}
		}
	}
	return "", false
}
