package cache

import (
	"fmt"
	"strconv"

	"github.com/jonwraymond/xmlnav/query"
)

// DefaultIdentityAttribute is the attribute read for node identity.
const DefaultIdentityAttribute = "xml:id"

// Key identifies one cache entry: a node identity plus expression text.
// Keys are comparable, so distinct pairs never collide.
type Key struct {
	Identity   string
	Expression string
}

// String renders the key as "<len(identity)>:<identity>/<expression>".
// The length prefix keeps the rendering injective.
func (k Key) String() string {
	return strconv.Itoa(len(k.Identity)) + ":" + k.Identity + "/" + k.Expression
}

// Keyer derives cache keys from a context node and an expression.
//
// Contract:
// - Determinism: the same node identity and expression must produce the same key.
// - Errors: a node without identity yields an error wrapping ErrIdentityMissing.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(node Node, expr query.Expression) (Key, error)
}

// AttributeKeyer reads identity from a fixed attribute.
type AttributeKeyer struct {
	attr string
}

// NewAttributeKeyer creates a keyer reading attr. An empty attr uses
// DefaultIdentityAttribute.
func NewAttributeKeyer(attr string) *AttributeKeyer {
	if attr == "" {
		attr = DefaultIdentityAttribute
	}
	return &AttributeKeyer{attr: attr}
}

// NewDefaultKeyer creates a keyer reading DefaultIdentityAttribute.
func NewDefaultKeyer() *AttributeKeyer {
	return NewAttributeKeyer(DefaultIdentityAttribute)
}

// Attribute returns the identity attribute name.
func (k *AttributeKeyer) Attribute() string {
	return k.attr
}

// Key builds the key for node and expr.
func (k *AttributeKeyer) Key(node Node, expr query.Expression) (Key, error) {
	if node == nil {
		return Key{}, fmt.Errorf("%w: node is nil", ErrIdentityMissing)
	}
	id, _ := node.Attribute(k.attr)
	key := Key{Identity: id, Expression: expr.String()}
	if err := ValidateKey(key); err != nil {
		return Key{}, fmt.Errorf("%w: attribute %q", err, k.attr)
	}
	return key, nil
}

// Ensure AttributeKeyer implements Keyer
var _ Keyer = (*AttributeKeyer)(nil)
