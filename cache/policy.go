package cache

import "fmt"

// IdentityPolicy decides what happens when a context node has no identity.
type IdentityPolicy int

const (
	// FailFast returns ErrIdentityMissing without evaluating.
	FailFast IdentityPolicy = iota
	// Bypass evaluates directly and does not touch the cache.
	Bypass
)

// ParseIdentityPolicy parses "fail" or "bypass". Empty means FailFast.
func ParseIdentityPolicy(s string) (IdentityPolicy, error) {
	switch s {
	case "", "fail":
		return FailFast, nil
	case "bypass":
		return Bypass, nil
	default:
		return FailFast, fmt.Errorf("cache: unknown identity policy %q", s)
	}
}

func (p IdentityPolicy) String() string {
	switch p {
	case Bypass:
		return "bypass"
	default:
		return "fail"
	}
}

// Policy configures caching behavior.
type Policy struct {
	// Disabled sends every selection straight to the evaluator.
	Disabled bool

	// MissingIdentity applies to context nodes without an identity.
	MissingIdentity IdentityPolicy
}

// DefaultPolicy caches everything and fails fast on missing identity.
func DefaultPolicy() Policy {
	return Policy{}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{Disabled: true}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return !p.Disabled
}
