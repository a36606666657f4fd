package nav

import "errors"

// ErrNotFound is returned by Required when a single-result lookup matched nothing.
var ErrNotFound = errors.New("nav: no matching node")

// Required converts an optional single result into a required one.
//
//	note, err := nav.Required(n.DescendantByID(ctx, "n1", root))
func Required[N any](node N, ok bool, err error) (N, error) {
	if err != nil {
		return node, err
	}
	if !ok {
		var zero N
		return zero, ErrNotFound
	}
	return node, nil
}
