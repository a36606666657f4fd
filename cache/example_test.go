package cache_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/query"
)

type node map[string]string

func (n node) Attribute(name string) (string, bool) {
	v, ok := n[name]
	return v, ok
}

func ExampleSelector() {
	calls := 0
	eval := cache.EvaluatorFunc[node](func(_ context.Context, expr query.Expression, ctx node) ([]node, error) {
		calls++
		return []node{{"xml:id": ctx["xml:id"] + "/child"}}, nil
	})
	sel := cache.NewSelector[node](eval, nil, nil, cache.DefaultPolicy())

	expr := query.Raw("./*")
	div := node{"xml:id": "d1"}
	first, _ := sel.Select(context.Background(), expr, div)
	again, _, _ := sel.SelectOne(context.Background(), expr, div)

	fmt.Println(first[0]["xml:id"], again["xml:id"], calls)
	// Output:
	// d1/child d1/child 1
}

func ExampleKey_String() {
	k := cache.Key{Identity: "p1", Expression: "./ancestor::div"}
	fmt.Println(k.String())
	// Output:
	// 2:p1/./ancestor::div
}
