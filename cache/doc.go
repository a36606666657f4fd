// Package cache memoizes selection-expression evaluation per context node.
//
// Entries are keyed by the context node's identity attribute plus the exact
// expression text, so each distinct (node, expression) pair reaches the
// evaluator at most once for the lifetime of the cache. Errors are never
// stored; an empty result is a valid entry.
package cache
