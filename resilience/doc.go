// Package resilience guards XPath evaluation.
//
// Evaluation runs in-process, so the only guards that apply are a deadline
// per evaluation (WithTimeout) and a cap on concurrent evaluations
// (WithBulkhead). Both decorate a cache.Evaluator and compose with the
// observe middleware. Put the bulkhead inside the timeout: WithTimeout
// abandons a late evaluation without stopping it, and only an inner
// bulkhead keeps that evaluation's slot until it really ends.
//
//	eval := resilience.WithBulkhead(doc.Evaluator(), resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 8}))
//	eval = resilience.WithTimeout(eval, 2*time.Second)
//	sel := cache.NewSelector(eval, nil, nil, cache.DefaultPolicy())
package resilience
