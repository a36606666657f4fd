// Package observe instruments XPath evaluation with OpenTelemetry tracing,
// metrics and a leveled JSON logger.
//
// It performs no evaluation itself. Instrument decorates any cache.Evaluator,
// and RegisterCacheStats publishes a cache.Selector's counters as observable
// instruments.
package observe
