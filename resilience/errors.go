package resilience

import "errors"

var (
	// ErrBulkheadFull is returned when the bulkhead is at capacity.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when an evaluation exceeds its deadline.
	ErrTimeout = errors.New("resilience: evaluation timed out")
)
