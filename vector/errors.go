package vector

import "errors"

// Sentinel errors for partitioned vector construction and access.
var (
	// ErrNoQueues indicates an empty queue list.
	ErrNoQueues = errors.New("vector: at least one queue is required")

	// ErrPartCount indicates len(parts) != len(queues).
	ErrPartCount = errors.New("vector: one partition size per queue is required")

	// ErrPartMismatch indicates partition sizes do not sum to the data length.
	ErrPartMismatch = errors.New("vector: partition sizes must sum to the data length")

	// ErrNegativePart indicates a negative partition size.
	ErrNegativePart = errors.New("vector: partition sizes must be non-negative")

	// ErrLenMismatch indicates a host slice of the wrong length passed to Write.
	ErrLenMismatch = errors.New("vector: data length does not match vector length")
)
