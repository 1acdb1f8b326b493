// Package vector provides the device-partitioned one-dimensional array
// consumed by the stencil convolution engine.
//
// What:
//
//   - Vector — a logical []float64 split into contiguous partitions,
//     one per command queue, in queue order with no gaps. Partition d
//     lives in a device buffer on queue d's context.
//   - New splits evenly (remainder spread over the leading partitions);
//     NewWithParts takes explicit partition sizes so callers control
//     every split point.
//   - Read / Write move the whole logical array between host and
//     devices, sequenced after all previously enqueued work on each
//     main queue.
//
// Why:
//
//   - The engine addresses data exclusively through PartSize, Buffer,
//     and Queue; any container with contiguous ordered partitions could
//     stand in. This one is the reference.
//
// Errors:
//
//   - ErrNoQueues      — the queue list is empty.
//   - ErrPartCount     — partition sizes do not match the queue count.
//   - ErrPartMismatch  — partition sizes do not sum to the data length.
//   - ErrNegativePart  — a partition size is negative.
//   - ErrLenMismatch   — Write called with a slice of the wrong length.
package vector
