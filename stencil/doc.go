// Package stencil implements distributed one-dimensional stencil
// convolution over device-partitioned vectors:
//
//	y = alpha*y + beta*conv(s, x)
//
// What:
//
//   - Stencil — a finite-width weight sequence with a center offset,
//     applied around every element of a vector.Vector that may span
//     several devices. Results are bit-identical regardless of how the
//     vector is partitioned.
//   - GeneralizedStencil — a small dense matrix of stencils; each row's
//     dot product passes through a shared nonlinear Reduce function
//     before the rows are summed:
//     y[i] = alpha*y[i] + beta * Σ_k f( Σ_j S[k][j]*x[i+j-center] ).
//   - ProgramCache — process-wide cache of compiled kernel programs,
//     keyed by execution-context identity (plus Reduce tag for the
//     generalized form); shared by every stencil on the same context.
//
// How it works:
//
//	Construction builds one plan per device: kernels are compiled (or
//	taken from the cache), the tiled fast-memory variant is chosen when
//	the workgroup tile fits the device's local-memory budget (plain
//	global-memory variant otherwise), the weights are uploaded, and a
//	halo buffer plus an auxiliary queue are created when the stencil
//	has non-zero halos. Each Convolve call runs a four-phase protocol:
//	asynchronous halo reads on the auxiliary queues, interior kernels
//	on the main queues (zero-padding partition edges), a host-gated
//	scatter of neighbor values into the halo buffers, and a boundary
//	kernel on the main queues that fixes up the edge outputs — using
//	live neighbor data at internal partition boundaries and
//	clamp-to-edge at the true ends of the global array.
//
// Concurrency:
//
//   - A Stencil may be shared across goroutines for construction-free
//     reads, but Convolve is not reentrant: the host staging buffer is
//     reused between calls. Serialize calls per stencil instance.
//   - Constructing stencils concurrently on the same context is safe;
//     the program cache is mutex-guarded.
//
// Errors:
//
//   - ErrNoQueues, ErrEmptyStencil, ErrBadCenter, ErrShapeMismatch,
//     ErrUnknownReduce — construction-time configuration errors.
//   - ErrBuild (via *BuildError, carrying generated source and the
//     compiler log) — fatal kernel build failure.
//   - ErrPartitionLayout — x and y disagree with the stencil's device
//     list or with each other.
//
// All failures are terminal: no retry, no partial results.
package stencil
