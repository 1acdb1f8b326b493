// Package compute defines the accelerator collaborator surface used by
// the stencil convolution engine: execution contexts, in-order command
// queues, device buffers, completion events, and the kernel compiler.
//
// What:
//
//   - Context — one execution context bound to one device; owns buffers,
//     queues and compiled programs.
//   - Queue — an in-order command stream. All enqueue operations are
//     non-blocking; ordering is guaranteed only within a single queue.
//   - Buffer — a device-resident array of float64 elements.
//   - Event — a completion handle for an asynchronous read or write.
//   - Program / Kernel — compiled kernel handles with workgroup metadata.
//
// Why:
//
//   - The engine never talks to a concrete accelerator API; it is written
//     against these interfaces so a real backend (OpenCL, CUDA, Metal)
//     and the in-process reference backend (compute/hostsim) are
//     interchangeable.
//
// Guarantees required from implementations:
//
//   - FIFO execution within one Queue: operations complete in the order
//     they were enqueued.
//   - No ordering between distinct queues, even on the same context;
//     cross-queue ordering is established only by host-side Event waits.
//   - Context values must be comparable (usable as map keys); the engine
//     caches compiled programs per context identity.
//
// See compute/hostsim for the reference implementation.
package compute
