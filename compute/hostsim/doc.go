// Package hostsim is the in-process reference implementation of the
// compute collaborator interfaces.
//
// What:
//
//   - Context — a simulated single-device execution context with a
//     configurable local-memory capacity and preferred workgroup size.
//   - Queue — a FIFO command stream backed by one goroutine per queue,
//     giving the same in-order guarantee as a hardware command queue.
//   - Buffer — host-memory float64 storage.
//   - Compiler — binds the engine's generated kernel entry points to
//     native Go implementations. The tiled and plain convolution paths
//     are implemented independently (workgroup-tile staging versus
//     direct global reads) so cross-variant tests exercise two real
//     code paths.
//
// Why:
//
//   - Lets the whole convolution engine, including its asynchronous
//     halo-exchange protocol, run and be tested without an accelerator.
//   - Options deliberately expose the knobs the engine's planner reads
//     (local memory, preferred workgroup size) so tests can force the
//     plain or tiled variant.
//
// Errors:
//
//   - ErrBadOptions   — invalid Options values.
//   - ErrClosed       — operation on a closed context or queue.
//   - ErrOutOfRange   — buffer access outside its bounds.
//   - ErrAllocation   — buffer exceeds the configured allocation limit.
//   - ErrBuild        — kernel source rejected by the host compiler.
//   - ErrUnknownKernel — entry point absent from the compiled program.
//   - ErrBadKernelArg — kernel launched with mistyped or missing args.
package hostsim
