// Package halostencil is a distributed stencil convolution engine for
// one-dimensional arrays partitioned across multiple accelerator
// devices.
//
// 🚀 What is halostencil?
//
//	A library that computes y = alpha*y + beta*conv(s, x) over a vector
//	split contiguously across devices, and guarantees the result is
//	bit-identical to the single-device computation:
//		• Stencil & GeneralizedStencil: finite-width convolutions, plus
//		  small dense matrices of stencils with per-row nonlinear
//		  reductions
//		• Per-device planning: tiled (fast local-memory) or plain
//		  (global-memory) kernel variant, chosen under each device's
//		  local-memory budget
//		• Halo exchange: asynchronous host-staged transfer of boundary
//		  values between neighboring partitions, clamp-to-edge at the
//		  true ends of the array
//		• Program cache: kernels compiled once per execution context and
//		  shared by every stencil on it
//
// ✨ Why choose halostencil?
//
//   - Backend-agnostic – the engine is written against the compute
//     collaborator interfaces; a reference in-process backend
//     (compute/hostsim) runs everything without hardware
//   - Deterministic – partition layout never changes the result
//   - Pure Go – no cgo in the engine or the reference backend
//
// Everything is organized under four packages:
//
//	compute/  — device, queue, buffer, event & compiler interfaces
//	hostsim/  — in-process reference backend (under compute/)
//	vector/   — the device-partitioned array container
//	stencil/  — descriptors, planner, program cache, halo exchange,
//	            dispatcher, reduction registry
//
// Quick ASCII picture of a three-device convolve:
//
//	device 0        device 1        device 2
//	[··interior··]h h[··interior··]h h[··interior··]
//	       └─halo reads─┐  ┌─halo reads─┘
//	            host staging buffer
//
// Dive into stencil's package docs for the dispatch protocol and the
// exact boundary semantics.
//
//	go get github.com/katalvlaran/halostencil
package halostencil
