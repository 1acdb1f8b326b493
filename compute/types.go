package compute

// Device describes the compute device behind a context.
type Device interface {
	// Name returns a human-readable device name.
	Name() string

	// LocalMemSize returns the capacity of the device's fast local
	// memory in bytes.
	LocalMemSize() int
}

// Event is a completion handle for an asynchronous operation.
type Event interface {
	// Wait blocks until the operation completes and returns its error,
	// if any.
	Wait() error
}

// Buffer is a device-resident array of float64 elements.
type Buffer interface {
	// Len returns the buffer length in elements.
	Len() int
}

// Kernel is a compiled kernel handle.
type Kernel interface {
	// Name returns the kernel entry-point name.
	Name() string

	// PreferredWorkGroupSize returns the workgroup size the device
	// prefers for this kernel.
	PreferredWorkGroupSize() int

	// StaticLocalMem returns the kernel's own static local-memory
	// footprint in bytes, excluding dynamically passed LocalMem args.
	StaticLocalMem() int
}

// LocalMem requests a dynamically sized local-memory allocation as a
// kernel argument. Elems is the allocation size in elements.
type LocalMem struct {
	Elems int
}

// Source is a kernel compilation unit: generated source text plus the
// scalar type name and, for generalized stencils, the reduction
// function identifier baked into the source.
type Source struct {
	// Text is the generated kernel source.
	Text string

	// Scalar is the scalar type name the source was generated for
	// (e.g. "double").
	Scalar string

	// Reduce is the reduction function identifier, empty for plain
	// convolution programs.
	Reduce string
}

// Program is a compiled collection of kernels.
type Program interface {
	// Kernel returns the compiled kernel with the given entry-point
	// name, or an error if the program does not define it.
	Kernel(name string) (Kernel, error)
}

// Queue is an in-order command stream on a context. Operations enqueued
// on one queue complete in FIFO order; no ordering exists across queues.
type Queue interface {
	// Context returns the execution context this queue belongs to.
	Context() Context

	// EnqueueRead starts an asynchronous copy of len(dst) elements out
	// of buf, beginning at element offset, into dst. The returned Event
	// completes when dst is fully populated.
	EnqueueRead(buf Buffer, offset int, dst []float64) (Event, error)

	// EnqueueWrite starts an asynchronous copy of src into buf at the
	// given element offset. The returned Event completes when the
	// buffer contents are visible to later operations on any queue of
	// the same context.
	EnqueueWrite(buf Buffer, offset int, src []float64) (Event, error)

	// EnqueueKernel launches global work-items in groups of local
	// (local <= 0 lets the implementation choose). Arguments are passed
	// positionally; LocalMem values request local allocations.
	EnqueueKernel(k Kernel, global, local int, args ...any) error

	// Finish blocks until every previously enqueued operation has
	// completed and returns the first error raised by any of them.
	Finish() error
}

// Context is one execution context bound to one device. Implementations
// must be comparable so contexts can key program caches.
type Context interface {
	// Device returns the device behind this context.
	Device() Device

	// NewQueue opens an additional independent in-order queue on this
	// context.
	NewQueue() (Queue, error)

	// NewBuffer allocates an uninitialized device buffer of n elements.
	NewBuffer(n int) (Buffer, error)

	// NewBufferFrom allocates a device buffer initialized with a copy
	// of data.
	NewBufferFrom(data []float64) (Buffer, error)

	// BuildProgram compiles generated kernel source for this context.
	// A failed build returns an error carrying the compiler diagnostic.
	BuildProgram(src Source) (Program, error)

	// Close releases the context and stops its queues. Using the
	// context after Close is undefined.
	Close() error
}
