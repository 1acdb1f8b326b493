package hostsim

import "errors"

// Sentinel errors for the host reference backend.
var (
	// ErrBadOptions indicates invalid Options values passed to New.
	ErrBadOptions = errors.New("hostsim: invalid options")

	// ErrClosed indicates an operation on a closed context or queue.
	ErrClosed = errors.New("hostsim: context closed")

	// ErrOutOfRange indicates a buffer read or write outside its bounds.
	ErrOutOfRange = errors.New("hostsim: buffer access out of range")

	// ErrAllocation indicates a buffer allocation beyond the configured
	// MaxBufferElems limit.
	ErrAllocation = errors.New("hostsim: allocation limit exceeded")

	// ErrBuild indicates the host compiler rejected kernel source.
	ErrBuild = errors.New("hostsim: program build failed")

	// ErrUnknownKernel indicates a requested entry point is not present
	// in the compiled program.
	ErrUnknownKernel = errors.New("hostsim: unknown kernel")

	// ErrBadKernelArg indicates a kernel launch with missing or
	// mistyped arguments.
	ErrBadKernelArg = errors.New("hostsim: bad kernel argument")

	// ErrLocalMem indicates a kernel requested more local memory than
	// the simulated device provides.
	ErrLocalMem = errors.New("hostsim: local memory request exceeds device capacity")
)
