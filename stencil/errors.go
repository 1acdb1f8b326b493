package stencil

import (
	"errors"
	"fmt"
)

// Sentinel errors for stencil construction and dispatch.
var (
	// ErrNoQueues indicates an empty device queue list.
	ErrNoQueues = errors.New("stencil: at least one queue is required")

	// ErrEmptyStencil indicates an empty weight sequence or matrix.
	ErrEmptyStencil = errors.New("stencil: weights must be non-empty")

	// ErrBadCenter indicates a center offset outside the stencil width.
	ErrBadCenter = errors.New("stencil: center out of range")

	// ErrShapeMismatch indicates rows*cols does not equal the number of
	// matrix elements supplied.
	ErrShapeMismatch = errors.New("stencil: matrix shape does not match element count")

	// ErrUnknownReduce indicates a Reduce tag outside the registry.
	ErrUnknownReduce = errors.New("stencil: unknown reduction function")

	// ErrBuild indicates a fatal kernel build failure. The concrete
	// error is a *BuildError carrying source and diagnostics.
	ErrBuild = errors.New("stencil: kernel build failed")

	// ErrPartitionLayout indicates x and y do not share the partition
	// layout the stencil was constructed for.
	ErrPartitionLayout = errors.New("stencil: vector partition layout mismatch")
)

// BuildError is a fatal kernel compilation failure. It carries the
// generated source alongside the backend diagnostic so the failure is
// actionable, and matches errors.Is(err, ErrBuild).
type BuildError struct {
	// Source is the generated kernel source that failed to build.
	Source string

	// Diag is the backend compiler diagnostic.
	Diag error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("stencil: kernel build failed: %v\n--- generated source ---\n%s", e.Diag, e.Source)
}

func (e *BuildError) Unwrap() error { return ErrBuild }
