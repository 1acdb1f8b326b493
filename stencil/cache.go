package stencil

import (
	"sync"

	"github.com/katalvlaran/halostencil/compute"
)

// ProgramSet holds the compiled kernels and the tuned baseline
// workgroup size for one (context, variant) pair.
type ProgramSet struct {
	// Tiled, Plain, Boundary are the compiled kernel handles.
	Tiled    compute.Kernel
	Plain    compute.Kernel
	Boundary compute.Kernel

	// WGSize is the baseline preferred workgroup size: the minimum of
	// the preferred sizes the device reports for the three kernels.
	WGSize int
}

// cacheKey identifies one compiled program set. Contexts are compared
// by identity; the Reduce tag participates only for generalized
// programs.
type cacheKey struct {
	ctx         compute.Context
	generalized bool
	reduce      Reduce
}

// ProgramCache is a cache of compiled kernel programs keyed by
// execution-context identity (plus reduction tag for generalized
// stencils). Entries are created lazily on first use and never evicted;
// every stencil constructed on the same context shares one entry.
//
// The cache is safe for concurrent use. Building is serialized under
// the cache lock so a program is compiled at most once per key.
type ProgramCache struct {
	mu      sync.Mutex
	entries map[cacheKey]*ProgramSet
}

// NewProgramCache creates an empty program cache. Most callers should
// use the package-level DefaultCache instead, which matches the
// process-wide sharing semantics of the engine.
func NewProgramCache() *ProgramCache {
	return &ProgramCache{entries: make(map[cacheKey]*ProgramSet)}
}

// DefaultCache is the process-wide program cache used when a stencil is
// constructed without an explicit cache. It outlives every stencil
// instance.
var DefaultCache = NewProgramCache()

// Len returns the number of cached program sets.
func (c *ProgramCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// lookup returns the cached entry for key, invoking build under the
// cache lock when the entry does not exist yet.
func (c *ProgramCache) lookup(key cacheKey, build func() (*ProgramSet, error)) (*ProgramSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.entries[key]; ok {
		return set, nil
	}
	set, err := build()
	if err != nil {
		return nil, err
	}
	c.entries[key] = set
	return set, nil
}

// programs returns the program set for a context, compiling the
// convolution kernels on first use.
func (c *ProgramCache) programs(ctx compute.Context) (*ProgramSet, error) {
	return c.lookup(cacheKey{ctx: ctx}, func() (*ProgramSet, error) {
		src := compute.Source{Text: convSource(scalarName), Scalar: scalarName}
		return buildSet(ctx, src, "conv_tiled", "conv_plain", "conv_boundary")
	})
}

// gprograms returns the program set for (context, reduce), compiling
// the generalized kernels on first use.
func (c *ProgramCache) gprograms(ctx compute.Context, r Reduce) (*ProgramSet, error) {
	key := cacheKey{ctx: ctx, generalized: true, reduce: r}
	return c.lookup(key, func() (*ProgramSet, error) {
		src := compute.Source{
			Text:   gconvSource(scalarName, r),
			Scalar: scalarName,
			Reduce: r.String(),
		}
		return buildSet(ctx, src, "gconv_tiled", "gconv_plain", "gconv_boundary")
	})
}

// buildSet compiles src and resolves the three kernel handles. Build
// failures surface as *BuildError carrying the generated source.
func buildSet(ctx compute.Context, src compute.Source, tiled, plain, boundary string) (*ProgramSet, error) {
	prog, err := ctx.BuildProgram(src)
	if err != nil {
		return nil, &BuildError{Source: src.Text, Diag: err}
	}
	set := &ProgramSet{}
	if set.Tiled, err = prog.Kernel(tiled); err != nil {
		return nil, &BuildError{Source: src.Text, Diag: err}
	}
	if set.Plain, err = prog.Kernel(plain); err != nil {
		return nil, &BuildError{Source: src.Text, Diag: err}
	}
	if set.Boundary, err = prog.Kernel(boundary); err != nil {
		return nil, &BuildError{Source: src.Text, Diag: err}
	}
	set.WGSize = set.Tiled.PreferredWorkGroupSize()
	if w := set.Plain.PreferredWorkGroupSize(); w < set.WGSize {
		set.WGSize = w
	}
	if w := set.Boundary.PreferredWorkGroupSize(); w < set.WGSize {
		set.WGSize = w
	}
	if set.WGSize < 1 {
		set.WGSize = 1
	}
	return set, nil
}
