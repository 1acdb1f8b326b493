package hostsim

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/halostencil/compute"
)

// hostFuncs maps reduction-function identifiers to their host
// implementations. The set mirrors the engine's reduction registry;
// identifiers are the OpenCL builtin names carried in generated source.
var hostFuncs = map[string]func(float64) float64{
	"identity": func(v float64) float64 { return v },
	"sin":      math.Sin,
	"cos":      math.Cos,
	"tan":      math.Tan,
	"sinh":     math.Sinh,
	"cosh":     math.Cosh,
	"tanh":     math.Tanh,
	"exp":      math.Exp,
	"log":      math.Log,
	"sqrt":     math.Sqrt,
	"cbrt":     math.Cbrt,
	"erf":      math.Erf,
	"fabs":     math.Abs,
	"floor":    math.Floor,
	"ceil":     math.Ceil,
	"round":    math.Round,
}

// BuildProgram compiles generated kernel source for the simulated
// device. The host "compiler" does not parse the kernel bodies; it
// validates the compilation unit (scalar type, reduction identifier,
// declared entry points) and binds each entry point to a native
// implementation. Diagnostics are returned in the error text, the way a
// real backend surfaces its build log.
func (c *Context) BuildProgram(src compute.Source) (compute.Program, error) {
	if src.Scalar != "double" {
		return nil, fmt.Errorf("%w: scalar type %q not supported by host backend", ErrBuild, src.Scalar)
	}
	var reduce func(float64) float64
	if src.Reduce != "" {
		fn, ok := hostFuncs[src.Reduce]
		if !ok {
			return nil, fmt.Errorf("%w: unknown reduction function %q", ErrBuild, src.Reduce)
		}
		reduce = fn
	}

	names := make(map[string]bool)
	for _, line := range strings.Split(src.Text, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "kernel void "); ok {
			if i := strings.IndexByte(rest, '('); i > 0 {
				names[rest[:i]] = true
			}
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: source declares no kernel entry points", ErrBuild)
	}
	return &program{ctx: c, names: names, reduce: reduce}, nil
}

// program is a compiled set of native kernels.
type program struct {
	ctx    *Context
	names  map[string]bool
	reduce func(float64) float64
}

// Kernel returns the native kernel bound to the given entry point.
func (p *program) Kernel(name string) (compute.Kernel, error) {
	if !p.names[name] {
		return nil, fmt.Errorf("%w: %q not declared in source", ErrUnknownKernel, name)
	}
	if !nativeKernels[name] {
		return nil, fmt.Errorf("%w: no native implementation for %q", ErrUnknownKernel, name)
	}
	return &kernel{prog: p, name: name}, nil
}

// nativeKernels lists the entry points the host backend can execute.
var nativeKernels = map[string]bool{
	"conv_tiled":     true,
	"conv_plain":     true,
	"conv_boundary":  true,
	"gconv_tiled":    true,
	"gconv_plain":    true,
	"gconv_boundary": true,
}

// kernel is a native kernel handle.
type kernel struct {
	prog *program
	name string
}

func (k *kernel) Name() string { return k.name }

func (k *kernel) PreferredWorkGroupSize() int { return k.prog.ctx.opts.PreferredWGS }

// StaticLocalMem is zero for all native kernels; local memory is only
// consumed through explicit LocalMem arguments.
func (k *kernel) StaticLocalMem() int { return 0 }

func (k *kernel) invoke(global, local int, args []any) error {
	a := &argReader{args: args}
	switch k.name {
	case "conv_tiled":
		return k.convTiled(global, local, a)
	case "conv_plain":
		return k.convPlain(global, a)
	case "conv_boundary":
		return k.convBoundary(global, a)
	case "gconv_tiled":
		return k.gconvTiled(global, local, a)
	case "gconv_plain":
		return k.gconvPlain(global, a)
	case "gconv_boundary":
		return k.gconvBoundary(global, a)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKernel, k.name)
}

// checkLocal verifies a dynamic local-memory request against the
// simulated device capacity, as a real runtime would at launch.
func (k *kernel) checkLocal(loc compute.LocalMem) error {
	if loc.Elems*8 > k.prog.ctx.opts.LocalMemBytes {
		return fmt.Errorf("%w: need %d bytes, have %d",
			ErrLocalMem, loc.Elems*8, k.prog.ctx.opts.LocalMemBytes)
	}
	return nil
}

// convPlain computes the zero-padded convolution reading x directly,
// one work-item per output element.
//
//	y[g] = alpha != 0 ? alpha*y[g] + beta*sum : beta*sum
func (k *kernel) convPlain(global int, a *argReader) error {
	n, lh, rh := a.Int(), a.Int(), a.Int()
	x, s, y := a.Buf(), a.Buf(), a.Buf()
	alpha, beta := a.Float(), a.Float()
	if err := a.Err(); err != nil {
		return err
	}
	for g := 0; g < global && g < n; g++ {
		sum := 0.0
		for j := -lh; j <= rh; j++ {
			if g+j >= 0 && g+j < n {
				sum += s.data[lh+j] * x.data[g+j]
			}
		}
		y.data[g] = combine(alpha, beta, y.data[g], sum)
	}
	return nil
}

// convTiled computes the same zero-padded convolution through an
// explicit per-workgroup tile, reproducing the staged local-memory
// path: each group copies its halo-padded window of x into a tile,
// then every work-item reads only the tile.
func (k *kernel) convTiled(global, local int, a *argReader) error {
	n, lh, rh := a.Int(), a.Int(), a.Int()
	x, s, y := a.Buf(), a.Buf(), a.Buf()
	alpha, beta := a.Float(), a.Float()
	loc := a.Local()
	if err := a.Err(); err != nil {
		return err
	}
	if err := k.checkLocal(loc); err != nil {
		return err
	}
	stencil := append([]float64(nil), s.data...) // staged copy of the weights
	tile := make([]float64, local+lh+rh)
	for start := 0; start < global; start += local {
		for i := range tile {
			g := start + i - lh
			if g >= 0 && g < n {
				tile[i] = x.data[g]
			} else {
				tile[i] = 0
			}
		}
		for l := 0; l < local; l++ {
			g := start + l
			if g >= n {
				continue
			}
			sum := 0.0
			for j := -lh; j <= rh; j++ {
				if g+j >= 0 && g+j < n {
					sum += stencil[lh+j] * tile[l+lh+j]
				}
			}
			y.data[g] = combine(alpha, beta, y.data[g], sum)
		}
	}
	return nil
}

// convBoundary adds the contributions the interior kernels replaced
// with zeros: terms reaching outside [0, n). Neighbor-owned values come
// from the halo buffer h; missing neighbors clamp to the partition's
// edge element (valid only at the true ends of the global array).
//
// Halo layout: h[0:lh] is the left neighbor's tail, h[lh:lh+rh] the
// right neighbor's head, so x[j] == h[lh+j] for j < 0 and
// x[j] == h[lh+j-n] for j >= n.
func (k *kernel) convBoundary(global int, a *argReader) error {
	n := a.Int()
	hasLeft, hasRight := a.Bool(), a.Bool()
	lh, rh := a.Int(), a.Int()
	x, h, s, y := a.Buf(), a.Buf(), a.Buf(), a.Buf()
	beta := a.Float()
	if err := a.Err(); err != nil {
		return err
	}
	for g := 0; g < global; g++ {
		if g < lh {
			sum := 0.0
			for j := -lh; j < 0; j++ {
				if g+j < 0 {
					v := x.data[0]
					if hasLeft {
						v = h.data[lh+g+j]
					}
					sum += s.data[lh+j] * v
				}
			}
			y.data[g] += beta * sum
		}
		if g < rh {
			sum := 0.0
			for j := 1; j <= rh; j++ {
				if g+j-rh >= 0 {
					v := x.data[n-1]
					if hasRight {
						v = h.data[lh+g+j-rh]
					}
					sum += s.data[lh+j] * v
				}
			}
			y.data[n-rh+g] += beta * sum
		}
	}
	return nil
}

// gconvPlain computes the generalized (matrix) convolution for fully
// interior outputs only; positions within lh/rh of the partition edge
// are left untouched for gconv_boundary.
func (k *kernel) gconvPlain(global int, a *argReader) error {
	n := a.Int()
	rows, cols := a.Int(), a.Int()
	lh, rh := a.Int(), a.Int()
	x, s, y := a.Buf(), a.Buf(), a.Buf()
	alpha, beta := a.Float(), a.Float()
	if err := a.Err(); err != nil {
		return err
	}
	f := k.prog.reduce
	for g := 0; g < global && g < n; g++ {
		if g < lh || g+rh >= n {
			continue
		}
		srow := 0.0
		for r := 0; r < rows; r++ {
			scol := 0.0
			for j := -lh; j <= rh; j++ {
				scol += s.data[r*cols+lh+j] * x.data[g+j]
			}
			srow += f(scol)
		}
		y.data[g] = combine(alpha, beta, y.data[g], srow)
	}
	return nil
}

// gconvTiled is the staged-tile twin of gconvPlain.
func (k *kernel) gconvTiled(global, local int, a *argReader) error {
	n := a.Int()
	rows, cols := a.Int(), a.Int()
	lh, rh := a.Int(), a.Int()
	x, s, y := a.Buf(), a.Buf(), a.Buf()
	alpha, beta := a.Float(), a.Float()
	loc := a.Local()
	if err := a.Err(); err != nil {
		return err
	}
	if err := k.checkLocal(loc); err != nil {
		return err
	}
	f := k.prog.reduce
	matrix := append([]float64(nil), s.data...)
	tile := make([]float64, local+lh+rh)
	for start := 0; start < global; start += local {
		for i := range tile {
			g := start + i - lh
			if g >= 0 && g < n {
				tile[i] = x.data[g]
			} else {
				tile[i] = 0
			}
		}
		for l := 0; l < local; l++ {
			g := start + l
			if g >= n || g < lh || g+rh >= n {
				continue
			}
			srow := 0.0
			for r := 0; r < rows; r++ {
				scol := 0.0
				for j := -lh; j <= rh; j++ {
					scol += matrix[r*cols+lh+j] * tile[l+lh+j]
				}
				srow += f(scol)
			}
			y.data[g] = combine(alpha, beta, y.data[g], srow)
		}
	}
	return nil
}

// gconvBoundary recomputes the partition-edge outputs the interior
// kernels skipped, with full alpha/beta combination. The nonlinear
// per-row reduction makes an additive fix-up impossible here, so the
// boundary kernel owns these outputs outright.
func (k *kernel) gconvBoundary(global int, a *argReader) error {
	n := a.Int()
	hasLeft, hasRight := a.Bool(), a.Bool()
	rows, cols := a.Int(), a.Int()
	lh, rh := a.Int(), a.Int()
	x, h, s, y := a.Buf(), a.Buf(), a.Buf(), a.Buf()
	alpha, beta := a.Float(), a.Float()
	if err := a.Err(); err != nil {
		return err
	}
	f := k.prog.reduce
	at := func(j int) float64 {
		switch {
		case j < 0:
			if hasLeft {
				return h.data[lh+j]
			}
			return x.data[0]
		case j >= n:
			if hasRight {
				return h.data[lh+j-n]
			}
			return x.data[n-1]
		}
		return x.data[j]
	}
	rowSum := func(i int) float64 {
		srow := 0.0
		for r := 0; r < rows; r++ {
			scol := 0.0
			for j := -lh; j <= rh; j++ {
				scol += s.data[r*cols+lh+j] * at(i+j)
			}
			srow += f(scol)
		}
		return srow
	}
	for g := 0; g < global; g++ {
		if g < lh && g < n {
			y.data[g] = combine(alpha, beta, y.data[g], rowSum(g))
		}
		if g < rh && n-rh+g >= 0 {
			i := n - rh + g
			y.data[i] = combine(alpha, beta, y.data[i], rowSum(i))
		}
	}
	return nil
}

// combine applies the engine's alpha/beta rule.
func combine(alpha, beta, y, sum float64) float64 {
	if alpha != 0 {
		return alpha*y + beta*sum
	}
	return beta * sum
}

// argReader consumes positional kernel arguments with type checking.
type argReader struct {
	args []any
	pos  int
	err  error
}

func (a *argReader) next() any {
	if a.err != nil {
		return nil
	}
	if a.pos >= len(a.args) {
		a.err = fmt.Errorf("%w: argument %d missing", ErrBadKernelArg, a.pos)
		return nil
	}
	v := a.args[a.pos]
	a.pos++
	return v
}

func (a *argReader) Int() int {
	if v, ok := a.next().(int); ok {
		return v
	}
	a.fail("int")
	return 0
}

func (a *argReader) Bool() bool {
	if v, ok := a.next().(bool); ok {
		return v
	}
	a.fail("bool")
	return false
}

func (a *argReader) Float() float64 {
	if v, ok := a.next().(float64); ok {
		return v
	}
	a.fail("float64")
	return 0
}

func (a *argReader) Buf() *buffer {
	if v, ok := a.next().(*buffer); ok {
		return v
	}
	a.fail("buffer")
	return &buffer{}
}

func (a *argReader) Local() compute.LocalMem {
	if v, ok := a.next().(compute.LocalMem); ok {
		return v
	}
	a.fail("LocalMem")
	return compute.LocalMem{}
}

func (a *argReader) fail(want string) {
	if a.err == nil {
		a.err = fmt.Errorf("%w: argument %d is not %s", ErrBadKernelArg, a.pos-1, want)
	}
}

func (a *argReader) Err() error { return a.err }
