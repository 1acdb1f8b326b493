package stencil

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/halostencil/compute"
	"github.com/katalvlaran/halostencil/vector"
)

// GeneralizedStencil applies a small dense matrix of stencils: each
// matrix row is convolved with the input window around a position, its
// dot product passed through the configured Reduce function, and the
// transformed rows summed:
//
//	y[i] = alpha*y[i] + beta * Σ_k f( Σ_j S[k][j]*x[i+j-center] )
//
// Immutable after construction; the concurrency contract matches
// Stencil.
type GeneralizedStencil struct {
	m      *mat.Dense
	rows   int
	cols   int
	center int
	lhalo  int
	rhalo  int
	reduce Reduce

	plans []*devicePlan
	exch  *haloExchange
}

// NewGeneralized builds a generalized stencil from a rows×cols
// row-major matrix. center is the origin column in [0, cols); reduce
// must be a registered Reduce tag. Kernel programs are cached per
// (context, reduce) pair.
func NewGeneralized(queues []compute.Queue, rows, cols, center int, data []float64, reduce Reduce, opts *Options) (*GeneralizedStencil, error) {
	if len(queues) == 0 {
		return nil, ErrNoQueues
	}
	if rows < 1 || cols < 1 {
		return nil, ErrEmptyStencil
	}
	if rows*cols != len(data) {
		return nil, ErrShapeMismatch
	}
	if center < 0 || center >= cols {
		return nil, ErrBadCenter
	}
	if !reduce.Valid() {
		return nil, ErrUnknownReduce
	}
	cache := DefaultCache
	if opts != nil && opts.Cache != nil {
		cache = opts.Cache
	}

	g := &GeneralizedStencil{
		m:      mat.NewDense(rows, cols, append([]float64(nil), data...)),
		rows:   rows,
		cols:   cols,
		center: center,
		lhalo:  center,
		rhalo:  cols - center - 1,
		reduce: reduce,
	}
	sets := func(ctx compute.Context) (*ProgramSet, error) {
		return cache.gprograms(ctx, reduce)
	}
	plans, err := buildPlans(queues, sets,
		g.m.RawMatrix().Data, cols, rows*cols, g.lhalo+g.rhalo)
	if err != nil {
		return nil, err
	}
	g.plans = plans
	g.exch = newHaloExchange(len(queues), g.lhalo, g.rhalo)
	return g, nil
}

// Matrix returns a read-only view of the stencil matrix.
func (g *GeneralizedStencil) Matrix() mat.Matrix { return g.m }

// Reduce returns the configured reduction tag.
func (g *GeneralizedStencil) Reduce() Reduce { return g.reduce }

// Halo returns the left and right halo widths.
func (g *GeneralizedStencil) Halo() (lhalo, rhalo int) { return g.lhalo, g.rhalo }

// Convolve computes y = alpha*y + beta*gconv(g, x) across all devices.
//
// The dispatch protocol matches Stencil.Convolve, with one semantic
// difference forced by the nonlinear reduction: the interior kernels
// leave the lhalo/rhalo positions at each partition edge unwritten, and
// the boundary kernel recomputes them outright with the full alpha/beta
// rule once neighbor (or clamped) values are available.
func (g *GeneralizedStencil) Convolve(x, y *vector.Vector, alpha, beta float64) error {
	if err := checkLayout(len(g.plans), x, y); err != nil {
		return err
	}
	halo := g.lhalo + g.rhalo

	if len(g.plans) > 1 && halo > 0 {
		if err := g.exch.startReads(x, g.plans); err != nil {
			return err
		}
	}

	for d, p := range g.plans {
		n := x.PartSize(d)
		if n == 0 {
			continue
		}
		gsize := alignUp(n, p.wgs)
		var err error
		if p.variant == tiledVariant {
			locElems := p.wgs + halo + g.rows*g.cols
			err = p.queue.EnqueueKernel(p.progs.Tiled, gsize, p.wgs,
				n, g.rows, g.cols, g.lhalo, g.rhalo,
				x.Buffer(d), p.weights, y.Buffer(d),
				alpha, beta, compute.LocalMem{Elems: locElems})
		} else {
			err = p.queue.EnqueueKernel(p.progs.Plain, gsize, p.wgs,
				n, g.rows, g.cols, g.lhalo, g.rhalo,
				x.Buffer(d), p.weights, y.Buffer(d),
				alpha, beta)
		}
		if err != nil {
			return err
		}
	}

	if halo == 0 {
		return nil
	}

	if len(g.plans) > 1 {
		if err := g.exch.wait(); err != nil {
			return err
		}
	}
	var writes []compute.Event

	for d, p := range g.plans {
		n := x.PartSize(d)
		if n == 0 {
			continue
		}
		evs, err := g.exch.scatter(d, g.plans)
		if err != nil {
			return err
		}
		writes = append(writes, evs...)

		gsize := g.lhalo
		if g.rhalo > gsize {
			gsize = g.rhalo
		}
		err = p.queue.EnqueueKernel(p.progs.Boundary, gsize, 0,
			n, d > 0, d+1 < len(g.plans), g.rows, g.cols, g.lhalo, g.rhalo,
			x.Buffer(d), p.halo, p.weights, y.Buffer(d), alpha, beta)
		if err != nil {
			return err
		}
	}

	for _, ev := range writes {
		if err := ev.Wait(); err != nil {
			return err
		}
	}
	return nil
}
