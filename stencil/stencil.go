package stencil

import (
	"github.com/katalvlaran/halostencil/compute"
	"github.com/katalvlaran/halostencil/vector"
)

// Options tunes stencil construction.
//
// Fields:
//   - Cache — program cache to consult and fill. nil selects the
//     process-wide DefaultCache, which every stencil on the same
//     context then shares.
type Options struct {
	Cache *ProgramCache
}

// Stencil applies a finite-width weighted window around every element
// of a device-partitioned vector. Immutable after construction; see the
// package documentation for the concurrency contract.
type Stencil struct {
	weights []float64
	center  int
	lhalo   int
	rhalo   int

	plans []*devicePlan
	exch  *haloExchange
}

// New builds a stencil over the given device queues.
//
// weights is the coefficient sequence (length >= 1), center its origin
// index in [0, len(weights)). Construction compiles kernels on first
// use of each context, selects the tiled or plain variant per device
// under the local-memory budget, and uploads the weights. It either
// fully succeeds or has no observable effect.
func New(queues []compute.Queue, weights []float64, center int, opts *Options) (*Stencil, error) {
	if len(queues) == 0 {
		return nil, ErrNoQueues
	}
	if len(weights) == 0 {
		return nil, ErrEmptyStencil
	}
	if center < 0 || center >= len(weights) {
		return nil, ErrBadCenter
	}
	cache := DefaultCache
	if opts != nil && opts.Cache != nil {
		cache = opts.Cache
	}

	s := &Stencil{
		weights: append([]float64(nil), weights...),
		center:  center,
		lhalo:   center,
		rhalo:   len(weights) - center - 1,
	}
	plans, err := buildPlans(queues, cache.programs,
		s.weights, len(weights), len(weights), s.lhalo+s.rhalo)
	if err != nil {
		return nil, err
	}
	s.plans = plans
	s.exch = newHaloExchange(len(queues), s.lhalo, s.rhalo)
	return s, nil
}

// Halo returns the stencil's left and right halo widths.
func (s *Stencil) Halo() (lhalo, rhalo int) { return s.lhalo, s.rhalo }

// Convolve computes y = alpha*y + beta*conv(s, x) across all devices.
//
// alpha = 0 overwrites y regardless of its prior contents; alpha = 1,
// beta = ±1 accumulates the convolution into y. The result is
// bit-identical for any partitioning of the same logical array.
//
// The call issues asynchronous work on every device queue; it returns
// once all work is enqueued and the halo exchange has been handed to
// the devices. Reading y through its main queues observes the finished
// result.
func (s *Stencil) Convolve(x, y *vector.Vector, alpha, beta float64) error {
	if err := s.checkLayout(x, y); err != nil {
		return err
	}
	halo := s.lhalo + s.rhalo

	// Phase a: asynchronous halo reads on the auxiliary queues.
	if len(s.plans) > 1 && halo > 0 {
		if err := s.exch.startReads(x, s.plans); err != nil {
			return err
		}
	}

	// Phase b: interior kernels on the main queues. Partition edges get
	// zero-padded placeholder values here.
	for d, p := range s.plans {
		n := x.PartSize(d)
		if n == 0 {
			continue
		}
		gsize := alignUp(n, p.wgs)
		var err error
		if p.variant == tiledVariant {
			locElems := p.wgs + 2*halo + 1
			err = p.queue.EnqueueKernel(p.progs.Tiled, gsize, p.wgs,
				n, s.lhalo, s.rhalo, x.Buffer(d), p.weights, y.Buffer(d),
				alpha, beta, compute.LocalMem{Elems: locElems})
		} else {
			err = p.queue.EnqueueKernel(p.progs.Plain, gsize, p.wgs,
				n, s.lhalo, s.rhalo, x.Buffer(d), p.weights, y.Buffer(d),
				alpha, beta)
		}
		if err != nil {
			return err
		}
	}

	if halo == 0 {
		return nil
	}

	// Phase c: host-gated scatter of neighbor values into the halo
	// buffers, on the main queues.
	if len(s.plans) > 1 {
		if err := s.exch.wait(); err != nil {
			return err
		}
	}
	var writes []compute.Event

	// Phase d: boundary fix-up on the main queues; same-queue ordering
	// sequences it after phases b and c.
	for d, p := range s.plans {
		n := x.PartSize(d)
		if n == 0 {
			continue
		}
		evs, err := s.exch.scatter(d, s.plans)
		if err != nil {
			return err
		}
		writes = append(writes, evs...)

		gsize := s.lhalo
		if s.rhalo > gsize {
			gsize = s.rhalo
		}
		err = p.queue.EnqueueKernel(p.progs.Boundary, gsize, 0,
			n, d > 0, d+1 < len(s.plans), s.lhalo, s.rhalo,
			x.Buffer(d), p.halo, p.weights, y.Buffer(d), beta)
		if err != nil {
			return err
		}
	}

	// The staging buffer is reused by the next call; hold until the
	// device-side copies have landed.
	for _, ev := range writes {
		if err := ev.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// checkLayout verifies x and y share the partition layout the stencil
// was built for.
func (s *Stencil) checkLayout(x, y *vector.Vector) error {
	return checkLayout(len(s.plans), x, y)
}

func checkLayout(devices int, x, y *vector.Vector) error {
	if x.Parts() != devices || y.Parts() != devices {
		return ErrPartitionLayout
	}
	for d := 0; d < devices; d++ {
		if x.PartSize(d) != y.PartSize(d) {
			return ErrPartitionLayout
		}
	}
	return nil
}
