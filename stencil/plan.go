package stencil

import (
	"fmt"

	"github.com/katalvlaran/halostencil/compute"
)

// variant selects the interior kernel path for one device.
type variant uint8

const (
	// plainVariant reads x from global memory directly.
	plainVariant variant = iota
	// tiledVariant stages a halo-padded tile into local memory first.
	tiledVariant
)

// devicePlan is the per-device execution state of a stencil: chosen
// kernel variant, tuned workgroup size, device-resident weights, and —
// when the stencil has halos — a halo buffer plus an auxiliary queue
// for cross-partition transfers. Built once at construction, immutable
// afterwards.
type devicePlan struct {
	queue  compute.Queue
	squeue compute.Queue // nil when lhalo+rhalo == 0

	progs   *ProgramSet
	variant variant
	wgs     int

	weights compute.Buffer
	halo    compute.Buffer // nil when lhalo+rhalo == 0
}

// buildPlan constructs the plan for one device.
//
// Variant selection follows the local-memory budget: starting from the
// cached baseline workgroup size, the candidate is halved while the
// tile (candidate + 2*weightElems elements) exceeds the budget, until
// it can no longer hold a stencil window (minWG elements). An
// infeasible tile falls back to the plain variant at the baseline size.
func buildPlan(q compute.Queue, progs *ProgramSet, weights []float64, minWG, weightElems, haloLen int, d int) (*devicePlan, error) {
	ctx := q.Context()
	p := &devicePlan{queue: q, progs: progs}

	budget := (ctx.Device().LocalMemSize() - progs.Tiled.StaticLocalMem()) / 8
	wgs := progs.WGSize
	for wgs >= minWG && wgs+2*weightElems > budget {
		wgs /= 2
	}
	if wgs < minWG {
		p.variant = plainVariant
		p.wgs = progs.WGSize
	} else {
		p.variant = tiledVariant
		p.wgs = wgs
	}
	if p.wgs < 1 {
		p.wgs = 1
	}

	buf, err := ctx.NewBufferFrom(weights)
	if err != nil {
		return nil, fmt.Errorf("stencil: device %d: weight buffer: %w", d, err)
	}
	p.weights = buf

	if haloLen > 0 {
		if p.halo, err = ctx.NewBuffer(haloLen); err != nil {
			return nil, fmt.Errorf("stencil: device %d: halo buffer: %w", d, err)
		}
		if p.squeue, err = ctx.NewQueue(); err != nil {
			return nil, fmt.Errorf("stencil: device %d: auxiliary queue: %w", d, err)
		}
	}
	return p, nil
}

// buildPlans builds one plan per queue against a shared program set
// resolver.
func buildPlans(queues []compute.Queue, sets func(compute.Context) (*ProgramSet, error),
	weights []float64, minWG, weightElems, haloLen int) ([]*devicePlan, error) {

	plans := make([]*devicePlan, len(queues))
	for d, q := range queues {
		progs, err := sets(q.Context())
		if err != nil {
			return nil, err
		}
		plan, err := buildPlan(q, progs, weights, minWG, weightElems, haloLen, d)
		if err != nil {
			return nil, err
		}
		plans[d] = plan
	}
	return plans, nil
}

// alignUp rounds n up to a multiple of wgs.
func alignUp(n, wgs int) int {
	if wgs <= 0 {
		return n
	}
	return ((n + wgs - 1) / wgs) * wgs
}
