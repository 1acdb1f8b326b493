package stencil

import (
	"github.com/katalvlaran/halostencil/compute"
	"github.com/katalvlaran/halostencil/vector"
)

// haloExchange drives the host-staged transfer of boundary values
// between neighboring partitions.
//
// Staging layout: slot d (size lhalo+rhalo) is produced by device d
// reading its own partition — first the head rhalo elements (destined
// for device d-1's right halo), then the tail lhalo elements (destined
// for device d+1's left halo). Each device writes only its own slot, so
// the reads need no coordination.
//
// Device d's halo buffer receives [tail lhalo of d-1 | head rhalo of
// d+1]: the left segment at offset 0, the right segment at offset
// lhalo.
type haloExchange struct {
	lhalo, rhalo int
	staging      []float64
	reads        [][]compute.Event // per device, pending slot reads
}

func newHaloExchange(devices, lhalo, rhalo int) *haloExchange {
	return &haloExchange{
		lhalo:   lhalo,
		rhalo:   rhalo,
		staging: make([]float64, devices*(lhalo+rhalo)),
		reads:   make([][]compute.Event, devices),
	}
}

// startReads is dispatch phase a: on each device's auxiliary queue,
// begin non-blocking reads of the partition's head and tail into the
// device's staging slot. Only segments some neighbor will consume are
// read.
func (h *haloExchange) startReads(x *vector.Vector, plans []*devicePlan) error {
	d2 := len(plans)
	slot := h.lhalo + h.rhalo
	for d, p := range plans {
		h.reads[d] = h.reads[d][:0]
		if d > 0 && h.rhalo > 0 {
			ev, err := p.squeue.EnqueueRead(x.Buffer(d), 0, h.staging[d*slot:d*slot+h.rhalo])
			if err != nil {
				return err
			}
			h.reads[d] = append(h.reads[d], ev)
		}
		if d+1 < d2 && h.lhalo > 0 {
			ev, err := p.squeue.EnqueueRead(x.Buffer(d), x.PartSize(d)-h.lhalo,
				h.staging[d*slot+h.rhalo:d*slot+h.rhalo+h.lhalo])
			if err != nil {
				return err
			}
			h.reads[d] = append(h.reads[d], ev)
		}
	}
	return nil
}

// wait is the start of phase c: block until every staging slot some
// neighbor needs has arrived. This is the only cross-stream
// synchronization point of a convolve call.
func (h *haloExchange) wait() error {
	for _, evs := range h.reads {
		for _, ev := range evs {
			if err := ev.Wait(); err != nil {
				return err
			}
		}
	}
	return nil
}

// scatter finishes phase c for device d: enqueue writes of the
// neighbor-supplied segments into the device's halo buffer on its MAIN
// queue, so the in-order guarantee sequences them before the boundary
// kernel issued next. The returned events let the caller pin the
// staging buffer until the copies land.
func (h *haloExchange) scatter(d int, plans []*devicePlan) ([]compute.Event, error) {
	p := plans[d]
	slot := h.lhalo + h.rhalo
	var events []compute.Event
	if d > 0 && h.lhalo > 0 {
		left := h.staging[(d-1)*slot+h.rhalo : (d-1)*slot+h.rhalo+h.lhalo]
		ev, err := p.queue.EnqueueWrite(p.halo, 0, left)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if d+1 < len(plans) && h.rhalo > 0 {
		right := h.staging[(d+1)*slot : (d+1)*slot+h.rhalo]
		ev, err := p.queue.EnqueueWrite(p.halo, h.lhalo, right)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
