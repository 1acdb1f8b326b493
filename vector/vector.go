package vector

import (
	"github.com/katalvlaran/halostencil/compute"
)

// Vector is a one-dimensional float64 array horizontally partitioned
// across devices. Partitions are contiguous over the logical index
// range and ordered by queue index; the layout is fixed for the
// lifetime of the vector.
type Vector struct {
	queues []compute.Queue
	bufs   []compute.Buffer
	sizes  []int
	length int
}

// New creates a vector of the given data split near-evenly across the
// queues: every partition gets len(data)/D elements and the first
// len(data)%D partitions one extra.
func New(queues []compute.Queue, data []float64) (*Vector, error) {
	d := len(queues)
	if d == 0 {
		return nil, ErrNoQueues
	}
	parts := make([]int, d)
	base, extra := len(data)/d, len(data)%d
	for i := range parts {
		parts[i] = base
		if i < extra {
			parts[i]++
		}
	}
	return NewWithParts(queues, data, parts)
}

// NewWithParts creates a vector with explicit partition sizes, one per
// queue, summing to len(data). Empty partitions are allowed.
func NewWithParts(queues []compute.Queue, data []float64, parts []int) (*Vector, error) {
	if len(queues) == 0 {
		return nil, ErrNoQueues
	}
	if len(parts) != len(queues) {
		return nil, ErrPartCount
	}
	total := 0
	for _, p := range parts {
		if p < 0 {
			return nil, ErrNegativePart
		}
		total += p
	}
	if total != len(data) {
		return nil, ErrPartMismatch
	}

	v := &Vector{
		queues: append([]compute.Queue(nil), queues...),
		bufs:   make([]compute.Buffer, len(queues)),
		sizes:  append([]int(nil), parts...),
		length: len(data),
	}
	off := 0
	for d, q := range v.queues {
		buf, err := q.Context().NewBufferFrom(data[off : off+parts[d]])
		if err != nil {
			return nil, err
		}
		v.bufs[d] = buf
		off += parts[d]
	}
	return v, nil
}

// Len returns the logical length of the vector.
func (v *Vector) Len() int { return v.length }

// Parts returns the number of partitions (devices).
func (v *Vector) Parts() int { return len(v.queues) }

// PartSize returns the size of partition d.
func (v *Vector) PartSize(d int) int { return v.sizes[d] }

// Buffer returns the device buffer holding partition d.
func (v *Vector) Buffer(d int) compute.Buffer { return v.bufs[d] }

// Queue returns the main command queue of partition d.
func (v *Vector) Queue(d int) compute.Queue { return v.queues[d] }

// Read gathers the whole vector to the host. Reads are enqueued on each
// partition's main queue, so they observe every kernel previously
// launched there; the call blocks until all partitions have arrived.
func (v *Vector) Read() ([]float64, error) {
	out := make([]float64, v.length)
	events := make([]compute.Event, 0, len(v.queues))
	off := 0
	for d, q := range v.queues {
		if v.sizes[d] == 0 {
			continue
		}
		ev, err := q.EnqueueRead(v.bufs[d], 0, out[off:off+v.sizes[d]])
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
		off += v.sizes[d]
	}
	for _, ev := range events {
		if err := ev.Wait(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Write scatters data over the partitions, blocking until every
// partition holds its slice.
func (v *Vector) Write(data []float64) error {
	if len(data) != v.length {
		return ErrLenMismatch
	}
	events := make([]compute.Event, 0, len(v.queues))
	off := 0
	for d, q := range v.queues {
		if v.sizes[d] == 0 {
			continue
		}
		ev, err := q.EnqueueWrite(v.bufs[d], 0, data[off:off+v.sizes[d]])
		if err != nil {
			return err
		}
		events = append(events, ev)
		off += v.sizes[d]
	}
	for _, ev := range events {
		if err := ev.Wait(); err != nil {
			return err
		}
	}
	return nil
}
