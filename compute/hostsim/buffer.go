package hostsim

// buffer is host-memory backing for a simulated device buffer.
//
// The engine's dispatch protocol guarantees no two in-flight operations
// touch overlapping regions of one buffer, so no per-buffer locking is
// needed here; the queue goroutines provide the ordering.
type buffer struct {
	data []float64
}

func (b *buffer) Len() int { return len(b.data) }
