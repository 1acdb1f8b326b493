package hostsim

import (
	"sync"

	"github.com/katalvlaran/halostencil/compute"
)

// event completes when its operation has executed on the queue
// goroutine.
type event struct {
	done chan struct{}
	err  error
}

func newEvent() *event {
	return &event{done: make(chan struct{})}
}

// Wait blocks until the operation completes and returns its error.
func (e *event) Wait() error {
	<-e.done
	return e.err
}

func (e *event) complete(err error) {
	e.err = err
	close(e.done)
}

// op is one unit of work on a queue: a closure plus an optional
// completion event.
type op struct {
	run func() error
	ev  *event
}

// queue is an in-order command stream. One goroutine drains pending
// operations in FIFO order; the first failure is sticky and fails every
// later enqueue, matching the fatal-error model of the engine.
type queue struct {
	ctx *Context

	mu      sync.Mutex
	cond    *sync.Cond
	pending []op
	closed  bool
	err     error
	drained bool
}

func newQueue(c *Context) *queue {
	q := &queue{ctx: c}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

func (q *queue) loop() {
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 && q.closed {
			q.drained = true
			q.cond.Broadcast()
			q.mu.Unlock()
			return
		}
		next := q.pending[0]
		q.pending = q.pending[1:]
		sticky := q.err
		q.mu.Unlock()

		err := sticky
		if err == nil && next.run != nil {
			err = next.run()
		}
		if next.ev != nil {
			next.ev.complete(err)
		}
		if err != nil && sticky == nil {
			q.mu.Lock()
			if q.err == nil {
				q.err = err
			}
			q.mu.Unlock()
		}
	}
}

// submit appends an operation unless the queue is failed or closed.
func (q *queue) submit(o op) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if q.err != nil {
		return q.err
	}
	q.pending = append(q.pending, o)
	q.cond.Signal()
	return nil
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	for !q.drained {
		q.cond.Wait()
	}
	q.mu.Unlock()
}

// Context returns the owning context.
func (q *queue) Context() compute.Context { return q.ctx }

// EnqueueRead starts an asynchronous copy out of buf into dst.
func (q *queue) EnqueueRead(buf compute.Buffer, offset int, dst []float64) (compute.Event, error) {
	b, ok := buf.(*buffer)
	if !ok {
		return nil, ErrBadKernelArg
	}
	ev := newEvent()
	err := q.submit(op{ev: ev, run: func() error {
		if offset < 0 || offset+len(dst) > len(b.data) {
			return ErrOutOfRange
		}
		copy(dst, b.data[offset:offset+len(dst)])
		return nil
	}})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// EnqueueWrite starts an asynchronous copy of src into buf.
func (q *queue) EnqueueWrite(buf compute.Buffer, offset int, src []float64) (compute.Event, error) {
	b, ok := buf.(*buffer)
	if !ok {
		return nil, ErrBadKernelArg
	}
	ev := newEvent()
	err := q.submit(op{ev: ev, run: func() error {
		if offset < 0 || offset+len(src) > len(b.data) {
			return ErrOutOfRange
		}
		copy(b.data[offset:offset+len(src)], src)
		return nil
	}})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// EnqueueKernel launches a compiled kernel on this queue. A
// non-positive local size falls back to the device's preferred
// workgroup size.
func (q *queue) EnqueueKernel(k compute.Kernel, global, local int, args ...any) error {
	hk, ok := k.(*kernel)
	if !ok || hk.prog.ctx != q.ctx {
		return ErrBadKernelArg
	}
	if local <= 0 {
		local = q.ctx.opts.PreferredWGS
	}
	return q.submit(op{run: func() error {
		return hk.invoke(global, local, args)
	}})
}

// Finish blocks until the queue is empty and returns the sticky error.
func (q *queue) Finish() error {
	ev := newEvent()
	if err := q.submit(op{ev: ev}); err != nil {
		return err
	}
	return ev.Wait()
}
