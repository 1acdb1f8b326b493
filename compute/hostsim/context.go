package hostsim

import (
	"sync"

	"github.com/katalvlaran/halostencil/compute"
)

// Context is a simulated single-device execution context.
//
// A *Context is comparable by identity and is used by the engine as a
// program-cache key. All queues opened on one context share its
// buffers; ordering across queues exists only through host-side waits,
// exactly as on a real device.
type Context struct {
	opts Options

	mu     sync.Mutex
	queues []*queue
	closed bool
}

// New creates a simulated context. Zero-valued fields of opts fall back
// to DefaultOptions values; negative values are rejected with
// ErrBadOptions.
func New(opts Options) (*Context, error) {
	if opts.LocalMemBytes < 0 || opts.PreferredWGS < 0 || opts.MaxBufferElems < 0 {
		return nil, ErrBadOptions
	}
	def := DefaultOptions()
	if opts.Name == "" {
		opts.Name = def.Name
	}
	if opts.LocalMemBytes == 0 {
		opts.LocalMemBytes = def.LocalMemBytes
	}
	if opts.PreferredWGS == 0 {
		opts.PreferredWGS = def.PreferredWGS
	}
	return &Context{opts: opts}, nil
}

// Device returns the simulated device description.
func (c *Context) Device() compute.Device {
	return device{opts: c.opts}
}

// NewQueue opens an additional in-order command queue on this context.
func (c *Context) NewQueue() (compute.Queue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	q := newQueue(c)
	c.queues = append(c.queues, q)
	return q, nil
}

// NewBuffer allocates an uninitialized buffer of n elements.
func (c *Context) NewBuffer(n int) (compute.Buffer, error) {
	if n < 0 {
		return nil, ErrOutOfRange
	}
	if c.opts.MaxBufferElems > 0 && n > c.opts.MaxBufferElems {
		return nil, ErrAllocation
	}
	return &buffer{data: make([]float64, n)}, nil
}

// NewBufferFrom allocates a buffer initialized with a copy of data.
func (c *Context) NewBufferFrom(data []float64) (compute.Buffer, error) {
	buf, err := c.NewBuffer(len(data))
	if err != nil {
		return nil, err
	}
	copy(buf.(*buffer).data, data)
	return buf, nil
}

// Close stops every queue opened on the context. Pending operations are
// drained before the queues exit.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	queues := c.queues
	c.mu.Unlock()

	for _, q := range queues {
		q.close()
	}
	return nil
}

// device implements compute.Device for the simulated hardware.
type device struct {
	opts Options
}

func (d device) Name() string { return d.opts.Name }

func (d device) LocalMemSize() int { return d.opts.LocalMemBytes }
