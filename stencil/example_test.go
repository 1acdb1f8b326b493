package stencil_test

import (
	"fmt"

	"github.com/katalvlaran/halostencil/compute"
	"github.com/katalvlaran/halostencil/compute/hostsim"
	"github.com/katalvlaran/halostencil/stencil"
	"github.com/katalvlaran/halostencil/vector"
)

// ExampleStencil_Convolve smooths a ramp with a three-point average
// across two simulated devices.
func ExampleStencil_Convolve() {
	var queues []compute.Queue
	for d := 0; d < 2; d++ {
		ctx, err := hostsim.New(hostsim.DefaultOptions())
		if err != nil {
			panic(err)
		}
		defer ctx.Close()
		q, err := ctx.NewQueue()
		if err != nil {
			panic(err)
		}
		queues = append(queues, q)
	}

	s, err := stencil.New(queues, []float64{0.25, 0.5, 0.25}, 1, nil)
	if err != nil {
		panic(err)
	}

	x, err := vector.New(queues, []float64{0, 4, 0, 4, 0, 4, 0, 4})
	if err != nil {
		panic(err)
	}
	y, err := vector.New(queues, make([]float64, 8))
	if err != nil {
		panic(err)
	}

	if err := s.Convolve(x, y, 0, 1); err != nil {
		panic(err)
	}
	out, err := y.Read()
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: [1 2 2 2 2 2 2 3]
}

// ExampleGeneralizedStencil_Convolve applies a two-row difference
// matrix with an identity reduction.
func ExampleGeneralizedStencil_Convolve() {
	ctx, err := hostsim.New(hostsim.DefaultOptions())
	if err != nil {
		panic(err)
	}
	defer ctx.Close()
	q, err := ctx.NewQueue()
	if err != nil {
		panic(err)
	}
	queues := []compute.Queue{q}

	g, err := stencil.NewGeneralized(queues, 2, 3, 1, []float64{
		1, -1, 0,
		0, 1, -1,
	}, stencil.Identity, nil)
	if err != nil {
		panic(err)
	}

	x, err := vector.New(queues, []float64{1, 2, 4, 8, 16})
	if err != nil {
		panic(err)
	}
	y, err := vector.New(queues, make([]float64, 5))
	if err != nil {
		panic(err)
	}

	if err := g.Convolve(x, y, 0, 1); err != nil {
		panic(err)
	}
	out, err := y.Read()
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: [-1 -3 -6 -12 -8]
}
