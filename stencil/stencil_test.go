package stencil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/halostencil/compute"
	"github.com/katalvlaran/halostencil/compute/hostsim"
	"github.com/katalvlaran/halostencil/stencil"
	"github.com/katalvlaran/halostencil/vector"
)

// newQueues creates one simulated device (context + main queue) per
// requested device count, all with the same options.
func newQueues(t *testing.T, devices int, opts hostsim.Options) []compute.Queue {
	t.Helper()
	queues := make([]compute.Queue, devices)
	for d := range queues {
		ctx, err := hostsim.New(opts)
		require.NoError(t, err, "context %d", d)
		t.Cleanup(func() { _ = ctx.Close() })
		q, err := ctx.NewQueue()
		require.NoError(t, err, "queue %d", d)
		queues[d] = q
	}
	return queues
}

// refConvolve computes the clamp-to-edge reference convolution on the
// host: y[i] = alpha*y[i] + beta * Σ_k w[lh+k]*x[clamp(i+k)].
func refConvolve(weights []float64, center int, x, y []float64, alpha, beta float64) []float64 {
	lh := center
	rh := len(weights) - center - 1
	out := make([]float64, len(x))
	for i := range x {
		sum := 0.0
		for k := -lh; k <= rh; k++ {
			j := i + k
			if j < 0 {
				j = 0
			}
			if j >= len(x) {
				j = len(x) - 1
			}
			sum += weights[lh+k] * x[j]
		}
		if alpha != 0 {
			out[i] = alpha*y[i] + beta*sum
		} else {
			out[i] = beta * sum
		}
	}
	return out
}

// convolveOn runs one convolve over the given partition layout and
// returns the gathered result.
func convolveOn(t *testing.T, queues []compute.Queue, parts []int,
	weights []float64, center int, x, y []float64, alpha, beta float64) []float64 {
	t.Helper()

	s, err := stencil.New(queues, weights, center, nil)
	require.NoError(t, err)

	xv, err := vector.NewWithParts(queues, x, parts)
	require.NoError(t, err)
	yv, err := vector.NewWithParts(queues, y, parts)
	require.NoError(t, err)

	require.NoError(t, s.Convolve(xv, yv, alpha, beta))
	got, err := yv.Read()
	require.NoError(t, err)
	return got
}

// TestNew_ConfigurationErrors verifies all synchronous construction
// failures.
func TestNew_ConfigurationErrors(t *testing.T) {
	queues := newQueues(t, 1, hostsim.DefaultOptions())

	cases := []struct {
		name    string
		queues  []compute.Queue
		weights []float64
		center  int
		want    error
	}{
		{"no queues", nil, []float64{1}, 0, stencil.ErrNoQueues},
		{"empty weights", queues, nil, 0, stencil.ErrEmptyStencil},
		{"center negative", queues, []float64{1, 2}, -1, stencil.ErrBadCenter},
		{"center too large", queues, []float64{1, 2}, 2, stencil.ErrBadCenter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := stencil.New(tc.queues, tc.weights, tc.center, nil)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// TestConvolve_DegenerateStencil checks that a length-1 stencil scales
// the input elementwise, for any partitioning.
func TestConvolve_DegenerateStencil(t *testing.T) {
	x := []float64{3, -1, 4, 1, -5, 9, 2, 6}
	want := make([]float64, len(x))
	for i, v := range x {
		want[i] = 2.5 * v
	}

	for _, parts := range [][]int{{8}, {4, 4}, {1, 7}, {3, 3, 2}} {
		queues := newQueues(t, len(parts), hostsim.DefaultOptions())
		got := convolveOn(t, queues, parts, []float64{2.5}, 0, x, make([]float64, len(x)), 0, 1)
		assert.Equal(t, want, got, "parts=%v", parts)
	}
}

// TestConvolve_EdgeClampSingleDevice pins the clamp-to-edge boundary
// policy on a known Laplacian example.
func TestConvolve_EdgeClampSingleDevice(t *testing.T) {
	queues := newQueues(t, 1, hostsim.DefaultOptions())
	x := []float64{1, 2, 4, 7, 11}

	got := convolveOn(t, queues, []int{5}, []float64{1, -2, 1}, 1, x, make([]float64, 5), 0, 1)
	assert.Equal(t, []float64{1, 1, 1, 1, -4}, got)
}

// TestConvolve_PartitionInvariance is the central halo-protocol
// property: any split of the array yields the bit-identical result of
// the single-device computation. Weights and data are dyadic so every
// intermediate double is exact.
func TestConvolve_PartitionInvariance(t *testing.T) {
	weights := []float64{0.5, 1, 2, 0.25}
	const center = 2 // lhalo=2, rhalo=1
	x := make([]float64, 33)
	for i := range x {
		x[i] = float64((i*7)%13) - 4
	}

	single := convolveOn(t, newQueues(t, 1, hostsim.DefaultOptions()),
		[]int{33}, weights, center, x, make([]float64, 33), 0, 1)
	assert.Equal(t, refConvolve(weights, center, x, nil, 0, 1), single)

	splits := [][]int{
		{16, 17},
		{2, 31},
		{31, 2},
		{11, 11, 11},
		{2, 29, 2},
		{8, 8, 8, 9},
		{3, 2, 25, 3},
	}
	for _, parts := range splits {
		queues := newQueues(t, len(parts), hostsim.DefaultOptions())
		got := convolveOn(t, queues, parts, weights, center, x, make([]float64, 33), 0, 1)
		assert.Equal(t, single, got, "parts=%v", parts)
	}
}

// TestConvolve_AlphaBetaSemantics verifies overwrite (alpha=0) and
// accumulate (alpha=1) behavior.
func TestConvolve_AlphaBetaSemantics(t *testing.T) {
	weights := []float64{1, -2, 1}
	x := []float64{1, 2, 4, 7, 11}
	conv := []float64{1, 1, 1, 1, -4}

	t.Run("alpha=0 overwrites stale y", func(t *testing.T) {
		queues := newQueues(t, 2, hostsim.DefaultOptions())
		stale := []float64{100, -200, 300, -400, 500}
		got := convolveOn(t, queues, []int{2, 3}, weights, 1, x, stale, 0, 1)
		assert.Equal(t, conv, got)
	})

	t.Run("alpha=1 beta=1 accumulates", func(t *testing.T) {
		queues := newQueues(t, 2, hostsim.DefaultOptions())
		prior := []float64{10, 20, 30, 40, 50}
		want := make([]float64, len(conv))
		for i := range want {
			want[i] = prior[i] + conv[i]
		}
		got := convolveOn(t, queues, []int{2, 3}, weights, 1, x, prior, 1, 1)
		assert.Equal(t, want, got)
	})

	t.Run("beta=-1 subtracts", func(t *testing.T) {
		queues := newQueues(t, 1, hostsim.DefaultOptions())
		prior := []float64{10, 20, 30, 40, 50}
		want := make([]float64, len(conv))
		for i := range want {
			want[i] = prior[i] - conv[i]
		}
		got := convolveOn(t, queues, []int{5}, weights, 1, x, prior, 1, -1)
		assert.Equal(t, want, got)
	})
}

// TestConvolve_VariantIndependence forces the plain path with a
// too-small local memory and checks it matches the tiled path exactly.
func TestConvolve_VariantIndependence(t *testing.T) {
	weights := []float64{0.25, 0.5, 0.25}
	x := make([]float64, 40)
	for i := range x {
		x[i] = float64(i%9) - 3
	}

	tinyLocal := hostsim.DefaultOptions()
	tinyLocal.LocalMemBytes = 16 // 2 elements: tile can never fit

	plainQ := newQueues(t, 2, tinyLocal)
	sPlain, err := stencil.New(plainQ, weights, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"plain", "plain"}, stencil.PlanVariants(sPlain))

	tiledQ := newQueues(t, 2, hostsim.DefaultOptions())
	sTiled, err := stencil.New(tiledQ, weights, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"tiled", "tiled"}, stencil.PlanVariants(sTiled))

	run := func(queues []compute.Queue, s *stencil.Stencil) []float64 {
		xv, err := vector.NewWithParts(queues, x, []int{19, 21})
		require.NoError(t, err)
		yv, err := vector.NewWithParts(queues, make([]float64, 40), []int{19, 21})
		require.NoError(t, err)
		require.NoError(t, s.Convolve(xv, yv, 0, 1))
		got, err := yv.Read()
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, run(tiledQ, sTiled), run(plainQ, sPlain))
}

// TestConvolve_Idempotent re-invokes with identical inputs and expects
// identical output: no hidden cross-call state.
func TestConvolve_Idempotent(t *testing.T) {
	queues := newQueues(t, 3, hostsim.DefaultOptions())
	weights := []float64{0.5, 1, 0.5}
	x := []float64{5, 3, 8, 1, 9, 2, 7, 4, 6, 0, 5, 3}
	parts := []int{4, 4, 4}

	s, err := stencil.New(queues, weights, 1, nil)
	require.NoError(t, err)
	xv, err := vector.NewWithParts(queues, x, parts)
	require.NoError(t, err)
	yv, err := vector.NewWithParts(queues, make([]float64, len(x)), parts)
	require.NoError(t, err)

	require.NoError(t, s.Convolve(xv, yv, 0, 1))
	first, err := yv.Read()
	require.NoError(t, err)

	require.NoError(t, s.Convolve(xv, yv, 0, 1))
	second, err := yv.Read()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestConvolve_LayoutMismatch rejects vectors that disagree with the
// stencil's device list or with each other.
func TestConvolve_LayoutMismatch(t *testing.T) {
	queues := newQueues(t, 2, hostsim.DefaultOptions())
	s, err := stencil.New(queues, []float64{1, 2, 1}, 1, nil)
	require.NoError(t, err)

	x, err := vector.NewWithParts(queues, make([]float64, 10), []int{5, 5})
	require.NoError(t, err)
	y, err := vector.NewWithParts(queues, make([]float64, 10), []int{4, 6})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Convolve(x, y, 0, 1), stencil.ErrPartitionLayout)
}

// failingBuildContext wraps a context and fails every program build,
// standing in for a backend compiler rejecting generated source.
type failingBuildContext struct {
	compute.Context
	diag error
}

func (c *failingBuildContext) BuildProgram(compute.Source) (compute.Program, error) {
	return nil, c.diag
}

// TestNew_BuildErrorCarriesSourceAndDiag verifies fatal compilation
// surfacing: generated source plus backend diagnostic, matchable via
// ErrBuild.
func TestNew_BuildErrorCarriesSourceAndDiag(t *testing.T) {
	ctx, err := hostsim.New(hostsim.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctx.Close() })

	diag := errors.New("cc: error at line 3: unknown type 'real'")
	fq := &buildFailQueue{ctx: &failingBuildContext{Context: ctx, diag: diag}}

	_, err = stencil.New([]compute.Queue{fq}, []float64{1, 2, 1}, 1,
		&stencil.Options{Cache: stencil.NewProgramCache()})
	require.Error(t, err)
	assert.ErrorIs(t, err, stencil.ErrBuild)

	var be *stencil.BuildError
	require.ErrorAs(t, err, &be)
	assert.Contains(t, be.Source, "conv_tiled")
	assert.ErrorIs(t, be.Diag, diag)
}

// buildFailQueue routes Context() to the failing wrapper; nothing else
// is reached because construction aborts at the program build.
type buildFailQueue struct {
	compute.Queue
	ctx compute.Context
}

func (q *buildFailQueue) Context() compute.Context { return q.ctx }

// TestNew_ResourceError simulates device memory exhaustion during
// weight-buffer allocation.
func TestNew_ResourceError(t *testing.T) {
	opts := hostsim.DefaultOptions()
	opts.MaxBufferElems = 2

	queues := newQueues(t, 1, opts)
	_, err := stencil.New(queues, []float64{1, 2, 3, 4, 5}, 2,
		&stencil.Options{Cache: stencil.NewProgramCache()})
	assert.ErrorIs(t, err, hostsim.ErrAllocation)
}
