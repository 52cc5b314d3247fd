// SPDX-License-Identifier: MIT
package propagate_test

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/katalvlaran/eigentrust/convergence"
	"github.com/katalvlaran/eigentrust/matrix"
	"github.com/katalvlaran/eigentrust/propagate"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestCompute_UniformMatrixIsFixedPoint(t *testing.T) {
	t.Parallel()

	C := uniform(t, 4)
	res, err := propagate.Compute(context.Background(), C)
	require.NoError(t, err)
	require.Equal(t, propagate.Plain, res.Variant)
	require.Equal(t, 1, res.Iterations)
	require.Zero(t, res.Delta)
	require.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, res.Trust, 1e-15)
}

func TestCompute_MonotonicConvergence(t *testing.T) {
	t.Parallel()

	// tₙ = [½+½·0.8ⁿ, ½−½·0.8ⁿ]; ‖Δₙ‖ = 0.1·√2·0.8ⁿ⁻¹ first drops below 0.05 at n = 6.
	res, err := propagate.Compute(context.Background(), lazy(t),
		propagate.WithInitial([]float64{1, 0}),
		propagate.WithTrace(true),
	)
	require.NoError(t, err)
	require.Equal(t, 6, res.Iterations)
	require.Len(t, res.Deltas, 6)
	for i := 1; i < len(res.Deltas); i++ {
		require.LessOrEqual(t, res.Deltas[i], res.Deltas[i-1])
	}
	require.LessOrEqual(t, res.Delta, propagate.DefaultEpsilon)
	require.Equal(t, res.Deltas[5], res.Delta)

	want := 0.5 * math.Pow(0.8, 6)
	require.InDeltaSlice(t, []float64{0.5 + want, 0.5 - want}, res.Trust, 1e-12)

	// From the uniform start the result is uniform.
	res, err = propagate.Compute(context.Background(), uniform(t, 5),
		propagate.WithInitial([]float64{1, 0, 0, 0, 0}),
		propagate.WithTrace(true),
	)
	require.NoError(t, err)
	require.Equal(t, 2, res.Iterations)
	require.GreaterOrEqual(t, res.Deltas[0], res.Deltas[1])
	require.InDeltaSlice(t, []float64{0.2, 0.2, 0.2, 0.2, 0.2}, res.Trust, 1e-15)
}

func TestCompute_NoTraceByDefault(t *testing.T) {
	t.Parallel()

	res, err := propagate.Compute(context.Background(), lazy(t))
	require.NoError(t, err)
	require.Nil(t, res.Deltas)
}

func TestCompute_OscillationHitsCap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		C    *matrix.Dense
		t0   []float64
	}{
		{"two-cycle", swap(t), []float64{1, 0}},
		{"three-cycle", threeCycle(t), []float64{1, 0, 0}},
		{"three-cycle from peer row", threeCycle(t), nil},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := propagate.Compute(context.Background(), tc.C,
				propagate.WithInitial(tc.t0),
				propagate.WithMaxIterations(50),
			)
			require.Nil(t, res)
			require.ErrorIs(t, err, propagate.ErrNonTermination)
			require.ErrorIs(t, err, convergence.ErrNonTermination)
		})
	}
}

func TestCompute_DefaultCapTerminates(t *testing.T) {
	t.Parallel()

	_, err := propagate.Compute(context.Background(), swap(t))
	require.ErrorIs(t, err, propagate.ErrNonTermination)
	require.Contains(t, err.Error(), "1000 iterations")
}

func TestCompute_DampedMatchesExact(t *testing.T) {
	t.Parallel()

	C := dense(t, [][]float64{
		{0, 0.7, 0.3, 0},
		{0.5, 0, 0, 0.5},
		{0, 1, 0, 0},
		{0.25, 0.25, 0.25, 0.25},
	})
	p := []float64{0.5, 0.5, 0, 0}
	const a = 0.2

	res, err := propagate.Compute(context.Background(), C,
		propagate.WithVariant(propagate.Damped),
		propagate.WithDamping(a),
		propagate.WithPreTrust(p),
		propagate.WithEpsilon(1e-13),
	)
	require.NoError(t, err)

	exact, err := propagate.ExactDamped(C, a, p)
	require.NoError(t, err)
	require.InDeltaSlice(t, exact, res.Trust, 1e-10)
	require.InDelta(t, 1.0, sum(res.Trust), 1e-12)

	r, err := propagate.Residual(C, a, p, exact)
	require.NoError(t, err)
	require.Less(t, r, 1e-12)
	r, err = propagate.Residual(C, a, p, res.Trust)
	require.NoError(t, err)
	require.Less(t, r, 1e-12)
}

func TestCompute_DampingBreaksOscillation(t *testing.T) {
	t.Parallel()

	p := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	res, err := propagate.Compute(context.Background(), threeCycle(t),
		propagate.WithVariant(propagate.Damped),
		propagate.WithDamping(0.15),
		propagate.WithPreTrust(p),
	)
	require.NoError(t, err)
	require.Equal(t, 1, res.Iterations)
	require.InDeltaSlice(t, p, res.Trust, 1e-15)

	// A skewed P still converges on the 2-cycle.
	res, err = propagate.Compute(context.Background(), swap(t),
		propagate.WithVariant(propagate.Damped),
		propagate.WithDamping(0.5),
		propagate.WithPreTrust([]float64{1, 0}),
		propagate.WithEpsilon(1e-9),
	)
	require.NoError(t, err)
	// t* = 0.5·[[0,1],[1,0]]·t* + 0.5·[1,0]  ⇒  t* = [2/3, 1/3]
	require.InDeltaSlice(t, []float64{2.0 / 3, 1.0 / 3}, res.Trust, 1e-8)
}

func TestCompute_FixedDepthPower(t *testing.T) {
	t.Parallel()

	C := threeCycle(t)

	// (Cᵗ)³ = I on a 3-cycle.
	res, err := propagate.Compute(context.Background(), C,
		propagate.WithVariant(propagate.FixedDepthPower),
		propagate.WithDepth(3),
	)
	require.NoError(t, err)
	require.Equal(t, 3, res.Iterations)
	require.Equal(t, []float64{0, 1, 0}, res.Trust)

	// Default depth 10 ≡ 1 (mod 3): Cᵗ·row₀ = row₁.
	first, err := propagate.Compute(context.Background(), C,
		propagate.WithVariant(propagate.FixedDepthPower),
		propagate.WithTrace(true),
	)
	require.NoError(t, err)
	require.Equal(t, propagate.DefaultDepth, first.Iterations)
	require.Len(t, first.Deltas, propagate.DefaultDepth)
	require.Equal(t, []float64{0, 0, 1}, first.Trust)

	for i := 0; i < 5; i++ {
		again, err := propagate.Compute(context.Background(), C,
			propagate.WithVariant(propagate.FixedDepthPower),
			propagate.WithTrace(true),
		)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestCompute_FixedDepthIgnoresEpsilon(t *testing.T) {
	t.Parallel()

	// A 2-cycle never converges, but the fixed-depth variant never asks.
	res, err := propagate.Compute(context.Background(), swap(t),
		propagate.WithVariant(propagate.FixedDepthPower),
		propagate.WithDepth(7),
		propagate.WithMaxIterations(1),
	)
	require.NoError(t, err)
	require.Equal(t, 7, res.Iterations)
	require.Equal(t, []float64{1, 0}, res.Trust)
	require.Equal(t, 2.0, res.Delta)
}

func TestCompute_StartPeerAndFallbackPath(t *testing.T) {
	t.Parallel()

	C := lazy(t)
	fast, err := propagate.Compute(context.Background(), C, propagate.WithStartPeer(1))
	require.NoError(t, err)
	slow, err := propagate.Compute(context.Background(), hide{C}, propagate.WithStartPeer(1))
	require.NoError(t, err)
	require.Equal(t, fast, slow)
	require.Greater(t, fast.Trust[1], fast.Trust[0])
}

func TestCompute_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	C := uniform(t, 3)
	p := []float64{0.5, 0.5, 0}
	damped := func(extra ...propagate.Option) []propagate.Option {
		return append([]propagate.Option{
			propagate.WithVariant(propagate.Damped),
			propagate.WithDamping(0.1),
			propagate.WithPreTrust(p),
		}, extra...)
	}

	tests := []struct {
		name string
		opts []propagate.Option
	}{
		{"zero epsilon", []propagate.Option{propagate.WithEpsilon(0)}},
		{"negative epsilon", []propagate.Option{propagate.WithEpsilon(-0.1)}},
		{"NaN epsilon", []propagate.Option{propagate.WithEpsilon(math.NaN())}},
		{"zero cap", []propagate.Option{propagate.WithMaxIterations(0)}},
		{"unknown variant", []propagate.Option{propagate.WithVariant(propagate.Variant(9))}},
		{"zero depth", []propagate.Option{propagate.WithVariant(propagate.FixedDepthPower), propagate.WithDepth(0)}},
		{"start peer negative", []propagate.Option{propagate.WithStartPeer(-1)}},
		{"start peer too large", []propagate.Option{propagate.WithStartPeer(3)}},
		{"initial wrong length", []propagate.Option{propagate.WithInitial([]float64{1, 0})}},
		{"initial negative", []propagate.Option{propagate.WithInitial([]float64{1, -1, 1})}},
		{"damping missing", []propagate.Option{propagate.WithVariant(propagate.Damped), propagate.WithPreTrust(p)}},
		{"damping one", damped(propagate.WithDamping(1))},
		{"damping negative", damped(propagate.WithDamping(-0.2))},
		{"pre-trust missing", damped(propagate.WithPreTrust(nil))},
		{"pre-trust short", damped(propagate.WithPreTrust([]float64{0.5, 0.5}))},
		{"pre-trust sum", damped(propagate.WithPreTrust([]float64{0.5, 0.4, 0}))},
		{"pre-trust negative", damped(propagate.WithPreTrust([]float64{1.5, -0.5, 0}))},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := propagate.Compute(context.Background(), C, tc.opts...)
			require.ErrorIs(t, err, propagate.ErrInvalidConfiguration)
		})
	}
}

func TestCompute_BadMatrix(t *testing.T) {
	t.Parallel()

	wide, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, err = propagate.Compute(context.Background(), wide)
	require.ErrorIs(t, err, propagate.ErrDimensionMismatch)

	_, err = propagate.Compute(context.Background(), nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestCompute_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := propagate.Compute(ctx, lazy(t))
	require.ErrorIs(t, err, context.Canceled)

	_, err = propagate.Compute(ctx, lazy(t), propagate.WithVariant(propagate.FixedDepthPower))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompute_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	_, err := propagate.Compute(context.Background(), swap(t),
		propagate.WithLogger(logger),
		propagate.WithMaxIterations(3),
	)
	require.ErrorIs(t, err, propagate.ErrNonTermination)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // three steps and one warning
	require.Contains(t, lines[0], `"variant":"plain"`)
	require.Contains(t, lines[0], `"iteration":1`)
	require.Contains(t, lines[3], `"level":"warn"`)
	require.Contains(t, lines[3], "did not converge")
}

func TestComputeMatrix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Uniform C: CᵗC = C, converged after one step.
	res, err := propagate.ComputeMatrix(ctx, uniform(t, 3))
	require.NoError(t, err)
	require.Equal(t, 1, res.Iterations)
	ok, err := matrix.AllClose(uniform(t, 3), res.Trust, 0, 1e-15)
	require.NoError(t, err)
	require.True(t, ok)

	// (Cᵗ)³·C = C on a 3-cycle.
	C := threeCycle(t)
	res, err = propagate.ComputeMatrix(ctx, C,
		propagate.WithVariant(propagate.FixedDepthPower), propagate.WithDepth(3))
	require.NoError(t, err)
	ok, err = matrix.AllClose(C, res.Trust, 0, 0)
	require.NoError(t, err)
	require.True(t, ok)

	// The 2-cycle alternates between C and I.
	_, err = propagate.ComputeMatrix(ctx, swap(t), propagate.WithMaxIterations(20))
	require.ErrorIs(t, err, propagate.ErrNonTermination)

	// Damped: every column lands on the same fixed point.
	p := []float64{0.2, 0.3, 0.5}
	res, err = propagate.ComputeMatrix(ctx, C,
		propagate.WithVariant(propagate.Damped),
		propagate.WithDamping(0.3),
		propagate.WithPreTrust(p),
		propagate.WithEpsilon(1e-12),
	)
	require.NoError(t, err)
	exact, err := propagate.ExactDamped(C, 0.3, p)
	require.NoError(t, err)
	for j := 0; j < 3; j++ {
		col, err := res.Trust.Col(j)
		require.NoError(t, err)
		// Each column of C sums to 1 here, so Tᵢ columns stay distributions.
		require.InDeltaSlice(t, exact, col, 1e-10)
	}

	// C itself is not modified.
	ok, err = matrix.AllClose(threeCycle(t), C, 0, 0)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestComputeAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	C := lazy(t)

	all, err := propagate.ComputeAll(ctx, C, propagate.WithEpsilon(1e-6), propagate.WithInitial([]float64{1, 0}))
	require.NoError(t, err)
	require.Len(t, all, 2)
	for i, res := range all {
		single, err := propagate.Compute(ctx, C, propagate.WithEpsilon(1e-6), propagate.WithStartPeer(i))
		require.NoError(t, err)
		require.Equal(t, single, res)
		require.InDeltaSlice(t, []float64{0.5, 0.5}, res.Trust, 1e-5)
	}
	require.Greater(t, all[0].Trust[0], all[1].Trust[0])

	_, err = propagate.ComputeAll(ctx, swap(t), propagate.WithMaxIterations(10))
	require.ErrorIs(t, err, propagate.ErrNonTermination)

	_, err = propagate.ComputeAll(ctx, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestComputeAll_DampedShared(t *testing.T) {
	t.Parallel()

	C := threeCycle(t)
	all, err := propagate.ComputeAll(context.Background(), C,
		propagate.WithVariant(propagate.Damped),
		propagate.WithDamping(0.2),
		propagate.WithPreTrust([]float64{1, 0, 0}),
	)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, all[0], all[1])
	require.Equal(t, all[0], all[2])

	all[0].Trust[0] = 42
	require.NotEqual(t, all[0].Trust[0], all[1].Trust[0])
}

func TestExactDamped_Invalid(t *testing.T) {
	t.Parallel()

	C := uniform(t, 2)
	_, err := propagate.ExactDamped(C, 0, []float64{0.5, 0.5})
	require.ErrorIs(t, err, propagate.ErrInvalidConfiguration)
	_, err = propagate.ExactDamped(C, 0.5, []float64{1})
	require.ErrorIs(t, err, propagate.ErrInvalidConfiguration)
	_, err = propagate.ExactDamped(nil, 0.5, []float64{0.5, 0.5})
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = propagate.Residual(C, 0.5, []float64{0.5, 0.5}, []float64{1})
	require.ErrorIs(t, err, propagate.ErrDimensionMismatch)
}
