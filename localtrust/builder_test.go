// Package localtrust_test validates local trust construction: signed ratings,
// clamping, row normalization, fallback policies and dimension checks.
package localtrust_test

import (
	"testing"

	"github.com/katalvlaran/eigentrust/localtrust"
	"github.com/katalvlaran/eigentrust/matrix"
	"github.com/stretchr/testify/require"
)

// rows returns C as a row-slice literal for easy comparison.
func rows(t *testing.T, C *matrix.Dense) [][]float64 {
	t.Helper()
	out := make([][]float64, C.Rows())
	for i := range out {
		r, err := C.Row(i)
		require.NoError(t, err)
		out[i] = r
	}

	return out
}

func zeros(m int) localtrust.CountMatrix {
	out := make(localtrust.CountMatrix, m)
	for i := range out {
		out[i] = make([]uint8, m)
	}

	return out
}

func TestSigned_WidensBeforeSubtracting(t *testing.T) {
	t.Parallel()

	sat := localtrust.CountMatrix{{0, 0}, {255, 0}}
	unsat := localtrust.CountMatrix{{0, 255}, {0, 0}}

	S, err := localtrust.Signed(sat, unsat)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, -255}, {255, 0}}, rows(t, S))
}

func TestBuild_ThreePeerCycle(t *testing.T) {
	t.Parallel()

	sat := localtrust.CountMatrix{{0, 5, 0}, {0, 0, 5}, {5, 0, 0}}
	C, err := localtrust.Build(sat, zeros(3))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}}, rows(t, C))
}

func TestBuild_ClampsAndNormalizes(t *testing.T) {
	t.Parallel()

	sat := localtrust.CountMatrix{
		{0, 6, 2},
		{1, 0, 9},
		{4, 4, 0},
	}
	unsat := localtrust.CountMatrix{
		{0, 0, 4}, // s = [0, 6, -2] → [0, 1, 0]
		{0, 0, 6}, // s = [1, 0, 3]  → [1/4, 0, 3/4]
		{2, 0, 0}, // s = [2, 4, 0]  → [1/3, 2/3, 0]
	}
	C, err := localtrust.Build(sat, unsat)
	require.NoError(t, err)

	want := [][]float64{{0, 1, 0}, {0.25, 0, 0.75}, {1.0 / 3, 2.0 / 3, 0}}
	got := rows(t, C)
	for i := range want {
		require.InDeltaSlice(t, want[i], got[i], 1e-15)
	}
}

func TestBuild_UniformFallback(t *testing.T) {
	t.Parallel()

	// Peer 1 only has negative experiences, peer 2 none at all.
	sat := localtrust.CountMatrix{{0, 3, 1, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {1, 1, 1, 0}}
	unsat := localtrust.CountMatrix{{0, 0, 0, 0}, {9, 0, 9, 9}, {0, 0, 0, 0}, {0, 0, 0, 0}}

	rep, err := localtrust.BuildReport(sat, unsat)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, rep.FallbackPeers)

	got := rows(t, rep.Matrix)
	require.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, got[1])
	require.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, got[2])
	require.Equal(t, []float64{0, 0.75, 0.25, 0}, got[0])
}

func TestBuild_PreTrustFallback(t *testing.T) {
	t.Parallel()

	p := []float64{0.5, 0, 0.5}
	fb, err := localtrust.PreTrustFallback(p)
	require.NoError(t, err)

	sat := localtrust.CountMatrix{{0, 1, 0}, {0, 0, 0}, {1, 0, 0}}
	C, err := localtrust.Build(sat, zeros(3), localtrust.WithFallback(fb))
	require.NoError(t, err)
	require.Equal(t, p, rows(t, C)[1])

	p[0] = 1 // the fallback keeps its own copy
	C, err = localtrust.Build(sat, zeros(3), localtrust.WithFallback(fb))
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 0, 0.5}, rows(t, C)[1])

	// Length is checked against M when the fallback fires.
	_, err = localtrust.Build(zeros(2), zeros(2), localtrust.WithFallback(fb))
	require.ErrorIs(t, err, localtrust.ErrDimensionMismatch)

	// nil restores the default.
	C, err = localtrust.Build(zeros(2), zeros(2), localtrust.WithFallback(nil))
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 0.5}, rows(t, C)[0])
}

func TestPreTrustFallback_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    []float64
	}{
		{"empty", nil},
		{"negative", []float64{1.5, -0.5}},
		{"sum below one", []float64{0.2, 0.2}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := localtrust.PreTrustFallback(tc.p)
			require.ErrorIs(t, err, localtrust.ErrInvalidFallback)
		})
	}
}

func TestBuild_DimensionMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sat, unsat localtrust.CountMatrix
		opts       []localtrust.Option
	}{
		{"empty", localtrust.CountMatrix{}, localtrust.CountMatrix{}, nil},
		{"ragged", localtrust.CountMatrix{{0, 1}, {1}}, zeros(2), nil},
		{"non-square", localtrust.CountMatrix{{0, 1, 2}, {1, 0, 2}}, zeros(2), nil},
		{"different sizes", zeros(2), zeros(3), nil},
		{"configured peers", zeros(3), zeros(3), []localtrust.Option{localtrust.WithPeers(10)}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := localtrust.Build(tc.sat, tc.unsat, tc.opts...)
			require.ErrorIs(t, err, localtrust.ErrDimensionMismatch)
			require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
		})
	}
}

func TestBuild_InputsUntouched(t *testing.T) {
	t.Parallel()

	sat := localtrust.CountMatrix{{0, 200}, {7, 0}}
	unsat := localtrust.CountMatrix{{0, 10}, {9, 0}}
	_, err := localtrust.Build(sat, unsat)
	require.NoError(t, err)
	require.Equal(t, localtrust.CountMatrix{{0, 200}, {7, 0}}, sat)
	require.Equal(t, localtrust.CountMatrix{{0, 10}, {9, 0}}, unsat)
}

func TestWithPeers_PanicsOnNonPositive(t *testing.T) {
	require.Panics(t, func() { localtrust.WithPeers(0) })
}
