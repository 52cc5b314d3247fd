// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/eigentrust/matrix"
	"github.com/stretchr/testify/require"
)

func TestClipMin_PositivePart(t *testing.T) {
	t.Parallel()

	S := NewFilledDense(t, 2, 3, []float64{-5, 0, 7, 255, -255, 1})
	want := [][]float64{{0, 0, 7}, {255, 0, 1}}

	fast, err := matrix.ClipMin(S, 0)
	require.NoError(t, err)
	CompareExact(t, want, fast)

	slow, err := matrix.ClipMin(hide{S}, 0)
	require.NoError(t, err)
	CompareExact(t, want, slow)

	// Input untouched.
	require.Equal(t, -5.0, MustAt(t, S, 0, 0))

	_, err = matrix.ClipMin(S, math.NaN())
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestClipRange(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 1, 4, []float64{-2, 0.5, 3, 1})

	got, err := matrix.ClipRange(X, 1, 0) // swapped bounds are normalized
	require.NoError(t, err)
	CompareExact(t, [][]float64{{0, 0.5, 1, 1}}, got)

	_, err = matrix.ClipRange(X, 0, math.Inf(1))
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.ClipRange(nil, 0, 1)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestAllClose(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 1, 2, []float64{1, 2})
	b := NewFilledDense(t, 1, 2, []float64{1 + 1e-12, 2})

	ok, err := matrix.AllClose(a, b, 0, 1e-9)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = matrix.AllClose(hide{a}, b, 0, 0)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = matrix.AllClose(a, NewFilledDense(t, 2, 1, []float64{1, 2}), 0, 0)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.AllClose(a, b, math.NaN(), 0)
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}
