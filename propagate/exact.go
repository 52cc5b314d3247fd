// SPDX-License-Identifier: MIT

package propagate

import (
	"github.com/katalvlaran/eigentrust/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// checkDamped validates the (C, a, P) triple shared by ExactDamped and Residual.
func checkDamped(c matrix.Matrix, a float64, p []float64) (int, error) {
	if err := matrix.ValidateSquareNonNil(c); err != nil {
		return 0, err
	}
	m := c.Rows()
	if !(a > 0 && a < 1) {
		return 0, invalidf("damping=%g must lie in (0,1)", a)
	}
	if err := validateDistribution("pre-trust", p, m); err != nil {
		return 0, err
	}

	return m, nil
}

// ExactDamped returns the fixed point of the damped update in closed form:
//
//	t* = (1−a)·Cᵗ·t* + a·P  ⇔  (I − (1−a)·Cᵗ)·t* = a·P
//
// solved with an LU factorization. For row-stochastic C and a ∈ (0,1) the
// system matrix is strictly diagonally dominant by columns, so it is never
// singular. Intended for verification and small M.
//
// Complexity: O(M³).
func ExactDamped(c matrix.Matrix, a float64, p []float64) ([]float64, error) {
	m, err := checkDamped(c, a, p)
	if err != nil {
		return nil, propagateErrorf(opExactDamped, err)
	}

	beta := 1 - a
	A := mat.NewDense(m, m, nil)
	var cji float64
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			if cji, err = c.At(j, i); err != nil {
				return nil, propagateErrorf(opExactDamped, err)
			}
			v := -beta * cji
			if i == j {
				v++
			}
			A.Set(i, j, v)
		}
	}
	b := mat.NewVecDense(m, nil)
	for i, v := range p {
		b.SetVec(i, a*v)
	}

	var x mat.VecDense
	if err = x.SolveVec(A, b); err != nil {
		return nil, propagateErrorf(opExactDamped, err)
	}
	out := make([]float64, m)
	for i := range out {
		out[i] = x.AtVec(i)
	}

	return out, nil
}

// Residual returns ‖t − ((1−a)·Cᵗ·t + a·P)‖₂, the distance of t from being a
// damped fixed point.
func Residual(c matrix.Matrix, a float64, p, t []float64) (float64, error) {
	if _, err := checkDamped(c, a, p); err != nil {
		return 0, propagateErrorf(opResidual, err)
	}
	y, err := matrix.MatTVec(c, t)
	if err != nil {
		return 0, propagateErrorf(opResidual, err)
	}
	floats.Scale(1-a, y)
	floats.AddScaled(y, a, p)

	return floats.Distance(t, y, 2), nil
}
