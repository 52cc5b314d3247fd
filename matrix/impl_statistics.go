// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Row/column reductions and L1 row normalization, the building blocks of
//     row-stochastic (Markov) matrices.
//
// Exposed API:
//   - RowSums(m)         -> r[i] = Σ_j m[i,j]
//   - ColSums(m)         -> c[j] = Σ_i m[i,j]
//   - NormalizeRowsL1(X) -> (Y, norms)  // degenerate rows unchanged, norm reported as 0
//
// Determinism & Performance:
//   - Fixed i→j traversal; Dense fast-paths operate on the flat buffer.

package matrix

const (
	opRowSums         = "RowSums"
	opColSums         = "ColSums"
	opNormalizeRowsL1 = "NormalizeRowsL1"
)

// ones returns an all-ones vector of length n.
func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1.0
	}

	return v
}

// RowSums returns r where r[i] = Σ_j m[i,j].
// Implementation: MatVec(m, ones(cols)).
// Complexity: O(r*c).
func RowSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}
	s, err := MatVec(m, ones(m.Cols()))
	if err != nil {
		return nil, matrixErrorf(opRowSums, err)
	}

	return s, nil
}

// ColSums returns c where c[j] = Σ_i m[i,j].
// Implementation: MatTVec(m, ones(rows)); mᵀ is never formed.
// Complexity: O(r*c).
func ColSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	s, err := MatTVec(m, ones(m.Rows()))
	if err != nil {
		return nil, matrixErrorf(opColSums, err)
	}

	return s, nil
}

// NormalizeRowsL1 scales every row of X to unit L1 norm.
// Implementation:
//   - Stage 1: validate X and copy it into a fresh *Dense.
//   - Stage 2: per row, norm = Σ_j |x_ij|; rows with norm > 0 are divided by it.
//   - Stage 3: rows with norm == 0 are left as they are (all zeros); callers
//     detect them through norms[i] == 0 and apply their own policy.
//
// Returns:
//   - *Dense: the normalized copy. X is not modified.
//   - []float64: the original L1 norms (len = rows).
//
// Errors:
//   - ErrNilMatrix, wrapped At errors on the fallback path.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) + O(r).
func NormalizeRowsL1(X Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL1, err)
	}
	r, c := X.Rows(), X.Cols()
	Y, err := NewDense(r, c)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL1, err)
	}

	// Stage 1: copy (Dense fast-path, At fallback).
	if d, ok := X.(*Dense); ok {
		copy(Y.data, d.data)
	} else {
		var v float64
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if v, err = X.At(i, j); err != nil {
					return nil, nil, matrixErrorf(opNormalizeRowsL1, err)
				}
				Y.data[i*c+j] = v
			}
		}
	}

	// Stage 2: L1 norms and in-place scaling.
	norms := make([]float64, r)
	var (
		i, j, base int
		s, v       float64
	)
	for i = 0; i < r; i++ {
		base = i * c
		s = ZeroSum
		for j = 0; j < c; j++ {
			v = Y.data[base+j]
			if v < 0 {
				v = -v
			}
			s += v
		}
		norms[i] = s
		if s == 0 {
			continue // Stage 3: degenerate row unchanged
		}
		for j = 0; j < c; j++ {
			Y.data[base+j] /= s
		}
	}

	return Y, norms, nil
}
