// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Element-wise micro-kernels: clamping and tolerance comparison.
//   - Dense fast-paths over the flat buffer; At/Set fallback otherwise.
//
// Determinism:
//   - Fixed flat (Dense) or i→j (fallback) traversal.

package matrix

import "math"

// Operation name constants for error wrapping.
const (
	opClip     = "Clip"
	opClipMin  = "ClipMin"
	opAllClose = "AllClose"
)

// clampInto is the shared kernel for ClipRange and ClipMin.
// hi may be +Inf to express "no upper bound".
func clampInto(X Matrix, lo, hi float64, opTag string) (Matrix, error) {
	r, c := X.Rows(), X.Cols()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	// Dense fast-path: single pass with branchy clamp (predictable).
	if d, ok := X.(*Dense); ok {
		for idx, v := range d.data {
			if v < lo {
				v = lo
			} else if v > hi {
				v = hi
			}
			out.data[idx] = v
		}
		return out, nil
	}

	// Generic fallback via At/Set.
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = X.At(i, j); err != nil {
				return nil, matrixErrorf(opTag, err)
			}
			if v < lo {
				v = lo
			} else if v > hi {
				v = hi
			}
			if err = out.Set(i, j, v); err != nil {
				return nil, matrixErrorf(opTag, err)
			}
		}
	}

	return out, nil
}

// ClipRange copies X clamping each entry into [lo, hi] (both finite).
// If lo > hi, they are swapped (normalized).
// Errors: ErrNilMatrix, ErrNaNInf for non-finite bounds.
// Time: O(r*c). Space: O(r*c).
func ClipRange(X Matrix, lo, hi float64) (Matrix, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opClip, err)
	}
	// Require finite bounds (respect package numeric policy).
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, matrixErrorf(opClip, ErrNaNInf)
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	return clampInto(X, lo, hi, opClip)
}

// ClipMin copies X replacing every entry below lo with lo; there is no upper bound.
// ClipMin(S, 0) is the positive part max(S, 0) used for local trust.
// Errors: ErrNilMatrix, ErrNaNInf for a non-finite lo.
// Time: O(r*c). Space: O(r*c).
func ClipMin(X Matrix, lo float64) (Matrix, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opClipMin, err)
	}
	if math.IsNaN(lo) || math.IsInf(lo, 0) {
		return nil, matrixErrorf(opClipMin, ErrNaNInf)
	}

	return clampInto(X, lo, math.Inf(1), opClipMin)
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// Negative tolerances are normalized to their absolute value.
// Time: O(r*c). Space: O(1).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	// Dense fast-path: operate over flat slices when both are *Dense.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range da.data {
				if math.Abs(da.data[idx]-db.data[idx]) > atol+rtol*math.Abs(db.data[idx]) {
					return false, nil // early-exit on first violation
				}
			}
			return true, nil
		}
	}

	// Generic fallback via At (bounds-safe; still deterministic).
	var av, bv float64
	var err error
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			if av, err = a.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return false, matrixErrorf(opAllClose, err)
			}
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				return false, nil
			}
		}
	}

	return true, nil
}
