// SPDX-License-Identifier: MIT

package convergence

import (
	"fmt"

	"github.com/katalvlaran/eigentrust/matrix"
	"gonum.org/v1/gonum/floats"
)

// Delta returns ‖next − prev‖₂.
// Errors: ErrDimensionMismatch when the lengths differ.
// Complexity: O(n).
func Delta(prev, next []float64) (float64, error) {
	if len(prev) != len(next) {
		return 0, fmt.Errorf("Delta: len(prev)=%d, len(next)=%d: %w", len(prev), len(next), ErrDimensionMismatch)
	}

	return floats.Distance(prev, next, 2), nil
}

// MatrixDelta returns the Frobenius norm of next − prev.
// Errors: matrix.ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func MatrixDelta(prev, next matrix.Matrix) (float64, error) {
	if err := matrix.ValidateBinarySameShape(prev, next); err != nil {
		return 0, fmt.Errorf("MatrixDelta: %w", err)
	}
	a, err := matrix.Flatten(prev)
	if err != nil {
		return 0, fmt.Errorf("MatrixDelta: %w", err)
	}
	b, err := matrix.Flatten(next)
	if err != nil {
		return 0, fmt.Errorf("MatrixDelta: %w", err)
	}

	return floats.Distance(a, b, 2), nil
}

// HasConverged reports whether delta ≤ eps.
func HasConverged(delta, eps float64) bool { return delta <= eps }
