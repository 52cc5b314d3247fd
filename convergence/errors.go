// SPDX-License-Identifier: MIT

package convergence

import (
	"errors"

	"github.com/katalvlaran/eigentrust/matrix"
)

var (
	// ErrNonTermination is returned by Monitor.Observe when the iteration cap
	// is reached before the delta drops to ε.
	ErrNonTermination = errors.New("convergence: iteration cap reached without convergence")

	// ErrInvalidThreshold indicates ε ≤ 0, a non-finite ε, or a cap ≤ 0.
	ErrInvalidThreshold = errors.New("convergence: invalid threshold or iteration cap")

	// ErrDimensionMismatch is returned when the two iterates differ in shape.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch
)
