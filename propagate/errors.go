// SPDX-License-Identifier: MIT

package propagate

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/eigentrust/convergence"
	"github.com/katalvlaran/eigentrust/matrix"
)

// Sentinel errors. All are errors.Is-comparable through any wrapping.
var (
	// ErrInvalidConfiguration indicates a damping factor outside (0,1), an
	// invalid pre-trust vector, ε ≤ 0, a non-positive iteration cap or depth,
	// an out-of-range start peer, a bad initial vector, or an unknown variant.
	ErrInvalidConfiguration = errors.New("propagate: invalid configuration")

	// ErrNonTermination is returned when an adaptive variant hits
	// MaxIterations without its delta dropping to ε. It is the same value as
	// convergence.ErrNonTermination.
	ErrNonTermination = convergence.ErrNonTermination

	// ErrDimensionMismatch is the matrix package sentinel: C is not square,
	// or a vector's length is not M.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch
)

// Operation tags for error wrapping.
const (
	opCompute       = "Compute"
	opComputeMatrix = "ComputeMatrix"
	opComputeAll    = "ComputeAll"
	opExactDamped   = "ExactDamped"
	opResidual      = "Residual"
	opParseVariant  = "ParseVariant"
)

// propagateErrorf wraps err with an operation tag: "Compute: <err>".
func propagateErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// invalidf builds an ErrInvalidConfiguration with a formatted reason.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfiguration)
}
