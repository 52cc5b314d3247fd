// SPDX-License-Identifier: MIT
// Package localtrust turns raw interaction counts into the normalized local
// trust matrix C used by EigenTrust.
//
// Pipeline (pure, inputs never mutated):
//
//	S[i][j] = Sat[i][j] − Unsat[i][j]            (computed in int, no uint8 wrap)
//	P       = max(S, 0)                          (matrix.ClipMin)
//	C[i][j] = P[i][j] / Σ_k P[i][k]              when the row sum is > 0 (matrix.NormalizeRowsL1)
//	C[i]    = Fallback(i)                        otherwise (default 1/M each)
//
// Complexity:
//
//   - Time:  O(M²)
//   - Space: O(M²) for S and C.
package localtrust

import (
	"fmt"

	"github.com/katalvlaran/eigentrust/matrix"
)

// Operation tags for error wrapping.
const (
	opSigned = "Signed"
	opBuild  = "Build"
)

// Report is the result of BuildReport.
//
// Matrix        – the row-stochastic matrix C (identical to Build's result).
// FallbackPeers – ascending peer indices whose row was filled by the fallback policy.
type Report struct {
	Matrix        *matrix.Dense
	FallbackPeers []int
}

// dims validates both count matrices and returns their common size M.
func dims(sat, unsat CountMatrix) (int, error) {
	m, err := sat.Dim()
	if err != nil {
		return 0, fmt.Errorf("sat: %w", err)
	}
	n, err := unsat.Dim()
	if err != nil {
		return 0, fmt.Errorf("unsat: %w", err)
	}
	if m != n {
		return 0, fmt.Errorf("sat is %dx%d, unsat is %dx%d: %w", m, m, n, n, ErrDimensionMismatch)
	}

	return m, nil
}

// Signed returns the local trust matrix S = sat − unsat.
// Errors: ErrDimensionMismatch when the inputs are empty, ragged, non-square or differ in size.
// Complexity: O(M²).
func Signed(sat, unsat CountMatrix) (*matrix.Dense, error) {
	m, err := dims(sat, unsat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSigned, err)
	}
	S, err := matrix.NewDense(m, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSigned, err)
	}

	var i, j int
	var row []float64
	for i = 0; i < m; i++ {
		row = S.RawRowView(i)
		for j = 0; j < m; j++ {
			// widen before subtracting: 0 - 255 must be -255, not 1.
			row[j] = float64(int(sat[i][j]) - int(unsat[i][j]))
		}
	}

	return S, nil
}

// Build derives the normalized local trust matrix C from two count matrices.
// Every row of C sums to 1 (within floating-point rounding) and every entry
// lies in [0,1].
//
// Errors:
//   - ErrDimensionMismatch for malformed inputs or a size other than WithPeers.
//   - Whatever the Fallback returns (wrapped).
func Build(sat, unsat CountMatrix, opts ...Option) (*matrix.Dense, error) {
	rep, err := BuildReport(sat, unsat, opts...)
	if err != nil {
		return nil, err
	}

	return rep.Matrix, nil
}

// BuildReport is Build plus the list of peers that received the fallback row.
func BuildReport(sat, unsat CountMatrix, opts ...Option) (*Report, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	S, err := Signed(sat, unsat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	m := S.Rows()
	if cfg.Peers != 0 && cfg.Peers != m {
		return nil, fmt.Errorf("%s: inputs are %dx%d, configured peers %d: %w",
			opBuild, m, m, cfg.Peers, ErrDimensionMismatch)
	}

	pos, err := matrix.ClipMin(S, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	C, norms, err := matrix.NormalizeRowsL1(pos)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}

	rep := &Report{Matrix: C}
	for i, n := range norms {
		if n > 0 {
			continue
		}
		if err = cfg.Fallback(i, C.RawRowView(i)); err != nil {
			return nil, fmt.Errorf("%s: fallback for peer %d: %w", opBuild, i, err)
		}
		rep.FallbackPeers = append(rep.FallbackPeers, i)
	}

	return rep, nil
}
