// SPDX-License-Identifier: MIT
package propagate_test

import (
	"testing"

	"github.com/katalvlaran/eigentrust/localtrust"
	"github.com/katalvlaran/eigentrust/matrix"
	"github.com/stretchr/testify/require"
)

// dense builds a *matrix.Dense from a row literal.
func dense(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)

	return m
}

// hide wraps a Matrix to force the non-Dense code paths.
type hide struct{ matrix.Matrix }

// uniform returns the M×M matrix with every entry 1/M.
func uniform(t testing.TB, m int) *matrix.Dense {
	t.Helper()
	rows := make([][]float64, m)
	for i := range rows {
		rows[i] = make([]float64, m)
		for j := range rows[i] {
			rows[i][j] = 1 / float64(m)
		}
	}

	return dense(t, rows)
}

// swap is the 2-cycle C = [[0,1],[1,0]].
func swap(t testing.TB) *matrix.Dense {
	return dense(t, [][]float64{{0, 1}, {1, 0}})
}

// threeCycle builds C from the three-peer ring of satisfaction counts.
func threeCycle(t testing.TB) *matrix.Dense {
	t.Helper()
	sat := localtrust.CountMatrix{{0, 5, 0}, {0, 0, 5}, {5, 0, 0}}
	unsat := localtrust.CountMatrix{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	C, err := localtrust.Build(sat, unsat)
	require.NoError(t, err)

	return C
}

// lazy is the symmetric contraction [[0.9,0.1],[0.1,0.9]].
func lazy(t testing.TB) *matrix.Dense {
	return dense(t, [][]float64{{0.9, 0.1}, {0.1, 0.9}})
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}

	return s
}
