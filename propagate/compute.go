// SPDX-License-Identifier: MIT

package propagate

import (
	"context"
	"fmt"
	"runtime"

	"github.com/katalvlaran/eigentrust/matrix"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of a vector-form run.
type Result struct {
	Variant    Variant   `json:"variant"`
	Trust      []float64 `json:"trust"`
	Iterations int       `json:"iterations"`
	// Delta is the last ‖Δ‖₂. For FixedDepthPower it is the distance between
	// the last two matrix powers and says nothing about convergence.
	Delta  float64   `json:"delta"`
	Deltas []float64 `json:"deltas,omitempty"`
}

// clone returns a deep copy of r.
func (r *Result) clone() *Result {
	cp := *r
	cp.Trust = append([]float64(nil), r.Trust...)
	if r.Deltas != nil {
		cp.Deltas = append([]float64(nil), r.Deltas...)
	}

	return &cp
}

// MatrixResult is the outcome of ComputeMatrix: column j of Trust is the
// trust vector that started from column j of C.
type MatrixResult struct {
	Variant    Variant
	Trust      *matrix.Dense
	Iterations int
	Delta      float64
	Deltas     []float64
}

// prepare validates c and o and returns M and Cᵗ.
func prepare(c matrix.Matrix, o *Options) (int, *matrix.Dense, error) {
	if err := matrix.ValidateSquareNonNil(c); err != nil {
		return 0, nil, err
	}
	m := c.Rows()
	if err := o.validate(m); err != nil {
		return 0, nil, err
	}
	ct, err := matrix.Transpose(c)
	if err != nil {
		return 0, nil, err
	}

	return m, ct.(*matrix.Dense), nil
}

// startVector picks t₀: Initial if given, P for Damped, else row StartPeer of c.
func startVector(c matrix.Matrix, o *Options) ([]float64, error) {
	switch {
	case o.Initial != nil:
		return o.Initial, nil
	case o.Variant == Damped:
		return o.PreTrust, nil
	}
	if d, ok := c.(*matrix.Dense); ok {
		return d.Row(o.StartPeer)
	}
	row := make([]float64, c.Cols())
	var err error
	for j := range row {
		if row[j], err = c.At(o.StartPeer, j); err != nil {
			return nil, err
		}
	}

	return row, nil
}

// Compute runs the selected variant on the row-stochastic matrix C and
// returns the global trust vector.
//
// Errors:
//   - matrix.ErrNilMatrix, ErrDimensionMismatch for a nil or non-square C.
//   - ErrInvalidConfiguration for bad options (checked before iterating).
//   - ErrNonTermination when Plain/Damped hit MaxIterations; no vector is returned.
//   - ctx.Err() (wrapped) on cancellation.
func Compute(ctx context.Context, c matrix.Matrix, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	_, ct, err := prepare(c, &o)
	if err != nil {
		return nil, propagateErrorf(opCompute, err)
	}
	t0, err := startVector(c, &o)
	if err != nil {
		return nil, propagateErrorf(opCompute, err)
	}
	col, err := matrix.NewColumn(t0)
	if err != nil {
		return nil, propagateErrorf(opCompute, err)
	}

	out, tr, err := run(ctx, ct, col, &o)
	if err != nil {
		return nil, propagateErrorf(opCompute, err)
	}
	trust, err := matrix.Flatten(out)
	if err != nil {
		return nil, propagateErrorf(opCompute, err)
	}

	return &Result{
		Variant:    o.Variant,
		Trust:      trust,
		Iterations: tr.iterations,
		Delta:      tr.delta,
		Deltas:     tr.deltas,
	}, nil
}

// ComputeMatrix iterates the whole matrix T₀ = C at once: Tᵢ₊₁ = Cᵗ·Tᵢ
// (Damped adds a·P to every column, FixedDepthPower returns (Cᵗ)^k·C).
// The stopping rule uses the Frobenius norm of Tᵢ₊₁ − Tᵢ. StartPeer and
// Initial are ignored.
func ComputeMatrix(ctx context.Context, c matrix.Matrix, opts ...Option) (*MatrixResult, error) {
	o := newOptions(opts)
	o.Initial, o.StartPeer = nil, 0
	_, ct, err := prepare(c, &o)
	if err != nil {
		return nil, propagateErrorf(opComputeMatrix, err)
	}
	t0, ok := c.Clone().(*matrix.Dense)
	if !ok {
		t0, err = denseCopy(c)
		if err != nil {
			return nil, propagateErrorf(opComputeMatrix, err)
		}
	}

	out, tr, err := run(ctx, ct, t0, &o)
	if err != nil {
		return nil, propagateErrorf(opComputeMatrix, err)
	}

	return &MatrixResult{
		Variant:    o.Variant,
		Trust:      out,
		Iterations: tr.iterations,
		Delta:      tr.delta,
		Deltas:     tr.deltas,
	}, nil
}

// denseCopy copies any Matrix into a *Dense.
func denseCopy(c matrix.Matrix) (*matrix.Dense, error) {
	d, err := matrix.NewDense(c.Rows(), c.Cols())
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < c.Rows(); i++ {
		for j := 0; j < c.Cols(); j++ {
			if v, err = c.At(i, j); err != nil {
				return nil, err
			}
			if err = d.Set(i, j, v); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// ComputeAll returns every peer's view: out[i] starts from row i of C.
// Plain and FixedDepthPower run concurrently, at most GOMAXPROCS at a time;
// the first failure cancels the others. Damped does not depend on the start
// peer, so it is computed once and every entry is a copy of that result.
// Initial and StartPeer are ignored.
func ComputeAll(ctx context.Context, c matrix.Matrix, opts ...Option) ([]*Result, error) {
	if err := matrix.ValidateSquareNonNil(c); err != nil {
		return nil, propagateErrorf(opComputeAll, err)
	}
	m := c.Rows()
	o := newOptions(opts)
	out := make([]*Result, m)

	base := make([]Option, 0, len(opts)+2)
	base = append(base, opts...)
	base = append(base, WithInitial(nil))

	if o.Variant == Damped {
		res, err := Compute(ctx, c, base...)
		if err != nil {
			return nil, propagateErrorf(opComputeAll, err)
		}
		for i := range out {
			out[i] = res.clone()
		}

		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < m; i++ {
		i := i
		peerOpts := append(base[:len(base):len(base)], WithStartPeer(i))
		g.Go(func() error {
			res, err := Compute(gctx, c, peerOpts...)
			if err != nil {
				return fmt.Errorf("peer %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, propagateErrorf(opComputeAll, err)
	}

	return out, nil
}
