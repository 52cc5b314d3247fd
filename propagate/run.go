// SPDX-License-Identifier: MIT

package propagate

import (
	"context"
	"fmt"

	"github.com/katalvlaran/eigentrust/convergence"
	"github.com/katalvlaran/eigentrust/matrix"
)

// trace is what a run reports besides the final state.
type trace struct {
	iterations int
	delta      float64
	deltas     []float64
}

// run is the one propagation algorithm behind every entry point.
//
// The state T is an M×k matrix whose columns are trust vectors: k = 1 for the
// vector form and k = M for the matrix-of-vectors form. ct is Cᵗ.
//
// Implementation:
//   - Stage 1 (FixedDepthPower): A₀ = I, Aₛ = Aₛ₋₁·Cᵗ for s = 1..k, result Aₖ·T₀.
//     Iterations = k. The delta between successive powers is reported but
//     never used to stop.
//   - Stage 2 (Plain/Damped): Tᵢ₊₁ = β·Cᵗ·Tᵢ + a·P·1ᵗ with β = 1 for Plain and
//     β = 1−a for Damped. The Frobenius norm of Tᵢ₊₁ − Tᵢ feeds a
//     convergence.Monitor, which stops at ≤ ε or fails at MaxIterations.
//   - ctx is checked before every step.
//
// Complexity:
//   - Adaptive: O(n·M²·k) time for n iterations, O(M·k) extra space.
//   - FixedDepthPower: O(k·M³) time, O(M²) extra space.
func run(ctx context.Context, ct, t0 *matrix.Dense, o *Options) (*matrix.Dense, *trace, error) {
	if o.Variant == FixedDepthPower {
		return runFixedDepth(ctx, ct, t0, o)
	}

	mon, err := convergence.NewMonitor(o.Epsilon, o.MaxIterations)
	if err != nil {
		return nil, nil, invalidf("%v", err)
	}
	log := o.Logger.With().Str("variant", o.Variant.String()).Logger()

	var (
		cur  = t0
		next *matrix.Dense
		d    float64
		done bool
	)
	for !done {
		if err = ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("iteration %d: %w", mon.Iterations()+1, err)
		}
		if next, err = step(ct, cur, o); err != nil {
			return nil, nil, err
		}
		if d, err = convergence.MatrixDelta(cur, next); err != nil {
			return nil, nil, err
		}
		log.Debug().Int("iteration", mon.Iterations()+1).Float64("delta", d).Msg("propagation step")

		done, err = mon.Observe(d)
		if err != nil {
			log.Warn().Int("iterations", mon.Iterations()).Float64("delta", d).
				Float64("epsilon", o.Epsilon).Msg("propagation did not converge")
			return nil, nil, err
		}
		cur = next
	}
	log.Debug().Int("iterations", mon.Iterations()).Float64("delta", mon.Last()).Msg("propagation converged")

	tr := &trace{iterations: mon.Iterations(), delta: mon.Last()}
	if o.Trace {
		tr.deltas = mon.History()
	}

	return cur, tr, nil
}

// step computes β·Cᵗ·T + a·P·1ᵗ into a fresh matrix.
func step(ct, cur *matrix.Dense, o *Options) (*matrix.Dense, error) {
	prod, err := matrix.Mul(ct, cur)
	if err != nil {
		return nil, err
	}
	next := prod.(*matrix.Dense) // Mul always allocates *Dense
	if o.Variant != Damped {
		return next, nil
	}

	a := o.Damping
	beta := 1 - a
	var (
		i, j int
		row  []float64
		ap   float64
	)
	for i = 0; i < next.Rows(); i++ {
		row = next.RawRowView(i)
		ap = a * o.PreTrust[i]
		for j = range row {
			row[j] = beta*row[j] + ap
		}
	}

	return next, nil
}

// runFixedDepth builds (Cᵗ)^k by k right-multiplications starting from I and
// applies it to t0 once.
func runFixedDepth(ctx context.Context, ct, t0 *matrix.Dense, o *Options) (*matrix.Dense, *trace, error) {
	A, err := matrix.NewIdentity(ct.Rows())
	if err != nil {
		return nil, nil, err
	}
	log := o.Logger.With().Str("variant", o.Variant.String()).Logger()

	tr := &trace{iterations: o.Depth}
	var (
		next matrix.Matrix
		d    float64
	)
	for s := 1; s <= o.Depth; s++ {
		if err = ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("power %d: %w", s, err)
		}
		if next, err = matrix.Mul(A, ct); err != nil {
			return nil, nil, err
		}
		if d, err = convergence.MatrixDelta(A, next); err != nil {
			return nil, nil, err
		}
		log.Debug().Int("power", s).Float64("delta", d).Msg("matrix power step")
		if o.Trace {
			tr.deltas = append(tr.deltas, d)
		}
		tr.delta = d
		A = next.(*matrix.Dense)
	}

	out, err := matrix.Mul(A, t0)
	if err != nil {
		return nil, nil, err
	}

	return out.(*matrix.Dense), tr, nil
}
