// Package propagate computes the EigenTrust global trust vector from a
// row-stochastic local trust matrix C (see package localtrust).
//
// What:
//
//   - Plain: tᵢ₊₁ = Cᵗ·tᵢ from one peer's local view (row StartPeer of C).
//   - Damped: tᵢ₊₁ = (1−a)·Cᵗ·tᵢ + a·P from t₀ = P. The pre-trust anchor
//     guarantees a unique fixed point and resists collusion.
//   - FixedDepthPower: (Cᵗ)^k applied once, k fixed (default 10). Bounded
//     cost, no check that anything converged.
//
// All three are one algorithm: the variant only changes the start vector,
// the blend with P and whether the convergence monitor is consulted.
//
// Entry points:
//
//   - Compute        – vector form, returns *Result.
//   - ComputeMatrix  – matrix-of-vectors form with T₀ = C.
//   - ComputeAll     – every peer's view, fanned out with errgroup.
//   - ExactDamped    – closed-form damped fixed point (gonum LU solve).
//   - Residual       – distance of a vector from the damped fixed point.
//
// Stopping:
//
// Plain and Damped stop when ‖tᵢ₊₁ − tᵢ‖₂ ≤ ε (default 0.05). A periodic C
// (the 2-cycle [[0,1],[1,0]], or any permutation) makes plain power iteration
// oscillate forever, so every adaptive run is capped by MaxIterations
// (default 1000) and fails with ErrNonTermination when the cap is hit.
// The partial vector is discarded.
//
// Errors (sentinel):
//
//   - ErrInvalidConfiguration
//   - ErrNonTermination
//   - ErrDimensionMismatch
//
// Example:
//
//	C, _ := localtrust.Build(sat, unsat)
//	res, err := propagate.Compute(ctx, C,
//	    propagate.WithVariant(propagate.Damped),
//	    propagate.WithDamping(0.15),
//	    propagate.WithPreTrust(p),
//	)
package propagate
