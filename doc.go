// Package eigentrust computes a centralized approximation of the EigenTrust
// global trust vector for a fixed set of peers, from pairwise counts of
// satisfactory and unsatisfactory interactions.
//
// 🚀 What is eigentrust?
//
//	A small, pure-Go solver that brings together:
//		• Local trust: s_ij = sat_ij − unsat_ij, clamped and row-normalized
//		• Propagation: plain power iteration, pre-trust damping, fixed-depth matrix power
//		• Convergence: L2 deltas, an explicit iteration cap, no silent infinite loops
//		• Data: CSV count matrices and a seedable random generator
//		• CLI: `eigentrust generate` and `eigentrust compute`
//
// ✨ Guarantees
//
//   - Every row of C sums to 1; a peer with no positive experience gets a
//     pluggable fallback row (1/M by default).
//   - Plain and damped runs stop at ‖tᵢ₊₁ − tᵢ‖₂ ≤ ε or fail with
//     ErrNonTermination at MaxIterations.
//   - All inputs are validated before the first iteration.
//
// Under the hood:
//
//	matrix/      dense row-major float64 matrices, validators, kernels
//	localtrust/  CountMatrix → row-stochastic local trust matrix C
//	convergence/ Delta, MatrixDelta, HasConverged, Monitor
//	propagate/   Compute, ComputeMatrix, ComputeAll, ExactDamped
//	datasource/  CSV persistence, random counts
//	config/      YAML run configuration
//	metrics/     Prometheus run metrics, textfile export
//	cli/         cobra commands; cmd/eigentrust is the binary
//
// Quick example (three peers in a ring):
//
//	  0 ──▶ 1
//	  ▲     │
//	  └─ 2 ◀┘
//
//	C, _ := localtrust.Build(sat, unsat)
//	res, err := propagate.Compute(ctx, C,
//	    propagate.WithVariant(propagate.Damped),
//	    propagate.WithDamping(0.15),
//	    propagate.WithPreTrust([]float64{1, 0, 0}),
//	)
//
// Plain iteration on this ring oscillates forever; damping pulls it to a
// unique fixed point.
//
//	go install github.com/katalvlaran/eigentrust/cmd/eigentrust@latest
package eigentrust
