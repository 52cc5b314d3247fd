// Package matrix offers the dense linear-algebra substrate of the trust pipeline.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and a
//     finite-value numeric policy.
//   - Kernels (Add, Sub, Mul, Transpose, Scale, MatVec, MatTVec) that never
//     mutate their inputs and use *Dense fast-paths over the flat buffer.
//   - Element-wise helpers (ClipRange, ClipMin, AllClose) and validators
//     (ValidateSquareNonNil, IsRowStochastic, ...).
//
// Trust vectors are plain []float64 for MatVec/MatTVec, or n×1 *Dense
// columns (NewColumn) when a kernel needs a Matrix.
//
// All errors are sentinels from errors.go wrapped with an operation tag;
// match them with errors.Is.
package matrix
