// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults (single source of truth).
//
// Notes:
//   - Deterministic behavior: no global mutable state, no implicit randomness.
//   - validateNaNInf controls whether Set()/ingestion rejects NaN/Inf at all.
package matrix

// Numeric policy.
const (
	// DefaultEpsilon defines the non-negative tolerance used by structural checks
	// (row-stochastic checks, AllClose-like comparisons in callers).
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true
)
