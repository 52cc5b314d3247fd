// Package localtrust derives the normalized local trust matrix of EigenTrust
// from satisfaction and dissatisfaction counts.
//
// Overview:
//
//   - Each peer i rates peer j by s_ij = sat_ij − unsat_ij.
//   - Negative ratings are clamped to 0 and each row is scaled to sum to 1,
//     giving the row-stochastic matrix C consumed by package propagate.
//   - A peer that rated nobody positively has no information to share; its
//     row is filled by a Fallback policy. The default, UniformFallback,
//     spreads 1/M over every peer. PreTrustFallback uses a pre-trusted
//     distribution instead.
//
// Errors (sentinel):
//
//   - ErrDimensionMismatch: empty, ragged or non-square inputs, inputs of
//     different sizes, or a size other than the one pinned by WithPeers.
//   - ErrInvalidFallback: a pre-trust distribution that is not a probability
//     vector.
//
// Example usage:
//
//	C, err := localtrust.Build(sat, unsat, localtrust.WithPeers(10))
//	if err != nil {
//	    log.Fatal(err)
//	}
package localtrust
