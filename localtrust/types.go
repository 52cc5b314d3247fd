// SPDX-License-Identifier: MIT

// Package localtrust defines the raw count type, sentinel errors, fallback
// policies and functional options of the local trust builder.
package localtrust

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/eigentrust/matrix"
)

// Sentinel errors returned by the builder.
var (
	// ErrDimensionMismatch indicates that a count matrix is empty, not square,
	// or not of the same size as its partner (or the configured peer count).
	// It is the matrix package sentinel, so errors.Is matches either name.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrInvalidFallback indicates a fallback distribution that is negative,
	// non-finite, or does not sum to 1.
	ErrInvalidFallback = errors.New("localtrust: invalid fallback distribution")
)

// stochasticTol is the tolerance used when checking that a distribution sums to 1.
const stochasticTol = matrix.DefaultEpsilon

// CountMatrix holds per-pair interaction counts: m[i][j] is the number of
// satisfactory (or unsatisfactory) interactions peer i had with peer j.
// The diagonal is conventionally zero. Builders never mutate a CountMatrix.
type CountMatrix [][]uint8

// Dim returns M for a non-empty square matrix, or ErrDimensionMismatch.
// Complexity: O(M).
func (m CountMatrix) Dim() (int, error) {
	n := len(m)
	if n == 0 {
		return 0, fmt.Errorf("CountMatrix.Dim: empty: %w", ErrDimensionMismatch)
	}
	for i, row := range m {
		if len(row) != n {
			return 0, fmt.Errorf("CountMatrix.Dim: row %d has %d columns, want %d: %w",
				i, len(row), n, ErrDimensionMismatch)
		}
	}

	return n, nil
}

// Fallback fills row (length M) for a peer whose local trust row has no
// positive entry. It must leave row row-stochastic.
type Fallback func(peer int, row []float64) error

// UniformFallback assigns 1/M to every peer. It is the default policy.
func UniformFallback(_ int, row []float64) error {
	u := 1.0 / float64(len(row))
	for j := range row {
		row[j] = u
	}

	return nil
}

// PreTrustFallback returns a Fallback that copies the pre-trust distribution p
// into every degenerate row. p must be non-negative, finite and sum to 1;
// its length is checked against M when the fallback runs.
func PreTrustFallback(p []float64) (Fallback, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("PreTrustFallback: empty distribution: %w", ErrInvalidFallback)
	}
	var sum float64
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("PreTrustFallback: p[%d]=%g: %w", i, v, ErrInvalidFallback)
		}
		sum += v
	}
	if math.Abs(sum-1) > stochasticTol {
		return nil, fmt.Errorf("PreTrustFallback: sum=%g: %w", sum, ErrInvalidFallback)
	}
	dist := append([]float64(nil), p...)

	return func(peer int, row []float64) error {
		if len(row) != len(dist) {
			return fmt.Errorf("PreTrustFallback: peer %d: len(p)=%d, M=%d: %w",
				peer, len(dist), len(row), ErrDimensionMismatch)
		}
		copy(row, dist)
		return nil
	}, nil
}

// Options configures Build and BuildReport.
//
// Peers    – expected peer count M; 0 means "take M from the inputs".
// Fallback – policy for rows with no positive local trust (default UniformFallback).
type Options struct {
	Peers    int
	Fallback Fallback
}

// Option represents a functional option for the builder.
type Option func(*Options)

// WithPeers pins the expected peer count. Inputs of any other size fail with
// ErrDimensionMismatch. Panics when m is not positive (programmer error).
func WithPeers(m int) Option {
	if m <= 0 {
		panic("localtrust: WithPeers: peer count must be positive")
	}

	return func(o *Options) { o.Peers = m }
}

// WithFallback replaces the zero-row policy. A nil f restores UniformFallback.
func WithFallback(f Fallback) Option {
	return func(o *Options) {
		if f == nil {
			f = UniformFallback
		}
		o.Fallback = f
	}
}

// DefaultOptions returns the builder defaults: M from inputs, uniform fallback.
func DefaultOptions() Options {
	return Options{Peers: 0, Fallback: UniformFallback}
}
