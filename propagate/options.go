// SPDX-License-Identifier: MIT

package propagate

import (
	"math"

	"github.com/rs/zerolog"
)

// Defaults.
const (
	// DefaultEpsilon is the convergence threshold ε.
	DefaultEpsilon = 0.05
	// DefaultMaxIterations caps the adaptive variants.
	DefaultMaxIterations = 1000
	// DefaultDepth is k for FixedDepthPower.
	DefaultDepth = 10
	// PreTrustTolerance bounds |ΣP − 1|.
	PreTrustTolerance = 1e-9
)

// Options configures one propagation run.
//
// Variant       – propagation policy (default Plain).
// Epsilon       – stop once ‖tᵢ₊₁ − tᵢ‖₂ ≤ Epsilon (default 0.05).
// MaxIterations – cap for Plain and Damped (default 1000).
// Damping       – a ∈ (0,1); required by Damped.
// PreTrust      – P, length M, non-negative, sums to 1; required by Damped.
// StartPeer     – row of C used as t₀ for Plain/FixedDepthPower (default 0).
// Initial       – explicit t₀; overrides StartPeer and P as starting vector.
// Depth         – k for FixedDepthPower (default 10).
// Logger        – per-iteration Debug logs, Warn on non-termination (default Nop).
// Trace         – keep every delta in Result.Deltas.
//
// Options never panic: every field is checked when a Compute* function runs,
// and violations return ErrInvalidConfiguration.
type Options struct {
	Variant       Variant
	Epsilon       float64
	MaxIterations int
	Damping       float64
	PreTrust      []float64
	StartPeer     int
	Initial       []float64
	Depth         int
	Logger        zerolog.Logger
	Trace         bool
}

// Option represents a functional option for the Compute* functions.
type Option func(*Options)

// DefaultOptions returns Plain, ε=0.05, 1000 iterations, depth 10, start peer 0, no logging.
func DefaultOptions() Options {
	return Options{
		Variant:       Plain,
		Epsilon:       DefaultEpsilon,
		MaxIterations: DefaultMaxIterations,
		Depth:         DefaultDepth,
		Logger:        zerolog.Nop(),
	}
}

func newOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithVariant selects the propagation policy.
func WithVariant(v Variant) Option { return func(o *Options) { o.Variant = v } }

// WithEpsilon sets the convergence threshold ε.
func WithEpsilon(eps float64) Option { return func(o *Options) { o.Epsilon = eps } }

// WithMaxIterations sets the iteration cap of the adaptive variants.
func WithMaxIterations(n int) Option { return func(o *Options) { o.MaxIterations = n } }

// WithDamping sets the damping factor a.
func WithDamping(a float64) Option { return func(o *Options) { o.Damping = a } }

// WithPreTrust sets the pre-trust vector P. The slice is copied.
func WithPreTrust(p []float64) Option {
	cp := append([]float64(nil), p...)
	return func(o *Options) { o.PreTrust = cp }
}

// WithStartPeer selects which row of C is the starting vector.
func WithStartPeer(i int) Option { return func(o *Options) { o.StartPeer = i } }

// WithInitial sets an explicit starting vector. The slice is copied; nil
// restores the variant's default start.
func WithInitial(t0 []float64) Option {
	var cp []float64
	if t0 != nil {
		cp = append([]float64(nil), t0...)
	}

	return func(o *Options) { o.Initial = cp }
}

// WithDepth sets k for FixedDepthPower.
func WithDepth(k int) Option { return func(o *Options) { o.Depth = k } }

// WithLogger installs a zerolog logger.
func WithLogger(l zerolog.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithTrace records every iteration's delta in the result.
func WithTrace(on bool) Option { return func(o *Options) { o.Trace = on } }

// validate checks o against a peer count m. Vector arguments are checked
// only when the selected variant uses them.
func (o *Options) validate(m int) error {
	if !o.Variant.Valid() {
		return invalidf("unknown variant %d", int(o.Variant))
	}
	if !(o.Epsilon > 0) || math.IsInf(o.Epsilon, 1) {
		return invalidf("epsilon=%g must be a positive finite number", o.Epsilon)
	}
	if o.MaxIterations <= 0 {
		return invalidf("max iterations=%d must be positive", o.MaxIterations)
	}
	if o.Variant == FixedDepthPower && o.Depth <= 0 {
		return invalidf("depth=%d must be positive", o.Depth)
	}
	if o.Variant == Damped {
		if !(o.Damping > 0 && o.Damping < 1) {
			return invalidf("damping=%g must lie in (0,1)", o.Damping)
		}
		if err := validateDistribution("pre-trust", o.PreTrust, m); err != nil {
			return err
		}
	}
	if o.Initial != nil {
		if len(o.Initial) != m {
			return invalidf("initial vector has length %d, want %d", len(o.Initial), m)
		}
		for i, v := range o.Initial {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return invalidf("initial[%d]=%g must be finite and non-negative", i, v)
			}
		}
	} else if o.Variant != Damped && (o.StartPeer < 0 || o.StartPeer >= m) {
		return invalidf("start peer %d outside [0,%d)", o.StartPeer, m)
	}

	return nil
}

// validateDistribution checks that p is a probability vector of length m.
func validateDistribution(name string, p []float64, m int) error {
	if len(p) != m {
		return invalidf("%s vector has length %d, want %d", name, len(p), m)
	}
	var sum float64
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return invalidf("%s[%d]=%g must be finite and non-negative", name, i, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > PreTrustTolerance {
		return invalidf("%s vector sums to %g, want 1", name, sum)
	}

	return nil
}
