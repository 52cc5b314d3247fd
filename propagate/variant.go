// SPDX-License-Identifier: MIT

package propagate

import (
	"fmt"
	"strings"
)

// Variant selects the propagation policy.
type Variant int

const (
	// Plain iterates tᵢ₊₁ = Cᵗ·tᵢ from one peer's local view until ‖Δ‖₂ ≤ ε.
	Plain Variant = iota
	// Damped iterates tᵢ₊₁ = (1−a)·Cᵗ·tᵢ + a·P from t₀ = P until ‖Δ‖₂ ≤ ε.
	Damped
	// FixedDepthPower forms (Cᵗ)^k and applies it once. No convergence test.
	FixedDepthPower
)

var variantNames = [...]string{
	Plain:           "plain",
	Damped:          "damped",
	FixedDepthPower: "fixed-depth",
}

// String returns the canonical flag spelling of v.
func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return fmt.Sprintf("Variant(%d)", int(v))
	}

	return variantNames[v]
}

// Valid reports whether v names a known variant.
func (v Variant) Valid() bool { return v >= Plain && v <= FixedDepthPower }

// ParseVariant accepts the canonical names plus a few aliases
// ("simple", "basic", "eigentrust", "power", "fixed-depth-power").
// Matching is case-insensitive.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "simple":
		return Plain, nil
	case "damped", "basic", "eigentrust":
		return Damped, nil
	case "fixed-depth", "fixed-depth-power", "fixeddepthpower", "power":
		return FixedDepthPower, nil
	}

	return Plain, propagateErrorf(opParseVariant, invalidf("unknown variant %q", s))
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, propagateErrorf("MarshalText", invalidf("unknown variant %d", int(v)))
	}

	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseVariant.
func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed

	return nil
}
