// SPDX-License-Identifier: MIT

package datasource

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/katalvlaran/eigentrust/localtrust"
)

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithSeed seeds a private *rand.Rand; the same seed yields the same matrices.
func WithSeed(seed int64) GeneratorOption {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand injects an RNG. Panics on nil.
func WithRand(r *rand.Rand) GeneratorOption {
	if r == nil {
		panic("datasource: WithRand(nil)")
	}

	return func(g *Generator) { g.rng = r }
}

// Generator produces random interaction counts.
// A Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator; without options it is seeded from the clock.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return g
}

// Generate returns an m×m matrix of uniform bytes with a zero diagonal.
// Errors: ErrInvalidPeers when m ≤ 0.
// Complexity: O(m²).
func (g *Generator) Generate(m int) (localtrust.CountMatrix, error) {
	if m <= 0 {
		return nil, fmt.Errorf("Generate: m=%d: %w", m, ErrInvalidPeers)
	}
	out := make(localtrust.CountMatrix, m)
	for i := range out {
		out[i] = make([]uint8, m)
		for j := range out[i] {
			if i != j {
				out[i][j] = uint8(g.rng.Intn(256))
			}
		}
	}

	return out, nil
}
