// SPDX-License-Identifier: MIT

package convergence

import (
	"fmt"
	"math"
)

// Monitor tracks the deltas of one iterative computation.
// A Monitor is not safe for concurrent use; create one per computation.
type Monitor struct {
	eps     float64
	maxIter int
	history []float64
}

// NewMonitor returns a Monitor that converges at delta ≤ eps and gives up
// after maxIter observations.
// Errors: ErrInvalidThreshold when eps is not a positive finite number or maxIter ≤ 0.
func NewMonitor(eps float64, maxIter int) (*Monitor, error) {
	if !(eps > 0) || math.IsInf(eps, 1) {
		return nil, fmt.Errorf("NewMonitor: eps=%g: %w", eps, ErrInvalidThreshold)
	}
	if maxIter <= 0 {
		return nil, fmt.Errorf("NewMonitor: maxIter=%d: %w", maxIter, ErrInvalidThreshold)
	}

	return &Monitor{eps: eps, maxIter: maxIter, history: make([]float64, 0, 16)}, nil
}

// Observe records the delta of one completed iteration.
// It returns true once delta ≤ ε. When the cap is reached without
// convergence it returns ErrNonTermination wrapped with the iteration count
// and the last delta. A NaN delta never converges.
func (m *Monitor) Observe(delta float64) (bool, error) {
	m.history = append(m.history, delta)
	if HasConverged(delta, m.eps) {
		return true, nil
	}
	if len(m.history) >= m.maxIter {
		return false, fmt.Errorf("Observe: %d iterations, last delta %g > ε=%g: %w",
			len(m.history), delta, m.eps, ErrNonTermination)
	}

	return false, nil
}

// Iterations returns the number of observed iterations.
func (m *Monitor) Iterations() int { return len(m.history) }

// Last returns the most recent delta, or +Inf before the first observation.
func (m *Monitor) Last() float64 {
	if len(m.history) == 0 {
		return math.Inf(1)
	}

	return m.history[len(m.history)-1]
}

// History returns a copy of all observed deltas in order.
func (m *Monitor) History() []float64 {
	return append([]float64(nil), m.history...)
}

// Epsilon returns the configured threshold.
func (m *Monitor) Epsilon() float64 { return m.eps }
