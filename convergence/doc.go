// SPDX-License-Identifier: MIT

// Package convergence holds the stopping logic shared by every propagation
// variant in package propagate.
//
// The distance between two successive iterates is the Euclidean (L2) norm of
// their elementwise difference. For matrices this is the Frobenius norm, i.e.
// the L2 norm of the flattened difference. An iterate has converged once that
// distance is ≤ ε.
//
// Monitor adds the state the pure helpers lack: an iteration counter, the
// delta history and a hard iteration cap. Power iteration on a periodic
// chain (a 2-cycle or a 3-cycle, for instance) never meets any ε < 1, so the
// cap turns a silent infinite loop into ErrNonTermination.
//
// Example:
//
//	mon, err := convergence.NewMonitor(0.05, 1000)
//	...
//	for {
//	    next := step(t)
//	    d, _ := convergence.Delta(t, next)
//	    done, err := mon.Observe(d)
//	    if err != nil {
//	        return err // cap reached
//	    }
//	    t = next
//	    if done {
//	        break
//	    }
//	}
package convergence
