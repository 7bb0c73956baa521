// SPDX-License-Identifier: MIT

package em

// State is the lifecycle stage of a fit.
type State uint8

const (
	// Initialized: inputs validated, no iteration run yet.
	Initialized State = iota
	// Iterating: E/M steps in progress.
	Iterating
	// Converged: the log-likelihood change fell below tolerance.
	Converged
	// MaxIterationsReached: the iteration cap stopped the fit.
	MaxIterationsReached
	// Canceled: the context stopped the fit at an iteration boundary.
	Canceled
)

var stateNames = [...]string{"initialized", "iterating", "converged", "max-iterations", "canceled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}

	return "unknown"
}

// Terminal reports whether s ends a fit.
func (s State) Terminal() bool { return s >= Converged }
