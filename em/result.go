// SPDX-License-Identifier: MIT

package em

import (
	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/model"
)

// Estimate is one row of the coefficient table.
type Estimate struct {
	Name     string
	Value    float64
	StdError float64
}

// Result is the outcome of one EM fit. It is immutable once returned.
type Result struct {
	// Params is the final (label-corrected) estimate.
	Params model.Params
	// StdErrors are per free coordinate in model.Layout order; NaN when the
	// observed information is not invertible or standard errors are disabled.
	StdErrors []float64
	// Estimates pairs every free coordinate's name with its value and error.
	Estimates []Estimate
	// LogLik is the observed-data log-likelihood at Params.
	LogLik float64
	// Iterations is the number of completed EM iterations.
	Iterations int
	// State is the terminal state.
	State State
	// Converged is State == Converged.
	Converged bool
	// Swaps counts iterations where the label corrector relabeled the estimate.
	Swaps int
	// InnerUnconverged counts M-step regressions that stopped at their
	// iteration cap instead of converging.
	InnerUnconverged int
	// Trace holds the log-likelihood after every iteration (index 0 is the
	// starting value); nil unless WithTrace(true).
	Trace []float64
	// Stage1 and Stage2 summarize the fitted misclassification mechanisms.
	Stage1 link.Accuracy
	Stage2 [2]link.Accuracy

	warning error
}

// Warning returns nil for a converged fit, ErrMaxIterationsReached when the
// cap stopped it, or an error wrapping the context's error when canceled.
func (r *Result) Warning() error { return r.warning }

// Lookup returns the estimate named name.
func (r *Result) Lookup(name string) (Estimate, bool) {
	for _, e := range r.Estimates {
		if e.Name == name {
			return e, true
		}
	}

	return Estimate{}, false
}
