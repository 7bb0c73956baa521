// SPDX-License-Identifier: MIT

package em

import (
	"errors"
	"fmt"
)

// ErrMaxIterationsReached is the warning of a fit stopped by the iteration
// cap before the log-likelihood settled. It is never returned as an error
// from Fit; see Result.Warning.
var ErrMaxIterationsReached = errors.New("em: maximum iterations reached without convergence")

// IterationError reports a fatal numerical failure inside one EM iteration.
type IterationError struct {
	// Iteration is the 1-based EM iteration that failed.
	Iteration int
	// Block names the mechanism whose update failed, e.g. "gamma2[1,2]".
	Block string
	// Err is the underlying failure, typically regression.ErrSingularDesign.
	Err error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("em: iteration %d: %s: %v", e.Iteration, e.Block, e.Err)
}

func (e *IterationError) Unwrap() error { return e.Err }
