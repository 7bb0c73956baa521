// SPDX-License-Identifier: MIT

package regression

import "math"

// Defaults (single source of truth).
const (
	// DefaultTolerance stops Newton iterations once max|Δcoef| falls below it.
	DefaultTolerance = 1e-8
	// DefaultMaxIterations caps Newton iterations per fit.
	DefaultMaxIterations = 100
	// maxHalvings bounds step-halving when a full Newton step lowers the objective.
	maxHalvings = 30
)

const (
	panicTolerance  = "regression: WithTolerance: tol must be finite and > 0"
	panicIterations = "regression: WithMaxIterations: n must be > 0"
)

// Option configures Logistic. Constructors panic on nonsensical values.
type Option func(*Options)

// Options is the resolved configuration of a fit.
type Options struct {
	tol     float64
	maxIter int
}

// WithTolerance sets the coefficient-change stopping threshold.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicTolerance)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxIterations caps Newton iterations.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic(panicIterations)
	}

	return func(o *Options) { o.maxIter = n }
}

// gatherOptions applies opts over the defaults in order (last wins).
func gatherOptions(opts ...Option) Options {
	o := Options{tol: DefaultTolerance, maxIter: DefaultMaxIterations}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
