// SPDX-License-Identifier: MIT

package em

import (
	"io"
	"log/slog"
	"math"

	"github.com/katalvlaran/misclass/regression"
)

// Defaults (single source of truth).
const (
	// DefaultTolerance is the absolute log-likelihood change that ends a fit.
	DefaultTolerance = 1e-7
	// DefaultMaxIterations caps EM iterations.
	DefaultMaxIterations = 1500
)

// Option configures Fit and FitMultiStart. Constructors panic on nonsensical
// values.
type Option func(*Options)

// Options is the resolved configuration of a fit.
type Options struct {
	tol       float64
	relTol    float64
	maxIter   int
	inner     []regression.Option
	logger    *slog.Logger
	stdErrors bool
	trace     bool
}

// WithTolerance sets the absolute |ΔlogLik| stopping threshold.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic("em: WithTolerance: tol must be finite and > 0")
	}

	return func(o *Options) { o.tol = tol }
}

// WithRelativeTolerance also stops once |ΔlogLik| < rel·|logLik|.
// Zero disables the relative test.
func WithRelativeTolerance(rel float64) Option {
	if !(rel >= 0) || math.IsInf(rel, 0) {
		panic("em: WithRelativeTolerance: rel must be finite and >= 0")
	}

	return func(o *Options) { o.relTol = rel }
}

// WithMaxIterations caps EM iterations.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic("em: WithMaxIterations: n must be > 0")
	}

	return func(o *Options) { o.maxIter = n }
}

// WithInnerTolerance sets the coefficient tolerance of every M-step regression.
func WithInnerTolerance(tol float64) Option {
	ro := regression.WithTolerance(tol)

	return func(o *Options) { o.inner = append(o.inner, ro) }
}

// WithInnerMaxIterations caps Newton steps of every M-step regression.
func WithInnerMaxIterations(n int) Option {
	ro := regression.WithMaxIterations(n)

	return func(o *Options) { o.inner = append(o.inner, ro) }
}

// WithLogger routes progress records to l. Iterations log at Debug, the
// outcome at Info. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("em: WithLogger(nil)")
	}

	return func(o *Options) { o.logger = l }
}

// WithStandardErrors toggles the numeric-Hessian standard errors (default on).
func WithStandardErrors(on bool) Option {
	return func(o *Options) { o.stdErrors = on }
}

// WithTrace keeps the log-likelihood of every iteration in Result.Trace.
func WithTrace(on bool) Option {
	return func(o *Options) { o.trace = on }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		tol:       DefaultTolerance,
		maxIter:   DefaultMaxIterations,
		stdErrors: true,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o
}
