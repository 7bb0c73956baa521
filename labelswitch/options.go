// SPDX-License-Identifier: MIT

package labelswitch

import "math"

// DefaultTolerance is the |J| band treated as an uninformative first stage.
const DefaultTolerance = 1e-6

// Option configures Correct.
type Option func(*Options)

// Options is the resolved corrector configuration.
type Options struct {
	tol float64
}

// WithTolerance sets the Youden band; tol must be finite and >= 0.
func WithTolerance(tol float64) Option {
	if !(tol >= 0) || math.IsInf(tol, 0) {
		panic("labelswitch: WithTolerance: tol must be finite and >= 0")
	}

	return func(o *Options) { o.tol = tol }
}

func gatherOptions(opts ...Option) Options {
	o := Options{tol: DefaultTolerance}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
