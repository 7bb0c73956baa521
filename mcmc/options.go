// SPDX-License-Identifier: MIT

package mcmc

import (
	"io"
	"log/slog"
	"math"
)

// Defaults (single source of truth).
const (
	DefaultChains  = 3
	DefaultSamples = 2000 // sweeps per chain, burn-in included
	DefaultBurnIn  = 500
	DefaultStep    = 0.1
	DefaultSeed    = int64(1)

	// targetAcceptance is the per-coordinate rate the burn-in adaptation aims at.
	targetAcceptance = 0.44
	// minStep keeps adapted steps away from zero.
	minStep = 1e-4
)

// Option configures Run. Constructors panic on nonsensical values.
type Option func(*Options)

// Options is the resolved sampler configuration.
type Options struct {
	chains  int
	samples int
	burnIn  int
	thin    int
	step    [3]float64 // per model.Block
	adapt   bool
	naive   bool
	seed    int64
	logger  *slog.Logger
}

// WithChains sets the number of independent chains.
func WithChains(n int) Option {
	if n <= 0 {
		panic("mcmc: WithChains: n must be > 0")
	}

	return func(o *Options) { o.chains = n }
}

// WithSamples sets the sweeps per chain, burn-in included.
func WithSamples(n int) Option {
	if n <= 0 {
		panic("mcmc: WithSamples: n must be > 0")
	}

	return func(o *Options) { o.samples = n }
}

// WithBurnIn sets the discarded leading sweeps per chain. A burn-in that
// consumes every sample is rejected by Run, not here.
func WithBurnIn(n int) Option {
	if n < 0 {
		panic("mcmc: WithBurnIn: n must be >= 0")
	}

	return func(o *Options) { o.burnIn = n }
}

// WithThin retains every k-th sweep after burn-in.
func WithThin(k int) Option {
	if k <= 0 {
		panic("mcmc: WithThin: k must be > 0")
	}

	return func(o *Options) { o.thin = k }
}

// WithStep sets the initial proposal standard deviation per mechanism.
func WithStep(beta, gamma1, gamma2 float64) Option {
	for _, s := range [3]float64{beta, gamma1, gamma2} {
		if !(s > 0) || math.IsInf(s, 0) {
			panic("mcmc: WithStep: steps must be finite and > 0")
		}
	}

	return func(o *Options) { o.step = [3]float64{beta, gamma1, gamma2} }
}

// WithAdaptation toggles burn-in step adaptation (default on).
func WithAdaptation(on bool) Option {
	return func(o *Options) { o.adapt = on }
}

// WithNaive toggles the naive comparison model (default on).
func WithNaive(on bool) Option {
	return func(o *Options) { o.naive = on }
}

// WithSeed seeds the master stream from which chain streams are drawn.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.seed = seed }
}

// WithLogger routes chain progress records to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("mcmc: WithLogger(nil)")
	}

	return func(o *Options) { o.logger = l }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		chains:  DefaultChains,
		samples: DefaultSamples,
		burnIn:  DefaultBurnIn,
		thin:    1,
		step:    [3]float64{DefaultStep, DefaultStep, DefaultStep},
		adapt:   true,
		naive:   true,
		seed:    DefaultSeed,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o
}
