// SPDX-License-Identifier: MIT

package simulate

import xrand "golang.org/x/exp/rand"

// DefaultSeed seeds the stream when no option supplies one.
const DefaultSeed int64 = 1

// Option configures Generate.
type Option func(*Options)

// Options is the resolved generator configuration.
type Options struct {
	src xrand.Source
}

// WithSeed uses a fresh PCG stream seeded with seed.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.src = xrand.NewSource(uint64(seed)) }
}

// WithSource draws from src. The source is consumed, not copied; it must not
// be shared with another goroutine while Generate runs. Panics on nil.
func WithSource(src xrand.Source) Option {
	if src == nil {
		panic("simulate: WithSource(nil)")
	}

	return func(o *Options) { o.src = src }
}

// gatherOptions applies opts in order (last wins).
func gatherOptions(opts ...Option) Options {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	if o.src == nil {
		o.src = xrand.NewSource(uint64(DefaultSeed))
	}

	return o
}
