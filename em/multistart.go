// SPDX-License-Identifier: MIT

package em

import (
	"context"
	"fmt"

	"github.com/katalvlaran/misclass/model"
	xrand "golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// MultiResult collects independent fits from several starting points.
type MultiResult struct {
	// Results[i] is the fit started from starts[i].
	Results []*Result
	// Best indexes the fit with the highest log-likelihood.
	Best int
}

// BestResult returns Results[Best].
func (m *MultiResult) BestResult() *Result { return m.Results[m.Best] }

// FitMultiStart runs Fit from every start concurrently. The fits share ds
// read-only and nothing else. The first fatal error cancels the others and is
// returned. Ties on log-likelihood go to the earliest start.
func FitMultiStart(ctx context.Context, ds *model.Dataset, starts []model.Params, opts ...Option) (*MultiResult, error) {
	if len(starts) == 0 {
		return nil, fmt.Errorf("em: FitMultiStart: no starting points: %w", model.ErrShapeMismatch)
	}
	results := make([]*Result, len(starts))
	g, gctx := errgroup.WithContext(ctx)
	for i := range starts {
		i := i
		g.Go(func() error {
			r, err := Fit(gctx, ds, starts[i], opts...)
			if err != nil {
				return fmt.Errorf("start %d: %w", i, err)
			}
			results[i] = r

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for i, r := range results {
		if r.LogLik > results[best].LogLik {
			best = i
		}
	}

	return &MultiResult{Results: results, Best: best}, nil
}

// JitteredStarts returns n starting points: start itself followed by n−1
// copies with every coefficient shifted by N(0, scale²) noise drawn from a
// stream seeded with seed.
func JitteredStarts(start model.Params, n int, scale float64, seed int64) []model.Params {
	if n <= 0 {
		return nil
	}
	rng := xrand.New(xrand.NewSource(uint64(seed)))
	out := make([]model.Params, n)
	out[0] = start.Clone()
	for i := 1; i < n; i++ {
		p := start.Clone()
		jitter(rng, scale, p.Beta)
		for j := 0; j < 2; j++ {
			jitter(rng, scale, p.Gamma1[j])
			for k := 0; k < 2; k++ {
				jitter(rng, scale, p.Gamma2[k][j])
			}
		}
		out[i] = p
	}

	return out
}

func jitter(rng *xrand.Rand, scale float64, v []float64) {
	for i := range v {
		v[i] += scale * rng.NormFloat64()
	}
}
