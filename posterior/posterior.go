// SPDX-License-Identifier: MIT

package posterior

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/misclass/model"
	"gonum.org/v1/gonum/stat"
)

// Draw is one retained state of one chain.
type Draw struct {
	// Chain is the 0-based chain id.
	Chain int `json:"chain"`
	// Iteration is the 0-based sweep index within the chain, burn-in included.
	Iteration int `json:"iteration"`
	// Values holds the free coordinates in model.Layout order.
	Values []float64 `json:"values"`
}

// ParamSummary describes the marginal posterior of one coordinate.
type ParamSummary struct {
	Name string
	Mean float64
	// SD is the pooled sample standard deviation; NaN with a single draw.
	SD float64
	// Q025, Q50 and Q975 are empirical quantiles of the pooled draws.
	Q025, Q50, Q975 float64
	// ChainMeans are per-chain means, ordered by chain id.
	ChainMeans []float64
	// RHat is the Gelman–Rubin statistic; NaN with fewer than two chains of
	// at least two draws, or zero within-chain variance.
	RHat float64
}

// Summary is the reduction of a draw set.
type Summary struct {
	Params []ParamSummary
	// Chains lists the chain ids present, ascending.
	Chains []int
	// Draws is the pooled draw count.
	Draws int
}

// Lookup returns the summary of the coordinate named name.
func (s *Summary) Lookup(name string) (ParamSummary, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}

	return ParamSummary{}, false
}

// Means returns the pooled means in coordinate order.
func (s *Summary) Means() []float64 {
	out := make([]float64, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Mean
	}

	return out
}

// Summarize pools draws per coordinate; names label the coordinates.
//
// Errors:
//   - ErrEmptyPosterior when draws is empty.
//   - model.ErrShapeMismatch when a draw's length differs from len(names).
//
// Complexity: O(d·N·log N) for d coordinates and N draws.
func Summarize(names []string, draws []Draw) (*Summary, error) {
	if len(draws) == 0 {
		return nil, ErrEmptyPosterior
	}
	d := len(names)
	for i, dr := range draws {
		if len(dr.Values) != d {
			return nil, fmt.Errorf("posterior: draw %d has %d values for %d names: %w", i, len(dr.Values), d, model.ErrShapeMismatch)
		}
	}

	byChain := map[int][]int{}
	for i, dr := range draws {
		byChain[dr.Chain] = append(byChain[dr.Chain], i)
	}
	chains := make([]int, 0, len(byChain))
	for c := range byChain {
		chains = append(chains, c)
	}
	sort.Ints(chains)

	s := &Summary{Chains: chains, Draws: len(draws), Params: make([]ParamSummary, d)}
	pooled := make([]float64, len(draws))
	perChain := make([][]float64, len(chains))
	for c, id := range chains {
		perChain[c] = make([]float64, len(byChain[id]))
	}
	for p := 0; p < d; p++ {
		for i, dr := range draws {
			pooled[i] = dr.Values[p]
		}
		for c, id := range chains {
			for t, i := range byChain[id] {
				perChain[c][t] = draws[i].Values[p]
			}
		}
		s.Params[p] = summarize(names[p], pooled, perChain)
	}

	return s, nil
}

// summarize fills one ParamSummary; pooled is reordered.
func summarize(name string, pooled []float64, perChain [][]float64) ParamSummary {
	ps := ParamSummary{Name: name, SD: math.NaN(), ChainMeans: make([]float64, len(perChain))}
	if len(pooled) > 1 {
		ps.Mean, ps.SD = stat.MeanStdDev(pooled, nil)
	} else {
		ps.Mean = pooled[0]
	}
	sort.Float64s(pooled)
	ps.Q025 = stat.Quantile(0.025, stat.Empirical, pooled, nil)
	ps.Q50 = stat.Quantile(0.5, stat.Empirical, pooled, nil)
	ps.Q975 = stat.Quantile(0.975, stat.Empirical, pooled, nil)
	for c, xs := range perChain {
		ps.ChainMeans[c] = stat.Mean(xs, nil)
	}
	ps.RHat = RHat(perChain)

	return ps
}

// RHat returns the Gelman–Rubin potential scale reduction of per-chain draws
// of one coordinate. Chains are truncated to the shortest one.
//
//	W = mean within-chain variance, B/n = variance of chain means
//	R-hat = sqrt(((n−1)/n·W + B/n) / W)
//
// It returns NaN for fewer than two chains, chains shorter than two draws, or
// W == 0.
func RHat(chains [][]float64) float64 {
	m := len(chains)
	if m < 2 {
		return math.NaN()
	}
	n := len(chains[0])
	for _, c := range chains[1:] {
		if len(c) < n {
			n = len(c)
		}
	}
	if n < 2 {
		return math.NaN()
	}
	means := make([]float64, m)
	var w float64
	for i, c := range chains {
		mu, v := stat.MeanVariance(c[:n], nil)
		means[i] = mu
		w += v
	}
	w /= float64(m)
	if w == 0 {
		return math.NaN()
	}
	bOverN := stat.Variance(means, nil)
	nf := float64(n)

	return math.Sqrt(((nf-1)/nf*w + bOverN) / w)
}
