// SPDX-License-Identifier: MIT

package mcmc

import (
	"context"
	"fmt"

	"github.com/katalvlaran/misclass/likelihood"
	"github.com/katalvlaran/misclass/model"
	"github.com/katalvlaran/misclass/posterior"
	xrand "golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Draw is one retained chain state; Values follow model.Layout order.
type Draw = posterior.Draw

// Result holds the retained draws of every chain and their summaries.
type Result struct {
	// Names label the coordinates of Draws (model.Layout.Names).
	Names []string
	// Draws are ordered by chain, then iteration.
	Draws []Draw
	// Summary pools Draws; nil when a stopped run retained nothing.
	Summary *posterior.Summary

	// NaiveNames, NaiveDraws and NaiveSummary describe the beta-only model of
	// P(Y*1=1|x); empty when the naive model is disabled.
	NaiveNames   []string
	NaiveDraws   []Draw
	NaiveSummary *posterior.Summary

	// Acceptance[c][i] is chain c's post burn-in acceptance rate of
	// coordinate i; NaiveAcceptance likewise for the naive model.
	Acceptance      [][]float64
	NaiveAcceptance [][]float64
	// Swaps[c] counts sweeps of chain c whose state was relabeled.
	Swaps []int
	// Stopped reports that cancellation ended at least one chain early.
	Stopped bool

	warning error
}

// Warning returns nil for a complete run, or an error wrapping the context's
// error when the run was stopped early.
func (r *Result) Warning() error { return r.warning }

// ChainAcceptance returns the mean post burn-in acceptance rate of chain c.
func (r *Result) ChainAcceptance(c int) float64 {
	var s float64
	for _, a := range r.Acceptance[c] {
		s += a
	}

	return s / float64(len(r.Acceptance[c]))
}

// Run samples the posterior of ds under prior, starting every chain at start.
//
// Implementation:
//   - Stage 1: validate shapes, prior, start ∈ support and burn-in < samples
//     before any sampling.
//   - Stage 2: draw one seed per chain from the master stream; run chains
//     concurrently, each writing only its own output slot.
//   - Stage 3: concatenate draws in chain order and summarize.
//
// Errors:
//   - model.ErrShapeMismatch, model.ErrInvalidOutcome for malformed input.
//   - model.ErrInvalidPrior for a malformed prior or a start outside it.
//   - posterior.ErrEmptyPosterior when burn-in >= samples.
func Run(ctx context.Context, ds *model.Dataset, start model.Params, prior model.Prior, opts ...Option) (*Result, error) {
	if err := likelihood.Check(ds, start); err != nil {
		return nil, fmt.Errorf("mcmc: %w", err)
	}
	l := ds.Layout()
	if err := prior.Validate(l); err != nil {
		return nil, fmt.Errorf("mcmc: %w", err)
	}
	if !prior.Contains(l, start) {
		return nil, fmt.Errorf("mcmc: start outside prior support: %w", model.ErrInvalidPrior)
	}
	o := gatherOptions(opts...)
	if o.burnIn >= o.samples {
		return nil, fmt.Errorf("mcmc: burn-in %d >= samples %d: %w", o.burnIn, o.samples, posterior.ErrEmptyPosterior)
	}
	lo, hi := prior.Flatten(l)

	master := xrand.New(xrand.NewSource(uint64(o.seed)))
	outs := make([]*chainOutput, o.chains)
	g, gctx := errgroup.WithContext(ctx)
	for c := 0; c < o.chains; c++ {
		ch := &chain{
			id:     c,
			ds:     ds,
			layout: l,
			prior:  prior,
			opts:   o,
			rng:    xrand.New(xrand.NewSource(master.Uint64())),
		}
		g.Go(func() error {
			log := o.logger.With("chain", ch.id)
			log.Debug("mcmc chain starting", "samples", o.samples, "burn_in", o.burnIn)
			out, err := ch.run(gctx, start, lo, hi)
			if err != nil {
				return fmt.Errorf("mcmc: chain %d: %w", ch.id, err)
			}
			outs[ch.id] = out
			log.Info("mcmc chain finished", "draws", len(out.draws), "swaps", out.swaps, "stopped", out.stopped)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Names: l.Names(), Swaps: make([]int, o.chains)}
	if o.naive {
		res.NaiveNames = append([]string(nil), res.Names[:l.Px]...)
	}
	for c, out := range outs {
		res.Draws = append(res.Draws, out.draws...)
		res.NaiveDraws = append(res.NaiveDraws, out.naive...)
		res.Acceptance = append(res.Acceptance, out.acceptance)
		if o.naive {
			res.NaiveAcceptance = append(res.NaiveAcceptance, out.naiveAcc)
		}
		res.Swaps[c] = out.swaps
		res.Stopped = res.Stopped || out.stopped
	}
	if res.Stopped {
		res.warning = fmt.Errorf("mcmc: stopped early with %d draws: %w", len(res.Draws), context.Cause(ctx))
	}
	if len(res.Draws) == 0 {
		return res, nil
	}

	var err error
	if res.Summary, err = posterior.Summarize(res.Names, res.Draws); err != nil {
		return nil, fmt.Errorf("mcmc: %w", err)
	}
	if o.naive {
		if res.NaiveSummary, err = posterior.Summarize(res.NaiveNames, res.NaiveDraws); err != nil {
			return nil, fmt.Errorf("mcmc: naive: %w", err)
		}
	}

	return res, nil
}
