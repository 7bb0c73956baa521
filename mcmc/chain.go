// SPDX-License-Identifier: MIT

package mcmc

import (
	"context"
	"math"

	"github.com/katalvlaran/misclass/labelswitch"
	"github.com/katalvlaran/misclass/likelihood"
	"github.com/katalvlaran/misclass/model"
	"github.com/katalvlaran/misclass/posterior"
	xrand "golang.org/x/exp/rand"
)

// walker is one random-walk Metropolis state over a box-bounded space.
type walker struct {
	v        []float64
	lo, hi   []float64
	step     []float64
	accepted []int // post burn-in accepts per coordinate
	proposed int   // post burn-in sweeps
}

func newWalker(start, lo, hi, step []float64) *walker {
	return &walker{
		v:        append([]float64(nil), start...),
		lo:       lo,
		hi:       hi,
		step:     step,
		accepted: make([]int, len(start)),
	}
}

// update proposes coordinate i and reports acceptance. try evaluates the log
// target with v[i] already set to the proposal; commit is called on accept.
func (w *walker) update(rng *xrand.Rand, i int, ll float64, try func() float64, commit func()) (float64, bool) {
	old := w.v[i]
	prop := old + w.step[i]*rng.NormFloat64()
	if !(prop > w.lo[i] && prop < w.hi[i]) {
		return ll, false
	}
	w.v[i] = prop
	next := try()
	if math.Log(rng.Float64()) < next-ll {
		if commit != nil {
			commit()
		}

		return next, true
	}
	w.v[i] = old

	return ll, false
}

// adapt moves log step[i] toward the target acceptance (Robbins–Monro,
// gain (t+1)^-0.6) and clamps the step to [minStep, width of the support].
func (w *walker) adapt(i, t int, accepted bool) {
	a := 0.0
	if accepted {
		a = 1
	}
	gain := math.Pow(float64(t+1), -0.6)
	s := w.step[i] * math.Exp(gain*(a-targetAcceptance))
	w.step[i] = math.Min(math.Max(s, minStep), w.hi[i]-w.lo[i])
}

func (w *walker) rates() []float64 {
	out := make([]float64, len(w.accepted))
	if w.proposed == 0 {
		return out
	}
	for i, a := range w.accepted {
		out[i] = float64(a) / float64(w.proposed)
	}

	return out
}

// chainOutput is what one chain hands back to Run.
type chainOutput struct {
	draws      []posterior.Draw
	naive      []posterior.Draw
	acceptance []float64
	naiveAcc   []float64
	swaps      int
	stopped    bool
}

// chain is one self-contained sampler. Nothing in it is shared with another
// chain; ds is read-only.
type chain struct {
	id     int
	ds     *model.Dataset
	layout model.Layout
	prior  model.Prior
	opts   Options
	rng    *xrand.Rand
}

func (c *chain) run(ctx context.Context, start model.Params, lo, hi []float64) (*chainOutput, error) {
	l := c.layout
	steps := make([]float64, l.Dim())
	for i := range steps {
		steps[i] = c.opts.step[l.Block(i)]
	}
	w := newWalker(l.Flatten(start), lo, hi, steps)
	p, err := l.Bind(w.v)
	if err != nil {
		return nil, err
	}
	ev, ll, err := likelihood.NewEvaluator(c.ds, p)
	if err != nil {
		return nil, err
	}
	refV := append([]float64(nil), w.v...)
	ref, _ := l.Bind(refV)

	var (
		nw  *walker
		nll float64
	)
	if c.opts.naive {
		nsteps := append([]float64(nil), steps[:l.Px]...)
		nw = newWalker(start.Beta, lo[:l.Px], hi[:l.Px], nsteps)
		if nll, err = likelihood.NaiveLogLik(c.ds, nw.v); err != nil {
			return nil, err
		}
	}

	out := &chainOutput{}
	retain := (c.opts.samples - c.opts.burnIn + c.opts.thin - 1) / c.opts.thin
	out.draws = make([]posterior.Draw, 0, retain)
	if nw != nil {
		out.naive = make([]posterior.Draw, 0, retain)
	}
	var block model.Block
	tryFull := func() float64 { return ev.Try(p, block) }
	tryNaive := func() float64 { return naiveLL(c.ds, nw.v) }

	for t := 0; t < c.opts.samples; t++ {
		if ctx.Err() != nil {
			out.stopped = true
			break
		}
		burning := t < c.opts.burnIn
		if !burning {
			w.proposed++
		}
		for i := range w.v {
			block = l.Block(i)
			var ok bool
			ll, ok = w.update(c.rng, i, ll, tryFull, ev.Commit)
			if burning && c.opts.adapt {
				w.adapt(i, t, ok)
			} else if ok && !burning {
				w.accepted[i]++
			}
		}
		if nw != nil {
			if !burning {
				nw.proposed++
			}
			for i := range nw.v {
				var ok bool
				nll, ok = nw.update(c.rng, i, nll, tryNaive, nil)
				if burning && c.opts.adapt {
					nw.adapt(i, t, ok)
				} else if ok && !burning {
					nw.accepted[i]++
				}
			}
		}

		if c.relabel(p, ref) {
			ll = ev.Reset(p)
			out.swaps++
		}
		copy(refV, w.v)

		if !burning && (t-c.opts.burnIn)%c.opts.thin == 0 {
			out.draws = append(out.draws, posterior.Draw{Chain: c.id, Iteration: t, Values: append([]float64(nil), w.v...)})
			if nw != nil {
				out.naive = append(out.naive, posterior.Draw{Chain: c.id, Iteration: t, Values: append([]float64(nil), nw.v...)})
			}
		}
	}

	out.acceptance = w.rates()
	if nw != nil {
		out.naiveAcc = nw.rates()
	}

	return out, nil
}

// relabel applies the label corrector to the bound state p in place, keeping
// the relabeling only when it stays inside the prior support.
func (c *chain) relabel(p, ref model.Params) bool {
	swap, err := labelswitch.NeedsSwap(p, ref, c.ds.Z1)
	if err != nil || !swap {
		return false
	}
	if !c.prior.Contains(c.layout, labelswitch.Swap(p)) {
		return false
	}
	labelswitch.SwapInPlace(&p)

	return true
}

// naiveLL is the naive log-likelihood on validated inputs.
func naiveLL(ds *model.Dataset, beta []float64) float64 {
	ll, err := likelihood.NaiveLogLik(ds, beta)
	if err != nil {
		return math.Inf(-1)
	}

	return ll
}
