// SPDX-License-Identifier: MIT

package likelihood

import (
	"fmt"

	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/model"
)

// Evaluator caches, per observation and candidate true level, the three
// log-probability components of the joint term (true outcome, stage 1,
// stage 2). A coordinate update touches a single mechanism, so only that
// component needs recomputing before the mixture is re-summed.
//
// An Evaluator is owned by one goroutine (one chain); it is not safe for
// concurrent use.
type Evaluator struct {
	ds      *model.Dataset
	comp    [3][]float64 // [block][2*i+j]
	scratch []float64    // pending component for the last Try
	pending model.Block
	dirty   bool
}

// NewEvaluator binds an evaluator to ds and loads components for p.
// It returns the evaluator and the log-likelihood at p.
//
// Errors: model.ErrShapeMismatch, model.ErrInvalidOutcome.
func NewEvaluator(ds *model.Dataset, p model.Params) (*Evaluator, float64, error) {
	if err := Check(ds, p); err != nil {
		return nil, 0, fmt.Errorf("likelihood: %w", err)
	}
	n := ds.N()
	e := &Evaluator{ds: ds, scratch: make([]float64, 2*n)}
	for b := range e.comp {
		e.comp[b] = make([]float64, 2*n)
	}

	return e, e.Reset(p), nil
}

// Reset recomputes every component from p and returns the log-likelihood.
// p must have the dataset's layout.
func (e *Evaluator) Reset(p model.Params) float64 {
	for b := model.BlockBeta; b <= model.BlockGamma2; b++ {
		e.fill(p, b, e.comp[b])
	}
	e.dirty = false

	return e.sum(model.BlockBeta, e.comp[model.BlockBeta])
}

// fill writes the component of block b under p into dst.
func (e *Evaluator) fill(p model.Params, b model.Block, dst []float64) {
	ds := e.ds
	for i := range ds.Obs1 {
		k := ds.Obs1[i].Index()
		switch b {
		case model.BlockBeta:
			dst[2*i], dst[2*i+1] = link.LogProbs(link.Eta(p.Beta, ds.X.Row(i)))
		case model.BlockGamma1:
			z1 := ds.Z1.Row(i)
			dst[2*i] = pick(link.Eta(p.Gamma1[0], z1), k)
			dst[2*i+1] = pick(link.Eta(p.Gamma1[1], z1), k)
		case model.BlockGamma2:
			l := ds.Obs2[i].Index()
			z2 := ds.Z2.Row(i)
			dst[2*i] = pick(link.Eta(p.Gamma2[k][0], z2), l)
			dst[2*i+1] = pick(link.Eta(p.Gamma2[k][1], z2), l)
		}
	}
}

// sum returns the log-likelihood with block b's component replaced by alt.
func (e *Evaluator) sum(b model.Block, alt []float64) float64 {
	var ll float64
	n := len(e.ds.Obs1)
	for i := 0; i < n; i++ {
		var a0, a1 float64
		for c := model.BlockBeta; c <= model.BlockGamma2; c++ {
			src := e.comp[c]
			if c == b {
				src = alt
			}
			a0 += src[2*i]
			a1 += src[2*i+1]
		}
		ll += logSumExp2(a0, a1)
	}

	return ll
}

// Try returns the log-likelihood under p, where p differs from the committed
// state only in block b. The recomputed component is held until Commit or
// the next Try.
func (e *Evaluator) Try(p model.Params, b model.Block) float64 {
	e.fill(p, b, e.scratch)
	e.pending = b
	e.dirty = true

	return e.sum(b, e.scratch)
}

// Commit makes the last Try the committed state. It is a no-op when no Try
// is pending.
func (e *Evaluator) Commit() {
	if !e.dirty {
		return
	}
	e.comp[e.pending], e.scratch = e.scratch, e.comp[e.pending]
	e.dirty = false
}
