// SPDX-License-Identifier: MIT

package em

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/misclass/labelswitch"
	"github.com/katalvlaran/misclass/likelihood"
	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
	"github.com/katalvlaran/misclass/regression"
)

// Fit runs EM on ds from start.
//
// Implementation:
//   - Stage 1: validate ds and start against each other (fail fast).
//   - Stage 2: iterate E-step, M-step and label correction until the
//     log-likelihood change drops below tolerance, the cap is hit, or ctx is
//     done. ctx is checked once per iteration.
//   - Stage 3: accuracy summaries and standard errors at the estimate.
//
// Errors:
//   - model.ErrShapeMismatch, model.ErrInvalidOutcome for malformed input.
//   - *IterationError (wrapping regression.ErrSingularDesign) when an inner
//     regression cannot be solved.
//
// Non-convergence and cancellation are not errors: the best estimate is
// returned and Result.Warning() explains why it stopped.
func Fit(ctx context.Context, ds *model.Dataset, start model.Params, opts ...Option) (*Result, error) {
	if err := likelihood.Check(ds, start); err != nil {
		return nil, fmt.Errorf("em: %w", err)
	}
	o := gatherOptions(opts...)
	log := o.logger.With("n", ds.N(), "dim", ds.Layout().Dim())

	f := newFitter(ds, o, log)
	res := &Result{State: Initialized}
	current := start.Clone()
	resp, ll, err := likelihood.Responsibilities(ds, current)
	if err != nil {
		return nil, fmt.Errorf("em: %w", err)
	}
	if o.trace {
		res.Trace = append(res.Trace, ll)
	}
	res.State = Iterating

	delta := math.NaN()
	for res.State == Iterating {
		if err := ctx.Err(); err != nil {
			res.State = Canceled
			res.warning = fmt.Errorf("em: stopped after %d iterations: %w", res.Iterations, err)
			break
		}
		if res.Iterations == o.maxIter {
			res.State = MaxIterationsReached
			res.warning = fmt.Errorf("%w (%d iterations, last change %g)", ErrMaxIterationsReached, o.maxIter, delta)
			break
		}
		iter := res.Iterations + 1

		next, err := f.mstep(iter, resp, current)
		if err != nil {
			return nil, err
		}
		corrected, swapped, err := labelswitch.Correct(next, current, ds.Z1)
		if err != nil {
			return nil, &IterationError{Iteration: iter, Block: "labelswitch", Err: err}
		}
		if swapped {
			res.Swaps++
			log.Debug("em label corrected", "iter", iter)
		}
		current = corrected

		var newLL float64
		resp, newLL, err = likelihood.Responsibilities(ds, current)
		if err != nil {
			return nil, &IterationError{Iteration: iter, Block: "estep", Err: err}
		}
		delta = newLL - ll
		ll = newLL
		res.Iterations = iter
		if o.trace {
			res.Trace = append(res.Trace, ll)
		}
		log.Debug("em iteration", "iter", iter, "loglik", ll, "delta", delta)

		if math.Abs(delta) < o.tol || math.Abs(delta) < o.relTol*math.Abs(ll) {
			res.State = Converged
		}
	}

	res.Params = current
	res.LogLik = ll
	res.Converged = res.State == Converged
	res.InnerUnconverged = f.unconverged
	res.Stage1, _ = link.Stage1Accuracy(current.Gamma1, ds.Z1)
	res.Stage2, _ = link.Stage2Accuracy(current.Gamma2, ds.Z2)

	l := ds.Layout()
	res.StdErrors = nanSlice(l.Dim())
	if o.stdErrors {
		if se, err := StdErrors(ds, current); err != nil {
			log.Warn("em standard errors unavailable", "err", err)
		} else {
			res.StdErrors = se
		}
	}
	values := l.Flatten(current)
	for i, name := range l.Names() {
		res.Estimates = append(res.Estimates, Estimate{Name: name, Value: values[i], StdError: res.StdErrors[i]})
	}

	log.Info("em finished", "state", res.State.String(), "iterations", res.Iterations, "loglik", ll, "swaps", res.Swaps)

	return res, nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

// fitter holds the per-fit scratch of the M-step.
type fitter struct {
	ds      *model.Dataset
	log     *slog.Logger
	inner   []regression.Option
	ybeta   []float64 // fractional response for beta
	y1, y2  []float64 // 1{Y*1=1}, 1{Y*2=1}
	ones    []float64
	weights []float64
	// unconverged counts inner regressions stopped by their iteration cap.
	unconverged int
}

func newFitter(ds *model.Dataset, o Options, log *slog.Logger) *fitter {
	n := ds.N()
	f := &fitter{
		ds:      ds,
		log:     log,
		inner:   o.inner,
		ybeta:   make([]float64, n),
		y1:      make([]float64, n),
		y2:      make([]float64, n),
		ones:    make([]float64, n),
		weights: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		f.ones[i] = 1
		if ds.Obs1[i] == model.Level1 {
			f.y1[i] = 1
		}
		if ds.Obs2[i] == model.Level1 {
			f.y2[i] = 1
		}
	}

	return f
}

// fit runs one M-step regression. A fit stopped by its iteration cap is kept
// (its log-likelihood did not decrease) but counted and logged.
func (f *fitter) fit(iter int, block string, X *matrix.Dense, y, w, start []float64) ([]float64, error) {
	r, err := regression.Logistic(X, y, w, start, f.inner...)
	if err != nil {
		return nil, &IterationError{Iteration: iter, Block: block, Err: err}
	}
	if !r.Converged {
		f.unconverged++
		f.log.Warn("em inner regression did not converge", "iter", iter, "block", block, "steps", r.Iterations)
	}

	return r.Coef, nil
}

// mstep maximizes the expected complete-data log-likelihood block by block.
func (f *fitter) mstep(iter int, resp *matrix.Dense, cur model.Params) (model.Params, error) {
	ds := f.ds
	n := ds.N()
	var (
		next model.Params
		err  error
	)

	for i := 0; i < n; i++ {
		f.ybeta[i] = resp.Row(i)[0]
	}
	if next.Beta, err = f.fit(iter, "beta", ds.X, f.ybeta, f.ones, cur.Beta); err != nil {
		return next, err
	}

	for j := 0; j < 2; j++ {
		for i := 0; i < n; i++ {
			f.weights[i] = resp.Row(i)[j]
		}
		if next.Gamma1[j], err = f.fit(iter, fmt.Sprintf("gamma1[%d]", j+1), ds.Z1, f.y1, f.weights, cur.Gamma1[j]); err != nil {
			return next, err
		}

		for k := 0; k < 2; k++ {
			for i := 0; i < n; i++ {
				f.weights[i] = 0
				if ds.Obs1[i].Index() == k {
					f.weights[i] = resp.Row(i)[j]
				}
			}
			block := fmt.Sprintf("gamma2[%d,%d]", k+1, j+1)
			if next.Gamma2[k][j], err = f.fit(iter, block, ds.Z2, f.y2, f.weights, cur.Gamma2[k][j]); err != nil {
				return next, err
			}
		}
	}

	return next, nil
}
