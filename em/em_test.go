// SPDX-License-Identifier: MIT

package em_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/misclass/em"
	"github.com/katalvlaran/misclass/labelswitch"
	"github.com/katalvlaran/misclass/likelihood"
	"github.com/katalvlaran/misclass/model"
	"github.com/katalvlaran/misclass/regression"
	"github.com/katalvlaran/misclass/simulate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cov = simulate.Covariates{
	XMean:   []float64{0},
	XSigma:  []float64{1},
	Z1Shape: []float64{1},
	Z2Shape: []float64{1},
}

func truth() model.Params {
	return model.Params{
		Beta:   []float64{1, -2},
		Gamma1: [2][]float64{{0.5, 1}, {-0.5, -1}},
		Gamma2: [2][2][]float64{{{1.5, 1}, {-0.5, 0}}, {{0.5, 0.5}, {-1, -1}}},
	}
}

// rough is an informative but uncalibrated starting point.
func rough() model.Params {
	return model.Params{
		Beta:   []float64{0, 0},
		Gamma1: [2][]float64{{1, 0}, {-1, 0}},
		Gamma2: [2][2][]float64{{{1, 0}, {-1, 0}}, {{1, 0}, {-1, 0}}},
	}
}

func generate(t *testing.T, n int, seed int64) *model.Dataset {
	t.Helper()
	ds, err := simulate.Generate(n, cov, truth(), simulate.WithSeed(seed))
	require.NoError(t, err)

	return ds
}

func TestFitRecoversTruthLargeSample(t *testing.T) {
	if testing.Short() {
		t.Skip("large sample")
	}
	ds := generate(t, 10000, 2)
	res, err := em.Fit(context.Background(), ds, truth())
	require.NoError(t, err)
	require.NotEqual(t, em.Canceled, res.State)

	want := truth()
	assert.InDeltaSlice(t, want.Beta, res.Params.Beta, 0.3)
	for j := 0; j < 2; j++ {
		assert.InDeltaSlice(t, want.Gamma1[j], res.Params.Gamma1[j], 0.6, "gamma1[%d]", j)
		for k := 0; k < 2; k++ {
			assert.InDeltaSlice(t, want.Gamma2[k][j], res.Params.Gamma2[k][j], 1.0, "gamma2[%d][%d]", k, j)
		}
	}
	assert.Greater(t, res.Stage1.Youden(), 0.0)
}

func TestFitLogLikNonDecreasing(t *testing.T) {
	ds := generate(t, 1000, 123)
	res, err := em.Fit(context.Background(), ds, rough(), em.WithTrace(true), em.WithStandardErrors(false))
	require.NoError(t, err)
	require.Len(t, res.Trace, res.Iterations+1)
	for i := 1; i < len(res.Trace); i++ {
		assert.GreaterOrEqual(t, res.Trace[i], res.Trace[i-1]-1e-6, "iteration %d", i)
	}
	ll, err := likelihood.LogLik(ds, res.Params)
	require.NoError(t, err)
	assert.InDelta(t, ll, res.LogLik, 1e-9)
	assert.Equal(t, res.Trace[len(res.Trace)-1], res.LogLik)
}

// End-to-end: n=1000, seed 123, both slope coefficients within 0.3.
func TestFitEndToEnd(t *testing.T) {
	ds := generate(t, 1000, 123)
	res, err := em.Fit(context.Background(), ds, rough())
	require.NoError(t, err)
	require.True(t, res.State.Terminal())

	for i, want := range truth().Beta {
		assert.False(t, math.IsNaN(res.StdErrors[i]), "beta[%d] standard error", i)
		assert.InDelta(t, want, res.Params.Beta[i], 0.3, "beta[%d]", i)
	}
	e, ok := res.Lookup("beta[1]")
	require.True(t, ok)
	assert.Equal(t, res.Params.Beta[1], e.Value)
	assert.Len(t, res.Estimates, ds.Layout().Dim())
}

func TestFitMaxIterations(t *testing.T) {
	ds := generate(t, 300, 4)
	res, err := em.Fit(context.Background(), ds, rough(),
		em.WithMaxIterations(2), em.WithTolerance(1e-12), em.WithTrace(true), em.WithStandardErrors(false))
	require.NoError(t, err)
	assert.Equal(t, em.MaxIterationsReached, res.State)
	assert.False(t, res.Converged)
	assert.Equal(t, 2, res.Iterations)
	assert.ErrorIs(t, res.Warning(), em.ErrMaxIterationsReached)
	assert.NotContains(t, res.Warning().Error(), "NaN")
	assert.NoError(t, res.Params.Validate(ds.Layout()))
	for _, se := range res.StdErrors {
		assert.True(t, math.IsNaN(se))
	}
}

// Without a trace the warning still carries the final log-likelihood change.
func TestFitMaxIterationsWithoutTrace(t *testing.T) {
	ds := generate(t, 300, 4)
	res, err := em.Fit(context.Background(), ds, rough(),
		em.WithMaxIterations(3), em.WithTolerance(1e-12), em.WithStandardErrors(false))
	require.NoError(t, err)
	require.Nil(t, res.Trace)
	require.ErrorIs(t, res.Warning(), em.ErrMaxIterationsReached)
	assert.NotContains(t, res.Warning().Error(), "NaN")
	assert.Contains(t, res.Warning().Error(), "last change")
}

// One Newton step per M-step regression never meets a 1e-14 tolerance, so
// every inner fit is counted as unconverged while EM itself carries on.
func TestFitCountsUnconvergedInnerFits(t *testing.T) {
	ds := generate(t, 300, 8)
	res, err := em.Fit(context.Background(), ds, rough(),
		em.WithMaxIterations(2), em.WithTolerance(1e-12), em.WithInnerMaxIterations(1), em.WithInnerTolerance(1e-14),
		em.WithStandardErrors(false))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Iterations)
	// beta, two gamma1 blocks and four gamma2 blocks per iteration.
	assert.Equal(t, 2*7, res.InnerUnconverged)
}

func TestFitCanceled(t *testing.T) {
	ds := generate(t, 200, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := em.Fit(ctx, ds, rough(), em.WithStandardErrors(false))
	require.NoError(t, err)
	assert.Equal(t, em.Canceled, res.State)
	assert.Equal(t, 0, res.Iterations)
	assert.ErrorIs(t, res.Warning(), context.Canceled)
	assert.True(t, res.Params.Equal(rough()))
}

func TestFitShapeMismatch(t *testing.T) {
	ds := generate(t, 50, 6)
	bad := rough()
	bad.Beta = []float64{0, 0, 0}
	res, err := em.Fit(context.Background(), ds, bad)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

// With every first-stage proxy at level 1 the gamma2 stratum for Y*1=2 has
// no observations, so its weighted regression is singular.
func TestFitSingularStratum(t *testing.T) {
	n := 40
	obs1 := make([]model.Level, n)
	obs2 := make([]model.Level, n)
	x := make([][]float64, n)
	z := make([][]float64, n)
	for i := 0; i < n; i++ {
		obs1[i] = model.Level1
		obs2[i] = model.Level(1 + i%2)
		x[i] = []float64{float64(i%7) - 3}
		z[i] = []float64{float64(i%5) / 2}
	}
	ds, err := model.NewDataset(obs1, obs2, x, z, z)
	require.NoError(t, err)

	_, err = em.Fit(context.Background(), ds, rough(), em.WithInnerMaxIterations(5))
	require.Error(t, err)
	var ie *em.IterationError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 1, ie.Iteration)
	assert.Equal(t, "gamma2[2,1]", ie.Block)
	assert.ErrorIs(t, err, regression.ErrSingularDesign)
}

func TestFitMultiStart(t *testing.T) {
	ds := generate(t, 1000, 123)
	starts := []model.Params{rough(), labelswitch.Swap(rough()), truth()}
	mr, err := em.FitMultiStart(context.Background(), ds, starts, em.WithStandardErrors(false))
	require.NoError(t, err)
	require.Len(t, mr.Results, 3)
	best := mr.BestResult()
	for _, r := range mr.Results {
		assert.LessOrEqual(t, r.LogLik, best.LogLik)
	}
	// Whatever orientation a start had, the corrector returns the canonical one.
	assert.Greater(t, best.Stage1.Youden(), 0.0)
	assert.Less(t, best.Params.Beta[1], 0.0)

	_, err = em.FitMultiStart(context.Background(), ds, nil)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "converged", em.Converged.String())
	assert.Equal(t, "max-iterations", em.MaxIterationsReached.String())
	assert.True(t, em.Canceled.Terminal())
	assert.False(t, em.Iterating.Terminal())
}

func TestOptionsPanic(t *testing.T) {
	assert.Panics(t, func() { em.WithTolerance(0) })
	assert.Panics(t, func() { em.WithRelativeTolerance(-1) })
	assert.Panics(t, func() { em.WithMaxIterations(0) })
	assert.Panics(t, func() { em.WithLogger(nil) })
	assert.Panics(t, func() { em.WithInnerMaxIterations(0) })
}

func TestJitteredStarts(t *testing.T) {
	starts := em.JitteredStarts(truth(), 3, 0.5, 9)
	require.Len(t, starts, 3)
	assert.True(t, starts[0].Equal(truth()))
	assert.False(t, starts[1].Equal(truth()))
	assert.False(t, starts[1].Equal(starts[2]))
	assert.Equal(t, starts, em.JitteredStarts(truth(), 3, 0.5, 9))
	assert.Nil(t, em.JitteredStarts(truth(), 0, 0.5, 9))
}
