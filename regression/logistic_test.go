// SPDX-License-Identifier: MIT

package regression_test

import (
	"testing"

	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/regression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xrand "golang.org/x/exp/rand"
)

// simulate draws n rows x ~ N(0,1) and y ~ Bernoulli(logistic(b0 + b1·x)).
func simulate(t *testing.T, n int, b0, b1 float64, seed uint64) (*matrix.Dense, []float64) {
	t.Helper()
	rng := xrand.New(xrand.NewSource(seed))
	rows := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x := rng.NormFloat64()
		rows[i] = []float64{x}
		if rng.Float64() < link.Logistic(b0+b1*x) {
			y[i] = 1
		}
	}
	X, err := matrix.Design(rows)
	require.NoError(t, err)

	return X, y
}

func ones(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}

	return w
}

func TestLogistic_RecoversCoefficients(t *testing.T) {
	X, y := simulate(t, 5000, 0.5, -1.5, 7)
	res, err := regression.Logistic(X, y, ones(len(y)), nil)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 0.5, res.Coef[0], 0.15)
	assert.InDelta(t, -1.5, res.Coef[1], 0.15)

	se := res.StdErrors()
	require.Len(t, se, 2)
	assert.Greater(t, se[1], 0.0)
	assert.Less(t, se[1], 0.1)
}

// A fractional response with unit weight equals the same row duplicated with
// weights y and 1−y on responses 1 and 0: that is how EM feeds responsibilities.
func TestLogistic_FractionalEqualsWeightedDuplicates(t *testing.T) {
	rows := [][]float64{{-1}, {0}, {0.5}, {1.5}, {2}, {-2}}
	frac := []float64{0.2, 0.6, 0.3, 0.9, 0.7, 0.1}
	X, err := matrix.Design(rows)
	require.NoError(t, err)
	a, err := regression.Logistic(X, frac, ones(len(frac)), nil)
	require.NoError(t, err)

	dupRows := append(append([][]float64{}, rows...), rows...)
	Xd, err := matrix.Design(dupRows)
	require.NoError(t, err)
	yd := make([]float64, 2*len(rows))
	wd := make([]float64, 2*len(rows))
	for i := range rows {
		yd[i], wd[i] = 1, frac[i]
		yd[len(rows)+i], wd[len(rows)+i] = 0, 1-frac[i]
	}
	b, err := regression.Logistic(Xd, yd, wd, nil)
	require.NoError(t, err)

	assert.InDeltaSlice(t, a.Coef, b.Coef, 1e-8)
	assert.InDelta(t, a.LogLik, b.LogLik, 1e-8)
}

func TestLogistic_WarmStartAndCap(t *testing.T) {
	X, y := simulate(t, 500, -0.3, 0.8, 11)
	full, err := regression.Logistic(X, y, ones(len(y)), nil)
	require.NoError(t, err)

	warm, err := regression.Logistic(X, y, ones(len(y)), full.Coef)
	require.NoError(t, err)
	assert.True(t, warm.Converged)
	assert.LessOrEqual(t, warm.Iterations, 2)

	capped, err := regression.Logistic(X, y, ones(len(y)), nil, regression.WithMaxIterations(1), regression.WithTolerance(1e-14))
	require.NoError(t, err)
	assert.False(t, capped.Converged)
	assert.Equal(t, 1, capped.Iterations)
}

func TestLogistic_SingularDesign(t *testing.T) {
	// All weights zero: the information matrix vanishes.
	X, y := simulate(t, 20, 0, 1, 3)
	_, err := regression.Logistic(X, y, make([]float64, 20), nil)
	assert.ErrorIs(t, err, regression.ErrSingularDesign)
	assert.ErrorIs(t, err, matrix.ErrSingular)

	// Perfectly collinear covariate columns.
	rows := make([][]float64, 10)
	yy := make([]float64, 10)
	for i := range rows {
		v := float64(i) / 3
		rows[i] = []float64{v, 2 * v}
		yy[i] = float64(i % 2)
	}
	Xc, err := matrix.Design(rows)
	require.NoError(t, err)
	_, err = regression.Logistic(Xc, yy, ones(10), nil)
	assert.ErrorIs(t, err, regression.ErrSingularDesign)
}

func TestLogistic_InvalidInput(t *testing.T) {
	X, y := simulate(t, 5, 0, 1, 1)
	_, err := regression.Logistic(X, y[:4], ones(5), nil)
	assert.ErrorIs(t, err, regression.ErrInvalidInput)

	bad := append([]float64(nil), y...)
	bad[0] = 1.5
	_, err = regression.Logistic(X, bad, ones(5), nil)
	assert.ErrorIs(t, err, regression.ErrInvalidInput)

	w := ones(5)
	w[2] = -1
	_, err = regression.Logistic(X, y, w, nil)
	assert.ErrorIs(t, err, regression.ErrInvalidInput)

	_, err = regression.Logistic(X, y, ones(5), []float64{1})
	assert.ErrorIs(t, err, regression.ErrInvalidInput)
}

func TestOptionsPanic(t *testing.T) {
	assert.Panics(t, func() { regression.WithTolerance(0) })
	assert.Panics(t, func() { regression.WithMaxIterations(0) })
}
