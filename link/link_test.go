// SPDX-License-Identifier: MIT

package link_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

func design(t *testing.T, rows ...[]float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.Design(rows)
	require.NoError(t, err)

	return d
}

func TestLogisticStability(t *testing.T) {
	for _, eta := range []float64{-1000, -40, -1, 0, 1, 40, 1000} {
		p := link.Logistic(eta)
		assert.False(t, math.IsNaN(p), "eta=%g", eta)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)

		l1, l2 := link.LogProbs(eta)
		assert.False(t, math.IsInf(l1, 0) || math.IsNaN(l1), "eta=%g", eta)
		assert.False(t, math.IsInf(l2, 0) || math.IsNaN(l2), "eta=%g", eta)
		// exp(l1)+exp(l2) == 1
		assert.InDelta(t, 1.0, math.Exp(l1)+math.Exp(l2), 1e-12, "eta=%g", eta)
	}
	assert.Equal(t, 0.5, link.Logistic(0))
	assert.InDelta(t, -1000.0, func() float64 { l, _ := link.LogProbs(-1000); return l }(), 1e-9)
	assert.InDelta(t, math.Log(2), link.Softplus(0), tol)
}

func TestDistribution(t *testing.T) {
	d, err := link.Distribution([]float64{1, -2}, []float64{1, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d[0], tol)
	assert.InDelta(t, 1.0, d[0]+d[1], tol)

	_, err = link.Distribution([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func TestTablesSumToOne(t *testing.T) {
	Z := design(t, []float64{0.3}, []float64{2.5}, []float64{-40})
	g1 := [2][]float64{{0.5, 1}, {-0.5, -1}}
	g2 := [2][2][]float64{{{1.5, 1}, {-0.5, 0}}, {{0.5, 0.5}, {-1, -1}}}

	t1, err := link.Stage1Table(g1, Z)
	require.NoError(t, err)
	require.Len(t, t1.Entries, 12)
	for _, j := range model.Levels {
		a, err := t1.Select(j, model.Level1)
		require.NoError(t, err)
		b, err := t1.Select(j, model.Level2)
		require.NoError(t, err)
		for i := range a {
			assert.InDelta(t, 1.0, a[i]+b[i], tol)
		}
	}

	t2, err := link.Stage2Table(g2, Z)
	require.NoError(t, err)
	require.Len(t, t2.Entries, 24)
	for _, j := range model.Levels {
		for _, k := range model.Levels {
			a, err := t2.Select(j, k, model.Level1)
			require.NoError(t, err)
			b, err := t2.Select(j, k, model.Level2)
			require.NoError(t, err)
			for i := range a {
				assert.InDelta(t, 1.0, a[i]+b[i], tol)
			}
		}
	}

	// Entry positions follow (row, True, Stage1, Stage2) order.
	e := t2.Entries[8+2*1+1] // row 1, True=1, Stage1=2, Stage2=2
	assert.Equal(t, link.Entry{Row: 1, True: 1, Stage1: 2, Stage2: 2, Prob: e.Prob}, e)
	assert.InDelta(t, 1-link.Logistic(0.5+0.5*2.5), e.Prob, tol)

	to, err := link.TrueOutcomeTable([]float64{1, -2}, Z)
	require.NoError(t, err)
	p1, err := to.Select(model.Level1)
	require.NoError(t, err)
	assert.InDelta(t, link.Logistic(1-0.6), p1[0], tol)
}

func TestTableErrors(t *testing.T) {
	Z := design(t, []float64{1})
	_, err := link.Stage1Table([2][]float64{{1}, {1, 2}}, Z)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)

	t1, err := link.Stage1Table([2][]float64{{1, 1}, {1, 2}}, Z)
	require.NoError(t, err)
	_, err = t1.Select(model.Level1)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
	_, err = t1.Select(model.Level1, model.Level(7))
	assert.ErrorIs(t, err, model.ErrInvalidOutcome)

	_, err = link.TrueOutcomeTable([]float64{1}, nil)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func TestAccuracy(t *testing.T) {
	Z := design(t, []float64{}, []float64{})
	acc, err := link.Stage1Accuracy([2][]float64{{2}, {-3}}, Z)
	require.NoError(t, err)
	assert.InDelta(t, link.Logistic(2), acc.Sensitivity, tol)
	assert.InDelta(t, 1-link.Logistic(-3), acc.Specificity, tol)
	assert.Greater(t, acc.Youden(), 0.0)

	flipped, err := link.Stage1Accuracy([2][]float64{{-3}, {2}}, Z)
	require.NoError(t, err)
	assert.Less(t, flipped.Youden(), 0.0)

	acc2, err := link.Stage2Accuracy([2][2][]float64{{{1}, {-1}}, {{0}, {0}}}, Z)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, acc2[1].Youden(), tol)
	assert.Greater(t, acc2[0].Youden(), 0.0)
}
