// SPDX-License-Identifier: MIT

package posterior_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/misclass/model"
	"github.com/katalvlaran/misclass/posterior"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizePooled(t *testing.T) {
	draws := []posterior.Draw{
		{Chain: 1, Iteration: 5, Values: []float64{3, 10}},
		{Chain: 0, Iteration: 5, Values: []float64{1, 10}},
		{Chain: 0, Iteration: 6, Values: []float64{2, 10}},
		{Chain: 1, Iteration: 6, Values: []float64{4, 10}},
	}
	s, err := posterior.Summarize([]string{"a", "b"}, draws)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, s.Chains)
	assert.Equal(t, 4, s.Draws)

	a, ok := s.Lookup("a")
	require.True(t, ok)
	assert.InDelta(t, 2.5, a.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), a.SD, 1e-12)
	assert.Equal(t, []float64{1.5, 3.5}, a.ChainMeans)
	assert.Equal(t, 1.0, a.Q025)
	assert.Equal(t, 4.0, a.Q975)
	assert.LessOrEqual(t, a.Q025, a.Q50)
	assert.LessOrEqual(t, a.Q50, a.Q975)
	assert.Greater(t, a.RHat, 1.0)

	b, ok := s.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 0.0, b.SD)
	assert.True(t, math.IsNaN(b.RHat), "zero within-chain variance")

	assert.Equal(t, []float64{2.5, 10}, s.Means())
	_, ok = s.Lookup("c")
	assert.False(t, ok)

	// Input draws are not reordered.
	assert.Equal(t, 3.0, draws[0].Values[0])
}

func TestRHat(t *testing.T) {
	same := [][]float64{{1, 2, 3, 4}, {1, 2, 3, 4}}
	assert.InDelta(t, math.Sqrt(0.75), posterior.RHat(same), 1e-12)

	apart := [][]float64{{0, 1, 0, 1}, {10, 11, 10, 11}}
	assert.Greater(t, posterior.RHat(apart), 5.0)

	assert.True(t, math.IsNaN(posterior.RHat([][]float64{{1, 2}})))
	assert.True(t, math.IsNaN(posterior.RHat([][]float64{{1}, {2, 3}})))
}

func TestSummarizeSingleDraw(t *testing.T) {
	s, err := posterior.Summarize([]string{"x"}, []posterior.Draw{{Values: []float64{7}}})
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Params[0].Mean)
	assert.True(t, math.IsNaN(s.Params[0].SD))
	assert.Equal(t, 7.0, s.Params[0].Q50)
}

func TestSummarizeErrors(t *testing.T) {
	_, err := posterior.Summarize([]string{"x"}, nil)
	assert.ErrorIs(t, err, posterior.ErrEmptyPosterior)

	_, err = posterior.Summarize([]string{"x"}, []posterior.Draw{{Values: []float64{1, 2}}})
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}
