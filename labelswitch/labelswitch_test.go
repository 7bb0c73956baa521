// SPDX-License-Identifier: MIT

package labelswitch_test

import (
	"testing"

	"github.com/katalvlaran/misclass/labelswitch"
	"github.com/katalvlaran/misclass/likelihood"
	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
	"github.com/katalvlaran/misclass/simulate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func truth() model.Params {
	return model.Params{
		Beta:   []float64{1, -2},
		Gamma1: [2][]float64{{0.5, 1}, {-0.5, -1}},
		Gamma2: [2][2][]float64{{{1.5, 1}, {-0.5, 0}}, {{0.5, 0.5}, {-1, -1}}},
	}
}

func z1(t *testing.T) *matrix.Dense {
	t.Helper()
	d, err := matrix.Design([][]float64{{0.2}, {1.5}, {0.7}, {3.1}})
	require.NoError(t, err)

	return d
}

func TestSwapIsInvolution(t *testing.T) {
	p := truth()
	s := labelswitch.Swap(p)
	assert.Equal(t, []float64{-1, 2}, s.Beta)
	assert.Equal(t, p.Gamma1[1], s.Gamma1[0])
	assert.Equal(t, p.Gamma2[1][0], s.Gamma2[1][1])
	assert.True(t, labelswitch.Swap(s).Equal(p))
	assert.True(t, truth().Equal(p), "input must not be modified")
}

func TestSwapInPlaceSeenThroughBind(t *testing.T) {
	l := model.Layout{Px: 2, Pz1: 2, Pz2: 2}
	v := l.Flatten(truth())
	p, err := l.Bind(v)
	require.NoError(t, err)
	labelswitch.SwapInPlace(&p)
	assert.Equal(t, l.Flatten(labelswitch.Swap(truth())), v)
}

func TestSwapPreservesLogLik(t *testing.T) {
	cov := simulate.Covariates{XMean: []float64{0}, XSigma: []float64{1}, Z1Shape: []float64{1}, Z2Shape: []float64{1}}
	ds, err := simulate.Generate(300, cov, truth(), simulate.WithSeed(3))
	require.NoError(t, err)

	a, err := likelihood.LogLik(ds, truth())
	require.NoError(t, err)
	b, err := likelihood.LogLik(ds, labelswitch.Swap(truth()))
	require.NoError(t, err)
	assert.InDelta(t, a, b, 1e-9)
}

func TestCorrectRestoresOrientation(t *testing.T) {
	d := z1(t)
	j, err := labelswitch.Youden(truth(), d)
	require.NoError(t, err)
	require.Greater(t, j, 0.0)

	got, swapped, err := labelswitch.Correct(labelswitch.Swap(truth()), truth(), d)
	require.NoError(t, err)
	assert.True(t, swapped)
	assert.True(t, got.Equal(truth()))

	got, swapped, err = labelswitch.Correct(truth(), labelswitch.Swap(truth()), d)
	require.NoError(t, err)
	assert.False(t, swapped, "an informative first stage overrides the reference")
	assert.True(t, got.Equal(truth()))
}

func TestCorrectUninformativeUsesReference(t *testing.T) {
	d := z1(t)
	p := truth()
	p.Gamma1 = [2][]float64{{0, 0}, {0, 0}}

	got, swapped, err := labelswitch.Correct(p, labelswitch.Swap(p), d)
	require.NoError(t, err)
	assert.True(t, swapped)
	assert.True(t, got.Equal(labelswitch.Swap(p)))

	got, swapped, err = labelswitch.Correct(p, p, d)
	require.NoError(t, err)
	assert.False(t, swapped)
	assert.True(t, got.Equal(p))
}

func TestCorrectIdempotent(t *testing.T) {
	d := z1(t)
	flat := truth()
	flat.Gamma1 = [2][]float64{{0, 0}, {0, 0}}
	tests := []struct {
		name     string
		cur, ref model.Params
	}{
		{"canonical", truth(), truth()},
		{"swapped", labelswitch.Swap(truth()), truth()},
		{"uninformative", flat, labelswitch.Swap(flat)},
		{"uninformative self", flat, flat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			once, _, err := labelswitch.Correct(tc.cur, tc.ref, d)
			require.NoError(t, err)
			twice, swapped, err := labelswitch.Correct(once, tc.ref, d)
			require.NoError(t, err)
			assert.False(t, swapped)
			assert.True(t, once.Equal(twice))
		})
	}
}

func TestCorrectShapeMismatch(t *testing.T) {
	p := truth()
	p.Gamma1[0] = []float64{1}
	_, _, err := labelswitch.Correct(p, truth(), z1(t))
	assert.ErrorIs(t, err, model.ErrShapeMismatch)

	flat := truth()
	flat.Gamma1 = [2][]float64{{0, 0}, {0, 0}}
	ref := truth()
	ref.Beta = []float64{1}
	_, _, err = labelswitch.Correct(flat, ref, z1(t))
	assert.ErrorIs(t, err, model.ErrShapeMismatch)

	assert.Panics(t, func() { labelswitch.WithTolerance(-1) })
}
