// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/misclass/config"
	"github.com/katalvlaran/misclass/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
seed: 123
data:
  n: 500
  z2Shape: []
truth:
  beta: [1, -2]
  gamma1: [[0.5, 1], [-0.5, -1]]
  gamma2: [[[1.5], [-0.5]], [[0.5], [-1]]]
em:
  maxIterations: 200
mcmc:
  chains: 2
  burnIn: 100
  prior: {lower: -5, upper: 5}
`

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, int64(123), cfg.Seed)
	assert.Equal(t, 500, cfg.Data.N)
	assert.Equal(t, []float64{0}, cfg.Data.XMean, "untouched keys keep defaults")
	assert.Empty(t, cfg.Data.Z2Shape)
	assert.Equal(t, 200, cfg.EM.MaxIterations)
	assert.Equal(t, config.Default().EM.Tolerance, cfg.EM.Tolerance)
	assert.Equal(t, 2, cfg.MCMC.Chains)
	assert.Equal(t, config.Default().MCMC.Samples, cfg.MCMC.Samples)

	l := cfg.Covariates().Layout()
	assert.Equal(t, model.Layout{Px: 2, Pz1: 2, Pz2: 1}, l)
	start, err := cfg.StartParams(l)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1}, start.Gamma2[1][1])

	prior, err := cfg.Prior(l)
	require.NoError(t, err)
	require.NoError(t, prior.Validate(l))
	assert.True(t, prior.Contains(l, start))
	assert.Len(t, cfg.EMOptions(), 3)
	assert.Len(t, cfg.MCMCOptions(), 8)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, config.Default().Validate())

	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := config.Parse([]byte(sample))
	require.NoError(t, err)
	start := config.SpecOf(model.Params{
		Beta:   []float64{0, 0},
		Gamma1: [2][]float64{{1, 0}, {-1, 0}},
		Gamma2: [2][2][]float64{{{1}, {-1}}, {{1}, {-1}}},
	})
	cfg.Start = &start

	data, err := cfg.Marshal()
	require.NoError(t, err)
	back, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Data.N)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "colour: red\n"},
		{"bad n", "data: {n: 0}\n"},
		{"burn-in consumes samples", "mcmc: {samples: 10, burnIn: 10}\n"},
		{"unordered prior", "mcmc: {prior: {lower: 1, upper: -1}}\n"},
		{"infinite tolerance", "em: {tolerance: .inf}\n"},
		{"truth shape", "truth: {beta: [1]}\n"},
		{"gamma2 rows", "truth: {gamma2: [[[1, 1]]]}\n"},
		{"start shape", "start: {beta: [1, 2], gamma1: [[1]], gamma2: []}\n"},
		{"syntax", "seed: [\n"},
		{"unordered cells", cellPrior("[0.5, -2]", "[0.4, -1]")},
		{"cells shape", cellPrior("[0.5]", "[1.5]")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.yaml))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

// cellPrior renders a per-cell prior block for the default layout that only
// varies in the beta bounds.
func cellPrior(betaLo, betaHi string) string {
	return "mcmc:\n  prior:\n    cells:\n" +
		"      lower: {beta: " + betaLo + ", gamma1: [[-1, 0], [-2, -2]], gamma2: [[[0, 0], [-2, -1]], [[-1, -1], [-3, -3]]]}\n" +
		"      upper: {beta: " + betaHi + ", gamma1: [[2, 2], [0, 0]], gamma2: [[[3, 2], [0, 1]], [[1, 1], [0, 0]]]}\n"
}

func TestPriorCells(t *testing.T) {
	cfg, err := config.Parse([]byte(cellPrior("[0.5, -3]", "[1.5, -1]")))
	require.NoError(t, err)
	require.NotNil(t, cfg.MCMC.Prior.Cells)

	l := cfg.Covariates().Layout()
	prior, err := cfg.Prior(l)
	require.NoError(t, err)
	lo, hi := prior.Flatten(l)
	assert.Equal(t, []float64{0.5, -3, -1, 0, -2, -2, 0, 0, -2, -1, -1, -1, -3, -3}, lo)
	assert.Equal(t, []float64{1.5, -1, 2, 2, 0, 0, 3, 2, 0, 1, 1, 1, 0, 0}, hi)

	truth, err := cfg.Truth.Params(l)
	require.NoError(t, err)
	assert.True(t, prior.Contains(l, truth))
	swapped := truth.Clone()
	swapped.Beta[1] = 2
	assert.False(t, prior.Contains(l, swapped), "per-cell bounds are asymmetric")

	data, err := cfg.Marshal()
	require.NoError(t, err)
	back, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
