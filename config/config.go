// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"math"
	"os"

	"github.com/katalvlaran/misclass/em"
	"github.com/katalvlaran/misclass/mcmc"
	"github.com/katalvlaran/misclass/model"
	"github.com/katalvlaran/misclass/simulate"
	"gopkg.in/yaml.v3"
)

// Config is one run description.
type Config struct {
	Seed  int64       `yaml:"seed"`
	Data  DataConfig  `yaml:"data"`
	Truth ParamsSpec  `yaml:"truth"`
	Start *ParamsSpec `yaml:"start,omitempty"`
	EM    EMConfig    `yaml:"em"`
	MCMC  MCMCConfig  `yaml:"mcmc"`
}

// DataConfig describes simulated data.
type DataConfig struct {
	N       int       `yaml:"n"`
	XMean   []float64 `yaml:"xMean"`
	XSigma  []float64 `yaml:"xSigma"`
	Z1Shape []float64 `yaml:"z1Shape"`
	Z2Shape []float64 `yaml:"z2Shape"`
}

// ParamsSpec is the nested-array form of model.Params.
type ParamsSpec struct {
	Beta   []float64     `yaml:"beta"`
	Gamma1 [][]float64   `yaml:"gamma1"`
	Gamma2 [][][]float64 `yaml:"gamma2"`
}

// EMConfig holds EM settings.
type EMConfig struct {
	Tolerance         float64 `yaml:"tolerance"`
	RelativeTolerance float64 `yaml:"relativeTolerance,omitempty"`
	MaxIterations     int     `yaml:"maxIterations"`
	StandardErrors    bool    `yaml:"standardErrors"`
	// Starts > 1 adds jittered copies of the start and keeps the best fit.
	Starts int `yaml:"starts,omitempty"`
}

// MCMCConfig holds sampler settings.
type MCMCConfig struct {
	Chains  int         `yaml:"chains"`
	Samples int         `yaml:"samples"`
	BurnIn  int         `yaml:"burnIn"`
	Thin    int         `yaml:"thin"`
	Step    StepConfig  `yaml:"step"`
	Adapt   bool        `yaml:"adapt"`
	Naive   bool        `yaml:"naive"`
	Prior   PriorConfig `yaml:"prior"`
}

// StepConfig holds initial proposal scales per mechanism.
type StepConfig struct {
	Beta   float64 `yaml:"beta"`
	Gamma1 float64 `yaml:"gamma1"`
	Gamma2 float64 `yaml:"gamma2"`
}

// PriorConfig is the uniform support of the free coefficients: a common
// (lower, upper) pair, or per-coefficient bounds in Cells when set.
type PriorConfig struct {
	Lower float64     `yaml:"lower"`
	Upper float64     `yaml:"upper"`
	Cells *CellBounds `yaml:"cells,omitempty"`
}

// CellBounds holds one lower and one upper bound per free coefficient, in
// the nested-array form of the truth.
type CellBounds struct {
	Lower ParamsSpec `yaml:"lower"`
	Upper ParamsSpec `yaml:"upper"`
}

// Default returns the configuration used for keys a file leaves out.
func Default() *Config {
	return &Config{
		Seed: simulate.DefaultSeed,
		Data: DataConfig{
			N:       1000,
			XMean:   []float64{0},
			XSigma:  []float64{1},
			Z1Shape: []float64{1},
			Z2Shape: []float64{1},
		},
		Truth: ParamsSpec{
			Beta:   []float64{1, -2},
			Gamma1: [][]float64{{0.5, 1}, {-0.5, -1}},
			Gamma2: [][][]float64{{{1.5, 1}, {-0.5, 0}}, {{0.5, 0.5}, {-1, -1}}},
		},
		EM: EMConfig{
			Tolerance:      em.DefaultTolerance,
			MaxIterations:  em.DefaultMaxIterations,
			StandardErrors: true,
			Starts:         1,
		},
		MCMC: MCMCConfig{
			Chains:  mcmc.DefaultChains,
			Samples: mcmc.DefaultSamples,
			BurnIn:  mcmc.DefaultBurnIn,
			Thin:    1,
			Step:    StepConfig{Beta: mcmc.DefaultStep, Gamma1: mcmc.DefaultStep, Gamma2: mcmc.DefaultStep},
			Adapt:   true,
			Naive:   true,
			Prior:   PriorConfig{Lower: -10, Upper: 10},
		},
	}
}

// Load reads and validates the YAML file at path.
//
// Errors: the os error for an unreadable file, ErrInvalidConfig otherwise.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over Default() and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := strictUnmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) { return yaml.Marshal(c) }

// Validate checks ranges and parameter shapes.
//
// Errors: ErrInvalidConfig.
func (c *Config) Validate() error {
	finite := func(vs ...float64) bool {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
		return true
	}
	check := func(ok bool, format string, args ...any) error {
		if ok {
			return nil
		}
		return fmt.Errorf("config: %s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
	}
	for _, err := range []error{
		check(finite(c.EM.Tolerance, c.EM.RelativeTolerance, c.MCMC.Step.Beta, c.MCMC.Step.Gamma1, c.MCMC.Step.Gamma2,
			c.MCMC.Prior.Lower, c.MCMC.Prior.Upper), "tolerances, steps and prior bounds must be finite"),
		check(c.Data.N > 0, "data.n=%d must be > 0", c.Data.N),
		check(c.EM.Tolerance > 0, "em.tolerance=%g must be > 0", c.EM.Tolerance),
		check(c.EM.RelativeTolerance >= 0, "em.relativeTolerance=%g must be >= 0", c.EM.RelativeTolerance),
		check(c.EM.MaxIterations > 0, "em.maxIterations=%d must be > 0", c.EM.MaxIterations),
		check(c.EM.Starts > 0, "em.starts=%d must be > 0", c.EM.Starts),
		check(c.MCMC.Chains > 0, "mcmc.chains=%d must be > 0", c.MCMC.Chains),
		check(c.MCMC.Samples > 0, "mcmc.samples=%d must be > 0", c.MCMC.Samples),
		check(c.MCMC.BurnIn >= 0 && c.MCMC.BurnIn < c.MCMC.Samples, "mcmc.burnIn=%d must be in [0, samples)", c.MCMC.BurnIn),
		check(c.MCMC.Thin > 0, "mcmc.thin=%d must be > 0", c.MCMC.Thin),
		check(c.MCMC.Step.Beta > 0 && c.MCMC.Step.Gamma1 > 0 && c.MCMC.Step.Gamma2 > 0, "mcmc.step values must be > 0"),
		check(c.MCMC.Prior.Lower < c.MCMC.Prior.Upper, "mcmc.prior lower %g not below upper %g", c.MCMC.Prior.Lower, c.MCMC.Prior.Upper),
	} {
		if err != nil {
			return err
		}
	}
	l := c.Covariates().Layout()
	if _, err := c.Truth.Params(l); err != nil {
		return fmt.Errorf("config: truth: %w: %w", ErrInvalidConfig, err)
	}
	if c.Start != nil {
		if _, err := c.Start.Params(l); err != nil {
			return fmt.Errorf("config: start: %w: %w", ErrInvalidConfig, err)
		}
	}
	if _, err := c.Prior(l); err != nil {
		return fmt.Errorf("config: mcmc.prior: %w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Covariates returns the simulation covariate description.
func (c *Config) Covariates() simulate.Covariates {
	return simulate.Covariates{
		XMean:   c.Data.XMean,
		XSigma:  c.Data.XSigma,
		Z1Shape: c.Data.Z1Shape,
		Z2Shape: c.Data.Z2Shape,
	}
}

// StartParams returns the configured start, or the truth when none is given.
func (c *Config) StartParams(l model.Layout) (model.Params, error) {
	if c.Start != nil {
		return c.Start.Params(l)
	}

	return c.Truth.Params(l)
}

// Prior returns the uniform prior of the MCMC section for layout l. Per-cell
// bounds win over the common pair.
//
// Errors: model.ErrShapeMismatch, model.ErrInvalidPrior.
func (c *Config) Prior(l model.Layout) (model.Prior, error) {
	cells := c.MCMC.Prior.Cells
	if cells == nil {
		p := model.UniformPrior(l, c.MCMC.Prior.Lower, c.MCMC.Prior.Upper)

		return p, p.Validate(l)
	}
	lower, err := cells.Lower.Params(l)
	if err != nil {
		return model.Prior{}, fmt.Errorf("cells.lower: %w", err)
	}
	upper, err := cells.Upper.Params(l)
	if err != nil {
		return model.Prior{}, fmt.Errorf("cells.upper: %w", err)
	}

	return model.PriorFromParams(l, lower, upper)
}

// EMOptions translates the EM section into em options.
func (c *Config) EMOptions() []em.Option {
	opts := []em.Option{
		em.WithTolerance(c.EM.Tolerance),
		em.WithMaxIterations(c.EM.MaxIterations),
		em.WithStandardErrors(c.EM.StandardErrors),
	}
	if c.EM.RelativeTolerance > 0 {
		opts = append(opts, em.WithRelativeTolerance(c.EM.RelativeTolerance))
	}

	return opts
}

// MCMCOptions translates the MCMC section into mcmc options.
func (c *Config) MCMCOptions() []mcmc.Option {
	m := c.MCMC

	return []mcmc.Option{
		mcmc.WithChains(m.Chains),
		mcmc.WithSamples(m.Samples),
		mcmc.WithBurnIn(m.BurnIn),
		mcmc.WithThin(m.Thin),
		mcmc.WithStep(m.Step.Beta, m.Step.Gamma1, m.Step.Gamma2),
		mcmc.WithAdaptation(m.Adapt),
		mcmc.WithNaive(m.Naive),
		mcmc.WithSeed(c.Seed),
	}
}

// Params converts the nested arrays to model.Params, checking shapes against l.
//
// Errors: model.ErrShapeMismatch.
func (s ParamsSpec) Params(l model.Layout) (model.Params, error) {
	var p model.Params
	if len(s.Gamma1) != 2 {
		return p, fmt.Errorf("gamma1 has %d rows, want 2: %w", len(s.Gamma1), model.ErrShapeMismatch)
	}
	if len(s.Gamma2) != 2 || len(s.Gamma2[0]) != 2 || len(s.Gamma2[1]) != 2 {
		return p, fmt.Errorf("gamma2 must be 2×2: %w", model.ErrShapeMismatch)
	}
	p.Beta = append([]float64(nil), s.Beta...)
	for j := 0; j < 2; j++ {
		p.Gamma1[j] = append([]float64(nil), s.Gamma1[j]...)
		for k := 0; k < 2; k++ {
			p.Gamma2[k][j] = append([]float64(nil), s.Gamma2[k][j]...)
		}
	}
	if err := p.Validate(l); err != nil {
		return model.Params{}, err
	}

	return p, nil
}

// SpecOf converts p to its nested-array form.
func SpecOf(p model.Params) ParamsSpec {
	c := p.Clone()

	return ParamsSpec{
		Beta:   c.Beta,
		Gamma1: [][]float64{c.Gamma1[0], c.Gamma1[1]},
		Gamma2: [][][]float64{{c.Gamma2[0][0], c.Gamma2[0][1]}, {c.Gamma2[1][0], c.Gamma2[1][1]}},
	}
}
