// SPDX-License-Identifier: MIT

package simulate

import (
	"fmt"
	"math"

	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
	"gonum.org/v1/gonum/stat/distuv"
)

// Covariates describes the covariate distributions. Each slice has one entry
// per non-intercept covariate column; an empty slice gives an intercept-only
// design for that mechanism.
type Covariates struct {
	// XMean and XSigma parameterize Normal draws for the true-outcome covariates.
	XMean, XSigma []float64
	// Z1Shape and Z2Shape are Gamma shapes (rate 1) for the stage covariates.
	Z1Shape, Z2Shape []float64
}

// Layout returns the coefficient layout the covariates imply.
func (c Covariates) Layout() model.Layout {
	return model.Layout{Px: len(c.XMean) + 1, Pz1: len(c.Z1Shape) + 1, Pz2: len(c.Z2Shape) + 1}
}

// validate checks slice pairing and distribution parameters.
func (c Covariates) validate() error {
	if len(c.XMean) != len(c.XSigma) {
		return fmt.Errorf("simulate: %d x means for %d sigmas: %w", len(c.XMean), len(c.XSigma), model.ErrShapeMismatch)
	}
	for i := range c.XMean {
		if math.IsNaN(c.XMean[i]) || math.IsInf(c.XMean[i], 0) {
			return fmt.Errorf("simulate: x mean[%d]=%g: %w", i, c.XMean[i], ErrBadDistribution)
		}
		if err := positive("x sigma", i, c.XSigma[i]); err != nil {
			return err
		}
	}
	for i, s := range c.Z1Shape {
		if err := positive("z1 shape", i, s); err != nil {
			return err
		}
	}
	for i, s := range c.Z2Shape {
		if err := positive("z2 shape", i, s); err != nil {
			return err
		}
	}

	return nil
}

func positive(name string, i int, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return fmt.Errorf("simulate: %s[%d]=%g: %w", name, i, v, ErrBadDistribution)
	}

	return nil
}

// Generate draws n observations from the two-stage model with parameters
// truth. The returned Dataset carries the latent outcome in True.
//
// Errors:
//   - ErrBadSampleSize when n <= 0.
//   - ErrBadDistribution for invalid covariate parameters.
//   - model.ErrShapeMismatch when truth does not fit cov.Layout().
//
// Implementation:
//   - Stage 1: draw every covariate row (Normal for x, Gamma for z1, z2).
//   - Stage 2: compute all linear predictors with matrix.MatVec.
//   - Stage 3: draw Y, then Y*1 given Y, then Y*2 given (Y*1, Y).
//
// Complexity: O(n·(px+pz1+pz2)).
func Generate(n int, cov Covariates, truth model.Params, opts ...Option) (*model.Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("simulate: n=%d: %w", n, ErrBadSampleSize)
	}
	if err := cov.validate(); err != nil {
		return nil, err
	}
	if err := truth.Validate(cov.Layout()); err != nil {
		return nil, fmt.Errorf("simulate: truth: %w", err)
	}
	o := gatherOptions(opts...)

	xd := make([]distuv.Normal, len(cov.XMean))
	for i := range xd {
		xd[i] = distuv.Normal{Mu: cov.XMean[i], Sigma: cov.XSigma[i], Src: o.src}
	}
	z1d := gammas(cov.Z1Shape, o)
	z2d := gammas(cov.Z2Shape, o)

	// Stage 1: covariates.
	x := make([][]float64, n)
	z1 := make([][]float64, n)
	z2 := make([][]float64, n)
	for i := 0; i < n; i++ {
		x[i] = make([]float64, len(xd))
		for c := range xd {
			x[i][c] = xd[c].Rand()
		}
		z1[i] = sample(z1d)
		z2[i] = sample(z2d)
	}
	ds := &model.Dataset{}
	var err error
	if ds.X, err = matrix.Design(x); err != nil {
		return nil, fmt.Errorf("simulate: x: %w", err)
	}
	if ds.Z1, err = matrix.Design(z1); err != nil {
		return nil, fmt.Errorf("simulate: z1: %w", err)
	}
	if ds.Z2, err = matrix.Design(z2); err != nil {
		return nil, fmt.Errorf("simulate: z2: %w", err)
	}

	// Stage 2: linear predictors of every mechanism, one per candidate level.
	var (
		etaY  []float64
		eta1  [2][]float64
		eta2  [2][2][]float64
		preds = func(d *matrix.Dense, coef []float64, dst *[]float64) {
			if err == nil {
				*dst, err = matrix.MatVec(d, coef)
			}
		}
	)
	preds(ds.X, truth.Beta, &etaY)
	for j := 0; j < 2; j++ {
		preds(ds.Z1, truth.Gamma1[j], &eta1[j])
		for k := 0; k < 2; k++ {
			preds(ds.Z2, truth.Gamma2[k][j], &eta2[k][j])
		}
	}
	if err != nil {
		return nil, fmt.Errorf("simulate: linear predictor: %w", err)
	}

	// Stage 3: outcomes, drawn in causal order Y, Y*1, Y*2.
	coin := distuv.Bernoulli{Src: o.src}
	draw := func(eta float64) model.Level {
		coin.P = link.Logistic(eta)
		if coin.Rand() == 1 {
			return model.Level1
		}

		return model.Level2
	}
	ds.True = make([]model.Level, n)
	ds.Obs1 = make([]model.Level, n)
	ds.Obs2 = make([]model.Level, n)
	for i := 0; i < n; i++ {
		ds.True[i] = draw(etaY[i])
		j := ds.True[i].Index()
		ds.Obs1[i] = draw(eta1[j][i])
		ds.Obs2[i] = draw(eta2[ds.Obs1[i].Index()][j][i])
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	return ds, nil
}

func gammas(shapes []float64, o Options) []distuv.Gamma {
	out := make([]distuv.Gamma, len(shapes))
	for i, s := range shapes {
		out[i] = distuv.Gamma{Alpha: s, Beta: 1, Src: o.src}
	}

	return out
}

func sample(ds []distuv.Gamma) []float64 {
	row := make([]float64, len(ds))
	for c := range ds {
		row[c] = ds[c].Rand()
	}

	return row
}
