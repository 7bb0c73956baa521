// SPDX-License-Identifier: MIT

package link

import (
	"fmt"
	"math"

	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
	"gonum.org/v1/gonum/floats"
)

// Logistic returns exp(eta)/(1+exp(eta)) without overflow for large |eta|.
func Logistic(eta float64) float64 {
	if eta >= 0 {
		return 1 / (1 + math.Exp(-eta))
	}
	e := math.Exp(eta)

	return e / (1 + e)
}

// Softplus returns log(1+exp(x)) = logsumexp(0, x), evaluated so that neither
// branch exponentiates a positive number.
func Softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}

	return math.Log1p(math.Exp(x))
}

// LogProbs returns (log P(level 1), log P(level 2)) for linear predictor eta.
func LogProbs(eta float64) (logP1, logP2 float64) {
	return -Softplus(-eta), -Softplus(eta)
}

// Eta returns the linear predictor coef·row. Lengths must match.
func Eta(coef, row []float64) float64 { return floats.Dot(coef, row) }

// Distribution returns the probabilities of level 1 and level 2 for one
// design row.
//
// Errors: model.ErrShapeMismatch when len(coef) != len(row).
func Distribution(coef, row []float64) ([2]float64, error) {
	if len(coef) != len(row) {
		return [2]float64{}, fmt.Errorf("link: %d coefficients for %d columns: %w", len(coef), len(row), model.ErrShapeMismatch)
	}
	p := Logistic(Eta(coef, row))

	return [2]float64{p, 1 - p}, nil
}

// checkCoef validates a coefficient vector against design d.
func checkCoef(name string, coef []float64, d *matrix.Dense) error {
	if err := matrix.ValidateNotNil(d); err != nil {
		return fmt.Errorf("link: %s design: %w: %w", name, model.ErrShapeMismatch, err)
	}
	if len(coef) != d.Cols() {
		return fmt.Errorf("link: %s has %d coefficients for %d columns: %w", name, len(coef), d.Cols(), model.ErrShapeMismatch)
	}

	return nil
}

// Accuracy summarizes a misclassification mechanism by averaging over the
// design rows: Sensitivity = mean P(Y*=1|Y=1), Specificity = mean P(Y*=2|Y=2).
type Accuracy struct {
	Sensitivity float64
	Specificity float64
}

// Youden returns Sensitivity + Specificity − 1; positive for an informative
// proxy, negative when the latent labels are flipped.
func (a Accuracy) Youden() float64 { return a.Sensitivity + a.Specificity - 1 }

// accuracyOf averages the correct-classification probabilities of a pair of
// coefficient vectors (one per true level) over the rows of d.
func accuracyOf(g [2][]float64, d *matrix.Dense) Accuracy {
	var sens, spec float64
	n := d.Rows()
	for i := 0; i < n; i++ {
		row := d.Row(i)
		sens += Logistic(Eta(g[0], row))
		spec += 1 - Logistic(Eta(g[1], row))
	}

	return Accuracy{Sensitivity: sens / float64(n), Specificity: spec / float64(n)}
}

// Stage1Accuracy returns the mean sensitivity/specificity of the first stage.
//
// Errors: model.ErrShapeMismatch.
func Stage1Accuracy(gamma1 [2][]float64, z1 *matrix.Dense) (Accuracy, error) {
	for j := 0; j < 2; j++ {
		if err := checkCoef("gamma1", gamma1[j], z1); err != nil {
			return Accuracy{}, err
		}
	}

	return accuracyOf(gamma1, z1), nil
}

// Stage2Accuracy returns, per first-stage observed level k, the mean
// sensitivity/specificity of the second stage.
//
// Errors: model.ErrShapeMismatch.
func Stage2Accuracy(gamma2 [2][2][]float64, z2 *matrix.Dense) ([2]Accuracy, error) {
	var out [2]Accuracy
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			if err := checkCoef("gamma2", gamma2[k][j], z2); err != nil {
				return out, err
			}
		}
		out[k] = accuracyOf(gamma2[k], z2)
	}

	return out, nil
}
