// SPDX-License-Identifier: MIT

package em

import (
	"fmt"
	"math"

	"github.com/katalvlaran/misclass/likelihood"
	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// hessianStep is the central-difference step on the coefficient scale.
const hessianStep = 1e-4

// StdErrors returns per-coordinate standard errors (model.Layout order) from
// the inverse of the negative numeric Hessian of the observed-data
// log-likelihood at p. Coordinates whose variance is not positive get NaN.
//
// Errors: model.ErrShapeMismatch, matrix.ErrSingular when the observed
// information cannot be inverted.
// Complexity: O(d²·n) likelihood work for d free coordinates.
func StdErrors(ds *model.Dataset, p model.Params) ([]float64, error) {
	if err := likelihood.Check(ds, p); err != nil {
		return nil, fmt.Errorf("em: StdErrors: %w", err)
	}
	l := ds.Layout()
	d := l.Dim()
	x := l.Flatten(p)

	ll := func(v []float64) float64 {
		q, err := l.Bind(v)
		if err != nil {
			return math.NaN()
		}
		out, err := likelihood.LogLik(ds, q)
		if err != nil {
			return math.NaN()
		}

		return out
	}
	h := mat.NewSymDense(d, nil)
	fd.Hessian(h, ll, x, &fd.Settings{Formula: fd.Central, Step: hessianStep})

	info, err := matrix.NewDense(d, d)
	if err != nil {
		return nil, fmt.Errorf("em: StdErrors: %w", err)
	}
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			if err := info.Set(i, j, -h.At(i, j)); err != nil {
				return nil, fmt.Errorf("em: StdErrors: %w", err)
			}
		}
	}
	cov, err := matrix.Inverse(info)
	if err != nil {
		return nil, fmt.Errorf("em: StdErrors: observed information: %w", err)
	}

	se := make([]float64, d)
	for i := range se {
		v, _ := cov.At(i, i)
		se[i] = math.NaN()
		if v > 0 {
			se[i] = math.Sqrt(v)
		}
	}

	return se, nil
}
