// SPDX-License-Identifier: MIT

// Package likelihood evaluates the observed-data likelihood of the two-stage
// misclassification model. For observation i with observed levels (k, l),
//
//	P(Y*1=k, Y*2=l | x, z1, z2) = Σ_j P(Y=j|x)·P(Y*1=k|Y=j,z1)·P(Y*2=l|Y*1=k,Y=j,z2)
//
// The EM estimator uses the normalized summands as responsibilities; the
// sampler uses the log of the sum. A naive likelihood treating Y*1 as the true
// outcome is provided as the comparison baseline.
package likelihood

import (
	"fmt"
	"math"

	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
)

// logSumExp2 returns log(exp(a)+exp(b)) without overflow.
func logSumExp2(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	if math.IsInf(a, -1) {
		return a
	}

	return a + math.Log1p(math.Exp(b-a))
}

// pick returns the log-probability of level idx from a LogProbs pair.
func pick(eta float64, idx int) float64 {
	l1, l2 := link.LogProbs(eta)
	if idx == 0 {
		return l1
	}

	return l2
}

// Check validates ds and p against each other.
//
// Errors: model.ErrShapeMismatch, model.ErrInvalidOutcome.
func Check(ds *model.Dataset, p model.Params) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	if err := p.Validate(ds.Layout()); err != nil {
		return err
	}

	return nil
}

// jointLogs fills out[j] = log P(Y=j+1, Y*1=k_i, Y*2=l_i | covariates).
func jointLogs(ds *model.Dataset, p model.Params, i int, out *[2]float64) {
	k := ds.Obs1[i].Index()
	l := ds.Obs2[i].Index()
	ex := link.Eta(p.Beta, ds.X.Row(i))
	z1 := ds.Z1.Row(i)
	z2 := ds.Z2.Row(i)
	for j := 0; j < 2; j++ {
		out[j] = pick(ex, j) +
			pick(link.Eta(p.Gamma1[j], z1), k) +
			pick(link.Eta(p.Gamma2[k][j], z2), l)
	}
}

// LogLik returns the observed-data log-likelihood Σ_i log Σ_j P(Y=j, Y*1_i, Y*2_i).
//
// Errors: model.ErrShapeMismatch, model.ErrInvalidOutcome.
// Complexity: O(n·p).
func LogLik(ds *model.Dataset, p model.Params) (float64, error) {
	if err := Check(ds, p); err != nil {
		return 0, fmt.Errorf("likelihood: %w", err)
	}

	return logLik(ds, p), nil
}

// logLik is LogLik without validation.
func logLik(ds *model.Dataset, p model.Params) float64 {
	var (
		ll float64
		jl [2]float64
	)
	for i := range ds.Obs1 {
		jointLogs(ds, p, i, &jl)
		ll += logSumExp2(jl[0], jl[1])
	}

	return ll
}

// Responsibilities runs the E-step: it returns the n×2 matrix of posterior
// probabilities P(Y=j | observed data, params) and the observed-data
// log-likelihood at p. Rows sum to one.
//
// Errors: model.ErrShapeMismatch, model.ErrInvalidOutcome.
// Complexity: O(n·p).
func Responsibilities(ds *model.Dataset, p model.Params) (*matrix.Dense, float64, error) {
	if err := Check(ds, p); err != nil {
		return nil, 0, fmt.Errorf("likelihood: %w", err)
	}
	n := ds.N()
	w := make([]float64, 2*n)
	var (
		ll, li float64
		jl     [2]float64
	)
	for i := 0; i < n; i++ {
		jointLogs(ds, p, i, &jl)
		li = logSumExp2(jl[0], jl[1])
		ll += li
		w[2*i] = math.Exp(jl[0] - li)
		w[2*i+1] = 1 - w[2*i]
	}
	resp, err := matrix.NewDenseFrom(n, 2, w)
	if err != nil {
		return nil, 0, fmt.Errorf("likelihood: responsibilities: %w", err)
	}

	return resp, ll, nil
}

// NaiveLogLik returns Σ_i log P(Y*1=k_i | x) for a logistic model that treats
// the first-stage proxy as error-free.
//
// Errors: model.ErrShapeMismatch.
func NaiveLogLik(ds *model.Dataset, beta []float64) (float64, error) {
	if err := ds.Validate(); err != nil {
		return 0, fmt.Errorf("likelihood: %w", err)
	}
	if len(beta) != ds.X.Cols() {
		return 0, fmt.Errorf("likelihood: naive beta has %d coefficients, want %d: %w", len(beta), ds.X.Cols(), model.ErrShapeMismatch)
	}

	return naiveLogLik(ds, beta), nil
}

func naiveLogLik(ds *model.Dataset, beta []float64) float64 {
	var ll float64
	for i, k := range ds.Obs1 {
		ll += pick(link.Eta(beta, ds.X.Row(i)), k.Index())
	}

	return ll
}
