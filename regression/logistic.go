// SPDX-License-Identifier: MIT

package regression

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/matrix"
	"gonum.org/v1/gonum/floats"
)

// Result is the outcome of a weighted logistic fit.
type Result struct {
	// Coef are the fitted coefficients (intercept first).
	Coef []float64
	// Cov is the inverse weighted information matrix at Coef.
	Cov *matrix.Dense
	// LogLik is the weighted log-likelihood at Coef.
	LogLik float64
	// Iterations is the number of Newton steps taken.
	Iterations int
	// Converged reports max|Δcoef| < tolerance before the iteration cap.
	Converged bool
}

// StdErrors returns sqrt(diag(Cov)).
func (r *Result) StdErrors() []float64 {
	p := len(r.Coef)
	se := make([]float64, p)
	for i := 0; i < p; i++ {
		v, _ := r.Cov.At(i, i)
		se[i] = math.Sqrt(v)
	}

	return se
}

// objective returns Σ w_i [y_i·log p_i + (1−y_i)·log(1−p_i)] and fills eta.
func objective(X *matrix.Dense, y, w, coef, eta []float64) float64 {
	var ll float64
	for i := range y {
		eta[i] = link.Eta(coef, X.Row(i))
		if w[i] == 0 {
			continue
		}
		l1, l2 := link.LogProbs(eta[i])
		ll += w[i] * (y[i]*l1 + (1-y[i])*l2)
	}

	return ll
}

// validate checks lengths and value ranges of a fit's inputs.
func validate(X *matrix.Dense, y, w, start []float64) error {
	if err := matrix.ValidateNotNil(X); err != nil {
		return fmt.Errorf("design: %w: %w", ErrInvalidInput, err)
	}
	n, p := X.Shape()
	if len(y) != n || len(w) != n {
		return fmt.Errorf("len(y)=%d len(w)=%d rows=%d: %w", len(y), len(w), n, ErrInvalidInput)
	}
	if start != nil && len(start) != p {
		return fmt.Errorf("len(start)=%d cols=%d: %w", len(start), p, ErrInvalidInput)
	}
	for i := 0; i < n; i++ {
		if !(y[i] >= 0 && y[i] <= 1) {
			return fmt.Errorf("y[%d]=%g outside [0,1]: %w", i, y[i], ErrInvalidInput)
		}
		if !(w[i] >= 0) || math.IsInf(w[i], 1) {
			return fmt.Errorf("w[%d]=%g: %w", i, w[i], ErrInvalidInput)
		}
	}

	return nil
}

// Logistic fits P(y=1|x) = logistic(x·coef) by weighted IRLS.
//
// Implementation:
//   - Stage 1: validate inputs; start from start (or zeros).
//   - Stage 2: Newton step δ = (XᵀVX)⁻¹·Xᵀ(w∘(y−p)), V = diag(w·p(1−p)).
//     A step that lowers the objective is halved (at most maxHalvings times).
//   - Stage 3: stop once max|δ| < tol; the inverse information at the final
//     coefficients is returned as Cov.
//
// A fit that reaches the iteration cap is returned with Converged=false and a
// nil error; the caller decides whether that is acceptable.
//
// Errors:
//   - ErrInvalidInput for malformed inputs.
//   - ErrSingularDesign (wrapping matrix.ErrSingular) when XᵀVX cannot be solved.
//
// Complexity: O(iter·(n·p² + p³)).
func Logistic(X *matrix.Dense, y, w, start []float64, opts ...Option) (*Result, error) {
	if err := validate(X, y, w, start); err != nil {
		return nil, fmt.Errorf("regression: %w", err)
	}
	o := gatherOptions(opts...)
	n, p := X.Shape()

	coef := make([]float64, p)
	if start != nil {
		copy(coef, start)
	}
	var (
		eta   = make([]float64, n)
		resid = make([]float64, n)
		vw    = make([]float64, n)
		trial = make([]float64, p)
		ll    = objective(X, y, w, coef, eta)
		res   = &Result{}
	)

	for res.Iterations < o.maxIter {
		// Working weights and residuals at the current coefficients.
		for i := 0; i < n; i++ {
			pi := link.Logistic(eta[i])
			vw[i] = w[i] * pi * (1 - pi)
			resid[i] = y[i] - pi
		}
		info, err := matrix.WeightedGram(X, vw)
		if err != nil {
			return nil, fmt.Errorf("regression: %w", err)
		}
		score, err := matrix.WeightedCross(X, w, resid)
		if err != nil {
			return nil, fmt.Errorf("regression: %w", err)
		}
		step, err := matrix.Solve(info, score)
		if err != nil {
			return nil, singular(res.Iterations, err)
		}
		res.Iterations++

		// Step-halving guard: accept the first trial that does not lower ll.
		var newLL float64
		for h := 0; ; h++ {
			floats.AddTo(trial, coef, step)
			newLL = objective(X, y, w, trial, eta)
			if newLL >= ll-1e-12*math.Abs(ll) || h == maxHalvings {
				break
			}
			floats.Scale(0.5, step)
		}
		copy(coef, trial)
		ll = newLL

		if floats.Norm(step, math.Inf(1)) < o.tol {
			res.Converged = true
			break
		}
	}

	// Information at the final coefficients.
	for i := 0; i < n; i++ {
		pi := link.Logistic(eta[i])
		vw[i] = w[i] * pi * (1 - pi)
	}
	info, err := matrix.WeightedGram(X, vw)
	if err != nil {
		return nil, fmt.Errorf("regression: %w", err)
	}
	cov, err := matrix.Inverse(info)
	if err != nil {
		return nil, singular(res.Iterations, err)
	}

	res.Coef = coef
	res.Cov = cov
	res.LogLik = ll

	return res, nil
}

// singular maps a matrix failure to ErrSingularDesign, keeping both in the chain.
func singular(iter int, err error) error {
	if errors.Is(err, matrix.ErrSingular) {
		return fmt.Errorf("regression: newton step %d: %w: %w", iter, ErrSingularDesign, err)
	}

	return fmt.Errorf("regression: newton step %d: %w", iter, err)
}
