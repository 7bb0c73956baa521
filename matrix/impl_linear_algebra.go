// SPDX-License-Identifier: MIT
// Package matrix provides the kernels on Dense: matrix-vector products,
// weighted Gram products, Doolittle LU, inversion and linear solves. All
// functions perform strict fail-fast validation and return clear errors on
// dimension mismatches.
//
// Notes:
//   - Kernels read the flat row-major buffer directly.
//   - All kernels use central validators and wrap sentinels with matrixErrorf.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ZeroSum is the initial sum value for forward/backward substitution and similar.
const ZeroSum = 0.0

// PivotTolerance is the relative magnitude under which an LU pivot is treated
// as zero: |U[i,i]| <= PivotTolerance * max|A| reports ErrSingular.
const PivotTolerance = 1e-13

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMatVec  = "MatVec"
	opInverse = "Inverse"
	opLU      = "LU"
	opSolve   = "Solve"
	opGram    = "WeightedGram"
	opCross   = "WeightedCross"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVec returns y = m·x.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch (len(x) != Cols).
// Complexity: Time O(r*c), Space O(r).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		y[i] = floats.Dot(m.Row(i), x)
	}

	return y, nil
}

// WeightedGram returns XᵀWX for the diagonal weight matrix W = diag(w).
// This is the Fisher-information kernel of iteratively reweighted least squares.
//
// Implementation:
//   - Stage 1: validate X non-nil and len(w) == X.Rows.
//   - Stage 2: accumulate the upper triangle row by row, skipping zero weights.
//   - Stage 3: mirror the upper triangle into the lower one.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf (non-finite weight).
// Complexity: Time O(n*p²), Space O(p²).
func WeightedGram(X *Dense, w []float64) (*Dense, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	if err := ValidateVecLen(w, X.Rows()); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	if err := ValidateFinite(w); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	p := X.c
	g, err := NewDense(p, p)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}

	var (
		i, a, b int
		wi, xa  float64
		row     []float64
	)
	for i = 0; i < X.r; i++ {
		wi = w[i]
		if wi == 0 {
			continue
		}
		row = X.Row(i)
		for a = 0; a < p; a++ {
			xa = wi * row[a]
			for b = a; b < p; b++ {
				g.data[a*p+b] += xa * row[b]
			}
		}
	}
	// Mirror upper triangle.
	for a = 0; a < p; a++ {
		for b = a + 1; b < p; b++ {
			g.data[b*p+a] = g.data[a*p+b]
		}
	}

	return g, nil
}

// WeightedCross returns Xᵀ(w∘r), the weighted score vector of IRLS.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf.
// Complexity: Time O(n*p), Space O(p).
func WeightedCross(X *Dense, w, r []float64) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opCross, err)
	}
	if err := ValidateVecLen(w, X.Rows()); err != nil {
		return nil, matrixErrorf(opCross, err)
	}
	if err := ValidateVecLen(r, X.Rows()); err != nil {
		return nil, matrixErrorf(opCross, err)
	}
	if err := ValidateFinite(r); err != nil {
		return nil, matrixErrorf(opCross, err)
	}
	out := make([]float64, X.c)
	for i := 0; i < X.r; i++ {
		if w[i] == 0 {
			continue
		}
		floats.AddScaled(out, w[i]*r[i], X.Row(i))
	}

	return out, nil
}

// LU computes the Doolittle factorization A = L*U with unit diagonal on L (no pivoting).
//
// Implementation:
//   - Stage 1: Validate m (not nil, square); allocate L,U; set diag(L)=1.
//   - Stage 2: For i=0..n-1, build row i of U and column i of L in fixed order.
//
// Behavior highlights:
//   - Deterministic loops; pivots below PivotTolerance·max|A| report ErrSingular.
//   - Symmetric positive definite inputs (Gram matrices) never need pivoting.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrSingular.
// Complexity: Time O(n^3), Space O(n^2).
func LU(a *Dense) (*Dense, *Dense, error) {
	if err := ValidateSquare(a); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}

	n := a.r
	L, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	U, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	for i := 0; i < n; i++ {
		L.data[i*n+i] = 1.0
	}

	// Scale reference for the relative pivot guard.
	scale := floats.Norm(a.data, math.Inf(1))
	if scale == 0 {
		return nil, nil, matrixErrorf(opLU, ErrSingular)
	}
	minPivot := PivotTolerance * scale

	var (
		i, j, k      int
		sum, pivot   float64
		baseI, baseJ int
	)
	for i = 0; i < n; i++ {
		baseI = i * n
		// U[i][j] for j >= i
		for j = i; j < n; j++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[baseI+k] * U.data[k*n+j]
			}
			U.data[baseI+j] = a.data[baseI+j] - sum
		}

		pivot = U.data[baseI+i]
		if math.Abs(pivot) <= minPivot || math.IsNaN(pivot) {
			return nil, nil, matrixErrorf(opLU, fmt.Errorf("pivot %d: %w", i, ErrSingular))
		}

		// L[j][i] for j > i
		for j = i + 1; j < n; j++ {
			sum = ZeroSum
			baseJ = j * n
			for k = 0; k < i; k++ {
				sum += L.data[baseJ+k] * U.data[k*n+i]
			}
			L.data[baseJ+i] = (a.data[baseJ+i] - sum) / pivot
		}
	}

	return L, U, nil
}

// luSolveInto solves L·U·x = b into x using y as forward workspace.
// L is unit lower triangular, U upper triangular with verified non-zero pivots.
func luSolveInto(L, U *Dense, b, y, x []float64) {
	n := L.r
	var (
		i, k int
		sum  float64
	)
	// Forward substitution: L*y = b
	for i = 0; i < n; i++ {
		sum = ZeroSum
		for k = 0; k < i; k++ {
			sum += L.data[i*n+k] * y[k]
		}
		y[i] = b[i] - sum
	}
	// Backward substitution: U*x = y
	for i = n - 1; i >= 0; i-- {
		sum = ZeroSum
		for k = i + 1; k < n; k++ {
			sum += U.data[i*n+k] * x[k]
		}
		x[i] = (y[i] - sum) / U.data[i*n+i]
	}
}

// Solve returns x with A·x = b via one LU factorization.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrSingular.
// Complexity: Time O(n^3), Space O(n^2).
func Solve(A *Dense, b []float64) ([]float64, error) {
	if err := ValidateSquare(A); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	if err := ValidateVecLen(b, A.Rows()); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	L, U, err := LU(A)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	n := A.Rows()
	y := make([]float64, n)
	x := make([]float64, n)
	luSolveInto(L, U, b, y, x)
	if err = ValidateFinite(x); err != nil {
		return nil, matrixErrorf(opSolve, ErrSingular)
	}

	return x, nil
}

// Inverse computes A^{-1} using Doolittle LU factorization without pivoting.
//
// Implementation:
//   - Stage 1: Validate square; factorize via LU(m).
//   - Stage 2: For each canonical basis column e_col solve L*y = e_col, U*x = y
//     and write x into column col.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrSingular.
// Complexity: Time O(n^3), Space O(n^2).
func Inverse(m *Dense) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	L, U, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	n := m.Rows()
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	var (
		col, i int
		e      = make([]float64, n) // basis vector
		y      = make([]float64, n) // forward workspace
		x      = make([]float64, n) // backward workspace
	)
	for col = 0; col < n; col++ {
		e[col] = 1
		luSolveInto(L, U, e, y, x)
		e[col] = 0
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}
	if err = ValidateFinite(inv.data); err != nil {
		return nil, matrixErrorf(opInverse, ErrSingular)
	}

	return inv, nil
}
