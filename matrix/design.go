// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
)

const opDesign = "Design"

// Design builds an n×(q+1) design matrix from n covariate rows of equal width q,
// prepending an intercept column of ones. Rows may be empty (q == 0), in which
// case the design is the n×1 intercept column.
//
// Errors:
//   - ErrInvalidDimensions when rows is empty.
//   - ErrDimensionMismatch when rows are ragged.
//   - ErrNaNInf when a covariate is not finite.
//
// Complexity: Time O(n*q), Space O(n*(q+1)).
func Design(rows [][]float64) (*Dense, error) {
	n := len(rows)
	if n == 0 {
		return nil, matrixErrorf(opDesign, ErrInvalidDimensions)
	}
	q := len(rows[0])
	d, err := NewDense(n, q+1)
	if err != nil {
		return nil, matrixErrorf(opDesign, err)
	}
	p := q + 1
	for i, row := range rows {
		if len(row) != q {
			return nil, matrixErrorf(opDesign, fmt.Errorf("row %d has %d covariates, want %d: %w", i, len(row), q, ErrDimensionMismatch))
		}
		d.data[i*p] = 1
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, matrixErrorf(opDesign, denseErrorf(opDesign, i, j, ErrNaNInf))
			}
			d.data[i*p+j+1] = v
		}
	}

	return d, nil
}

// Covariates returns the covariate rows of a design built by Design, i.e.
// every row without its leading intercept entry. Rows are fresh copies.
// Complexity: Time O(n*q).
func Covariates(d *Dense) [][]float64 {
	out := make([][]float64, d.r)
	for i := 0; i < d.r; i++ {
		row := make([]float64, d.c-1)
		copy(row, d.data[i*d.c+1:(i+1)*d.c])
		out[i] = row
	}

	return out
}
