// SPDX-License-Identifier: MIT

package regression

import "errors"

var (
	// ErrSingularDesign indicates that the weighted information matrix XᵀWX
	// could not be factorized (rank deficiency, empty stratum, separation).
	ErrSingularDesign = errors.New("regression: singular weighted design")

	// ErrInvalidInput indicates mismatched lengths, responses outside [0,1],
	// or negative/non-finite weights.
	ErrInvalidInput = errors.New("regression: invalid input")
)
