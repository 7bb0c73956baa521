// SPDX-License-Identifier: MIT

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates that parameter lengths, covariate dimensions
	// or observation counts are inconsistent. Fatal; reported before any iteration.
	ErrShapeMismatch = errors.New("model: shape mismatch")

	// ErrInvalidOutcome indicates an outcome value outside {1, 2}.
	ErrInvalidOutcome = errors.New("model: outcome level must be 1 or 2")

	// ErrInvalidPrior indicates unordered or non-finite bounds on a free cell,
	// a reference cell marked free, or free/unused marking that disagrees
	// between the lower and upper bound arrays.
	ErrInvalidPrior = errors.New("model: invalid prior specification")
)

// shapeErrorf wraps ErrShapeMismatch with a formatted context.
func shapeErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrShapeMismatch)
}

// priorErrorf wraps ErrInvalidPrior with a formatted context.
func priorErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidPrior)
}
