// SPDX-License-Identifier: MIT

package simulate

import "errors"

var (
	// ErrBadSampleSize indicates a non-positive number of observations.
	ErrBadSampleSize = errors.New("simulate: sample size must be > 0")

	// ErrBadDistribution indicates a non-finite mean, or a sigma or shape
	// that is not strictly positive.
	ErrBadDistribution = errors.New("simulate: invalid covariate distribution")
)
