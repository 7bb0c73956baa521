// SPDX-License-Identifier: MIT

package model

import (
	"fmt"

	"github.com/katalvlaran/misclass/matrix"
)

// Dataset is one sample of observations. It is read-only for the duration of
// a fit; both estimators may share the same *Dataset concurrently.
type Dataset struct {
	// Obs1 is the first-stage observed outcome Y*1 per observation.
	Obs1 []Level
	// Obs2 is the second-stage observed outcome Y*2 per observation.
	Obs2 []Level
	// True is the latent outcome Y. It is known only for simulated data and
	// must never be read by an estimator; nil for real data.
	True []Level

	// X, Z1 and Z2 are design matrices (intercept column first) for the
	// true-outcome, first-stage and second-stage mechanisms.
	X, Z1, Z2 *matrix.Dense
}

// NewDataset builds a Dataset from observed outcomes and raw covariate rows.
// Each covariate table must have one (possibly empty) row per observation;
// intercept columns are prepended here.
//
// Errors: ErrInvalidOutcome, ErrShapeMismatch (wrapping matrix errors for
// ragged or non-finite covariates).
func NewDataset(obs1, obs2 []Level, x, z1, z2 [][]float64) (*Dataset, error) {
	n := len(obs1)
	if n == 0 {
		return nil, shapeErrorf("NewDataset: no observations")
	}
	names := [4]string{"obs2", "x", "z1", "z2"}
	for i, rows := range [4]int{len(obs2), len(x), len(z1), len(z2)} {
		if rows != n {
			return nil, shapeErrorf("NewDataset: %s has %d rows, want %d", names[i], rows, n)
		}
	}

	designs := [3]*matrix.Dense{}
	for i, rows := range [3][][]float64{x, z1, z2} {
		d, err := matrix.Design(rows)
		if err != nil {
			return nil, fmt.Errorf("NewDataset: %w: %w", ErrShapeMismatch, err)
		}
		designs[i] = d
	}

	ds := &Dataset{
		Obs1: append([]Level(nil), obs1...),
		Obs2: append([]Level(nil), obs2...),
		X:    designs[0],
		Z1:   designs[1],
		Z2:   designs[2],
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	return ds, nil
}

// N returns the number of observations.
func (d *Dataset) N() int { return len(d.Obs1) }

// Layout returns the coefficient layout implied by the design widths.
func (d *Dataset) Layout() Layout {
	return Layout{Px: d.X.Cols(), Pz1: d.Z1.Cols(), Pz2: d.Z2.Cols()}
}

// Validate checks row counts and outcome coding.
//
// Errors: ErrShapeMismatch, ErrInvalidOutcome.
// Complexity: O(n).
func (d *Dataset) Validate() error {
	if d == nil {
		return shapeErrorf("Dataset: nil")
	}
	n := len(d.Obs1)
	if n == 0 {
		return shapeErrorf("Dataset: no observations")
	}
	if len(d.Obs2) != n {
		return shapeErrorf("Dataset: len(Obs2)=%d, want %d", len(d.Obs2), n)
	}
	if d.True != nil && len(d.True) != n {
		return shapeErrorf("Dataset: len(True)=%d, want %d", len(d.True), n)
	}
	names := [3]string{"X", "Z1", "Z2"}
	for i, m := range [3]*matrix.Dense{d.X, d.Z1, d.Z2} {
		if m == nil {
			return shapeErrorf("Dataset: design %s is nil", names[i])
		}
		if m.Rows() != n {
			return shapeErrorf("Dataset: design %s has %d rows, want %d", names[i], m.Rows(), n)
		}
	}
	if err := validateLevels("Obs1", d.Obs1); err != nil {
		return err
	}
	if err := validateLevels("Obs2", d.Obs2); err != nil {
		return err
	}
	if d.True != nil {
		return validateLevels("True", d.True)
	}

	return nil
}

// Counts returns the 2×2 cross-tabulation of observed outcomes:
// Counts()[k][l] is the number of observations with Y*1=k+1, Y*2=l+1.
func (d *Dataset) Counts() [2][2]int {
	var c [2][2]int
	for i := range d.Obs1 {
		c[d.Obs1[i].Index()][d.Obs2[i].Index()]++
	}

	return c
}
