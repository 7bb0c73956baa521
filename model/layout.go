// SPDX-License-Identifier: MIT

package model

import "fmt"

// Block identifies the mechanism a flat coordinate belongs to.
type Block uint8

const (
	// BlockBeta marks true-outcome coefficients.
	BlockBeta Block = iota
	// BlockGamma1 marks first-stage misclassification coefficients.
	BlockGamma1
	// BlockGamma2 marks second-stage misclassification coefficients.
	BlockGamma2
)

// Layout fixes the width of each coefficient vector (intercept included) and
// the flat ordering of free cells:
//
//	beta, gamma1[j=1], gamma1[j=2],
//	gamma2[k=1,j=1], gamma2[k=1,j=2], gamma2[k=2,j=1], gamma2[k=2,j=2]
type Layout struct {
	Px  int // columns of X
	Pz1 int // columns of Z1
	Pz2 int // columns of Z2
}

// Dim returns the number of free coordinates.
func (l Layout) Dim() int { return l.Px + 2*l.Pz1 + 4*l.Pz2 }

// Validate rejects non-positive widths.
func (l Layout) Validate() error {
	if l.Px <= 0 || l.Pz1 <= 0 || l.Pz2 <= 0 {
		return shapeErrorf("Layout{%d,%d,%d}: widths must be > 0", l.Px, l.Pz1, l.Pz2)
	}

	return nil
}

// gamma1Offset returns the flat offset of Gamma1[j].
func (l Layout) gamma1Offset(j int) int { return l.Px + j*l.Pz1 }

// gamma2Offset returns the flat offset of Gamma2[k][j].
func (l Layout) gamma2Offset(k, j int) int { return l.Px + 2*l.Pz1 + (2*k+j)*l.Pz2 }

// Block returns the mechanism of flat coordinate i.
func (l Layout) Block(i int) Block {
	switch {
	case i < l.Px:
		return BlockBeta
	case i < l.Px+2*l.Pz1:
		return BlockGamma1
	default:
		return BlockGamma2
	}
}

// Flatten copies the coefficients of p into a new flat vector.
// p must satisfy p.Validate(l).
func (l Layout) Flatten(p Params) []float64 {
	v := make([]float64, l.Dim())
	copy(v, p.Beta)
	for j := 0; j < 2; j++ {
		copy(v[l.gamma1Offset(j):], p.Gamma1[j])
		for k := 0; k < 2; k++ {
			copy(v[l.gamma2Offset(k, j):], p.Gamma2[k][j])
		}
	}

	return v
}

// Bind returns Params whose coefficient slices alias v: writes to v are seen
// through the returned Params and vice versa. Samplers use this to update
// single coordinates without re-packing.
//
// Errors: ErrShapeMismatch when len(v) != l.Dim().
func (l Layout) Bind(v []float64) (Params, error) {
	if len(v) != l.Dim() {
		return Params{}, shapeErrorf("Bind: len(v)=%d, want %d", len(v), l.Dim())
	}
	var p Params
	p.Beta = v[:l.Px:l.Px]
	for j := 0; j < 2; j++ {
		o := l.gamma1Offset(j)
		p.Gamma1[j] = v[o : o+l.Pz1 : o+l.Pz1]
		for k := 0; k < 2; k++ {
			o = l.gamma2Offset(k, j)
			p.Gamma2[k][j] = v[o : o+l.Pz2 : o+l.Pz2]
		}
	}

	return p, nil
}

// Unflatten returns an independent copy of v as Params.
func (l Layout) Unflatten(v []float64) (Params, error) {
	p, err := l.Bind(v)
	if err != nil {
		return Params{}, err
	}

	return p.Clone(), nil
}

// Names returns a label per flat coordinate, with 1-based levels and 0-based
// coefficient indices (0 is the intercept):
//
//	beta[i], gamma1[k,j][i], gamma2[l,k,j][i]
//
// Only the free observed level (1) appears in gamma labels.
func (l Layout) Names() []string {
	names := make([]string, 0, l.Dim())
	for i := 0; i < l.Px; i++ {
		names = append(names, fmt.Sprintf("beta[%d]", i))
	}
	for j := 0; j < 2; j++ {
		for i := 0; i < l.Pz1; i++ {
			names = append(names, fmt.Sprintf("gamma1[1,%d][%d]", j+1, i))
		}
	}
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < l.Pz2; i++ {
				names = append(names, fmt.Sprintf("gamma2[1,%d,%d][%d]", k+1, j+1, i))
			}
		}
	}

	return names
}
