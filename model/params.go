// SPDX-License-Identifier: MIT

package model

import "math"

// Params holds the free coefficient cells of the three mechanisms.
// Indices are zero-based level indices (Level.Index()).
type Params struct {
	// Beta are the coefficients of P(Y=1|x); len == Layout.Px.
	Beta []float64
	// Gamma1[j] are the coefficients of P(Y*1=1|Y=j+1, z1); len == Layout.Pz1.
	Gamma1 [2][]float64
	// Gamma2[k][j] are the coefficients of P(Y*2=1|Y*1=k+1, Y=j+1, z2); len == Layout.Pz2.
	Gamma2 [2][2][]float64
}

// Clone returns a deep copy; the result shares no storage with p.
func (p Params) Clone() Params {
	var out Params
	out.Beta = append([]float64(nil), p.Beta...)
	for j := 0; j < 2; j++ {
		out.Gamma1[j] = append([]float64(nil), p.Gamma1[j]...)
		for k := 0; k < 2; k++ {
			out.Gamma2[k][j] = append([]float64(nil), p.Gamma2[k][j]...)
		}
	}

	return out
}

// Validate checks every coefficient vector against the layout and rejects
// non-finite values.
//
// Errors: ErrShapeMismatch.
func (p Params) Validate(l Layout) error {
	if err := checkVec("Beta", p.Beta, l.Px); err != nil {
		return err
	}
	for j := 0; j < 2; j++ {
		if err := checkVec("Gamma1", p.Gamma1[j], l.Pz1); err != nil {
			return err
		}
		for k := 0; k < 2; k++ {
			if err := checkVec("Gamma2", p.Gamma2[k][j], l.Pz2); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkVec verifies len(v) == want and that every value is finite.
func checkVec(name string, v []float64, want int) error {
	if len(v) != want {
		return shapeErrorf("%s has %d coefficients, want %d", name, len(v), want)
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return shapeErrorf("%s[%d] is not finite", name, i)
		}
	}

	return nil
}

// Equal reports whether p and q hold identical coefficients.
func (p Params) Equal(q Params) bool {
	if !equalVec(p.Beta, q.Beta) {
		return false
	}
	for j := 0; j < 2; j++ {
		if !equalVec(p.Gamma1[j], q.Gamma1[j]) {
			return false
		}
		for k := 0; k < 2; k++ {
			if !equalVec(p.Gamma2[k][j], q.Gamma2[k][j]) {
				return false
			}
		}
	}

	return true
}

func equalVec(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// ZeroParams returns all-zero coefficients shaped by l.
func ZeroParams(l Layout) Params {
	var p Params
	p.Beta = make([]float64, l.Px)
	for j := 0; j < 2; j++ {
		p.Gamma1[j] = make([]float64, l.Pz1)
		for k := 0; k < 2; k++ {
			p.Gamma2[k][j] = make([]float64, l.Pz2)
		}
	}

	return p
}
