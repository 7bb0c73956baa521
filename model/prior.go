// SPDX-License-Identifier: MIT

package model

import "math"

// cellKind tags a prior cell.
type cellKind uint8

const (
	kindFixedAtZero cellKind = iota // reference cell; never sampled
	kindFree                        // uniform(lower, upper)
)

// Cell is one coefficient's prior: either Free{lower, upper} (uniform) or
// FixedAtZero for reference-level cells. The zero value is FixedAtZero.
type Cell struct {
	kind         cellKind
	lower, upper float64
}

// Free returns a uniform prior cell on (lower, upper).
// Ordering and finiteness are checked by Prior.Validate.
func Free(lower, upper float64) Cell {
	return Cell{kind: kindFree, lower: lower, upper: upper}
}

// FixedAtZero returns a reference cell held at zero.
func FixedAtZero() Cell { return Cell{kind: kindFixedAtZero} }

// IsFree reports whether c is a sampled cell.
func (c Cell) IsFree() bool { return c.kind == kindFree }

// Bounds returns the support of a free cell; ok is false for FixedAtZero.
func (c Cell) Bounds() (lower, upper float64, ok bool) {
	if c.kind != kindFree {
		return 0, 0, false
	}

	return c.lower, c.upper, true
}

// Prior is a uniform prior over the full coefficient tensors, indexed by
// dependent level first:
//
//	Beta[y][i]          y = outcome level index
//	Gamma1[k][j][i]     k = observed stage-1 level, j = true level
//	Gamma2[l][k][j][i]  l = observed stage-2 level
//
// Cells with a dependent level of 2 (index 1) are reference cells and must be
// FixedAtZero; all others must be Free with finite lower < upper.
type Prior struct {
	Beta   [2][]Cell
	Gamma1 [2][2][]Cell
	Gamma2 [2][2][2][]Cell
}

// UniformPrior returns a prior with every free cell on (lower, upper).
func UniformPrior(l Layout, lower, upper float64) Prior {
	var p Prior
	p.Beta[0] = fill(l.Px, Free(lower, upper))
	p.Beta[1] = fill(l.Px, FixedAtZero())
	for j := 0; j < 2; j++ {
		p.Gamma1[0][j] = fill(l.Pz1, Free(lower, upper))
		p.Gamma1[1][j] = fill(l.Pz1, FixedAtZero())
		for k := 0; k < 2; k++ {
			p.Gamma2[0][k][j] = fill(l.Pz2, Free(lower, upper))
			p.Gamma2[1][k][j] = fill(l.Pz2, FixedAtZero())
		}
	}

	return p
}

func fill(n int, c Cell) []Cell {
	out := make([]Cell, n)
	for i := range out {
		out[i] = c
	}

	return out
}

// Validate checks shapes against l and the free/reference contract.
//
// Errors: ErrInvalidPrior (wrapping the offending cell), ErrShapeMismatch.
func (p Prior) Validate(l Layout) error {
	if err := validateCells("beta[1]", p.Beta[0], l.Px, true); err != nil {
		return err
	}
	if err := validateCells("beta[2]", p.Beta[1], l.Px, false); err != nil {
		return err
	}
	for j := 0; j < 2; j++ {
		for k := 0; k < 2; k++ {
			if err := validateCells(cellName("gamma1", k, j), p.Gamma1[k][j], l.Pz1, k == 0); err != nil {
				return err
			}
		}
		for k := 0; k < 2; k++ {
			for ll := 0; ll < 2; ll++ {
				if err := validateCells(cellName("gamma2", ll, k, j), p.Gamma2[ll][k][j], l.Pz2, ll == 0); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// cellName renders a tensor cell label with 1-based levels.
func cellName(base string, idx ...int) string {
	s := base + "["
	for i, v := range idx {
		if i > 0 {
			s += ","
		}
		s += Level(v + 1).String()
	}

	return s + "]"
}

func validateCells(name string, cells []Cell, want int, free bool) error {
	if len(cells) != want {
		return shapeErrorf("prior %s has %d cells, want %d", name, len(cells), want)
	}
	for i, c := range cells {
		if !free {
			if c.IsFree() {
				return priorErrorf("prior %s[%d]: reference cell must be FixedAtZero", name, i)
			}
			continue
		}
		lo, hi, ok := c.Bounds()
		if !ok {
			return priorErrorf("prior %s[%d]: free cell marked FixedAtZero", name, i)
		}
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return priorErrorf("prior %s[%d]: bounds (%g, %g) not finite", name, i, lo, hi)
		}
		if !(lo < hi) {
			return priorErrorf("prior %s[%d]: lower %g not below upper %g", name, i, lo, hi)
		}
	}

	return nil
}

// Flatten returns the bounds of the free cells in Layout order. The prior
// must satisfy Validate(l).
func (p Prior) Flatten(l Layout) (lower, upper []float64) {
	lower = make([]float64, 0, l.Dim())
	upper = make([]float64, 0, l.Dim())
	add := func(cells []Cell) {
		for _, c := range cells {
			lo, hi, _ := c.Bounds()
			lower = append(lower, lo)
			upper = append(upper, hi)
		}
	}
	add(p.Beta[0])
	for j := 0; j < 2; j++ {
		add(p.Gamma1[0][j])
	}
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			add(p.Gamma2[0][k][j])
		}
	}

	return lower, upper
}

// Contains reports whether every free coordinate of params lies strictly
// inside its bounds.
func (p Prior) Contains(l Layout, params Params) bool {
	lower, upper := p.Flatten(l)
	v := l.Flatten(params)
	for i := range v {
		if !(v[i] > lower[i] && v[i] < upper[i]) {
			return false
		}
	}

	return true
}

// Bounds is a sentinel-marked bound tensor as produced by array-oriented
// callers: NaN marks an unused (reference) cell.
type Bounds struct {
	Beta   [2][]float64
	Gamma1 [2][2][]float64
	Gamma2 [2][2][2][]float64
}

// PriorFromBounds converts paired lower/upper sentinel arrays into a tagged
// Prior. A cell is FixedAtZero when both arrays hold NaN and Free when both
// hold numbers; mixed marking, mismatched lengths, or unordered bounds are
// rejected.
//
// Errors: ErrInvalidPrior.
func PriorFromBounds(lower, upper Bounds) (Prior, error) {
	var (
		p   Prior
		err error
	)
	if p.Beta[0], err = toCells("beta[1]", lower.Beta[0], upper.Beta[0]); err != nil {
		return Prior{}, err
	}
	if p.Beta[1], err = toCells("beta[2]", lower.Beta[1], upper.Beta[1]); err != nil {
		return Prior{}, err
	}
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			if p.Gamma1[k][j], err = toCells(cellName("gamma1", k, j), lower.Gamma1[k][j], upper.Gamma1[k][j]); err != nil {
				return Prior{}, err
			}
			for ll := 0; ll < 2; ll++ {
				name := cellName("gamma2", ll, k, j)
				if p.Gamma2[ll][k][j], err = toCells(name, lower.Gamma2[ll][k][j], upper.Gamma2[ll][k][j]); err != nil {
					return Prior{}, err
				}
			}
		}
	}

	return p, nil
}

func toCells(name string, lo, hi []float64) ([]Cell, error) {
	if len(lo) != len(hi) {
		return nil, priorErrorf("bounds %s: lower has %d cells, upper %d", name, len(lo), len(hi))
	}
	out := make([]Cell, len(lo))
	for i := range lo {
		loUnused, hiUnused := math.IsNaN(lo[i]), math.IsNaN(hi[i])
		switch {
		case loUnused && hiUnused:
			out[i] = FixedAtZero()
		case loUnused != hiUnused:
			return nil, priorErrorf("bounds %s[%d]: unused in one array only", name, i)
		case !(lo[i] < hi[i]):
			return nil, priorErrorf("bounds %s[%d]: lower %g not below upper %g", name, i, lo[i], hi[i])
		default:
			out[i] = Free(lo[i], hi[i])
		}
	}

	return out, nil
}

// PriorFromParams builds a prior whose free cells are bounded by the matching
// coefficients of lower and upper; reference cells are FixedAtZero. It routes
// through PriorFromBounds, so ordering is checked per cell.
//
// Errors: ErrShapeMismatch (lower or upper does not fit l), ErrInvalidPrior.
func PriorFromParams(l Layout, lower, upper Params) (Prior, error) {
	if err := lower.Validate(l); err != nil {
		return Prior{}, err
	}
	if err := upper.Validate(l); err != nil {
		return Prior{}, err
	}

	return PriorFromBounds(boundsOf(lower), boundsOf(upper))
}

// boundsOf places the free coefficients of p into a sentinel-marked tensor.
func boundsOf(p Params) Bounds {
	unused := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = math.NaN()
		}

		return out
	}
	var b Bounds
	b.Beta = [2][]float64{p.Beta, unused(len(p.Beta))}
	for j := 0; j < 2; j++ {
		b.Gamma1[0][j] = p.Gamma1[j]
		b.Gamma1[1][j] = unused(len(p.Gamma1[j]))
		for k := 0; k < 2; k++ {
			b.Gamma2[0][k][j] = p.Gamma2[k][j]
			b.Gamma2[1][k][j] = unused(len(p.Gamma2[k][j]))
		}
	}

	return b
}
