// SPDX-License-Identifier: MIT

package link

import (
	"fmt"

	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
)

// TableKind identifies which mechanism a Table enumerates.
type TableKind uint8

const (
	// TrueOutcome tables enumerate (row, Y).
	TrueOutcome TableKind = iota + 1
	// Stage1 tables enumerate (row, Y, Y*1).
	Stage1
	// Stage2 tables enumerate (row, Y, Y*1, Y*2).
	Stage2
)

// arity returns the number of level coordinates per entry.
func (k TableKind) arity() int { return int(k) }

// Entry is one cell of a probability table. Unused level fields are zero:
// a TrueOutcome entry only sets True; a Stage1 entry sets True and Stage1.
type Entry struct {
	Row    int
	True   model.Level
	Stage1 model.Level
	Stage2 model.Level
	Prob   float64
}

// Table lists, for each design row, the probability of every combination of
// levels. Entries are ordered by row, then True, then Stage1, then Stage2,
// with level 1 before level 2, so an entry's position is computable.
//
// Stage1 entries give P(Y*1=Stage1 | Y=True, z1); Stage2 entries give
// P(Y*2=Stage2 | Y*1=Stage1, Y=True, z2); TrueOutcome entries give P(Y=True | x).
type Table struct {
	Kind    TableKind
	Rows    int
	Entries []Entry
}

// width is the number of entries per row.
func (t Table) width() int { return 1 << t.Kind.arity() }

// Select returns, per row, the probability of one level combination. levels
// are given in entry order (True[, Stage1[, Stage2]]) and their count must
// equal the table's arity.
//
// Errors: model.ErrShapeMismatch (wrong arity), model.ErrInvalidOutcome.
func (t Table) Select(levels ...model.Level) ([]float64, error) {
	if len(levels) != t.Kind.arity() {
		return nil, fmt.Errorf("link: Select: %d levels for arity %d: %w", len(levels), t.Kind.arity(), model.ErrShapeMismatch)
	}
	off := 0
	for _, l := range levels {
		if !l.Valid() {
			return nil, fmt.Errorf("link: Select: level %d: %w", int(l), model.ErrInvalidOutcome)
		}
		off = off*2 + l.Index()
	}
	w := t.width()
	out := make([]float64, t.Rows)
	for i := range out {
		out[i] = t.Entries[i*w+off].Prob
	}

	return out, nil
}

// TrueOutcomeTable returns P(Y=y|x) for every row of X and both levels.
//
// Errors: model.ErrShapeMismatch.
func TrueOutcomeTable(beta []float64, X *matrix.Dense) (Table, error) {
	if err := checkCoef("beta", beta, X); err != nil {
		return Table{}, err
	}
	n := X.Rows()
	t := Table{Kind: TrueOutcome, Rows: n, Entries: make([]Entry, 0, 2*n)}
	for i := 0; i < n; i++ {
		p := Logistic(Eta(beta, X.Row(i)))
		t.Entries = append(t.Entries,
			Entry{Row: i, True: model.Level1, Prob: p},
			Entry{Row: i, True: model.Level2, Prob: 1 - p},
		)
	}

	return t, nil
}

// Stage1Table returns P(Y*1=k | Y=j, z1) for every row of Z1 and every (j, k).
//
// Errors: model.ErrShapeMismatch.
func Stage1Table(gamma1 [2][]float64, Z1 *matrix.Dense) (Table, error) {
	for j := 0; j < 2; j++ {
		if err := checkCoef("gamma1", gamma1[j], Z1); err != nil {
			return Table{}, err
		}
	}
	n := Z1.Rows()
	t := Table{Kind: Stage1, Rows: n, Entries: make([]Entry, 0, 4*n)}
	for i := 0; i < n; i++ {
		row := Z1.Row(i)
		for _, j := range model.Levels {
			p := Logistic(Eta(gamma1[j.Index()], row))
			t.Entries = append(t.Entries,
				Entry{Row: i, True: j, Stage1: model.Level1, Prob: p},
				Entry{Row: i, True: j, Stage1: model.Level2, Prob: 1 - p},
			)
		}
	}

	return t, nil
}

// Stage2Table returns P(Y*2=l | Y*1=k, Y=j, z2) for every row of Z2 and every
// (j, k, l).
//
// Errors: model.ErrShapeMismatch.
func Stage2Table(gamma2 [2][2][]float64, Z2 *matrix.Dense) (Table, error) {
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			if err := checkCoef("gamma2", gamma2[k][j], Z2); err != nil {
				return Table{}, err
			}
		}
	}
	n := Z2.Rows()
	t := Table{Kind: Stage2, Rows: n, Entries: make([]Entry, 0, 8*n)}
	for i := 0; i < n; i++ {
		row := Z2.Row(i)
		for _, j := range model.Levels {
			for _, k := range model.Levels {
				p := Logistic(Eta(gamma2[k.Index()][j.Index()], row))
				t.Entries = append(t.Entries,
					Entry{Row: i, True: j, Stage1: k, Stage2: model.Level1, Prob: p},
					Entry{Row: i, True: j, Stage1: k, Stage2: model.Level2, Prob: 1 - p},
				)
			}
		}
	}

	return t, nil
}
