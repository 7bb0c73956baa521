// SPDX-License-Identifier: MIT

package labelswitch

import (
	"fmt"

	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
	"gonum.org/v1/gonum/floats"
)

// Swap returns p with the latent outcome relabeled. p is not modified.
func Swap(p model.Params) model.Params {
	q := p.Clone()
	SwapInPlace(&q)

	return q
}

// SwapInPlace relabels the latent outcome of *p without allocating.
// Slices aliased by *p (for example through model.Layout.Bind) see the
// change: vectors are exchanged by value, not by header.
func SwapInPlace(p *model.Params) {
	floats.Scale(-1, p.Beta)
	swapVec(p.Gamma1[0], p.Gamma1[1])
	for k := 0; k < 2; k++ {
		swapVec(p.Gamma2[k][0], p.Gamma2[k][1])
	}
}

func swapVec(a, b []float64) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}

// Youden returns the mean first-stage Youden index of p over the rows of z1.
//
// Errors: model.ErrShapeMismatch.
func Youden(p model.Params, z1 *matrix.Dense) (float64, error) {
	acc, err := link.Stage1Accuracy(p.Gamma1, z1)
	if err != nil {
		return 0, fmt.Errorf("labelswitch: %w", err)
	}

	return acc.Youden(), nil
}

// Correct returns current in the canonical orientation and whether it was
// relabeled. reference breaks the tie when the first stage is
// uninformative; pass the previous accepted estimate, or the starting values
// on the first call. current and reference are not modified.
//
// Errors: model.ErrShapeMismatch when current and reference disagree in
// shape, or gamma1 does not fit z1.
func Correct(current, reference model.Params, z1 *matrix.Dense, opts ...Option) (model.Params, bool, error) {
	swap, err := NeedsSwap(current, reference, z1, opts...)
	if err != nil {
		return model.Params{}, false, err
	}
	if swap {
		return Swap(current), true, nil
	}

	return current.Clone(), false, nil
}

// NeedsSwap applies the decision rule of Correct without building a result.
//
// Errors: model.ErrShapeMismatch.
func NeedsSwap(current, reference model.Params, z1 *matrix.Dense, opts ...Option) (bool, error) {
	o := gatherOptions(opts...)
	j, err := Youden(current, z1)
	if err != nil {
		return false, err
	}
	switch {
	case j < -o.tol:
		return true, nil
	case j > o.tol:
		return false, nil
	}

	l := model.Layout{Px: len(current.Beta), Pz1: len(current.Gamma1[0]), Pz2: len(current.Gamma2[0][0])}
	if err := current.Validate(l); err != nil {
		return false, fmt.Errorf("labelswitch: current: %w", err)
	}
	if err := reference.Validate(l); err != nil {
		return false, fmt.Errorf("labelswitch: reference: %w", err)
	}
	cur := l.Flatten(current)
	ref := l.Flatten(reference)
	alt := l.Flatten(Swap(current))

	return floats.Distance(alt, ref, 2) < floats.Distance(cur, ref, 2), nil
}
