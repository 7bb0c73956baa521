// SPDX-License-Identifier: MIT

// Package regression fits weighted logistic regressions by iteratively
// reweighted least squares (Newton–Raphson on the log-likelihood).
//
// Responses may be fractional (y ∈ [0,1]) and every observation carries a
// non-negative weight, which is exactly the surrogate an EM M-step maximizes:
// an observation split across two latent classes contributes to each with its
// responsibility as weight. The same solver serves the true-outcome
// mechanism and both misclassification mechanisms.
//
// Each Newton step solves (XᵀWX)·δ = Xᵀ(w∘(y−p)) with the Doolittle LU of the
// matrix package; a singular information matrix (e.g. an empty stratum or
// quasi-separation) is reported as ErrSingularDesign.
package regression
