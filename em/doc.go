// SPDX-License-Identifier: MIT

// Package em fits the two-stage misclassification model by expectation
// maximization.
//
// Each iteration:
//
//   - E-step: responsibilities w_ij = P(Y=j | Y*1_i, Y*2_i, x_i, z1_i, z2_i)
//     under the current parameters (likelihood.Responsibilities).
//   - M-step: the expected complete-data log-likelihood separates by
//     mechanism, so each block is a weighted logistic fit (regression.Logistic):
//     beta with fractional response w_i1; gamma1[j] with response 1{Y*1=1}
//     and weights w_ij; gamma2[k][j] with response 1{Y*2=1} and weights
//     w_ij·1{Y*1=k}. Fits are warm-started from the current values.
//   - Label correction (labelswitch.Correct) against the previous accepted
//     estimate.
//   - Convergence: |ΔlogLik| below the tolerance (or below the relative
//     tolerance times |logLik|).
//
// A fit moves Initialized → Iterating → {Converged, MaxIterationsReached,
// Canceled}. The last two are non-fatal: the best estimate so far is returned
// together with Result.Warning(). A singular inner regression is fatal and
// reported as an *IterationError carrying the iteration number.
//
// Standard errors come from the inverse of the negative numeric Hessian of
// the observed-data log-likelihood at the estimate (gonum diff/fd).
//
// Independent fits from several starting points run concurrently through
// FitMultiStart.
package em
