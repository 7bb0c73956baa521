// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra kernels used by the
// estimators: a row-major Dense type with safe accessors, shape validators,
// matrix-vector products, weighted Gram products for iteratively reweighted
// least squares, Doolittle LU, Inverse and a linear solver.
//
// Design matrices for logistic mechanisms are built with Design, which
// prepends the intercept column so that an observation with no covariates
// still carries a one-column design row.
//
// All public functions return sentinel errors (see errors.go) wrapped with an
// operation tag; callers match them with errors.Is. Loops run in a fixed
// order, so results are bit-for-bit reproducible for identical inputs.
package matrix
