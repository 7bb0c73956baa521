// SPDX-License-Identifier: MIT

// Package labelswitch resolves the labeling ambiguity of the latent outcome.
//
// Relabeling Y (level 1 ↔ level 2) everywhere yields a model with exactly the
// same observed-data likelihood, so both estimators can drift between the two
// equivalent orientations. Correct maps an estimate onto one canonical
// orientation with a deterministic rule:
//
//  1. Compute the first-stage Youden index J = sens + spec − 1, where sens and
//     spec are the mean first-stage sensitivity and specificity over the rows
//     of z1. Relabeling negates J.
//  2. If J < −tol the proxy would be worse than chance: relabel.
//  3. If |J| ≤ tol the first stage carries no orientation; keep whichever
//     orientation is nearer (Euclidean, over free coefficients) to the
//     reference. Exact ties keep the current orientation.
//
// The rule is idempotent: the corrected estimate has J ≥ −tol, or is the
// nearer of the pair, so a second call never relabels again.
//
// Relabeling negates beta (the reference level's coefficients are fixed at
// zero, so swapping the outcome levels flips the contrast), exchanges the
// true-level index j of gamma1 and of gamma2 within each first-stage level k.
// Observed levels k and ℓ are data and keep their meaning.
package labelswitch
