// SPDX-License-Identifier: MIT

// Package mcmc samples the posterior of the two-stage misclassification model
// under a uniform prior with independent random-walk Metropolis chains.
//
// One sweep of a chain visits every free coordinate in model.Layout order:
//
//   - propose v' = v + s·N(0,1) for that coordinate alone;
//   - reject outright when v' leaves the prior support (density zero there,
//     likelihood not evaluated);
//   - otherwise accept with probability min(1, L(v')/L(v)); the uniform prior
//     cancels inside its support.
//
// Only the mechanism owning the coordinate is recomputed
// (likelihood.Evaluator). After each sweep the label corrector runs against
// the previous state; a relabeling is kept only if the relabeled state is
// still inside the prior support. The first burn-in sweeps are discarded;
// during them step sizes adapt toward a 0.44 acceptance rate and are frozen
// afterwards.
//
// A naive model that treats Y*1 as the true outcome (beta only) is sampled in
// the same chain with its own state, for comparison.
//
// Chains run concurrently and share nothing but the read-only dataset. Each
// chain owns a PCG stream seeded from a master stream, so results depend only
// on the seed and the chain count. Cancellation is checked between sweeps;
// a stopped run returns the draws retained so far with Result.Stopped set.
package mcmc
