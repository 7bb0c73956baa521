// SPDX-License-Identifier: MIT

// Package posterior reduces tagged MCMC draws to per-parameter summaries.
//
// Draws from every chain are pooled for the mean, standard deviation and
// empirical quantiles of each named coordinate. Per-chain means and the
// Gelman–Rubin potential scale reduction (R-hat) are kept alongside so mixing
// can be judged without going back to the raw draws.
package posterior
