// SPDX-License-Identifier: MIT

// Package config loads a YAML run description: how to simulate data, the
// true and starting parameters, and the EM and MCMC settings. Keys left out
// of the file keep the defaults of Default(); Validate rejects values the
// estimators would refuse, so errors surface before any work starts.
//
//	seed: 123
//	data:
//	  n: 1000
//	  xMean: [0]
//	  xSigma: [1]
//	  z1Shape: [1]
//	  z2Shape: [1]
//	truth:
//	  beta: [1, -2]
//	  gamma1: [[0.5, 1], [-0.5, -1]]
//	  gamma2: [[[1.5, 1], [-0.5, 0]], [[0.5, 0.5], [-1, -1]]]
//	em:
//	  tolerance: 1e-7
//	  maxIterations: 1500
//	mcmc:
//	  chains: 3
//	  samples: 2000
//	  burnIn: 500
//	  prior: {lower: -10, upper: 10}
//
// gamma1 is indexed [j] (true level) and gamma2 [k][j] (first-stage level,
// true level), each holding intercept-first coefficients of the free level.
// mcmc.prior.cells replaces the common bounds with one lower and one upper
// value per coefficient, written in the same shape:
//
//	mcmc:
//	  prior:
//	    cells:
//	      lower: {beta: [0, -4], gamma1: ..., gamma2: ...}
//	      upper: {beta: [2, -1], gamma1: ..., gamma2: ...}
package config
