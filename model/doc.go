// SPDX-License-Identifier: MIT

// Package model defines the data and parameter structures shared by the
// generator and both estimators.
//
// A Dataset holds, per observation, the two observed proxies Y*1 and Y*2,
// optionally the latent true outcome Y (simulation only), and three design
// matrices (X for the true-outcome mechanism, Z1 and Z2 for the two
// observation mechanisms), each with a leading intercept column.
//
// Params stores only the free coefficient cells of the three logit
// mechanisms; the reference level of every dependent variable is level 2
// and its coefficients are identically zero:
//
//	P(Y=1   | x)              = logistic(x·Beta)
//	P(Y*1=1 | Y=j, z1)        = logistic(z1·Gamma1[j-1])
//	P(Y*2=1 | Y*1=k, Y=j, z2) = logistic(z2·Gamma2[k-1][j-1])
//
// Layout maps the free cells onto a flat vector (used by samplers, Hessians
// and summaries) and names each coordinate. Prior describes a uniform prior
// with tagged cells: Free{lower, upper} or FixedAtZero for reference cells.
package model
