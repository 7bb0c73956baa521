// SPDX-License-Identifier: MIT

// Package simulate draws synthetic two-stage misclassification datasets from
// known parameters. It exists to validate the estimators: the latent true
// outcome is kept on the returned Dataset so recovered coefficients and
// classification rates can be compared against the truth.
//
// Per observation the draws happen in a fixed order:
//
//	x  ~ Normal(XMean, XSigma)   per covariate column
//	z1 ~ Gamma(Z1Shape, rate 1)  per covariate column
//	z2 ~ Gamma(Z2Shape, rate 1)  per covariate column
//	Y   | x          ~ Bernoulli(logistic(x·beta))
//	Y*1 | Y, z1      ~ Bernoulli(logistic(z1·gamma1[Y]))
//	Y*2 | Y*1, Y, z2 ~ Bernoulli(logistic(z2·gamma2[Y*1][Y]))
//
// where a Bernoulli success is level 1. Every random number comes from a
// single owned stream; WithSeed makes the whole dataset reproducible.
package simulate
