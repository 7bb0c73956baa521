// SPDX-License-Identifier: MIT

// Package link computes logit-link probabilities for the three binary
// mechanisms: the true outcome Y, the first-stage proxy Y*1 and the
// second-stage proxy Y*2.
//
// Every mechanism uses level 2 as the reference category, so for a linear
// predictor η = coef·row
//
//	P(level 1) = exp(η)/(1+exp(η)),   P(level 2) = 1/(1+exp(η)).
//
// Logs are taken in log-sum-exp form, log P(level 1) = η − log(e⁰+e^η), which
// stays finite for any finite η.
//
// The table builders (TrueOutcomeTable, Stage1Table, Stage2Table) enumerate
// every combination of conditioning and dependent levels for every design row;
// for each fixed conditioning context the dependent dimension sums to one.
package link
