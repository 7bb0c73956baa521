// Package misclass estimates a binary outcome that is only ever observed
// through two sequential, independently misclassified proxies.
//
// 🚀 What is misclass?
//
//	A small estimation engine for association studies with imperfect,
//	two-stage outcome ascertainment:
//		• Link layer: stable logistic probabilities and probability tables
//		• Data generator: seeded synthetic datasets with a known truth
//		• Label-switching corrector: one canonical latent orientation
//		• EM: weighted-IRLS M-steps, convergence states, standard errors
//		• MCMC: concurrent Metropolis chains, uniform priors, naive baseline
//		• Posterior summaries: means, spread, quantiles, R-hat
//
// The model, with level 2 as the reference of every mechanism:
//
//	P(Y=1 | x)               = logistic(x·beta)
//	P(Y*1=1 | Y=j, z1)       = logistic(z1·gamma1[j])
//	P(Y*2=1 | Y*1=k, Y=j, z2) = logistic(z2·gamma2[k][j])
//
// Packages, leaf first:
//
//	matrix/       dense matrices, LU, weighted Gram products, design matrices
//	model/        levels, datasets, parameters, layouts, tagged priors
//	link/         logistic link, per-row distributions, probability tables
//	likelihood/   observed-data log-likelihood, responsibilities, evaluator
//	regression/   weighted logistic IRLS with fractional responses
//	simulate/     synthetic data from known parameters
//	labelswitch/  deterministic relabeling rule
//	em/           expectation maximization, multi-start
//	mcmc/         multi-chain random-walk Metropolis
//	posterior/    draw pooling and summaries
//	config/       YAML run descriptions
//	cmd/misclass  command line: simulate, em, mcmc, run, table
//
// Quick start:
//
//	ds, _ := simulate.Generate(1000, cov, truth, simulate.WithSeed(123))
//	fit, _ := em.Fit(ctx, ds, start)
//	post, _ := mcmc.Run(ctx, ds, fit.Params, model.UniformPrior(ds.Layout(), -10, 10))
//
// Everything numeric stays numeric: rendering, plots and reports are left to
// the caller.
package misclass
