// SPDX-License-Identifier: MIT

package likelihood_test

import (
	"testing"

	"github.com/katalvlaran/misclass/likelihood"
	"github.com/katalvlaran/misclass/model"
	"github.com/katalvlaran/misclass/simulate"
)

func benchData(b *testing.B) *model.Dataset {
	b.Helper()
	cov := simulate.Covariates{XMean: []float64{0}, XSigma: []float64{1}, Z1Shape: []float64{1}, Z2Shape: []float64{1}}
	ds, err := simulate.Generate(5000, cov, params(), simulate.WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}

	return ds
}

func BenchmarkLogLik(b *testing.B) {
	ds := benchData(b)
	p := params()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = likelihood.LogLik(ds, p)
	}
}

// One coordinate update recomputes a single mechanism.
func BenchmarkEvaluatorTry(b *testing.B) {
	ds := benchData(b)
	l := ds.Layout()
	v := l.Flatten(params())
	p, _ := l.Bind(v)
	ev, _, err := likelihood.NewEvaluator(ds, p)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := i % l.Dim()
		v[c] += 1e-3
		_ = ev.Try(p, l.Block(c))
	}
}

func BenchmarkResponsibilities(b *testing.B) {
	ds := benchData(b)
	p := params()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = likelihood.Responsibilities(ds, p)
	}
}
