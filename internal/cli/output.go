// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"io"
	"math"

	"github.com/google/uuid"
	"github.com/katalvlaran/misclass/em"
	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/mcmc"
	"github.com/katalvlaran/misclass/posterior"
)

// Record is the JSON envelope every command writes.
type Record struct {
	RunID   string `json:"run_id"`
	Command string `json:"command"`
	Data    any    `json:"data"`
}

// writeRecord encodes data under a fresh time-ordered run id.
func writeRecord(w io.Writer, command string, data any) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(Record{RunID: id.String(), Command: command, Data: data})
}

// num maps non-finite values to JSON null.
func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}

type estimateOut struct {
	Name     string   `json:"name"`
	Value    float64  `json:"value"`
	StdError *float64 `json:"std_error"`
}

type accuracyOut struct {
	Sensitivity float64 `json:"sensitivity"`
	Specificity float64 `json:"specificity"`
}

func accuracy(a link.Accuracy) accuracyOut {
	return accuracyOut{Sensitivity: a.Sensitivity, Specificity: a.Specificity}
}

type emOut struct {
	State            string         `json:"state"`
	Converged        bool           `json:"converged"`
	Warning          string         `json:"warning,omitempty"`
	Iterations       int            `json:"iterations"`
	LogLik           float64        `json:"loglik"`
	Swaps            int            `json:"swaps"`
	InnerUnconverged int            `json:"innerUnconverged"`
	Estimates        []estimateOut  `json:"estimates"`
	Stage1           accuracyOut    `json:"stage1"`
	Stage2           [2]accuracyOut `json:"stage2"`
	Starts           int            `json:"starts"`
}

func emRecord(r *em.Result, starts int) emOut {
	out := emOut{
		State:            r.State.String(),
		Converged:        r.Converged,
		Iterations:       r.Iterations,
		LogLik:           r.LogLik,
		Swaps:            r.Swaps,
		InnerUnconverged: r.InnerUnconverged,
		Stage1:           accuracy(r.Stage1),
		Stage2:           [2]accuracyOut{accuracy(r.Stage2[0]), accuracy(r.Stage2[1])},
		Starts:           starts,
	}
	if w := r.Warning(); w != nil {
		out.Warning = w.Error()
	}
	for _, e := range r.Estimates {
		out.Estimates = append(out.Estimates, estimateOut{Name: e.Name, Value: e.Value, StdError: num(e.StdError)})
	}

	return out
}

type paramOut struct {
	Name       string    `json:"name"`
	Mean       float64   `json:"mean"`
	SD         *float64  `json:"sd"`
	Q025       float64   `json:"q025"`
	Q50        float64   `json:"q50"`
	Q975       float64   `json:"q975"`
	RHat       *float64  `json:"rhat"`
	ChainMeans []float64 `json:"chain_means"`
}

func summaryRecord(s *posterior.Summary) []paramOut {
	if s == nil {
		return nil
	}
	out := make([]paramOut, len(s.Params))
	for i, p := range s.Params {
		out[i] = paramOut{
			Name: p.Name, Mean: p.Mean, SD: num(p.SD),
			Q025: p.Q025, Q50: p.Q50, Q975: p.Q975,
			RHat: num(p.RHat), ChainMeans: p.ChainMeans,
		}
	}

	return out
}

type mcmcOut struct {
	Draws      int         `json:"draws"`
	Stopped    bool        `json:"stopped"`
	Warning    string      `json:"warning,omitempty"`
	Acceptance []float64   `json:"acceptance"`
	Swaps      []int       `json:"swaps"`
	Posterior  []paramOut  `json:"posterior"`
	Naive      []paramOut  `json:"naive,omitempty"`
	Samples    []mcmc.Draw `json:"samples,omitempty"`
}

func mcmcRecord(r *mcmc.Result, withDraws bool) mcmcOut {
	out := mcmcOut{
		Draws:     len(r.Draws),
		Stopped:   r.Stopped,
		Swaps:     r.Swaps,
		Posterior: summaryRecord(r.Summary),
		Naive:     summaryRecord(r.NaiveSummary),
	}
	if w := r.Warning(); w != nil {
		out.Warning = w.Error()
	}
	for c := range r.Acceptance {
		out.Acceptance = append(out.Acceptance, r.ChainAcceptance(c))
	}
	if withDraws {
		out.Samples = r.Draws
	}

	return out
}
