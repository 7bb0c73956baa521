// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/katalvlaran/misclass/config"
	"github.com/katalvlaran/misclass/matrix"
	"github.com/katalvlaran/misclass/model"
	"github.com/katalvlaran/misclass/simulate"
)

// datasetFile is the JSON form of a dataset; covariate rows exclude the
// intercept. True is present only for simulated data.
type datasetFile struct {
	Obs1 []int       `json:"obs1"`
	Obs2 []int       `json:"obs2"`
	True []int       `json:"true,omitempty"`
	X    [][]float64 `json:"x"`
	Z1   [][]float64 `json:"z1"`
	Z2   [][]float64 `json:"z2"`
}

func levels(ls []model.Level) []int {
	if ls == nil {
		return nil
	}
	out := make([]int, len(ls))
	for i, l := range ls {
		out[i] = int(l)
	}

	return out
}

func fromInts(vs []int) []model.Level {
	if vs == nil {
		return nil
	}
	out := make([]model.Level, len(vs))
	for i, v := range vs {
		out[i] = model.Level(v)
	}

	return out
}

func toFile(ds *model.Dataset) datasetFile {
	return datasetFile{
		Obs1: levels(ds.Obs1),
		Obs2: levels(ds.Obs2),
		True: levels(ds.True),
		X:    matrix.Covariates(ds.X),
		Z1:   matrix.Covariates(ds.Z1),
		Z2:   matrix.Covariates(ds.Z2),
	}
}

func (f datasetFile) dataset() (*model.Dataset, error) {
	ds, err := model.NewDataset(fromInts(f.Obs1), fromInts(f.Obs2), f.X, f.Z1, f.Z2)
	if err != nil {
		return nil, err
	}
	if f.True != nil {
		ds.True = fromInts(f.True)
		if err := ds.Validate(); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// readDataset loads a dataset written by the simulate command.
func readDataset(path string) (*model.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f datasetFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	return f.dataset()
}

// obtainDataset reads path when given, otherwise simulates from cfg.
func obtainDataset(cfg *config.Config, path string) (*model.Dataset, error) {
	if path != "" {
		return readDataset(path)
	}
	truth, err := cfg.Truth.Params(cfg.Covariates().Layout())
	if err != nil {
		return nil, err
	}

	return simulate.Generate(cfg.Data.N, cfg.Covariates(), truth, simulate.WithSeed(cfg.Seed))
}
