// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/katalvlaran/misclass/em"
	"github.com/katalvlaran/misclass/link"
	"github.com/katalvlaran/misclass/mcmc"
	"github.com/katalvlaran/misclass/model"
	"github.com/spf13/cobra"
)

// jitterScale is the standard deviation of the extra EM starting points.
const jitterScale = 0.5

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(root *RootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Draw a synthetic dataset from the configured truth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			ds, err := obtainDataset(cfg, "")
			if err != nil {
				return err
			}
			if out == "" {
				return writeRecord(cmd.OutOrStdout(), "simulate", toFile(ds))
			}
			raw, err := json.Marshal(toFile(ds))
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return err
			}
			c := ds.Counts()

			return writeRecord(cmd.OutOrStdout(), "simulate", map[string]any{"path": out, "n": ds.N(), "counts": c})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the dataset JSON here instead of stdout")

	return cmd
}

// fitEM runs the configured EM (multi-start when em.starts > 1).
func fitEM(cmd *cobra.Command, root *RootOptions, ds *model.Dataset, start model.Params, starts int, opts []em.Option) (*em.Result, error) {
	opts = append(opts, em.WithLogger(root.logger(cmd)))
	if starts <= 1 {
		return em.Fit(cmd.Context(), ds, start, opts...)
	}
	seed, _ := cmd.Flags().GetInt64("jitter-seed")
	mr, err := em.FitMultiStart(cmd.Context(), ds, em.JitteredStarts(start, starts, jitterScale, seed), opts...)
	if err != nil {
		return nil, err
	}

	return mr.BestResult(), nil
}

// NewEMCommand creates the em command.
func NewEMCommand(root *RootOptions) *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "em",
		Short: "Fit the model by expectation maximization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			ds, err := obtainDataset(cfg, dataPath)
			if err != nil {
				return err
			}
			start, err := cfg.StartParams(ds.Layout())
			if err != nil {
				return err
			}
			res, err := fitEM(cmd, root, ds, start, cfg.EM.Starts, cfg.EMOptions())
			if err != nil {
				return err
			}

			return writeRecord(cmd.OutOrStdout(), "em", emRecord(res, cfg.EM.Starts))
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "dataset JSON (simulated from the config when empty)")
	cmd.Flags().Int64("jitter-seed", 1, "seed of the extra EM starting points")

	return cmd
}

// NewMCMCCommand creates the mcmc command.
func NewMCMCCommand(root *RootOptions) *cobra.Command {
	var (
		dataPath  string
		withDraws bool
	)
	cmd := &cobra.Command{
		Use:   "mcmc",
		Short: "Sample the posterior with independent Metropolis chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			ds, err := obtainDataset(cfg, dataPath)
			if err != nil {
				return err
			}
			l := ds.Layout()
			start, err := cfg.StartParams(l)
			if err != nil {
				return err
			}
			prior, err := cfg.Prior(l)
			if err != nil {
				return err
			}
			opts := append(cfg.MCMCOptions(), mcmc.WithLogger(root.logger(cmd)))
			res, err := mcmc.Run(cmd.Context(), ds, start, prior, opts...)
			if err != nil {
				return err
			}

			return writeRecord(cmd.OutOrStdout(), "mcmc", mcmcRecord(res, withDraws))
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "dataset JSON (simulated from the config when empty)")
	cmd.Flags().BoolVar(&withDraws, "draws", false, "include every retained draw")

	return cmd
}

// NewRunCommand creates the run command: simulate, EM, then MCMC started at
// the EM estimate.
func NewRunCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate, fit by EM, then sample from the EM estimate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			ds, err := obtainDataset(cfg, "")
			if err != nil {
				return err
			}
			l := ds.Layout()
			start, err := cfg.StartParams(l)
			if err != nil {
				return err
			}
			fit, err := fitEM(cmd, root, ds, start, cfg.EM.Starts, cfg.EMOptions())
			if err != nil {
				return err
			}
			prior, err := cfg.Prior(l)
			if err != nil {
				return err
			}
			mstart := fit.Params
			if !prior.Contains(l, mstart) {
				root.logger(cmd).Warn("em estimate outside prior support, sampling from the configured start")
				mstart = start
			}
			opts := append(cfg.MCMCOptions(), mcmc.WithLogger(root.logger(cmd)))
			post, err := mcmc.Run(cmd.Context(), ds, mstart, prior, opts...)
			if err != nil {
				return err
			}

			return writeRecord(cmd.OutOrStdout(), "run", map[string]any{
				"n":      ds.N(),
				"counts": ds.Counts(),
				"em":     emRecord(fit, cfg.EM.Starts),
				"mcmc":   mcmcRecord(post, false),
			})
		},
	}
	cmd.Flags().Int64("jitter-seed", 1, "seed of the extra EM starting points")

	return cmd
}

type tableRow struct {
	Row    int     `json:"row"`
	True   int     `json:"true"`
	Stage1 int     `json:"stage1,omitempty"`
	Stage2 int     `json:"stage2,omitempty"`
	Prob   float64 `json:"prob"`
}

// NewTableCommand creates the table command: the probability table of one
// mechanism under the configured start (or truth) for a dataset's covariates.
func NewTableCommand(root *RootOptions) *cobra.Command {
	var (
		dataPath string
		stage    int
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the probability table of one mechanism",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			ds, err := obtainDataset(cfg, dataPath)
			if err != nil {
				return err
			}
			p, err := cfg.StartParams(ds.Layout())
			if err != nil {
				return err
			}
			var t link.Table
			switch stage {
			case 0:
				t, err = link.TrueOutcomeTable(p.Beta, ds.X)
			case 1:
				t, err = link.Stage1Table(p.Gamma1, ds.Z1)
			case 2:
				t, err = link.Stage2Table(p.Gamma2, ds.Z2)
			default:
				return fmt.Errorf("--stage %d: want 0, 1 or 2", stage)
			}
			if err != nil {
				return err
			}
			rows := make([]tableRow, len(t.Entries))
			for i, e := range t.Entries {
				rows[i] = tableRow{Row: e.Row, True: int(e.True), Stage1: int(e.Stage1), Stage2: int(e.Stage2), Prob: e.Prob}
			}

			return writeRecord(cmd.OutOrStdout(), "table", rows)
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "dataset JSON (simulated from the config when empty)")
	cmd.Flags().IntVar(&stage, "stage", 1, "mechanism: 0 true outcome, 1 first stage, 2 second stage")

	return cmd
}
