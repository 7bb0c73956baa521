// SPDX-License-Identifier: MIT

// Package cli wires the estimators into the misclass command line. Every
// command reads a YAML run description (config.Default when --config is not
// given) and writes one JSON record to stdout; logs go to stderr.
package cli

import (
	"log/slog"

	"github.com/katalvlaran/misclass/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command of the misclass CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "misclass",
		Short:         "Two-stage misclassification estimation",
		Long:          "Simulate and fit a binary outcome observed through two sequential misclassified proxies, by EM and by MCMC.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML run description (defaults when empty)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewEMCommand(opts))
	cmd.AddCommand(NewMCMCCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTableCommand(opts))

	return cmd
}

// load returns the configured run description.
func (o *RootOptions) load() (*config.Config, error) {
	if o.ConfigPath == "" {
		return config.Default(), nil
	}

	return config.Load(o.ConfigPath)
}

// logger builds the stderr logger for cmd.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
