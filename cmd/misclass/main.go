// SPDX-License-Identifier: MIT

// Command misclass simulates and fits two-stage misclassification models.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/katalvlaran/misclass/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "misclass:", err)
		stop()
		os.Exit(1)
	}
}
