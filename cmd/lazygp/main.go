// SPDX-License-Identifier: MIT

// Command lazygp runs structured-kernel GP scenarios on simulated sensor
// data: fitting KISS-GP hyperparameters by gradient ascent on the exact
// marginal log-likelihood, and comparing stochastic and exact log-dets.
//
// Tunables come from LAZYGP_* environment variables (see package config);
// flags override them.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := NewCLI().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
