// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lazygp/lazy"
	"github.com/katalvlaran/lazygp/slq"
)

// logDetCmd contrasts the stochastic Lanczos estimate of log|K| with the
// dense Cholesky value.
func logDetCmd(sc *scenario) *cobra.Command {
	return &cobra.Command{
		Use:   "logdet",
		Short: "Compare the SLQ log-determinant estimate with the Cholesky value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := sc.logger(cmd)
			cfg := sc.config(cmd, logger)

			x, _, err := sc.sensorReadings()
			if err != nil {
				return err
			}
			gi, err := sc.interpolation(x)
			if err != nil {
				return err
			}
			cov, err := gi.Covariance(sc.logLengthscale, sc.logNoise)
			if err != nil {
				return err
			}
			n, _ := cov.Size()
			op := lazy.MatmulClosure(cov)

			estimate, err := slq.New(cfg).LogDet(op, n)
			if err != nil {
				return err
			}
			exact, err := slq.ExactLogDet(op, n)
			if err != nil {
				return err
			}
			logger.Info("log-determinant",
				"slq", estimate,
				"exact", exact,
				"probes", cfg.NumTraceSamples,
				"lanczos_steps", cfg.NumLanczosSteps)

			return nil
		},
	}
}
