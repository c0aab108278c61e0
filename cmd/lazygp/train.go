// SPDX-License-Identifier: MIT

package main

import (
	"math"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lazygp/functions"
	"github.com/katalvlaran/lazygp/kernel"
	"github.com/katalvlaran/lazygp/matrix"
)

func trainCmd(sc *scenario) *cobra.Command {
	var (
		steps     int
		learnRate float64
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the RBF lengthscale and noise by gradient ascent on the marginal log-likelihood",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := sc.logger(cmd)
			cfg := sc.config(cmd, logger)

			x, labels, err := sc.sensorReadings()
			if err != nil {
				return err
			}
			gi, err := sc.interpolation(x)
			if err != nil {
				return err
			}
			f := functions.NewFactory(gi.MatmulClosureFactory(), gi.DerivativeQuadraticFormFactory(), cfg)

			ll, ln := sc.logLengthscale, sc.logNoise
			one, _ := matrix.NewDenseFrom(1, 1, []float64{1})
			for step := 0; step < steps; step++ {
				node := f.ExactGPMLL()
				mll, err := node.Forward(append(kernel.Hyper(ll, ln), labels)...)
				if err != nil {
					return err
				}
				node.SetNeedsInputGrad(true, true, false)
				grads, err := node.Backward(one)
				if err != nil {
					return err
				}
				ll += learnRate * grads[0].RawData()[0]
				ln += learnRate * grads[1].RawData()[0]
				logger.Info("step",
					"n", step,
					"mll", mll.RawData()[0],
					"lengthscale", math.Exp(ll),
					"noise", math.Exp(ln))
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 25, "gradient ascent steps")
	cmd.Flags().Float64Var(&learnRate, "lr", 0.02, "learning rate")

	return cmd
}
