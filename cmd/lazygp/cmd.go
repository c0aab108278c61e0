// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lazygp/config"
	"github.com/katalvlaran/lazygp/kernel"
	"github.com/katalvlaran/lazygp/matrix"
)

// scenario carries the flags shared by every subcommand.
type scenario struct {
	readings int
	gridSize int
	seed     int64
	exact    bool
	verbose  bool

	logLengthscale float64
	logNoise       float64
}

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	sc := &scenario{}
	root := &cobra.Command{
		Use:           "lazygp",
		Short:         "Iterative GP linear algebra on a KISS-GP covariance",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	pf := root.PersistentFlags()
	pf.IntVar(&sc.readings, "readings", 200, "number of simulated sensor readings")
	pf.IntVar(&sc.gridSize, "grid", 100, "inducing grid size")
	pf.Int64Var(&sc.seed, "seed", 2024, "seed for the simulated readings")
	pf.BoolVar(&sc.exact, "exact", false, "use dense log-dets and exact traces instead of SLQ")
	pf.BoolVar(&sc.verbose, "verbose", false, "log solver diagnostics")
	pf.Float64Var(&sc.logLengthscale, "log-lengthscale", math.Log(0.5), "initial log lengthscale")
	pf.Float64Var(&sc.logNoise, "log-noise", math.Log(0.5), "initial log noise")

	root.AddCommand(trainCmd(sc), logDetCmd(sc))

	return root
}

func (sc *scenario) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if sc.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.OutOrStdout(), &slog.HandlerOptions{Level: level}))
}

func (sc *scenario) config(cmd *cobra.Command, logger *slog.Logger) *config.Config {
	opts := []config.Option{config.WithLogger(logger)}
	if cmd.Flags().Changed("exact") {
		opts = append(opts, config.WithFastest(!sc.exact))
	}

	return config.FromEnv(opts...)
}

// sensorReadings simulates a smooth temperature drift with measurement noise.
func (sc *scenario) sensorReadings() ([]float64, *matrix.Dense, error) {
	if sc.readings < 2 {
		return nil, nil, fmt.Errorf("--readings must be at least 2, got %d", sc.readings)
	}
	rng := config.RandFromSeed(sc.seed)
	x := make([]float64, sc.readings)
	y := make([]float64, sc.readings)
	for i := range x {
		x[i] = float64(i) / float64(sc.readings-1)
		y[i] = math.Sin(8*x[i]) + 0.5*math.Cos(3*x[i]) + 0.1*rng.NormFloat64()
	}
	labels, err := matrix.NewVector(y)
	if err != nil {
		return nil, nil, err
	}

	return x, labels, nil
}

func (sc *scenario) interpolation(x []float64) (*kernel.GridInterpolation, error) {
	grid, err := kernel.NewGrid(sc.gridSize, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	gi, err := kernel.NewGridInterpolation(x, grid, 0)
	if err != nil {
		return nil, fmt.Errorf("interpolation: %w", err)
	}

	return gi, nil
}
