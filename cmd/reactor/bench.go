package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/bench"
)

func benchCmd(c *cli) *cobra.Command {
	cfg := bench.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time propagation through memo grids",
		Long: `Build a grid of memo chains for every width and height, write the
source signal repeatedly and report flush latency percentiles.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = c.logger
			c.logger.Info("benchmark starting",
				"widths", cfg.Widths, "heights", cfg.Heights, "iterations", cfg.Iterations)

			results, err := bench.Run(cfg)
			if err != nil {
				return err
			}
			bench.Render(cmd.OutOrStdout(), "reactor propagation", results)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&cfg.Widths, "width", cfg.Widths, "grid widths")
	cmd.Flags().IntSliceVar(&cfg.Heights, "height", cfg.Heights, "grid heights")
	cmd.Flags().IntVarP(&cfg.Iterations, "iterations", "n", cfg.Iterations, "updates per grid")
	return cmd
}
