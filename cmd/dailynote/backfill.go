package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/morinote/dailynote/internal/pipeline"
)

// NewBackfillCmd creates the backfill command.
func NewBackfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Collect material for a range of past dates",
		Long: `Backfill runs the collect stage for every date in an inclusive range,
several dates at a time. Each date gets its own material set, so
collects for distinct dates are safe to run concurrently; drafting and
publishing remain per-date commands.

Examples:
  # Collect a week of material
  dailynote backfill --from 2024-03-01 --to 2024-03-07

  # Limit concurrency for a strict rate limit
  dailynote backfill --from 2024-03-01 --to 2024-03-07 --concurrency 2`,
		Args: cobra.NoArgs,
		RunE: runBackfillCmd,
	}

	addPipelineFlags(cmd)
	cmd.Flags().String("from", "", "First date of the range (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Last date of the range (YYYY-MM-DD)")
	cmd.Flags().Int("concurrency", 4, "Maximum number of concurrent collects")
	if err := cmd.MarkFlagRequired("from"); err != nil {
		panic(err)
	}
	if err := cmd.MarkFlagRequired("to"); err != nil {
		panic(err)
	}

	return cmd
}

// runBackfillCmd executes the backfill command.
func runBackfillCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	from, err := cmd.Flags().GetString("from")
	if err != nil {
		return err
	}
	to, err := cmd.Flags().GetString("to")
	if err != nil {
		return err
	}
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}

	dates, err := pipeline.DateRange(from, to)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// Probe the credential once up front instead of once per date.
	if _, err := a.collectStage(dates[0]); err != nil {
		return err
	}

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	batch := pipeline.NewBatchCollector(a.runner, func(date string) pipeline.Stage {
		stage, _ := a.collectStage(date) // credential verified above
		return stage
	},
		pipeline.WithBatchConcurrency(concurrency),
		pipeline.WithBatchLogger(a.logger),
	)

	results, err := batch.Collect(ctx, dates)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "collect failed for %s: %v\n", result.Date, result.Err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "backfill finished: %d collected, %d failed\n",
		len(results)-failed, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d dates failed", failed, len(results))
	}
	return nil
}
