package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/morinote/dailynote/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded stage runs",
		Long: `History lists stage runs recorded in the local history database,
newest first. Use --date to restrict the listing to a single pipeline
date and --limit to cap the number of rows.

Runs are recorded automatically unless --no-history is set.

Examples:
  # The twenty most recent runs
  dailynote history

  # All runs for one date
  dailynote history --date 2024-03-05 --limit 0`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	addPipelineFlags(cmd)
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 for all)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	// Only list a date filter the user asked for explicitly. buildConfig
	// fills cfg.Date with today, which would hide older runs by default.
	date := ""
	if cmd.Flags().Changed("date") {
		date = cfg.Date
	}

	dbPath := filepath.Join(cfg.HistoryDir, "dailynote.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "no stage runs recorded yet")
		return nil
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	hdb, err := database.Open(cfg.HistoryDir, opts)
	if err != nil {
		return err
	}
	defer hdb.Close()

	runs, err := hdb.ListRuns(context.Background(), date, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no stage runs recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSTAGE\tSTATUS\tSTARTED\tDURATION\tERROR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.Date,
			run.Stage,
			run.Status,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.FinishedAt.Sub(run.StartedAt).Round(10*time.Millisecond),
			run.Error,
		)
	}
	return w.Flush()
}
