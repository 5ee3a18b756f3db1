package main

import (
	"github.com/spf13/cobra"
)

// NewCollectCmd creates the collect command.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Gather search material for the target date",
		Long: `Collect queries the search API once per configured keyword, scoped to
the target date, deduplicates the results by canonical URL, and writes
the material set to materials/<date>.json. Re-running collect replaces
the material set.

The search credential is read from the BRAVE_API_KEY environment
variable.

Examples:
  # Collect today's material
  dailynote collect

  # Collect for a specific date
  dailynote collect --date 2024-03-05`,
		Args: cobra.NoArgs,
		RunE: runCollectCmd,
	}

	addPipelineFlags(cmd)
	return cmd
}

// runCollectCmd executes the collect command.
func runCollectCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	stage, err := a.collectStage(cfg.Date)
	if err != nil {
		return err
	}
	return a.execute(ctx, stage)
}
