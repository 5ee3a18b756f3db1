package main

import (
	"github.com/spf13/cobra"

	"github.com/morinote/dailynote/internal/pipeline"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline for the target date",
		Long: `Run executes collect, draft, illustrate, and publish in sequence for
the target date. The pipeline halts on the first failing stage and
leaves the earlier artifacts in place, so a later invocation of the
failed stage's command resumes the day where it stopped.

Examples:
  # Run today's pipeline
  dailynote run

  # Run a specific date without pushing
  dailynote run --date 2024-03-05 --no-push`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	addPipelineFlags(cmd)
	addTimeoutFlag(cmd)
	cmd.Flags().Bool("no-push", false, "Commit locally without pushing to the remote")
	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	noPush, err := cmd.Flags().GetBool("no-push")
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

	collect, err := a.collectStage(cfg.Date)
	if err != nil {
		return err
	}

	stages := []pipeline.Stage{
		collect,
		a.draftStage(),
		a.illustrateStage(),
		a.publishStage(!noPush),
	}
	return a.execute(ctx, stages...)
}
