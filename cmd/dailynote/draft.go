package main

import (
	"github.com/spf13/cobra"
)

// NewDraftCmd creates the draft command.
func NewDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Write the note for the target date",
		Long: `Draft builds a prompt from the day's top materials and asks the
configured authoring agent for a note. When the agent is unavailable or
misses its deadline, a deterministic fallback writer produces a short
note instead, so the day still gets an entry.

Requires materials/<date>.json (run collect first).

Examples:
  # Draft today's note
  dailynote draft

  # Draft for a specific date
  dailynote draft --date 2024-03-05

  # Give a slow agent more time
  dailynote draft --timeout 120`,
		Args: cobra.NoArgs,
		RunE: runDraftCmd,
	}

	addPipelineFlags(cmd)
	addTimeoutFlag(cmd)
	return cmd
}

// runDraftCmd executes the draft command.
func runDraftCmd(cmd *cobra.Command, _ []string) error {
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

	return a.execute(ctx, a.draftStage())
}
