package main

import (
	"github.com/spf13/cobra"
)

// NewPublishCmd creates the publish command.
func NewPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the target date's note",
		Long: `Publish prepends the note to docs/notes.json, folds its tag and date
into state.json, and runs the git transaction: stage the changed files,
commit, and push. If the git transaction fails, the index and state are
restored so the local files never claim a publish the remote does not
have.

Requires drafts/<date>.json and docs/images/<date>.webp.

Examples:
  # Publish today's note
  dailynote publish

  # Publish without pushing (local-only repository)
  dailynote publish --no-push`,
		Args: cobra.NoArgs,
		RunE: runPublishCmd,
	}

	addPipelineFlags(cmd)
	cmd.Flags().Bool("no-push", false, "Commit locally without pushing to the remote")
	return cmd
}

// runPublishCmd executes the publish command.
func runPublishCmd(cmd *cobra.Command, _ []string) error {
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

	return a.execute(ctx, a.publishStage(!noPush))
}
