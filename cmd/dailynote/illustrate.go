package main

import (
	"github.com/spf13/cobra"
)

// NewIllustrateCmd creates the illustrate command.
func NewIllustrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "illustrate",
		Short: "Generate the image for the target date's note",
		Long: `Illustrate builds an image prompt from the draft's title and opening
sentences and renders a 1024x1024 WebP to docs/images/<date>.webp. The
configured external generator is tried first; when it is missing or
keeps failing, a placeholder image is written instead so the publish
stage is never blocked on artwork.

Requires drafts/<date>.json (run draft first) and an explicit --date:
the image belongs to one specific draft, so the date is never inferred.

Examples:
  dailynote illustrate --date 2024-03-05`,
		Args: cobra.NoArgs,
		RunE: runIllustrateCmd,
	}

	addPipelineFlags(cmd)
	if err := cmd.MarkFlagRequired("date"); err != nil {
		panic(err)
	}
	return cmd
}

// runIllustrateCmd executes the illustrate command.
func runIllustrateCmd(cmd *cobra.Command, _ []string) error {
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

	return a.execute(ctx, a.illustrateStage())
}
