package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/morinote/dailynote/internal/report"
	"github.com/morinote/dailynote/internal/store"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show publish statistics for the note repository",
		Long: `Status reads the note index and aggregate state from the repository
and renders a summary: total notes, last publish date, monthly counts,
topic tags, and the most recent notes.

A repository with no published notes yet renders an empty summary
rather than an error.

Examples:
  # Human-readable summary on stdout
  dailynote status

  # Markdown summary written to a file
  dailynote status --markdown --output status.md`,
		Args: cobra.NoArgs,
		RunE: runStatusCmd,
	}

	addPipelineFlags(cmd)
	cmd.Flags().BoolP("markdown", "m", false, "Render the summary as Markdown")
	cmd.Flags().StringP("output", "o", "", "Write the summary to a file instead of stdout")
	cmd.Flags().Int("limit", 10, "Number of recent notes to include")

	return cmd
}

// runStatusCmd executes the status command.
func runStatusCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	markdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	status, err := report.Load(store.New(cfg.BaseDir), limit)
	if err != nil {
		return err
	}

	// Determine output destination
	var output *os.File
	if outputPath != "" {
		dir := filepath.Dir(outputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	if markdown {
		writer = report.NewMarkdownWriter(output)
	} else {
		writer = report.NewSimpleWriter(output)
	}
	_, err = writer.WriteStatus(status)
	return err
}
