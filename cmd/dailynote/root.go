package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for dailynote.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dailynote",
		Short: "Automated daily note pipeline",
		Long: `dailynote automates a daily content pipeline in four stages:

  collect     gather source material from the search API
  draft       turn the material into a note
  illustrate  generate the note's image
  publish     update the site index and push the commit

Each stage can run on its own to resume a partially completed day, or
all four run in sequence with the run command. The search credential is
read from the BRAVE_API_KEY environment variable.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCollectCmd())
	cmd.AddCommand(NewDraftCmd())
	cmd.AddCommand(NewIllustrateCmd())
	cmd.AddCommand(NewPublishCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewBackfillCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
