package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankentry-dev/bankentry/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bankentry",
		Short:   "Personal-finance transaction ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newMergeCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newClearCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
