// Package cli wires the grove commands together.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "grove",
		Short: "Grove visualizes and lints the tree of branches grown from a base branch",
		Long: `Grove scans a repository and infers which branch each branch was cut from,
how far each has diverged, and whether its worktree, CI and review state are
healthy. The result is checked against your declared design tree.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newBriefCmd())
	rootCmd.AddCommand(newTuiCmd())

	return rootCmd
}
