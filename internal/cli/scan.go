package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newScanCmd creates the scan command
func newScanCmd() *cobra.Command {
	var (
		base       string
		patterns   []string
		designPath string
		noGithub   bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the repository and print the branch topology",
		Long: `Scan collects branch, worktree and pull request facts, infers the branch
tree, computes divergence, and lints the result.

Exits with status 1 when any error-severity warning is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			setup, err := newScanSetup(ctx, base, patterns, designPath, noGithub)
			if err != nil {
				return err
			}

			snapshot := setup.Scanner.Scan(ctx, setup.Options)

			if asJSON {
				data, err := json.MarshalIndent(snapshot, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to serialize snapshot: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				currentBranch, _ := setup.Reader.CurrentBranch(ctx)
				fmt.Fprint(cmd.OutOrStdout(), renderSnapshot(snapshot, currentBranch, useColor()))
			}

			if hasErrors(snapshot.Warnings) {
				return fmt.Errorf("scan found error-severity warnings")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch (defaults to configured trunk, then origin/HEAD, then main)")
	cmd.Flags().StringArrayVar(&patterns, "pattern", nil, "Branch naming rule (regular expression, repeatable)")
	cmd.Flags().StringVar(&designPath, "design", "", "Design tree file (defaults to .grove/design.yaml)")
	cmd.Flags().BoolVar(&noGithub, "no-github", false, "Skip pull request collection")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot as JSON")

	return cmd
}
