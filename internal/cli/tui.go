package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"grove.dev/grove/internal/output"
	"grove.dev/grove/internal/tui"
)

// newTuiCmd creates the tui command
func newTuiCmd() *cobra.Command {
	var (
		base       string
		patterns   []string
		designPath string
		noGithub   bool
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the branch topology in a scrollable viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !output.IsTerminal() {
				return fmt.Errorf("tui requires a terminal; use 'grove scan' instead")
			}

			setup, err := newScanSetup(ctx, base, patterns, designPath, noGithub)
			if err != nil {
				return err
			}

			setup.Splog.SetQuiet(true)
			snapshot := setup.Scanner.Scan(ctx, setup.Options)
			setup.Splog.SetQuiet(false)

			currentBranch, _ := setup.Reader.CurrentBranch(ctx)
			content := renderSnapshot(snapshot, currentBranch, true)

			title := fmt.Sprintf("grove · %s", setup.RepoRoot)
			return tui.Run(title, content)
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch (defaults to configured trunk, then origin/HEAD, then main)")
	cmd.Flags().StringArrayVar(&patterns, "pattern", nil, "Branch naming rule (regular expression, repeatable)")
	cmd.Flags().StringVar(&designPath, "design", "", "Design tree file (defaults to .grove/design.yaml)")
	cmd.Flags().BoolVar(&noGithub, "no-github", false, "Skip pull request collection")

	return cmd
}
