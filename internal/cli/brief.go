package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"grove.dev/grove/internal/scan"
)

// newBriefCmd creates the brief command
func newBriefCmd() *cobra.Command {
	var (
		base       string
		patterns   []string
		designPath string
		noGithub   bool
	)

	cmd := &cobra.Command{
		Use:   "brief [branch-or-path]",
		Short: "Print a restart brief for a worktree",
		Long: `Brief renders a resumable snapshot for one worktree: where to cd, the
branch's dirty and divergence state, its open warnings, and suggested next
steps. With no argument and several worktrees, prompts for one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			setup, err := newScanSetup(ctx, base, patterns, designPath, noGithub)
			if err != nil {
				return err
			}

			snapshot := setup.Scanner.Scan(ctx, setup.Options)

			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			worktree, err := pickWorktree(snapshot, target)
			if err != nil {
				return err
			}

			brief := scan.GenerateRestartBrief(scan.BriefInput{
				Worktree:       *worktree,
				Nodes:          snapshot.Nodes,
				Warnings:       snapshot.Warnings,
				NamingPatterns: setup.Options.NamingPatterns,
			})

			fmt.Fprintln(cmd.OutOrStdout(), brief.CdCommand)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), brief.RestartPromptMd)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch (defaults to configured trunk, then origin/HEAD, then main)")
	cmd.Flags().StringArrayVar(&patterns, "pattern", nil, "Branch naming rule (regular expression, repeatable)")
	cmd.Flags().StringVar(&designPath, "design", "", "Design tree file (defaults to .grove/design.yaml)")
	cmd.Flags().BoolVar(&noGithub, "no-github", false, "Skip pull request collection")

	return cmd
}

// pickWorktree resolves the target worktree from the snapshot: by branch or
// path when given, the only one when unambiguous, otherwise by interactive
// selection.
func pickWorktree(snapshot *scan.Snapshot, target string) (*scan.WorktreeFact, error) {
	var worktrees []scan.WorktreeFact
	for _, node := range snapshot.Nodes {
		if node.Worktree != nil {
			worktrees = append(worktrees, *node.Worktree)
		}
	}
	if len(worktrees) == 0 {
		return nil, fmt.Errorf("no worktrees found")
	}

	if target != "" {
		for i := range worktrees {
			if worktrees[i].Branch == target || worktrees[i].Path == target {
				return &worktrees[i], nil
			}
		}
		return nil, fmt.Errorf("no worktree matches %q", target)
	}

	if len(worktrees) == 1 {
		return &worktrees[0], nil
	}

	labels := make([]string, len(worktrees))
	for i, wt := range worktrees {
		label := fmt.Sprintf("%s (%s)", wt.Branch, wt.Path)
		if wt.Dirty {
			label += " [dirty]"
		}
		labels[i] = label
	}

	var selected int
	prompt := &survey.Select{
		Message: "Which worktree?",
		Options: labels,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}
	return &worktrees[selected], nil
}
