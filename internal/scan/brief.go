package scan

import (
	"fmt"
	"strings"
)

// maxBriefSuggestions caps the suggested next actions in a restart brief.
const maxBriefSuggestions = 3

// BriefInput is everything the restart brief generator needs. It performs
// no decision-making beyond templating; missing optional fields render as
// empty sections.
type BriefInput struct {
	Worktree       WorktreeFact
	Nodes          []TopologyNode
	Warnings       []Warning
	NamingPatterns []string
}

// GenerateRestartBrief renders a human-readable snapshot for resuming work
// in a worktree: where to cd, the state of its branch, the warnings scoped
// to it, and up to three suggested next actions.
func GenerateRestartBrief(in BriefInput) RestartBrief {
	branch := in.Worktree.Branch

	var node *TopologyNode
	for i := range in.Nodes {
		if in.Nodes[i].BranchName == branch {
			node = &in.Nodes[i]
			break
		}
	}

	scoped := warningsForBranch(in.Warnings, branch)

	var b strings.Builder
	fmt.Fprintf(&b, "# Restart brief: %s\n\n", branch)

	if len(in.NamingPatterns) > 0 {
		b.WriteString("## Branch naming rules\n\n")
		for _, pattern := range in.NamingPatterns {
			fmt.Fprintf(&b, "- `%s`\n", pattern)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Where you are\n\n")
	fmt.Fprintf(&b, "- Branch: `%s`\n", branch)
	fmt.Fprintf(&b, "- Worktree: `%s`\n", in.Worktree.Path)
	if in.Worktree.Dirty {
		b.WriteString("- Working copy: dirty (uncommitted changes)\n")
	} else {
		b.WriteString("- Working copy: clean\n")
	}
	if in.Worktree.IsActive && in.Worktree.ActiveAgent != "" {
		fmt.Fprintf(&b, "- Active agent: %s\n", in.Worktree.ActiveAgent)
	}
	if node != nil && node.AheadBehind != nil {
		fmt.Fprintf(&b, "- Divergence from parent: %d ahead, %d behind\n",
			node.AheadBehind.Ahead, node.AheadBehind.Behind)
	}
	b.WriteString("\n")

	b.WriteString("## Open warnings\n\n")
	if len(scoped) == 0 {
		b.WriteString("None.\n")
	} else {
		for _, warning := range scoped {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", warning.Severity, warning.Code, warning.Message)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Suggested next steps\n\n")
	for _, suggestion := range suggestions(scoped, branch) {
		fmt.Fprintf(&b, "- %s\n", suggestion)
	}

	return RestartBrief{
		CdCommand:       fmt.Sprintf("cd %s", in.Worktree.Path),
		RestartPromptMd: b.String(),
	}
}

// warningsForBranch filters warnings whose meta names the branch.
func warningsForBranch(warnings []Warning, branch string) []Warning {
	var scoped []Warning
	for _, warning := range warnings {
		if name, ok := warning.Meta["branch"].(string); ok && name == branch {
			scoped = append(scoped, warning)
		}
	}
	return scoped
}

// suggestions maps warnings directly to next actions, capped at three, with
// a generic fallback when there is nothing to fix.
func suggestions(warnings []Warning, branch string) []string {
	var out []string
	for _, warning := range warnings {
		if len(out) == maxBriefSuggestions {
			break
		}
		switch warning.Code {
		case CodeBehindParent:
			out = append(out, fmt.Sprintf("Rebase %s onto its parent to pick up missing commits", branch))
		case CodeDirty:
			out = append(out, "Commit or stash the uncommitted changes before switching tasks")
		case CodeCIFail:
			out = append(out, "Investigate the failing checks on the open pull request")
		case CodeNamingViolation:
			out = append(out, fmt.Sprintf("Rename %s to match the configured naming rules", branch))
		case CodeTreeDivergence:
			out = append(out, fmt.Sprintf("Create or re-parent %s to match the design tree", branch))
		}
	}
	if len(out) == 0 {
		out = append(out, fmt.Sprintf("Continue working on %s", branch))
	}
	return out
}
