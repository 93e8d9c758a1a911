package scan

import (
	"fmt"
	"regexp"

	"grove.dev/grove/internal/github"
)

// behindErrorThreshold is the behind-parent commit count at which a warning
// escalates to an error.
const behindErrorThreshold = 5

// LintConfig configures the topology linter.
type LintConfig struct {
	Base           string
	NamingPatterns []string    // regular expressions; invalid ones are skipped
	Design         *DesignTree // nil disables the reconciliation pass
}

// Lint evaluates the fixed rule set against the annotated graph and returns
// zero or more warnings. Rules are independent: a node can trigger several,
// and evaluation order only affects enumeration order, never the set.
func Lint(nodes []TopologyNode, edges []Edge, cfg LintConfig) []Warning {
	var warnings []Warning

	patterns := compilePatterns(cfg.NamingPatterns)

	for _, node := range nodes {
		warnings = append(warnings, lintBehindParent(node)...)
		warnings = append(warnings, lintDirty(node)...)
		warnings = append(warnings, lintCIFail(node)...)
		warnings = append(warnings, lintNaming(node, cfg.Base, patterns, cfg.NamingPatterns)...)
	}

	if cfg.Design != nil {
		warnings = append(warnings, lintTreeDivergence(cfg.Design, edges)...)
	}

	return warnings
}

func lintBehindParent(node TopologyNode) []Warning {
	if node.AheadBehind == nil || node.AheadBehind.Behind == 0 {
		return nil
	}

	severity := SeverityWarn
	if node.AheadBehind.Behind >= behindErrorThreshold {
		severity = SeverityError
	}
	return []Warning{{
		Severity: severity,
		Code:     CodeBehindParent,
		Message:  fmt.Sprintf("%s is %d commit(s) behind its parent", node.BranchName, node.AheadBehind.Behind),
		Meta: map[string]any{
			"branch": node.BranchName,
			"behind": node.AheadBehind.Behind,
		},
	}}
}

func lintDirty(node TopologyNode) []Warning {
	if node.Worktree == nil || !node.Worktree.Dirty {
		return nil
	}
	return []Warning{{
		Severity: SeverityWarn,
		Code:     CodeDirty,
		Message:  fmt.Sprintf("worktree %s has uncommitted changes", node.Worktree.Path),
		Meta: map[string]any{
			"branch": node.BranchName,
			"path":   node.Worktree.Path,
		},
	}}
}

func lintCIFail(node TopologyNode) []Warning {
	if node.PR == nil || node.PR.ChecksState != github.ChecksFailing {
		return nil
	}
	return []Warning{{
		Severity: SeverityError,
		Code:     CodeCIFail,
		Message:  fmt.Sprintf("checks are failing on PR #%d for %s", node.PR.Number, node.BranchName),
		Meta: map[string]any{
			"branch": node.BranchName,
			"pr":     node.PR.Number,
		},
	}}
}

func lintNaming(node TopologyNode, base string, patterns []*regexp.Regexp, raw []string) []Warning {
	if len(patterns) == 0 || node.BranchName == base {
		return nil
	}
	for _, pattern := range patterns {
		if pattern.MatchString(node.BranchName) {
			return nil
		}
	}
	return []Warning{{
		Severity: SeverityWarn,
		Code:     CodeNamingViolation,
		Message:  fmt.Sprintf("%s does not match any configured naming pattern", node.BranchName),
		Meta: map[string]any{
			"branch":   node.BranchName,
			"patterns": raw,
		},
	}}
}

// lintTreeDivergence flags design-tree edges with no matching (parent,
// child) pair among the edges inferred from git. The design tree is the
// declaration being verified against reality, never the other way around.
func lintTreeDivergence(design *DesignTree, edges []Edge) []Warning {
	var warnings []Warning
	for _, declared := range design.Edges {
		if hasInferredEdge(edges, declared.Parent, declared.Child) {
			continue
		}
		warnings = append(warnings, Warning{
			Severity: SeverityWarn,
			Code:     CodeTreeDivergence,
			Message:  fmt.Sprintf("design tree declares %s → %s but git history shows no such edge", declared.Parent, declared.Child),
			Meta: map[string]any{
				"branch": declared.Child,
				"parent": declared.Parent,
				"reason": "missing_in_git",
			},
		})
	}
	return warnings
}

func hasInferredEdge(edges []Edge, parent, child string) bool {
	for _, edge := range edges {
		if edge.InferredFromGit() && edge.Parent == parent && edge.Child == child {
			return true
		}
	}
	return false
}

// compilePatterns compiles naming patterns, silently dropping ones that do
// not compile. A bad pattern must never make a scan fail.
func compilePatterns(raw []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(raw))
	for _, expr := range raw {
		re, err := regexp.Compile(expr)
		if err != nil {
			continue
		}
		patterns = append(patterns, re)
	}
	return patterns
}
