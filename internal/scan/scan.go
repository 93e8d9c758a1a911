package scan

import (
	"context"

	"grove.dev/grove/internal/output"
)

// Options configures one pipeline run.
type Options struct {
	// Base is the integration branch. Defaults to "main".
	Base string
	// NamingPatterns are the branch naming rules, as regular expressions.
	NamingPatterns []string
	// Design is the user-declared branch structure, or nil.
	Design *DesignTree
}

// Scanner runs the scan pipeline: fact collection, ancestry inference,
// topology assembly, divergence, lint. One call is one sequential run with
// no internal caching; concurrent scans are independent instances.
type Scanner struct {
	git   GitReader
	prs   PullRequestSource
	splog *output.Splog
}

// NewScanner creates a Scanner. prs may be nil when pull request data is
// unavailable (no token, no remote).
func NewScanner(gitReader GitReader, prs PullRequestSource, splog *output.Splog) *Scanner {
	if splog == nil {
		splog = output.NewSplog()
	}
	return &Scanner{git: gitReader, prs: prs, splog: splog}
}

// Scan runs the full pipeline and returns a point-in-time snapshot. It
// never fails: every external-tool error degrades to partial data, because
// a best-effort snapshot is always preferable to no snapshot.
func (s *Scanner) Scan(ctx context.Context, opts Options) *Snapshot {
	base := opts.Base
	if base == "" {
		base = "main"
	}
	if opts.Design != nil && opts.Design.BaseBranch != "" {
		base = opts.Design.BaseBranch
	}

	collector := NewCollector(s.git, s.prs, s.splog)
	branches := collector.CollectBranches(ctx)
	worktrees := collector.CollectWorktrees(ctx)
	pullRequests := collector.CollectPullRequests(ctx)

	nodes, edges := BuildTopology(ctx, BuildInput{
		Base:         base,
		Branches:     branches,
		Worktrees:    worktrees,
		PullRequests: pullRequests,
	}, s.git)

	edges = mergeDesignEdges(edges, opts.Design, nodes)

	ComputeDivergence(ctx, nodes, edges, base, s.git)

	warnings := Lint(nodes, edges, LintConfig{
		Base:           base,
		NamingPatterns: opts.NamingPatterns,
		Design:         opts.Design,
	})

	return &Snapshot{
		BaseBranch: base,
		Nodes:      nodes,
		Edges:      edges,
		Warnings:   warnings,
	}
}

// mergeDesignEdges reconciles design-tree assertions with the inferred edge
// set: an assertion matching an inferred edge marks it as designed, an
// assertion between two existing branches is added as a design-only edge,
// and assertions naming branches that don't exist yet are left to the
// linter's divergence pass.
func mergeDesignEdges(edges []Edge, design *DesignTree, nodes []TopologyNode) []Edge {
	if design == nil {
		return edges
	}

	exists := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		exists[node.BranchName] = true
	}

	for _, declared := range design.Edges {
		matched := false
		for i := range edges {
			if edges[i].Parent == declared.Parent && edges[i].Child == declared.Child {
				edges[i].IsDesigned = true
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if exists[declared.Parent] && exists[declared.Child] {
			edges = append(edges, Edge{
				Parent:     declared.Parent,
				Child:      declared.Child,
				IsDesigned: true,
			})
		}
	}

	return edges
}
