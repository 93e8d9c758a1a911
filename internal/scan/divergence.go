package scan

import (
	"context"
)

// DivergenceOracle answers the range queries divergence needs.
type DivergenceOracle interface {
	CountLeftRight(ctx context.Context, a, b string) (int, int, error)
	UpstreamRef(ctx context.Context, branch string) (string, error)
}

// ComputeDivergence annotates every non-base node with ahead/behind counts
// against its parent, and against its upstream where one is configured.
//
// The parent is taken from the current edge set, which may contain
// design-tree edges alongside inferred ones; nodes no edge names fall back
// to the base branch. A failing ref comparison (branch deleted mid-scan)
// silently leaves that node un-annotated. Upstream divergence is attached
// only when at least one side is nonzero.
func ComputeDivergence(ctx context.Context, nodes []TopologyNode, edges []Edge, base string, oracle DivergenceOracle) {
	if oracle == nil {
		return
	}

	for i := range nodes {
		node := &nodes[i]
		if node.BranchName == base {
			continue
		}

		parent := parentOf(node.BranchName, edges, base)
		if behind, ahead, err := oracle.CountLeftRight(ctx, parent, node.BranchName); err == nil {
			node.AheadBehind = &AheadBehind{Ahead: ahead, Behind: behind}
		}

		upstream, err := oracle.UpstreamRef(ctx, node.BranchName)
		if err != nil || upstream == "" {
			continue
		}
		if behind, ahead, err := oracle.CountLeftRight(ctx, upstream, node.BranchName); err == nil {
			if ahead != 0 || behind != 0 {
				node.RemoteAheadBehind = &AheadBehind{Ahead: ahead, Behind: behind}
			}
		}
	}
}

// parentOf resolves a branch's parent from the edge set. Edges inferred
// from git win over design-only assertions when both name the same child.
func parentOf(branch string, edges []Edge, base string) string {
	designed := ""
	for _, edge := range edges {
		if edge.Child != branch {
			continue
		}
		if edge.InferredFromGit() {
			return edge.Parent
		}
		if designed == "" {
			designed = edge.Parent
		}
	}
	if designed != "" {
		return designed
	}
	return base
}
