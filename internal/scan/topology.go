package scan

import (
	"context"

	"grove.dev/grove/internal/github"
)

// BuildInput carries the collected facts into the topology builder.
type BuildInput struct {
	Base         string
	Branches     []BranchFact
	Worktrees    []WorktreeFact
	PullRequests map[string]PullRequestFact
}

// BuildTopology assembles one TopologyNode per branch fact and one inferred
// edge per non-base branch. The base branch never appears as a child.
func BuildTopology(ctx context.Context, in BuildInput, oracle DistanceOracle) ([]TopologyNode, []Edge) {
	worktreeByBranch := make(map[string]WorktreeFact, len(in.Worktrees))
	for _, wt := range in.Worktrees {
		if wt.Branch == "" {
			continue
		}
		if _, seen := worktreeByBranch[wt.Branch]; !seen {
			worktreeByBranch[wt.Branch] = wt
		}
	}

	branchNames := make([]string, 0, len(in.Branches))
	for _, branch := range in.Branches {
		branchNames = append(branchNames, branch.Name)
	}

	nodes := make([]TopologyNode, 0, len(in.Branches))
	var edges []Edge

	for _, branch := range in.Branches {
		node := TopologyNode{
			BranchName:   branch.Name,
			LastCommitAt: branch.LastCommitAt,
		}

		if wt, ok := worktreeByBranch[branch.Name]; ok {
			wt := wt
			node.Worktree = &wt
		}
		if pr, ok := in.PullRequests[branch.Name]; ok {
			pr := pr
			node.PR = &pr
		}

		node.Badges = buildBadges(node.Worktree, node.PR)
		nodes = append(nodes, node)

		if branch.Name != in.Base {
			guess := InferParent(ctx, branch.Name, branchNames, in.Base, oracle)
			edges = append(edges, Edge{
				Parent:     guess.Parent,
				Child:      branch.Name,
				Confidence: guess.Confidence,
			})
		}
	}

	return nodes, edges
}

// buildBadges derives the display badge set for a node. Order is fixed so
// repeated scans of unchanged state produce identical snapshots.
func buildBadges(wt *WorktreeFact, pr *PullRequestFact) []string {
	var badges []string

	if wt != nil {
		if wt.Dirty {
			badges = append(badges, BadgeDirty)
		}
		if wt.IsActive {
			badges = append(badges, BadgeActiveAgent)
		}
	}

	if pr != nil {
		switch pr.State {
		case github.PRStateOpen:
			badges = append(badges, BadgePROpen)
		case github.PRStateMerged:
			badges = append(badges, BadgePRMerged)
		case github.PRStateClosed:
			badges = append(badges, BadgePRClosed)
		}
		if pr.IsDraft {
			badges = append(badges, BadgePRDraft)
		}

		switch pr.ChecksState {
		case github.ChecksPassing:
			badges = append(badges, BadgeCIPass)
		case github.ChecksFailing:
			badges = append(badges, BadgeCIFail)
		case github.ChecksPending:
			badges = append(badges, BadgeCIPending)
		}

		switch pr.ReviewDecision {
		case github.ReviewApproved:
			badges = append(badges, BadgeApproved)
		case github.ReviewChangesRequested:
			badges = append(badges, BadgeChangesRequested)
		}
	}

	return badges
}
