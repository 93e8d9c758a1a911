package scan_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"grove.dev/grove/internal/github"
	"grove.dev/grove/internal/scan"
)

func TestBuildTopology(t *testing.T) {
	committedAt := time.Date(2026, 8, 21, 9, 30, 0, 0, time.UTC)

	t.Run("one node per branch, one edge per non-base branch", func(t *testing.T) {
		nodes, edges := scan.BuildTopology(context.Background(), scan.BuildInput{
			Base: "main",
			Branches: []scan.BranchFact{
				{Name: "main", CommitHash: "aaa", LastCommitAt: committedAt},
				{Name: "feature/login", CommitHash: "bbb", LastCommitAt: committedAt},
				{Name: "feature/api", CommitHash: "ccc", LastCommitAt: committedAt},
			},
		}, nil)

		require.Len(t, nodes, 3)
		require.Len(t, edges, 2)
		for _, edge := range edges {
			require.NotEqual(t, "main", edge.Child)
			require.True(t, edge.InferredFromGit())
		}
	})

	t.Run("worktree and pull request facts attach to their node", func(t *testing.T) {
		wt := scan.WorktreeFact{Path: "/repo/wt/login", Branch: "feature/login", Dirty: true}
		pr := scan.PullRequestFact{Number: 42, HeadBranch: "feature/login", State: github.PRStateOpen}

		nodes, _ := scan.BuildTopology(context.Background(), scan.BuildInput{
			Base: "main",
			Branches: []scan.BranchFact{
				{Name: "main", LastCommitAt: committedAt},
				{Name: "feature/login", LastCommitAt: committedAt},
			},
			Worktrees:    []scan.WorktreeFact{wt},
			PullRequests: map[string]scan.PullRequestFact{"feature/login": pr},
		}, nil)

		require.Len(t, nodes, 2)
		login := nodes[1]
		require.Equal(t, "feature/login", login.BranchName)
		require.NotNil(t, login.Worktree)
		require.Equal(t, "/repo/wt/login", login.Worktree.Path)
		require.NotNil(t, login.PR)
		require.Equal(t, 42, login.PR.Number)
		require.Nil(t, nodes[0].Worktree)
		require.Nil(t, nodes[0].PR)
	})

	t.Run("first worktree listed wins when a branch has several", func(t *testing.T) {
		nodes, _ := scan.BuildTopology(context.Background(), scan.BuildInput{
			Base:     "main",
			Branches: []scan.BranchFact{{Name: "task/a", LastCommitAt: committedAt}},
			Worktrees: []scan.WorktreeFact{
				{Path: "/repo/wt/first", Branch: "task/a"},
				{Path: "/repo/wt/second", Branch: "task/a"},
			},
		}, nil)

		require.Len(t, nodes, 1)
		require.Equal(t, "/repo/wt/first", nodes[0].Worktree.Path)
	})

	t.Run("badges render in a fixed order", func(t *testing.T) {
		nodes, _ := scan.BuildTopology(context.Background(), scan.BuildInput{
			Base:     "main",
			Branches: []scan.BranchFact{{Name: "feature/login", LastCommitAt: committedAt}},
			Worktrees: []scan.WorktreeFact{
				{Path: "/repo/wt/login", Branch: "feature/login", Dirty: true, IsActive: true, ActiveAgent: "claude"},
			},
			PullRequests: map[string]scan.PullRequestFact{
				"feature/login": {
					Number:         42,
					HeadBranch:     "feature/login",
					State:          github.PRStateOpen,
					IsDraft:        true,
					ChecksState:    github.ChecksFailing,
					ReviewDecision: github.ReviewChangesRequested,
				},
			},
		}, nil)

		require.Equal(t, []string{
			scan.BadgeDirty,
			scan.BadgeActiveAgent,
			scan.BadgePROpen,
			scan.BadgePRDraft,
			scan.BadgeCIFail,
			scan.BadgeChangesRequested,
		}, nodes[0].Badges)
	})

	t.Run("branchless worktrees attach to nothing", func(t *testing.T) {
		nodes, edges := scan.BuildTopology(context.Background(), scan.BuildInput{
			Base:      "main",
			Branches:  []scan.BranchFact{{Name: "main", LastCommitAt: committedAt}},
			Worktrees: []scan.WorktreeFact{{Path: "/repo/wt/detached"}},
		}, nil)

		require.Len(t, nodes, 1)
		require.Nil(t, nodes[0].Worktree)
		require.Empty(t, edges)
	})
}
