package scan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"grove.dev/grove/internal/git"
	"grove.dev/grove/internal/scan"
)

var fixtureTime = time.Date(2026, 8, 21, 9, 30, 0, 0, time.UTC)

func TestScan_DirtyWorktree(t *testing.T) {
	fixture := &fixtureGit{
		branches: []git.BranchRef{
			branchRef("feature/login", "bbb111", fixtureTime),
			branchRef("main", "aaa111", fixtureTime.Add(-time.Hour)),
		},
		worktrees: []git.WorktreeRef{
			{Path: "/repo", Head: "aaa111", Branch: "main"},
			{Path: "/repo/wt/login", Head: "bbb111", Branch: "feature/login"},
		},
		dirty:     map[string]bool{"/repo/wt/login": true},
		distances: map[string]int{pairKey("main", "feature/login"): 3},
		leftRight: map[string][2]int{pairKey("main", "feature/login"): {0, 3}},
	}

	snapshot := scan.NewScanner(fixture, nil, nil).Scan(context.Background(), scan.Options{})

	require.Equal(t, "main", snapshot.BaseBranch)
	require.Len(t, snapshot.Nodes, 2)
	require.Len(t, snapshot.Edges, 1)
	require.Equal(t, scan.Edge{Parent: "main", Child: "feature/login", Confidence: scan.ConfidenceLow}, snapshot.Edges[0])

	login := snapshot.Nodes[0]
	require.Equal(t, "feature/login", login.BranchName)
	require.Contains(t, login.Badges, scan.BadgeDirty)
	require.NotNil(t, login.AheadBehind)
	require.Equal(t, 3, login.AheadBehind.Ahead)
	require.Equal(t, 0, login.AheadBehind.Behind)

	require.Len(t, snapshot.Warnings, 1)
	require.Equal(t, scan.CodeDirty, snapshot.Warnings[0].Code)
	require.Equal(t, "feature/login", snapshot.Warnings[0].Meta["branch"])
}

func TestScan_BehindParentEscalates(t *testing.T) {
	fixture := &fixtureGit{
		branches: []git.BranchRef{
			branchRef("hotfix-1", "ccc111", fixtureTime),
			branchRef("hotfix", "bbb111", fixtureTime.Add(-time.Hour)),
			branchRef("main", "aaa111", fixtureTime.Add(-2*time.Hour)),
		},
		distances: map[string]int{pairKey("main", "hotfix"): 2},
		leftRight: map[string][2]int{
			pairKey("main", "hotfix"):     {0, 2},
			pairKey("hotfix", "hotfix-1"): {6, 1},
		},
	}

	snapshot := scan.NewScanner(fixture, nil, nil).Scan(context.Background(), scan.Options{})

	// hotfix-1 parents to hotfix by naming convention.
	require.Contains(t, snapshot.Edges, scan.Edge{Parent: "hotfix", Child: "hotfix-1", Confidence: scan.ConfidenceHigh})

	require.Len(t, snapshot.Warnings, 1)
	warning := snapshot.Warnings[0]
	require.Equal(t, scan.CodeBehindParent, warning.Code)
	require.Equal(t, scan.SeverityError, warning.Severity)
	require.Equal(t, "hotfix-1", warning.Meta["branch"])
	require.Equal(t, 6, warning.Meta["behind"])
}

func TestScan_NamingViolation(t *testing.T) {
	fixture := &fixtureGit{
		branches: []git.BranchRef{
			branchRef("random-name", "ccc111", fixtureTime),
			branchRef("feature/login", "bbb111", fixtureTime.Add(-time.Hour)),
			branchRef("main", "aaa111", fixtureTime.Add(-2*time.Hour)),
		},
		distances: map[string]int{
			pairKey("main", "feature/login"): 3,
			pairKey("main", "random-name"):   1,
		},
		leftRight: map[string][2]int{
			pairKey("main", "feature/login"): {0, 3},
			pairKey("main", "random-name"):   {0, 1},
		},
	}

	snapshot := scan.NewScanner(fixture, nil, nil).Scan(context.Background(), scan.Options{
		NamingPatterns: []string{`^feature/`, `^hotfix/`},
	})

	require.Len(t, snapshot.Warnings, 1)
	require.Equal(t, scan.CodeNamingViolation, snapshot.Warnings[0].Code)
	require.Equal(t, "random-name", snapshot.Warnings[0].Meta["branch"])
}

func TestScan_DesignTree(t *testing.T) {
	t.Run("declared branch missing from git reports divergence", func(t *testing.T) {
		fixture := &fixtureGit{
			branches: []git.BranchRef{branchRef("main", "aaa111", fixtureTime)},
		}
		design := &scan.DesignTree{
			BaseBranch: "main",
			Edges:      []scan.DesignEdge{{Parent: "main", Child: "task/a"}},
		}

		snapshot := scan.NewScanner(fixture, nil, nil).Scan(context.Background(), scan.Options{Design: design})

		require.Len(t, snapshot.Warnings, 1)
		warning := snapshot.Warnings[0]
		require.Equal(t, scan.CodeTreeDivergence, warning.Code)
		require.Equal(t, "task/a", warning.Meta["branch"])
		require.Equal(t, "main", warning.Meta["parent"])
		require.Equal(t, "missing_in_git", warning.Meta["reason"])
	})

	t.Run("matching declaration marks the inferred edge as designed", func(t *testing.T) {
		fixture := &fixtureGit{
			branches: []git.BranchRef{
				branchRef("feature/login", "bbb111", fixtureTime),
				branchRef("main", "aaa111", fixtureTime.Add(-time.Hour)),
			},
			distances: map[string]int{pairKey("main", "feature/login"): 3},
			leftRight: map[string][2]int{pairKey("main", "feature/login"): {0, 3}},
		}
		design := &scan.DesignTree{
			BaseBranch: "main",
			Edges:      []scan.DesignEdge{{Parent: "main", Child: "feature/login"}},
		}

		snapshot := scan.NewScanner(fixture, nil, nil).Scan(context.Background(), scan.Options{Design: design})

		require.Len(t, snapshot.Edges, 1)
		require.True(t, snapshot.Edges[0].IsDesigned)
		require.True(t, snapshot.Edges[0].InferredFromGit())
		require.Empty(t, snapshot.Warnings)
	})

	t.Run("declaration between existing branches becomes a design-only edge", func(t *testing.T) {
		fixture := &fixtureGit{
			branches: []git.BranchRef{
				branchRef("task-a", "ccc111", fixtureTime),
				branchRef("develop", "bbb111", fixtureTime.Add(-time.Hour)),
				branchRef("main", "aaa111", fixtureTime.Add(-2*time.Hour)),
			},
			distances: map[string]int{
				pairKey("main", "develop"): 2,
				pairKey("main", "task-a"):  4,
			},
			leftRight: map[string][2]int{
				pairKey("main", "develop"): {0, 2},
				pairKey("main", "task-a"):  {0, 4},
			},
		}
		design := &scan.DesignTree{
			BaseBranch: "main",
			Edges:      []scan.DesignEdge{{Parent: "develop", Child: "task-a"}},
		}

		snapshot := scan.NewScanner(fixture, nil, nil).Scan(context.Background(), scan.Options{Design: design})

		require.Contains(t, snapshot.Edges, scan.Edge{Parent: "develop", Child: "task-a", IsDesigned: true})

		// The declaration is not backed by git history, so divergence fires.
		var codes []string
		for _, warning := range snapshot.Warnings {
			codes = append(codes, warning.Code)
		}
		require.Contains(t, codes, scan.CodeTreeDivergence)
	})

	t.Run("design tree base overrides the configured base", func(t *testing.T) {
		fixture := &fixtureGit{
			branches: []git.BranchRef{branchRef("develop", "aaa111", fixtureTime)},
		}
		design := &scan.DesignTree{BaseBranch: "develop"}

		snapshot := scan.NewScanner(fixture, nil, nil).Scan(context.Background(), scan.Options{Base: "main", Design: design})

		require.Equal(t, "develop", snapshot.BaseBranch)
		require.Empty(t, snapshot.Edges)
	})
}

func TestScan_NeverFails(t *testing.T) {
	fixture := &fixtureGit{
		branchesErr:  errors.New("not a git repository"),
		worktreesErr: errors.New("not a git repository"),
	}

	snapshot := scan.NewScanner(fixture, &fixturePRs{err: errors.New("no token")}, nil).
		Scan(context.Background(), scan.Options{})

	require.NotNil(t, snapshot)
	require.Equal(t, "main", snapshot.BaseBranch)
	require.Empty(t, snapshot.Nodes)
	require.Empty(t, snapshot.Edges)
	require.Empty(t, snapshot.Warnings)
}

func TestScan_Idempotent(t *testing.T) {
	fixture := &fixtureGit{
		branches: []git.BranchRef{
			branchRef("feature/login", "bbb111", fixtureTime),
			branchRef("feature", "ccc111", fixtureTime.Add(-30*time.Minute)),
			branchRef("main", "aaa111", fixtureTime.Add(-time.Hour)),
		},
		worktrees: []git.WorktreeRef{
			{Path: "/repo", Head: "aaa111", Branch: "main"},
			{Path: "/repo/wt/login", Head: "bbb111", Branch: "feature/login"},
		},
		dirty: map[string]bool{"/repo/wt/login": true},
		ancestors: map[string]bool{
			pairKey("feature/login", "feature"): false,
		},
		distances: map[string]int{
			pairKey("main", "feature"):          1,
			pairKey("main", "feature/login"):    3,
			pairKey("feature", "feature/login"): 2,
		},
		leftRight: map[string][2]int{
			pairKey("main", "feature"):          {0, 1},
			pairKey("feature", "feature/login"): {0, 2},
		},
	}
	scanner := scan.NewScanner(fixture, nil, nil)

	first := scanner.Scan(context.Background(), scan.Options{NamingPatterns: []string{`^feature`}})
	second := scanner.Scan(context.Background(), scan.Options{NamingPatterns: []string{`^feature`}})

	require.Equal(t, first, second)
}
