package scan_test

import (
	"context"
	"fmt"
	"time"

	"grove.dev/grove/internal/git"
	"grove.dev/grove/internal/scan"
)

// fixtureGit implements scan.GitReader from canned data, so the pipeline
// can be exercised without a real repository.
type fixtureGit struct {
	branches  []git.BranchRef
	worktrees []git.WorktreeRef

	branchesErr  error
	worktreesErr error

	dirty    map[string]bool  // worktree path -> dirty
	dirtyErr map[string]error // worktree path -> dirty check failure

	ancestors map[string]bool   // "ancestor|descendant" -> reachability
	distances map[string]int    // "base|head" -> count of base..head
	leftRight map[string][2]int // "a|b" -> left/right counts of a...b
	upstreams map[string]string // branch -> upstream ref
}

func pairKey(a, b string) string { return a + "|" + b }

func (f *fixtureGit) ListBranches(context.Context) ([]git.BranchRef, error) {
	if f.branchesErr != nil {
		return nil, f.branchesErr
	}
	return f.branches, nil
}

func (f *fixtureGit) ListWorktrees(context.Context) ([]git.WorktreeRef, error) {
	if f.worktreesErr != nil {
		return nil, f.worktreesErr
	}
	return f.worktrees, nil
}

func (f *fixtureGit) IsDirty(_ context.Context, path string) (bool, error) {
	if err, ok := f.dirtyErr[path]; ok {
		return false, err
	}
	return f.dirty[path], nil
}

func (f *fixtureGit) CountCommits(_ context.Context, base, head string) (int, error) {
	if count, ok := f.distances[pairKey(base, head)]; ok {
		return count, nil
	}
	return 0, fmt.Errorf("unknown range %s..%s", base, head)
}

func (f *fixtureGit) CountLeftRight(_ context.Context, a, b string) (int, int, error) {
	if counts, ok := f.leftRight[pairKey(a, b)]; ok {
		return counts[0], counts[1], nil
	}
	return 0, 0, fmt.Errorf("unknown range %s...%s", a, b)
}

func (f *fixtureGit) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	if reachable, ok := f.ancestors[pairKey(ancestor, descendant)]; ok {
		return reachable, nil
	}
	return false, fmt.Errorf("unknown refs %s and %s", ancestor, descendant)
}

func (f *fixtureGit) UpstreamRef(_ context.Context, branch string) (string, error) {
	if upstream, ok := f.upstreams[branch]; ok {
		return upstream, nil
	}
	return "", fmt.Errorf("no upstream for %s", branch)
}

// fixturePRs implements scan.PullRequestSource from canned data.
type fixturePRs struct {
	prs []scan.PullRequestFact
	err error
}

func (f *fixturePRs) ListPullRequests(context.Context) ([]scan.PullRequestFact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.prs, nil
}

// branchRef is a shorthand constructor for fixture branches.
func branchRef(name, hash string, committedAt time.Time) git.BranchRef {
	return git.BranchRef{Name: name, Hash: hash, CommittedAt: committedAt}
}
