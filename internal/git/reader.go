package git

import (
	"context"
	"strings"
)

// Reader bundles the read-only queries topology scanning needs.
// Commit-graph questions (merge base, ancestry) go through go-git when the
// repository opened cleanly; everything else shells out to git, which keeps
// worktree and status semantics identical to what the user sees.
type Reader struct {
	runner *CommandRunner
	repo   *Repository // nil when go-git could not open the repository
}

// NewReader creates a Reader rooted at repoRoot. A go-git open failure is
// not fatal; graph queries fall back to subprocess git.
func NewReader(repoRoot string) *Reader {
	reader := &Reader{runner: NewCommandRunner(repoRoot)}
	if repo, err := OpenRepository(repoRoot); err == nil {
		reader.repo = repo
	}
	return reader
}

// ListBranches returns all local branches, most recently committed first.
func (r *Reader) ListBranches(ctx context.Context) ([]BranchRef, error) {
	return r.runner.ListBranches(ctx)
}

// CurrentBranch returns the checked-out branch name.
func (r *Reader) CurrentBranch(ctx context.Context) (string, error) {
	if r.repo != nil {
		if name, err := r.repo.CurrentBranch(); err == nil {
			return name, nil
		}
	}
	return r.runner.CurrentBranch(ctx)
}

// ListWorktrees returns all worktrees attached to the repository.
func (r *Reader) ListWorktrees(ctx context.Context) ([]WorktreeRef, error) {
	return r.runner.ListWorktrees(ctx)
}

// IsDirty reports whether the worktree at path has uncommitted changes.
func (r *Reader) IsDirty(ctx context.Context, path string) (bool, error) {
	return r.runner.IsDirty(ctx, path)
}

// CountCommits returns the number of commits in base..head.
func (r *Reader) CountCommits(ctx context.Context, base, head string) (int, error) {
	return r.runner.CountCommits(ctx, base, head)
}

// CountLeftRight returns the left/right commit counts of a...b.
func (r *Reader) CountLeftRight(ctx context.Context, a, b string) (int, int, error) {
	return r.runner.CountLeftRight(ctx, a, b)
}

// RevParse resolves a ref to its full SHA.
func (r *Reader) RevParse(ctx context.Context, ref string) (string, error) {
	if r.repo != nil {
		if sha, err := r.repo.ResolveRef(ref); err == nil {
			return sha, nil
		}
	}
	return r.runner.RevParse(ctx, ref)
}

// MergeBase returns the merge base SHA of two refs.
func (r *Reader) MergeBase(ctx context.Context, a, b string) (string, error) {
	if r.repo != nil {
		if base, err := r.repo.MergeBase(a, b); err == nil {
			return base, nil
		}
	}
	return r.runner.Run(ctx, "merge-base", a, b)
}

// IsAncestor reports whether ancestor's tip is reachable from descendant.
// Equal tips count as ancestry; callers needing strictness filter on a
// positive commit distance.
func (r *Reader) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	if r.repo != nil {
		if ok, err := r.repo.IsAncestor(ancestor, descendant); err == nil {
			return ok, nil
		}
	}

	mergeBase, err := r.MergeBase(ctx, ancestor, descendant)
	if err != nil {
		return false, err
	}
	tip, err := r.RevParse(ctx, ancestor)
	if err != nil {
		return false, err
	}
	return mergeBase == tip, nil
}

// UpstreamRef returns the upstream tracking ref of a branch.
func (r *Reader) UpstreamRef(ctx context.Context, branch string) (string, error) {
	return r.runner.UpstreamRef(ctx, branch)
}

// RemoteURL returns the fetch URL of the origin remote.
func (r *Reader) RemoteURL(ctx context.Context) (string, error) {
	return r.runner.RemoteURL(ctx)
}

// DefaultBranch returns the remote's default branch, or "main" when the
// remote doesn't advertise one.
func (r *Reader) DefaultBranch(ctx context.Context) string {
	name, err := r.runner.DefaultBranch(ctx)
	if err != nil || strings.TrimSpace(name) == "" {
		return "main"
	}
	return name
}
