package git

import (
	"fmt"
	"path/filepath"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	groveerrors "grove.dev/grove/internal/errors"
)

// goGitMu synchronizes go-git object reads to prevent concurrent packfile access
var goGitMu sync.Mutex

// Repository wraps a go-git repository for commit-graph queries
type Repository struct {
	*gogit.Repository
}

// OpenRepository opens a git repository at the given path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{Repository: repo}, nil
}

// CurrentBranch returns the current branch name
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", groveerrors.ErrNotOnBranch
	}

	return head.Name().Short(), nil
}

// MergeBase returns the merge base between two refs (branches, remote refs or SHAs)
func (r *Repository) MergeBase(ref1Name, ref2Name string) (string, error) {
	hash1, err := r.resolveRefHash(ref1Name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref1Name, err)
	}

	hash2, err := r.resolveRefHash(ref2Name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref2Name, err)
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	commit1, err := r.CommitObject(hash1)
	if err != nil {
		return "", fmt.Errorf("failed to get commit for %s: %w", ref1Name, err)
	}

	commit2, err := r.CommitObject(hash2)
	if err != nil {
		return "", fmt.Errorf("failed to get commit for %s: %w", ref2Name, err)
	}

	mergeBases, err := commit1.MergeBase(commit2)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base: %w", err)
	}

	if len(mergeBases) == 0 {
		return "", groveerrors.ErrNoMergeBase
	}

	return mergeBases[0].Hash.String(), nil
}

// IsAncestor checks if the first ref is an ancestor of the second ref
func (r *Repository) IsAncestor(ancestor, descendant string) (bool, error) {
	ancestorHash, err := r.resolveRefHash(ancestor)
	if err != nil {
		return false, fmt.Errorf("failed to resolve ancestor ref: %w", err)
	}

	descendantHash, err := r.resolveRefHash(descendant)
	if err != nil {
		return false, fmt.Errorf("failed to resolve descendant ref: %w", err)
	}

	if ancestorHash == descendantHash {
		return true, nil
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	ancestorCommit, err := r.CommitObject(ancestorHash)
	if err != nil {
		return false, fmt.Errorf("failed to get ancestor commit: %w", err)
	}

	descendantCommit, err := r.CommitObject(descendantHash)
	if err != nil {
		return false, fmt.Errorf("failed to get descendant commit: %w", err)
	}

	return ancestorCommit.IsAncestor(descendantCommit)
}

// ResolveRef resolves a ref name or revision expression to a full SHA
func (r *Repository) ResolveRef(ref string) (string, error) {
	hash, err := r.resolveRefHash(ref)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// resolveRefHash resolves a ref name to a hash, trying full ref names,
// local branches, remote branches, tags, and finally revision expressions.
func (r *Repository) resolveRefHash(ref string) (plumbing.Hash, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	if ref2, err := r.Reference(plumbing.ReferenceName(ref), true); err == nil {
		return ref2.Hash(), nil
	}

	if ref2, err := r.Reference(plumbing.ReferenceName("refs/heads/"+ref), true); err == nil {
		return ref2.Hash(), nil
	}

	if ref2, err := r.Reference(plumbing.ReferenceName("refs/remotes/origin/"+ref), true); err == nil {
		return ref2.Hash(), nil
	}

	if ref2, err := r.Reference(plumbing.ReferenceName("refs/tags/"+ref), true); err == nil {
		return ref2.Hash(), nil
	}

	hash, err := r.ResolveRevision(plumbing.Revision(ref))
	if err == nil {
		return *hash, nil
	}

	return plumbing.ZeroHash, groveerrors.NewBranchNotFoundError(ref)
}
