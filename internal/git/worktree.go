package git

import (
	"context"
	"strings"
)

// WorktreeRef is one entry from `git worktree list --porcelain`.
type WorktreeRef struct {
	Path     string
	Head     string
	Branch   string // short branch name, empty when detached
	Detached bool
	Bare     bool
}

// ListWorktrees returns all worktrees attached to the repository.
func (r *CommandRunner) ListWorktrees(ctx context.Context) ([]WorktreeRef, error) {
	output, err := r.RunRaw(ctx, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return ParseWorktreePorcelain(output), nil
}

// ParseWorktreePorcelain parses `git worktree list --porcelain` output.
// Entries are separated by blank lines; attributes are one per line.
func ParseWorktreePorcelain(output string) []WorktreeRef {
	var worktrees []WorktreeRef
	var current *WorktreeRef

	flush := func() {
		if current != nil && current.Path != "" {
			worktrees = append(worktrees, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &WorktreeRef{Path: strings.TrimPrefix(line, "worktree ")}
		case current == nil:
			// attribute line before any worktree header; ignore
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "detached":
			current.Detached = true
		case line == "bare":
			current.Bare = true
		}
	}
	flush()

	return worktrees
}

// IsDirty reports whether the worktree at path has uncommitted changes
// (staged, unstaged, or untracked).
func (r *CommandRunner) IsDirty(ctx context.Context, path string) (bool, error) {
	runner := NewCommandRunner(path)
	output, err := runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return output != "", nil
}
