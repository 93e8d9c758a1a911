package git

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// BranchRef is a point-in-time record of a local branch: its name, the
// short hash of its tip, and the committer date of that tip.
type BranchRef struct {
	Name        string
	Hash        string
	CommittedAt time.Time
}

// branchRefFormat is the for-each-ref format used to list branches.
// Fields are tab-separated so branch names containing dashes or slashes
// parse unambiguously.
const branchRefFormat = "%(refname:short)\t%(objectname:short)\t%(committerdate:iso-strict)"

// ListBranches returns all local branches, most recently committed first.
func (r *CommandRunner) ListBranches(ctx context.Context) ([]BranchRef, error) {
	lines, err := r.RunLines(ctx,
		"for-each-ref",
		"--sort=-committerdate",
		"--format="+branchRefFormat,
		"refs/heads/")
	if err != nil {
		return nil, err
	}

	branches := make([]BranchRef, 0, len(lines))
	for _, line := range lines {
		ref, err := parseBranchRefLine(line)
		if err != nil {
			continue
		}
		branches = append(branches, ref)
	}
	return branches, nil
}

// parseBranchRefLine parses one line of for-each-ref output in branchRefFormat.
func parseBranchRefLine(line string) (BranchRef, error) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 || parts[0] == "" {
		return BranchRef{}, fmt.Errorf("malformed branch line: %q", line)
	}

	committedAt, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return BranchRef{}, fmt.Errorf("malformed commit date in %q: %w", line, err)
	}

	return BranchRef{
		Name:        parts[0],
		Hash:        parts[1],
		CommittedAt: committedAt,
	}, nil
}

// CurrentBranch returns the checked-out branch name, or ErrNotOnBranch
// semantics via the underlying command failure when HEAD is detached.
func (r *CommandRunner) CurrentBranch(ctx context.Context) (string, error) {
	return r.Run(ctx, "branch", "--show-current")
}
