package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	groveerrors "grove.dev/grove/internal/errors"
)

// CountCommits returns the number of commits in base..head.
func (r *CommandRunner) CountCommits(ctx context.Context, base, head string) (int, error) {
	output, err := r.Run(ctx, "rev-list", "--count", base+".."+head)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(output)
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", output, err)
	}
	return count, nil
}

// CountLeftRight returns the left/right commit counts of the symmetric
// range a...b: commits only reachable from a, and only from b.
func (r *CommandRunner) CountLeftRight(ctx context.Context, a, b string) (left, right int, err error) {
	output, err := r.Run(ctx, "rev-list", "--left-right", "--count", a+"..."+b)
	if err != nil {
		return 0, 0, err
	}

	fields := strings.Fields(output)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", output)
	}

	left, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q: %w", output, err)
	}
	right, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q: %w", output, err)
	}
	return left, right, nil
}

// RevParse resolves a ref to its full SHA.
func (r *CommandRunner) RevParse(ctx context.Context, ref string) (string, error) {
	return r.Run(ctx, "rev-parse", "--verify", ref+"^{commit}")
}

// UpstreamRef returns the upstream tracking ref of a branch
// (e.g. "origin/main"), or ErrNoUpstream when none is configured.
func (r *CommandRunner) UpstreamRef(ctx context.Context, branch string) (string, error) {
	output, err := r.Run(ctx, "rev-parse", "--abbrev-ref", branch+"@{upstream}")
	if err != nil {
		return "", groveerrors.ErrNoUpstream
	}
	return output, nil
}

// RemoteURL returns the fetch URL of the origin remote.
func (r *CommandRunner) RemoteURL(ctx context.Context) (string, error) {
	return r.Run(ctx, "config", "--get", "remote.origin.url")
}

// DefaultBranch returns the branch origin/HEAD points at, when the remote
// advertises one.
func (r *CommandRunner) DefaultBranch(ctx context.Context) (string, error) {
	output, err := r.Run(ctx, "symbolic-ref", "refs/remotes/origin/HEAD", "--short")
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(output, "origin/"), nil
}
