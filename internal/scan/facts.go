package scan

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"grove.dev/grove/internal/git"
	"grove.dev/grove/internal/github"
	"grove.dev/grove/internal/output"
)

// agentMarkerPath is the liveness marker file an agent keeps fresh while it
// works inside a worktree, relative to the worktree root.
const agentMarkerPath = ".grove/agent.json"

// agentMarkerMaxAge is how recently the marker must have been updated for a
// worktree to count as active.
const agentMarkerMaxAge = 30 * time.Second

// GitReader is the narrow read-only git surface the pipeline needs.
// *git.Reader is the real implementation; tests provide fixtures with
// canned outputs.
type GitReader interface {
	ListBranches(ctx context.Context) ([]git.BranchRef, error)
	ListWorktrees(ctx context.Context) ([]git.WorktreeRef, error)
	IsDirty(ctx context.Context, path string) (bool, error)
	CountCommits(ctx context.Context, base, head string) (int, error)
	CountLeftRight(ctx context.Context, a, b string) (int, int, error)
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
	UpstreamRef(ctx context.Context, branch string) (string, error)
}

// PullRequestSource lists pull requests for the repository being scanned.
type PullRequestSource interface {
	ListPullRequests(ctx context.Context) ([]PullRequestFact, error)
}

// Collector gathers raw facts about a repository. Each collector swallows
// failures of the underlying external tool and returns an empty result: a
// broken or slow tool must never abort a scan.
type Collector struct {
	git   GitReader
	prs   PullRequestSource // nil when PR data is unavailable
	splog *output.Splog
	now   func() time.Time
}

// NewCollector creates a Collector. prs may be nil.
func NewCollector(gitReader GitReader, prs PullRequestSource, splog *output.Splog) *Collector {
	if splog == nil {
		splog = output.NewSplog()
	}
	return &Collector{
		git:   gitReader,
		prs:   prs,
		splog: splog,
		now:   time.Now,
	}
}

// CollectBranches returns one BranchFact per local branch, most recently
// committed first.
func (c *Collector) CollectBranches(ctx context.Context) []BranchFact {
	refs, err := c.git.ListBranches(ctx)
	if err != nil {
		c.splog.Debug("branch listing failed: %v", err)
		return nil
	}

	facts := make([]BranchFact, 0, len(refs))
	for _, ref := range refs {
		facts = append(facts, BranchFact{
			Name:         ref.Name,
			CommitHash:   ref.Hash,
			LastCommitAt: ref.CommittedAt,
		})
	}
	return facts
}

// CollectWorktrees returns a WorktreeFact per non-bare worktree. Dirty
// detection runs per worktree; one failing check degrades only that
// worktree's dirty flag.
func (c *Collector) CollectWorktrees(ctx context.Context) []WorktreeFact {
	refs, err := c.git.ListWorktrees(ctx)
	if err != nil {
		c.splog.Debug("worktree listing failed: %v", err)
		return nil
	}

	facts := make([]WorktreeFact, 0, len(refs))
	for _, ref := range refs {
		if ref.Bare {
			continue
		}

		fact := WorktreeFact{
			Path:       ref.Path,
			Branch:     ref.Branch,
			CommitHash: ref.Head,
		}

		dirty, err := c.git.IsDirty(ctx, ref.Path)
		if err != nil {
			c.splog.Debug("dirty check failed for %s: %v", ref.Path, err)
		} else {
			fact.Dirty = dirty
		}

		if marker, ok := readAgentMarker(ref.Path); ok {
			if c.now().Sub(marker.UpdatedAt) < agentMarkerMaxAge {
				fact.IsActive = true
				fact.ActiveAgent = marker.Agent
			}
		}

		facts = append(facts, fact)
	}
	return facts
}

// CollectPullRequests returns at most one pull request fact per head
// branch: the open one when it exists, otherwise the most recently updated.
func (c *Collector) CollectPullRequests(ctx context.Context) map[string]PullRequestFact {
	if c.prs == nil {
		return nil
	}

	prs, err := c.prs.ListPullRequests(ctx)
	if err != nil {
		c.splog.Debug("pull request listing failed: %v", err)
		return nil
	}

	byBranch := make(map[string]PullRequestFact, len(prs))
	for _, pr := range prs {
		if pr.HeadBranch == "" {
			continue
		}
		existing, seen := byBranch[pr.HeadBranch]
		if seen && existing.State == github.PRStateOpen {
			continue
		}
		if !seen || pr.State == github.PRStateOpen {
			byBranch[pr.HeadBranch] = pr
		}
	}
	return byBranch
}

// agentMarker is the liveness record an agent writes while working.
type agentMarker struct {
	Agent     string    `json:"agent"`
	PID       int       `json:"pid"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// readAgentMarker reads the liveness marker in a worktree, if present and
// well-formed.
func readAgentMarker(worktreePath string) (agentMarker, bool) {
	data, err := os.ReadFile(filepath.Join(worktreePath, agentMarkerPath))
	if err != nil {
		return agentMarker{}, false
	}

	var marker agentMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		return agentMarker{}, false
	}
	if marker.UpdatedAt.IsZero() {
		return agentMarker{}, false
	}
	return marker, true
}
