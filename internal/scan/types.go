// Package scan implements the branch topology pipeline: it collects facts
// about branches, worktrees and pull requests, infers which branch each one
// was cut from, computes divergence, and lints the resulting graph against
// an optional user-declared design tree.
//
// Every entity here is rebuilt from scratch on each scan and discarded once
// the caller consumes the snapshot; the package owns no persistent state.
package scan

import (
	"time"

	"grove.dev/grove/internal/github"
)

// Confidence grades how an edge's parent was derived.
type Confidence string

const (
	// ConfidenceHigh means the parent was derived from a naming convention
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means the parent was derived from commit ancestry
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow means inference fell back to the base branch
	ConfidenceLow Confidence = "low"
)

// BranchFact is a point-in-time record of a local branch.
type BranchFact struct {
	Name         string    `json:"name"`
	CommitHash   string    `json:"commitHash"`
	LastCommitAt time.Time `json:"lastCommitAt"`
}

// WorktreeFact is a point-in-time record of a worktree.
type WorktreeFact struct {
	Path        string `json:"path"`
	Branch      string `json:"branch"`
	CommitHash  string `json:"commitHash"`
	Dirty       bool   `json:"dirty"`
	IsActive    bool   `json:"isActive"`
	ActiveAgent string `json:"activeAgent,omitempty"`
}

// PullRequestFact is the pull request shape consumed by the pipeline.
type PullRequestFact = github.PullRequestInfo

// Edge connects a parent branch to a child branch. Confidence is set on
// edges inferred from git state; IsDesigned marks edges asserted by the
// user's design tree. Both may be set when the two agree.
type Edge struct {
	Parent     string     `json:"parent"`
	Child      string     `json:"child"`
	Confidence Confidence `json:"confidence,omitempty"`
	IsDesigned bool       `json:"isDesigned,omitempty"`
}

// InferredFromGit reports whether this edge was derived from git state
// (as opposed to existing only in the design tree).
func (e Edge) InferredFromGit() bool {
	return e.Confidence != ""
}

// AheadBehind is a commit-count divergence between a branch and a reference.
type AheadBehind struct {
	Ahead  int `json:"ahead"`
	Behind int `json:"behind"`
}

// TopologyNode is the per-branch view assembled by the topology builder.
type TopologyNode struct {
	BranchName        string           `json:"branchName"`
	Badges            []string         `json:"badges,omitempty"`
	PR                *PullRequestFact `json:"pr,omitempty"`
	Worktree          *WorktreeFact    `json:"worktree,omitempty"`
	LastCommitAt      time.Time        `json:"lastCommitAt"`
	AheadBehind       *AheadBehind     `json:"aheadBehind,omitempty"`
	RemoteAheadBehind *AheadBehind     `json:"remoteAheadBehind,omitempty"`
}

// Badges attached to topology nodes.
const (
	BadgeDirty            = "dirty"
	BadgeActiveAgent      = "active-agent"
	BadgePROpen           = "pr-open"
	BadgePRMerged         = "pr-merged"
	BadgePRClosed         = "pr-closed"
	BadgePRDraft          = "pr-draft"
	BadgeCIPass           = "ci-pass"
	BadgeCIFail           = "ci-fail"
	BadgeCIPending        = "ci-pending"
	BadgeApproved         = "approved"
	BadgeChangesRequested = "changes-requested"
)

// Severity grades a lint warning.
type Severity string

const (
	// SeverityWarn marks advisory findings
	SeverityWarn Severity = "warn"
	// SeverityError marks findings that need attention before merging
	SeverityError Severity = "error"
)

// Warning codes raised by the linter.
const (
	CodeBehindParent    = "BEHIND_PARENT"
	CodeDirty           = "DIRTY"
	CodeCIFail          = "CI_FAIL"
	CodeNamingViolation = "BRANCH_NAMING_VIOLATION"
	CodeTreeDivergence  = "TREE_DIVERGENCE"
)

// Warning is one violated rule instance. Warnings are recomputed on every
// scan and never persisted.
type Warning struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// DesignEdge is one parent/child assertion in a design tree.
type DesignEdge struct {
	Parent string `json:"parent" yaml:"parent"`
	Child  string `json:"child" yaml:"child"`
}

// DesignTree is the user's declared intended branch structure. The engine
// reads it for drift detection only, never mutates or persists it.
type DesignTree struct {
	BaseBranch string       `json:"baseBranch" yaml:"base"`
	Edges      []DesignEdge `json:"edges" yaml:"branches"`
}

// Snapshot is the complete, point-in-time output of one pipeline run.
type Snapshot struct {
	BaseBranch string         `json:"baseBranch"`
	Nodes      []TopologyNode `json:"nodes"`
	Edges      []Edge         `json:"edges"`
	Warnings   []Warning      `json:"warnings"`
}

// RestartBrief is a human-readable snapshot for resuming work in a worktree.
type RestartBrief struct {
	CdCommand       string `json:"cdCommand"`
	RestartPromptMd string `json:"restartPromptMd"`
}
