// Package github provides a client for interacting with the GitHub API.
package github

import (
	"context"
)

// Pull request states as reported by the API.
const (
	PRStateOpen   = "OPEN"
	PRStateClosed = "CLOSED"
	PRStateMerged = "MERGED"
)

// Review decisions.
const (
	ReviewApproved         = "APPROVED"
	ReviewChangesRequested = "CHANGES_REQUESTED"
)

// Check states.
const (
	ChecksPassing = "SUCCESS"
	ChecksFailing = "FAILURE"
	ChecksPending = "PENDING"
)

// PullRequestInfo contains information about a pull request.
// This is a simplified struct to avoid coupling to the go-github library.
type PullRequestInfo struct {
	Number         int
	Title          string
	State          string // OPEN, CLOSED, MERGED
	URL            string
	HeadBranch     string
	BaseBranch     string
	IsDraft        bool
	Labels         []string
	Assignees      []string
	ReviewDecision string // APPROVED, CHANGES_REQUESTED, or ""
	ChecksState    string // SUCCESS, FAILURE, PENDING, or ""
	Additions      int
	Deletions      int
	ChangedFiles   int
}

// Client is an interface for GitHub API interactions
type Client interface {
	// ListPullRequests returns pull requests for the repository, most
	// recently updated first, bounded to one page.
	ListPullRequests(ctx context.Context) ([]PullRequestInfo, error)

	// GetOwnerRepo returns the repository owner and name
	GetOwnerRepo() (owner, repo string)
}
