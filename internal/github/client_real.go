package github

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"grove.dev/grove/internal/git"
)

// maxPRPage bounds the number of pull requests fetched per scan.
const maxPRPage = 100

// RealClient implements Client using the GitHub REST API
type RealClient struct {
	client *github.Client
	owner  string
	repo   string
}

// NewRealClient creates a RealClient for the repository the remote URL
// points at. Token discovery tries GITHUB_TOKEN first, then the gh CLI.
func NewRealClient(ctx context.Context, remoteURL string) (*RealClient, error) {
	token, err := getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub token: %w", err)
	}

	repoInfo, err := ParseRemoteURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse remote URL: %w", err)
	}

	client, err := newAPIClient(ctx, repoInfo.Hostname, token)
	if err != nil {
		return nil, err
	}

	return &RealClient{
		client: client,
		owner:  repoInfo.Owner,
		repo:   repoInfo.Repo,
	}, nil
}

// GetOwnerRepo returns the repository owner and name
func (c *RealClient) GetOwnerRepo() (string, string) {
	return c.owner, c.repo
}

// ListPullRequests returns pull requests for the repository, most recently
// updated first. Open pull requests are enriched with review decision and
// check state; enrichment failures degrade to empty fields.
func (c *RealClient) ListPullRequests(ctx context.Context) ([]PullRequestInfo, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		State:     "all",
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: maxPRPage,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	infos := make([]PullRequestInfo, 0, len(prs))
	for _, pr := range prs {
		info := toPullRequestInfo(pr)
		if info.State == PRStateOpen {
			info.ReviewDecision = c.reviewDecision(ctx, info.Number)
			info.ChecksState = c.checksState(ctx, pr.GetHead().GetSHA())
			c.attachDiffStats(ctx, &info)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func toPullRequestInfo(pr *github.PullRequest) PullRequestInfo {
	info := PullRequestInfo{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		URL:        pr.GetHTMLURL(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		IsDraft:    pr.GetDraft(),
	}

	switch {
	case pr.GetMerged() || pr.MergedAt != nil:
		info.State = PRStateMerged
	default:
		info.State = strings.ToUpper(pr.GetState())
	}

	for _, label := range pr.Labels {
		info.Labels = append(info.Labels, label.GetName())
	}
	for _, assignee := range pr.Assignees {
		info.Assignees = append(info.Assignees, assignee.GetLogin())
	}

	// Populated by the list endpoint only for some responses; Get fills
	// them in via attachDiffStats for open PRs.
	info.Additions = pr.GetAdditions()
	info.Deletions = pr.GetDeletions()
	info.ChangedFiles = pr.GetChangedFiles()

	return info
}

// attachDiffStats fills in additions/deletions/changed files, which the
// list endpoint omits.
func (c *RealClient) attachDiffStats(ctx context.Context, info *PullRequestInfo) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, info.Number)
	if err != nil {
		return
	}
	info.Additions = pr.GetAdditions()
	info.Deletions = pr.GetDeletions()
	info.ChangedFiles = pr.GetChangedFiles()
}

// reviewDecision derives APPROVED / CHANGES_REQUESTED from the latest
// review of each reviewer. Returns "" when there are no decisive reviews
// or the query fails.
func (c *RealClient) reviewDecision(ctx context.Context, number int) string {
	reviews, _, err := c.client.PullRequests.ListReviews(ctx, c.owner, c.repo, number, &github.ListOptions{
		PerPage: maxPRPage,
	})
	if err != nil {
		return ""
	}

	latest := make(map[string]string)
	for _, review := range reviews {
		state := review.GetState()
		if state != ReviewApproved && state != ReviewChangesRequested {
			continue
		}
		latest[review.GetUser().GetLogin()] = state
	}

	decision := ""
	for _, state := range latest {
		if state == ReviewChangesRequested {
			return ReviewChangesRequested
		}
		decision = ReviewApproved
	}
	return decision
}

// checksState collapses a head commit's check runs into a single state.
func (c *RealClient) checksState(ctx context.Context, headSHA string) string {
	if headSHA == "" {
		return ""
	}

	runs, _, err := c.client.Checks.ListCheckRunsForRef(ctx, c.owner, c.repo, headSHA, &github.ListCheckRunsOptions{
		ListOptions: github.ListOptions{
			PerPage: maxPRPage,
		},
	})
	if err != nil || runs == nil || len(runs.CheckRuns) == 0 {
		return ""
	}

	pending := false
	for _, run := range runs.CheckRuns {
		if run.GetStatus() != "completed" {
			pending = true
			continue
		}
		switch run.GetConclusion() {
		case "failure", "timed_out", "cancelled":
			return ChecksFailing
		}
	}
	if pending {
		return ChecksPending
	}
	return ChecksPassing
}

// newAPIClient creates a GitHub client configured for the given hostname.
// Supports both github.com and GitHub Enterprise instances.
func newAPIClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if hostname != "github.com" {
		// GitHub Enterprise API endpoints
		// REST API: https://hostname/api/v3/
		// Upload API: https://hostname/api/uploads/
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
		}

		client.BaseURL = baseURL
		client.UploadURL = uploadURL
	}

	return client, nil
}

// getToken gets a GitHub token from the environment or the gh CLI
func getToken(ctx context.Context) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	output, err := git.RunGHCommand(ctx, "auth", "token")
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token: %w", err)
	}

	token := strings.TrimSpace(output)
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}

	return token, nil
}
