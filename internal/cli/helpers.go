package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"grove.dev/grove/internal/config"
	"grove.dev/grove/internal/git"
	"grove.dev/grove/internal/github"
	"grove.dev/grove/internal/output"
	"grove.dev/grove/internal/scan"
)

// scanSetup bundles everything a command needs to run the pipeline.
type scanSetup struct {
	RepoRoot string
	Reader   *git.Reader
	Scanner  *scan.Scanner
	Options  scan.Options
	Splog    *output.Splog
}

// newScanSetup locates the repository, loads configuration, and builds a
// scanner. base and patterns from flags override the repo config; noGithub
// disables PR collection.
func newScanSetup(ctx context.Context, base string, patterns []string, designPath string, noGithub bool) (*scanSetup, error) {
	repoRoot, err := git.GetRepoRoot(".")
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	splog, err := output.NewSplogWithConfig(output.LogFilePath())
	if err != nil {
		splog = output.NewSplog()
	}
	reader := git.NewReader(repoRoot)

	repoConfig, err := config.GetRepoConfig(repoRoot)
	if err != nil {
		splog.Warn("ignoring unreadable repo config: %v", err)
		repoConfig = &config.RepoConfig{}
	}

	if base == "" && repoConfig.Trunk != nil {
		base = *repoConfig.Trunk
	}
	if base == "" {
		base = reader.DefaultBranch(ctx)
	}

	if len(patterns) == 0 {
		patterns = repoConfig.BranchNamePatterns
	}

	if designPath == "" {
		designPath = config.DesignTreePath(repoRoot)
	}
	design, err := config.LoadDesignTree(designPath)
	if err != nil {
		splog.Warn("ignoring unreadable design tree: %v", err)
		design = nil
	}

	var prs scan.PullRequestSource
	if !noGithub && config.GithubIntegrationEnabled(repoRoot) {
		prs = newPullRequestSource(ctx, reader, splog)
	}

	return &scanSetup{
		RepoRoot: repoRoot,
		Reader:   reader,
		Scanner:  scan.NewScanner(reader, prs, splog),
		Options: scan.Options{
			Base:           base,
			NamingPatterns: patterns,
			Design:         design,
		},
		Splog: splog,
	}, nil
}

// newPullRequestSource builds the GitHub-backed PR source, or nil when the
// remote or token can't be resolved. A scan without PR data is still a scan.
func newPullRequestSource(ctx context.Context, reader *git.Reader, splog *output.Splog) scan.PullRequestSource {
	remoteURL, err := reader.RemoteURL(ctx)
	if err != nil {
		splog.Debug("no origin remote, skipping PR collection: %v", err)
		return nil
	}

	client, err := github.NewRealClient(ctx, remoteURL)
	if err != nil {
		splog.Debug("GitHub client unavailable, skipping PR collection: %v", err)
		return nil
	}
	return client
}

// renderSnapshot renders a snapshot as a colored branch tree followed by a
// warning summary.
func renderSnapshot(snapshot *scan.Snapshot, currentBranch string, color bool) string {
	var b strings.Builder

	children := make(map[string][]string)
	annotations := make(map[string]output.TreeAnnotation)

	for _, edge := range snapshot.Edges {
		if !edge.InferredFromGit() {
			continue
		}
		children[edge.Parent] = append(children[edge.Parent], edge.Child)
	}

	edgeByChild := make(map[string]scan.Edge)
	for _, edge := range snapshot.Edges {
		if edge.InferredFromGit() {
			edgeByChild[edge.Child] = edge
		}
	}

	for _, node := range snapshot.Nodes {
		annotation := output.TreeAnnotation{Badges: node.Badges}
		if node.AheadBehind != nil {
			annotation.Diverged = true
			annotation.Ahead = node.AheadBehind.Ahead
			annotation.Behind = node.AheadBehind.Behind
		}
		if edge, ok := edgeByChild[node.BranchName]; ok {
			annotation.Confidence = string(edge.Confidence)
			annotation.Designed = edge.IsDesigned
		}
		annotations[node.BranchName] = annotation
	}

	renderer := output.NewTopologyTreeRenderer(
		snapshot.BaseBranch,
		currentBranch,
		func(branchName string) []string { return children[branchName] },
		color,
	)
	for name, annotation := range annotations {
		renderer.SetAnnotation(name, annotation)
	}

	for _, line := range renderer.Render() {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(snapshot.Warnings) > 0 {
		b.WriteString("\n")
		for _, warning := range sortedWarnings(snapshot.Warnings) {
			label := fmt.Sprintf("[%s] %s", warning.Severity, warning.Message)
			if color {
				if warning.Severity == scan.SeverityError {
					label = output.StyleError(label)
				} else {
					label = output.StyleWarn(label)
				}
			}
			b.WriteString(label)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// sortedWarnings puts errors before warnings for display, preserving the
// linter's order within each severity.
func sortedWarnings(warnings []scan.Warning) []scan.Warning {
	sorted := make([]scan.Warning, len(warnings))
	copy(sorted, warnings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity == scan.SeverityError && sorted[j].Severity != scan.SeverityError
	})
	return sorted
}

// useColor reports whether colored output makes sense.
func useColor() bool {
	return output.IsTerminal()
}

// hasErrors reports whether any warning is error severity.
func hasErrors(warnings []scan.Warning) bool {
	for _, warning := range warnings {
		if warning.Severity == scan.SeverityError {
			return true
		}
	}
	return false
}
