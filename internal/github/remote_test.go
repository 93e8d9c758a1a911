package github_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"grove.dev/grove/internal/github"
)

func TestParseRemoteURL(t *testing.T) {
	t.Run("parses HTTPS github.com URL", func(t *testing.T) {
		info, err := github.ParseRemoteURL("https://github.com/owner/repo.git")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "github.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses HTTPS github.com URL without .git suffix", func(t *testing.T) {
		info, err := github.ParseRemoteURL("https://github.com/owner/repo")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "github.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses SSH github.com URL", func(t *testing.T) {
		info, err := github.ParseRemoteURL("git@github.com:owner/repo.git")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "github.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses SSH github.com URL without .git suffix", func(t *testing.T) {
		info, err := github.ParseRemoteURL("git@github.com:owner/repo")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "github.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses HTTPS GitHub Enterprise URL", func(t *testing.T) {
		info, err := github.ParseRemoteURL("https://github.company.com/owner/repo.git")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "github.company.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses SSH GitHub Enterprise URL", func(t *testing.T) {
		info, err := github.ParseRemoteURL("git@github.company.com:owner/repo.git")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "github.company.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses HTTP URL (non-HTTPS)", func(t *testing.T) {
		info, err := github.ParseRemoteURL("http://github.company.com/owner/repo.git")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "github.company.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("parses SSH URL with slash separator", func(t *testing.T) {
		info, err := github.ParseRemoteURL("git@github.com/owner/repo.git")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "github.com", info.Hostname)
		require.Equal(t, "owner", info.Owner)
		require.Equal(t, "repo", info.Repo)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		info, err := github.ParseRemoteURL("  https://github.com/owner/repo.git\n")
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Equal(t, "owner", info.Owner)
	})

	t.Run("rejects HTTPS URL without owner", func(t *testing.T) {
		_, err := github.ParseRemoteURL("https://github.com/repo")
		require.Error(t, err)
	})

	t.Run("rejects SSH URL without path", func(t *testing.T) {
		_, err := github.ParseRemoteURL("git@github.com:repo")
		require.Error(t, err)
	})
}
