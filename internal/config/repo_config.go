// Package config provides repository configuration management,
// including reading grove configuration and design tree files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// configFileName is where grove keeps per-repository settings, inside the
// .git directory so it never shows up in the working tree.
const configFileName = ".grove_config"

// DefaultDesignTreePath is the design tree location relative to the repo root.
const DefaultDesignTreePath = ".grove/design.yaml"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	Trunk                      *string  `json:"trunk,omitempty"`
	BranchNamePatterns         []string `json:"branchNamePatterns,omitempty"`
	IsGithubIntegrationEnabled *bool    `json:"isGithubIntegrationEnabled,omitempty"`
	DesignTreePath             *string  `json:"designTreePath,omitempty"`
}

// GetRepoConfig reads the repository configuration. A missing file is not
// an error; it yields the default config.
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	configPath := filepath.Join(repoRoot, ".git", configFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// GetTrunk returns the configured trunk branch name, or "" when unset so
// the caller can fall back to remote detection.
func GetTrunk(repoRoot string) string {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return ""
	}
	if config.Trunk != nil {
		return *config.Trunk
	}
	return ""
}

// GithubIntegrationEnabled reports whether PR collection is enabled.
// Defaults to true.
func GithubIntegrationEnabled(repoRoot string) bool {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return true
	}
	if config.IsGithubIntegrationEnabled != nil {
		return *config.IsGithubIntegrationEnabled
	}
	return true
}

// DesignTreePath returns the design tree file location for the repository.
func DesignTreePath(repoRoot string) string {
	config, err := GetRepoConfig(repoRoot)
	if err == nil && config.DesignTreePath != nil && *config.DesignTreePath != "" {
		return filepath.Join(repoRoot, *config.DesignTreePath)
	}
	return filepath.Join(repoRoot, DefaultDesignTreePath)
}
