// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ForgeTokens holds the forge API tokens internal/gitrepo's
// ForgeAwareGit needs for its REST-API ListRefs fast path (spec §4.7).
// This is deliberately narrow: there is no Gitea provider and no
// org-wide sync feature in this tool, so only the two tokens an actual
// caller reads survive here.
type ForgeTokens struct {
	GitHub GitHubConfig `yaml:"github"`
	GitLab GitLabConfig `yaml:"gitlab"`
}

// GitHubConfig holds GitHub-specific configuration.
type GitHubConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"` // For GitHub Enterprise
}

// GitLabConfig holds GitLab-specific configuration.
type GitLabConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// LoadForgeTokens loads forge tokens from file.
func LoadForgeTokens(path string) (*ForgeTokens, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &ForgeTokens{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDefault loads forge tokens from default locations, falling back to
// an empty (unauthenticated) ForgeTokens if none of them exist.
func LoadDefault() (*ForgeTokens, error) {
	locations := []string{
		"forge.yaml",
		".forge.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "common-repo", "forge.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return LoadForgeTokens(loc)
		}
	}

	cfg := &ForgeTokens{}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *ForgeTokens) applyEnvOverrides() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if token := os.Getenv("GITLAB_TOKEN"); token != "" {
		c.GitLab.Token = token
	}
}
