// Package config provides configuration management for the site generator
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with a SITEGEN_ prefix. It manages the forge organization
// settings, API endpoints, repository exclusions, and output locations.
//
// The forge auth token is intentionally not a config-file key: it is
// resolved from two legacy environment variable names, first one wins, so
// existing CI secrets keep working unchanged.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables the token is resolved from, in priority order.
const (
	TokenEnvPrimary  = "manage-aquifer"
	TokenEnvFallback = "GITHUB_AQUIFER_API_KEY"

	// Legacy switch that bypasses the network and builds from sample data.
	sampleEnvLegacy = "DEBUG_MODE"
)

type Config struct {
	Forge  ForgeConfig  `yaml:"forge"`
	Output OutputConfig `yaml:"output"`
	Sample bool         `yaml:"sample"`
	Token  string       `yaml:"-"` // resolved from the environment, never from file
}

type ForgeConfig struct {
	Org           string   `yaml:"org"`
	OrgRepo       string   `yaml:"org_repo"`
	ReadmePath    string   `yaml:"readme_path"`
	APIURL        string   `yaml:"api_url"`
	RawURL        string   `yaml:"raw_url"`
	ExcludedRepos []string `yaml:"excluded_repos"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Snapshot string `yaml:"snapshot"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle forge settings set via viper (workaround for viper key handling)
	if viper.IsSet("forge.org") {
		config.Forge.Org = viper.GetString("forge.org")
	}
	if viper.IsSet("forge.org_repo") {
		config.Forge.OrgRepo = viper.GetString("forge.org_repo")
	}
	if viper.IsSet("forge.readme_path") {
		config.Forge.ReadmePath = viper.GetString("forge.readme_path")
	}
	if viper.IsSet("forge.api_url") {
		config.Forge.APIURL = viper.GetString("forge.api_url")
	}
	if viper.IsSet("forge.raw_url") {
		config.Forge.RawURL = viper.GetString("forge.raw_url")
	}
	if viper.IsSet("forge.excluded_repos") {
		config.Forge.ExcludedRepos = viper.GetStringSlice("forge.excluded_repos")
	}
	if viper.IsSet("output.dir") {
		config.Output.Dir = viper.GetString("output.dir")
	}
	if viper.IsSet("output.snapshot") {
		config.Output.Snapshot = viper.GetString("output.snapshot")
	}
	if viper.IsSet("sample") {
		config.Sample = viper.GetBool("sample")
	}

	// Apply default values if not set
	if config.Forge.Org == "" {
		config.Forge.Org = "BibleAquifer"
	}
	if config.Forge.OrgRepo == "" {
		config.Forge.OrgRepo = ".github"
	}
	if config.Forge.ReadmePath == "" {
		config.Forge.ReadmePath = "profile/README.md"
	}
	if config.Forge.APIURL == "" {
		config.Forge.APIURL = "https://api.github.com"
	}
	if config.Forge.RawURL == "" {
		config.Forge.RawURL = "https://raw.githubusercontent.com"
	}
	if len(config.Forge.ExcludedRepos) == 0 {
		config.Forge.ExcludedRepos = []string{"docs", "ACAI", "bibleaquifer.github.io", ".github"}
	}
	if config.Output.Dir == "" {
		config.Output.Dir = "."
	}
	if config.Output.Snapshot == "" {
		config.Output.Snapshot = "resources_data.yaml"
	}

	config.Token = ResolveToken()
	if !config.Sample {
		config.Sample = legacySampleMode()
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ResolveToken returns the forge auth token from the environment, checking
// the two supported variable names in priority order.
func ResolveToken() string {
	if token := os.Getenv(TokenEnvPrimary); token != "" {
		return token
	}
	return os.Getenv(TokenEnvFallback)
}

func legacySampleMode() bool {
	switch strings.ToLower(os.Getenv(sampleEnvLegacy)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if config.Forge.Org == "" {
		return fmt.Errorf("forge org must not be empty")
	}

	for _, raw := range []string{config.Forge.APIURL, config.Forge.RawURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid forge URL %q: %w", raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("forge URL %q must use http or https", raw)
		}
	}

	if err := validatePath(config.Output.Dir); err != nil {
		return fmt.Errorf("invalid output dir %q: %w", config.Output.Dir, err)
	}
	if filepath.IsAbs(config.Output.Snapshot) || strings.Contains(config.Output.Snapshot, "..") {
		return fmt.Errorf("snapshot must be a plain relative file name: %s", config.Output.Snapshot)
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	return nil
}
