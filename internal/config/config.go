// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultScriptsDir is the directory whose file names extend the "scripts" label keywords.
const DefaultScriptsDir = "scripts"

// Config holds all configuration parameters for the application.
type Config struct {
	GitHub GitHubConfig
	Rules  RulesConfig
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token      string
	Domain     string
	Repository string
}

// RulesConfig points at the label catalog and the auxiliary scripts directory.
type RulesConfig struct {
	// File overrides the built-in catalog when set.
	File       string
	ScriptsDir string
}

// flagKeys maps command-line flags to configuration keys. A flag that was set
// explicitly takes precedence over the environment.
var flagKeys = map[string]string{
	"repository":  "github.repository",
	"rules":       "rules.file",
	"scripts-dir": "rules.scripts_dir",
}

// LoadConfig initializes and loads configuration from environment variables and,
// when flags is not nil, from the command-line flags listed in flagKeys.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.domain", "GITHUB_DOMAIN")
	v.BindEnv("github.repository", "GITHUB_REPOSITORY")
	v.BindEnv("rules.file", "ISSUEBOT_RULES")
	v.BindEnv("rules.scripts_dir", "ISSUEBOT_SCRIPTS_DIR")

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetDefault("github.domain", "github.com")
	v.SetDefault("rules.scripts_dir", DefaultScriptsDir)

	config := &Config{
		GitHub: GitHubConfig{
			Token:      v.GetString("github.token"),
			Domain:     v.GetString("github.domain"),
			Repository: v.GetString("github.repository"),
		},
		Rules: RulesConfig{
			File:       v.GetString("rules.file"),
			ScriptsDir: v.GetString("rules.scripts_dir"),
		},
	}

	// An exported but empty GITHUB_DOMAIN still means github.com.
	if config.GitHub.Domain == "" {
		config.GitHub.Domain = "github.com"
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateConfig ensures that all required configuration values are provided.
func validateConfig(config *Config) error {
	var missingVars []string

	if config.GitHub.Token == "" {
		missingVars = append(missingVars, "GITHUB_TOKEN")
	}
	if config.GitHub.Repository == "" {
		missingVars = append(missingVars, "GITHUB_REPOSITORY")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	if _, _, err := SplitRepository(config.GitHub.Repository); err != nil {
		return err
	}

	return nil
}

// SplitRepository splits "owner/repo" into its two parts.
func SplitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s, expected format: owner/repo", repository)
	}
	return parts[0], parts[1], nil
}
