// Package config loads configuration from environment variables.
// Command line flags override these values in main.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all pagetree settings.
type Config struct {
	// Listing location, see listing.ParseLocation
	Source string

	// Web
	Addr string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Visibility
	StatePath string
	// Depth expands untouched pages shallower than it; negative expands all.
	Depth int

	Watch bool

	// GitHub
	GitHubToken string

	// S3
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Source:      envOr("PAGETREE_SOURCE", "."),
		Addr:        envOr("PAGETREE_ADDR", "localhost:8080"),
		LogLevel:    envOr("PAGETREE_LOG_LEVEL", "info"),
		LogFormat:   envOr("PAGETREE_LOG_FORMAT", "console"),
		LogFile:     envOr("PAGETREE_LOG_FILE", ""),
		StatePath:   envOr("PAGETREE_STATE", defaultStatePath()),
		Depth:       envInt("PAGETREE_DEPTH", 1),
		Watch:       envBool("PAGETREE_WATCH", false),
		GitHubToken: envOr("GITHUB_TOKEN", ""),
		S3Endpoint:  envOr("S3_ENDPOINT", ""),
		S3Region:    envOr("S3_REGION", "us-east-1"),
		S3AccessKey: envOr("S3_ACCESS_KEY", ""),
		S3SecretKey: envOr("S3_SECRET_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that flags may also have set.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("PAGETREE_SOURCE must not be empty")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q (want json or console)", c.LogFormat)
	}
	if (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}
	return nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".pagetree-state.json"
	}
	return filepath.Join(dir, "pagetree", "state.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
