package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PAGETREE_SOURCE", "PAGETREE_ADDR", "PAGETREE_LOG_LEVEL", "PAGETREE_LOG_FORMAT",
		"PAGETREE_LOG_FILE", "PAGETREE_DEPTH", "PAGETREE_WATCH", "GITHUB_TOKEN",
		"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("PAGETREE_STATE", "/tmp/state.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Source)
	assert.Equal(t, "localhost:8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "/tmp/state.json", cfg.StatePath)
	assert.Equal(t, 1, cfg.Depth)
	assert.False(t, cfg.Watch)
	assert.Equal(t, "us-east-1", cfg.S3Region)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PAGETREE_SOURCE", "github:acme/docs@main")
	t.Setenv("PAGETREE_DEPTH", "-1")
	t.Setenv("PAGETREE_WATCH", "true")
	t.Setenv("PAGETREE_LOG_FORMAT", "json")
	t.Setenv("GITHUB_TOKEN", "tok")
	t.Setenv("S3_ACCESS_KEY", "")
	t.Setenv("S3_SECRET_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "github:acme/docs@main", cfg.Source)
	assert.Equal(t, -1, cfg.Depth)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "tok", cfg.GitHubToken)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("PAGETREE_DEPTH", "deep")
	t.Setenv("PAGETREE_WATCH", "maybe")
	t.Setenv("PAGETREE_LOG_FORMAT", "")
	t.Setenv("S3_ACCESS_KEY", "")
	t.Setenv("S3_SECRET_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Depth)
	assert.False(t, cfg.Watch)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty source", func(c *Config) { c.Source = "" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"half s3 credentials", func(c *Config) { c.S3AccessKey = "key" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Source: ".", LogFormat: "json"}
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
