package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://www.flickr.com/services/rest", cfg.API.Endpoint)
	assert.Equal(t, "api_key", cfg.API.KeyParam)
	assert.Equal(t, 20, cfg.API.PerPage)
	assert.Equal(t, 60*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 4, cfg.Prefetch.Concurrency)
	assert.Empty(t, cfg.Metrics.Addr)
	assert.False(t, cfg.IsConfigured())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
api:
  key: secret
  per_page: 50
http:
  timeout: 5s
metrics:
  addr: ":9090"
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.API.Key)
	assert.Equal(t, 50, cfg.API.PerPage)
	assert.Equal(t, "api_key", cfg.API.KeyParam, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.IsConfigured())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "api:\n  key: from-file\n")
	t.Setenv("PHOTOVIEWER_API_KEY", "from-env")
	t.Setenv("PHOTOVIEWER_PREFETCH_CONCURRENCY", "9")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.API.Key)
	assert.Equal(t, 9, cfg.Prefetch.Concurrency)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "relative endpoint", mutate: func(c *Config) { c.API.Endpoint = "flickr.com/rest" }},
		{name: "empty key param", mutate: func(c *Config) { c.API.KeyParam = "" }},
		{name: "zero per page", mutate: func(c *Config) { c.API.PerPage = 0 }},
		{name: "negative timeout", mutate: func(c *Config) { c.HTTP.Timeout = -time.Second }},
		{name: "zero concurrency", mutate: func(c *Config) { c.Prefetch.Concurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
