package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PHOTOVIEWER"

// Config holds all application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Prefetch PrefetchConfig `mapstructure:"prefetch"`
	Store    StoreConfig    `mapstructure:"store"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// APIConfig holds the remote metadata service settings
type APIConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	KeyParam string `mapstructure:"key_param"` // Query parameter carrying the key
	Key      string `mapstructure:"key"`
	PerPage  int    `mapstructure:"per_page"`
}

// HTTPConfig holds transport settings
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// PrefetchConfig bounds parallel image fetches
type PrefetchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// StoreConfig locates the metadata archive
type StoreConfig struct {
	Path string `mapstructure:"path"` // Empty keeps the archive in memory
}

// MetricsConfig holds the prometheus endpoint
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // Empty disables the endpoint
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint: "https://www.flickr.com/services/rest",
			KeyParam: "api_key",
			PerPage:  20,
		},
		HTTP: HTTPConfig{
			Timeout: 60 * time.Second,
		},
		Prefetch: PrefetchConfig{
			Concurrency: 4,
		},
		Store: StoreConfig{
			Path: filepath.Join(defaultDataPath(), "archive.db"),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "photoviewer.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "photoviewer")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "photoviewer")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "photoviewer")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "photoviewer")
	}
}

// LoadConfig loads configuration from file and environment. An empty path
// searches the default locations; a missing file there is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. PHOTOVIEWER_API_KEY
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.endpoint", cfg.API.Endpoint)
	v.SetDefault("api.key_param", cfg.API.KeyParam)
	v.SetDefault("api.key", cfg.API.Key)
	v.SetDefault("api.per_page", cfg.API.PerPage)
	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("prefetch.concurrency", cfg.Prefetch.Concurrency)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("metrics.addr", cfg.Metrics.Addr)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// IsConfigured returns true if the endpoint and key are set
func (c *Config) IsConfigured() bool {
	return c.API.Endpoint != "" && c.API.Key != ""
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.endpoint %q", c.API.Endpoint)
	}
	if c.API.KeyParam == "" {
		return errors.New("api.key_param must not be empty")
	}
	if c.API.PerPage <= 0 {
		return fmt.Errorf("api.per_page must be positive, got %d", c.API.PerPage)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.Prefetch.Concurrency <= 0 {
		return fmt.Errorf("prefetch.concurrency must be positive, got %d", c.Prefetch.Concurrency)
	}
	return nil
}
