// Package config loads process-wide configuration from the environment.
//
// Configuration is read once at startup and the resulting Config is treated
// as immutable: it is passed into the server, client, and retriever rather
// than looked up ambiently from inside the core logic.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// APIKey is the DashScope bearer credential. Required.
	APIKey string `mapstructure:"api-key"`

	// Model is the image-synthesis model name.
	Model string `mapstructure:"model"`

	// BaseURL is the DashScope API root.
	BaseURL string `mapstructure:"base-url"`

	// SaveDir is where artifacts land when the caller gives no save_path.
	SaveDir string `mapstructure:"save-dir"`

	// BaseDir anchors relative destination resolution.
	BaseDir string `mapstructure:"base-dir"`

	// DownloadPolicy is "failfast" or "besteffort".
	DownloadPolicy string `mapstructure:"download-policy"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string `mapstructure:"log-level"`
}

// Load reads configuration from environment variables and defaults.
//
// Environment variables use the WANX_ prefix (WANX_MODEL, WANX_SAVE_DIR,
// WANX_BASE_DIR, WANX_BASE_URL, WANX_DOWNLOAD_POLICY, WANX_LOG_LEVEL); the
// API key additionally honors the conventional DASHSCOPE_API_KEY.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("model", "wanx2.1-t2i-turbo")
	v.SetDefault("base-url", "https://dashscope.aliyuncs.com/api/v1")
	v.SetDefault("save-dir", defaultSaveDir())
	v.SetDefault("base-dir", defaultBaseDir())
	v.SetDefault("download-policy", "failfast")
	v.SetDefault("log-level", "info")

	v.SetEnvPrefix("WANX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// The DashScope SDK convention wins over WANX_API_KEY when both are set.
	if err := v.BindEnv("api-key", "DASHSCOPE_API_KEY", "WANX_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api-key: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DASHSCOPE_API_KEY is not set")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base-url cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.DownloadPolicy != "failfast" && c.DownloadPolicy != "besteffort" {
		return fmt.Errorf("download-policy must be failfast or besteffort, got %q", c.DownloadPolicy)
	}
	return nil
}

// defaultSaveDir is a fixed per-user location under the desktop, used when a
// tool call supplies no destination at all.
func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "wanx-images")
	}
	return filepath.Join(home, "Desktop", "wanx-images")
}

func defaultBaseDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
