package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.APIKey != "secret" {
		t.Errorf("APIKey: got %q", cfg.APIKey)
	}
	if cfg.Model != "wanx2.1-t2i-turbo" {
		t.Errorf("Model default: got %q", cfg.Model)
	}
	if cfg.BaseURL != "https://dashscope.aliyuncs.com/api/v1" {
		t.Errorf("BaseURL default: got %q", cfg.BaseURL)
	}
	if cfg.DownloadPolicy != "failfast" {
		t.Errorf("DownloadPolicy default: got %q", cfg.DownloadPolicy)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel default: got %q", cfg.LogLevel)
	}
	if cfg.SaveDir == "" {
		t.Error("SaveDir default is empty")
	}
	if cfg.BaseDir == "" {
		t.Error("BaseDir default is empty")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "secret")
	t.Setenv("WANX_MODEL", "wanx-v1")
	t.Setenv("WANX_BASE_URL", "http://localhost:8080/api/v1")
	t.Setenv("WANX_SAVE_DIR", "/srv/images")
	t.Setenv("WANX_BASE_DIR", "/srv/work")
	t.Setenv("WANX_DOWNLOAD_POLICY", "besteffort")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Model != "wanx-v1" {
		t.Errorf("Model: got %q", cfg.Model)
	}
	if cfg.BaseURL != "http://localhost:8080/api/v1" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.SaveDir != "/srv/images" {
		t.Errorf("SaveDir: got %q", cfg.SaveDir)
	}
	if cfg.BaseDir != "/srv/work" {
		t.Errorf("BaseDir: got %q", cfg.BaseDir)
	}
	if cfg.DownloadPolicy != "besteffort" {
		t.Errorf("DownloadPolicy: got %q", cfg.DownloadPolicy)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		APIKey:         "k",
		Model:          "m",
		BaseURL:        "http://x",
		DownloadPolicy: "failfast",
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"missing api key", func(c *Config) { c.APIKey = "" }, "DASHSCOPE_API_KEY"},
		{"missing model", func(c *Config) { c.Model = "" }, "model"},
		{"missing base url", func(c *Config) { c.BaseURL = "" }, "base-url"},
		{"bad policy", func(c *Config) { c.DownloadPolicy = "sometimes" }, "download-policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}
