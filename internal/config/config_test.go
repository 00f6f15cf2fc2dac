package config

import (
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func TestDefaultsValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	base := Defaults()
	base.Language = "Yoruba"

	cfg, err := fromEnv(base, env.Options{Environment: map[string]string{
		"OMEIFE_API_KEY":              "from-env",
		"TEXTIFY_LANGUAGE":            "Hausa",
		"TEXTIFY_TIMEOUT":             "45s",
		"TEXTIFY_REQUESTS_PER_MINUTE": "20",
		"TEXTIFY_CLIPBOARD":           "true",
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Language != "Hausa" {
		t.Errorf("Language = %q, want Hausa", cfg.Language)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.RequestsPerMinute != 20 {
		t.Errorf("RequestsPerMinute = %d", cfg.RequestsPerMinute)
	}
	if !cfg.Clipboard {
		t.Error("Clipboard should be enabled")
	}
	if cfg.BaseURL != base.BaseURL {
		t.Errorf("unset variables must keep the base value, BaseURL = %q", cfg.BaseURL)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	base := Defaults()
	cfg, err := fromEnv(base, env.Options{Environment: map[string]string{
		"TEXTIFY_TIMEOUT": "soon",
	}})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Timeout != base.Timeout {
		t.Errorf("base config should be returned on error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty base url", func(c *Config) { c.BaseURL = "" }, "must not be empty"},
		{"relative base url", func(c *Config) { c.BaseURL = "/api/v1" }, "absolute http(s) URL"},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://example.com" }, "absolute http(s) URL"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"negative rpm", func(c *Config) { c.RequestsPerMinute = -1 }, "requests per minute"},
		{"bad input ext", func(c *Config) { c.InputExtension = "txt" }, "input extension"},
		{"bad audio ext", func(c *Config) { c.AudioExtension = "." }, "audio extension"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestOmeife(t *testing.T) {
	cfg := Defaults()
	cfg.Timeout = time.Minute
	cfg.RequestsPerMinute = 5

	oc := cfg.Omeife("key")
	if oc.APIKey != "key" || oc.BaseURL != cfg.BaseURL || oc.SourceLanguage != "english" {
		t.Errorf("unexpected client config: %+v", oc)
	}
	if oc.Timeout != time.Minute || oc.RequestsPerMinute != 5 {
		t.Errorf("limits not carried over: %+v", oc)
	}
}
