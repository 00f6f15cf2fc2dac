// Package config holds the per-run configuration for textify.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/textify/internal/omeife"
)

// Config is built once per run from defaults, the config file, flags and
// the environment, in that order of increasing precedence.
type Config struct {
	// Omeife API
	BaseURL           string        `env:"TEXTIFY_BASE_URL"`
	APIKey            string        `env:"OMEIFE_API_KEY"`
	SourceLanguage    string        `env:"TEXTIFY_SOURCE_LANGUAGE"`
	Timeout           time.Duration `env:"TEXTIFY_TIMEOUT"`
	RequestsPerMinute int           `env:"TEXTIFY_REQUESTS_PER_MINUTE"`

	// Prompt defaults
	Language string `env:"TEXTIFY_LANGUAGE"`

	// Files
	InputExtension string `env:"TEXTIFY_INPUT_EXTENSION"`
	AudioExtension string `env:"TEXTIFY_AUDIO_EXTENSION"`

	// Logging
	LogFile  string `env:"TEXTIFY_LOG_FILE"`
	LogLevel string `env:"TEXTIFY_LOG_LEVEL"`

	// Copy the translation to the system clipboard
	Clipboard bool `env:"TEXTIFY_CLIPBOARD"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:        omeife.DefaultBaseURL,
		SourceLanguage: omeife.DefaultSourceLanguage,
		InputExtension: ".txt",
		AudioExtension: ".wav",
		LogFile:        "textify.log",
		LogLevel:       "info",
	}
}

// FromEnv overlays environment variables on base.
func FromEnv(base Config) (Config, error) {
	return fromEnv(base, env.Options{})
}

func fromEnv(base Config, opts env.Options) (Config, error) {
	cfg := base
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return base, fmt.Errorf("error parsing environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.BaseURL)
	switch {
	case c.BaseURL == "":
		errs = append(errs, errors.New("base URL must not be empty"))
	case err != nil:
		errs = append(errs, fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err))
	case u.Scheme != "http" && u.Scheme != "https", u.Host == "":
		errs = append(errs, fmt.Errorf("base URL %q must be an absolute http(s) URL", c.BaseURL))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if c.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("requests per minute must not be negative, got %d", c.RequestsPerMinute))
	}

	for name, ext := range map[string]string{"input": c.InputExtension, "audio": c.AudioExtension} {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("%s extension must start with a dot, got %q", name, ext))
		}
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err))
	}

	return errors.Join(errs...)
}

// Omeife returns the client configuration for apiKey.
func (c Config) Omeife(apiKey string) omeife.Config {
	return omeife.Config{
		BaseURL:           c.BaseURL,
		APIKey:            apiKey,
		SourceLanguage:    c.SourceLanguage,
		Timeout:           c.Timeout,
		RequestsPerMinute: c.RequestsPerMinute,
	}
}
