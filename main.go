// Package main provides the entry point for the textify CLI application.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/textify/internal/config"
	"github.com/dgnsrekt/textify/internal/session"
	"github.com/dgnsrekt/textify/internal/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	cfg        config.Config
	logCloser  = func() error { return nil }

	rootCmd = &cobra.Command{
		Use:   "textify",
		Short: "Translate text files and turn them into speech",
		Long: paragraph(
			fmt.Sprintf("\nTranslate a text file with the Omeife API and, %s, save it as speech.", keyword("if you like")),
		),
		Example:       paragraph("textify\ntextify --language Yoruba\nOMEIFE_API_KEY=... textify"),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadConfig()
		},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// loadConfig reads the file named by --config, or searches the config
// directories for textify.yml and writes the defaults there when none exists.
func loadConfig() error {
	viper.SetEnvPrefix("textify")
	viper.AutomaticEnv()

	if configFile != "" {
		if err := ensureConfigFile(configFile); err != nil {
			return err
		}
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
		return nil
	}

	dirs, err := configDirs()
	if err != nil {
		return err
	}
	for _, d := range dirs {
		viper.AddConfigPath(d)
	}
	viper.SetConfigName("textify")
	viper.SetConfigType("yaml")

	var notFound viper.ConfigFileNotFoundError
	switch err := viper.ReadInConfig(); {
	case err == nil:
		configFile = viper.ConfigFileUsed()
		log.Debug("Using configuration file", "path", configFile)
	case errors.As(err, &notFound):
		configFile = filepath.Join(dirs[0], "textify.yml")
		if err := ensureConfigFile(configFile); err != nil {
			log.Warn("Could not create default configuration", "err", err)
		}
	default:
		return fmt.Errorf("could not parse configuration file: %w", err)
	}
	return nil
}

// configDirs lists where textify.yml is looked for, most specific first.
func configDirs() ([]string, error) {
	dirs, err := gap.NewScope(gap.User, "textify").ConfigDirs()
	if err != nil {
		return nil, fmt.Errorf("could not find configuration directory: %w", err)
	}
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "textify")}, dirs...)
	}
	if c := os.Getenv("TEXTIFY_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}
	return dirs, nil
}

// validateOptions builds the run configuration from defaults, the config
// file, flags, .env and the environment, and opens the log file.
func validateOptions(*cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Could not parse .env file", "err", err)
	}

	c := config.Defaults()
	c.BaseURL = viper.GetString("base_url")
	c.APIKey = viper.GetString("api_key")
	c.SourceLanguage = viper.GetString("source_language")
	c.Timeout = viper.GetDuration("timeout")
	c.RequestsPerMinute = viper.GetInt("requests_per_minute")
	c.Language = viper.GetString("language")
	c.InputExtension = viper.GetString("input_extension")
	c.AudioExtension = viper.GetString("audio_extension")
	c.LogFile = viper.GetString("log_file")
	c.LogLevel = viper.GetString("log_level")
	c.Clipboard = viper.GetBool("clipboard")

	c, err := config.FromEnv(c)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	closer, err := setupLog(c.LogFile, c.LogLevel)
	if err != nil {
		return err
	}
	logCloser = closer
	cfg = c
	return nil
}

func execute(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	prompter := term.NewLinePrompter(os.Stdin, os.Stdout)
	s := session.New(session.Options{
		Config:    cfg,
		Prompter:  prompter,
		Picker:    term.NewTerminalPicker(os.Stdin, os.Stdout, prompter),
		Clipboard: clipboard.WriteAll,
		Out:       os.Stdout,
		Logger:    log.Default(),
	})

	if err := s.Run(ctx); err != nil {
		log.Error("Run aborted", "err", err)
		return err
	}
	return nil
}

func main() {
	err := rootCmd.Execute()
	_ = logCloser()
	if err != nil {
		os.Exit(1)
	}
}

// version formats Version and the short commit for --version.
func version() string {
	v := Version
	if v == "" {
		v = "unknown (built from source)"
	}
	if len(CommitSHA) >= 7 {
		v += " (" + CommitSHA[:7] + ")"
	}
	return v
}

// addRunFlags registers the flags of the root command.
func addRunFlags(cmd *cobra.Command) {
	defaults := config.Defaults()
	f := cmd.Flags()
	f.String("base-url", defaults.BaseURL, "Omeife API base URL")
	f.StringP("language", "l", "", "default answer for the target language prompt")
	f.Duration("timeout", 0, "timeout for each API request (0 waits forever)")
	f.String("log-file", defaults.LogFile, "file errors are appended to")
	f.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	f.BoolP("clipboard", "c", false, "copy the translation to the clipboard")
}

// bindConfig maps config keys to cmd's flags and sets their defaults.
func bindConfig(cmd *cobra.Command) {
	for key, flag := range map[string]string{
		"base_url":  "base-url",
		"language":  "language",
		"timeout":   "timeout",
		"log_file":  "log-file",
		"log_level": "log-level",
		"clipboard": "clipboard",
	} {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}

	defaults := config.Defaults()
	viper.SetDefault("base_url", defaults.BaseURL)
	viper.SetDefault("api_key", "")
	viper.SetDefault("source_language", defaults.SourceLanguage)
	viper.SetDefault("timeout", defaults.Timeout)
	viper.SetDefault("requests_per_minute", defaults.RequestsPerMinute)
	viper.SetDefault("language", defaults.Language)
	viper.SetDefault("input_extension", defaults.InputExtension)
	viper.SetDefault("audio_extension", defaults.AudioExtension)
	viper.SetDefault("log_file", defaults.LogFile)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("clipboard", defaults.Clipboard)
}

func init() {
	rootCmd.Version = version()
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $TEXTIFY_CONFIG_HOME/textify.yml or the user config dir)")
	addRunFlags(rootCmd)
	bindConfig(rootCmd)

	rootCmd.AddCommand(configCmd, manCmd)
}
