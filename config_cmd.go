package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
)

const defaultConfig = `# Omeife API base URL
base_url: "https://apis.omeife.ai/api/v1/"
# language input files are written in
source_language: "english"
# default answer for the target language prompt, e.g. "Hausa"
language: ""
# timeout for each API request, e.g. "30s" (0 waits forever)
timeout: 0
# client-side request limit per minute (0 is unlimited)
requests_per_minute: 0

# files offered when picking input and saving speech
input_extension: ".txt"
audio_extension: ".wav"

# errors are appended to this file
log_file: "textify.log"
# debug, info, warn or error
log_level: "info"

# copy the translation to the clipboard
clipboard: false

# The API key is asked for on every run. Set OMEIFE_API_KEY (or put it in a
# .env file) to have it offered as the default answer.
`

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Edit the textify config file",
	Long:    paragraph(fmt.Sprintf("\n%s the textify config file with $EDITOR. A file with the defaults is written first if there is none.", keyword("Edit"))),
	Example: paragraph("textify config\ntextify config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(configFile); err != nil {
			return err
		}

		c, err := editor.Cmd("Textify", configFile)
		if err != nil {
			return fmt.Errorf("unable to open editor: %w", err)
		}
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("editor exited: %w", err)
		}

		fmt.Println("Config file:", configFile)
		return nil
	},
}

// ensureConfigFile writes defaultConfig to path unless a file is already
// there. Only YAML paths are accepted.
func ensureConfigFile(path string) error {
	if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%q is not a supported configuration type: use .yaml or .yml", ext)
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}
