// Package session drives a single textify run: prompt for credentials and a
// target language, pick a file, translate it, and optionally save the text
// and a spoken version of it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/dgnsrekt/textify/internal/config"
	"github.com/dgnsrekt/textify/internal/omeife"
	"github.com/dgnsrekt/textify/internal/term"
)

// Service is the remote API a session talks to.
type Service interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	Synthesize(ctx context.Context, text, language, savePath string) (int64, error)
}

// Options configures a Session.
type Options struct {
	Config   config.Config
	Prompter term.Prompter
	Picker   term.Picker

	// NewService builds the API client once the key is known.
	// Defaults to omeife.NewClient.
	NewService func(omeife.Config) Service

	// Clipboard receives the translation when Config.Clipboard is set.
	Clipboard func(string) error

	Out    io.Writer
	Logger *log.Logger
}

// Session is one interactive run.
type Session struct {
	cfg        config.Config
	prompter   term.Prompter
	picker     term.Picker
	newService func(omeife.Config) Service
	clipboard  func(string) error
	out        io.Writer
	style      styles
	log        *log.Logger
}

// New returns a Session for opts.
func New(opts Options) *Session {
	s := &Session{
		cfg:        opts.Config,
		prompter:   opts.Prompter,
		picker:     opts.Picker,
		newService: opts.NewService,
		clipboard:  opts.Clipboard,
		out:        opts.Out,
		log:        opts.Logger,
	}
	if s.newService == nil {
		s.newService = func(c omeife.Config) Service { return omeife.NewClient(c) }
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}
	s.style = newStyles(s.out)
	return s
}

// Run executes the session. Cancelling file selection ends the run early
// without an error; API and file failures are reported and the run moves
// on. Only prompt failures and context cancellation are returned.
func (s *Session) Run(ctx context.Context) error {
	apiKey, err := s.prompter.Secret("Input API Key", s.cfg.APIKey)
	if err != nil {
		return err
	}

	s.println("\n" + s.style.banner.Render("Welcome to Textify!"))

	language, err := s.prompter.Prompt("Choose translation language (Hausa,)", s.cfg.Language)
	if err != nil {
		return err
	}
	if hint := suggestLanguage(language); hint != "" {
		s.println(s.style.hint.Render(fmt.Sprintf("%q is not a language we know; did you mean %s?", language, hint)))
	}

	svc := s.newService(s.cfg.Omeife(apiKey))
	inputFilter := term.FilterFor(s.cfg.InputExtension)

	s.println(fmt.Sprintf("\nSelect a %s file to translate...", s.cfg.InputExtension))
	path, err := s.picker.OpenExisting(inputFilter)
	if err != nil {
		return err
	}
	if path == "" {
		s.println(s.style.err.Render("No file selected. Exiting."))
		return nil
	}

	text, err := readText(path)
	switch {
	case errors.Is(err, errEmptyFile):
		s.println(s.style.err.Render("The selected file is empty. Exiting."))
		return nil
	case err != nil:
		s.log.Error("Read error", "path", path, "err", err)
		s.println(s.style.err.Render("Unable to read the selected file. Check Logs"))
		return nil
	}

	translated, err := s.translate(ctx, svc, text, language)
	if err != nil {
		return err
	}

	s.println("\n" + s.style.heading.Render("Translated from "+displayLanguage(s.cfg.SourceLanguage)+" to: ") + language)
	s.println(s.style.success.Render("Translation Complete:"))
	s.println(translated)
	s.println("")

	if translated == "" {
		s.println(s.style.err.Render("Nothing to save or speak."))
		s.println(s.style.success.Render("Process Complete!"))
		return nil
	}

	if s.cfg.Clipboard && s.clipboard != nil {
		if err := s.clipboard(translated); err != nil {
			s.log.Warn("Clipboard error", "err", err)
		}
	}

	if err := s.saveText(translated); err != nil {
		return err
	}
	if err := s.speak(ctx, svc, translated, language); err != nil {
		return err
	}

	s.println(s.style.success.Render("Process Complete!"))
	return nil
}

// translate calls the API and reports failures. It returns an empty string
// when translation failed; the error is only set when ctx was cancelled.
func (s *Session) translate(ctx context.Context, svc Service, text, language string) (string, error) {
	s.println(s.style.progress.Render("Translating..."))
	done := s.progress("Translating")
	translated, err := svc.Translate(ctx, text, language)
	done()

	if err == nil {
		return translated, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if omeife.CodeOf(err) == omeife.ErrorCodeCredentialMissing {
		s.log.Warn("Translation skipped", "err", err)
		s.println("\n" + s.style.err.Render(missingKeyMessage))
		return "", nil
	}

	s.log.Error("Translation error", "err", err)
	s.println("\n" + s.style.err.Render("Oops! Failed to translate."))
	return "", nil
}

// saveText offers to write the translation to a file.
func (s *Session) saveText(translated string) error {
	ok, err := s.prompter.Confirm("Do you want to save the translated text?")
	if err != nil || !ok {
		return err
	}

	path, err := s.picker.ChooseSaveLocation(".txt", term.TextFiles)
	if err != nil || path == "" {
		return err
	}

	if err := os.WriteFile(path, []byte(translated), 0o644); err != nil { //nolint:gosec
		s.log.Error("Save error", "path", path, "err", err)
		s.println(s.style.err.Render("Unable to save the translated text. Check Logs"))
		return nil
	}

	s.println(s.style.saved.Render(fmt.Sprintf("Translated file saved at: %s", path)) + "\n")
	return nil
}

// speak offers to synthesize the translation and download the audio.
func (s *Session) speak(ctx context.Context, svc Service, translated, language string) error {
	ok, err := s.prompter.Confirm("Do you want to convert the text to speech?")
	if err != nil || !ok {
		return err
	}

	ext := s.cfg.AudioExtension
	path, err := s.picker.ChooseSaveLocation(ext, term.FilterFor(ext))
	if err != nil || path == "" {
		return err
	}

	s.println(s.style.progress.Render("Generating speech..."))
	done := s.progress("Generating Speech")
	n, err := svc.Synthesize(ctx, translated, language, path)
	done()

	if err == nil {
		s.log.Info("Speech synthesis successful.", "path", path, "bytes", n)
		s.println("\n" + s.style.saved.Render(fmt.Sprintf("Speech file saved at: %s (%s)", path, humanize.Bytes(uint64(n))))) //nolint:gosec
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.log.Error("Speech synthesis error", "err", err)
	switch omeife.CodeOf(err) {
	case omeife.ErrorCodeCredentialMissing:
		s.println("\n" + s.style.err.Render(missingKeyMessage))
	case omeife.ErrorCodeSynthesis:
		// the speech request failing is only logged
	case omeife.ErrorCodeDownload:
		s.println(s.style.err.Render("Error downloading audio: Check Logs"))
	default:
		s.println(s.style.err.Render("An unexpected error occurred. Check Logs"))
	}
	return nil
}

var errEmptyFile = errors.New("file is empty")

const missingKeyMessage = "API key is missing. Please set OMEIFE_API_KEY as an environment variable."

// readText reads the whole input file as UTF-8 text.
func readText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read file: %w", err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return "", errEmptyFile
	}
	return string(b), nil
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}
