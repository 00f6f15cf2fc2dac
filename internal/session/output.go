package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	red    = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F87"}
	yellow = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD75F"}
	green  = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#04B575"}
	cyan   = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#5FD7FF"}
	gray   = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
)

// styles are bound to the renderer of the session's output, so colors are
// only emitted when that output is a terminal.
type styles struct {
	banner   lipgloss.Style
	err      lipgloss.Style
	progress lipgloss.Style
	heading  lipgloss.Style
	success  lipgloss.Style
	saved    lipgloss.Style
	hint     lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		banner:   r.NewStyle().Bold(true).Foreground(green),
		err:      r.NewStyle().Bold(true).Foreground(red),
		progress: r.NewStyle().Bold(true).Foreground(yellow),
		heading:  r.NewStyle().Bold(true).Foreground(yellow),
		success:  r.NewStyle().Bold(true).Foreground(green),
		saved:    r.NewStyle().Bold(true).Foreground(cyan),
		hint:     r.NewStyle().Italic(true).Foreground(gray),
	}
}

// progress prints an empty bar for label and returns a func that prints it
// full. The remote calls report no partial progress, so the bar only ever
// shows start and completion.
func (s *Session) progress(label string) func() {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	fmt.Fprintf(s.out, "%-18s %s\r", label, bar.ViewAs(0))
	return func() {
		fmt.Fprintf(s.out, "%-18s %s\n", label, bar.ViewAs(1))
	}
}

// displayLanguage capitalizes a language name for display.
func displayLanguage(name string) string {
	if name == "" {
		return "English"
	}
	return cases.Title(language.English).String(name)
}

// knownLanguages are offered as suggestions when the entered language looks
// like a typo. The API accepts free text, so nothing is rejected.
var knownLanguages = []string{
	"Hausa", "Yoruba", "Igbo", "Pidgin", "Efik", "Ibibio", "Tiv", "Kanuri",
	"Fulfulde", "Urhobo", "Edo", "Swahili", "Zulu", "Xhosa", "Amharic",
	"Twi", "Wolof", "Somali", "English", "French", "Arabic", "Portuguese",
	"Spanish", "German", "Chinese",
}

// suggestLanguage returns the closest known language to input, or "" when
// input is already known or nothing resembles it.
func suggestLanguage(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	for _, l := range knownLanguages {
		if strings.EqualFold(l, input) {
			return ""
		}
	}
	matches := fuzzy.Find(input, knownLanguages)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
