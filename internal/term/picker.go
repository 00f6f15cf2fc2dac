package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-homedir"
	xterm "golang.org/x/term"
)

// Picker chooses files. An empty path with a nil error means the user
// cancelled.
type Picker interface {
	// OpenExisting returns the path of an existing file matching filter.
	OpenExisting(filter Filter) (string, error)

	// ChooseSaveLocation returns a path to write a new file to.
	// defaultExt is appended when the chosen name has no extension.
	ChooseSaveLocation(defaultExt string, filter Filter) (string, error)
}

// TerminalPicker picks files in the terminal. Opening a file shows a
// navigable file browser when the input is a terminal and falls back to a
// typed path otherwise; save locations are always typed.
type TerminalPicker struct {
	in          io.Reader
	out         io.Writer
	prompter    *LinePrompter
	interactive bool
	dir         string
}

// NewTerminalPicker returns a picker reading from in and drawing to out.
// It shares the line buffer of prompter so typed answers are not lost.
func NewTerminalPicker(in io.Reader, out io.Writer, prompter *LinePrompter) *TerminalPicker {
	interactive := false
	if f, ok := in.(fdReader); ok {
		interactive = xterm.IsTerminal(int(f.Fd())) //nolint:gosec
	}
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &TerminalPicker{
		in:          in,
		out:         out,
		prompter:    prompter,
		interactive: interactive,
		dir:         dir,
	}
}

// OpenExisting implements Picker.
func (p *TerminalPicker) OpenExisting(filter Filter) (string, error) {
	if p.interactive {
		return p.browse(filter)
	}

	for {
		fmt.Fprintf(p.out, "Path to file, %s (empty to cancel): ", filter)
		line, err := p.prompter.readLine()
		if err != nil {
			return "", err
		}
		path, err := p.resolve(strings.TrimSpace(line))
		if err != nil || path == "" {
			return "", err
		}

		st, err := os.Stat(path)
		switch {
		case err != nil:
			fmt.Fprintf(p.out, "Error: %s does not exist\n", path)
		case st.IsDir():
			fmt.Fprintf(p.out, "Error: %s is a directory\n", path)
		case !filter.Match(path):
			fmt.Fprintf(p.out, "Error: %s is not one of %s\n", path, filter)
		default:
			return path, nil
		}
	}
}

// ChooseSaveLocation implements Picker.
func (p *TerminalPicker) ChooseSaveLocation(defaultExt string, filter Filter) (string, error) {
	for {
		fmt.Fprintf(p.out, "Save as, %s (empty to cancel): ", filter)
		line, err := p.prompter.readLine()
		if err != nil {
			return "", err
		}
		path, err := p.resolve(strings.TrimSpace(line))
		if err != nil || path == "" {
			return "", err
		}
		if filepath.Ext(path) == "" {
			path += defaultExt
		}

		if st, err := os.Stat(filepath.Dir(path)); err != nil || !st.IsDir() {
			fmt.Fprintf(p.out, "Error: directory %s does not exist\n", filepath.Dir(path))
			continue
		}
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			fmt.Fprintf(p.out, "Error: %s is a directory\n", path)
			continue
		}
		return path, nil
	}
}

// resolve expands ~ and makes path absolute relative to the picker's
// directory. An empty path resolves to "".
func (p *TerminalPicker) resolve(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("unable to expand path: %w", err)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	return filepath.Clean(path), nil
}

// browse runs the file browser and returns the selected file.
func (p *TerminalPicker) browse(filter Filter) (string, error) {
	m := newPickerModel(p.dir, filter)
	final, err := tea.NewProgram(m, tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	if err != nil {
		return "", fmt.Errorf("unable to run file picker: %w", err)
	}
	pm, ok := final.(pickerModel)
	if !ok {
		return "", errors.New("unexpected file picker state")
	}
	return pm.selected, nil
}

var (
	pickerTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1F1F1")).Background(lipgloss.Color("#6124DF")).Padding(0, 1)
	pickerHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"})
	pickerErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
)

type clearErrorMsg struct{}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// pickerModel hosts a bubbles filepicker until a file is chosen or the user
// quits.
type pickerModel struct {
	fp       filepicker.Model
	filter   Filter
	selected string
	quitting bool
	err      error
}

func newPickerModel(dir string, filter Filter) pickerModel {
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = filter.Extensions
	return pickerModel{fp: fp, filter: filter}
}

func (m pickerModel) Init() tea.Cmd {
	return m.fp.Init()
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		}
	case clearErrorMsg:
		m.err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)

	if ok, path := m.fp.DidSelectFile(msg); ok {
		m.selected = path
		return m, tea.Quit
	}
	if ok, path := m.fp.DidSelectDisabledFile(msg); ok {
		m.err = fmt.Errorf("%s is not one of %s", filepath.Base(path), m.filter)
		return m, tea.Batch(cmd, clearErrorAfter(2*time.Second))
	}
	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting || m.selected != "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n  " + pickerTitleStyle.Render("Select "+m.filter.String()) + "\n\n")
	if m.err != nil {
		b.WriteString("  " + pickerErrStyle.Render(m.err.Error()) + "\n\n")
	}
	b.WriteString(m.fp.View())
	b.WriteString("\n  " + pickerHelpStyle.Render("enter: select • esc/q: cancel") + "\n")
	return b.String()
}

var _ Picker = (*TerminalPicker)(nil)
