// Package term provides the interactive collaborators textify talks to:
// line prompts and a terminal file picker.
package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	xterm "golang.org/x/term"
)

// ErrNoInput is returned when the input stream ends before an answer.
var ErrNoInput = errors.New("no input received")

// Prompter asks the user for values.
type Prompter interface {
	// Prompt asks for a value. An empty answer yields def; when def is
	// empty too, the question is repeated.
	Prompt(label, def string) (string, error)

	// Secret asks for a value without echoing it. An empty answer yields
	// def, which may itself be empty.
	Secret(label, def string) (string, error)

	// Confirm asks a yes/no question. An empty answer means no.
	Confirm(label string) (bool, error)
}

// fdReader is satisfied by *os.File.
type fdReader interface {
	io.Reader
	Fd() uintptr
}

// LinePrompter reads answers line by line.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer

	// fd is the terminal file descriptor of the input, or -1.
	fd           int
	readPassword func(fd int) ([]byte, error)
}

// NewLinePrompter returns a prompter reading from in and writing questions
// to out. Secrets are read without echo when in is a terminal.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	fd := -1
	if f, ok := in.(fdReader); ok && xterm.IsTerminal(int(f.Fd())) { //nolint:gosec
		fd = int(f.Fd()) //nolint:gosec
	}
	return &LinePrompter{
		in:           bufio.NewReader(in),
		out:          out,
		fd:           fd,
		readPassword: xterm.ReadPassword,
	}
}

// readLine returns the next line without its trailing newline.
func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("unable to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Prompt implements Prompter.
func (p *LinePrompter) Prompt(label, def string) (string, error) {
	for {
		if def != "" {
			fmt.Fprintf(p.out, "%s [%s]: ", label, def)
		} else {
			fmt.Fprintf(p.out, "%s: ", label)
		}

		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if v := strings.TrimSpace(line); v != "" {
			return v, nil
		}
		if def != "" {
			return def, nil
		}
	}
}

// Secret implements Prompter.
func (p *LinePrompter) Secret(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, MaskKey(def))
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	var line string
	if p.fd >= 0 {
		b, err := p.readPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("unable to read secret: %w", err)
		}
		line = string(b)
	} else {
		var err error
		if line, err = p.readLine(); err != nil {
			return "", err
		}
	}

	if v := strings.TrimSpace(line); v != "" {
		return v, nil
	}
	return def, nil
}

// Confirm implements Prompter.
func (p *LinePrompter) Confirm(label string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s [y/N]: ", label)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Error: invalid input")
	}
}

// MaskKey hides all but the last four characters of a secret.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

var _ Prompter = (*LinePrompter)(nil)
