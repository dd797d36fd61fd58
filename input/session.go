package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// NonInteractive never prompts, so every descriptor resolves to its default.
var NonInteractive Asker = nonInteractive{}

type nonInteractive struct{}

func (nonInteractive) Interactive() bool { return false }

func (nonInteractive) Ask(string) (string, error) { return "", ErrNotInteractive }

// Session is a line based Asker reading answers from an io.Reader.
type Session struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithReader sets where answers are read from.
func WithReader(r io.Reader) SessionOption {
	return func(s *Session) {
		if r != nil {
			s.in = bufio.NewReader(r)
		}
	}
}

// WithWriter sets where prompts are written.
func WithWriter(w io.Writer) SessionOption {
	return func(s *Session) {
		if w != nil {
			s.out = w
		}
	}
}

// WithInteractive overrides terminal detection. Passing false is the batch mode.
func WithInteractive(enabled bool) SessionOption {
	return func(s *Session) {
		s.interactive = enabled
	}
}

// NewSession returns a Session on stdin/stdout. It is interactive only when stdin
// is a terminal.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Interactive reports whether prompts are shown.
func (s *Session) Interactive() bool {
	return s != nil && s.interactive
}

// Ask writes prompt and reads one line. A final line without newline is accepted;
// io.EOF is returned only when nothing was read.
func (s *Session) Ask(prompt string) (string, error) {
	if !s.Interactive() {
		return "", ErrNotInteractive
	}
	if _, err := fmt.Fprint(s.out, prompt); err != nil {
		return "", err
	}
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
