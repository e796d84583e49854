// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package menu

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Screen is the terminal surface a menu session draws on. The production
// implementation wraps the process TTY; tests substitute a scripted fake.
type Screen interface {
	io.Reader
	io.Writer

	// IsTerminal reports whether the screen is an interactive terminal.
	IsTerminal() bool

	// MakeRaw switches the screen to raw, unechoed input and returns a
	// function that restores the previous mode. MakeRaw must not leave
	// the terminal partially modified on error.
	MakeRaw() (restore func(), err error)
}

// ttyScreen is the real terminal: reads from stdin, writes to stdout.
type ttyScreen struct {
	in  *os.File
	out *os.File
}

func defaultScreen() Screen {
	return &ttyScreen{in: os.Stdin, out: os.Stdout}
}

func (s *ttyScreen) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *ttyScreen) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s *ttyScreen) IsTerminal() bool {
	return term.IsTerminal(int(s.in.Fd()))
}

func (s *ttyScreen) MakeRaw() (func(), error) {
	fd := int(s.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(fd, oldState) }, nil
}
