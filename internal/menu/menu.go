// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// package menu implements the interactive selection list used throughout
// Quill. It renders a fixed block of options at the bottom of the screen,
// redraws it in place as the user moves with the arrow keys, and returns
// the index of the option confirmed with Enter.
//
// The widget owns the terminal for the duration of one call: raw input
// mode and a hidden cursor are acquired on entry and released on every
// exit path, including external interrupts.
package menu // import "github.com/scriptorium/quill/internal/menu"

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// MaxOptions is the largest option list a single menu session accepts.
const MaxOptions = 256

var (
	// ErrInvalidOptionCount is returned when the option list is empty or
	// longer than MaxOptions. The terminal is left untouched.
	ErrInvalidOptionCount = errors.New("menu: option count must be between 1 and 256")
	// ErrInvalidLabel is returned when a label contains newlines or other
	// control characters that would corrupt the row layout.
	ErrInvalidLabel = errors.New("menu: option labels must not contain control characters")
	// ErrNotTerminal is returned when stdin is not a TTY or raw mode
	// cannot be acquired.
	ErrNotTerminal = errors.New("menu: standard input is not a terminal")
)

var (
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	plainStyle    = lipgloss.NewStyle()
)

// Menu is one interactive selection session. It is single-use: create it,
// call Run once, let it go out of scope. Concurrent or nested sessions are
// not supported; the menu assumes exclusive ownership of the screen.
type Menu struct {
	screen   Screen
	options  []string
	selected int

	// exit is called after terminal restoration when the session is
	// interrupted. Overridable so tests don't kill the test binary.
	exit func(code int)
}

// New validates the option list and prepares a session on the process
// terminal. Validation happens here, before any terminal mode change.
func New(options []string) (*Menu, error) {
	return NewWithScreen(options, defaultScreen())
}

// NewWithScreen is New with an explicit screen, used by tests to drive the
// session without a TTY.
func NewWithScreen(options []string, screen Screen) (*Menu, error) {
	if len(options) == 0 || len(options) > MaxOptions {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidOptionCount, len(options))
	}
	for _, label := range options {
		if strings.ContainsFunc(label, unicode.IsControl) {
			return nil, fmt.Errorf("%w (label %q)", ErrInvalidLabel, label)
		}
	}
	opts := make([]string, len(options))
	copy(opts, options)
	return &Menu{
		screen:  screen,
		options: opts,
		exit:    os.Exit,
	}, nil
}

// Select renders an interactive menu for the given options and blocks until
// the user confirms one. It returns the 0-based index of the chosen option.
func Select(options []string) (int, error) {
	m, err := New(options)
	if err != nil {
		return -1, err
	}
	return m.Run()
}

// Run executes the full session lifecycle: acquire the terminal, loop over
// key events, release the terminal, report the selection.
func (m *Menu) Run() (int, error) {
	if !m.screen.IsTerminal() {
		return -1, ErrNotTerminal
	}

	restore, err := m.screen.MakeRaw()
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrNotTerminal, err)
	}

	fmt.Fprint(m.screen, hideCursor)

	// release undoes every terminal change exactly once, no matter which
	// exit path runs first.
	release := sync.OnceFunc(func() {
		fmt.Fprint(m.screen, showCursor)
		restore()
	})
	defer release()

	// An external interrupt must restore the terminal before the process
	// dies. Keyboard Ctrl-C never reaches this handler in raw mode (ISIG
	// is cleared); it arrives as byte 0x03 on the read path below.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Stop delivery first, then close the channel so the handler goroutine
	// unblocks and returns when the session ends without a signal.
	defer func() {
		signal.Stop(sigc)
		close(sigc)
	}()
	go func() {
		if _, ok := <-sigc; ok {
			release()
			fmt.Fprint(m.screen, "\r\n")
			m.exit(130)
		}
	}()

	// Reserve one row per option so the redraw never scrolls content that
	// should stay above the menu. The block is anchored to the bottom of
	// the reserved area: after these writes the cursor sits on the row
	// just below the last option.
	fmt.Fprint(m.screen, strings.Repeat("\r\n", len(m.options)))

	m.render()

	for {
		ev, err := readKey(m.screen)
		if err != nil {
			return -1, fmt.Errorf("menu: read key: %w", err)
		}
		switch ev {
		case KeyUp:
			m.selected = step(m.selected, len(m.options), -1)
			m.render()
		case KeyDown:
			m.selected = step(m.selected, len(m.options), +1)
			m.render()
		case KeyConfirm:
			fmt.Fprint(m.screen, "\r\n")
			release()
			return m.selected, nil
		case KeyInterrupt:
			release()
			fmt.Fprint(m.screen, "\r\n")
			m.exit(130)
			return -1, errors.New("menu: interrupted")
		default:
			// Ignored input; state unchanged, no redraw needed.
		}
	}
}

// render rewrites the whole option block in place. The cursor starts and
// ends on the row below the block, so a render is idempotent for a fixed
// selected index.
func (m *Menu) render() {
	var b strings.Builder
	fmt.Fprintf(&b, cursorUpFmt, len(m.options))
	for i, label := range m.options {
		// Erase the row first so a previously highlighted label never
		// leaves stale cells behind.
		b.WriteString("\r" + eraseLine)
		if i == m.selected {
			b.WriteString("  " + selectedStyle.Render(" > "+label+" "))
		} else {
			b.WriteString("  " + plainStyle.Render("   "+label+" "))
		}
		b.WriteString("\r\n")
	}
	fmt.Fprint(m.screen, b.String())
}

// step advances a selection cursor by delta with wrap-around.
func step(selected, n, delta int) int {
	return (selected + delta + n) % n
}
