// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package menu

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeScreen plays back a scripted sequence of key reads and records
// everything the menu does to the terminal.
type fakeScreen struct {
	script   [][]byte
	out      bytes.Buffer
	terminal bool
	rawErr   error
	rawCalls int
	restored int
}

func newFakeScreen(script ...[]byte) *fakeScreen {
	return &fakeScreen{script: script, terminal: true}
}

func (s *fakeScreen) Read(p []byte) (int, error) {
	if len(s.script) == 0 {
		return 0, io.EOF
	}
	chunk := s.script[0]
	s.script = s.script[1:]
	return copy(p, chunk), nil
}

func (s *fakeScreen) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s *fakeScreen) IsTerminal() bool            { return s.terminal }

func (s *fakeScreen) MakeRaw() (func(), error) {
	if s.rawErr != nil {
		return nil, s.rawErr
	}
	s.rawCalls++
	return func() { s.restored++ }, nil
}

var (
	keyUp      = []byte{0x1b, '[', 'A'}
	keyDown    = []byte{0x1b, '[', 'B'}
	keyEnter   = []byte{'\r'}
	keyCtrlC   = []byte{0x03}
	keyIgnored = []byte{'x'}
)

func runMenu(t *testing.T, options []string, screen *fakeScreen) (int, error) {
	t.Helper()
	m, err := NewWithScreen(options, screen)
	if err != nil {
		return -1, err
	}
	m.exit = func(int) {}
	return m.Run()
}

func TestBoundaryRejection(t *testing.T) {
	cases := map[string][]string{
		"empty":    {},
		"too many": make([]string, MaxOptions+1),
	}
	for name, options := range cases {
		t.Run(name, func(t *testing.T) {
			screen := newFakeScreen()
			_, err := NewWithScreen(options, screen)
			if !errors.Is(err, ErrInvalidOptionCount) {
				t.Fatalf("expected ErrInvalidOptionCount, got %v", err)
			}
			if screen.rawCalls != 0 || screen.out.Len() != 0 {
				t.Fatal("rejection must not touch the terminal")
			}
		})
	}
}

func TestLabelsWithControlCharactersRejected(t *testing.T) {
	for _, label := range []string{"two\nlines", "bell\x07", "esc\x1b[31m"} {
		screen := newFakeScreen()
		_, err := NewWithScreen([]string{label}, screen)
		if !errors.Is(err, ErrInvalidLabel) {
			t.Fatalf("label %q: expected ErrInvalidLabel, got %v", label, err)
		}
		if screen.rawCalls != 0 {
			t.Fatal("rejection must not touch the terminal")
		}
	}
}

func TestNotATerminal(t *testing.T) {
	screen := newFakeScreen()
	screen.terminal = false
	_, err := runMenu(t, []string{"a", "b"}, screen)
	if !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
	if screen.out.Len() != 0 {
		t.Fatal("failed session must not render anything")
	}
}

func TestRawModeFailure(t *testing.T) {
	screen := newFakeScreen()
	screen.rawErr = errors.New("ioctl failed")
	_, err := runMenu(t, []string{"a", "b"}, screen)
	if !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("expected wrapped ErrNotTerminal, got %v", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	options := []string{"Empty Post", "Post with text", "Post with images", "Post with everything"}
	screen := newFakeScreen(keyDown, keyDown, keyEnter)
	idx, err := runMenu(t, options, screen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 2 {
		t.Fatalf("expected index 2 (%q), got %d", options[2], idx)
	}
	if screen.restored != 1 {
		t.Fatalf("terminal restored %d times, want exactly 1", screen.restored)
	}
	if !strings.Contains(screen.out.String(), showCursor) {
		t.Fatal("cursor visibility was not restored")
	}
}

func TestWrapAround(t *testing.T) {
	t.Run("up from first", func(t *testing.T) {
		screen := newFakeScreen(keyUp, keyEnter)
		idx, err := runMenu(t, []string{"a", "b", "c"}, screen)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if idx != 2 {
			t.Fatalf("expected wrap to last index 2, got %d", idx)
		}
	})
	t.Run("down from last", func(t *testing.T) {
		screen := newFakeScreen(keyUp, keyDown, keyEnter)
		idx, err := runMenu(t, []string{"a", "b", "c"}, screen)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if idx != 0 {
			t.Fatalf("expected wrap back to 0, got %d", idx)
		}
	})
}

func TestSingleOptionList(t *testing.T) {
	screen := newFakeScreen(keyUp, keyDown, keyUp, keyEnter)
	idx, err := runMenu(t, []string{"only"}, screen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 0 {
		t.Fatalf("expected 0, got %d", idx)
	}
}

func TestIgnoredInputLeavesStateUnchanged(t *testing.T) {
	screen := newFakeScreen(keyDown, keyIgnored, []byte{0x1b}, []byte{' '}, keyEnter)
	idx, err := runMenu(t, []string{"a", "b", "c"}, screen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Fatalf("ignored keys moved the selection: got %d, want 1", idx)
	}
}

func TestReadFailureStillRestores(t *testing.T) {
	screen := newFakeScreen() // immediate EOF
	_, err := runMenu(t, []string{"a", "b"}, screen)
	if err == nil {
		t.Fatal("expected a read error")
	}
	if screen.restored != 1 {
		t.Fatalf("terminal restored %d times, want exactly 1", screen.restored)
	}
}

func TestInterruptRestoresBeforeExit(t *testing.T) {
	screen := newFakeScreen(keyDown, keyCtrlC)
	m, err := NewWithScreen([]string{"a", "b"}, screen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var exitCode = -1
	m.exit = func(code int) {
		exitCode = code
		if screen.restored != 1 {
			t.Errorf("terminal not restored before exit (restored=%d)", screen.restored)
		}
	}
	if _, err := m.Run(); err == nil {
		t.Fatal("interrupted run should not return a selection")
	}
	if exitCode != 130 {
		t.Fatalf("expected exit code 130, got %d", exitCode)
	}
}

func TestRepeatedSessionsDoNotLeakGoroutines(t *testing.T) {
	// The signal handler goroutine must return when a session ends, so an
	// interactive loop running one menu after another stays flat.
	before := runtime.NumGoroutine()

	for i := 0; i < 50; i++ {
		screen := newFakeScreen(keyEnter)
		if _, err := runMenu(t, []string{"a", "b"}, screen); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	// Give the handler goroutines a moment to observe the channel close.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before+2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("goroutines grew from %d to %d over 50 sessions", before, runtime.NumGoroutine())
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// renders returns the per-row plain text of each render pass.
func renders(out string, rows int) [][]string {
	var passes [][]string
	for _, block := range strings.Split(out, "\x1b[2A")[1:] {
		lines := strings.Split(block, "\r\n")
		var pass []string
		for i := 0; i < rows && i < len(lines); i++ {
			pass = append(pass, ansiPattern.ReplaceAllString(lines[i], ""))
		}
		passes = append(passes, pass)
	}
	return passes
}

func TestRenderDeterminism(t *testing.T) {
	// Two ignored keys between renders: selection is fixed, so row text
	// must be identical across passes and rows must differ only in style.
	screen := newFakeScreen(keyUp, keyUp, keyEnter) // wrap twice over 2 options: back to 0
	idx, err := runMenu(t, []string{"alpha", "beta"}, screen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 0 {
		t.Fatalf("expected 0 after full wrap, got %d", idx)
	}

	passes := renders(screen.out.String(), 2)
	if len(passes) != 3 {
		t.Fatalf("expected 3 render passes, got %d", len(passes))
	}
	// First and last pass have the same selection; stripped of styling
	// they must match row for row.
	for i := range passes[0] {
		first := strings.TrimRight(passes[0][i], " ")
		last := strings.TrimRight(passes[2][i], " ")
		if first != last {
			t.Fatalf("row %d not stable across renders: %q vs %q", i, first, last)
		}
	}
	// Selected and unselected rows carry the same label text.
	if !strings.Contains(passes[0][0], "alpha") || !strings.Contains(passes[0][1], "beta") {
		t.Fatalf("labels missing from render: %q", passes[0])
	}
}

func TestSelectionIndexAlwaysInRange(t *testing.T) {
	options := []string{"a", "b", "c", "d", "e"}
	script := [][]byte{keyUp, keyUp, keyDown, keyUp, keyDown, keyDown, keyDown, keyEnter}
	screen := newFakeScreen(script...)
	idx, err := runMenu(t, options, screen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx < 0 || idx >= len(options) {
		t.Fatalf("index %d out of range", idx)
	}
}
