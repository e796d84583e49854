// Copyright (c) 2026 Quill Authors
// Quill - blog drafting and publishing toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package menu

import "io"

// KeyEvent classifies one raw input read. Only the events the menu acts on
// get their own value; everything else is KeyNone and is ignored.
type KeyEvent int

const (
	KeyNone KeyEvent = iota
	KeyUp
	KeyDown
	KeyConfirm
	KeyInterrupt
)

// Escape sequences the menu emits. Kept in one place so an alternate
// terminal backend only has to swap these out.
const (
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	eraseLine   = "\x1b[2K"
	cursorUpFmt = "\x1b[%dA"
)

// readKey blocks for the next key event. A single bounded read is enough:
// in raw mode an arrow key arrives as its full 3-byte escape sequence.
func readKey(r io.Reader) (KeyEvent, error) {
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	if err != nil {
		return KeyNone, err
	}
	return decodeKey(buf[:n]), nil
}

// decodeKey maps a raw byte sequence to a KeyEvent. Exactly three classes
// are recognized: arrow up, arrow down, and plain Enter. Ctrl-C (0x03) is
// decoded separately because raw mode suppresses the usual SIGINT.
func decodeKey(b []byte) KeyEvent {
	switch {
	case len(b) == 1 && (b[0] == '\r' || b[0] == '\n'):
		return KeyConfirm
	case len(b) == 1 && b[0] == 0x03:
		return KeyInterrupt
	case len(b) == 3 && b[0] == 0x1b && b[1] == '[' && b[2] == 'A':
		return KeyUp
	case len(b) == 3 && b[0] == 0x1b && b[1] == '[' && b[2] == 'B':
		return KeyDown
	}
	return KeyNone
}
