// Package draw implements the terminal presentation layer: entering raw
// mode, reading the window size, and rendering the current channel's
// buffer tail and input line as ANSI escape sequences.
package draw

import (
	"os"

	"golang.org/x/term"
)

// Terminal owns raw-mode entry/restore and window-size queries for a
// single file descriptor, mirroring tty.New's role in nabbar-golib.
type Terminal struct {
	fd       int
	oldState *term.State
}

// NewTerminal returns a Terminal bound to f's file descriptor (typically
// os.Stdin).
func NewTerminal(f *os.File) *Terminal {
	return &Terminal{fd: int(f.Fd())}
}

// EnterRaw puts the terminal into raw mode so individual keystrokes reach
// the input editor uninterpreted (no line buffering, no echo).
func (t *Terminal) EnterRaw() error {
	st, err := term.MakeRaw(t.fd)
	if err != nil {
		return err
	}
	t.oldState = st
	return nil
}

// Restore returns the terminal to the mode it was in before EnterRaw. It
// is a no-op if EnterRaw was never called or already failed.
func (t *Terminal) Restore() error {
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(t.fd, t.oldState)
	t.oldState = nil
	return err
}

// Size returns the current window dimensions in columns and rows,
// falling back to a conservative default if the query fails (e.g. stdin
// is not a real terminal, as in tests).
func (t *Terminal) Size() (cols, rows int) {
	cols, rows, err := term.GetSize(t.fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}
