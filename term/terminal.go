// Package term provides a platform-polymorphic terminal handle: decoded
// input, buffered styled output, attribute/size queries, signal
// dispatch, and raw/cooked mode switching, with one constructor per
// backing device (controlling tty, pty, external stty process, VT and
// legacy Windows consoles, a line-discipline emulator, and a dummy).
package term

import (
	"fmt"
	"time"

	"github.com/phoenix-tui/vterm"
	"github.com/phoenix-tui/vterm/termattr"
)

// Size is a terminal's dimensions in character cells.
type Size struct {
	Rows, Cols int
}

// TrackingRequest bundles the mouse/focus/paste toggles a Terminal can
// be asked to enable. The system terminal writes the DECSET/DECRST pair
// for each flag; the pty and Windows VT terminals write only the mouse
// pair; the exec, dummy and line-discipline terminals write nothing. No
// variant registers the incoming sequences with an input decoder.
type TrackingRequest struct {
	Mouse bool
	Focus bool
	Paste bool
}

// Terminal is the uniform handle every backing device implements.
type Terminal interface {
	// Reader returns the decoded, non-blocking input source.
	Reader() *Reader
	// Writer returns the buffered output sink.
	Writer() *Writer

	GetAttributes() (termattr.Attributes, error)
	SetAttributes(termattr.Attributes) error

	GetSize() (Size, error)
	SetSize(Size) error

	// Handle installs handler for sig, returning the previously
	// installed handler (or nil).
	Handle(sig Signal, handler Handler) Handler

	// EnterRawMode snapshots the current attributes, clears the
	// canonical-mode bits, and returns the snapshot so the caller can
	// restore it manually if Close is not used for that purpose.
	EnterRawMode() (termattr.Attributes, error)

	// SetTracking enables or disables mouse/focus/paste reporting.
	SetTracking(req TrackingRequest) error

	// Pause and Resume return ErrTerminalClosed after Close and are
	// otherwise no-ops: no variant suspends or restarts its input pump.
	Pause() error
	Resume() error

	// IsInRawMode reports whether EnterRawMode has been called without
	// an intervening Close/restore.
	IsInRawMode() bool

	// Close restores the attribute snapshot, stops the input pump and
	// signal handlers, and transitions the terminal to closed. Safe to
	// call more than once.
	Close() error
}

// ErrTerminalClosed is returned by every operation once Close has run.
// Wraps vterm.ErrClosed so callers can test for it with errors.Is
// without depending on this package's concrete sentinel.
var ErrTerminalClosed = fmt.Errorf("term: terminal closed: %w", vterm.ErrClosed)

// state is the open/closed lifecycle shared by every variant.
type state int32

const (
	stateOpen state = iota
	stateClosed
)

// defaultPollInterval is not referenced by any backend: a read waits in
// Reader.read until data arrives, its deadline passes or the Reader is
// closed.
const defaultPollInterval = 20 * time.Millisecond
