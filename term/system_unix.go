//go:build !windows

package term

import (
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/phoenix-tui/vterm"
	"github.com/phoenix-tui/vterm/mouse"
	"github.com/phoenix-tui/vterm/style"
	"github.com/phoenix-tui/vterm/termattr"
)

// systemTerminal binds to the controlling tty's file descriptors,
// grounded on Daedaluz/goserial's ioctl_linux.go/port_linux.go
// (TIOCGWINSZ/TIOCSWINSZ, tcgetattr/tcsetattr via golang.org/x/sys/unix)
// and a platform-dispatch constructor shape.
type systemTerminal struct {
	in, out *os.File
	fd      int

	reader *Reader
	writer *Writer

	mu       sync.Mutex
	snapshot termattr.Attributes
	haveSnap bool
	rawMode  bool

	registry *signalRegistry
	pump     *signalPump

	st int32 // atomic state
}

// NewSystem opens the process's controlling tty (stdin for reads,
// stdout for writes).
func NewSystem() (Terminal, error) {
	t := &systemTerminal{
		in:       os.Stdin,
		out:      os.Stdout,
		fd:       int(os.Stdin.Fd()),
		reader:   NewReader(os.Stdin),
		writer:   NewWriter(os.Stdout, style.DepthTrueColor),
		registry: newSignalRegistry(),
	}
	t.pump = newSignalPump(t.registry)
	return t, nil
}

func (t *systemTerminal) Reader() *Reader { return t.reader }
func (t *systemTerminal) Writer() *Writer { return t.writer }

func (t *systemTerminal) checkOpen() error {
	if atomic.LoadInt32(&t.st) == int32(stateClosed) {
		return ErrTerminalClosed
	}
	return nil
}

func (t *systemTerminal) GetAttributes() (termattr.Attributes, error) {
	if err := t.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	raw, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return termattr.Attributes{}, vterm.WrapHostError("get attributes", err)
	}
	return termattr.FromTermios(*raw), nil
}

func (t *systemTerminal) SetAttributes(a termattr.Attributes) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	base, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return vterm.WrapHostError("get attributes", err)
	}
	raw := termattr.ToTermios(a, *base)
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		return vterm.WrapHostError("set attributes", err)
	}
	return nil
}

func (t *systemTerminal) GetSize() (Size, error) {
	if err := t.checkOpen(); err != nil {
		return Size{}, err
	}
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, vterm.WrapHostError("get size", err)
	}
	return Size{Rows: int(ws.Row), Cols: int(ws.Col)}, nil
}

func (t *systemTerminal) SetSize(s Size) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	ws := &unix.Winsize{Row: uint16(s.Rows), Col: uint16(s.Cols)}
	if err := unix.IoctlSetWinsize(t.fd, unix.TIOCSWINSZ, ws); err != nil {
		return vterm.WrapHostError("set size", err)
	}
	return nil
}

func (t *systemTerminal) Handle(sig Signal, handler Handler) Handler {
	return t.registry.set(sig, handler)
}

func (t *systemTerminal) EnterRawMode() (termattr.Attributes, error) {
	if err := t.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, err := t.GetAttributes()
	if err != nil {
		return termattr.Attributes{}, err
	}
	if !t.haveSnap {
		t.snapshot = cur.Clone()
		t.haveSnap = true
	}
	if err := t.SetAttributes(cur.Raw()); err != nil {
		return termattr.Attributes{}, err
	}
	t.rawMode = true
	return t.snapshot, nil
}

func (t *systemTerminal) IsInRawMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rawMode
}

func (t *systemTerminal) SetTracking(req TrackingRequest) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	mode := mouse.TrackingOff
	switch {
	case req.Mouse:
		mode = mouse.TrackingButton
	}
	seq := mode.DECSETSequence()
	if !req.Mouse {
		seq = mouse.TrackingButton.DECRSTSequence()
	}
	if seq != "" {
		if _, err := t.writer.WriteString(seq); err != nil {
			return err
		}
	}
	if req.Focus {
		if _, err := t.writer.WriteString("\x1b[?1004h"); err != nil {
			return err
		}
	} else {
		if _, err := t.writer.WriteString("\x1b[?1004l"); err != nil {
			return err
		}
	}
	if req.Paste {
		if _, err := t.writer.WriteString("\x1b[?2004h"); err != nil {
			return err
		}
	} else {
		if _, err := t.writer.WriteString("\x1b[?2004l"); err != nil {
			return err
		}
	}
	return t.writer.Flush()
}

// Pause/Resume only check the open state: the Reader's pump goroutine
// keeps reading and is not suspended.
func (t *systemTerminal) Pause() error  { return t.checkOpen() }
func (t *systemTerminal) Resume() error { return t.checkOpen() }

func (t *systemTerminal) Close() error {
	if !atomic.CompareAndSwapInt32(&t.st, int32(stateOpen), int32(stateClosed)) {
		return nil
	}
	t.mu.Lock()
	snap, have := t.snapshot, t.haveSnap
	t.rawMode = false
	t.mu.Unlock()
	if have {
		// SetAttributes refuses once the state is closed, so the
		// snapshot is written back directly.
		if base, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios); err == nil {
			raw := termattr.ToTermios(snap, *base)
			_ = unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw)
		}
	}
	t.reader.Close()
	t.pump.close()
	t.registry.unwind()
	return nil
}
