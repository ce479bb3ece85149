//go:build !windows

package term

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/phoenix-tui/vterm"
	"github.com/phoenix-tui/vterm/mouse"
	"github.com/phoenix-tui/vterm/style"
	"github.com/phoenix-tui/vterm/termattr"
)

// ptyTerminal wraps a master/slave pseudo-terminal pair obtained from
// openpty: reads and writes go through the master, attribute and size
// operations apply to the slave, grounded on Daedaluz/goserial's
// pty_linux.go and opened here via github.com/creack/pty.
type ptyTerminal struct {
	master, slave *os.File

	reader *Reader
	writer *Writer

	mu       sync.Mutex
	snapshot termattr.Attributes
	haveSnap bool
	rawMode  bool

	registry *signalRegistry
	pump     *signalPump

	st int32
}

// NewPTY allocates a new pseudo-terminal pair and wraps it as a
// Terminal. The slave end is exposed via Slave for callers that need
// to hand it to a child process.
func NewPTY() (*PTYTerminal, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, vterm.WrapHostError("open pty", err)
	}
	t := &ptyTerminal{
		master:   master,
		slave:    slave,
		reader:   NewReader(master),
		writer:   NewWriter(master, style.DepthTrueColor),
		registry: newSignalRegistry(),
	}
	t.pump = newSignalPump(t.registry)
	return &PTYTerminal{t}, nil
}

// PTYTerminal is a Terminal that also exposes its slave file, the end
// a spawned process should inherit as its controlling tty.
type PTYTerminal struct {
	*ptyTerminal
}

// Slave returns the pty's slave-side file.
func (p *PTYTerminal) Slave() *os.File { return p.ptyTerminal.slave }

func (t *ptyTerminal) Reader() *Reader { return t.reader }
func (t *ptyTerminal) Writer() *Writer { return t.writer }

func (t *ptyTerminal) checkOpen() error {
	if atomic.LoadInt32(&t.st) == int32(stateClosed) {
		return ErrTerminalClosed
	}
	return nil
}

func (t *ptyTerminal) GetAttributes() (termattr.Attributes, error) {
	if err := t.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	raw, err := unix.IoctlGetTermios(int(t.slave.Fd()), ioctlGetTermios)
	if err != nil {
		return termattr.Attributes{}, vterm.WrapHostError("get attributes", err)
	}
	return termattr.FromTermios(*raw), nil
}

func (t *ptyTerminal) SetAttributes(a termattr.Attributes) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	base, err := unix.IoctlGetTermios(int(t.slave.Fd()), ioctlGetTermios)
	if err != nil {
		return vterm.WrapHostError("get attributes", err)
	}
	raw := termattr.ToTermios(a, *base)
	if err := unix.IoctlSetTermios(int(t.slave.Fd()), ioctlSetTermios, &raw); err != nil {
		return vterm.WrapHostError("set attributes", err)
	}
	return nil
}

func (t *ptyTerminal) GetSize() (Size, error) {
	if err := t.checkOpen(); err != nil {
		return Size{}, err
	}
	ws, err := unix.IoctlGetWinsize(int(t.slave.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, vterm.WrapHostError("get size", err)
	}
	return Size{Rows: int(ws.Row), Cols: int(ws.Col)}, nil
}

func (t *ptyTerminal) SetSize(s Size) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	ws := &unix.Winsize{Row: uint16(s.Rows), Col: uint16(s.Cols)}
	if err := unix.IoctlSetWinsize(int(t.slave.Fd()), unix.TIOCSWINSZ, ws); err != nil {
		return vterm.WrapHostError("set size", err)
	}
	return nil
}

func (t *ptyTerminal) Handle(sig Signal, handler Handler) Handler {
	return t.registry.set(sig, handler)
}

func (t *ptyTerminal) EnterRawMode() (termattr.Attributes, error) {
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

func (t *ptyTerminal) IsInRawMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rawMode
}

func (t *ptyTerminal) SetTracking(req TrackingRequest) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	seq := mouse.TrackingButton.DECRSTSequence()
	if req.Mouse {
		seq = mouse.TrackingButton.DECSETSequence()
	}
	if _, err := t.writer.WriteString(seq); err != nil {
		return err
	}
	return t.writer.Flush()
}

func (t *ptyTerminal) Pause() error  { return t.checkOpen() }
func (t *ptyTerminal) Resume() error { return t.checkOpen() }

func (t *ptyTerminal) Close() error {
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
		if base, err := unix.IoctlGetTermios(int(t.slave.Fd()), ioctlGetTermios); err == nil {
			raw := termattr.ToTermios(snap, *base)
			_ = unix.IoctlSetTermios(int(t.slave.Fd()), ioctlSetTermios, &raw)
		}
	}
	t.reader.Close()
	t.pump.close()
	t.registry.unwind()
	_ = t.master.Close()
	_ = t.slave.Close()
	return nil
}
