//go:build windows

package term

import (
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/windows"
	xterm "golang.org/x/term"

	"github.com/phoenix-tui/vterm/style"
	"github.com/phoenix-tui/vterm/termattr"
	"github.com/phoenix-tui/vterm/winconsole"
	"github.com/phoenix-tui/vterm/wininput"
)

// windowsVTTerminal drives a console that accepts raw VT sequences
// directly (ENABLE_VIRTUAL_TERMINAL_PROCESSING set), needing no
// winconsole translation on the output side and no linediscipline
// emulation on the input side since conhost's own line discipline
// already applies in cooked mode. Grounded on the console wrapper's
// ENABLE_VIRTUAL_TERMINAL_PROCESSING mode-setting sequence.
type windowsVTTerminal struct {
	in, out *os.File

	reader *Reader
	writer *Writer

	mu          sync.Mutex
	origInMode  uint32
	origOutMode uint32
	haveSnap    bool
	rawMode     bool

	registry *signalRegistry
	st       int32
}

// NewWindowsVT opens a Terminal backed by the process's console,
// enabling ENABLE_VIRTUAL_TERMINAL_PROCESSING/ENABLE_VIRTUAL_TERMINAL_INPUT
// so ANSI sequences can be written and read directly.
func NewWindowsVT() (Terminal, error) {
	in, out := os.Stdin, os.Stdout
	inH := windows.Handle(in.Fd())
	outH := windows.Handle(out.Fd())

	var inMode, outMode uint32
	if err := windows.GetConsoleMode(inH, &inMode); err != nil {
		return nil, err
	}
	if err := windows.GetConsoleMode(outH, &outMode); err != nil {
		return nil, err
	}

	if err := windows.SetConsoleMode(outH, outMode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		return nil, err
	}
	if err := windows.SetConsoleMode(inH, inMode|windows.ENABLE_VIRTUAL_TERMINAL_INPUT); err != nil {
		return nil, err
	}

	t := &windowsVTTerminal{
		in: in, out: out,
		reader:      NewReader(in),
		writer:      NewWriter(out, style.DepthTrueColor),
		origInMode:  inMode,
		origOutMode: outMode,
		registry:    newSignalRegistry(),
	}
	return t, nil
}

func (t *windowsVTTerminal) Reader() *Reader { return t.reader }
func (t *windowsVTTerminal) Writer() *Writer { return t.writer }

func (t *windowsVTTerminal) checkOpen() error {
	if atomic.LoadInt32(&t.st) == int32(stateClosed) {
		return ErrTerminalClosed
	}
	return nil
}

func (t *windowsVTTerminal) GetAttributes() (termattr.Attributes, error) {
	if err := t.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	var a termattr.Attributes
	a.SetLocal(termattr.ECHO, true)
	a.SetLocal(termattr.ICANON, true)
	if t.rawMode {
		a = a.Raw()
	}
	return a, nil
}

func (t *windowsVTTerminal) SetAttributes(termattr.Attributes) error { return t.checkOpen() }

func (t *windowsVTTerminal) GetSize() (Size, error) {
	if err := t.checkOpen(); err != nil {
		return Size{}, err
	}
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(t.out.Fd()), &info); err != nil {
		return Size{}, err
	}
	return Size{Rows: int(info.Window.Bottom - info.Window.Top + 1), Cols: int(info.Window.Right - info.Window.Left + 1)}, nil
}

func (t *windowsVTTerminal) SetSize(Size) error { return t.checkOpen() }

func (t *windowsVTTerminal) Handle(sig Signal, handler Handler) Handler {
	return t.registry.set(sig, handler)
}

func (t *windowsVTTerminal) EnterRawMode() (termattr.Attributes, error) {
	if err := t.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	snap, _ := t.GetAttributes()
	if !t.haveSnap {
		t.haveSnap = true
	}
	inH := windows.Handle(t.in.Fd())
	raw := t.origInMode &^ (windows.ENABLE_ECHO_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_PROCESSED_INPUT)
	raw |= windows.ENABLE_VIRTUAL_TERMINAL_INPUT
	if err := windows.SetConsoleMode(inH, raw); err != nil {
		return termattr.Attributes{}, err
	}
	t.rawMode = true
	return snap, nil
}

func (t *windowsVTTerminal) IsInRawMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rawMode
}

func (t *windowsVTTerminal) SetTracking(req TrackingRequest) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	seq := "\x1b[?1000l\x1b[?1006l"
	if req.Mouse {
		seq = "\x1b[?1000h\x1b[?1006h"
	}
	if _, err := t.writer.WriteString(seq); err != nil {
		return err
	}
	return t.writer.Flush()
}

func (t *windowsVTTerminal) Pause() error  { return t.checkOpen() }
func (t *windowsVTTerminal) Resume() error { return t.checkOpen() }

func (t *windowsVTTerminal) Close() error {
	if !atomic.CompareAndSwapInt32(&t.st, int32(stateOpen), int32(stateClosed)) {
		return nil
	}
	t.mu.Lock()
	t.rawMode = false
	t.mu.Unlock()
	_ = windows.SetConsoleMode(windows.Handle(t.in.Fd()), t.origInMode)
	_ = windows.SetConsoleMode(windows.Handle(t.out.Fd()), t.origOutMode)
	t.reader.Close()
	t.registry.unwind()
	return nil
}

// NewWindowsLegacy opens a Terminal for a console host with no
// ENABLE_VIRTUAL_TERMINAL_PROCESSING support: output is routed through
// a winconsole.Translator, input through a wininput.Decoder feeding a
// linediscipline.Emulator so the same termattr.Attributes semantics
// apply as on every other backend.
func NewWindowsLegacy() (Terminal, error) {
	outH := windows.Handle(os.Stdout.Fd())
	translator, err := winconsole.New(outH)
	if err != nil {
		return nil, err
	}

	decoder := wininput.NewDecoder()
	size, err := consoleSize(outH)
	if err != nil {
		return nil, err
	}

	masterR := newInputRecordStream(os.Stdin, decoder)
	return NewLineDiscipline(masterR, translator, defaultAttributes(), size)
}

func consoleSize(h windows.Handle) (Size, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(h, &info); err != nil {
		return Size{}, err
	}
	return Size{Rows: int(info.Window.Bottom - info.Window.Top + 1), Cols: int(info.Window.Right - info.Window.Left + 1)}, nil
}

func defaultAttributes() termattr.Attributes {
	var a termattr.Attributes
	a.SetLocal(termattr.ICANON, true)
	a.SetLocal(termattr.ECHO, true)
	a.SetLocal(termattr.ISIG, true)
	a.SetInput(termattr.ICRNL, true)
	a.SetOutput(termattr.OPOST, true)
	a.SetOutput(termattr.ONLCR, true)
	a.SetControlChar(termattr.VINTR, 0x03)
	a.SetControlChar(termattr.VSUSP, 0x1a)
	return a
}

var _ = xterm.IsTerminal // referenced to keep the dependency wired for terminal-detection callers
