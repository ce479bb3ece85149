package term

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/phoenix-tui/vterm/linediscipline"
	"github.com/phoenix-tui/vterm/style"
	"github.com/phoenix-tui/vterm/termattr"
)

// lineDisciplineTerminal wraps a linediscipline.Emulator, giving hosts
// whose kernel performs no line discipline of its own (Windows
// consoles routed through wininput, or piped POSIX stdio) the same
// termattr.Attributes-governed semantics a real tty provides.
type lineDisciplineTerminal struct {
	emulator *linediscipline.Emulator
	slaveR   *os.File
	slaveW   *os.File

	reader *Reader
	writer *Writer

	mu       sync.Mutex
	attrs    termattr.Attributes
	snapshot termattr.Attributes
	haveSnap bool
	rawMode  bool

	registry *signalRegistry
	size     Size
	st       int32
}

type emulatorOutputWriter struct{ e *linediscipline.Emulator }

func (w emulatorOutputWriter) Write(p []byte) (int, error) { return w.e.WriteOutput(p) }

// NewLineDiscipline creates a terminal driven by masterR/masterW (the
// real byte source/sink, e.g. a Windows input-decoder stream and its
// console writer) through a line-discipline emulator. size is used as
// the initial/reported geometry since this variant has no underlying
// device to query.
func NewLineDiscipline(masterR io.Reader, masterW io.Writer, attrs termattr.Attributes, size Size) (Terminal, error) {
	slaveR, slaveW, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	registry := newSignalRegistry()
	t := &lineDisciplineTerminal{
		slaveR:   slaveR,
		slaveW:   slaveW,
		attrs:    attrs,
		registry: registry,
		size:     size,
	}
	t.emulator = linediscipline.New(attrs, slaveW, masterW, func(name string) {
		t.registry.dispatch(signalByName(name))
	})
	t.reader = NewReader(slaveR)
	t.writer = NewWriter(emulatorOutputWriter{t.emulator}, style.DepthTrueColor)

	go t.pumpInput(masterR)
	return t, nil
}

func signalByName(name string) Signal {
	switch name {
	case "INT":
		return SigINT
	case "QUIT":
		return SigQUIT
	case "TSTP":
		return SigTSTP
	case "INFO":
		return SigINFO
	default:
		return SigINFO
	}
}

func (t *lineDisciplineTerminal) pumpInput(masterR io.Reader) {
	buf := make([]byte, 1024)
	for {
		n, err := masterR.Read(buf)
		if n > 0 {
			if _, werr := t.emulator.WriteInput(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			_ = t.slaveW.Close()
			return
		}
	}
}

func (t *lineDisciplineTerminal) Reader() *Reader { return t.reader }
func (t *lineDisciplineTerminal) Writer() *Writer { return t.writer }

func (t *lineDisciplineTerminal) checkOpen() error {
	if atomic.LoadInt32(&t.st) == int32(stateClosed) {
		return ErrTerminalClosed
	}
	return nil
}

func (t *lineDisciplineTerminal) GetAttributes() (termattr.Attributes, error) {
	if err := t.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attrs.Clone(), nil
}

func (t *lineDisciplineTerminal) SetAttributes(a termattr.Attributes) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	t.mu.Lock()
	t.attrs = a
	t.mu.Unlock()
	t.emulator.SetAttributes(a)
	return nil
}

func (t *lineDisciplineTerminal) GetSize() (Size, error) {
	if err := t.checkOpen(); err != nil {
		return Size{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size, nil
}

func (t *lineDisciplineTerminal) SetSize(s Size) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	t.mu.Lock()
	t.size = s
	t.mu.Unlock()
	return nil
}

func (t *lineDisciplineTerminal) Handle(sig Signal, handler Handler) Handler {
	return t.registry.set(sig, handler)
}

func (t *lineDisciplineTerminal) EnterRawMode() (termattr.Attributes, error) {
	if err := t.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.haveSnap {
		t.snapshot = t.attrs.Clone()
		t.haveSnap = true
	}
	t.attrs = t.attrs.Raw()
	t.emulator.SetAttributes(t.attrs)
	t.rawMode = true
	return t.snapshot, nil
}

func (t *lineDisciplineTerminal) IsInRawMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rawMode
}

func (t *lineDisciplineTerminal) SetTracking(TrackingRequest) error { return t.checkOpen() }

// Pause/Resume here only guard against use-after-close; neither
// pumpInput nor the goroutine feeding masterR (newInputRecordStream's
// decoder loop on Windows) is suspended.
func (t *lineDisciplineTerminal) Pause() error  { return t.checkOpen() }
func (t *lineDisciplineTerminal) Resume() error { return t.checkOpen() }

func (t *lineDisciplineTerminal) Close() error {
	if !atomic.CompareAndSwapInt32(&t.st, int32(stateOpen), int32(stateClosed)) {
		return nil
	}
	t.mu.Lock()
	snap, have := t.snapshot, t.haveSnap
	t.rawMode = false
	t.mu.Unlock()
	if have {
		t.emulator.SetAttributes(snap)
	}
	t.reader.Close()
	_ = t.slaveR.Close()
	t.registry.unwind()
	return nil
}
