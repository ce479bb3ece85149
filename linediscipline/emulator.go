// Package linediscipline emulates POSIX termios line-discipline
// processing (signal generation, CRNL translation, echo) on hosts
// whose kernel does not perform it for a given byte stream: Windows
// consoles and piped POSIX stdio. Grounded on fswarbrick/goterm's
// Raw/Cook flag semantics and danielgatis/go-headless-term's
// event-loop shape (a full headless terminal emulator in the pack,
// whose "pump bytes from a master source into consumers" pattern
// this borrows without its grid/vte parsing).
package linediscipline

import (
	"io"
	"sync"

	"github.com/phoenix-tui/vterm/termattr"
)

// SignalFunc raises a named control signal; the caller (typically a
// term.Terminal) supplies the mapping to its own signal registry.
type SignalFunc func(name string)

// Emulator bridges a master output stream to a slave input pipe while
// honoring termattr.Attributes semantics.
type Emulator struct {
	mu    sync.RWMutex
	attrs termattr.Attributes

	slaveW io.Writer // slave-side pipe, input processing writes here
	masterW io.Writer // master-side sink, echo/output processing writes here

	raise SignalFunc

	pendingCR bool // true immediately after translating a lone CR under INORMEOL
}

// New creates an emulator with the given initial attributes. slaveW
// receives the processed input stream (what a reading application
// sees); masterW receives echoed bytes and any output-stage
// translation of bytes written via WriteOutput.
func New(attrs termattr.Attributes, slaveW, masterW io.Writer, raise SignalFunc) *Emulator {
	return &Emulator{attrs: attrs, slaveW: slaveW, masterW: masterW, raise: raise}
}

// SetAttributes atomically replaces the active attributes.
func (e *Emulator) SetAttributes(a termattr.Attributes) {
	e.mu.Lock()
	e.attrs = a
	e.mu.Unlock()
}

func (e *Emulator) snapshot() termattr.Attributes {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.attrs
}

// controlSignals names the VINTR/VQUIT/VSUSP/VSTATUS control
// characters raise a signal for.
type controlSignal struct {
	which termattr.ControlChar
	name  string
}

var controlSignals = []controlSignal{
	{termattr.VINTR, "INT"},
	{termattr.VQUIT, "QUIT"},
	{termattr.VSUSP, "TSTP"},
	{termattr.VSTATUS, "INFO"},
}

// WriteInput processes p as bytes arriving from the master (e.g. a
// decoded keystroke stream) and forwards the result to the slave pipe,
// byte by byte.
func (e *Emulator) WriteInput(p []byte) (int, error) {
	a := e.snapshot()
	echoed := false

	for _, b := range p {
		if a.HasLocal(termattr.ISIG) {
			if sig, ok := e.matchSignal(a, b); ok {
				e.raiseSignal(a, sig)
				continue
			}
		}

		out, drop := e.translateCRNL(a, b)
		if drop {
			continue
		}

		if a.HasLocal(termattr.ECHO) {
			if _, err := e.writeOutput(a, []byte{out}); err != nil {
				return 0, err
			}
			echoed = true
		}

		if _, err := e.slaveW.Write([]byte{out}); err != nil {
			return 0, err
		}
	}

	if f, ok := e.slaveW.(interface{ Sync() error }); ok {
		_ = f.Sync()
	}
	if echoed {
		if f, ok := e.masterW.(interface{ Sync() error }); ok {
			_ = f.Sync()
		}
	}
	return len(p), nil
}

func (e *Emulator) matchSignal(a termattr.Attributes, b byte) (controlSignal, bool) {
	for _, cs := range controlSignals {
		if a.ControlChar(cs.which) != 0 && b == a.ControlChar(cs.which) {
			return cs, true
		}
	}
	return controlSignal{}, false
}

// raiseSignal skips the slave-pipe
// flush is deliberately skipped here (it would deadlock with a
// concurrent blocking reader on the slave side), ECHOCTL optionally
// echoes the control character, then the handler runs.
func (e *Emulator) raiseSignal(a termattr.Attributes, cs controlSignal) {
	if a.HasLocal(termattr.ECHOCTL) {
		_, _ = e.writeOutput(a, echoctlBytes(a.ControlChar(cs.which)))
	}
	if e.raise != nil {
		e.raise(cs.name)
	}
}

// echoctlBytes renders a control character the way ECHOCTL does:
// "^X" for C0 controls, verbatim otherwise.
func echoctlBytes(c byte) []byte {
	if c < 0x20 {
		return []byte{'^', c + '@'}
	}
	if c == 0x7f {
		return []byte{'^', '?'}
	}
	return []byte{c}
}

// translateCRNL applies input-stage CR/NL translation.
func (e *Emulator) translateCRNL(a termattr.Attributes, b byte) (out byte, drop bool) {
	if a.HasInput(termattr.INORMEOL) {
		if b == '\r' {
			e.pendingCR = true
			return '\n', false
		}
		if b == '\n' && e.pendingCR {
			e.pendingCR = false
			return 0, true
		}
		e.pendingCR = false
		return b, false
	}

	switch b {
	case '\r':
		if a.HasInput(termattr.IGNCR) {
			return 0, true
		}
		if a.HasInput(termattr.ICRNL) {
			return '\n', false
		}
		return b, false
	case '\n':
		if a.HasInput(termattr.INLCR) {
			return '\r', false
		}
		return b, false
	default:
		return b, false
	}
}

// WriteOutput processes p as bytes a slave-side application wrote,
// applying output-stage translation before delivery to the master.
func (e *Emulator) WriteOutput(p []byte) (int, error) {
	a := e.snapshot()
	return e.writeOutput(a, p)
}

func (e *Emulator) writeOutput(a termattr.Attributes, p []byte) (int, error) {
	if !a.HasOutput(termattr.OPOST) || !a.HasOutput(termattr.ONLCR) {
		return e.masterW.Write(p)
	}
	out := make([]byte, 0, len(p)+4)
	for _, b := range p {
		if b == '\n' {
			out = append(out, '\r', '\n')
		} else {
			out = append(out, b)
		}
	}
	n, err := e.masterW.Write(out)
	if err != nil {
		return 0, err
	}
	_ = n
	return len(p), nil
}
