//go:build windows

// Package wininput turns a stream of Windows console INPUT_RECORDs
// into the byte stream a VT terminal would emit for the same physical
// events, plus resize notifications. Grounded on the
// teacher's terminal/infrastructure/windows/console.go virtual-key
// handling, extended here to the complete virtual-key table
// and on erikgeiser/coninput's typed event decoding.
package wininput

import (
	"fmt"
	"unicode"

	"github.com/erikgeiser/coninput"
	"golang.org/x/sys/windows"

	"github.com/phoenix-tui/vterm/mouse"
)

// Resize carries a buffer-resize notification decoded from a
// WINDOW_BUFFER_SIZE_RECORD. The term package's legacy Windows input
// stream discards it, so no SigWINCH is raised from it.
type Resize struct{ Cols, Rows int }

// Decoder turns INPUT_RECORDs into bytes, tracking the tracking-mode
// and encoding state needed to filter and format mouse events.
type Decoder struct {
	MouseMode     mouse.TrackingMode
	MouseEncoding mouse.Encoding
	FocusTracking bool

	lastMouse mouse.Event
	haveLast  bool
}

// NewDecoder returns a decoder with mouse tracking off.
func NewDecoder() *Decoder {
	return &Decoder{MouseMode: mouse.TrackingOff, MouseEncoding: mouse.EncodingSGR}
}

// Decode processes one console event, returning the VT-equivalent
// bytes to deliver (nil if the event produces none) and, if the event
// was a buffer resize, the new size.
func (d *Decoder) Decode(raw windows.InputRecord) ([]byte, *Resize, error) {
	event, err := coninput.ParseEventRecord(&raw)
	if err != nil {
		return nil, nil, fmt.Errorf("wininput: %w", err)
	}

	switch e := event.(type) {
	case coninput.KeyEventRecord:
		if !e.KeyDown {
			return nil, nil, nil
		}
		return d.decodeKey(e), nil, nil

	case coninput.MouseEventRecord:
		return d.decodeMouse(e), nil, nil

	case coninput.WindowBufferSizeEventRecord:
		return nil, &Resize{Cols: int(e.Size.X), Rows: int(e.Size.Y)}, nil

	case coninput.FocusEventRecord:
		if !d.FocusTracking {
			return nil, nil, nil
		}
		if e.SetFocus {
			return []byte("\x1b[I"), nil, nil
		}
		return []byte("\x1b[O"), nil, nil

	default:
		return nil, nil, nil
	}
}

// modifierBitmask computes the xterm modifier bitmask (Shift=1 | Alt=2
// | Control=4), 0 when no modifier is held. The parameter xterm sends
// is 1 plus this value; renderCapability and renderCursorKey add it.
func modifierBitmask(shift, alt, ctrl bool) int {
	n := 0
	if shift {
		n |= 1
	}
	if alt {
		n |= 2
	}
	if ctrl {
		n |= 4
	}
	return n
}

func (d *Decoder) decodeKey(e coninput.KeyEventRecord) []byte {
	shift := e.ControlKeyState&coninput.SHIFT_PRESSED != 0
	ctrl := e.ControlKeyState&(coninput.LEFT_CTRL_PRESSED|coninput.RIGHT_CTRL_PRESSED) != 0
	alt := e.ControlKeyState&(coninput.LEFT_ALT_PRESSED|coninput.RIGHT_ALT_PRESSED) != 0

	var seq []byte
	if e.Char != 0 {
		if ctrl && e.Char >= 'a' && e.Char <= 'z' {
			seq = []byte{byte(e.Char - 'a' + 1)}
		} else if ctrl && e.Char >= 'A' && e.Char <= 'Z' {
			seq = []byte{byte(e.Char - 'A' + 1)}
		} else {
			seq = []byte(string(e.Char))
		}
		if alt && !ctrl {
			seq = append([]byte{0x1b}, seq...)
		}
	} else if final, ok := cursorKeyFinal[e.VirtualKeyCode]; ok {
		seq = renderCursorKey(final, modifierBitmask(shift, alt, ctrl))
	} else if capSeq, ok := virtualKeyTable[e.VirtualKeyCode]; ok {
		seq = renderCapability(capSeq, modifierBitmask(shift, alt, ctrl))
	} else {
		return nil
	}

	repeat := int(e.RepeatCount)
	if repeat < 1 {
		repeat = 1
	}
	out := make([]byte, 0, len(seq)*repeat)
	for i := 0; i < repeat; i++ {
		out = append(out, seq...)
	}
	return out
}

func (d *Decoder) decodeMouse(e coninput.MouseEventRecord) []byte {
	if d.MouseMode == mouse.TrackingOff {
		return nil
	}

	ev := mouseEventFromRecord(e)
	if ev.Type == mouse.EventMotion && !mouse.FilterMove(d.MouseMode, ev) {
		return nil
	}
	if ev.Type == mouse.EventPress && d.haveLast && d.lastMouse.Button == ev.Button &&
		d.lastMouse.Position == ev.Position && e.EventFlags&coninput.DOUBLE_CLICK != 0 {
		// Treat double-click as a single press.
		return nil
	}
	d.lastMouse, d.haveLast = ev, true

	if d.MouseEncoding == mouse.EncodingSGR {
		return []byte(mouse.EncodeSGR(ev))
	}
	return mouse.EncodeX10(ev)
}

func mouseEventFromRecord(e coninput.MouseEventRecord) mouse.Event {
	pos := mouse.Position{X: int(e.MousePositon.X), Y: int(e.MousePositon.Y)}
	shift := e.ControlKeyState&coninput.SHIFT_PRESSED != 0
	ctrl := e.ControlKeyState&(coninput.LEFT_CTRL_PRESSED|coninput.RIGHT_CTRL_PRESSED) != 0
	alt := e.ControlKeyState&(coninput.LEFT_ALT_PRESSED|coninput.RIGHT_ALT_PRESSED) != 0
	mods := mouse.NewModifiers(shift, ctrl, alt)

	switch {
	case e.EventFlags&coninput.MOUSE_WHEELED != 0:
		btn := mouse.ButtonWheelUp
		if int32(e.ButtonState) < 0 {
			btn = mouse.ButtonWheelDown
		}
		return mouse.Event{Type: mouse.EventScroll, Button: btn, Position: pos, Modifiers: mods}
	case e.EventFlags&coninput.MOUSE_HWHEELED != 0:
		// Horizontal wheel scrolling has no VT equivalent and is ignored.
		return mouse.Event{Type: mouse.EventMotion, Button: mouse.ButtonNone, Position: pos, Modifiers: mods}
	case e.EventFlags&coninput.MOUSE_MOVED != 0:
		btn := mouse.ButtonNone
		if e.ButtonState&coninput.FROM_LEFT_1ST_BUTTON_PRESSED != 0 {
			btn = mouse.ButtonLeft
		}
		return mouse.Event{Type: mouse.EventMotion, Button: btn, Position: pos, Modifiers: mods}
	case e.ButtonState&coninput.FROM_LEFT_1ST_BUTTON_PRESSED != 0:
		return mouse.Event{Type: mouse.EventPress, Button: mouse.ButtonLeft, Position: pos, Modifiers: mods}
	case e.ButtonState&coninput.RIGHTMOST_BUTTON_PRESSED != 0:
		return mouse.Event{Type: mouse.EventPress, Button: mouse.ButtonRight, Position: pos, Modifiers: mods}
	case e.ButtonState != 0:
		return mouse.Event{Type: mouse.EventPress, Button: mouse.ButtonMiddle, Position: pos, Modifiers: mods}
	default:
		return mouse.Event{Type: mouse.EventRelease, Button: mouse.ButtonNone, Position: pos, Modifiers: mods}
	}
}

// isPrintable reports whether r should be emitted verbatim rather than
// dropped (dead-key composition artifacts surface as Char==0, already
// filtered by the caller).
func isPrintable(r rune) bool { return unicode.IsPrint(r) }
