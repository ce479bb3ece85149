// Package mouse decodes and encodes terminal mouse-tracking protocols
// (X10 and SGR) into typed events.
package mouse

import "fmt"

// Modifiers records which keyboard modifiers were held during a mouse
// event.
type Modifiers int

const (
	ModifierNone  Modifiers = 0
	ModifierShift Modifiers = 1 << iota
	ModifierCtrl
	ModifierAlt
)

// NewModifiers builds a Modifiers value from individual booleans.
func NewModifiers(shift, ctrl, alt bool) Modifiers {
	m := ModifierNone
	if shift {
		m |= ModifierShift
	}
	if ctrl {
		m |= ModifierCtrl
	}
	if alt {
		m |= ModifierAlt
	}
	return m
}

func (m Modifiers) HasShift() bool { return m&ModifierShift != 0 }
func (m Modifiers) HasCtrl() bool  { return m&ModifierCtrl != 0 }
func (m Modifiers) HasAlt() bool   { return m&ModifierAlt != 0 }

func (m Modifiers) String() string {
	if m == ModifierNone {
		return "None"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "+"
		}
		s += name
	}
	if m.HasShift() {
		add("Shift")
	}
	if m.HasCtrl() {
		add("Ctrl")
	}
	if m.HasAlt() {
		add("Alt")
	}
	return s
}

// Button identifies which mouse button (if any) an event concerns.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

// EventType classifies a mouse event.
type EventType int

const (
	EventPress EventType = iota
	EventRelease
	EventMotion
	EventScroll
)

// Position is a 0-based (column, row) cell coordinate.
type Position struct {
	X, Y int
}

// Event is a fully decoded mouse event.
type Event struct {
	Type      EventType
	Button    Button
	Position  Position
	Modifiers Modifiers
}

func (b Button) isWheel() bool { return b == ButtonWheelUp || b == ButtonWheelDown }

// TrackingMode selects which DECSET mouse-reporting mode is active,
// controlling which movement events the host even sends.
type TrackingMode int

const (
	TrackingOff TrackingMode = iota
	TrackingNormal              // DECSET 1000: press/release only
	TrackingButton              // DECSET 1002: press/release + drag
	TrackingAny                 // DECSET 1003: press/release + all motion
)

// DECSETSequence returns the escape sequence enabling mode, and its
// DECRST counterpart disables it.
func (m TrackingMode) DECSETSequence() string {
	switch m {
	case TrackingNormal:
		return "\x1b[?1000h"
	case TrackingButton:
		return "\x1b[?1002h"
	case TrackingAny:
		return "\x1b[?1003h"
	default:
		return ""
	}
}

func (m TrackingMode) DECRSTSequence() string {
	switch m {
	case TrackingNormal:
		return "\x1b[?1000l"
	case TrackingButton:
		return "\x1b[?1002l"
	case TrackingAny:
		return "\x1b[?1003l"
	default:
		return ""
	}
}

// Encoding selects how button/position triples are framed on the
// wire.
type Encoding int

const (
	EncodingX10 Encoding = iota
	EncodingSGR
)

func (e Encoding) DECSETSequence() string {
	if e == EncodingSGR {
		return "\x1b[?1006h"
	}
	return ""
}

func (e Encoding) DECRSTSequence() string {
	if e == EncodingSGR {
		return "\x1b[?1006l"
	}
	return ""
}

// ErrMalformedSequence is returned when a mouse payload doesn't match
// the expected shape for its encoding.
type ErrMalformedSequence struct{ Detail string }

func (e ErrMalformedSequence) Error() string {
	return fmt.Sprintf("mouse: malformed sequence: %s", e.Detail)
}

// FilterMove reports whether ev should be delivered to the
// application given the currently active tracking mode, suppressing
// motion events the mode doesn't request: Off/Normal report no
// motion, Button reports drag only (a held button), Any reports
// everything including bare hover.
func FilterMove(mode TrackingMode, ev Event) bool {
	if ev.Type != EventMotion {
		return true
	}
	switch mode {
	case TrackingButton:
		return ev.Button != ButtonNone
	case TrackingAny:
		return true
	default:
		return false
	}
}
