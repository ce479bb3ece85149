package mouse

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSGR decodes the payload of an SGR (1006) mouse sequence: the
// part after "\x1b[<" and before the trailing 'M' (press/motion) or
// 'm' (release), e.g. "0;12;5" from "\x1b[<0;12;5M".
func ParseSGR(payload string, isRelease bool) (Event, error) {
	payload = strings.TrimPrefix(payload, "<")
	parts := strings.Split(payload, ";")
	if len(parts) != 3 {
		return Event{}, ErrMalformedSequence{Detail: fmt.Sprintf("want 3 fields, got %d", len(parts))}
	}
	code, err := strconv.Atoi(parts[0])
	if err != nil {
		return Event{}, ErrMalformedSequence{Detail: "bad button code: " + err.Error()}
	}
	x, err := strconv.Atoi(parts[1])
	if err != nil {
		return Event{}, ErrMalformedSequence{Detail: "bad x: " + err.Error()}
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil {
		return Event{}, ErrMalformedSequence{Detail: "bad y: " + err.Error()}
	}

	button, mods, motion := decodeSGRButton(code)
	eventType := EventPress
	switch {
	case button.isWheel():
		eventType = EventScroll
	case motion:
		eventType = EventMotion
	case isRelease:
		eventType = EventRelease
	}

	return Event{
		Type:      eventType,
		Button:    button,
		Position:  Position{X: x - 1, Y: y - 1},
		Modifiers: mods,
	}, nil
}

// decodeSGRButton splits an SGR button code into base button,
// modifiers, and whether bit 5 (motion) is set.
func decodeSGRButton(code int) (Button, Modifiers, bool) {
	mods := NewModifiers(code&4 != 0, code&16 != 0, code&8 != 0)
	motion := code&32 != 0
	base := code &^ (4 | 8 | 16 | 32)
	switch base {
	case 0:
		return ButtonLeft, mods, motion
	case 1:
		return ButtonMiddle, mods, motion
	case 2:
		return ButtonRight, mods, motion
	case 64:
		return ButtonWheelUp, mods, false
	case 65:
		return ButtonWheelDown, mods, false
	default:
		return ButtonNone, mods, motion
	}
}

// EncodeSGR renders ev as a complete SGR escape sequence, for use by
// test doubles that synthesize terminal input.
func EncodeSGR(ev Event) string {
	code := encodeButtonBase(ev.Button)
	if ev.Type == EventMotion {
		code |= 32
	}
	if ev.Modifiers.HasShift() {
		code |= 4
	}
	if ev.Modifiers.HasAlt() {
		code |= 8
	}
	if ev.Modifiers.HasCtrl() {
		code |= 16
	}
	suffix := "M"
	if ev.Type == EventRelease {
		suffix = "m"
	}
	return fmt.Sprintf("\x1b[<%d;%d;%d%s", code, ev.Position.X+1, ev.Position.Y+1, suffix)
}

func encodeButtonBase(b Button) int {
	switch b {
	case ButtonLeft:
		return 0
	case ButtonMiddle:
		return 1
	case ButtonRight:
		return 2
	case ButtonWheelUp:
		return 64
	case ButtonWheelDown:
		return 65
	default:
		return 32
	}
}
