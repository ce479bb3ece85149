package mouse

import "fmt"

// x10Offset is the byte value subtracted from each X10-encoded field
// to recover the 1-based protocol value (the wire format adds 32 so
// coordinates up to 223 stay printable).
const x10Offset = 32

// ParseX10 decodes a legacy X10/normal mouse sequence payload: the
// three bytes following "\x1b[M" (button, x, y), each biased by +32.
func ParseX10(payload []byte) (Event, error) {
	if len(payload) != 3 {
		return Event{}, ErrMalformedSequence{Detail: fmt.Sprintf("want 3 bytes, got %d", len(payload))}
	}
	code := int(payload[0]) - x10Offset
	x := int(payload[1]) - x10Offset
	y := int(payload[2]) - x10Offset

	button, mods, motion := decodeSGRButton(code)
	eventType := EventPress
	switch {
	case button.isWheel():
		eventType = EventScroll
	case motion:
		eventType = EventMotion
	case code&3 == 3:
		// X10 has no distinct release code per button: 3 in the base
		// bits means "button released, which one is unspecified".
		eventType = EventRelease
		button = ButtonNone
	}

	return Event{
		Type:      eventType,
		Button:    button,
		Position:  Position{X: x - 1, Y: y - 1},
		Modifiers: mods,
	}, nil
}

// EncodeX10 renders ev as a legacy "\x1b[M" + 3-byte sequence.
// Coordinates beyond 223 cannot be represented and are clamped, a
// limitation inherent to the X10 protocol (use SGR for larger
// screens).
func EncodeX10(ev Event) []byte {
	code := encodeButtonBase(ev.Button)
	if ev.Type == EventRelease {
		code = 3
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
	x := clampX10(ev.Position.X + 1)
	y := clampX10(ev.Position.Y + 1)
	return []byte{
		0x1b, '[', 'M',
		byte(code + x10Offset),
		byte(x + x10Offset),
		byte(y + x10Offset),
	}
}

func clampX10(v int) int {
	if v > 223 {
		return 223
	}
	if v < 1 {
		return 1
	}
	return v
}
