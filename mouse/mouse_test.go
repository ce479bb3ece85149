package mouse

import "testing"

func TestParseSGRPress(t *testing.T) {
	ev, err := ParseSGR("0;13;6", false)
	if err != nil {
		t.Fatalf("ParseSGR() error: %v", err)
	}
	if ev.Type != EventPress || ev.Button != ButtonLeft {
		t.Fatalf("ev = %+v", ev)
	}
	if ev.Position != (Position{X: 12, Y: 5}) {
		t.Fatalf("position = %+v, want (12,5)", ev.Position)
	}
}

func TestParseSGRReleaseWithModifiers(t *testing.T) {
	// button 2 (right) + shift(4) + ctrl(16) = 22
	ev, err := ParseSGR("22;1;1", true)
	if err != nil {
		t.Fatalf("ParseSGR() error: %v", err)
	}
	if ev.Type != EventRelease || ev.Button != ButtonRight {
		t.Fatalf("ev = %+v", ev)
	}
	if !ev.Modifiers.HasShift() || !ev.Modifiers.HasCtrl() || ev.Modifiers.HasAlt() {
		t.Fatalf("modifiers = %v", ev.Modifiers)
	}
}

func TestSGRRoundTrip(t *testing.T) {
	ev := Event{Type: EventPress, Button: ButtonMiddle, Position: Position{X: 9, Y: 4}, Modifiers: NewModifiers(true, false, true)}
	encoded := EncodeSGR(ev)
	decoded, err := ParseSGR(encoded[3:len(encoded)-1], false)
	if err != nil {
		t.Fatalf("ParseSGR() error: %v", err)
	}
	if decoded.Button != ev.Button || decoded.Position != ev.Position {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, ev)
	}
}

func TestParseX10(t *testing.T) {
	payload := []byte{byte(0 + x10Offset), byte(5 + x10Offset), byte(3 + x10Offset)}
	ev, err := ParseX10(payload)
	if err != nil {
		t.Fatalf("ParseX10() error: %v", err)
	}
	if ev.Button != ButtonLeft || ev.Position != (Position{X: 4, Y: 2}) {
		t.Fatalf("ev = %+v", ev)
	}
}

func TestFilterMoveSuppressesHoverUnderButtonTracking(t *testing.T) {
	hover := Event{Type: EventMotion, Button: ButtonNone}
	drag := Event{Type: EventMotion, Button: ButtonLeft}
	if FilterMove(TrackingButton, hover) {
		t.Fatalf("expected bare hover suppressed under button tracking")
	}
	if !FilterMove(TrackingButton, drag) {
		t.Fatalf("expected drag delivered under button tracking")
	}
	if !FilterMove(TrackingAny, hover) {
		t.Fatalf("expected hover delivered under any-motion tracking")
	}
	if FilterMove(TrackingNormal, drag) {
		t.Fatalf("expected motion suppressed under normal tracking")
	}
}

func TestScrollAlwaysDeliveredRegardlessOfMode(t *testing.T) {
	scroll := Event{Type: EventScroll, Button: ButtonWheelUp}
	if !FilterMove(TrackingOff, scroll) {
		t.Fatalf("scroll is not a motion event and must never be filtered")
	}
}
