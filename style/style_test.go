package style

import "testing"

func TestStyleEquality(t *testing.T) {
	a := New().WithBold(true).WithForeground(RGB(10, 20, 30))
	b := New().WithBold(true).WithForeground(RGB(10, 20, 30))
	if !a.Equals(b) {
		t.Fatalf("expected equal styles")
	}
	c := b.WithItalic(true)
	if a.Equals(c) {
		t.Fatalf("expected styles to differ after WithItalic")
	}
}

func TestStyleZero(t *testing.T) {
	if !New().IsZero() {
		t.Fatalf("New() should be zero value")
	}
	if New().WithBold(true).IsZero() {
		t.Fatalf("bold style should not be zero")
	}
}

func TestToAnsiTrueColor(t *testing.T) {
	s := New().WithForeground(RGB(255, 0, 0)).WithBold(true)
	got := s.ToAnsi(DepthTrueColor)
	want := "\x1b[1;38;2;255;0;0m"
	if got != want {
		t.Fatalf("ToAnsi() = %q, want %q", got, want)
	}
}

func TestToAnsiDowngrades256(t *testing.T) {
	s := New().WithForeground(RGB(255, 0, 0))
	got := s.ToAnsi(Depth256)
	want := "\x1b[38;5;196m"
	if got != want {
		t.Fatalf("ToAnsi(256) = %q, want %q", got, want)
	}
}

func TestToAnsiDowngrades16(t *testing.T) {
	s := New().WithForeground(RGB(255, 0, 0))
	got := s.ToAnsi(Depth16)
	want := "\x1b[91m"
	if got != want {
		t.Fatalf("ToAnsi(16) = %q, want %q", got, want)
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	c, err := Hex("#1a2b3c")
	if err != nil {
		t.Fatalf("Hex() error: %v", err)
	}
	r, g, b := c.ToRGB()
	if r != 0x1a || g != 0x2b || b != 0x3c {
		t.Fatalf("Hex() = %02x%02x%02x, want 1a2b3c", r, g, b)
	}
}

func TestDown16CornerPoints(t *testing.T) {
	cases := []struct {
		rgb  Color
		want uint8
	}{
		{RGB(0, 0, 0), 0},
		{RGB(255, 255, 255), 15},
		{RGB(255, 0, 0), 9},
		{RGB(0, 255, 0), 10},
		{RGB(0, 0, 255), 12},
	}
	for _, tc := range cases {
		got := tc.rgb.Down16().Index()
		if got != tc.want {
			t.Errorf("Down16(%v) = %d, want %d", tc.rgb, got, tc.want)
		}
	}
}
