//go:build windows

package wininput

import "testing"

func TestRenderCursorKeyUnmodified(t *testing.T) {
	cases := map[byte]string{
		'D': "\x1b[D",
		'A': "\x1b[A",
		'C': "\x1b[C",
		'B': "\x1b[B",
	}
	for final, want := range cases {
		got := string(renderCursorKey(final, 0))
		if got != want {
			t.Errorf("renderCursorKey(%q, 0) = %q, want %q", final, got, want)
		}
	}
}

func TestRenderCursorKeyWithControlModifier(t *testing.T) {
	got := string(renderCursorKey('C', modifierBitmask(false, false, true)))
	want := "\x1b[1;5C"
	if got != want {
		t.Errorf("renderCursorKey('C', ctrl) = %q, want %q", got, want)
	}
}

func TestRenderCursorKeyWithShiftModifier(t *testing.T) {
	got := string(renderCursorKey('D', modifierBitmask(true, false, false)))
	want := "\x1b[1;2D"
	if got != want {
		t.Errorf("renderCursorKey('D', shift) = %q, want %q", got, want)
	}
}

func TestRenderCapabilityPageKeysEmbedCodeWithAndWithoutModifier(t *testing.T) {
	if got := string(renderCapability(virtualKeyTable[0x21], 0)); got != "\x1b[5~" {
		t.Errorf("PageUp unmodified = %q, want %q", got, "\x1b[5~")
	}
	if got := string(renderCapability(virtualKeyTable[0x21], modifierBitmask(false, false, true))); got != "\x1b[5;5~" {
		t.Errorf("PageUp + ctrl = %q, want %q", got, "\x1b[5;5~")
	}
}

func TestRenderCapabilityF1IsUntouchedBySS3(t *testing.T) {
	got := string(renderCapability(virtualKeyTable[0x70], modifierBitmask(true, false, false)))
	if got != "\x1bOP" {
		t.Errorf("F1 = %q, want %q (SS3 sequences carry no modifier parameter)", got, "\x1bOP")
	}
}
