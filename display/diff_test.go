package display

import (
	"strings"
	"testing"

	"github.com/phoenix-tui/vterm/capability"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	caps, err := capability.Lookup("xterm-256color")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	return NewRenderer(caps)
}

func TestRenderFirstCallIsFullRedraw(t *testing.T) {
	r := newTestRenderer(t)
	s := NewScreen(3, 1)
	s.Set(0, 0, Cell{Rune: 'a'})
	s.Set(1, 0, Cell{Rune: 'b'})
	s.Set(2, 0, Cell{Rune: 'c'})

	out := string(r.Render(s))
	if !strings.Contains(out, "abc") {
		t.Errorf("expected full redraw to contain %q, got %q", "abc", out)
	}
}

func TestRenderSecondCallOnlyEmitsChangedCells(t *testing.T) {
	// Two rows with only the first changing: one changed row of two
	// stays under FullRedrawThreshold, so the row diff is used.
	r := newTestRenderer(t)
	s1 := NewScreen(5, 2)
	for i, c := range "hello" {
		s1.Set(i, 0, Cell{Rune: c})
	}
	r.Render(s1)

	s2 := NewScreen(5, 2)
	for i, c := range "hallo" {
		s2.Set(i, 0, Cell{Rune: c})
	}
	out := string(r.Render(s2))

	if strings.Contains(out, "hallo") {
		t.Errorf("expected only the changed column, got full row %q", out)
	}
	if !strings.Contains(out, "a") {
		t.Errorf("expected the changed rune 'a' in output, got %q", out)
	}
}

func TestRenderNoChangesProducesNoOutput(t *testing.T) {
	r := newTestRenderer(t)
	s := NewScreen(3, 1)
	s.Set(0, 0, Cell{Rune: 'x'})
	r.Render(s)

	out := r.Render(s)
	if len(out) != 0 {
		t.Errorf("expected no output for an unchanged screen, got %q", out)
	}
}

func TestRenderResizeForcesFullRedraw(t *testing.T) {
	r := newTestRenderer(t)
	r.Render(NewScreen(3, 1))
	out := r.Render(NewScreen(5, 2))
	if len(out) == 0 {
		t.Error("expected output on resize")
	}
}

func TestParseCursorReportRoundTrip(t *testing.T) {
	row, col, err := ParseCursorReport("\x1b[12;34R")
	if err != nil {
		t.Fatalf("ParseCursorReport: %v", err)
	}
	if row != 12 || col != 34 {
		t.Errorf("got (%d, %d), want (12, 34)", row, col)
	}
}

func TestParseCursorReportMalformed(t *testing.T) {
	if _, _, err := ParseCursorReport("garbage"); err == nil {
		t.Fatal("expected an error for a malformed report")
	}
}

func TestCommonPrefixSuffix(t *testing.T) {
	a := []Cell{{Rune: 'a'}, {Rune: 'b'}, {Rune: 'c'}, {Rune: 'd'}}
	b := []Cell{{Rune: 'a'}, {Rune: 'x'}, {Rune: 'c'}, {Rune: 'd'}}

	if p := commonPrefixLen(a, b); p != 1 {
		t.Errorf("commonPrefixLen = %d, want 1", p)
	}
	if s := commonSuffixLen(a, b, 1); s != 2 {
		t.Errorf("commonSuffixLen = %d, want 2", s)
	}
}
