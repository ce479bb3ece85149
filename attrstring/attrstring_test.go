package attrstring

import (
	"testing"

	"github.com/phoenix-tui/vterm/style"
)

func TestAppendAndSubstring(t *testing.T) {
	a := FromString("hello", style.New().WithBold(true))
	b := FromString(" world", style.New())
	joined := a.Append(b)
	if joined.String() != "hello world" {
		t.Fatalf("Append() = %q", joined.String())
	}
	mid := joined.Substring(3, 8)
	if mid.String() != "lo wo" {
		t.Fatalf("Substring() = %q", mid.String())
	}
}

func TestColumnLengthWide(t *testing.T) {
	a := FromString("a中b", style.New())
	if got := a.ColumnLength(); got != 4 {
		t.Fatalf("ColumnLength() = %d, want 4", got)
	}
}

func TestColumnSubstringWideBoundaryPads(t *testing.T) {
	// "中" spans columns 0-1, "文" spans columns 2-3. A window of
	// [1,3) cuts through both glyphs, so neither survives intact: each
	// contributes a padding space for its included half.
	a := FromString("中文", style.New())
	sub := a.ColumnSubstring(1, 3)
	if got := sub.ColumnLength(); got != 2 {
		t.Fatalf("ColumnLength() = %d, want 2", got)
	}
	if got := sub.String(); got != "  " {
		t.Fatalf("ColumnSubstring() = %q, want two padding spaces", got)
	}
}

func TestColumnLengthTabExpansion(t *testing.T) {
	a := FromString("a\tb", style.New())
	if got := a.ColumnLength(); got != 9 {
		t.Fatalf("ColumnLength() = %d, want 9", got)
	}
}

func TestToAnsiRunCoalescing(t *testing.T) {
	st := style.New().WithForeground(style.RGB(255, 0, 0))
	a := FromString("ab", st)
	got := a.ToAnsi(style.DepthTrueColor)
	want := "\x1b[38;2;255;0;0mab\x1b[0m"
	if got != want {
		t.Fatalf("ToAnsi() = %q, want %q", got, want)
	}
}

func TestParseAnsiBoldThenReset(t *testing.T) {
	src := "\x1b[1;38;2;255;0;0mhi\x1b[0mplain"
	parsed := ParseAnsi(src)
	if parsed.String() != "hiplain" {
		t.Fatalf("ParseAnsi() text = %q", parsed.String())
	}
	if !parsed.StyleAt(0).Bold() {
		t.Fatalf("expected bold style on 'h'")
	}
	if parsed.StyleAt(3).Bold() {
		t.Fatalf("expected plain style after reset")
	}
}
