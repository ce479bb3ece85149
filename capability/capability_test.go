package capability

import (
	"errors"
	"testing"

	"github.com/phoenix-tui/vterm"
)

func TestLookupBuiltin(t *testing.T) {
	table, err := Lookup("xterm-256color")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if n, ok := table.GetNum(CapColors); !ok || n != 256 {
		t.Fatalf("colors = %d, %v, want 256, true", n, ok)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("no-such-terminal-xyz"); err == nil {
		t.Fatalf("expected error for unknown terminal")
	}
}

func TestErrCapabilityAbsentUnwrapsToSentinel(t *testing.T) {
	table, err := Lookup("xterm-256color")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	_, err = table.Tputs("no-such-capability")
	if !errors.Is(err, vterm.ErrCapabilityAbsent) {
		t.Fatalf("Tputs() err = %v, want errors.Is match for vterm.ErrCapabilityAbsent", err)
	}
}

func TestTparmErrorUnwrapsToSentinel(t *testing.T) {
	_, err := Tparm("%p1%")
	if !errors.Is(err, vterm.ErrEvaluationFailure) {
		t.Fatalf("Tparm() err = %v, want errors.Is match for vterm.ErrEvaluationFailure", err)
	}
}

func TestTputsCursorAddress(t *testing.T) {
	table, err := Lookup("xterm-256color")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	got, err := table.Tputs(CapCursorAddress, 4, 9)
	if err != nil {
		t.Fatalf("Tputs() error: %v", err)
	}
	want := "\x1b[5;10H"
	if got != want {
		t.Fatalf("Tputs(cup, 4, 9) = %q, want %q", got, want)
	}
}

func TestTputsAbsentCapability(t *testing.T) {
	table, _ := Lookup("dumb")
	if _, err := table.Tputs(CapCursorAddress); err == nil {
		t.Fatalf("expected ErrCapabilityAbsent")
	}
}

func TestTparmArithmeticAndConditional(t *testing.T) {
	// "%?%p1%{1}%=%t1%e0%;" prints "1" if param 1 equals 1, else "0".
	got, err := Tparm("%?%p1%{1}%=%t1%e0%;", 1)
	if err != nil {
		t.Fatalf("Tparm() error: %v", err)
	}
	if got != "1" {
		t.Fatalf("Tparm() = %q, want %q", got, "1")
	}
	got, err = Tparm("%?%p1%{1}%=%t1%e0%;", 2)
	if err != nil {
		t.Fatalf("Tparm() error: %v", err)
	}
	if got != "0" {
		t.Fatalf("Tparm() = %q, want %q", got, "0")
	}
}

func TestTparmIncrementAndPush(t *testing.T) {
	got, err := Tparm("%i%p1%d;%p2%d", 0, 0)
	if err != nil {
		t.Fatalf("Tparm() error: %v", err)
	}
	if got != "1;1" {
		t.Fatalf("Tparm() = %q, want %q", got, "1;1")
	}
}

func TestStripDelays(t *testing.T) {
	got := StripDelays("\x1b[2J$<50>\x1b[H")
	want := "\x1b[2J\x1b[H"
	if got != want {
		t.Fatalf("StripDelays() = %q, want %q", got, want)
	}
}
