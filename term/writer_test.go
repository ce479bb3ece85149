package term

import (
	"bytes"
	"testing"

	"github.com/phoenix-tui/vterm/attrstring"
	"github.com/phoenix-tui/vterm/style"
)

func TestWriterBuffersUntilFlush(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, style.DepthTrueColor)

	if _, err := w.WriteString("no newline here"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing flushed yet, got %q", buf.String())
	}
	if got := w.Buffered(); got == 0 {
		t.Error("expected bytes to be buffered")
	}

	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if buf.String() != "no newline here" {
		t.Errorf("got %q after Flush", buf.String())
	}
}

func TestWriterAutoFlushesOnNewline(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, style.DepthTrueColor)

	if _, err := w.WriteString("line one\n"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if buf.String() != "line one\n" {
		t.Errorf("expected auto-flush on newline, got %q", buf.String())
	}
}

func TestWriterWriteAttributed(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, style.DepthTrueColor)

	as := attrstring.FromString("hi\n", style.New().WithBold(true))
	if _, err := w.WriteAttributed(as); err != nil {
		t.Fatalf("WriteAttributed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected bytes written")
	}
}
