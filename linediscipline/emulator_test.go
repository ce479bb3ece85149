package linediscipline

import (
	"bytes"
	"testing"

	"github.com/phoenix-tui/vterm/termattr"
)

func baseAttrs() termattr.Attributes {
	var a termattr.Attributes
	a.SetLocal(termattr.ISIG, true)
	a.SetLocal(termattr.ECHO, true)
	a.SetInput(termattr.ICRNL, true)
	a.SetOutput(termattr.OPOST, true)
	a.SetOutput(termattr.ONLCR, true)
	a.SetControlChar(termattr.VINTR, 0x03)
	a.SetControlChar(termattr.VQUIT, 0x1c)
	a.SetControlChar(termattr.VSUSP, 0x1a)
	return a
}

func TestWriteInputEchoesAndForwards(t *testing.T) {
	var slave, master bytes.Buffer
	e := New(baseAttrs(), &slave, &master, nil)

	if _, err := e.WriteInput([]byte("hi")); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}
	if slave.String() != "hi" {
		t.Errorf("slave got %q, want %q", slave.String(), "hi")
	}
	if master.String() != "hi" {
		t.Errorf("master (echo) got %q, want %q", master.String(), "hi")
	}
}

func TestWriteInputICRNLTranslatesCR(t *testing.T) {
	var slave, master bytes.Buffer
	a := baseAttrs()
	a.SetLocal(termattr.ECHO, false)
	e := New(a, &slave, &master, nil)

	if _, err := e.WriteInput([]byte{'\r'}); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}
	if slave.String() != "\n" {
		t.Errorf("slave got %q, want LF", slave.String())
	}
}

func TestWriteInputIGNCRDropsCR(t *testing.T) {
	var slave, master bytes.Buffer
	a := baseAttrs()
	a.SetLocal(termattr.ECHO, false)
	a.SetInput(termattr.ICRNL, false)
	a.SetInput(termattr.IGNCR, true)
	e := New(a, &slave, &master, nil)

	if _, err := e.WriteInput([]byte("a\rb")); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}
	if slave.String() != "ab" {
		t.Errorf("slave got %q, want %q", slave.String(), "ab")
	}
}

func TestWriteInputRaisesSignalOnVINTR(t *testing.T) {
	var slave, master bytes.Buffer
	var raised string
	a := baseAttrs()
	a.SetLocal(termattr.ECHO, false)
	e := New(a, &slave, &master, func(name string) { raised = name })

	if _, err := e.WriteInput([]byte{0x03}); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}
	if raised != "INT" {
		t.Errorf("raised = %q, want INT", raised)
	}
	if slave.Len() != 0 {
		t.Errorf("control character should not reach the slave pipe, got %q", slave.String())
	}
}

func TestWriteInputECHOCTLRendersCaretNotation(t *testing.T) {
	var slave, master bytes.Buffer
	a := baseAttrs()
	a.SetLocal(termattr.ECHOCTL, true)
	e := New(a, &slave, &master, func(string) {})

	if _, err := e.WriteInput([]byte{0x03}); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}
	if master.String() != "^C" {
		t.Errorf("master got %q, want %q", master.String(), "^C")
	}
}

func TestWriteOutputONLCRExpandsNewline(t *testing.T) {
	var slave, master bytes.Buffer
	e := New(baseAttrs(), &slave, &master, nil)

	if _, err := e.WriteOutput([]byte("a\nb")); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	if master.String() != "a\r\nb" {
		t.Errorf("master got %q, want %q", master.String(), "a\r\nb")
	}
}

func TestWriteOutputPassthroughWithoutOPOST(t *testing.T) {
	var slave, master bytes.Buffer
	a := baseAttrs()
	a.SetOutput(termattr.OPOST, false)
	e := New(a, &slave, &master, nil)

	if _, err := e.WriteOutput([]byte("a\nb")); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	if master.String() != "a\nb" {
		t.Errorf("master got %q, want unmodified %q", master.String(), "a\nb")
	}
}
