package vterm

import (
	"errors"
	"io"
	"testing"
)

func TestWrapHostErrorNilPassthrough(t *testing.T) {
	if err := WrapHostError("read", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWrapHostErrorUnwrap(t *testing.T) {
	err := WrapHostError("read", io.EOF)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected errors.Is to find io.EOF, got %v", err)
	}
	var he *HostError
	if !errors.As(err, &he) {
		t.Fatalf("expected errors.As to match *HostError, got %v", err)
	}
	if he.Op != "read" {
		t.Errorf("Op = %q, want %q", he.Op, "read")
	}
}

func TestHostErrorMessageIncludesOp(t *testing.T) {
	err := WrapHostError("set attributes", io.ErrClosedPipe)
	want := "vterm: set attributes: " + io.ErrClosedPipe.Error()
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotATerminal, ErrUnsupportedOperation, ErrCapabilityAbsent,
		ErrEvaluationFailure, ErrInvalidSequence, ErrClosed,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %d unexpectedly matches sentinel %d", i, j)
			}
		}
	}
}
