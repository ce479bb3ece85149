package term

import (
	"bytes"
	"io"
	"testing"
	"time"
)

func TestReaderReadDeliversBytes(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("hello")))
	defer r.Close()

	buf := make([]byte, 5)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Errorf("got %q, want %q", buf[:n], "hello")
	}
}

func TestReaderReadEOF(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	defer r.Close()

	buf := make([]byte, 1)
	_, err := r.Read(buf)
	if err != io.EOF {
		t.Fatalf("got err %v, want io.EOF", err)
	}
}

func TestReaderPeekDoesNotConsume(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("ab")))
	defer r.Close()

	// give the pump a moment to deliver the chunk
	time.Sleep(10 * time.Millisecond)

	peeked := r.Peek()
	if string(peeked) != "ab" {
		t.Fatalf("Peek = %q, want %q", peeked, "ab")
	}

	buf := make([]byte, 2)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "ab" {
		t.Errorf("Read after Peek = %q, want %q", buf[:n], "ab")
	}
}

func TestReaderClear(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("xyz")))
	defer r.Close()

	time.Sleep(10 * time.Millisecond)
	r.Clear()
	if got := r.Peek(); len(got) != 0 {
		t.Errorf("Peek after Clear = %q, want empty", got)
	}
}

func TestReaderTimeoutExpires(t *testing.T) {
	pr, _ := io.Pipe() // never written to
	r := NewReader(pr)
	defer r.Close()

	buf := make([]byte, 1)
	_, err := r.ReadTimeout(buf, 20*time.Millisecond)
	if err != errTimedOut {
		t.Fatalf("got err %v, want errTimedOut", err)
	}
}

func TestReaderCloseUnblocksRead(t *testing.T) {
	pr, _ := io.Pipe() // never written to
	r := NewReader(pr)

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		_, err := r.Read(buf)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	r.Close()

	select {
	case err := <-done:
		if err != ErrReaderClosed {
			t.Fatalf("got err %v, want ErrReaderClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock after Close")
	}
}

func TestReaderCloseIsIdempotent(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	r.Close()
	r.Close() // must not panic
}
