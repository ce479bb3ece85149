package keytrie

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/phoenix-tui/vterm"
)

func TestTrieMatchLongestPrefix(t *testing.T) {
	var tr Trie[string]
	tr.Bind([]byte{0x1b}, "esc")
	tr.Bind([]byte{0x1b, '['}, "csi")
	tr.Bind([]byte{0x1b, '[', 'A'}, "up")

	v, n, ambiguous, ok := tr.Match([]byte{0x1b, '[', 'A'})
	if !ok || v != "up" || n != 3 {
		t.Fatalf("Match() = %q, %d, %v, %v", v, n, ambiguous, ok)
	}

	v, n, ambiguous, ok = tr.Match([]byte{0x1b})
	if !ok || v != "esc" || n != 1 || !ambiguous {
		t.Fatalf("Match(ESC) = %q, %d, %v, %v; want ambiguous esc", v, n, ambiguous, ok)
	}

	_, _, _, ok = tr.Match([]byte{'x'})
	if ok {
		t.Fatalf("expected no match for unbound byte")
	}
}

type pipeReader struct {
	ch chan byte
}

func (p *pipeReader) Read(buf []byte) (int, error) {
	b, ok := <-p.ch
	if !ok {
		return 0, io.EOF
	}
	buf[0] = b
	return 1, nil
}

func TestReaderResolvesUnambiguousBinding(t *testing.T) {
	var tr Trie[string]
	tr.Bind([]byte{'a'}, "A")
	src := &pipeReader{ch: make(chan byte, 1)}
	rd := NewReader(src, &tr)
	defer rd.Close()
	src.ch <- 'a'
	v, err := rd.ReadBinding()
	if err != nil || v != "A" {
		t.Fatalf("ReadBinding() = %q, %v", v, err)
	}
}

func TestReaderAmbiguousTimeoutCommitsShorter(t *testing.T) {
	var tr Trie[string]
	tr.Bind([]byte{0x1b}, "esc")
	tr.Bind([]byte{0x1b, '['}, "csi")
	src := &pipeReader{ch: make(chan byte, 1)}
	rd := NewReader(src, &tr)
	rd.AmbiguousTimeout = 20 * time.Millisecond
	defer rd.Close()
	src.ch <- 0x1b
	v, err := rd.ReadBinding()
	if err != nil || v != "esc" {
		t.Fatalf("ReadBinding() = %q, %v, want esc after timeout", v, err)
	}
}

func TestReaderUnknownSink(t *testing.T) {
	var tr Trie[string]
	tr.Bind([]byte{'a'}, "A")
	var unknown []byte
	src := &pipeReader{ch: make(chan byte, 2)}
	rd := NewReader(src, &tr)
	rd.Unknown = func(b byte) { unknown = append(unknown, b) }
	defer rd.Close()
	src.ch <- 'z'
	src.ch <- 'a'
	v, err := rd.ReadBinding()
	if err != nil || v != "A" {
		t.Fatalf("ReadBinding() = %q, %v", v, err)
	}
	if len(unknown) != 1 || unknown[0] != 'z' {
		t.Fatalf("unknown bytes = %v, want [z]", unknown)
	}
}

func TestReaderNoSinkReturnsInvalidSequence(t *testing.T) {
	var tr Trie[string]
	tr.Bind([]byte{'a'}, "A")
	src := &pipeReader{ch: make(chan byte, 1)}
	rd := NewReader(src, &tr)
	defer rd.Close()
	src.ch <- 'z'
	_, err := rd.ReadBinding()
	if !errors.Is(err, vterm.ErrInvalidSequence) {
		t.Fatalf("ReadBinding() err = %v, want vterm.ErrInvalidSequence", err)
	}
}
