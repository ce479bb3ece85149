package keytrie

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/phoenix-tui/vterm"
)

// DefaultAmbiguousTimeout is how long Reader waits for more bytes when
// the buffered input exactly matches a binding that is also a prefix
// of a longer one (e.g. ESC alone vs. the start of a CSI sequence).
const DefaultAmbiguousTimeout = 150 * time.Millisecond

// ErrClosed is returned by ReadBinding once Close has been called.
// Wraps vterm.ErrClosed so callers can test for it with errors.Is
// without depending on this package's concrete sentinel.
var ErrClosed = fmt.Errorf("keytrie: reader closed: %w", vterm.ErrClosed)

// UnknownSink receives any byte Reader could not resolve against the
// trie, so callers can fall back to raw rune decoding (as a terminal
// reader does for literal UTF-8 text interleaved with escape
// sequences).
type UnknownSink func(b byte)

// Reader pulls bytes from an underlying io.Reader on a background
// goroutine and resolves them against a Trie, buffering partial
// matches and waiting out AmbiguousTimeout before committing to a
// binding that could still be a prefix of a longer one.
type Reader[T any] struct {
	trie             *Trie[T]
	AmbiguousTimeout time.Duration
	Unknown          UnknownSink

	bytesCh chan byte
	errCh   chan error
	closed  chan struct{}
}

// NewReader starts a background pump reading single bytes from r and
// returns a Reader ready to resolve them against trie.
func NewReader[T any](r io.Reader, trie *Trie[T]) *Reader[T] {
	rd := &Reader[T]{
		trie:             trie,
		AmbiguousTimeout: DefaultAmbiguousTimeout,
		bytesCh:          make(chan byte, 256),
		errCh:            make(chan error, 1),
		closed:           make(chan struct{}),
	}
	go rd.pump(r)
	return rd
}

func (rd *Reader[T]) pump(r io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case rd.bytesCh <- buf[0]:
			case <-rd.closed:
				return
			}
		}
		if err != nil {
			select {
			case rd.errCh <- err:
			case <-rd.closed:
			}
			return
		}
	}
}

// Close stops the reader; any ReadBinding blocked or called afterward
// returns ErrClosed.
func (rd *Reader[T]) Close() error {
	select {
	case <-rd.closed:
	default:
		close(rd.closed)
	}
	return nil
}

func (rd *Reader[T]) nextByte() (byte, error) {
	select {
	case b := <-rd.bytesCh:
		return b, nil
	case err := <-rd.errCh:
		return 0, err
	case <-rd.closed:
		return 0, ErrClosed
	}
}

// ReadBinding blocks until it can resolve one bound value from the
// input stream, feeds any unresolved leading bytes to Unknown, and
// returns the bound value. An ambiguous buffer (it matches a binding
// and could still extend to a longer one) is held for up to
// AmbiguousTimeout waiting for disambiguating bytes before the shorter
// match is committed.
func (rd *Reader[T]) ReadBinding() (T, error) {
	var buf []byte
	var zero T
	timeout := rd.AmbiguousTimeout
	if timeout <= 0 {
		timeout = DefaultAmbiguousTimeout
	}
	for {
		value, matchLen, ambiguous, ok := rd.trie.Match(buf)
		if ok && !ambiguous {
			rd.commitUnknownPrefix(&buf, 0)
			return value, nil
		}
		if ok && ambiguous {
			b, err := rd.readByteTimeout(timeout)
			if err == errTimedOut {
				rest := buf[matchLen:]
				for _, u := range rest {
					if rd.Unknown != nil {
						rd.Unknown(u)
					}
				}
				return value, nil
			}
			if err != nil {
				return zero, err
			}
			buf = append(buf, b)
			continue
		}
		// No match at all: if buf is non-empty, the trie can never
		// extend it further (walk stopped). With an Unknown sink set,
		// surface its first byte and retry from the remainder;
		// without one, there's nowhere for the byte to go, so report
		// it as an invalid sequence.
		if len(buf) > 0 {
			if rd.Unknown == nil {
				return zero, fmt.Errorf("keytrie: unresolvable byte %#x: %w", buf[0], vterm.ErrInvalidSequence)
			}
			rd.Unknown(buf[0])
			buf = buf[1:]
			if len(buf) > 0 {
				continue
			}
		}
		b, err := rd.nextByte()
		if err != nil {
			return zero, err
		}
		buf = append(buf, b)
	}
}

func (rd *Reader[T]) commitUnknownPrefix(buf *[]byte, n int) {
	for i := 0; i < n; i++ {
		if rd.Unknown != nil {
			rd.Unknown((*buf)[i])
		}
	}
}

var errTimedOut = errors.New("keytrie: ambiguous wait timed out")

func (rd *Reader[T]) readByteTimeout(d time.Duration) (byte, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case b := <-rd.bytesCh:
		return b, nil
	case err := <-rd.errCh:
		return 0, err
	case <-rd.closed:
		return 0, ErrClosed
	case <-timer.C:
		return 0, errTimedOut
	}
}
