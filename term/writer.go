package term

import (
	"bufio"
	"bytes"
	"io"
	"sync"

	"github.com/phoenix-tui/vterm/attrstring"
	"github.com/phoenix-tui/vterm/style"
)

// Writer is a buffered, styled-aware output sink: it flushes
// automatically whenever a newline is written and on explicit Flush,
// in the style of a buffered ansi.Writer
// discipline.
type Writer struct {
	mu    sync.Mutex
	buf   *bufio.Writer
	depth style.ColorDepth
}

// NewWriter wraps w with the default buffer size.
func NewWriter(w io.Writer, depth style.ColorDepth) *Writer {
	return &Writer{buf: bufio.NewWriter(w), depth: depth}
}

// NewWriterSize wraps w with an explicit buffer size.
func NewWriterSize(w io.Writer, size int, depth style.ColorDepth) *Writer {
	return &Writer{buf: bufio.NewWriterSize(w, size), depth: depth}
}

// WriteString writes raw, already-escaped bytes.
func (w *Writer) WriteString(s string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, err := w.buf.WriteString(s)
	if err == nil && bytes.ContainsRune([]byte(s), '\n') {
		err = w.buf.Flush()
	}
	return n, err
}

// WriteAttributed serializes as to its SGR-coalesced form and writes
// it, flushing if the text contains a newline.
func (w *Writer) WriteAttributed(as attrstring.AttributedString) (int, error) {
	return w.WriteString(as.ToAnsi(w.depth))
}

// Flush forces any buffered bytes out to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Flush()
}

// Buffered reports how many bytes are currently unflushed.
func (w *Writer) Buffered() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Buffered()
}
