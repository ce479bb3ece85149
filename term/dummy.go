package term

import (
	"bytes"
	"io"
	"sync/atomic"

	"github.com/phoenix-tui/vterm/style"
	"github.com/phoenix-tui/vterm/termattr"
)

// dummyTerminal discards all output, yields no input, and reports a
// fixed size; used where no controlling device is available. Grounded
// on a null/no-op test double pattern.
type dummyTerminal struct {
	size   Size
	reader *Reader
	writer *Writer
	attrs  termattr.Attributes
	raw    int32
	st     int32
}

// NewDummy creates a terminal backed by nothing: reads return io.EOF
// at once since there is no input, writes are discarded.
func NewDummy(size Size) Terminal {
	return &dummyTerminal{
		size:   size,
		reader: NewReader(bytes.NewReader(nil)),
		writer: NewWriter(io.Discard, style.DepthTrueColor),
	}
}

func (d *dummyTerminal) Reader() *Reader { return d.reader }
func (d *dummyTerminal) Writer() *Writer { return d.writer }

func (d *dummyTerminal) checkOpen() error {
	if atomic.LoadInt32(&d.st) == int32(stateClosed) {
		return ErrTerminalClosed
	}
	return nil
}

func (d *dummyTerminal) GetAttributes() (termattr.Attributes, error) { return d.attrs.Clone(), nil }
func (d *dummyTerminal) SetAttributes(a termattr.Attributes) error   { d.attrs = a; return nil }
func (d *dummyTerminal) GetSize() (Size, error)                      { return d.size, nil }
func (d *dummyTerminal) SetSize(s Size) error                        { d.size = s; return nil }
func (d *dummyTerminal) Handle(Signal, Handler) Handler              { return nil }
func (d *dummyTerminal) SetTracking(TrackingRequest) error           { return d.checkOpen() }
func (d *dummyTerminal) Pause() error                                { return d.checkOpen() }
func (d *dummyTerminal) Resume() error                               { return d.checkOpen() }

func (d *dummyTerminal) EnterRawMode() (termattr.Attributes, error) {
	if err := d.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	snap := d.attrs.Clone()
	atomic.StoreInt32(&d.raw, 1)
	d.attrs = d.attrs.Raw()
	return snap, nil
}

func (d *dummyTerminal) IsInRawMode() bool { return atomic.LoadInt32(&d.raw) == 1 }

func (d *dummyTerminal) Close() error {
	atomic.StoreInt32(&d.st, int32(stateClosed))
	atomic.StoreInt32(&d.raw, 0)
	d.reader.Close()
	return nil
}
