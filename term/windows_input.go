//go:build windows

package term

import (
	"io"
	"os"

	"golang.org/x/sys/windows"

	"github.com/phoenix-tui/vterm/wininput"
)

// newInputRecordStream starts a goroutine that reads INPUT_RECORDs
// from in's console handle, decodes each through dec, and writes the
// resulting VT byte stream to the returned io.Reader's other end.
// Window buffer-resize events are dropped from the byte stream here
// (a future resize-signal plumbing point) since this layer only
// carries bytes, not geometry.
func newInputRecordStream(in *os.File, dec *wininput.Decoder) io.Reader {
	pr, pw := io.Pipe()
	h := windows.Handle(in.Fd())

	go func() {
		buf := make([]windows.InputRecord, 16)
		for {
			n, err := windows.ReadConsoleInput(h, buf)
			if err != nil {
				_ = pw.CloseWithError(err)
				return
			}
			for i := uint32(0); i < n; i++ {
				out, _, err := dec.Decode(buf[i])
				if err != nil || len(out) == 0 {
					continue
				}
				if _, werr := pw.Write(out); werr != nil {
					return
				}
			}
		}
	}()

	return pr
}
