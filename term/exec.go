//go:build !windows

package term

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/phoenix-tui/vterm"
	"github.com/phoenix-tui/vterm/style"
	"github.com/phoenix-tui/vterm/termattr"
)

// sttyFlag maps a boolean "stty -a" token name to the flag bit it
// toggles.
type sttyFlag struct {
	in    *InputFlag
	out   *OutputFlag
	ctl   *ControlFlag
	local *LocalFlag
}

// Aliasing into termattr's exported flag constant types so the table
// below can stay terse.
type (
	InputFlag   = termattr.InputFlag
	OutputFlag  = termattr.OutputFlag
	ControlFlag = termattr.ControlFlag
	LocalFlag   = termattr.LocalFlag
)

var (
	fIgnbrk  = termattr.IGNBRK
	fBrkint  = termattr.BRKINT
	fIstrip  = termattr.ISTRIP
	fInlcr   = termattr.INLCR
	fIgncr   = termattr.IGNCR
	fIcrnl   = termattr.ICRNL
	fIxon    = termattr.IXON
	fIxoff   = termattr.IXOFF
	fOpost   = termattr.OPOST
	fOnlcr   = termattr.ONLCR
	fOcrnl   = termattr.OCRNL
	fCstopb  = termattr.CSTOPB
	fCread   = termattr.CREAD
	fParenb  = termattr.PARENB
	fParodd  = termattr.PARODD
	fHupcl   = termattr.HUPCL
	fClocal  = termattr.CLOCAL
	fIsig    = termattr.ISIG
	fIcanon  = termattr.ICANON
	fEcho    = termattr.ECHO
	fEchoe   = termattr.ECHOE
	fEchok   = termattr.ECHOK
	fEchonl  = termattr.ECHONL
	fEchoctl = termattr.ECHOCTL
	fEchoke  = termattr.ECHOKE
	fEchoprt = termattr.ECHOPRT
	fNoflsh  = termattr.NOFLSH
	fTostop  = termattr.TOSTOP
	fIexten  = termattr.IEXTEN
	fFlusho  = termattr.FLUSHO
)

// sttyBoolTokens maps each "stty -a" boolean token to its flag group
// and bit, covering the flags this package models (an unrecognized
// token, e.g. a platform-specific extension, is ignored rather than
// rejected).
var sttyBoolTokens = map[string]sttyFlag{
	"ignbrk": {in: &fIgnbrk}, "brkint": {in: &fBrkint}, "istrip": {in: &fIstrip},
	"inlcr": {in: &fInlcr}, "igncr": {in: &fIgncr}, "icrnl": {in: &fIcrnl},
	"ixon": {in: &fIxon}, "ixoff": {in: &fIxoff},
	"opost": {out: &fOpost}, "onlcr": {out: &fOnlcr}, "ocrnl": {out: &fOcrnl},
	"cstopb": {ctl: &fCstopb}, "cread": {ctl: &fCread}, "parenb": {ctl: &fParenb},
	"parodd": {ctl: &fParodd}, "hupcl": {ctl: &fHupcl}, "clocal": {ctl: &fClocal},
	"isig": {local: &fIsig}, "icanon": {local: &fIcanon}, "echo": {local: &fEcho},
	"echoe": {local: &fEchoe}, "echok": {local: &fEchok}, "echonl": {local: &fEchonl},
	"echoctl": {local: &fEchoctl}, "echoke": {local: &fEchoke}, "echoprt": {local: &fEchoprt},
	"noflsh": {local: &fNoflsh}, "tostop": {local: &fTostop}, "iexten": {local: &fIexten},
	"flusho": {local: &fFlusho},
}

var sttyControlChars = map[string]termattr.ControlChar{
	"intr": termattr.VINTR, "quit": termattr.VQUIT, "erase": termattr.VERASE,
	"kill": termattr.VKILL, "eof": termattr.VEOF, "eol": termattr.VEOL,
	"eol2": termattr.VEOL2, "start": termattr.VSTART, "stop": termattr.VSTOP,
	"susp": termattr.VSUSP, "rprnt": termattr.VREPRINT, "werase": termattr.VWERASE,
	"lnext": termattr.VLNEXT, "discard": termattr.VDISCARD,
}

// parseSttyA parses the output of "stty -a" into an Attributes value
// and the reported window size. Unknown or malformed tokens are
// skipped rather than causing a hard failure, since stty's exact
// wording varies across libc/coreutils versions.
func parseSttyA(out string) (termattr.Attributes, Size, error) {
	var a termattr.Attributes
	var size Size

	fields := strings.FieldsFunc(out, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == ';'
	})

	for i := 0; i < len(fields); i++ {
		tok := fields[i]

		switch tok {
		case "rows":
			if i+1 < len(fields) {
				if n, err := strconv.Atoi(fields[i+1]); err == nil {
					size.Rows = n
				}
				i++
			}
			continue
		case "columns":
			if i+1 < len(fields) {
				if n, err := strconv.Atoi(fields[i+1]); err == nil {
					size.Cols = n
				}
				i++
			}
			continue
		}

		if cc, ok := sttyControlChars[tok]; ok {
			if i+2 < len(fields) && fields[i+1] == "=" {
				a.SetControlChar(cc, parseCaret(fields[i+2]))
				i += 2
			}
			continue
		}

		name := tok
		want := true
		if strings.HasPrefix(name, "-") {
			name = name[1:]
			want = false
		}
		if flag, ok := sttyBoolTokens[name]; ok {
			switch {
			case flag.in != nil:
				a.SetInput(*flag.in, want)
			case flag.out != nil:
				a.SetOutput(*flag.out, want)
			case flag.ctl != nil:
				a.SetControl(*flag.ctl, want)
			case flag.local != nil:
				a.SetLocal(*flag.local, want)
			}
		}
	}
	return a, size, nil
}

// parseCaret decodes stty's "^X" control-character notation (and
// "<undef>") into the raw byte value.
func parseCaret(s string) byte {
	if s == "<undef>" {
		return 0
	}
	if strings.HasPrefix(s, "^") && len(s) == 2 {
		c := s[1]
		if c == '?' {
			return 0x7f
		}
		return c - '@'
	}
	if len(s) == 1 {
		return s[0]
	}
	return 0
}

// formatSttyArgs renders a minimal set of "stty" arguments that would
// reproduce the flags this package models in a, used by SetAttributes
// since stty has no single "load these exact bits" form.
func formatSttyArgs(a termattr.Attributes) []string {
	args := make([]string, 0, 32)
	toggle := func(name string, on bool) {
		if on {
			args = append(args, name)
		} else {
			args = append(args, "-"+name)
		}
	}
	toggle("icanon", a.HasLocal(termattr.ICANON))
	toggle("echo", a.HasLocal(termattr.ECHO))
	toggle("echoe", a.HasLocal(termattr.ECHOE))
	toggle("echok", a.HasLocal(termattr.ECHOK))
	toggle("echonl", a.HasLocal(termattr.ECHONL))
	toggle("isig", a.HasLocal(termattr.ISIG))
	toggle("iexten", a.HasLocal(termattr.IEXTEN))
	toggle("noflsh", a.HasLocal(termattr.NOFLSH))
	toggle("opost", a.HasOutput(termattr.OPOST))
	toggle("onlcr", a.HasOutput(termattr.ONLCR))
	toggle("icrnl", a.HasInput(termattr.ICRNL))
	toggle("inlcr", a.HasInput(termattr.INLCR))
	toggle("igncr", a.HasInput(termattr.IGNCR))
	toggle("ixon", a.HasInput(termattr.IXON))
	toggle("ixoff", a.HasInput(termattr.IXOFF))
	args = append(args, "min", strconv.Itoa(int(a.ControlChar(termattr.VMIN))))
	args = append(args, "time", strconv.Itoa(int(a.ControlChar(termattr.VTIME))))
	return args
}

// execProcessTerminal drives an external process's tty through `stty`
// shell-outs rather than direct ioctls, for hosts where the calling
// process does not itself hold the descriptor (e.g. a supervised
// child), falling back to
// os/exec when a direct syscall path is unavailable
// (tty_control_unix.go's ExecProcess fallback); no third-party
// process-control library in the pack targets stty parsing
// specifically, so this path is stdlib os/exec (see DESIGN.md).
type execProcessTerminal struct {
	ttyPath string

	reader *Reader
	writer *Writer

	mu       sync.Mutex
	snapshot termattr.Attributes
	haveSnap bool
	rawMode  bool

	registry *signalRegistry
	pump     *signalPump

	st int32
}

// NewExecProcess opens ttyPath for reads and writes and manipulates
// its attributes via `stty`.
func NewExecProcess(ttyPath string) (Terminal, error) {
	f, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		return nil, vterm.WrapHostError("open tty", err)
	}
	t := &execProcessTerminal{
		ttyPath:  ttyPath,
		reader:   NewReader(f),
		writer:   NewWriter(f, style.DepthTrueColor),
		registry: newSignalRegistry(),
	}
	t.pump = newSignalPump(t.registry)
	return t, nil
}

func (t *execProcessTerminal) Reader() *Reader { return t.reader }
func (t *execProcessTerminal) Writer() *Writer { return t.writer }

func (t *execProcessTerminal) checkOpen() error {
	if atomic.LoadInt32(&t.st) == int32(stateClosed) {
		return ErrTerminalClosed
	}
	return nil
}

func (t *execProcessTerminal) runStty(args ...string) (string, error) {
	cmd := exec.Command("stty", args...)
	f, err := os.OpenFile(t.ttyPath, os.O_RDWR, 0)
	if err != nil {
		return "", vterm.WrapHostError("open tty", err)
	}
	defer f.Close()
	cmd.Stdin = f
	out, err := cmd.Output()
	if err != nil {
		return "", vterm.WrapHostError(fmt.Sprintf("stty %s", strings.Join(args, " ")), err)
	}
	return string(out), nil
}

func (t *execProcessTerminal) GetAttributes() (termattr.Attributes, error) {
	if err := t.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	out, err := t.runStty("-a")
	if err != nil {
		return termattr.Attributes{}, err
	}
	a, _, err := parseSttyA(out)
	return a, err
}

func (t *execProcessTerminal) SetAttributes(a termattr.Attributes) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	_, err := t.runStty(formatSttyArgs(a)...)
	return err
}

func (t *execProcessTerminal) GetSize() (Size, error) {
	if err := t.checkOpen(); err != nil {
		return Size{}, err
	}
	out, err := t.runStty("-a")
	if err != nil {
		return Size{}, err
	}
	_, size, err := parseSttyA(out)
	return size, err
}

func (t *execProcessTerminal) SetSize(s Size) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	_, err := t.runStty("rows", strconv.Itoa(s.Rows), "columns", strconv.Itoa(s.Cols))
	return err
}

func (t *execProcessTerminal) Handle(sig Signal, handler Handler) Handler {
	return t.registry.set(sig, handler)
}

func (t *execProcessTerminal) EnterRawMode() (termattr.Attributes, error) {
	if err := t.checkOpen(); err != nil {
		return termattr.Attributes{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, err := t.GetAttributes()
	if err != nil {
		return termattr.Attributes{}, err
	}
	if !t.haveSnap {
		t.snapshot = cur.Clone()
		t.haveSnap = true
	}
	if err := t.SetAttributes(cur.Raw()); err != nil {
		return termattr.Attributes{}, err
	}
	t.rawMode = true
	return t.snapshot, nil
}

func (t *execProcessTerminal) IsInRawMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rawMode
}

func (t *execProcessTerminal) SetTracking(req TrackingRequest) error {
	return t.checkOpen()
}

func (t *execProcessTerminal) Pause() error  { return t.checkOpen() }
func (t *execProcessTerminal) Resume() error { return t.checkOpen() }

func (t *execProcessTerminal) Close() error {
	if !atomic.CompareAndSwapInt32(&t.st, int32(stateOpen), int32(stateClosed)) {
		return nil
	}
	t.mu.Lock()
	snap, have := t.snapshot, t.haveSnap
	t.rawMode = false
	t.mu.Unlock()
	if have {
		// SetAttributes refuses once the state is closed, so stty is
		// run directly.
		_, _ = t.runStty(formatSttyArgs(snap)...)
	}
	t.reader.Close()
	t.pump.close()
	t.registry.unwind()
	return nil
}
