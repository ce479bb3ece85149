// Package termattr models POSIX termios-equivalent line-discipline
// state: the four flag groups and the control-character table, plus
// conversion to and from golang.org/x/sys/unix.Termios.
package termattr

// InputFlag bits, stored in Attributes.Iflag.
type InputFlag uint32

const (
	IGNBRK InputFlag = 1 << iota
	BRKINT
	INPCK
	ISTRIP
	INLCR
	IGNCR
	ICRNL
	IXON
	IXOFF
	IXANY
	IMAXBEL
	IUTF8
	INORMEOL
)

// OutputFlag bits, stored in Attributes.Oflag. Delay subfields
// (NLDLY/CRDLY/TABDLY/BSDLY/VTDLY/FFDLY) are multi-bit groups on real
// termios; OFILL/OFDEL select whether padding uses fill characters.
type OutputFlag uint32

const (
	OPOST OutputFlag = 1 << iota
	ONLCR
	OCRNL
	ONOCR
	ONLRET
	OFILL
	OFDEL
)

// ControlFlag bits, stored in Attributes.Cflag. CS5-CS8 occupy a
// 2-bit field rather than independent bits; CSize extracts it.
type ControlFlag uint32

const (
	CS5       ControlFlag = 0
	CS6       ControlFlag = 1 << 4
	CS7       ControlFlag = 2 << 4
	CS8       ControlFlag = 3 << 4
	CSizeMask ControlFlag = 3 << 4
)

const (
	CSTOPB ControlFlag = 1 << (iota + 6)
	CREAD
	PARENB
	PARODD
	HUPCL
	CLOCAL
)

// LocalFlag bits, stored in Attributes.Lflag.
type LocalFlag uint32

const (
	ISIG LocalFlag = 1 << iota
	ICANON
	ECHO
	ECHOE
	ECHOK
	ECHONL
	ECHOCTL
	ECHOKE
	ECHOPRT
	NOFLSH
	TOSTOP
	IEXTEN
	EXTPROC
	FLUSHO
	PENDIN
)

// ControlChar names the indices into Attributes.Cc.
type ControlChar int

const (
	VINTR ControlChar = iota
	VQUIT
	VERASE
	VKILL
	VEOF
	VEOL
	VEOL2
	VSTART
	VSTOP
	VSUSP
	VDSUSP
	VREPRINT
	VWERASE
	VLNEXT
	VDISCARD
	VMIN
	VTIME
	VSTATUS
	numControlChars
)

// Attributes is a deep-copyable value type mirroring POSIX termios:
// four flag-group bitsets, a control-character table, and the input
// and output baud rates.
type Attributes struct {
	Iflag uint32
	Oflag uint32
	Cflag uint32
	Lflag uint32
	Cc     [numControlChars]byte
	Ispeed uint32
	Ospeed uint32
}

func (a Attributes) hasIn(f InputFlag) bool    { return a.Iflag&uint32(f) != 0 }
func (a Attributes) hasOut(f OutputFlag) bool   { return a.Oflag&uint32(f) != 0 }
func (a Attributes) hasCtl(f ControlFlag) bool  { return a.Cflag&uint32(f) != 0 }
func (a Attributes) hasLocal(f LocalFlag) bool  { return a.Lflag&uint32(f) != 0 }

func (a *Attributes) setIn(f InputFlag, v bool) {
	if v {
		a.Iflag |= uint32(f)
	} else {
		a.Iflag &^= uint32(f)
	}
}

func (a *Attributes) setOut(f OutputFlag, v bool) {
	if v {
		a.Oflag |= uint32(f)
	} else {
		a.Oflag &^= uint32(f)
	}
}

func (a *Attributes) setCtl(f ControlFlag, v bool) {
	if v {
		a.Cflag |= uint32(f)
	} else {
		a.Cflag &^= uint32(f)
	}
}

func (a *Attributes) setLocal(f LocalFlag, v bool) {
	if v {
		a.Lflag |= uint32(f)
	} else {
		a.Lflag &^= uint32(f)
	}
}

// HasInput, HasOutput, HasControl, HasLocal report whether a named
// flag is set in the respective group.
func (a Attributes) HasInput(f InputFlag) bool     { return a.hasIn(f) }
func (a Attributes) HasOutput(f OutputFlag) bool   { return a.hasOut(f) }
func (a Attributes) HasControl(f ControlFlag) bool { return a.hasCtl(f) }
func (a Attributes) HasLocal(f LocalFlag) bool     { return a.hasLocal(f) }

// SetInput, SetOutput, SetControl, SetLocal mutate this value in place
// and return it, so callers can chain: a.SetLocal(ECHO, false).SetLocal(ICANON, false).
func (a *Attributes) SetInput(f InputFlag, v bool) *Attributes     { a.setIn(f, v); return a }
func (a *Attributes) SetOutput(f OutputFlag, v bool) *Attributes   { a.setOut(f, v); return a }
func (a *Attributes) SetControl(f ControlFlag, v bool) *Attributes { a.setCtl(f, v); return a }
func (a *Attributes) SetLocal(f LocalFlag, v bool) *Attributes     { a.setLocal(f, v); return a }

// CSize returns the character-size field packed into Cflag.
func (a Attributes) CSize() ControlFlag { return ControlFlag(a.Cflag) & CSizeMask }

// ControlChar gets/sets one entry of the Cc table.
func (a Attributes) ControlChar(c ControlChar) byte   { return a.Cc[c] }
func (a *Attributes) SetControlChar(c ControlChar, b byte) { a.Cc[c] = b }

// Clone returns a deep value copy (Attributes has no pointer fields,
// so plain assignment already copies, but Clone documents the
// copy-semantics contract this package requires explicitly).
func (a Attributes) Clone() Attributes { return a }

// Raw returns a new Attributes with the conventional raw-mode
// settings applied on top of a, following the same flag choices as
// terminal.EnterRawMode: canonical processing, echo, signal
// generation, and extended input processing are disabled, input is
// stripped of CR/NL translation and flow control, output post-
// processing is disabled, and VMIN/VTIME are set for byte-at-a-time
// reads.
func (a Attributes) Raw() Attributes {
	out := a
	out.setIn(IGNBRK, false)
	out.setIn(BRKINT, false)
	out.setIn(ISTRIP, false)
	out.setIn(INLCR, false)
	out.setIn(IGNCR, false)
	out.setIn(ICRNL, false)
	out.setIn(IXON, false)
	out.setOut(OPOST, false)
	out.setLocal(ECHO, false)
	out.setLocal(ECHONL, false)
	out.setLocal(ICANON, false)
	out.setLocal(ISIG, false)
	out.setLocal(IEXTEN, false)
	out.Cflag &^= uint32(CSizeMask) | uint32(PARENB)
	out.Cflag |= uint32(CS8)
	out.Cc[VMIN] = 1
	out.Cc[VTIME] = 0
	return out
}
