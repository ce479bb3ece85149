//go:build windows

// Package winconsole translates a stream of ANSI/VT escape sequences
// into Win32 console API calls, for hosts whose console host does not
// set ENABLE_VIRTUAL_TERMINAL_PROCESSING. This is a rewrite of the
// teacher's static ANSI tables into a stateful parser, grounded
// directly on moby/moby's pkg/term/windows ansi_writer.go/ansi.go
// (the "ground"/"esc_seen"/"csi_params"/"osc_*"/"st_wait" state
// machine, the overflow-and-flush rule, and the negative/bold
// nibble-swap attribute recomputation are adapted from that reference
// into vterm's style vocabulary).
package winconsole

import (
	"strconv"
	"strings"

	"golang.org/x/sys/windows"

	"github.com/phoenix-tui/vterm/style"
)

// maxCommandLength bounds how many bytes of an unterminated escape
// sequence are buffered before the translator gives up and flushes
// them verbatim, matching moby's ANSI_MAX_CMD_LENGTH overflow rule.
const maxCommandLength = 100

type parseState int

const (
	stateGround parseState = iota
	stateEscSeen
	stateCSIParams
	stateOSCCommand
	stateOSCParams
	stateSTWait
)

// Translator is an io.Writer that decodes CSI/OSC sequences and
// replays their effect through the Win32 console API on h.
type Translator struct {
	h windows.Handle

	state   parseState
	pending []byte // raw bytes of the in-progress sequence, including ESC

	params  []string
	current strings.Builder

	base uint16 // text attribute in effect when New was called; SGR 39/49 resets to this
	attr uint16

	title strings.Builder
}

// New wraps the console output handle h, snapshotting its current
// text attribute as the "default" SGR 39/49 target.
func New(h windows.Handle) (*Translator, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(h, &info); err != nil {
		return nil, err
	}
	return &Translator{h: h, attr: info.Attributes, base: info.Attributes}, nil
}

// Write implements io.Writer, scanning p for escape sequences and
// passing everything else straight to WriteConsole.
func (t *Translator) Write(p []byte) (int, error) {
	start := 0
	flushPlain := func(end int) error {
		if start >= end {
			return nil
		}
		return t.writePlain(p[start:end])
	}

	for i := 0; i < len(p); i++ {
		b := p[i]

		switch t.state {
		case stateGround:
			if b == 0x1b {
				if err := flushPlain(i); err != nil {
					return i, err
				}
				start = i + 1
				t.state = stateEscSeen
				t.pending = append(t.pending[:0], b)
			}

		case stateEscSeen:
			t.pending = append(t.pending, b)
			switch b {
			case '[':
				t.state = stateCSIParams
				t.params = t.params[:0]
				t.current.Reset()
			case ']':
				t.state = stateOSCCommand
				t.title.Reset()
			default:
				t.state = stateGround
				start = i + 1
			}

		case stateCSIParams:
			t.pending = append(t.pending, b)
			switch {
			case b >= '0' && b <= '9':
				t.current.WriteByte(b)
			case b == ';':
				t.params = append(t.params, t.current.String())
				t.current.Reset()
			case b >= 0x40 && b <= 0x7e:
				t.params = append(t.params, t.current.String())
				t.handleCSI(b, t.params)
				t.state = stateGround
				start = i + 1
			default:
				// unrecognized intermediate, ignore
			}

		case stateOSCCommand, stateOSCParams:
			t.pending = append(t.pending, b)
			if b == 0x07 {
				t.handleOSC(t.title.String())
				t.state = stateGround
				start = i + 1
			} else if b == 0x1b {
				t.state = stateSTWait
			} else {
				t.title.WriteByte(b)
			}

		case stateSTWait:
			t.pending = append(t.pending, b)
			if b == '\\' {
				t.handleOSC(t.title.String())
			}
			t.state = stateGround
			start = i + 1
		}

		if t.state != stateGround && len(t.pending) >= maxCommandLength {
			// overflow: give up on this sequence, flush it verbatim
			if err := t.writePlain(t.pending); err != nil {
				return i, err
			}
			t.state = stateGround
			start = i + 1
		}
	}

	if err := flushPlain(len(p)); err != nil {
		return len(p), err
	}
	return len(p), nil
}

func (t *Translator) writePlain(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	var written uint32
	return windows.WriteConsole(t.h, b, &written, nil)
}

func (t *Translator) handleCSI(final byte, params []string) {
	switch final {
	case 'm':
		t.applySGR(params)
	case 'H', 'f':
		row := paramInt(params, 0, 1)
		col := paramInt(params, 1, 1)
		_ = windows.SetConsoleCursorPosition(t.h, windows.Coord{X: int16(col - 1), Y: int16(row - 1)})
	case 'A':
		t.moveCursor(0, -paramInt(params, 0, 1))
	case 'B':
		t.moveCursor(0, paramInt(params, 0, 1))
	case 'C':
		t.moveCursor(paramInt(params, 0, 1), 0)
	case 'D':
		t.moveCursor(-paramInt(params, 0, 1), 0)
	case 'J':
		t.eraseDisplay(paramInt(params, 0, 0))
	case 'K':
		t.eraseLine(paramInt(params, 0, 0))
	}
}

func (t *Translator) handleOSC(payload string) {
	if strings.HasPrefix(payload, "0;") || strings.HasPrefix(payload, "2;") {
		title := payload[2:]
		_ = windows.SetConsoleTitle(title)
	}
}

func paramInt(params []string, idx, def int) int {
	if idx >= len(params) || params[idx] == "" {
		return def
	}
	n, err := strconv.Atoi(params[idx])
	if err != nil {
		return def
	}
	return n
}

func (t *Translator) moveCursor(dx, dy int16) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(t.h, &info); err != nil {
		return
	}
	pos := windows.Coord{
		X: clampCoord(info.CursorPosition.X+dx, 0, info.Size.X-1),
		Y: clampCoord(info.CursorPosition.Y+dy, 0, info.Size.Y-1),
	}
	_ = windows.SetConsoleCursorPosition(t.h, pos)
}

func clampCoord(v, lo, hi int16) int16 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// applySGR re-implements moby's collectAnsiIntoWindowsAttributes over
// vterm's style.Style vocabulary: params are folded into the active
// text attribute word, with reverse-video emulated by swapping the
// foreground/background nibbles (Windows exposes no native reverse
// bit). 38/48 (extended color) consume a variable number of trailing
// params depending on their ;5; (256-color) or ;2; (truecolor) mode
// selector, since those forms can't be folded one param at a time.
func (t *Translator) applySGR(params []string) {
	if len(params) == 0 {
		params = []string{"0"}
	}
	for i := 0; i < len(params); i++ {
		code := paramInt(params, i, 0)
		switch code {
		case 38, 48:
			consumed := t.applyExtendedColor(code == 38, params[i+1:])
			i += consumed
		default:
			t.attr = applySGRCode(t.attr, t.base, code)
		}
	}
	_ = windows.SetConsoleTextAttribute(t.h, t.attr)
}

// applyExtendedColor decodes a 38;... or 48;... extended-color
// sequence starting after the 38/48 code itself (rest[0] is the mode
// selector), rounds the resulting color down to the nearest 4-bit
// ANSI entry via style.Color.Down16 (Windows text attributes have no
// 256-color or truecolor mode), and folds it into the active
// attribute. Returns how many entries of rest were consumed so the
// caller can skip over them in the outer params loop.
func (t *Translator) applyExtendedColor(foreground bool, rest []string) int {
	if len(rest) == 0 {
		return 0
	}
	var color style.Color
	var consumed int
	switch paramInt(rest, 0, -1) {
	case 5: // indexed: 38;5;n
		if len(rest) < 2 {
			return len(rest)
		}
		color = style.Indexed8(uint8(paramInt(rest, 1, 0)))
		consumed = 2
	case 2: // truecolor: 38;2;r;g;b
		if len(rest) < 4 {
			return len(rest)
		}
		color = style.RGB(
			uint8(paramInt(rest, 1, 0)),
			uint8(paramInt(rest, 2, 0)),
			uint8(paramInt(rest, 3, 0)),
		)
		consumed = 4
	default:
		return 1
	}
	idx := color.Down16().Index()
	t.attr = applyAnsiIndex(t.attr, idx, foreground)
	return consumed
}

// applyAnsiIndex folds a 4-bit ANSI color index (0-15) into attr's
// foreground or background nibble: bit 0/1/2 of idx select red/
// green/blue the same way SGR 30-37/40-47 do, and bit 3 (idx >= 8)
// sets the intensity bit for the bright half of the palette.
func applyAnsiIndex(attr uint16, idx uint8, foreground bool) uint16 {
	idx &= 0x0f
	var bits uint16
	if foreground {
		if idx&1 != 0 {
			bits |= foregroundRed
		}
		if idx&2 != 0 {
			bits |= foregroundGreen
		}
		if idx&4 != 0 {
			bits |= foregroundBlue
		}
		if idx&8 != 0 {
			bits |= foregroundIntensity
		}
		return (attr &^ foregroundMask) | bits
	}
	if idx&1 != 0 {
		bits |= backgroundRed
	}
	if idx&2 != 0 {
		bits |= backgroundGreen
	}
	if idx&4 != 0 {
		bits |= backgroundBlue
	}
	if idx&8 != 0 {
		bits |= backgroundIntensity
	}
	return (attr &^ backgroundMask) | bits
}

const (
	foregroundBlue      = 0x0001
	foregroundGreen     = 0x0002
	foregroundRed       = 0x0004
	foregroundIntensity = 0x0008
	backgroundBlue      = 0x0010
	backgroundGreen     = 0x0020
	backgroundRed       = 0x0040
	backgroundIntensity = 0x0080
	commonLVBUnderscore = 0x8000
	foregroundMask       = foregroundBlue | foregroundGreen | foregroundRed | foregroundIntensity
	backgroundMask       = backgroundBlue | backgroundGreen | backgroundRed | backgroundIntensity
	commonLVBMask        = ^uint16(foregroundMask | backgroundMask)
)

func applySGRCode(attr, base uint16, code int) uint16 {
	switch code {
	case 0:
		return base
	case 1:
		return attr | foregroundIntensity
	case 2, 22:
		return attr &^ foregroundIntensity
	case 4:
		return attr | commonLVBUnderscore
	case 24:
		return attr &^ commonLVBUnderscore
	case 7, 27:
		return (attr & commonLVBMask) | ((attr & foregroundMask) << 4) | ((attr & backgroundMask) >> 4)
	case 30:
		return attr &^ (foregroundRed | foregroundGreen | foregroundBlue)
	case 31:
		return (attr &^ foregroundMask) | foregroundRed
	case 32:
		return (attr &^ foregroundMask) | foregroundGreen
	case 33:
		return (attr &^ foregroundMask) | foregroundRed | foregroundGreen
	case 34:
		return (attr &^ foregroundMask) | foregroundBlue
	case 35:
		return (attr &^ foregroundMask) | foregroundRed | foregroundBlue
	case 36:
		return (attr &^ foregroundMask) | foregroundGreen | foregroundBlue
	case 37:
		return (attr &^ foregroundMask) | foregroundRed | foregroundGreen | foregroundBlue
	case 39:
		return (attr &^ foregroundMask) | (base & foregroundMask)
	case 40:
		return attr &^ backgroundMask
	case 41:
		return (attr &^ backgroundMask) | backgroundRed
	case 42:
		return (attr &^ backgroundMask) | backgroundGreen
	case 43:
		return (attr &^ backgroundMask) | backgroundRed | backgroundGreen
	case 44:
		return (attr &^ backgroundMask) | backgroundBlue
	case 45:
		return (attr &^ backgroundMask) | backgroundRed | backgroundBlue
	case 46:
		return (attr &^ backgroundMask) | backgroundGreen | backgroundBlue
	case 47:
		return (attr &^ backgroundMask) | backgroundRed | backgroundGreen | backgroundBlue
	case 49:
		return (attr &^ backgroundMask) | (base & backgroundMask)
	case 90, 91, 92, 93, 94, 95, 96, 97:
		return applyAnsiIndex(attr, uint8(8+code-90), true)
	case 100, 101, 102, 103, 104, 105, 106, 107:
		return applyAnsiIndex(attr, uint8(8+code-100), false)
	default:
		return attr
	}
}

func (t *Translator) eraseDisplay(mode int) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(t.h, &info); err != nil {
		return
	}
	var from, to windows.Coord
	switch mode {
	case 0: // cursor to end
		from, to = info.CursorPosition, windows.Coord{X: info.Size.X - 1, Y: info.Size.Y - 1}
	case 1: // start to cursor
		from, to = windows.Coord{}, info.CursorPosition
	default: // entire buffer
		from, to = windows.Coord{}, windows.Coord{X: info.Size.X - 1, Y: info.Size.Y - 1}
	}
	t.fillRange(from, to, info)
}

func (t *Translator) eraseLine(mode int) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(t.h, &info); err != nil {
		return
	}
	y := info.CursorPosition.Y
	var from, to windows.Coord
	switch mode {
	case 0:
		from, to = info.CursorPosition, windows.Coord{X: info.Size.X - 1, Y: y}
	case 1:
		from, to = windows.Coord{X: 0, Y: y}, info.CursorPosition
	default:
		from, to = windows.Coord{X: 0, Y: y}, windows.Coord{X: info.Size.X - 1, Y: y}
	}
	t.fillRange(from, to, info)
}

func (t *Translator) fillRange(from, to windows.Coord, info windows.ConsoleScreenBufferInfo) {
	if to.Y < from.Y || (to.Y == from.Y && to.X < from.X) {
		return
	}
	for y := from.Y; y <= to.Y; y++ {
		startX, endX := int16(0), info.Size.X-1
		if y == from.Y {
			startX = from.X
		}
		if y == to.Y {
			endX = to.X
		}
		n := uint32(endX - startX + 1)
		if n <= 0 {
			continue
		}
		var written uint32
		_ = windows.FillConsoleOutputCharacter(t.h, ' ', n, windows.Coord{X: startX, Y: y}, &written)
		_ = windows.FillConsoleOutputAttribute(t.h, t.attr, n, windows.Coord{X: startX, Y: y}, &written)
	}
}

// StyleAttribute converts a vterm style.Style into the Windows text
// attribute word it would produce, for callers that want to precompute
// it without replaying a full SGR sequence through Write.
func StyleAttribute(base uint16, s style.Style) uint16 {
	attr := base
	if s.Bold() {
		attr |= foregroundIntensity
	}
	if s.Underline() != style.UnderlineNone {
		attr |= commonLVBUnderscore
	}
	if s.Inverse() {
		attr = (attr & commonLVBMask) | ((attr & foregroundMask) << 4) | ((attr & backgroundMask) >> 4)
	}
	return attr
}
