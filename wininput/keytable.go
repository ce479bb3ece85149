//go:build windows

package wininput

import (
	"fmt"
	"strconv"
	"strings"
)

// virtualKeyTable maps VK_* virtual-key codes with no printable
// character to the CSI/SS3 sequence template xterm would send for the
// equivalent key, with "%s" standing in for the modifier parameter a
// held Shift/Alt/Ctrl inserts. Grounded on the docker pkg/term console
// input handler's keyMapPrefix table, extended with the numpad and
// function-key entries a full decoder needs.
var virtualKeyTable = map[uint16]string{
	0x21: "\x1b[5%s~", // VK_PRIOR (PageUp)
	0x22: "\x1b[6%s~", // VK_NEXT (PageDown)
	// VK_END/HOME (0x23-0x24) and VK_LEFT/UP/RIGHT/DOWN (0x25-0x28) are
	// handled by cursorKeyFinal and renderCursorKey below, not this
	// table: their modified form
	// needs a leading "1" parameter ("ESC[1;5D") that their bare form
	// ("ESC[D") must NOT carry, which "%s"-substitution into a single
	// fixed template can't express.
	0x2d: "\x1b[2%s~", // VK_INSERT
	0x2e: "\x1b[3%s~", // VK_DELETE

	0x70: "\x1bOP",     // VK_F1 (SS3, no modifier parameter)
	0x71: "\x1bOQ",     // VK_F2
	0x72: "\x1bOR",     // VK_F3
	0x73: "\x1bOS",     // VK_F4
	0x74: "\x1b[15%s~", // VK_F5
	0x75: "\x1b[17%s~", // VK_F6
	0x76: "\x1b[18%s~", // VK_F7
	0x77: "\x1b[19%s~", // VK_F8
	0x78: "\x1b[20%s~", // VK_F9
	0x79: "\x1b[21%s~", // VK_F10
	0x7a: "\x1b[23%s~", // VK_F11
	0x7b: "\x1b[24%s~", // VK_F12

	0x09: "\t",
	0x0d: "\r",
	0x1b: "\x1b",
}

// renderCapability substitutes a key table template's "%s" with the
// xterm modifier parameter (";N", 2<=N<=8) or "" when mod is 0, and
// leaves SS3 F1-F4 sequences (which carry no "%s") untouched.
func renderCapability(tmpl string, mod int) []byte {
	if !strings.Contains(tmpl, "%s") {
		return []byte(tmpl)
	}
	param := ""
	if mod != 0 {
		param = ";" + strconv.Itoa(mod+1)
	}
	return []byte(fmt.Sprintf(tmpl, param))
}

// cursorKeyFinal maps VK_END/HOME/LEFT/UP/RIGHT/DOWN to the CSI final
// byte xterm uses for each: unlike every entry in virtualKeyTable,
// these carry no numeric code of their own ("ESC [ D" not "ESC [ 1 D")
// in their unmodified form, so the "1" parameter renderCursorKey
// prepends only appears once a modifier is actually held.
var cursorKeyFinal = map[uint16]byte{
	0x23: 'F', // VK_END
	0x24: 'H', // VK_HOME
	0x25: 'D', // VK_LEFT
	0x26: 'A', // VK_UP
	0x27: 'C', // VK_RIGHT
	0x28: 'B', // VK_DOWN
}

// renderCursorKey renders an arrow, Home or End key as "ESC [ <final>"
// when mod is 0, or "ESC [ 1 ; <1+mask> <final>" when a modifier is
// held, matching xterm's CSI-with-parameters convention for these keys.
func renderCursorKey(final byte, mod int) []byte {
	if mod == 0 {
		return []byte{0x1b, '[', final}
	}
	return []byte(fmt.Sprintf("\x1b[1;%d%c", mod+1, final))
}
