package capability

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// legacyMagic is the magic number of the classic (non-extended,
// 16-bit-number) ncurses compiled terminfo format.
const legacyMagic = 0432

// boolOrder, numOrder and strOrder list the booleans, numbers, and strings every compiled
// terminfo entry stores, in the fixed order the format has used since
// SVr4. Only the prefix vterm actually consults is reproduced in full
// fidelity; later entries some systems add are skipped, which is safe
// since unknown trailing fields are simply never looked up by name.
var boolOrder = []string{
	"bw", "am", "xsb", "xhp", "xenl", "eo", "gn", "hc", "km", "hs",
	"in", "da", "db", "mir", "msgr", "os", "eslok", "xt", "hz", "ul",
	"xon", "nxon", "mc5i", "chts", "nrrmc", "npc", "ndscr", "ccc", "bce", "hls",
	"xhpa", "crxm", "daisy", "xvpa", "sam", "cpix", "lpix",
}

var numOrder = []string{
	CapColumns, "it", CapLines, "lm", "xmc", "pb", "vt", "wsl", "nlab", "lh",
	"lw", "ma", "wnum",
}

var strOrder = []string{
	"cbt", "bel", "cr", "csr", "tbc", CapClearScreen, CapClearEOL, "el1", CapClearEOS, "hpa",
	"cmdch", CapCursorAddress, CapCursorUp, CapCursorDown, CapCursorForward, CapCursorBackward, "cuf", "cub", "ll", CapEnterAltScreen,
	"smam", CapEnterKeypad, "smir", "smln", "smso", CapUnderline, "cuu", "dch1", "dl1", "dsl",
	"hd", "smacs", CapSaveCursor, "tsl", "wind", CapSetFg, CapSetBg, "flash", "fsl", "is1",
	"is2", "is3", "if", "iprog", "ip", "ka1", "ka3", "kb2", "kbs", "kbeg",
	"kcan", "kc1", "kc2", "kc3", CapKeyDown, "kctab", "kdch1", "kdl1", "kcud1", "kend",
	"kent", "kel", "kext", "kf0", "kf1", "kf2", "kf3", "kf4", "kf5", "kf6",
	"kf7", "kf8", "kf9", "kf10", "kfnd", "khlp", "khome", "kich1", "kil1", CapKeyLeft,
	"kll", "kmrk", "kmsg", "kmov", "knxt", "kopn", "kopt", "kpp", "kprv", "kprt",
	"krdo", "kref", "krfr", "krpl", "krst", "kres", CapKeyRight, "krmir", "ksav", "kspd",
	"khts", "kund", "kcuu1", "kri", CapExitAltScreen, "rmam", CapExitKeypad, "rmir", "rmln", "rmso",
	CapNoUnderline, "rs1", "rs2", "rs3", "rf", "rc", "vpa", CapRestoreCursor, "sgr", CapSGR0,
	"hts", "ind", "ri", CapCursorHome, "hpr", "hu", "if2", "i1", "i2", "i3",
	CapCursorInvisible, CapCursorNormal, "csin", CapBold, CapDim, "smcup", "rmcup", "invis", "blink", CapReverse,
	"sitm", "ritm", "smul", "rmul", "rev", "setb", "setf", "dim", "bold",
}

// LoadSystem reads term's compiled terminfo entry from the filesystem
// (TERMINFO, then each directory in TERMINFO_DIRS, then ~/.terminfo,
// /usr/share/terminfo, /etc/terminfo and /lib/terminfo) and decodes the legacy binary format: a fixed
// header, NUL-terminated names, a boolean byte array, 16-bit numeric
// values, a string-offset array, and a string table. The extended
// (user-defined capability) section some systems append is not parsed.
func LoadSystem(term string) (*Table, error) {
	if term == "" {
		return nil, fmt.Errorf("capability: empty terminal name")
	}
	path, err := findTerminfoFile(term)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capability: reading %s: %w", path, err)
	}
	return parseTerminfo(term, data)
}

func findTerminfoFile(term string) (string, error) {
	first := string(term[0])
	candidates := []string{}
	if dir := os.Getenv("TERMINFO"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, first, term))
	}
	if dirs := os.Getenv("TERMINFO_DIRS"); dirs != "" {
		for _, dir := range strings.Split(dirs, ":") {
			if dir == "" {
				dir = "/usr/share/terminfo"
			}
			candidates = append(candidates, filepath.Join(dir, first, term))
		}
	}
	candidates = append(candidates,
		filepath.Join(os.Getenv("HOME"), ".terminfo", first, term),
		filepath.Join("/usr/share/terminfo", first, term),
		filepath.Join("/etc/terminfo", first, term),
		filepath.Join("/lib/terminfo", first, term),
	)
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("capability: no terminfo file found for %q", term)
}

func parseTerminfo(term string, data []byte) (*Table, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("capability: truncated terminfo data for %q", term)
	}
	magic := int16(binary.LittleEndian.Uint16(data[0:2]))
	if magic != legacyMagic {
		return nil, fmt.Errorf("capability: unsupported terminfo format for %q (magic %o)", term, magic)
	}
	namesSize := int(binary.LittleEndian.Uint16(data[2:4]))
	boolCount := int(binary.LittleEndian.Uint16(data[4:6]))
	numCount := int(binary.LittleEndian.Uint16(data[6:8]))
	strCount := int(binary.LittleEndian.Uint16(data[8:10]))
	strTableSize := int(binary.LittleEndian.Uint16(data[10:12]))

	pos := 12
	if pos+namesSize > len(data) {
		return nil, fmt.Errorf("capability: truncated names section for %q", term)
	}
	names := strings.TrimRight(string(data[pos:pos+namesSize]), "\x00")
	pos += namesSize

	t := newTable(term)
	parts := strings.Split(names, "|")
	if len(parts) > 0 {
		t.Aliases = parts
	}

	if pos+boolCount > len(data) {
		return nil, fmt.Errorf("capability: truncated bool section for %q", term)
	}
	for i := 0; i < boolCount && i < len(boolOrder); i++ {
		if data[pos+i] == 1 {
			t.Bools[boolOrder[i]] = true
		}
	}
	pos += boolCount
	if pos%2 == 1 {
		pos++ // alignment pad before the 16-bit numbers section
	}

	if pos+numCount*2 > len(data) {
		return nil, fmt.Errorf("capability: truncated number section for %q", term)
	}
	for i := 0; i < numCount && i < len(numOrder); i++ {
		v := int16(binary.LittleEndian.Uint16(data[pos+i*2 : pos+i*2+2]))
		if v >= 0 {
			t.Nums[numOrder[i]] = int(v)
		}
	}
	pos += numCount * 2

	if pos+strCount*2 > len(data) {
		return nil, fmt.Errorf("capability: truncated string offset section for %q", term)
	}
	offsets := make([]int16, strCount)
	for i := 0; i < strCount; i++ {
		offsets[i] = int16(binary.LittleEndian.Uint16(data[pos+i*2 : pos+i*2+2]))
	}
	pos += strCount * 2

	tableEnd := pos + strTableSize
	if tableEnd > len(data) {
		tableEnd = len(data)
	}
	strTable := data[pos:tableEnd]
	for i := 0; i < strCount && i < len(strOrder); i++ {
		off := offsets[i]
		if off < 0 || int(off) >= len(strTable) {
			continue
		}
		end := int(off)
		for end < len(strTable) && strTable[end] != 0 {
			end++
		}
		t.Strings[strOrder[i]] = string(strTable[off:end])
	}
	return t, nil
}
