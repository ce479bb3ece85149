package display

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/phoenix-tui/vterm/capability"
	"github.com/phoenix-tui/vterm/style"
)

// FullRedrawThreshold is the fraction of changed rows (0..1) above
// which Renderer gives up on a line-oriented diff and redraws the
// whole screen, since emitting per-row cheapest-moves would cost more
// escape-sequence overhead than a single clear+redraw.
const FullRedrawThreshold = 0.6

// Renderer tracks the previously drawn Screen and the terminal's
// current cursor position, emitting the minimal byte sequence needed
// to make the terminal match a newly supplied Screen.
type Renderer struct {
	caps *capability.Table

	prev       *Screen
	cursorRow  int
	cursorCol  int
	haveCursor bool

	costCache sync.Map // moveKey -> int (rendered byte length)
}

// NewRenderer creates a Renderer against the given terminfo table. The
// first Render call always does a full redraw, since there is no prior
// frame to diff against.
func NewRenderer(caps *capability.Table) *Renderer {
	return &Renderer{caps: caps}
}

// moveKey identifies a cached cost lookup: a capability name plus the
// (row, col) parameters used to instantiate it. Concurrent renders of
// independent screens can share this cache safely since Tparm is pure.
type moveKey struct {
	cap      string
	row, col int
}

func (r *Renderer) paramCost(cap string, params ...int) (string, int) {
	key := moveKey{cap: cap}
	if len(params) > 0 {
		key.row = params[0]
	}
	if len(params) > 1 {
		key.col = params[1]
	}
	if v, ok := r.costCache.Load(key); ok {
		tmpl, _ := r.caps.GetString(cap)
		s, _ := capability.Tparm(tmpl, params...)
		return s, v.(int)
	}
	tmpl, ok := r.caps.GetString(cap)
	if !ok {
		return "", 1 << 30
	}
	s, err := capability.Tparm(tmpl, params...)
	if err != nil {
		return "", 1 << 30
	}
	r.costCache.Store(key, len(s))
	return s, len(s)
}

// Render diffs next against the last Screen rendered (or the entire
// screen, on the first call or a resize) and returns the escape-
// sequence bytes a terminal should receive to reach that state.
func (r *Renderer) Render(next *Screen) []byte {
	if r.prev == nil || r.prev.Width != next.Width || r.prev.Height != next.Height {
		out := r.fullRedraw(next)
		r.prev = cloneScreen(next)
		return out
	}

	changedRows := 0
	for y := 0; y < next.Height; y++ {
		if !rowEqual(r.prev.Row(y), next.Row(y)) {
			changedRows++
		}
	}
	if next.Height > 0 && float64(changedRows)/float64(next.Height) > FullRedrawThreshold {
		out := r.fullRedraw(next)
		r.prev = cloneScreen(next)
		return out
	}

	var b strings.Builder
	var lastStyle style.Style
	haveStyle := false

	for y := 0; y < next.Height; y++ {
		oldRow := r.prev.Row(y)
		newRow := next.Row(y)
		if rowEqual(oldRow, newRow) {
			continue
		}

		prefix := commonPrefixLen(oldRow, newRow)
		suffix := commonSuffixLen(oldRow, newRow, prefix)
		start, end := prefix, len(newRow)-suffix

		r.moveCursor(&b, y, start)
		for x := start; x < end; x++ {
			cell := newRow[x]
			if !haveStyle || !lastStyle.Equals(cell.Style) {
				b.WriteString(cell.Style.ToAnsi(style.DepthTrueColor))
				lastStyle, haveStyle = cell.Style, true
			}
			b.WriteRune(cell.render())
		}
		r.cursorRow, r.cursorCol = y, end
		// Writing the last column of a row leaves the cursor past the
		// margin on an autowrap terminal; treat the position as
		// unknown until explicitly moved again.
		if end >= next.Width {
			r.haveCursor = false
		} else {
			r.haveCursor = true
		}
	}

	r.prev = cloneScreen(next)
	return []byte(b.String())
}

// fullRedraw clears the screen and writes every non-empty cell.
func (r *Renderer) fullRedraw(next *Screen) []byte {
	var b strings.Builder
	if tmpl, ok := r.caps.GetString("clear"); ok {
		if s, err := capability.Tparm(tmpl); err == nil {
			b.WriteString(s)
		}
	}
	r.haveCursor = false

	var lastStyle style.Style
	haveStyle := false
	for y := 0; y < next.Height; y++ {
		row := next.Row(y)
		r.moveCursor(&b, y, 0)
		for x, cell := range row {
			if cell.IsEmpty() && !haveStyle {
				continue
			}
			if !haveStyle || !lastStyle.Equals(cell.Style) {
				b.WriteString(cell.Style.ToAnsi(style.DepthTrueColor))
				lastStyle, haveStyle = cell.Style, true
			}
			b.WriteRune(cell.render())
			_ = x
		}
		r.cursorRow, r.cursorCol = y, next.Width
		r.haveCursor = next.Width == 0
	}
	return []byte(b.String())
}

// moveCursor appends the cheapest of several cursor-positioning
// candidates to b: an absolute cup, a relative move from the last
// known position, or (if the target is column 0) a bare carriage
// return. Falls back to cup unconditionally if the cursor position
// isn't currently known.
func (r *Renderer) moveCursor(b *strings.Builder, row, col int) {
	if !r.haveCursor {
		s, _ := r.paramCost("cup", row, col)
		b.WriteString(s)
		r.cursorRow, r.cursorCol, r.haveCursor = row, col, true
		return
	}

	type candidate struct {
		seq  string
		cost int
	}
	var candidates []candidate

	if abs, cost := r.paramCost("cup", row, col); abs != "" {
		candidates = append(candidates, candidate{abs, cost})
	}

	if row == r.cursorRow {
		if col == 0 {
			if cr, cost := r.paramCost("cr"); cr != "" {
				candidates = append(candidates, candidate{cr, cost})
			}
		}
		if d := col - r.cursorCol; d > 0 {
			if s, cost := r.paramCost("cuf", d); s != "" {
				candidates = append(candidates, candidate{s, cost})
			}
		} else if d < 0 {
			if s, cost := r.paramCost("cub", -d); s != "" {
				candidates = append(candidates, candidate{s, cost})
			}
		}
	} else if col == 0 {
		if cr, ok := r.caps.GetString("cr"); ok {
			if s, err := capability.Tparm(cr); err == nil {
				if nl, ok := r.caps.GetString("cud1"); ok {
					if down, err := capability.Tparm(nl); err == nil {
						rep := strings.Repeat(down, row-r.cursorRow)
						if row > r.cursorRow {
							candidates = append(candidates, candidate{s + rep, len(s) + len(rep)})
						}
					}
				}
			}
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.cost < best.cost {
			best = c
		}
	}
	b.WriteString(best.seq)
	r.cursorRow, r.cursorCol = row, col
}

func rowEqual(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func commonPrefixLen(a, b []Cell) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffixLen(a, b []Cell, limit int) int {
	i, j, n := len(a)-1, len(b)-1, 0
	for i >= limit && j >= limit && a[i] == b[j] {
		i--
		j--
		n++
	}
	return n
}

func cloneScreen(s *Screen) *Screen {
	cp := &Screen{Width: s.Width, Height: s.Height, cells: make([]Cell, len(s.cells))}
	copy(cp.cells, s.cells)
	return cp
}

// CursorQuery renders the CPR (cursor position report) request string
// a caller can write and then parse a "\x1b[row;colR" reply to, for
// resynchronizing Renderer's notion of cursor position after an
// external write it didn't track (e.g. a child process's own output).
func CursorQuery() []byte { return []byte("\x1b[6n") }

// ParseCursorReport parses a "\x1b[row;colR" CPR reply, returning
// 1-based row/col.
func ParseCursorReport(s string) (row, col int, err error) {
	s = strings.TrimPrefix(s, "\x1b[")
	s = strings.TrimSuffix(s, "R")
	parts := strings.SplitN(s, ";", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("display: malformed cursor report %q", s)
	}
	row, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("display: malformed cursor report %q: %w", s, err)
	}
	col, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("display: malformed cursor report %q: %w", s, err)
	}
	return row, col, nil
}

// Resync tells the Renderer the terminal's cursor is actually at
// (row, col), 0-based, e.g. after parsing a CPR reply.
func (r *Renderer) Resync(row, col int) {
	r.cursorRow, r.cursorCol, r.haveCursor = row, col, true
}
