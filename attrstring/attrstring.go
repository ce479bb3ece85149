// Package attrstring implements AttributedString, an immutable sequence
// of runes each carrying a style.Style, with column-width-aware slicing
// and ANSI serialization.
package attrstring

import (
	"strings"

	"github.com/phoenix-tui/vterm/style"
)

// AttributedString is an immutable styled code-point sequence. The zero
// value is the empty string.
type AttributedString struct {
	runes  []rune
	styles []style.Style
}

// New returns the empty AttributedString.
func New() AttributedString { return AttributedString{} }

// FromString builds an AttributedString where every rune of s carries
// the same style.
func FromString(s string, st style.Style) AttributedString {
	var b Builder
	b.WriteString(s, st)
	return b.Build()
}

// Len returns the number of runes (not columns, not bytes).
func (a AttributedString) Len() int { return len(a.runes) }

// RuneAt returns the rune at index i.
func (a AttributedString) RuneAt(i int) rune { return a.runes[i] }

// StyleAt returns the style of the rune at index i.
func (a AttributedString) StyleAt(i int) style.Style { return a.styles[i] }

// String returns the plain-text content, discarding style.
func (a AttributedString) String() string { return string(a.runes) }

// Append returns a new AttributedString with b's runes concatenated
// after a's. Neither operand is mutated.
func (a AttributedString) Append(b AttributedString) AttributedString {
	out := AttributedString{
		runes:  make([]rune, 0, len(a.runes)+len(b.runes)),
		styles: make([]style.Style, 0, len(a.styles)+len(b.styles)),
	}
	out.runes = append(out.runes, a.runes...)
	out.runes = append(out.runes, b.runes...)
	out.styles = append(out.styles, a.styles...)
	out.styles = append(out.styles, b.styles...)
	return out
}

// Substring returns the rune-index range [start, end).
func (a AttributedString) Substring(start, end int) AttributedString {
	if start < 0 {
		start = 0
	}
	if end > len(a.runes) {
		end = len(a.runes)
	}
	if start >= end {
		return AttributedString{}
	}
	return AttributedString{
		runes:  append([]rune(nil), a.runes[start:end]...),
		styles: append([]style.Style(nil), a.styles[start:end]...),
	}
}

// ColumnLength returns the total terminal column width of the string,
// expanding tabs against the running column as it goes.
func (a AttributedString) ColumnLength() int {
	col := 0
	for _, r := range a.runes {
		if r == '\t' {
			col += expandTab(col)
			continue
		}
		col += RuneWidth(r)
	}
	return col
}

// ColumnSubstring returns the slice of the string occupying terminal
// columns [startCol, endCol). When a cut falls in the middle of a
// wide (2-column) glyph, that glyph is dropped and the vacated columns
// on the included side are padded with spaces carrying the glyph's
// style, so the result's ColumnLength always equals endCol-startCol
// exactly (never splitting a wide rune's cells).
func (a AttributedString) ColumnSubstring(startCol, endCol int) AttributedString {
	if startCol < 0 {
		startCol = 0
	}
	if endCol < startCol {
		endCol = startCol
	}
	var b Builder
	col := 0
	for i, r := range a.runes {
		w := RuneWidth(r)
		if r == '\t' {
			w = expandTab(col)
		}
		next := col + w
		switch {
		case next <= startCol:
			// entirely before the window
		case col >= endCol:
			// entirely after the window
		case col >= startCol && next <= endCol:
			b.WriteRune(r, a.styles[i])
		default:
			// glyph straddles a boundary: pad with spaces for the
			// portion that falls inside the window.
			for c := col; c < next; c++ {
				if c >= startCol && c < endCol {
					b.WriteRune(' ', a.styles[i])
				}
			}
		}
		col = next
		if col >= endCol {
			break
		}
	}
	result := b.Build()
	if pad := (endCol - startCol) - result.ColumnLength(); pad > 0 {
		var tail Builder
		for i := 0; i < pad; i++ {
			tail.WriteRune(' ', style.New())
		}
		result = result.Append(tail.Build())
	}
	return result
}

// ToAnsi serializes the string as a sequence of SGR-prefixed runs at
// the given color depth. Adjacent runes sharing an equal style are
// coalesced into one escape sequence. Where the style changes, a reset
// is emitted first so the previous run's attributes do not carry over,
// unless the new style has KeepForeground or KeepBackground set: then
// the reset is omitted and a kept channel is re-emitted with the
// previous run's color.
func (a AttributedString) ToAnsi(depth style.ColorDepth) string {
	if len(a.runes) == 0 {
		return ""
	}
	var out strings.Builder
	active := style.New()
	runStart := 0
	flush := func(end int) {
		if runStart >= end {
			return
		}
		st := a.styles[runStart]
		if !st.Equals(active) {
			if !active.IsZero() && !st.KeepForeground() && !st.KeepBackground() {
				out.WriteString("\x1b[0m")
			}
			if code := effectiveSGR(active, st, depth); code != "" {
				out.WriteString(code)
			}
			active = st
		}
		out.WriteString(string(a.runes[runStart:end]))
	}
	for i := 1; i <= len(a.runes); i++ {
		if i == len(a.runes) || !a.styles[i].Equals(a.styles[runStart]) {
			flush(i)
			runStart = i
		}
	}
	if !active.IsZero() {
		out.WriteString("\x1b[0m")
	}
	return out.String()
}

// effectiveSGR computes the escape sequence to move from "from" to
// "to", honoring KeepForeground/KeepBackground by carrying the
// previous channel forward when the new style asks to keep it.
func effectiveSGR(from, to style.Style, depth style.ColorDepth) string {
	if to.KeepForeground() {
		to = to.WithForeground(from.Foreground())
	}
	if to.KeepBackground() {
		to = to.WithBackground(from.Background())
	}
	return to.ToAnsi(depth)
}
