package attrstring

import (
	"unicode"

	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// TabStop is the column width an unexpanded tab advances to:
// advance to the next multiple of 8.
const TabStop = 8

// RuneWidth returns the terminal column width of a single code point:
// a tab counts as a full TabStop (callers that know the current column
// expand it themselves), combining marks and other C0/C1 control
// characters are 0 columns, everything else follows East-Asian-width
// rules via uniwidth.
func RuneWidth(r rune) int {
	if r == '\t' {
		return TabStop
	}
	if r < 0x20 || (r >= 0x7f && r < 0xa0) {
		return 0
	}
	if unicode.In(r, unicode.Mn, unicode.Me) {
		return 0
	}
	return uniwidth.RuneWidth(r)
}

// StringWidth sums RuneWidth over every grapheme cluster in s,
// treating each cluster's width as the width of its base rune. A tab
// counts as TabStop columns wherever it falls; AttributedString's
// ColumnLength expands tabs against the running column instead.
func StringWidth(s string) int {
	width := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		width += clusterWidth(gr.Runes())
	}
	return width
}

func clusterWidth(runes []rune) int {
	if len(runes) == 0 {
		return 0
	}
	return RuneWidth(runes[0])
}

// expandTab returns the number of columns consumed by a tab character
// starting at column `col`.
func expandTab(col int) int {
	return TabStop - (col % TabStop)
}
