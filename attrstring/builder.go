package attrstring

import "github.com/phoenix-tui/vterm/style"

// Builder accumulates runes and their styles into an AttributedString.
// The zero value is ready to use.
type Builder struct {
	runes  []rune
	styles []style.Style
}

// WriteRune appends a single rune with the given style.
func (b *Builder) WriteRune(r rune, st style.Style) {
	b.runes = append(b.runes, r)
	b.styles = append(b.styles, st)
}

// WriteString appends every rune of s, all carrying st.
func (b *Builder) WriteString(s string, st style.Style) {
	for _, r := range s {
		b.WriteRune(r, st)
	}
}

// WriteAttributed appends an existing AttributedString's runes and
// styles verbatim.
func (b *Builder) WriteAttributed(a AttributedString) {
	b.runes = append(b.runes, a.runes...)
	b.styles = append(b.styles, a.styles...)
}

// Len reports the number of runes written so far.
func (b *Builder) Len() int { return len(b.runes) }

// Build finalizes the builder into an AttributedString. The builder
// remains usable afterward; Build copies its backing slices.
func (b *Builder) Build() AttributedString {
	return AttributedString{
		runes:  append([]rune(nil), b.runes...),
		styles: append([]style.Style(nil), b.styles...),
	}
}

// Reset empties the builder for reuse.
func (b *Builder) Reset() {
	b.runes = b.runes[:0]
	b.styles = b.styles[:0]
}
