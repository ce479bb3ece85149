package style

import "strconv"

// UnderlineStyle enumerates the underline variants a renderer may request.
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// attrBit indexes the boolean flags packed into Style.attrs.
type attrBit uint32

const (
	bitBold attrBit = 1 << iota
	bitFaint
	bitItalic
	bitBlink
	bitInverse
	bitConceal
	bitCrossedOut
	bitHidden
	bitKeepFg // suppress reset of foreground at style boundaries
	bitKeepBg // suppress reset of background at style boundaries
)

// ColorDepth is the number of colors a sink can render, used by ToAnsi
// to degrade RGB/256-color requests to what the target actually
// supports.
type ColorDepth int

const (
	Depth16       ColorDepth = 16
	Depth256      ColorDepth = 256
	DepthTrueColor ColorDepth = 16777216
)

// Style is a packed, comparable style value: two
// Colors plus a bitset of flags and an underline variant. Equality is
// plain struct equality (bitwise), since Color
// and the flag set are themselves comparable.
type Style struct {
	fg, bg    Color
	attrs     uint32
	underline UnderlineStyle
}

// New returns the zero Style: default colors, no attributes.
func New() Style { return Style{} }

func (s Style) has(b attrBit) bool { return uint32(b)&s.attrs != 0 }

func (s Style) with(b attrBit, v bool) Style {
	if v {
		s.attrs |= uint32(b)
	} else {
		s.attrs &^= uint32(b)
	}
	return s
}

// Foreground / Background accessors and immutable withers.
func (s Style) Foreground() Color { return s.fg }
func (s Style) Background() Color { return s.bg }

func (s Style) WithForeground(c Color) Style { s.fg = c; return s }
func (s Style) WithBackground(c Color) Style { s.bg = c; return s }

func (s Style) Bold() bool          { return s.has(bitBold) }
func (s Style) WithBold(v bool) Style { return s.with(bitBold, v) }

func (s Style) Faint() bool           { return s.has(bitFaint) }
func (s Style) WithFaint(v bool) Style { return s.with(bitFaint, v) }

func (s Style) Italic() bool           { return s.has(bitItalic) }
func (s Style) WithItalic(v bool) Style { return s.with(bitItalic, v) }

func (s Style) Blink() bool           { return s.has(bitBlink) }
func (s Style) WithBlink(v bool) Style { return s.with(bitBlink, v) }

func (s Style) Inverse() bool           { return s.has(bitInverse) }
func (s Style) WithInverse(v bool) Style { return s.with(bitInverse, v) }

func (s Style) Conceal() bool           { return s.has(bitConceal) }
func (s Style) WithConceal(v bool) Style { return s.with(bitConceal, v) }

func (s Style) CrossedOut() bool           { return s.has(bitCrossedOut) }
func (s Style) WithCrossedOut(v bool) Style { return s.with(bitCrossedOut, v) }

func (s Style) Hidden() bool           { return s.has(bitHidden) }
func (s Style) WithHidden(v bool) Style { return s.with(bitHidden, v) }

// KeepForeground / KeepBackground suppress the emission of a reset at
// a style boundary (AttributedString.ToAnsi honors this, and carries
// the previous run's color forward on a kept channel).
func (s Style) KeepForeground() bool          { return s.has(bitKeepFg) }
func (s Style) WithKeepForeground(v bool) Style { return s.with(bitKeepFg, v) }
func (s Style) KeepBackground() bool          { return s.has(bitKeepBg) }
func (s Style) WithKeepBackground(v bool) Style { return s.with(bitKeepBg, v) }

func (s Style) Underline() UnderlineStyle { return s.underline }
func (s Style) WithUnderline(u UnderlineStyle) Style { s.underline = u; return s }

// Equals reports bitwise equality.
func (s Style) Equals(o Style) bool { return s == o }

// IsZero reports whether this is the default, unstyled value.
func (s Style) IsZero() bool { return s == Style{} }

// sgrCodes returns the SGR parameter numbers (without CSI/m) needed to
// realize this style against a sink of the given color depth. A reset
// ("0") is never implicitly included; callers decide when to reset
// (display diff rendering, the top-level writer) based on KeepXxx.
func (s Style) sgrCodes(depth ColorDepth) []string {
	var codes []string
	if s.has(bitBold) {
		codes = append(codes, "1")
	}
	if s.has(bitFaint) {
		codes = append(codes, "2")
	}
	if s.has(bitItalic) {
		codes = append(codes, "3")
	}
	switch s.underline {
	case UnderlineSingle:
		codes = append(codes, "4")
	case UnderlineDouble:
		codes = append(codes, "4:2")
	case UnderlineCurly:
		codes = append(codes, "4:3")
	case UnderlineDotted:
		codes = append(codes, "4:4")
	case UnderlineDashed:
		codes = append(codes, "4:5")
	}
	if s.has(bitBlink) {
		codes = append(codes, "5")
	}
	if s.has(bitInverse) {
		codes = append(codes, "7")
	}
	if s.has(bitConceal) {
		codes = append(codes, "8")
	}
	if s.has(bitCrossedOut) {
		codes = append(codes, "9")
	}
	if s.has(bitHidden) {
		codes = append(codes, "8")
	}
	codes = append(codes, colorCodes(s.fg, depth, false)...)
	codes = append(codes, colorCodes(s.bg, depth, true)...)
	return codes
}

func colorCodes(c Color, depth ColorDepth, bg bool) []string {
	if c.IsDefault() {
		return nil
	}
	base := 30
	if bg {
		base = 40
	}
	switch c.Kind() {
	case ColorIndexed4:
		idx := int(c.Index())
		if idx < 8 {
			return []string{strconv.Itoa(base + idx)}
		}
		brightBase := 90
		if bg {
			brightBase = 100
		}
		return []string{strconv.Itoa(brightBase + idx - 8)}
	case ColorIndexed8:
		idx := c.Index()
		if depth < Depth256 {
			return colorCodes(Indexed4(down4Index(idx)), depth, bg)
		}
		kind := "38"
		if bg {
			kind = "48"
		}
		return []string{kind, "5", strconv.Itoa(int(idx))}
	case ColorRGB:
		if depth < DepthTrueColor {
			if depth < Depth256 {
				return colorCodes(c.Down16(), depth, bg)
			}
			return colorCodes(c.Down256(), depth, bg)
		}
		r, g, b := c.ToRGB()
		kind := "38"
		if bg {
			kind = "48"
		}
		return []string{kind, "2", strconv.Itoa(int(r)), strconv.Itoa(int(g)), strconv.Itoa(int(b))}
	default:
		return nil
	}
}

func down4Index(idx uint8) uint8 {
	return Indexed8(idx).Down16().Index()
}

// ToAnsi serializes this style as a complete SGR escape sequence
// ("\x1b[...m"), or the empty string if the style has no attributes
// to apply at the given depth.
func (s Style) ToAnsi(depth ColorDepth) string {
	codes := s.sgrCodes(depth)
	if len(codes) == 0 {
		return ""
	}
	out := "\x1b["
	for i, c := range codes {
		if i > 0 {
			out += ";"
		}
		out += c
	}
	return out + "m"
}
