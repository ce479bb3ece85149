package attrstring

import (
	"strconv"
	"strings"

	"github.com/phoenix-tui/vterm/style"
)

// ParseAnsi decodes a string containing SGR escape sequences
// interleaved with plain text into an AttributedString, applying each
// SGR run's parameters cumulatively the way a real terminal would.
// Sequences this package doesn't recognize are dropped rather than
// treated as literal text; malformed trailing escapes are discarded.
func ParseAnsi(s string) AttributedString {
	var b Builder
	st := style.New()
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		if runes[i] == 0x1b && i+1 < len(runes) && runes[i+1] == '[' {
			j := i + 2
			for j < len(runes) && !isSGRFinal(runes[j]) {
				j++
			}
			if j < len(runes) && runes[j] == 'm' {
				st = applySGR(st, string(runes[i+2:j]))
				i = j + 1
				continue
			}
			// Not SGR (or malformed): skip the whole sequence.
			if j < len(runes) {
				i = j + 1
			} else {
				i = len(runes)
			}
			continue
		}
		b.WriteRune(runes[i], st)
		i++
	}
	return b.Build()
}

func isSGRFinal(r rune) bool {
	return r >= 0x40 && r <= 0x7e
}

func applySGR(st style.Style, params string) style.Style {
	if params == "" {
		return style.New()
	}
	parts := strings.Split(params, ";")
	for idx := 0; idx < len(parts); idx++ {
		n, err := strconv.Atoi(parts[idx])
		if err != nil {
			continue
		}
		switch n {
		case 0:
			st = style.New()
		case 1:
			st = st.WithBold(true)
		case 2:
			st = st.WithFaint(true)
		case 3:
			st = st.WithItalic(true)
		case 4:
			st = st.WithUnderline(style.UnderlineSingle)
		case 5:
			st = st.WithBlink(true)
		case 7:
			st = st.WithInverse(true)
		case 8:
			st = st.WithConceal(true)
		case 9:
			st = st.WithCrossedOut(true)
		case 22:
			st = st.WithBold(false).WithFaint(false)
		case 23:
			st = st.WithItalic(false)
		case 24:
			st = st.WithUnderline(style.UnderlineNone)
		case 25:
			st = st.WithBlink(false)
		case 27:
			st = st.WithInverse(false)
		case 28:
			st = st.WithConceal(false)
		case 29:
			st = st.WithCrossedOut(false)
		case 38, 48:
			c, consumed := parseExtendedColor(parts[idx+1:])
			idx += consumed
			if n == 38 {
				st = st.WithForeground(c)
			} else {
				st = st.WithBackground(c)
			}
		case 39:
			st = st.WithForeground(style.Default)
		case 49:
			st = st.WithBackground(style.Default)
		default:
			if n >= 30 && n <= 37 {
				st = st.WithForeground(style.Indexed4(uint8(n - 30)))
			} else if n >= 40 && n <= 47 {
				st = st.WithBackground(style.Indexed4(uint8(n - 40)))
			} else if n >= 90 && n <= 97 {
				st = st.WithForeground(style.Indexed4(uint8(n - 90 + 8)))
			} else if n >= 100 && n <= 107 {
				st = st.WithBackground(style.Indexed4(uint8(n - 100 + 8)))
			}
		}
	}
	return st
}

// parseExtendedColor parses the parameters following a 38 or 48 code
// ("5;n" or "2;r;g;b") and returns the color plus how many extra
// parameters it consumed.
func parseExtendedColor(rest []string) (style.Color, int) {
	if len(rest) == 0 {
		return style.Default, 0
	}
	mode, err := strconv.Atoi(rest[0])
	if err != nil {
		return style.Default, 0
	}
	switch mode {
	case 5:
		if len(rest) < 2 {
			return style.Default, 1
		}
		n, err := strconv.Atoi(rest[1])
		if err != nil {
			return style.Default, 1
		}
		return style.Indexed8(uint8(n)), 2
	case 2:
		if len(rest) < 4 {
			return style.Default, len(rest)
		}
		r, _ := strconv.Atoi(rest[1])
		g, _ := strconv.Atoi(rest[2])
		bl, _ := strconv.Atoi(rest[3])
		return style.RGB(uint8(r), uint8(g), uint8(bl)), 4
	default:
		return style.Default, 0
	}
}
