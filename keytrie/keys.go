package keytrie

// KeyType enumerates the recognized non-rune key events.
type KeyType int

const (
	KeyRune KeyType = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEsc
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPgUp
	KeyPgDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Key is the bound value a default key Trie resolves byte sequences
// to: a key type, the literal rune for KeyRune, and whether Ctrl was
// held (inferred from the C0 control range for single bytes).
type Key struct {
	Type KeyType
	Rune rune
	Ctrl bool
}

// NewKeyTrie returns a Trie bound with the standard single-byte
// controls and the common xterm/VT100 CSI and SS3 escape sequences for
// arrows, function keys, and navigation keys. Callers can Bind
// additional application- or terminal-specific sequences (e.g. from a
// loaded capability.Table) on top of this base set.
func NewKeyTrie() *Trie[Key] {
	var t Trie[Key]

	t.Bind([]byte{0x0d}, Key{Type: KeyEnter})
	t.Bind([]byte{0x0a}, Key{Type: KeyEnter})
	t.Bind([]byte{0x7f}, Key{Type: KeyBackspace})
	t.Bind([]byte{0x08}, Key{Type: KeyBackspace})
	t.Bind([]byte{0x09}, Key{Type: KeyTab})
	t.Bind([]byte{0x1b}, Key{Type: KeyEsc})
	t.Bind([]byte{0x20}, Key{Type: KeySpace})

	for b := byte(1); b <= 26; b++ {
		switch b {
		case 0x08, 0x09, 0x0a, 0x0d:
			continue
		}
		t.Bind([]byte{b}, Key{Type: KeyRune, Rune: rune('a' + b - 1), Ctrl: true})
	}

	arrows := map[byte]KeyType{'A': KeyUp, 'B': KeyDown, 'C': KeyRight, 'D': KeyLeft, 'H': KeyHome, 'F': KeyEnd}
	for final, kt := range arrows {
		t.Bind([]byte{0x1b, '[', final}, Key{Type: kt})
	}

	ss3 := map[byte]KeyType{'P': KeyF1, 'Q': KeyF2, 'R': KeyF3, 'S': KeyF4}
	for final, kt := range ss3 {
		t.Bind([]byte{0x1b, 'O', final}, Key{Type: kt})
	}

	tilde := map[string]KeyType{
		"1": KeyHome, "2": KeyInsert, "3": KeyDelete, "4": KeyEnd,
		"5": KeyPgUp, "6": KeyPgDown,
		"15": KeyF5, "17": KeyF6, "18": KeyF7, "19": KeyF8,
		"20": KeyF9, "21": KeyF10, "23": KeyF11, "24": KeyF12,
	}
	for digits, kt := range tilde {
		seq := append([]byte{0x1b, '['}, []byte(digits)...)
		seq = append(seq, '~')
		t.Bind(seq, Key{Type: kt})
	}

	return &t
}
