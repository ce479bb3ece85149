// Package vterm is a cross-platform terminal I/O core: capability
// negotiation, raw-mode line discipline, decoded keyboard/mouse/focus
// input, styled output, and a diff-rendering display engine, targeting
// POSIX ttys, VT-capable Windows consoles, and legacy Windows consoles.
//
// The package is organized leaf-first: style and attrstring hold the
// styled-text model, capability holds the terminfo-style database and
// tputs evaluator, keytrie holds the escape-sequence trie and reader,
// termattr models termios-equivalent line-discipline state, term ties
// these into the polymorphic Terminal handle (with wininput, winconsole,
// and linediscipline as its platform-specific supporting packages), and
// display implements the diff renderer sitting between application
// frames and a Terminal's writer.
package vterm
