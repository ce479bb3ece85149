// Package capability implements a terminfo-style capability database: a
// Table of boolean/numeric/string capabilities per terminal type, and
// Tputs, a parameterized-string evaluator implementing the standard
// terminfo %-operator grammar.
package capability

import (
	"fmt"

	"github.com/phoenix-tui/vterm"
)

// Table holds one terminal type's capability set, mirroring the shape
// infocmp prints: booleans present/absent, numeric values, and
// parameterized string templates.
type Table struct {
	Name    string
	Aliases []string
	Bools   map[string]bool
	Nums    map[string]int
	Strings map[string]string
}

// newTable returns an empty, ready-to-populate Table.
func newTable(name string) *Table {
	return &Table{
		Name:    name,
		Bools:   make(map[string]bool),
		Nums:    make(map[string]int),
		Strings: make(map[string]string),
	}
}

// GetFlag reports a boolean capability's value, defaulting to false.
func (t *Table) GetFlag(name string) bool { return t.Bools[name] }

// GetNum returns a numeric capability's value and whether it was set.
func (t *Table) GetNum(name string) (int, bool) {
	v, ok := t.Nums[name]
	return v, ok
}

// GetString returns a string capability's raw (unevaluated) template
// and whether it was set.
func (t *Table) GetString(name string) (string, bool) {
	v, ok := t.Strings[name]
	return v, ok
}

// ErrCapabilityAbsent is returned by Tputs when asked to evaluate a
// capability the table doesn't define. Unwraps to vterm.ErrCapabilityAbsent
// so callers can test for it with errors.Is while still getting the
// missing capability's Name via errors.As.
type ErrCapabilityAbsent struct{ Name string }

func (e ErrCapabilityAbsent) Error() string {
	return fmt.Sprintf("capability: no such capability %q", e.Name)
}

func (e ErrCapabilityAbsent) Unwrap() error { return vterm.ErrCapabilityAbsent }

// Tputs looks up capability name in the table, evaluates it against
// params using the terminfo %-operator grammar, and returns the
// resulting byte string. Padding directives are stripped, not
// simulated; pacing is left to the caller.
func (t *Table) Tputs(name string, params ...int) (string, error) {
	raw, ok := t.Strings[name]
	if !ok {
		return "", ErrCapabilityAbsent{Name: name}
	}
	return Tparm(raw, params...)
}
