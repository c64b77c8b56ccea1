// Package request validates client request lines and resolves them
// against the lookup table.
package request

import (
	"regexp"
	"strings"

	"gosock/internal/lookup"
)

var pattern = regexp.MustCompile(`^[A-Za-z0-9]+-[A-Za-z0-9]+$`)

// Parsed is a request split into its set and key parts.
type Parsed struct {
	Set string
	Key string
}

// Validate reports whether raw, once surrounding whitespace is removed,
// has the form set-key with both parts alphanumeric.
func Validate(raw string) bool {
	return pattern.MatchString(strings.TrimSpace(raw))
}

// Split trims raw and splits it on the first '-'.  The key keeps any
// further dashes.  It fails when either part would be empty.
func Split(raw string) (Parsed, bool) {
	set, key, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok || set == "" || key == "" {
		return Parsed{}, false
	}
	return Parsed{Set: set, Key: key}, true
}

// Interpreter resolves requests against a table.
type Interpreter struct {
	table *lookup.Table
}

// NewInterpreter returns an Interpreter reading from table, which may
// be nil when the table failed to load; every request then misses.
func NewInterpreter(table *lookup.Table) *Interpreter {
	return &Interpreter{table: table}
}

// Resolve splits raw and looks the pair up.  It does not validate raw.
func (i *Interpreter) Resolve(raw string) (int, bool) {
	p, ok := Split(raw)
	if !ok {
		return 0, false
	}
	return i.table.Lookup(p.Set, p.Key)
}
