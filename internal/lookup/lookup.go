// Package lookup holds the immutable set/key -> count table consulted
// by the server for every request.
//
// A Table is built once at startup and never mutated afterwards, so it
// is shared by all sessions without locking.
package lookup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Table maps a set name and a key to a timestamp count.
type Table struct {
	sets map[string]map[string]int
}

// New builds a Table from sets.  The input is copied; later changes to
// it are not observed.
func New(sets map[string]map[string]int) *Table {
	t := &Table{sets: make(map[string]map[string]int, len(sets))}
	for set, keys := range sets {
		inner := make(map[string]int, len(keys))
		for k, v := range keys {
			inner[k] = v
		}
		t.sets[set] = inner
	}
	return t
}

// Parse decodes a JSON object of the form {"set": {"key": count}}.
// Counts may be zero or negative; such entries answer EMPTY.
func Parse(r io.Reader) (*Table, error) {
	var sets map[string]map[string]int
	dec := json.NewDecoder(r)
	if err := dec.Decode(&sets); err != nil {
		return nil, fmt.Errorf("lookup: decode: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("lookup: trailing data after table")
	}
	if sets == nil {
		return nil, fmt.Errorf("lookup: table is null")
	}
	return New(sets), nil
}

// Load reads and parses the table stored at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Lookup returns the count stored for set/key.  A nil Table finds
// nothing.
func (t *Table) Lookup(set, key string) (int, bool) {
	if t == nil {
		return 0, false
	}
	keys, ok := t.sets[set]
	if !ok {
		return 0, false
	}
	n, ok := keys[key]
	return n, ok
}

// Len returns the number of sets.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.sets)
}
