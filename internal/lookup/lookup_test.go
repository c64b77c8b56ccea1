package lookup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	table := New(map[string]map[string]int{
		"abc":  {"123": 3, "zero": 0},
		"setB": {"k": -2},
	})

	tests := []struct {
		set, key string
		want     int
		found    bool
	}{
		{"abc", "123", 3, true},
		{"abc", "zero", 0, true},
		{"setB", "k", -2, true},
		{"abc", "999", 0, false},
		{"123", "abc", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.set+"/"+tt.key, func(t *testing.T) {
			got, ok := table.Lookup(tt.set, tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, 2, table.Len())
}

func TestNilTable(t *testing.T) {
	var table *Table
	_, ok := table.Lookup("abc", "123")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
}

func TestNew_CopiesInput(t *testing.T) {
	src := map[string]map[string]int{"abc": {"123": 3}}
	table := New(src)
	src["abc"]["123"] = 99
	src["new"] = map[string]int{"k": 1}

	got, _ := table.Lookup("abc", "123")
	assert.Equal(t, 3, got)
	_, ok := table.Lookup("new", "k")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(`{"abc": {"123": 3, "456": 1}, "xyz": {}}`))
	require.NoError(t, err)
	n, ok := table.Lookup("abc", "456")
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, table.Len())
}

func TestParse_TrailingWhitespace(t *testing.T) {
	table, err := Parse(strings.NewReader("{\"abc\": {\"123\": 3}}\n\n  "))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		``,
		`null`,
		`[1, 2]`,
		`{"abc": 3}`,
		`{"abc": {"123": "three"}}`,
		`{"abc": {"123": 1.5}}`,
		`{"abc": {"123": 3}} garbage`,
		`{"abc": {"123": 3}}}`,
		`{"abc": {"123": 3}} {"x": {}}`,
	} {
		_, err := Parse(strings.NewReader(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"abc": {"123": 3}}`), 0o600))

	table, err := Load(path)
	require.NoError(t, err)
	n, ok := table.Lookup("abc", "123")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
