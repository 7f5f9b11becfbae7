package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	v := Default()
	require.NotNil(t, v)

	names := v.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "Python", names[0])
	assert.True(t, v.Contains("react"))
	assert.True(t, v.Contains("PYTHON"))
	assert.False(t, v.Contains("Reactjs"))

	name, ok := v.Canonical(".net")
	require.True(t, ok)
	assert.Equal(t, ".NET", name)
}

func TestParse(t *testing.T) {
	v, err := Parse([]byte(`
technologies:
  - name: " Go "
    aliases: [golang, ""]
  - name: Python
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Python"}, v.Names())
	assert.Equal(t, []string{"golang"}, v.Entries()[0].Aliases)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: "technologies: []"},
		{name: "blank name", doc: "technologies: [{name: ' '}]"},
		{name: "case-insensitive duplicate", doc: "technologies: [{name: React}, {name: react}]"},
		{name: "alias shadows name", doc: "technologies: [{name: Go, aliases: [rust]}, {name: Rust}]"},
		{name: "not yaml", doc: "technologies: [unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("technologies:\n  - name: Elixir\n"), 0o600))

	v, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestEntriesIsACopy(t *testing.T) {
	v := MustNew("Python", "React")
	entries := v.Entries()
	entries[0].Name = "Mutated"
	assert.Equal(t, "Python", v.Names()[0])
}
