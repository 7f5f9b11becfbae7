// Package vocabulary holds the ordered list of canonical technology names that
// free-text answers are matched against.
package vocabulary

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid is returned for empty vocabularies, blank names and duplicates.
var ErrInvalid = errors.New("invalid vocabulary")

// Entry is one canonical technology plus optional spellings that map to it.
type Entry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// Vocabulary is immutable after construction and safe to share.
type Vocabulary struct {
	entries []Entry
}

type document struct {
	Technologies []Entry `yaml:"technologies"`
}

// Default returns the vocabulary shipped with the binary.
func Default() *Vocabulary {
	v, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary: %v", err))
	}
	return v
}

// Load reads a YAML vocabulary file.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document of the form {technologies: [{name, aliases}]}.
func Parse(data []byte) (*Vocabulary, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return build(doc.Technologies)
}

// New builds a vocabulary from plain canonical names without aliases.
func New(names ...string) (*Vocabulary, error) {
	entries := make([]Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, Entry{Name: n})
	}
	return build(entries)
}

// MustNew is New for fixed inputs; it panics on error.
func MustNew(names ...string) *Vocabulary {
	v, err := New(names...)
	if err != nil {
		panic(err)
	}
	return v
}

func build(entries []Entry) (*Vocabulary, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no technologies", ErrInvalid)
	}
	seen := make(map[string]string, len(entries))
	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalid, i)
		}
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q duplicates %q", ErrInvalid, name, prev)
		}
		seen[key] = name

		aliases := make([]string, 0, len(e.Aliases))
		for _, a := range e.Aliases {
			if a = strings.TrimSpace(a); a != "" {
				aliases = append(aliases, a)
			}
		}
		out = append(out, Entry{Name: name, Aliases: aliases})
	}
	// aliases must not shadow another entry's name
	for _, e := range out {
		for _, a := range e.Aliases {
			if owner, ok := seen[strings.ToLower(a)]; ok && owner != e.Name {
				return nil, fmt.Errorf("%w: alias %q of %q is the name of %q", ErrInvalid, a, e.Name, owner)
			}
		}
	}
	return &Vocabulary{entries: out}, nil
}

// Entries returns a copy of the entries in vocabulary order.
func (v *Vocabulary) Entries() []Entry {
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Names returns the canonical names in vocabulary order.
func (v *Vocabulary) Names() []string {
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.Name
	}
	return out
}

func (v *Vocabulary) Len() int { return len(v.entries) }

// Contains reports whether name is a canonical entry (case-insensitive).
func (v *Vocabulary) Contains(name string) bool {
	_, ok := v.Canonical(name)
	return ok
}

// Canonical returns the properly-cased entry for name, ignoring case.
func (v *Vocabulary) Canonical(name string) (string, bool) {
	for _, e := range v.entries {
		if strings.EqualFold(e.Name, name) {
			return e.Name, true
		}
	}
	return "", false
}
