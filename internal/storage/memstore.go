package storage

import (
	"os"

	"github.com/hpungsan/roster/internal/errors"
)

// MemStore keeps files in memory. It is meant for tests and for callers
// that need the repository layer without touching disk.
type MemStore struct {
	files map[string][]string

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
	// Saves counts successful Save calls.
	Saves int
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string][]string)}
}

// Put stores lines under name, replacing any previous content.
func (m *MemStore) Put(name string, lines ...string) {
	m.files[name] = copyLines(lines)
}

// Get returns the stored lines of name and whether it exists.
func (m *MemStore) Get(name string) ([]string, bool) {
	lines, ok := m.files[name]
	return copyLines(lines), ok
}

// Load returns a copy of the stored lines.
func (m *MemStore) Load(name string) ([]string, error) {
	lines, ok := m.files[name]
	if !ok {
		return nil, errors.NewIO("read", name, os.ErrNotExist)
	}
	return copyLines(lines), nil
}

// Save stores a copy of lines.
func (m *MemStore) Save(name string, lines []string) error {
	if m.SaveErr != nil {
		return errors.NewIO("write", name, m.SaveErr)
	}
	m.files[name] = copyLines(lines)
	m.Saves++
	return nil
}

func copyLines(lines []string) []string {
	if lines == nil {
		return nil
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
