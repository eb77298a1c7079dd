// Package storage is the boundary between the table model and the files that
// back it: load a file as text lines, persist text lines as a file.
package storage

import (
	"bufio"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/hpungsan/roster/internal/errors"
)

// maxLineBytes bounds a single line read from a table file.
const maxLineBytes = 1024 * 1024

// filePerm is applied to table files created by Save.
const filePerm = 0644

// Store loads and persists the text lines of named files.
type Store interface {
	Load(name string) ([]string, error)
	Save(name string, lines []string) error
}

// FileStore reads and writes files in a directory.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the absolute-or-relative path of name inside the store.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Load reads every line of the named file. The handle is closed before
// Load returns, including when reading fails part way.
func (s *FileStore) Load(name string) ([]string, error) {
	path := s.Path(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return lines, nil
}

// Save replaces the named file with lines, one per line with a trailing newline.
// The write goes to a temp file in the same directory that is renamed into
// place, so a failed write leaves the previous content intact.
func (s *FileStore) Save(name string, lines []string) error {
	path := s.Path(name)

	_, statErr := os.Stat(path)
	created := stderrors.Is(statErr, os.ErrNotExist)

	content := strings.Join(lines, "\n") + "\n"
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return errors.NewIO("write", path, err)
	}

	// atomic.WriteFile leaves new files with temp-file permissions
	if created {
		if err := os.Chmod(path, filePerm); err != nil {
			return errors.NewIO("chmod", path, err)
		}
	}
	return nil
}
