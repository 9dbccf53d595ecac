// Package store writes run artifacts into the output directory.
package store

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

type Store struct {
	fs  afero.Fs
	dir string
}

func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

type Artifact struct {
	Name string
	Data []byte
}

// WriteAll replaces every artifact as a set: each one goes to a temp file
// first, and the targets are only renamed into place once all temp files
// are written. It returns the final paths in argument order.
func (s *Store) WriteAll(artifacts ...Artifact) ([]string, error) {
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.dir, err)
	}
	paths := make([]string, len(artifacts))
	temps := make([]string, 0, len(artifacts))
	cleanup := func() {
		for _, tempFile := range temps {
			_ = s.fs.Remove(tempFile)
		}
	}
	for i, a := range artifacts {
		paths[i] = filepath.Join(s.dir, a.Name)
		tempFile := paths[i] + ".tmp"
		if err := afero.WriteFile(s.fs, tempFile, a.Data, 0644); err != nil {
			_ = s.fs.Remove(tempFile)
			cleanup()
			return nil, fmt.Errorf("write %s: %w", tempFile, err)
		}
		temps = append(temps, tempFile)
	}
	for i, tempFile := range temps {
		if err := s.fs.Rename(tempFile, paths[i]); err != nil {
			temps = temps[i:]
			cleanup()
			return nil, fmt.Errorf("rename %s: %w", tempFile, err)
		}
	}
	return paths, nil
}
