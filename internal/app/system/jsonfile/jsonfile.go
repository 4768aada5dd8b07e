// Package jsonfile reads and writes a single JSON document on local disk.
//
// It is the filesystem side of the feedback store: the whole collection is
// one blob, read in full and rewritten in full. Writes go through a temp
// file and a rename, so a crash leaves either the old or the new document.
// There is no locking; concurrent writers race and the last rename wins.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a JSON document at a fixed path.
type File struct {
	path string
}

// New returns a File for path. Nothing is touched on disk until the first
// write.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// ReadAll returns the raw file bytes. A missing file yields (nil, nil).
func (f *File) ReadAll() ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return b, nil
}

// WriteAll replaces the file contents, creating the parent directory if it
// does not exist.
func (f *File) WriteAll(b []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Load decodes the file into v. A missing or empty file leaves v untouched
// and returns nil.
func (f *File) Load(v any) error {
	b, err := f.ReadAll()
	if err != nil || len(b) == 0 {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	return nil
}

// Save encodes v as indented JSON and writes it.
func (f *File) Save(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	return f.WriteAll(b)
}
