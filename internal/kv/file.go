package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sarawak-explorer/itinerary/internal/fsops"
)

// File stores each key as <dir>/<key>.json.
type File struct {
	fs  fsops.FS
	dir string
}

// NewFile creates a File store rooted at dir.
func NewFile(fs fsops.FS, dir string) *File {
	return &File{fs: fs, dir: dir}
}

func (f *File) path(key string) (string, error) {
	if err := f.fs.ValidateIdentifier(key); err != nil {
		return "", fmt.Errorf("invalid key: %w", err)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get reads the key's file.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	data, err := f.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Put writes the key's file atomically.
func (f *File) Put(_ context.Context, key string, value []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := f.fs.AtomicWrite(path, value, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Delete removes the key's file.
func (f *File) Delete(_ context.Context, key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := f.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

func (f *File) Close() error {
	return nil
}
