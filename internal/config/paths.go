// Package config manages itinerary configuration and filesystem paths.
//
// The default root is ~/.itinerary/ containing config.yaml, the file-backed
// slots under data/, the sqlite database and default backups. ITINERARY_ROOT
// moves the whole tree.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides the root directory.
const RootEnv = "ITINERARY_ROOT"

// Paths contains all the filesystem paths used by the itinerary.
type Paths struct {
	// Root is the base directory (default: ~/.itinerary)
	Root string

	// Data is the directory of the file storage backend
	Data string

	// DB is the sqlite database file
	DB string

	// Backups is the default directory for backups
	Backups string

	// Config is the path to the config file
	Config string

	// Env is an optional dotenv file loaded before the config
	Env string
}

// DefaultPaths returns the default paths.
// Paths can be overridden with environment variables:
// - ITINERARY_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".itinerary")
	}
	return PathsAt(root), nil
}

// PathsAt returns the layout under root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:    root,
		Data:    filepath.Join(root, "data"),
		DB:      filepath.Join(root, "itinerary.db"),
		Backups: filepath.Join(root, "backups"),
		Config:  filepath.Join(root, "config.yaml"),
		Env:     filepath.Join(root, ".env"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Data,
		p.Backups,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
