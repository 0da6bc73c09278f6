// Package backup snapshots the itinerary slot to a file and restores it.
//
// A snapshot is the slot's JSON array written verbatim, plus a sidecar
// "<file>.sha256" holding the SHA-256 of the content. Restore checks the
// sidecar and the record layout before it replaces the slot, so a damaged
// backup never overwrites a working itinerary.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sarawak-explorer/itinerary/internal/fsops"
	"github.com/sarawak-explorer/itinerary/internal/hash"
	"github.com/sarawak-explorer/itinerary/internal/itinerary"
	"github.com/sarawak-explorer/itinerary/internal/kv"
	"github.com/sarawak-explorer/itinerary/internal/log"
)

var (
	// ErrChecksumMismatch indicates a backup whose content does not match
	// its sidecar.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrNoChecksum indicates a backup without a sidecar.
	ErrNoChecksum = errors.New("checksum file missing")

	// ErrInvalidBackup indicates content that is not an itinerary.
	ErrInvalidBackup = errors.New("not an itinerary backup")
)

// SidecarSuffix is appended to the backup path to name the checksum file.
const SidecarSuffix = ".sha256"

// Info describes a written or restored backup.
type Info struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Entries  int    `json:"entries"`
}

// Manager copies the slot to and from backup files.
type Manager struct {
	fs     fsops.FS
	hasher hash.Hasher
}

// NewManager creates a Manager.
func NewManager(fs fsops.FS, hasher hash.Hasher) *Manager {
	return &Manager{fs: fs, hasher: hasher}
}

// Snapshot writes the slot content to path and its checksum to the
// sidecar. An absent slot is written as an empty itinerary.
func (m *Manager) Snapshot(ctx context.Context, slot *kv.Slot, path string) (Info, error) {
	data, err := slot.Read(ctx)
	if err != nil {
		if !errors.Is(err, kv.ErrNotExist) {
			return Info{}, fmt.Errorf("%w: %w", itinerary.ErrPersistence, err)
		}
		data = []byte("[]")
	}

	n, err := countRecords(data)
	if err != nil {
		return Info{}, err
	}

	sum := m.hasher.HashBytes(data)
	if err := m.fs.AtomicWrite(path, data, 0600); err != nil {
		return Info{}, fmt.Errorf("failed to write backup: %w", err)
	}
	sidecar := fmt.Sprintf("%s  %s\n", sum, filepath.Base(path))
	if err := m.fs.AtomicWrite(path+SidecarSuffix, []byte(sidecar), 0600); err != nil {
		return Info{}, fmt.Errorf("failed to write checksum: %w", err)
	}

	log.Info("backup written", "path", path, "entries", n)
	return Info{Path: path, Checksum: sum, Entries: n}, nil
}

// Verify checks path against its sidecar and returns the digest.
func (m *Manager) Verify(path string) (string, error) {
	raw, err := m.fs.ReadFile(path + SidecarSuffix)
	if err != nil {
		if exists, _ := m.fs.Exists(path + SidecarSuffix); !exists {
			return "", fmt.Errorf("%w: %s", ErrNoChecksum, path+SidecarSuffix)
		}
		return "", fmt.Errorf("failed to read checksum: %w", err)
	}
	fields := strings.Fields(string(raw))
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty checksum file", ErrChecksumMismatch)
	}

	got, err := m.hasher.HashFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to hash backup: %w", err)
	}
	if got != fields[0] {
		return "", fmt.Errorf("%w: %s", ErrChecksumMismatch, path)
	}
	return got, nil
}

// Restore replaces the slot content with the backup at path. With verify
// set the sidecar must exist and match.
func (m *Manager) Restore(ctx context.Context, slot *kv.Slot, path string, verify bool) (Info, error) {
	var sum string
	if verify {
		var err error
		if sum, err = m.Verify(path); err != nil {
			return Info{}, err
		}
	}

	data, err := m.fs.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read backup: %w", err)
	}
	n, err := countRecords(data)
	if err != nil {
		return Info{}, err
	}
	if sum == "" {
		sum = m.hasher.HashBytes(data)
	}

	if err := slot.Write(ctx, data); err != nil {
		return Info{}, fmt.Errorf("%w: %w", itinerary.ErrPersistence, err)
	}

	log.Info("backup restored", "path", path, "entries", n)
	return Info{Path: path, Checksum: sum, Entries: n}, nil
}

// countRecords checks that data is a JSON array of records with unique,
// non-empty ids and returns the record count.
func countRecords(data []byte) (int, error) {
	var records []itinerary.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r.ID == "" {
			return 0, fmt.Errorf("%w: record %d has no id", ErrInvalidBackup, i)
		}
		if seen[r.ID] {
			return 0, fmt.Errorf("%w: duplicate id %q", ErrInvalidBackup, r.ID)
		}
		seen[r.ID] = true
	}
	return len(records), nil
}
