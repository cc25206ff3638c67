// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact stores fetched response bodies in named file slots.
// Each write replaces the slot's previous content; there is no history.
package artifact

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/catalog-pipeline/pkg/types"
)

// Info describes the current content of a slot.
type Info struct {
	Slot    types.Slot
	Path    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
}

// ListingLine renders the slot the way `ls -l` reports a file: mode, size,
// path. It is diagnostic output only.
func (i Info) ListingLine() string {
	return fmt.Sprintf("%s %d %s", i.Mode.String(), i.Size, i.Path)
}

// Store is a small set of named artifact slots.
type Store interface {
	// Write replaces the content of slot with data.
	Write(slot types.Slot, data []byte) (Info, error)

	// Read returns the content of slot. A slot never written returns an
	// error wrapping fs.ErrNotExist.
	Read(slot types.Slot) ([]byte, error)

	// Stat describes slot without reading it.
	Stat(slot types.Slot) (Info, error)

	// Path returns the location the loader should be given for slot.
	Path(slot types.Slot) string
}

// DirStore keeps each slot as <dir>/<prefix>_<slot>.json.
type DirStore struct {
	dir    string
	prefix string
}

// NewDirStore returns a store rooted at dir. The directory is created on the
// first write.
func NewDirStore(dir, prefix string) *DirStore {
	return &DirStore{dir: dir, prefix: prefix}
}

// Dir returns the store's root directory.
func (s *DirStore) Dir() string { return s.dir }

func (s *DirStore) Path(slot types.Slot) string {
	return filepath.Join(s.dir, slot.FileName(s.prefix))
}

// Write stores data via a temporary file renamed into place, so a slot holds
// either the previous body or the new one, never a partial write.
func (s *DirStore) Write(slot types.Slot, data []byte) (Info, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Info{}, fmt.Errorf("creating directory %s: %w", s.dir, err)
	}
	dest := s.Path(slot)

	tmpFile, err := os.CreateTemp(s.dir, ".artifact-*.tmp")
	if err != nil {
		return Info{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return Info{}, fmt.Errorf("writing %s: %w", slot, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return Info{}, fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return Info{}, fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return Info{}, fmt.Errorf("renaming temp file: %w", err)
	}
	return s.Stat(slot)
}

func (s *DirStore) Read(slot types.Slot) ([]byte, error) {
	data, err := os.ReadFile(s.Path(slot))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", slot, err)
	}
	return data, nil
}

func (s *DirStore) Stat(slot types.Slot) (Info, error) {
	path := s.Path(slot)
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", slot, err)
	}
	return Info{
		Slot:    slot,
		Path:    path,
		Size:    fi.Size(),
		Mode:    fi.Mode(),
		ModTime: fi.ModTime(),
	}, nil
}

// MemStore holds slots in memory. Tests substitute it for DirStore.
type MemStore struct {
	// Root is the directory Path reports. Nothing is written there.
	Root  string
	slots map[types.Slot]memEntry
}

type memEntry struct {
	data    []byte
	modTime time.Time
}

// NewMemStore returns an empty in-memory store reporting paths under root.
func NewMemStore(root string) *MemStore {
	return &MemStore{Root: root, slots: make(map[types.Slot]memEntry)}
}

func (m *MemStore) Path(slot types.Slot) string {
	return filepath.Join(m.Root, string(slot)+".json")
}

func (m *MemStore) Write(slot types.Slot, data []byte) (Info, error) {
	buf := make([]byte, len(data))
	copy(buf, data)
	m.slots[slot] = memEntry{data: buf, modTime: time.Now()}
	return m.Stat(slot)
}

func (m *MemStore) Read(slot types.Slot) ([]byte, error) {
	e, ok := m.slots[slot]
	if !ok {
		return nil, fmt.Errorf("reading %s: %w", slot, fs.ErrNotExist)
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

func (m *MemStore) Stat(slot types.Slot) (Info, error) {
	e, ok := m.slots[slot]
	if !ok {
		return Info{}, fmt.Errorf("stat %s: %w", slot, fs.ErrNotExist)
	}
	return Info{
		Slot:    slot,
		Path:    m.Path(slot),
		Size:    int64(len(e.data)),
		Mode:    0o644,
		ModTime: e.modTime,
	}, nil
}
