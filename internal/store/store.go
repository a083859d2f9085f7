// Package store persists a symbol index between runs. Two backends
// implement the same contract: a sqlite database and a plain-file
// layout under the index directory. Both record per-file metadata
// (size and mtime) so a later scan can skip unchanged files.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mvp-joe/symgrep/internal/index"
	"github.com/mvp-joe/symgrep/internal/symbol"
)

// SchemaVersion is bumped whenever the persisted layout changes in a
// way old readers cannot handle. A mismatch means reindex from scratch.
const SchemaVersion = 1

// ErrSchemaMismatch is returned when opening a store written by an
// incompatible version.
var ErrSchemaMismatch = fmt.Errorf("store: schema version mismatch (want %d)", SchemaVersion)

// ErrRootMismatch is returned when updating an index that was built
// for a different root.
var ErrRootMismatch = errors.New("store: index root mismatch")

// Meta describes the index as a whole.
type Meta struct {
	SchemaVersion int       `json:"schema_version"`
	RootPath      string    `json:"root_path"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FileInfo is the per-file bookkeeping used for change detection.
type FileInfo struct {
	Path      string    `json:"path"`
	Language  string    `json:"language"`
	Size      int64     `json:"size"`
	MTime     time.Time `json:"mtime"`
	IndexedAt time.Time `json:"indexed_at"`
}

// Changed reports whether on-disk size or mtime differ from the
// recorded ones.
func (f *FileInfo) Changed(size int64, mtime time.Time) bool {
	return f.Size != size || !f.MTime.Equal(mtime)
}

// Backend is the persistence contract. Symbols are stored per file with
// Scope fields relative to the file's own symbol slice, exactly as the
// normalizer produces them; SetFileSymbols replaces a file's records
// wholesale.
type Backend interface {
	// Kind names the backend ("sqlite" or "file").
	Kind() string

	// Meta returns the stored metadata, or nil when the store is new.
	Meta() (*Meta, error)
	SaveMeta(m *Meta) error

	ListFiles() ([]*FileInfo, error)
	GetFileByPath(path string) (*FileInfo, error)
	UpsertFile(f *FileInfo) error

	// RemoveFileByPath drops a file and its symbols.
	RemoveFileByPath(path string) error

	SetFileSymbols(path string, syms []*symbol.Symbol) error
	FileSymbols(path string) ([]*symbol.Symbol, error)

	Close() error
}

// TouchMeta advances the metadata timestamps, creating fresh metadata
// for a new store. Updating metadata recorded for a different root is
// an error, not a silent rebase.
func TouchMeta(m *Meta, rootPath string, now time.Time) (*Meta, error) {
	if m == nil {
		return &Meta{
			SchemaVersion: SchemaVersion,
			RootPath:      rootPath,
			CreatedAt:     now,
			UpdatedAt:     now,
		}, nil
	}
	if m.RootPath != rootPath {
		return nil, fmt.Errorf("%w: index was built for %s, not %s", ErrRootMismatch, m.RootPath, rootPath)
	}
	m.UpdatedAt = now
	return m, nil
}

// Open creates or opens a backend of the given kind rooted at dir.
func Open(kind, dir string) (Backend, error) {
	switch kind {
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "index.db"))
	case "file", "":
		return OpenFile(dir)
	}
	return nil, fmt.Errorf("store: unknown backend %q", kind)
}

// Load rebuilds a frozen in-memory index from a backend.
func Load(b Backend) (*index.Index, error) {
	files, err := b.ListFiles()
	if err != nil {
		return nil, err
	}

	ix := index.New()
	for _, f := range files {
		syms, err := b.FileSymbols(f.Path)
		if err != nil {
			return nil, err
		}
		if err := ix.Ingest(f.Path, syms); err != nil {
			return nil, err
		}
	}
	if err := ix.Freeze(); err != nil {
		return nil, err
	}
	return ix, nil
}
