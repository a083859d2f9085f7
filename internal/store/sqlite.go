package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	schema_version INTEGER NOT NULL,
	root_path TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL UNIQUE,
	language TEXT NOT NULL,
	size INTEGER NOT NULL,
	mtime TIMESTAMP NOT NULL,
	indexed_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	ordinal INTEGER NOT NULL,
	name TEXT NOT NULL,
	qualified_name TEXT NOT NULL,
	kind TEXT NOT NULL,
	role TEXT NOT NULL,
	language TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	start_col INTEGER NOT NULL,
	end_line INTEGER NOT NULL,
	end_col INTEGER NOT NULL,
	scope INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_qualified ON symbols(qualified_name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id);
`

// sqliteBackend persists the index in a single sqlite database with
// WAL journaling. Symbol rows keep their per-file ordinal so Scope
// back-references survive a round trip.
type sqliteBackend struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (Backend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create index dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	b := &sqliteBackend{db: db}
	meta, err := b.Meta()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if meta != nil && meta.SchemaVersion != SchemaVersion {
		_ = db.Close()
		return nil, ErrSchemaMismatch
	}
	return b, nil
}

func (b *sqliteBackend) Kind() string { return "sqlite" }

func (b *sqliteBackend) Meta() (*Meta, error) {
	row := sq.Select("schema_version", "root_path", "created_at", "updated_at").
		From("meta").
		Where(sq.Eq{"id": 1}).
		RunWith(b.db).
		QueryRow()

	var m Meta
	err := row.Scan(&m.SchemaVersion, &m.RootPath, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read meta: %w", err)
	}
	return &m, nil
}

func (b *sqliteBackend) SaveMeta(m *Meta) error {
	_, err := sq.Insert("meta").
		Columns("id", "schema_version", "root_path", "created_at", "updated_at").
		Values(1, m.SchemaVersion, m.RootPath, m.CreatedAt, m.UpdatedAt).
		Suffix("ON CONFLICT(id) DO UPDATE SET schema_version=excluded.schema_version, root_path=excluded.root_path, updated_at=excluded.updated_at").
		RunWith(b.db).
		Exec()
	if err != nil {
		return fmt.Errorf("store: save meta: %w", err)
	}
	return nil
}

func (b *sqliteBackend) ListFiles() ([]*FileInfo, error) {
	rows, err := sq.Select("path", "language", "size", "mtime", "indexed_at").
		From("files").
		OrderBy("path").
		RunWith(b.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("store: list files: %w", err)
	}
	defer rows.Close()

	var out []*FileInfo
	for rows.Next() {
		var f FileInfo
		if err := rows.Scan(&f.Path, &f.Language, &f.Size, &f.MTime, &f.IndexedAt); err != nil {
			return nil, fmt.Errorf("store: scan file row: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (b *sqliteBackend) GetFileByPath(path string) (*FileInfo, error) {
	row := sq.Select("path", "language", "size", "mtime", "indexed_at").
		From("files").
		Where(sq.Eq{"path": path}).
		RunWith(b.db).
		QueryRow()

	var f FileInfo
	err := row.Scan(&f.Path, &f.Language, &f.Size, &f.MTime, &f.IndexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read file row: %w", err)
	}
	return &f, nil
}

func (b *sqliteBackend) UpsertFile(f *FileInfo) error {
	_, err := sq.Insert("files").
		Columns("path", "language", "size", "mtime", "indexed_at").
		Values(f.Path, f.Language, f.Size, f.MTime, f.IndexedAt).
		Suffix("ON CONFLICT(path) DO UPDATE SET language=excluded.language, size=excluded.size, mtime=excluded.mtime, indexed_at=excluded.indexed_at").
		RunWith(b.db).
		Exec()
	if err != nil {
		return fmt.Errorf("store: upsert file %s: %w", f.Path, err)
	}
	return nil
}

func (b *sqliteBackend) RemoveFileByPath(path string) error {
	_, err := sq.Delete("files").
		Where(sq.Eq{"path": path}).
		RunWith(b.db).
		Exec()
	if err != nil {
		return fmt.Errorf("store: remove file %s: %w", path, err)
	}
	return nil
}

func (b *sqliteBackend) SetFileSymbols(path string, syms []*symbol.Symbol) error {
	var fileID int64
	row := sq.Select("id").From("files").Where(sq.Eq{"path": path}).RunWith(b.db).QueryRow()
	if err := row.Scan(&fileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("store: set symbols for unknown file %s", path)
		}
		return fmt.Errorf("store: resolve file %s: %w", path, err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := sq.Delete("symbols").Where(sq.Eq{"file_id": fileID}).RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("store: clear symbols for %s: %w", path, err)
	}

	for i, sym := range syms {
		_, err := sq.Insert("symbols").
			Columns("file_id", "ordinal", "name", "qualified_name", "kind", "role", "language",
				"start_line", "start_col", "end_line", "end_col", "scope").
			Values(fileID, i, sym.Name, sym.QualifiedName, string(sym.Kind), string(sym.Role), sym.Language,
				sym.Span.StartLine, sym.Span.StartColumn, sym.Span.EndLine, sym.Span.EndColumn, sym.Scope).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("store: insert symbol %s: %w", sym.QualifiedName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit symbols for %s: %w", path, err)
	}
	return nil
}

func (b *sqliteBackend) FileSymbols(path string) ([]*symbol.Symbol, error) {
	rows, err := sq.Select("s.name", "s.qualified_name", "s.kind", "s.role", "s.language",
		"s.start_line", "s.start_col", "s.end_line", "s.end_col", "s.scope").
		From("symbols s").
		Join("files f ON f.id = s.file_id").
		Where(sq.Eq{"f.path": path}).
		OrderBy("s.ordinal").
		RunWith(b.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("store: load symbols for %s: %w", path, err)
	}
	defer rows.Close()

	var out []*symbol.Symbol
	for rows.Next() {
		var (
			sym        symbol.Symbol
			kind, role string
		)
		if err := rows.Scan(&sym.Name, &sym.QualifiedName, &kind, &role, &sym.Language,
			&sym.Span.StartLine, &sym.Span.StartColumn, &sym.Span.EndLine, &sym.Span.EndColumn, &sym.Scope); err != nil {
			return nil, fmt.Errorf("store: scan symbol row: %w", err)
		}
		sym.Kind = symbol.Kind(kind)
		sym.Role = symbol.Role(role)
		sym.Path = path
		out = append(out, &sym)
	}
	return out, rows.Err()
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
