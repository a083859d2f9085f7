package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

const (
	fileMetaName    = "meta.json"
	fileFilesName   = "files.json"
	fileSymbolsName = "symbols.jsonl"
)

// fileBackend persists the index as plain files in the index directory:
// meta.json, files.json, and one symbol per line in symbols.jsonl.
// State lives in memory and every mutation rewrites the affected file,
// so a crash between operations leaves a readable store.
type fileBackend struct {
	dir   string
	meta  *Meta
	files map[string]*FileInfo
	syms  map[string][]*symbol.Symbol
}

// symbolLine is the symbols.jsonl record: the symbol plus its file.
type symbolLine struct {
	Path string `json:"path"`
	symbol.Symbol
}

// OpenFile opens or creates a plain-file store in dir.
func OpenFile(dir string) (Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create index dir: %w", err)
	}

	b := &fileBackend{
		dir:   dir,
		files: make(map[string]*FileInfo),
		syms:  make(map[string][]*symbol.Symbol),
	}
	if err := b.load(); err != nil {
		return nil, err
	}
	if b.meta != nil && b.meta.SchemaVersion != SchemaVersion {
		return nil, ErrSchemaMismatch
	}
	return b, nil
}

func (b *fileBackend) load() error {
	metaRaw, err := os.ReadFile(filepath.Join(b.dir, fileMetaName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("store: read meta: %w", err)
	}
	var meta Meta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return fmt.Errorf("store: parse meta: %w", err)
	}
	b.meta = &meta

	filesRaw, err := os.ReadFile(filepath.Join(b.dir, fileFilesName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: read file list: %w", err)
	}
	if len(filesRaw) > 0 {
		var files []*FileInfo
		if err := json.Unmarshal(filesRaw, &files); err != nil {
			return fmt.Errorf("store: parse file list: %w", err)
		}
		for _, f := range files {
			b.files[f.Path] = f
		}
	}

	symsFile, err := os.Open(filepath.Join(b.dir, fileSymbolsName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: read symbols: %w", err)
	}
	defer symsFile.Close()

	sc := bufio.NewScanner(symsFile)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec symbolLine
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("store: parse symbol line: %w", err)
		}
		sym := rec.Symbol
		sym.Path = rec.Path
		b.syms[rec.Path] = append(b.syms[rec.Path], &sym)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("store: read symbols: %w", err)
	}
	return nil
}

func (b *fileBackend) Kind() string { return "file" }

func (b *fileBackend) Meta() (*Meta, error) {
	if b.meta == nil {
		return nil, nil
	}
	m := *b.meta
	return &m, nil
}

func (b *fileBackend) SaveMeta(m *Meta) error {
	copied := *m
	b.meta = &copied
	return b.writeJSON(fileMetaName, b.meta)
}

func (b *fileBackend) ListFiles() ([]*FileInfo, error) {
	out := make([]*FileInfo, 0, len(b.files))
	for _, f := range b.files {
		copied := *f
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (b *fileBackend) GetFileByPath(path string) (*FileInfo, error) {
	f, ok := b.files[path]
	if !ok {
		return nil, nil
	}
	copied := *f
	return &copied, nil
}

func (b *fileBackend) UpsertFile(f *FileInfo) error {
	copied := *f
	b.files[f.Path] = &copied
	return b.flushFiles()
}

func (b *fileBackend) RemoveFileByPath(path string) error {
	delete(b.files, path)
	delete(b.syms, path)
	if err := b.flushFiles(); err != nil {
		return err
	}
	return b.flushSymbols()
}

func (b *fileBackend) SetFileSymbols(path string, syms []*symbol.Symbol) error {
	copied := make([]*symbol.Symbol, len(syms))
	for i, sym := range syms {
		s := *sym
		copied[i] = &s
	}
	b.syms[path] = copied
	return b.flushSymbols()
}

func (b *fileBackend) FileSymbols(path string) ([]*symbol.Symbol, error) {
	syms := b.syms[path]
	out := make([]*symbol.Symbol, len(syms))
	for i, sym := range syms {
		s := *sym
		out[i] = &s
	}
	return out, nil
}

func (b *fileBackend) Close() error { return nil }

func (b *fileBackend) flushFiles() error {
	files, _ := b.ListFiles()
	return b.writeJSON(fileFilesName, files)
}

func (b *fileBackend) flushSymbols() error {
	paths := make([]string, 0, len(b.syms))
	for path := range b.syms {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	tmp := filepath.Join(b.dir, fileSymbolsName+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("store: write symbols: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, path := range paths {
		for _, sym := range b.syms[path] {
			if err := enc.Encode(symbolLine{Path: path, Symbol: *sym}); err != nil {
				_ = f.Close()
				return fmt.Errorf("store: write symbols: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("store: write symbols: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: write symbols: %w", err)
	}
	return os.Rename(tmp, filepath.Join(b.dir, fileSymbolsName))
}

func (b *fileBackend) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", name, err)
	}
	tmp := filepath.Join(b.dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	return os.Rename(tmp, filepath.Join(b.dir, name))
}
