// Package index holds the in-memory symbol index: an append-only arena
// of symbol records plus the name, qualified-name, and per-file lookup
// maps, and a scope tree over the arena.
//
// An index passes through two phases. While building, Ingest replaces
// whole files atomically; queries are refused. Freeze seals the index,
// after which reads need no locking discipline beyond the frozen flag
// and Ingest is refused.
package index

import (
	"errors"
	"sort"
	"sync"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

var (
	// ErrFrozen is returned by Ingest after Freeze.
	ErrFrozen = errors.New("index: frozen")

	// ErrNotFrozen is returned by read operations before Freeze.
	ErrNotFrozen = errors.New("index: not frozen")
)

// Index is the in-memory symbol index.
type Index struct {
	mu     sync.RWMutex
	frozen bool

	// arena holds every live symbol; a slot is nil once its file was
	// re-ingested. A symbol's ID is its arena position.
	arena []*symbol.Symbol

	byName      map[string][]int
	byQualified map[string][]int
	byFile      map[string][]int

	scopes *scopeTree
}

// New creates an empty, unfrozen index.
func New() *Index {
	return &Index{
		byName:      make(map[string][]int),
		byQualified: make(map[string][]int),
		byFile:      make(map[string][]int),
	}
}

// Ingest replaces the file's symbols with syms. Symbols arrive with
// Scope fields holding positions within syms, as produced by the
// normalizer; Ingest rewrites them to arena IDs. Ingesting the same
// file with the same symbols again leaves the observable index
// unchanged. A validation failure rejects the whole slice and keeps
// the file's prior symbols in place.
func (ix *Index) Ingest(path string, syms []*symbol.Symbol) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.frozen {
		return ErrFrozen
	}

	// Validate the whole slice up front so a bad record leaves the
	// file's prior contribution intact.
	for _, sym := range syms {
		if err := sym.Validate(); err != nil {
			return err
		}
	}

	ix.removeFileLocked(path)

	base := len(ix.arena)
	ids := make([]int, 0, len(syms))
	for i, sym := range syms {
		sym.ID = base + i
		if sym.Scope != symbol.NoScope {
			if sym.Scope < 0 || sym.Scope >= len(syms) {
				sym.Scope = symbol.NoScope
			} else {
				sym.Scope = base + sym.Scope
			}
		}
		ix.arena = append(ix.arena, sym)
		ix.byName[sym.Name] = append(ix.byName[sym.Name], sym.ID)
		ix.byQualified[sym.QualifiedName] = append(ix.byQualified[sym.QualifiedName], sym.ID)
		ids = append(ids, sym.ID)
	}
	if len(ids) > 0 {
		ix.byFile[path] = ids
	}
	return nil
}

// RemoveFile drops a file's symbols, for files deleted between scans.
func (ix *Index) RemoveFile(path string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.frozen {
		return ErrFrozen
	}
	ix.removeFileLocked(path)
	return nil
}

func (ix *Index) removeFileLocked(path string) {
	ids, ok := ix.byFile[path]
	if !ok {
		return
	}
	for _, id := range ids {
		sym := ix.arena[id]
		if sym == nil {
			continue
		}
		ix.byName[sym.Name] = dropID(ix.byName[sym.Name], id)
		if len(ix.byName[sym.Name]) == 0 {
			delete(ix.byName, sym.Name)
		}
		ix.byQualified[sym.QualifiedName] = dropID(ix.byQualified[sym.QualifiedName], id)
		if len(ix.byQualified[sym.QualifiedName]) == 0 {
			delete(ix.byQualified, sym.QualifiedName)
		}
		ix.arena[id] = nil
	}
	delete(ix.byFile, path)
}

func dropID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Freeze seals the index and builds the scope tree. Freezing twice is
// an error.
func (ix *Index) Freeze() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.frozen {
		return ErrFrozen
	}
	tree, err := buildScopeTree(ix.arena)
	if err != nil {
		return err
	}
	ix.scopes = tree
	ix.frozen = true
	return nil
}

// Frozen reports whether the index has been sealed.
func (ix *Index) Frozen() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.frozen
}

// Symbols returns every live symbol in canonical order: path, then
// start line, then start column.
func (ix *Index) Symbols() ([]*symbol.Symbol, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if !ix.frozen {
		return nil, ErrNotFrozen
	}
	out := make([]*symbol.Symbol, 0, len(ix.arena))
	for _, sym := range ix.arena {
		if sym != nil {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return symbol.Less(out[i], out[j]) })
	return out, nil
}

// ByName returns the symbols carrying the exact unqualified name.
func (ix *Index) ByName(name string) ([]*symbol.Symbol, error) {
	return ix.lookup(ix.byName, name)
}

// ByQualifiedName returns the symbols carrying the exact qualified name.
func (ix *Index) ByQualifiedName(name string) ([]*symbol.Symbol, error) {
	return ix.lookup(ix.byQualified, name)
}

// FileSymbols returns a file's symbols in position order.
func (ix *Index) FileSymbols(path string) ([]*symbol.Symbol, error) {
	return ix.lookup(ix.byFile, path)
}

func (ix *Index) lookup(m map[string][]int, key string) ([]*symbol.Symbol, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if !ix.frozen {
		return nil, ErrNotFrozen
	}
	ids := m[key]
	out := make([]*symbol.Symbol, 0, len(ids))
	for _, id := range ids {
		if sym := ix.arena[id]; sym != nil {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return symbol.Less(out[i], out[j]) })
	return out, nil
}

// Get returns the symbol with the given arena ID, or nil.
func (ix *Index) Get(id int) *symbol.Symbol {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if id < 0 || id >= len(ix.arena) {
		return nil
	}
	return ix.arena[id]
}

// Files lists the indexed file paths in sorted order.
func (ix *Index) Files() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]string, 0, len(ix.byFile))
	for path := range ix.byFile {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of live symbols.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := 0
	for _, sym := range ix.arena {
		if sym != nil {
			n++
		}
	}
	return n
}

// Languages lists the distinct languages present, sorted.
func (ix *Index) Languages() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, sym := range ix.arena {
		if sym != nil {
			seen[sym.Language] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
