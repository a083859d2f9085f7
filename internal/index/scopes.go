package index

import (
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// scopeTree is a directed graph over arena IDs with an edge from each
// scope symbol to every symbol it directly encloses. Built once at
// Freeze, read-only afterwards.
type scopeTree struct {
	g graph.Graph[int, int]
}

func buildScopeTree(arena []*symbol.Symbol) (*scopeTree, error) {
	g := graph.New(func(id int) int { return id }, graph.Directed())

	for _, sym := range arena {
		if sym == nil {
			continue
		}
		if err := g.AddVertex(sym.ID); err != nil {
			return nil, err
		}
	}
	for _, sym := range arena {
		if sym == nil || sym.Scope == symbol.NoScope {
			continue
		}
		parent := sym.Scope
		if parent < 0 || parent >= len(arena) || arena[parent] == nil {
			continue
		}
		if err := g.AddEdge(parent, sym.ID); err != nil {
			return nil, err
		}
	}
	return &scopeTree{g: g}, nil
}

// members returns the direct children of a scope, sorted by position.
func (t *scopeTree) members(arena []*symbol.Symbol, id int) ([]*symbol.Symbol, error) {
	adjacency, err := t.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	var out []*symbol.Symbol
	for child := range adjacency[id] {
		if child >= 0 && child < len(arena) && arena[child] != nil {
			out = append(out, arena[child])
		}
	}
	sort.Slice(out, func(i, j int) bool { return symbol.Less(out[i], out[j]) })
	return out, nil
}

// ScopeMembers returns the direct members of every scope symbol whose
// qualified name matches, merged and sorted. Only valid on a frozen
// index.
func (ix *Index) ScopeMembers(qualifiedName string) ([]*symbol.Symbol, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if !ix.frozen {
		return nil, ErrNotFrozen
	}

	seen := make(map[int]struct{})
	var out []*symbol.Symbol
	for _, id := range ix.byQualified[qualifiedName] {
		sym := ix.arena[id]
		if sym == nil || !sym.Kind.IsScope() {
			continue
		}
		members, err := ix.scopes.members(ix.arena, id)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return symbol.Less(out[i], out[j]) })
	return out, nil
}
