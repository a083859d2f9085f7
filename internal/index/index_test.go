package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/symgrep/internal/index"
	"github.com/mvp-joe/symgrep/internal/symbol"
)

// Test Plan for the Index:
// - Ingest refuses a frozen index; reads refuse an unfrozen one
// - Re-ingesting a file replaces its symbols wholesale
// - A slice with an invalid record is rejected whole; the file's prior
//   symbols stay queryable and removable
// - Lookups by name, qualified name, and file
// - Results order by (path, line, column) regardless of ingest order
// - RemoveFile drops a file's symbols from every map
// - Scope back-references survive ingest and feed ScopeMembers

func sym(path, name, qualified string, kind symbol.Kind, line, scope int) *symbol.Symbol {
	return &symbol.Symbol{
		Name:          name,
		QualifiedName: qualified,
		Kind:          kind,
		Role:          symbol.RoleDefinition,
		Language:      "cpp",
		Path:          path,
		Span:          symbol.Range{StartLine: line, StartColumn: 1, EndLine: line, EndColumn: 10},
		Scope:         scope,
	}
}

func widgetFile(path string) []*symbol.Symbol {
	return []*symbol.Symbol{
		sym(path, "util", "util", symbol.KindNamespace, 1, symbol.NoScope),
		sym(path, "Widget", "util::Widget", symbol.KindType, 2, 0),
		sym(path, "increment", "util::Widget::increment", symbol.KindMethod, 3, 1),
		sym(path, "value", "util::Widget::value", symbol.KindField, 4, 1),
	}
}

func TestIndex_FreezeGatesReadsAndWrites(t *testing.T) {
	ix := index.New()

	_, err := ix.Symbols()
	assert.ErrorIs(t, err, index.ErrNotFrozen)
	_, err = ix.ByName("x")
	assert.ErrorIs(t, err, index.ErrNotFrozen)

	require.NoError(t, ix.Ingest("a.cpp", widgetFile("a.cpp")))
	require.NoError(t, ix.Freeze())
	assert.True(t, ix.Frozen())

	assert.ErrorIs(t, ix.Ingest("b.cpp", widgetFile("b.cpp")), index.ErrFrozen)
	assert.ErrorIs(t, ix.Freeze(), index.ErrFrozen)

	syms, err := ix.Symbols()
	require.NoError(t, err)
	assert.Len(t, syms, 4)
}

func TestIndex_ReingestReplacesFile(t *testing.T) {
	ix := index.New()
	require.NoError(t, ix.Ingest("a.cpp", widgetFile("a.cpp")))

	// The file shrank to a single symbol.
	require.NoError(t, ix.Ingest("a.cpp", []*symbol.Symbol{
		sym("a.cpp", "add", "add", symbol.KindFunction, 1, symbol.NoScope),
	}))
	require.NoError(t, ix.Freeze())

	assert.Equal(t, 1, ix.Len())

	byOld, err := ix.ByQualifiedName("util::Widget")
	require.NoError(t, err)
	assert.Empty(t, byOld)

	byNew, err := ix.ByName("add")
	require.NoError(t, err)
	assert.Len(t, byNew, 1)
}

func TestIndex_IngestRejectsInvalidSliceWhole(t *testing.T) {
	ix := index.New()
	require.NoError(t, ix.Ingest("a.cpp", widgetFile("a.cpp")))

	invalid := sym("a.cpp", "broken", "broken", symbol.KindFunction, 9, symbol.NoScope)
	invalid.Span.EndLine = 0 // fails validation
	err := ix.Ingest("a.cpp", []*symbol.Symbol{
		sym("a.cpp", "fine", "fine", symbol.KindFunction, 1, symbol.NoScope),
		invalid,
	})
	require.Error(t, err)

	require.NoError(t, ix.Freeze())

	// The failed ingest changed nothing: the prior contribution is
	// intact and nothing from the rejected slice leaked in.
	assert.Equal(t, 4, ix.Len())
	prior, lookupErr := ix.ByQualifiedName("util::Widget")
	require.NoError(t, lookupErr)
	assert.Len(t, prior, 1)
	leaked, lookupErr := ix.ByName("fine")
	require.NoError(t, lookupErr)
	assert.Empty(t, leaked)
}

func TestIndex_OrderIndependentOfIngestOrder(t *testing.T) {
	forward := index.New()
	require.NoError(t, forward.Ingest("a.cpp", widgetFile("a.cpp")))
	require.NoError(t, forward.Ingest("b.cpp", widgetFile("b.cpp")))
	require.NoError(t, forward.Freeze())

	reverse := index.New()
	require.NoError(t, reverse.Ingest("b.cpp", widgetFile("b.cpp")))
	require.NoError(t, reverse.Ingest("a.cpp", widgetFile("a.cpp")))
	require.NoError(t, reverse.Freeze())

	fwd, err := forward.Symbols()
	require.NoError(t, err)
	rev, err := reverse.Symbols()
	require.NoError(t, err)

	require.Equal(t, len(fwd), len(rev))
	for i := range fwd {
		assert.Equal(t, fwd[i].QualifiedName, rev[i].QualifiedName)
		assert.Equal(t, fwd[i].Path, rev[i].Path)
	}
}

func TestIndex_LookupsByNameQualifiedAndFile(t *testing.T) {
	ix := index.New()
	require.NoError(t, ix.Ingest("a.cpp", widgetFile("a.cpp")))
	require.NoError(t, ix.Ingest("b.cpp", widgetFile("b.cpp")))
	require.NoError(t, ix.Freeze())

	byName, err := ix.ByName("increment")
	require.NoError(t, err)
	assert.Len(t, byName, 2, "one per file")

	byQualified, err := ix.ByQualifiedName("util::Widget::value")
	require.NoError(t, err)
	assert.Len(t, byQualified, 2)

	fileSyms, err := ix.FileSymbols("a.cpp")
	require.NoError(t, err)
	assert.Len(t, fileSyms, 4)

	assert.Equal(t, []string{"a.cpp", "b.cpp"}, ix.Files())
	assert.Equal(t, []string{"cpp"}, ix.Languages())
}

func TestIndex_RemoveFile(t *testing.T) {
	ix := index.New()
	require.NoError(t, ix.Ingest("a.cpp", widgetFile("a.cpp")))
	require.NoError(t, ix.Ingest("b.cpp", widgetFile("b.cpp")))
	require.NoError(t, ix.RemoveFile("a.cpp"))
	require.NoError(t, ix.Freeze())

	assert.Equal(t, 4, ix.Len())
	assert.Equal(t, []string{"b.cpp"}, ix.Files())

	byName, err := ix.ByName("increment")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "b.cpp", byName[0].Path)
}

func TestIndex_ScopeMembers(t *testing.T) {
	ix := index.New()
	require.NoError(t, ix.Ingest("a.cpp", widgetFile("a.cpp")))
	require.NoError(t, ix.Freeze())

	members, err := ix.ScopeMembers("util::Widget")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "util::Widget::increment", members[0].QualifiedName)
	assert.Equal(t, "util::Widget::value", members[1].QualifiedName)

	top, err := ix.ScopeMembers("util")
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "util::Widget", top[0].QualifiedName)

	// Not a scope kind: no members.
	none, err := ix.ScopeMembers("util::Widget::increment")
	require.NoError(t, err)
	assert.Empty(t, none)
}
