package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/symgrep/internal/query"
)

// Test Plan for Full-Text Search:
// - Builds from a frozen index only
// - Token matches rank symbols by relevance
// - Limit caps the hit count
// - No-match queries return empty, not an error

func TestFullText_RankedSearch(t *testing.T) {
	ix := buildIndex(t)
	ft, err := query.NewFullText(ix)
	require.NoError(t, err)
	defer ft.Close()

	results, err := ft.Search("increment", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, sym := range results {
		assert.Equal(t, "increment", sym.Name)
	}
}

func TestFullText_LimitAndNoMatches(t *testing.T) {
	ix := buildIndex(t)
	ft, err := query.NewFullText(ix)
	require.NoError(t, err)
	defer ft.Close()

	limited, err := ft.Search("widget", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(limited), 1)

	none, err := ft.Search("nonexistentsymbolname", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
