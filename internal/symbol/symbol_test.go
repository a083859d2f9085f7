package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Symbol Model:
// - ParseKind accepts every known kind and rejects unknown names
// - Kind.IsScope is true for namespace and type only
// - Range.Valid accepts 1-based in-order ranges and rejects the rest
// - Validate rejects missing fields and invalid spans
// - Less orders by path, then start line, then start column

func TestParseKind_AcceptsKnownKinds(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestParseKind_RejectsUnknownKind(t *testing.T) {
	_, err := ParseKind("gadget")
	assert.Error(t, err)
}

func TestKind_IsScope(t *testing.T) {
	assert.True(t, KindNamespace.IsScope())
	assert.True(t, KindType.IsScope())
	assert.False(t, KindFunction.IsScope())
	assert.False(t, KindMethod.IsScope())
	assert.False(t, KindField.IsScope())
	assert.False(t, KindVariable.IsScope())
}

func TestRange_Valid(t *testing.T) {
	assert.True(t, Range{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 2}.Valid())
	assert.True(t, Range{StartLine: 3, StartColumn: 5, EndLine: 7, EndColumn: 1}.Valid())

	// 0-based positions are invalid; ranges are 1-based.
	assert.False(t, Range{StartLine: 0, StartColumn: 1, EndLine: 1, EndColumn: 2}.Valid())
	// End before start.
	assert.False(t, Range{StartLine: 5, StartColumn: 1, EndLine: 4, EndColumn: 2}.Valid())
	assert.False(t, Range{StartLine: 2, StartColumn: 9, EndLine: 2, EndColumn: 3}.Valid())
}

func TestValidate_RejectsIncompleteSymbols(t *testing.T) {
	valid := &Symbol{
		Name:          "greet",
		QualifiedName: "util::Greeter::greet",
		Kind:          KindMethod,
		Role:          RoleDefinition,
		Language:      "cpp",
		Path:          "src/greeter.cpp",
		Span:          Range{StartLine: 4, StartColumn: 1, EndLine: 6, EndColumn: 2},
		Scope:         NoScope,
	}
	require.NoError(t, valid.Validate())

	missingName := *valid
	missingName.Name = ""
	assert.Error(t, missingName.Validate())

	badKind := *valid
	badKind.Kind = "gadget"
	assert.Error(t, badKind.Validate())

	badSpan := *valid
	badSpan.Span = Range{}
	assert.Error(t, badSpan.Validate())
}

func TestLess_OrdersByPathThenPosition(t *testing.T) {
	at := func(path string, line, col int) *Symbol {
		return &Symbol{Path: path, Span: Range{StartLine: line, StartColumn: col}}
	}

	assert.True(t, Less(at("a.cpp", 9, 9), at("b.cpp", 1, 1)))
	assert.True(t, Less(at("a.cpp", 1, 1), at("a.cpp", 2, 1)))
	assert.True(t, Less(at("a.cpp", 2, 1), at("a.cpp", 2, 5)))
	assert.False(t, Less(at("a.cpp", 2, 5), at("a.cpp", 2, 5)))
}
