package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// Test Plan for the C++ Scanner:
// - Namespaces, classes, enums, functions, methods, fields, variables
// - Method declared in-class and defined out-of-line yields two records
//   sharing one qualified name with distinct roles
// - Qualifier written on an out-of-line definition is appended to the
//   lexical scope: a Greeter::greet body inside namespace util
//   qualifies as util::Greeter::greet
// - Fully qualified file-scope definitions resolve the same way
// - Forward declarations carry the declaration role and open no scope
// - Malformed input degrades to fewer symbols, never a failure

const cppSample = `
namespace util {

class Widget {
public:
    void increment();
    int value;
};

class Parser;

struct Greeter {
    void greet();
};

void Greeter::greet() {}

enum Color { Red, Green };

int add(int a, int b) {
    return a + b;
}

} // namespace util

void util::Widget::increment() {}

static int counter = 0;

double multiply(double x, double y);
`

func TestCppScanner_QualifiesNestedSymbols(t *testing.T) {
	syms := symbolsFor(t, "cpp", cppSample)

	ns := findOne(t, syms, "util")
	assert.Equal(t, symbol.KindNamespace, ns.Kind)

	widget := findOne(t, syms, "util::Widget")
	assert.Equal(t, symbol.KindType, widget.Kind)
	assert.Equal(t, symbol.RoleDefinition, widget.Role)

	value := findOne(t, syms, "util::Widget::value")
	assert.Equal(t, symbol.KindField, value.Kind)

	color := findOne(t, syms, "util::Color")
	assert.Equal(t, symbol.KindType, color.Kind)

	add := findOne(t, syms, "util::add")
	assert.Equal(t, symbol.KindFunction, add.Kind)
	assert.Equal(t, symbol.RoleDefinition, add.Role)
}

func TestCppScanner_OutOfLineDefinitionKeepsDeclarationRecord(t *testing.T) {
	syms := symbolsFor(t, "cpp", cppSample)

	records := findAll(syms, "util::Widget::increment")
	require.Len(t, records, 2)

	roles := map[symbol.Role]bool{}
	for _, r := range records {
		assert.Equal(t, symbol.KindMethod, r.Kind)
		roles[r.Role] = true
	}
	assert.True(t, roles[symbol.RoleDeclaration], "in-class prototype missing")
	assert.True(t, roles[symbol.RoleDefinition], "out-of-line body missing")
}

func TestCppScanner_QualifierAppendsToLexicalScope(t *testing.T) {
	syms := symbolsFor(t, "cpp", cppSample)

	// Greeter::greet defined inside namespace util.
	records := findAll(syms, "util::Greeter::greet")
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, symbol.KindMethod, r.Kind)
	}
}

func TestCppScanner_ForwardDeclarationIsDeclarationRole(t *testing.T) {
	syms := symbolsFor(t, "cpp", cppSample)

	parser := findOne(t, syms, "util::Parser")
	assert.Equal(t, symbol.RoleDeclaration, parser.Role)
}

func TestCppScanner_FileScopeSymbols(t *testing.T) {
	syms := symbolsFor(t, "cpp", cppSample)

	counter := findOne(t, syms, "counter")
	assert.Equal(t, symbol.KindVariable, counter.Kind)

	multiply := findOne(t, syms, "multiply")
	assert.Equal(t, symbol.KindFunction, multiply.Kind)
	assert.Equal(t, symbol.RoleDeclaration, multiply.Role)
}

func TestCppScanner_SpansAreOneBased(t *testing.T) {
	syms := symbolsFor(t, "cpp", "int add(int a, int b) { return a + b; }")

	add := findOne(t, syms, "add")
	assert.Equal(t, 1, add.Span.StartLine)
	assert.Equal(t, 1, add.Span.StartColumn)
}

func TestCppScanner_RecoversAfterMalformedRegion(t *testing.T) {
	src := `
int before() { return 1; }

class } Broken {{;

int after() { return 2; }
`
	syms := symbolsFor(t, "cpp", src)

	assert.NotEmpty(t, findAll(syms, "before"))
	assert.NotEmpty(t, findAll(syms, "after"))
}

func TestCppScanner_EmptyInputYieldsNoSymbols(t *testing.T) {
	assert.Empty(t, symbolsFor(t, "cpp", ""))
}
