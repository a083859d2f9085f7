package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// Test Plan for the Python Scanner:
// - Classes scope their members with the "." separator
// - Functions in class bodies are methods; top-level defs are functions
// - Class-body assignments are fields; module-level ones are variables
// - Decorated definitions resolve to the wrapped definition

const pythonSample = `
VERSION = "1.0"

class Widget:
    counter = 0

    def increment(self):
        self.counter += 1

    @staticmethod
    def reset():
        pass

def make_widget():
    return Widget()
`

func TestPythonScanner_ClassMembers(t *testing.T) {
	syms := symbolsFor(t, "python", pythonSample)

	widget := findOne(t, syms, "Widget")
	assert.Equal(t, symbol.KindType, widget.Kind)

	counter := findOne(t, syms, "Widget.counter")
	assert.Equal(t, symbol.KindField, counter.Kind)

	increment := findOne(t, syms, "Widget.increment")
	assert.Equal(t, symbol.KindMethod, increment.Kind)

	reset := findOne(t, syms, "Widget.reset")
	assert.Equal(t, symbol.KindMethod, reset.Kind, "decorated method resolves through the decorator")
}

func TestPythonScanner_ModuleLevelSymbols(t *testing.T) {
	syms := symbolsFor(t, "python", pythonSample)

	assert.Equal(t, symbol.KindVariable, findOne(t, syms, "VERSION").Kind)
	assert.Equal(t, symbol.KindFunction, findOne(t, syms, "make_widget").Kind)
}
