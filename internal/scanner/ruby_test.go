package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// Test Plan for the Ruby Scanner:
// - Modules are namespaces, classes are types, both use "::"
// - Methods in class bodies are methods; top-level defs are functions
// - Constants are variables at top level, fields inside a class
// - A reopened class with a written qualifier (class Store::Cart)
//   attributes through the qualifier

const rubySample = `
module Store
  class Cart
    LIMIT = 50

    def add(item)
      @items << item
    end

    def self.empty
      new
    end
  end
end

class Store::Order
  def total
    0
  end
end

def checkout(cart)
  cart
end

TAX_RATE = 0.2
`

func TestRubyScanner_ModuleAndClassMembers(t *testing.T) {
	syms := symbolsFor(t, "ruby", rubySample)

	store := findOne(t, syms, "Store")
	assert.Equal(t, symbol.KindNamespace, store.Kind)

	cart := findOne(t, syms, "Store::Cart")
	assert.Equal(t, symbol.KindType, cart.Kind)

	assert.Equal(t, symbol.KindField, findOne(t, syms, "Store::Cart::LIMIT").Kind)
	assert.Equal(t, symbol.KindMethod, findOne(t, syms, "Store::Cart::add").Kind)
	assert.Equal(t, symbol.KindMethod, findOne(t, syms, "Store::Cart::empty").Kind)
}

func TestRubyScanner_ReopenedClassWithQualifier(t *testing.T) {
	syms := symbolsFor(t, "ruby", rubySample)

	order := findOne(t, syms, "Store::Order")
	assert.Equal(t, symbol.KindType, order.Kind)

	total := findOne(t, syms, "Store::Order::total")
	assert.Equal(t, symbol.KindMethod, total.Kind)
}

func TestRubyScanner_TopLevelSymbols(t *testing.T) {
	syms := symbolsFor(t, "ruby", rubySample)

	assert.Equal(t, symbol.KindFunction, findOne(t, syms, "checkout").Kind)
	assert.Equal(t, symbol.KindVariable, findOne(t, syms, "TAX_RATE").Kind)
}
