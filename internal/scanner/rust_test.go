package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/symgrep/internal/symbol"
)

// Test Plan for the Rust Scanner:
// - mod opens a scope; struct fields qualify through the module
// - impl items attribute to the implemented type without impl itself
//   becoming a symbol
// - associated functions without a receiver stay functions; methods
//   take self
// - traits scope their items; signatures are declarations
// - consts and statics are variables

const rustSample = `
mod geometry {
    pub struct Widget {
        pub value: i64,
    }

    impl Widget {
        pub fn new() -> Self {
            Widget { value: 0 }
        }

        pub fn increment(&mut self) {
            self.value += 1;
        }
    }

    pub trait Drawable {
        fn draw(&self);
        fn clear(&self) {}
    }

    pub const MAX_WIDGETS: usize = 16;
}

pub enum Shape { Circle, Square }

pub fn area(s: &Shape) -> f64 { 0.0 }

static ORIGIN: i32 = 0;
`

func TestRustScanner_ModuleAndStruct(t *testing.T) {
	syms := symbolsFor(t, "rust", rustSample)

	geo := findOne(t, syms, "geometry")
	assert.Equal(t, symbol.KindNamespace, geo.Kind)

	widget := findOne(t, syms, "geometry::Widget")
	assert.Equal(t, symbol.KindType, widget.Kind)

	value := findOne(t, syms, "geometry::Widget::value")
	assert.Equal(t, symbol.KindField, value.Kind)
}

func TestRustScanner_ImplItemsAttributeToType(t *testing.T) {
	syms := symbolsFor(t, "rust", rustSample)

	// No symbol for the impl block itself.
	assert.Empty(t, findAll(syms, "geometry::impl"))

	newFn := findOne(t, syms, "geometry::Widget::new")
	assert.Equal(t, symbol.KindFunction, newFn.Kind, "no receiver, stays a function")

	increment := findOne(t, syms, "geometry::Widget::increment")
	assert.Equal(t, symbol.KindMethod, increment.Kind)
	assert.Equal(t, symbol.RoleDefinition, increment.Role)
}

func TestRustScanner_TraitItems(t *testing.T) {
	syms := symbolsFor(t, "rust", rustSample)

	drawable := findOne(t, syms, "geometry::Drawable")
	assert.Equal(t, symbol.KindType, drawable.Kind)

	draw := findOne(t, syms, "geometry::Drawable::draw")
	assert.Equal(t, symbol.RoleDeclaration, draw.Role)

	clear := findOne(t, syms, "geometry::Drawable::clear")
	assert.Equal(t, symbol.RoleDefinition, clear.Role)
}

func TestRustScanner_TopLevelItems(t *testing.T) {
	syms := symbolsFor(t, "rust", rustSample)

	assert.Equal(t, symbol.KindVariable, findOne(t, syms, "geometry::MAX_WIDGETS").Kind)
	assert.Equal(t, symbol.KindType, findOne(t, syms, "Shape").Kind)
	assert.Equal(t, symbol.KindFunction, findOne(t, syms, "area").Kind)
	assert.Equal(t, symbol.KindVariable, findOne(t, syms, "ORIGIN").Kind)
}
