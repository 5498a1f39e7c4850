package sema

import (
	"testing"

	"corec/internal/diag"
	"corec/internal/hir"
	"corec/internal/types"
)

func hasTypeMismatch(bag *diag.Bag) bool {
	for _, d := range bag.Items() {
		if d.Code == diag.SemaTypeMismatch {
			return true
		}
	}
	return false
}

func TestValidateAcceptsElselessIfWhenUnitTyped(t *testing.T) {
	files, syms, bag := buildUnit(t, `
fn noop() -> Void { ret; }
pub fn main() -> Int {
  if true { noop(); };
  ret 0;
}`)
	table := types.NewTable()
	Infer(files, syms, table, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected inference diagnostics: %v", bag.Items())
	}
	Validate(files, table, bag)
	if bag.HasErrors() {
		t.Errorf("expected a Unit-typed elseless if to validate cleanly, got: %v", bag.Items())
	}
}

func TestValidateRejectsElselessIfWhenNotUnitTyped(t *testing.T) {
	files, syms, bag := buildUnit(t, `
fn maybe(b: Bool) -> Int {
  if b { 1; };
  ret 0;
}
pub fn main() -> Int { ret maybe(true); }`)
	table := types.NewTable()
	Infer(files, syms, table, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected inference diagnostics: %v", bag.Items())
	}
	Validate(files, table, bag)
	if !hasTypeMismatch(bag) {
		t.Errorf("expected a SemaTypeMismatch for a non-Unit elseless if, got: %v", bag.Items())
	}
}

func TestValidateRejectsUnitInitializerWithNoHint(t *testing.T) {
	files, syms, bag := buildUnit(t, `
fn noop() -> Void { ret; }
pub fn main() -> Int {
  Int x = noop();
  ret 0;
}`)
	// The surface grammar always attaches a type hint to a VarDef, so
	// simulate a hint-less one the way hir.Expr.VarType (TyHint{}) would
	// represent it -- the rejection must not depend on a hint being
	// present at all.
	varDef := &files[0].Decls[1].Func.Body.Exprs[0]
	if varDef.Kind != hir.ExprVarDef {
		t.Fatalf("expected the first body statement to be a VarDef, got kind %d", varDef.Kind)
	}
	varDef.VarType = hir.TyHint{}

	table := types.NewTable()
	Infer(files, syms, table, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected inference diagnostics: %v", bag.Items())
	}
	Validate(files, table, bag)
	if !hasTypeMismatch(bag) {
		t.Errorf("expected a SemaTypeMismatch for a Unit-initialized var with no hint, got: %v", bag.Items())
	}
}

func TestValidateRejectsUnitInitializerEvenWhenHintAgrees(t *testing.T) {
	// The hint (Void) agrees with the initializer's type (also Unit), so
	// the declared-vs-initialized check alone would stay silent; the
	// Unit-initializer rejection must fire independently of that check.
	files, syms, bag := buildUnit(t, `
fn noop() -> Void { ret; }
pub fn main() -> Int {
  Void x = noop();
  ret 0;
}`)
	table := types.NewTable()
	Infer(files, syms, table, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected inference diagnostics: %v", bag.Items())
	}
	Validate(files, table, bag)
	if !hasTypeMismatch(bag) {
		t.Errorf("expected a SemaTypeMismatch for a Unit-initialized var, got: %v", bag.Items())
	}
}
