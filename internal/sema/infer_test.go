package sema

import (
	"testing"

	"corec/internal/diag"
	"corec/internal/hir"
	"corec/internal/ids"
	"corec/internal/lexer"
	"corec/internal/parser"
	"corec/internal/source"
	"corec/internal/symbols"
	"corec/internal/types"
)

// buildUnit runs text through lex/parse/lower/resolve and returns the
// lowered files and symbol map, ready for Infer. It fails the test on
// any diagnostic raised before inference -- these tests exercise
// inference and validation themselves, not the earlier stages.
func buildUnit(t *testing.T, text string) ([]*hir.File, *symbols.Map, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(256)
	fset := source.NewFileSet()
	fileID := fset.AddVirtual("unit.cc", []byte(text))
	file := fset.Get(fileID)

	toks := lexer.New(file, bag).Tokenize()
	astFile := parser.New(toks, fileID, bag).ParseFile("unit")
	if bag.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %v", bag.Items())
	}

	var alloc ids.Allocator
	hirFile, errs := hir.Lower(astFile, &alloc)
	if len(errs) > 0 {
		t.Fatalf("unexpected lowering errors: %v", errs)
	}
	files := []*hir.File{hirFile}

	syms := symbols.Resolve(files, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected resolution diagnostics: %v", bag.Items())
	}

	return files, syms, bag
}

// TestInferCoversEveryReachableNode exercises the property that once
// inference completes, every node reachable from a function body has a
// recorded type -- no expression is left untyped.
func TestInferCoversEveryReachableNode(t *testing.T) {
	files, syms, bag := buildUnit(t, `
fn add(a: Int, b: Int) -> Int { ret a + b; }
pub fn main() -> Int {
  Int x = add(1, 2);
  if x == 3 { ret x; } else { ret 0; };
}`)
	table := types.NewTable()
	Infer(files, syms, table, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected inference diagnostics: %v", bag.Items())
	}

	var walked int
	var walk func(e *hir.Expr)
	walk = func(e *hir.Expr) {
		if e == nil {
			return
		}
		if _, ok := table.Get(e.ID); !ok {
			t.Errorf("node %d (kind %d) has no recorded type", e.ID, e.Kind)
		}
		walked++
		walk(e.Lhs)
		walk(e.Rhs)
		walk(e.ReturnValue)
		walk(e.VarInit)
		walk(e.Cond)
		walk(e.Else)
		for i := range e.CallArgs {
			walk(&e.CallArgs[i])
		}
		if e.Block != nil {
			for i := range e.Block.Exprs {
				walk(&e.Block.Exprs[i])
			}
		}
		if e.Then != nil {
			for i := range e.Then.Exprs {
				walk(&e.Then.Exprs[i])
			}
		}
	}
	for _, f := range files {
		for _, item := range f.Decls {
			if item.Kind == hir.ItemFunc {
				for i := range item.Func.Body.Exprs {
					walk(&item.Func.Body.Exprs[i])
				}
			}
		}
	}
	if walked == 0 {
		t.Fatal("walk visited no expressions -- test is vacuous")
	}
	if !table.AllResolved() {
		t.Errorf("table has unresolved entries after a successful inference pass: %v", table.Unresolved())
	}
}

// TestBinaryOperandsMustAgreeAndComparisonsYieldBool checks that a
// Binary node requires its operand types to match, and that comparison
// operators produce a Bool result (used as an If condition without a
// separate coercion).
func TestBinaryOperandsMustAgreeAndComparisonsYieldBool(t *testing.T) {
	files, syms, bag := buildUnit(t, `
pub fn main() -> Int {
  if 1 == 2 { ret 1; } else { ret 0; };
}`)
	table := types.NewTable()
	Infer(files, syms, table, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected inference diagnostics: %v", bag.Items())
	}

	ifExpr := files[0].Decls[0].Func.Body.Exprs[0]
	condTy := table.MustGet(ifExpr.Cond.ID)
	if !condTy.Equal(types.Bool) {
		t.Errorf("expected the == comparison to type as Bool, got %s", condTy)
	}

	lhsTy := table.MustGet(ifExpr.Cond.Lhs.ID)
	rhsTy := table.MustGet(ifExpr.Cond.Rhs.ID)
	if !lhsTy.Equal(rhsTy) {
		t.Errorf("expected binary operands to agree in type, got %s and %s", lhsTy, rhsTy)
	}
}

// TestMismatchedBinaryOperandsRejected confirms a Binary node whose
// operands disagree in type is reported rather than silently coerced.
func TestMismatchedBinaryOperandsRejected(t *testing.T) {
	files, syms, bag := buildUnit(t, `pub fn main() -> Int { ret 1 + 1.0; }`)
	table := types.NewTable()
	Infer(files, syms, table, bag)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for Int + Float, got none")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaTypeMismatch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected SemaTypeMismatch, got: %v", bag.Items())
	}
}

// TestInferIsIdempotent runs Infer twice over the same lowered files and
// symbol map, each into a fresh table, and checks both tables hold the
// same number of entries and the same type for every top-level body
// expression.
func TestInferIsIdempotent(t *testing.T) {
	files, syms, bag := buildUnit(t, `
fn add(a: Int, b: Int) -> Int { ret a + b; }
pub fn main() -> Int { ret add(1, 2); }`)

	first := types.NewTable()
	Infer(files, syms, first, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics on first pass: %v", bag.Items())
	}

	second := types.NewTable()
	bag2 := diag.NewBag(256)
	Infer(files, syms, second, bag2)
	if bag2.HasErrors() {
		t.Fatalf("unexpected diagnostics on second pass: %v", bag2.Items())
	}

	if first.Len() != second.Len() {
		t.Fatalf("pass lengths differ: %d vs %d", first.Len(), second.Len())
	}
	for _, f := range files {
		for _, item := range f.Decls {
			if item.Kind != hir.ItemFunc {
				continue
			}
			checkExprsMatch(t, item.Func.Body.Exprs, first, second)
		}
	}
}

func checkExprsMatch(t *testing.T, exprs []hir.Expr, a, b *types.Table) {
	t.Helper()
	for i := range exprs {
		e := &exprs[i]
		ta, oka := a.Get(e.ID)
		tb, okb := b.Get(e.ID)
		if oka != okb || (oka && !ta.Equal(tb)) {
			t.Errorf("node %d: first pass %v/%v, second pass %v/%v", e.ID, ta, oka, tb, okb)
		}
	}
}
