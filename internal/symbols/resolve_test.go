package symbols

import (
	"testing"

	"corec/internal/diag"
	"corec/internal/hir"
	"corec/internal/ids"
	"corec/internal/lexer"
	"corec/internal/parser"
	"corec/internal/source"
)

func lowerUnit(t *testing.T, text string) []*hir.File {
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
	return []*hir.File{hirFile}
}

// collectRefs gathers every Ident and Call node's NodeID reachable from
// a function body, the set Resolve is required to bind.
func collectRefs(files []*hir.File) []ids.NodeID {
	var out []ids.NodeID
	var walk func(e *hir.Expr)
	walk = func(e *hir.Expr) {
		if e == nil {
			return
		}
		switch e.Kind {
		case hir.ExprIdent, hir.ExprCall:
			out = append(out, e.ID)
		}
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
	return out
}

// TestResolveBindsEveryReference checks that Resolve produces a Def for
// every Id and Call reference reachable from a function body -- a
// SymbolMap with a gap would let the backend emit an unmangled
// reference to nothing.
func TestResolveBindsEveryReference(t *testing.T) {
	files := lowerUnit(t, `
fn add(a: Int, b: Int) -> Int { ret a + b; }
pub fn main() -> Int {
  Int x = add(1, 2);
  ret x;
}`)
	bag := diag.NewBag(256)
	m := Resolve(files, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	refs := collectRefs(files)
	if len(refs) == 0 {
		t.Fatal("collected no references -- test is vacuous")
	}
	for _, id := range refs {
		if _, ok := m.Lookup(id); !ok {
			t.Errorf("reference node %d has no binding in the symbol map", id)
		}
	}
	if m.Len() != len(refs) {
		t.Errorf("map has %d bindings, expected exactly %d references bound", m.Len(), len(refs))
	}
}

// TestResolveRejectsUndefinedReference confirms a reference to a name
// with no declaration is reported rather than silently skipped.
func TestResolveRejectsUndefinedReference(t *testing.T) {
	files := lowerUnit(t, `pub fn main() -> Int { ret missing; }`)
	bag := diag.NewBag(256)
	Resolve(files, bag)
	if !bag.HasErrors() {
		t.Fatal("expected an undefined-symbol diagnostic, got none")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaUndefinedSymbol {
			found = true
		}
	}
	if !found {
		t.Errorf("expected SemaUndefinedSymbol, got: %v", bag.Items())
	}
}

// TestResolveForwardReferencesCalls checks that a call to a function
// defined later in the same unit still resolves -- the global pass
// collects every function name before any body is walked.
func TestResolveForwardReferencesCalls(t *testing.T) {
	files := lowerUnit(t, `
pub fn main() -> Int { ret later(); }
fn later() -> Int { ret 1; }`)
	bag := diag.NewBag(256)
	m := Resolve(files, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	refs := collectRefs(files)
	if len(refs) != 1 {
		t.Fatalf("expected exactly one reference (the call to later), got %d", len(refs))
	}
	if _, ok := m.Lookup(refs[0]); !ok {
		t.Error("forward call reference was not resolved")
	}
}

// TestResolveIsIdempotent runs Resolve twice over the same lowered files
// and checks both passes bind every reference to the same target.
func TestResolveIsIdempotent(t *testing.T) {
	files := lowerUnit(t, `
fn add(a: Int, b: Int) -> Int { ret a + b; }
pub fn main() -> Int { ret add(1, 2); }`)

	bag1 := diag.NewBag(256)
	first := Resolve(files, bag1)
	bag2 := diag.NewBag(256)
	second := Resolve(files, bag2)

	refs := collectRefs(files)
	for _, id := range refs {
		d1, ok1 := first.Lookup(id)
		d2, ok2 := second.Lookup(id)
		if ok1 != ok2 || d1 != d2 {
			t.Errorf("reference %d: first pass %v/%v, second pass %v/%v", id, d1, ok1, d2, ok2)
		}
	}
}
