package parser

import (
	"testing"

	"corec/internal/diag"
	"corec/internal/lexer"
	"corec/internal/source"
	"corec/internal/testkit"
)

func parseText(t *testing.T, text string) (*source.FileSet, source.FileID) {
	t.Helper()
	bag := diag.NewBag(256)
	fset := source.NewFileSet()
	fileID := fset.AddVirtual("unit.cc", []byte(text))
	file := fset.Get(fileID)

	toks := lexer.New(file, bag).Tokenize()
	astFile := New(toks, fileID, bag).ParseFile("unit")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	if err := testkit.CheckSpanInvariants(astFile, file); err != nil {
		t.Errorf("span invariants violated: %v", err)
	}
	_ = astFile
	return fset, fileID
}

func TestParseFunctionWithBinaryReturn(t *testing.T) {
	parseText(t, `pub fn main() -> Int { ret 2 + 40; }`)
}

func TestParseFunctionCallChain(t *testing.T) {
	parseText(t, `
fn add(a: Int, b: Int) -> Int { ret a + b; }
pub fn main() -> Int { ret add(20, 22); }`)
}

func TestParseIfElseAndVarDef(t *testing.T) {
	parseText(t, `
pub fn main() -> Int {
  Int x = 10;
  if x == 10 { ret 1; } else { ret 0; };
}`)
}

func TestParseExternDecl(t *testing.T) {
	parseText(t, `
extern fn puts(s: String) -> Int;
pub fn main() -> Int { ret puts("hi"); }`)
}

func TestParseRejectsMalformedArrow(t *testing.T) {
	bag := diag.NewBag(256)
	fset := source.NewFileSet()
	fileID := fset.AddVirtual("bad.cc", []byte(`pub fn main() > Int { ret 0; }`))
	file := fset.Get(fileID)

	toks := lexer.New(file, bag).Tokenize()
	New(toks, fileID, bag).ParseFile("unit")
	if !bag.HasErrors() {
		t.Fatal("expected a parse diagnostic for a malformed arrow, got none")
	}
}
