package compiler

import (
	"strings"
	"testing"

	"corec/internal/diag"
)

var testTarget = TargetSpec{Triple: "x86_64-linux-gnu", CPU: "generic"}

func compileOne(t *testing.T, name, text string) (*Object, *diag.Bag) {
	t.Helper()
	obj, bag, _, err := CompileUnit(name, []Source{{Name: name + ".cc", Content: []byte(text)}}, testTarget, Executable)
	if err != nil {
		t.Fatalf("CompileUnit returned an internal error: %v", err)
	}
	return obj, bag
}

func TestE1_LiteralArithmeticReturn(t *testing.T) {
	obj, bag := compileOne(t, "e1", `pub fn main() -> Int { ret 2 + 40; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if obj == nil {
		t.Fatal("expected an object, got nil")
	}
	ir := string(obj.IR)
	if !strings.Contains(ir, "define") || !strings.Contains(ir, "@main") {
		t.Errorf("expected a defined @main entry point, got:\n%s", ir)
	}
}

func TestE2_FunctionCall(t *testing.T) {
	obj, bag := compileOne(t, "e2", `
fn add(a: Int, b: Int) -> Int { ret a + b; }
pub fn main() -> Int { ret add(20, 22); }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	ir := string(obj.IR)
	if !strings.Contains(ir, "call") {
		t.Errorf("expected a call instruction for add(20, 22), got:\n%s", ir)
	}
}

func TestE3_IfElseBranchAndCompare(t *testing.T) {
	obj, bag := compileOne(t, "e3", `
pub fn main() -> Int {
  Int x = 10;
  if x == 10 { ret 1; } else { ret 0; };
}`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	ir := string(obj.IR)
	if !strings.Contains(ir, "icmp eq") {
		t.Errorf("expected an icmp eq for x == 10, got:\n%s", ir)
	}
	if !strings.Contains(ir, "br i1") {
		t.Errorf("expected a conditional branch for the if, got:\n%s", ir)
	}
}

func TestE4_RecursiveCall(t *testing.T) {
	obj, bag := compileOne(t, "e4", `
fn fact(n: Int) -> Int {
  if n == 0 { ret 1; } else { ret n * fact(n - 1); };
}
pub fn main() -> Int { ret fact(5); }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	ir := string(obj.IR)
	if strings.Count(ir, "call") == 0 {
		t.Errorf("expected fact to call itself, got:\n%s", ir)
	}
}

func TestE5_BoolCondition(t *testing.T) {
	obj, bag := compileOne(t, "e5", `
pub fn main() -> Int { Bool b = true; if b { ret 7; } else { ret 9; }; }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	ir := string(obj.IR)
	if !strings.Contains(ir, "br i1") {
		t.Errorf("expected a conditional branch over the Bool, got:\n%s", ir)
	}
}

func TestE6_TypeMismatchRejected(t *testing.T) {
	obj, bag := compileOne(t, "e6", `fn f() -> Int { ret 1.0; }`)
	if obj != nil {
		t.Fatalf("expected no object for a failing unit, got one")
	}
	if !bag.HasErrors() {
		t.Fatal("expected a TypeMismatch diagnostic, got none")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaTypeMismatch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a SemaTypeMismatch diagnostic, got: %v", bag.Items())
	}
}

func TestPrivateFunctionGetsInternalLinkage(t *testing.T) {
	obj, bag := compileOne(t, "link1", `
fn helper(x: Int) -> Int { ret x; }
pub fn main() -> Int { ret helper(1); }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	ir := string(obj.IR)
	if !strings.Contains(ir, "define internal") {
		t.Errorf("expected helper to be emitted with internal linkage, got:\n%s", ir)
	}
}

func TestPublicFunctionAndMainGetExternalLinkage(t *testing.T) {
	obj, bag := compileOne(t, "link2", `
pub fn visible(x: Int) -> Int { ret x; }
pub fn main() -> Int { ret visible(1); }`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	ir := string(obj.IR)
	if strings.Contains(ir, "define internal") {
		t.Errorf("expected no internal linkage when every function is pub, got:\n%s", ir)
	}
	if strings.Count(ir, "define ") != 2 {
		t.Errorf("expected two externally-linked define lines (main and visible), got:\n%s", ir)
	}
}

func TestModulePackRecordsExports(t *testing.T) {
	obj, bag, _, err := CompileUnit("lib", []Source{{Name: "lib.cc", Content: []byte(`
pub fn square(x: Int) -> Int { ret x * x; }
fn helper(x: Int) -> Int { ret x; }`)}}, testTarget, ModulePack)
	if err != nil {
		t.Fatalf("CompileUnit returned an internal error: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(obj.Exports) != 1 || obj.Exports[0] != "square" {
		t.Errorf("expected exports [square], got %v", obj.Exports)
	}
}
