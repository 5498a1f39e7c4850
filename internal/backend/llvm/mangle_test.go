package llvm

import (
	"testing"

	"corec/internal/hir"
	"corec/internal/types"
)

func TestLinkNameUnmangledForMainAndExtern(t *testing.T) {
	if got := linkName("u", "main", false, types.Int, nil); got != "main" {
		t.Errorf("main: got %q, want %q", got, "main")
	}
	if got := linkName("u", "puts", true, types.Int, []types.Type{types.Int}); got != "puts" {
		t.Errorf("extern: got %q, want %q", got, "puts")
	}
}

func TestMangleInjective(t *testing.T) {
	cases := []struct {
		unit, name string
		ret        types.Type
		params     []types.Type
	}{
		{"a", "f", types.Int, nil},
		{"a", "f", types.Float, nil},
		{"a", "g", types.Int, nil},
		{"b", "f", types.Int, nil},
		{"a", "f", types.Int, []types.Type{types.Int}},
		{"a", "f", types.Int, []types.Type{types.Float}},
		{"a", "f", types.Int, []types.Type{types.Int, types.Bool}},
	}

	seen := make(map[string]int)
	for i, c := range cases {
		name := mangle(c.unit, c.name, c.ret, c.params)
		if prev, ok := seen[name]; ok {
			t.Errorf("mangle collision: case %d and %d both produced %q", prev, i, name)
		}
		seen[name] = i
	}
}

func TestLinkageKeywordPrivateFunctionIsInternal(t *testing.T) {
	fn := &hir.Func{Name: "helper"}
	if got := linkageKeyword(fn, funcInfo{vis: hir.Private}); got != " internal" {
		t.Errorf("private helper: got %q, want %q", got, " internal")
	}
}

func TestLinkageKeywordPublicFunctionIsExternal(t *testing.T) {
	fn := &hir.Func{Name: "helper"}
	if got := linkageKeyword(fn, funcInfo{vis: hir.Public}); got != "" {
		t.Errorf("public helper: got %q, want %q", got, "")
	}
}

func TestLinkageKeywordMainIsAlwaysExternal(t *testing.T) {
	fn := &hir.Func{Name: "main"}
	if got := linkageKeyword(fn, funcInfo{vis: hir.Private}); got != "" {
		t.Errorf("private main: got %q, want %q", got, "")
	}
}

func TestMangleDeterministic(t *testing.T) {
	a := mangle("u", "f", types.Int, []types.Type{types.Bool, types.Char})
	b := mangle("u", "f", types.Int, []types.Type{types.Bool, types.Char})
	if a != b {
		t.Errorf("mangle not deterministic: %q != %q", a, b)
	}
}
