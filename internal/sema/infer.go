// Package sema computes and checks the TypeTable: infer.go assigns a
// types.Type to every reachable HIR node, validate.go then rejects
// programs that type-check locally but violate a structural rule.
package sema

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/diag"
	"corec/internal/hir"
	"corec/internal/ids"
	"corec/internal/source"
	"corec/internal/symbols"
	"corec/internal/types"
)

// hintNames is the fixed set of primitive names a TyHint may spell.
var hintNames = map[string]types.Type{
	"Int":    types.Int,
	"Float":  types.Float,
	"Bool":   types.Bool,
	"Char":   types.Char,
	"String": types.String,
	"Void":   types.Unit,
	"Unit":   types.Unit,
}

// translateHint turns a source-level type hint into a concrete type.
// Unrecognized names and unresolvable array element hints resolve to
// Unresolved, which validation later rejects.
func translateHint(h hir.TyHint) types.Type {
	if h.Elem != nil {
		elem := translateHint(*h.Elem)
		if elem.IsUnresolved() {
			return types.Unresolved
		}
		return types.Array(elem, h.Size)
	}
	if t, ok := hintNames[h.Name]; ok {
		return t
	}
	return types.Unresolved
}

type inferrer struct {
	table *types.Table
	syms  *symbols.Map
	bag   *diag.Bag
}

// Infer runs the declaration pre-pass and the bottom-up inference pass
// over every file in a unit, writing every result into table.
func Infer(files []*hir.File, syms *symbols.Map, table *types.Table, bag *diag.Bag) {
	inf := &inferrer{table: table, syms: syms, bag: bag}
	for _, f := range files {
		inf.declarePass(f)
	}
	for _, f := range files {
		inf.bodyPass(f)
	}
}

// declarePass writes the declared type of every function, extern, and
// parameter, independent of any function body.
func (inf *inferrer) declarePass(f *hir.File) {
	for _, item := range f.Decls {
		switch item.Kind {
		case hir.ItemFunc:
			ret := types.Unit
			if item.Func.Result != nil {
				ret = translateHint(*item.Func.Result)
			}
			inf.table.Set(item.Func.ID, ret)
			for _, p := range item.Func.Params {
				inf.table.Set(p.ID, translateHint(p.Type))
			}
		case hir.ItemExternFunc:
			inf.table.Set(item.Extern.ID, translateHint(item.Extern.Result))
			for _, p := range item.Extern.Params {
				inf.table.Set(p.ID, translateHint(p.Type))
			}
		}
	}
}

func (inf *inferrer) bodyPass(f *hir.File) {
	for _, item := range f.Decls {
		if item.Kind == hir.ItemFunc && item.Func.Body != nil {
			inf.block(item.Func.Body)
		}
	}
}

func (inf *inferrer) block(b *hir.Block) types.Type {
	result := types.Unit
	for i := range b.Exprs {
		result = inf.expr(&b.Exprs[i])
	}
	inf.table.Set(b.ID, result)
	return result
}

func (inf *inferrer) expr(e *hir.Expr) types.Type {
	var t types.Type
	switch e.Kind {
	case hir.ExprInt:
		t = types.Int
	case hir.ExprFloat:
		t = types.Float
	case hir.ExprBool:
		t = types.Bool
	case hir.ExprString:
		t = types.String
	case hir.ExprIdent:
		t = inf.identType(e)
	case hir.ExprBlock:
		t = inf.block(e.Block)
	case hir.ExprBinary:
		t = inf.binary(e)
	case hir.ExprCall:
		t = inf.call(e)
	case hir.ExprReturn:
		t = types.Unit
		if e.ReturnValue != nil {
			t = inf.expr(e.ReturnValue)
		}
	case hir.ExprVarDef:
		t = inf.varDef(e)
	case hir.ExprIf:
		t = inf.ifExpr(e)
	default:
		t = types.Unresolved
	}
	inf.table.Set(e.ID, t)
	return t
}

func (inf *inferrer) identType(e *hir.Expr) types.Type {
	def, ok := inf.syms.Lookup(e.ID)
	if !ok {
		return types.Unresolved
	}
	return inf.typeOf(def.Target)
}

func (inf *inferrer) typeOf(id ids.NodeID) types.Type {
	if t, ok := inf.table.Get(id); ok {
		return t
	}
	return types.Unresolved
}

// isArith reports whether op takes its result type from its operands
// rather than always producing Bool.
func isArith(op ast.BinOpToken) bool {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		return true
	default:
		return false
	}
}

func (inf *inferrer) binary(e *hir.Expr) types.Type {
	lhs := inf.expr(e.Lhs)
	rhs := inf.expr(e.Rhs)
	if !lhs.Equal(rhs) {
		inf.report(diag.SemaTypeMismatch, e.Span, fmt.Sprintf("binary operand type mismatch: %s vs %s", lhs, rhs))
		if isArith(e.BinOp) {
			return types.Unresolved
		}
		return types.Bool
	}
	if isArith(e.BinOp) {
		return lhs
	}
	return types.Bool
}

func (inf *inferrer) call(e *hir.Expr) types.Type {
	for i := range e.CallArgs {
		inf.expr(&e.CallArgs[i])
	}
	def, ok := inf.syms.Lookup(e.ID)
	if !ok {
		return types.Unresolved
	}
	return inf.typeOf(def.Target)
}

func (inf *inferrer) varDef(e *hir.Expr) types.Type {
	initTy := inf.expr(e.VarInit)
	if e.VarType.Name == "" && e.VarType.Elem == nil {
		return initTy
	}
	return translateHint(e.VarType)
}

func (inf *inferrer) ifExpr(e *hir.Expr) types.Type {
	inf.expr(e.Cond)
	thenTy := inf.block(e.Then)
	if e.Else == nil {
		return thenTy
	}
	inf.expr(e.Else)
	return thenTy
}

func (inf *inferrer) report(code diag.Code, span source.Span, msg string) {
	inf.bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: code, Message: msg, Primary: span})
}
