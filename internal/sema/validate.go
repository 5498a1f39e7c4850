package sema

import (
	"fmt"

	"corec/internal/diag"
	"corec/internal/hir"
	"corec/internal/types"
)

// Validate rejects programs that inferred successfully but violate a
// structural rule: a function's body type must match its declared
// return type, binary operands must agree, a VarDef's hint must match
// its initializer, an If's branches must agree and its condition must
// be Bool, and no TypeTable entry may still be Unresolved.
func Validate(files []*hir.File, table *types.Table, bag *diag.Bag) {
	v := &validator{table: table, bag: bag}
	for _, f := range files {
		for _, item := range f.Decls {
			if item.Kind == hir.ItemFunc && item.Func.Body != nil {
				v.checkFunc(item.Func)
			}
		}
	}
	for _, f := range files {
		for _, item := range f.Decls {
			if item.Kind == hir.ItemFunc && item.Func.Body != nil {
				v.walkBlock(item.Func.Body)
			}
		}
	}
	for _, id := range table.Unresolved() {
		v.report(diag.SemaUnresolvedType, func() string { return fmt.Sprintf("node %d has unresolved type", id) }())
	}
}

type validator struct {
	table *types.Table
	bag   *diag.Bag
}

func (v *validator) checkFunc(fn *hir.Func) {
	declared := v.table.MustGet(fn.ID)
	actual := v.table.MustGet(fn.Body.ID)
	if !declared.Equal(actual) {
		v.report(diag.SemaTypeMismatch, fmt.Sprintf(
			"function %q returns %s but its body has type %s", fn.Name, declared, actual))
	}
}

func (v *validator) walkBlock(b *hir.Block) {
	for i := range b.Exprs {
		v.walkExpr(&b.Exprs[i])
	}
}

func (v *validator) walkExpr(e *hir.Expr) {
	switch e.Kind {
	case hir.ExprBinary:
		v.walkExpr(e.Lhs)
		v.walkExpr(e.Rhs)
		lhs := v.table.MustGet(e.Lhs.ID)
		rhs := v.table.MustGet(e.Rhs.ID)
		if !lhs.Equal(rhs) {
			v.report(diag.SemaTypeMismatch, fmt.Sprintf("operand type mismatch: %s vs %s", lhs, rhs))
		}
	case hir.ExprCall:
		for i := range e.CallArgs {
			v.walkExpr(&e.CallArgs[i])
		}
	case hir.ExprBlock:
		v.walkBlock(e.Block)
	case hir.ExprReturn:
		if e.ReturnValue != nil {
			v.walkExpr(e.ReturnValue)
		}
	case hir.ExprVarDef:
		v.walkExpr(e.VarInit)
		init := v.table.MustGet(e.VarInit.ID)
		if init.Equal(types.Unit) {
			v.report(diag.SemaTypeMismatch, fmt.Sprintf(
				"variable %q cannot be initialized from a Unit-typed expression", e.VarName))
		}
		if e.VarType.Name != "" || e.VarType.Elem != nil {
			hint := translateHint(e.VarType)
			if !hint.Equal(init) {
				v.report(diag.SemaTypeMismatch, fmt.Sprintf(
					"variable %q declared %s but initialized with %s", e.VarName, hint, init))
			}
		}
	case hir.ExprIf:
		v.walkExpr(e.Cond)
		v.walkBlock(e.Then)
		condTy := v.table.MustGet(e.Cond.ID)
		if !condTy.Equal(types.Bool) {
			v.report(diag.SemaTypeMismatch, fmt.Sprintf("if condition must be Bool, found %s", condTy))
		}
		if e.Else != nil {
			v.walkExpr(e.Else)
			thenTy := v.table.MustGet(e.Then.ID)
			elseTy := v.table.MustGet(e.Else.ID)
			if !thenTy.Equal(elseTy) {
				v.report(diag.SemaTypeMismatch, fmt.Sprintf("if branches disagree: %s vs %s", thenTy, elseTy))
			}
		} else {
			thenTy := v.table.MustGet(e.Then.ID)
			if !thenTy.Equal(types.Unit) {
				v.report(diag.SemaTypeMismatch, fmt.Sprintf(
					"if without else must be Unit-typed, found %s", thenTy))
			}
		}
	}
}

func (v *validator) report(code diag.Code, msg string) {
	v.bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: code, Message: msg})
}
