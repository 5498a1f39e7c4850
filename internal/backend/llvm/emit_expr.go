package llvm

import (
	"strconv"
	"strings"

	"corec/internal/ast"
	"corec/internal/hir"
	"corec/internal/types"
)

// emitBlock emits every expression in a block in order and returns the
// value and type of the last one -- a block's value is its final
// expression's value, exactly as inference computed it.
func (fe *funcEmitter) emitBlock(b *hir.Block) (string, types.Type, error) {
	var val string
	ty := types.Unit
	for i := range b.Exprs {
		v, t, err := fe.emitExpr(&b.Exprs[i])
		if err != nil {
			return "", types.Unresolved, err
		}
		val, ty = v, t
	}
	return val, ty, nil
}

func (fe *funcEmitter) emitExpr(ex *hir.Expr) (string, types.Type, error) {
	ty := fe.table.MustGet(ex.ID)
	switch ex.Kind {
	case hir.ExprInt:
		return strconv.FormatInt(ex.IntVal, 10), ty, nil
	case hir.ExprFloat:
		return strconv.FormatFloat(ex.FloatVal, 'e', -1, 64), ty, nil
	case hir.ExprBool:
		if ex.BoolVal {
			return "1", ty, nil
		}
		return "0", ty, nil
	case hir.ExprString:
		name := fe.e.strConsts[ex.StrVal]
		return "@" + name, ty, nil
	case hir.ExprIdent:
		return fe.emitIdent(ex, ty)
	case hir.ExprBlock:
		return fe.emitBlock(ex.Block)
	case hir.ExprBinary:
		return fe.emitBinary(ex, ty)
	case hir.ExprCall:
		return fe.emitCall(ex, ty)
	case hir.ExprReturn:
		return fe.emitReturn(ex)
	case hir.ExprVarDef:
		return fe.emitVarDef(ex, ty)
	case hir.ExprIf:
		return fe.emitIf(ex, ty)
	}
	return "", types.Unresolved, errInternal("unhandled expression kind %d", ex.Kind)
}

func (fe *funcEmitter) emitIdent(ex *hir.Expr, ty types.Type) (string, types.Type, error) {
	def, ok := fe.syms.Lookup(ex.ID)
	if !ok {
		return "", types.Unresolved, errInternal("identifier %q has no resolved binding", ex.Ident)
	}
	tmp := fe.newTemp()
	fe.line("%s = load %s, ptr %s", tmp, llType(ty), slotName(def.Target))
	return tmp, ty, nil
}

func (fe *funcEmitter) emitBinary(ex *hir.Expr, ty types.Type) (string, types.Type, error) {
	lhs, lty, err := fe.emitExpr(ex.Lhs)
	if err != nil {
		return "", types.Unresolved, err
	}
	rhs, _, err := fe.emitExpr(ex.Rhs)
	if err != nil {
		return "", types.Unresolved, err
	}
	op, err := binOpcode(ex.BinOp, lty)
	if err != nil {
		return "", types.Unresolved, err
	}
	tmp := fe.newTemp()
	fe.line("%s = %s %s %s, %s", tmp, op, llType(lty), lhs, rhs)
	return tmp, ty, nil
}

// binOpcode picks the LLVM instruction (and, for comparisons, the
// predicate folded into the mnemonic) for a source operator applied to
// operands of type lty. Float comparisons use ordered predicates since
// NaN never arises from this language's closed type system reaching a
// comparison undefined either way. Char compares unsigned -- it's a raw
// byte, not a signed numeric type -- everything else signed.
func binOpcode(op ast.BinOpToken, lty types.Type) (string, error) {
	isFloat := lty.Kind == types.KindFloat
	isChar := lty.Kind == types.KindChar
	switch op {
	case ast.OpAdd:
		if isFloat {
			return "fadd", nil
		}
		return "add", nil
	case ast.OpSub:
		if isFloat {
			return "fsub", nil
		}
		return "sub", nil
	case ast.OpMul:
		if isFloat {
			return "fmul", nil
		}
		return "mul", nil
	case ast.OpDiv:
		if isFloat {
			return "fdiv", nil
		}
		return "sdiv", nil
	case ast.OpAnd:
		return "and", nil
	case ast.OpOr:
		return "or", nil
	case ast.OpEq:
		if isFloat {
			return "fcmp oeq", nil
		}
		return "icmp eq", nil
	case ast.OpLt:
		if isFloat {
			return "fcmp olt", nil
		}
		if isChar {
			return "icmp ult", nil
		}
		return "icmp slt", nil
	case ast.OpGt:
		if isFloat {
			return "fcmp ogt", nil
		}
		if isChar {
			return "icmp ugt", nil
		}
		return "icmp sgt", nil
	}
	return "", errInternal("unhandled binary operator %d", op)
}

func (fe *funcEmitter) emitCall(ex *hir.Expr, ty types.Type) (string, types.Type, error) {
	def, ok := fe.syms.Lookup(ex.ID)
	if !ok {
		return "", types.Unresolved, errInternal("call to %q has no resolved binding", ex.CallName)
	}
	info, ok := fe.e.funcs[def.Target]
	if !ok {
		return "", types.Unresolved, errInternal("call to %q has no registered signature", ex.CallName)
	}
	args := make([]string, len(ex.CallArgs))
	for i := range ex.CallArgs {
		v, t, err := fe.emitExpr(&ex.CallArgs[i])
		if err != nil {
			return "", types.Unresolved, err
		}
		args[i] = llType(t) + " " + v
	}
	argList := strings.Join(args, ", ")
	if info.ret.Kind == types.KindUnit {
		fe.line("call void @%s(%s)", info.name, argList)
		return "", types.Unit, nil
	}
	tmp := fe.newTemp()
	fe.line("%s = call %s @%s(%s)", tmp, llType(info.ret), info.name, argList)
	return tmp, info.ret, nil
}

func (fe *funcEmitter) emitReturn(ex *hir.Expr) (string, types.Type, error) {
	if ex.ReturnValue == nil {
		return "", types.Unit, fe.ret("ret void")
	}
	val, ty, err := fe.emitExpr(ex.ReturnValue)
	if err != nil {
		return "", types.Unresolved, err
	}
	if ty.Kind == types.KindUnit {
		return "", types.Unit, fe.ret("ret void")
	}
	return "", types.Unit, fe.ret("ret %s %s", llType(ty), val)
}

func (fe *funcEmitter) emitVarDef(ex *hir.Expr, ty types.Type) (string, types.Type, error) {
	val, vty, err := fe.emitExpr(ex.VarInit)
	if err != nil {
		return "", types.Unresolved, err
	}
	fe.line("store %s %s, ptr %s", llType(vty), val, slotName(ex.ID))
	return val, ty, nil
}

// emitIf lowers an if-expression to two branches joining on a shared
// label. When its value is used (ty != Unit) each arm that falls through
// stores into a stack slot allocated for this node, reloaded once control
// reaches the join label -- the same alloca-and-reload shape as every
// other local, so no phi node is needed. An arm that already ended in a
// terminator (a ret) emits neither the store nor the jump.
func (fe *funcEmitter) emitIf(ex *hir.Expr, ty types.Type) (string, types.Type, error) {
	cond, _, err := fe.emitExpr(ex.Cond)
	if err != nil {
		return "", types.Unresolved, err
	}
	thenLabel := fe.newLabel("if.then")
	joinLabel := fe.newLabel("if.end")
	elseLabel := joinLabel
	if ex.Else != nil {
		elseLabel = fe.newLabel("if.else")
	}
	fe.line("br i1 %s, label %%%s, label %%%s", cond, thenLabel, elseLabel)

	fe.startLabel(thenLabel)
	thenVal, thenTy, err := fe.emitBlock(ex.Then)
	if err != nil {
		return "", types.Unresolved, err
	}
	if ty.Kind != types.KindUnit && fe.state != stateTerminated {
		fe.line("store %s %s, ptr %s", llType(thenTy), thenVal, slotName(ex.ID))
	}
	fe.jump(joinLabel)

	if ex.Else != nil {
		fe.startLabel(elseLabel)
		elseVal, elseTy, err := fe.emitExpr(ex.Else)
		if err != nil {
			return "", types.Unresolved, err
		}
		if ty.Kind != types.KindUnit && fe.state != stateTerminated {
			fe.line("store %s %s, ptr %s", llType(elseTy), elseVal, slotName(ex.ID))
		}
		fe.jump(joinLabel)
	}

	fe.startLabel(joinLabel)
	if ty.Kind == types.KindUnit {
		return "", types.Unit, nil
	}
	tmp := fe.newTemp()
	fe.line("%s = load %s, ptr %s", tmp, llType(ty), slotName(ex.ID))
	return tmp, ty, nil
}
