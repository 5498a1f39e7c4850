package hir

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/ids"
)

// UnsupportedConstruct is returned by Lower when the AST contains a node
// shape the HIR has no representation for (none exist in the current
// grammar, but the type exists so a future grammar extension fails
// loudly instead of panicking).
type UnsupportedConstruct struct {
	What string
}

func (e *UnsupportedConstruct) Error() string {
	return fmt.Sprintf("unsupported construct: %s", e.What)
}

// lowerer carries the shared NodeID allocator across one file's lowering.
type lowerer struct {
	alloc *ids.Allocator
}

// Lower turns a parsed ast.File into its hir.File image, minting a fresh
// ids.NodeID for every node reachable from it. alloc is shared across
// every file in a compile_unit so NodeIDs stay unique unit-wide.
func Lower(file *ast.File, alloc *ids.Allocator) (*File, []error) {
	l := &lowerer{alloc: alloc}
	var errs []error

	out := &File{
		ID:       alloc.Next(),
		UnitName: file.UnitName,
		Span:     file.Span,
	}
	for _, decl := range file.Decls {
		item, err := l.lowerDecl(&decl)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.Decls = append(out.Decls, item)
	}
	return out, errs
}

func (l *lowerer) lowerDecl(d *ast.Decl) (*Item, error) {
	switch d.Kind {
	case ast.DeclFunc:
		fn, err := l.lowerFunc(d.Func)
		if err != nil {
			return nil, err
		}
		return &Item{ID: l.alloc.Next(), Kind: ItemFunc, Span: d.Span, Func: fn}, nil
	case ast.DeclExternFunc:
		ext, err := l.lowerExtern(d.Extern)
		if err != nil {
			return nil, err
		}
		return &Item{ID: l.alloc.Next(), Kind: ItemExternFunc, Span: d.Span, Extern: ext}, nil
	case ast.DeclImport:
		return &Item{
			ID: l.alloc.Next(), Kind: ItemImport, Span: d.Span,
			Import: &Import{ID: l.alloc.Next(), Name: d.Import.Name, Target: d.Import.Target},
		}, nil
	default:
		return nil, &UnsupportedConstruct{What: "declaration"}
	}
}

func (l *lowerer) lowerFunc(f *ast.FuncDecl) (*Func, error) {
	params, err := l.lowerParams(f.Params)
	if err != nil {
		return nil, err
	}
	var result *TyHint
	if f.ReturnType != nil {
		h := l.lowerTypeExpr(f.ReturnType)
		result = &h
	}
	body, err := l.lowerBlock(&f.Body)
	if err != nil {
		return nil, err
	}
	return &Func{
		ID: l.alloc.Next(), Name: f.Name, Vis: f.Vis,
		Params: params, Result: result, Body: body, Span: f.Body.Span,
	}, nil
}

func (l *lowerer) lowerExtern(e *ast.ExternDecl) (*ExternFunc, error) {
	params, err := l.lowerParams(e.Params)
	if err != nil {
		return nil, err
	}
	return &ExternFunc{
		ID: l.alloc.Next(), Name: e.Name, Params: params,
		Result: l.lowerTypeExpr(&e.ReturnType), Span: e.NameSpan,
	}, nil
}

func (l *lowerer) lowerParams(in []ast.Param) ([]Param, error) {
	out := make([]Param, 0, len(in))
	for _, p := range in {
		out = append(out, Param{
			ID: l.alloc.Next(), Name: p.Text, Type: l.lowerTypeExpr(&p.Type), Span: p.Name,
		})
	}
	return out, nil
}

func (l *lowerer) lowerTypeExpr(t *ast.TypeExpr) TyHint {
	if t.Kind == ast.TypeArray {
		elem := l.lowerTypeExpr(t.Elem)
		return TyHint{Elem: &elem, Size: t.Size, Span: t.Span}
	}
	return TyHint{Name: t.Name, Span: t.Span}
}

func (l *lowerer) lowerBlock(b *ast.Expr) (*Block, error) {
	out := &Block{ID: l.alloc.Next(), Span: b.Span}
	for i := range b.Block {
		e, err := l.lowerExpr(&b.Block[i])
		if err != nil {
			return nil, err
		}
		out.Exprs = append(out.Exprs, *e)
	}
	return out, nil
}

func (l *lowerer) lowerExpr(e *ast.Expr) (*Expr, error) {
	id := l.alloc.Next()
	switch e.Kind {
	case ast.ExprIdent:
		return &Expr{ID: id, Kind: ExprIdent, Span: e.Span, Ident: e.Ident}, nil
	case ast.ExprInt:
		return &Expr{ID: id, Kind: ExprInt, Span: e.Span, IntVal: e.IntVal}, nil
	case ast.ExprFloat:
		return &Expr{ID: id, Kind: ExprFloat, Span: e.Span, FloatVal: e.FloatVal}, nil
	case ast.ExprBool:
		return &Expr{ID: id, Kind: ExprBool, Span: e.Span, BoolVal: e.BoolVal}, nil
	case ast.ExprString:
		return &Expr{ID: id, Kind: ExprString, Span: e.Span, StrVal: e.StrVal}, nil
	case ast.ExprBlock:
		blk, err := l.lowerBlock(e)
		if err != nil {
			return nil, err
		}
		blk.ID = id
		return &Expr{ID: id, Kind: ExprBlock, Span: e.Span, Block: blk}, nil
	case ast.ExprBinary:
		lhs, err := l.lowerExpr(e.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := l.lowerExpr(e.Rhs)
		if err != nil {
			return nil, err
		}
		return &Expr{ID: id, Kind: ExprBinary, Span: e.Span, BinOp: e.BinOp, Lhs: lhs, Rhs: rhs}, nil
	case ast.ExprCall:
		args := make([]Expr, 0, len(e.CallArgs))
		for i := range e.CallArgs {
			a, err := l.lowerExpr(&e.CallArgs[i])
			if err != nil {
				return nil, err
			}
			args = append(args, *a)
		}
		return &Expr{ID: id, Kind: ExprCall, Span: e.Span, CallName: e.CallName, CallArgs: args}, nil
	case ast.ExprReturn:
		var val *Expr
		if e.ReturnValue != nil {
			v, err := l.lowerExpr(e.ReturnValue)
			if err != nil {
				return nil, err
			}
			val = v
		}
		return &Expr{ID: id, Kind: ExprReturn, Span: e.Span, ReturnValue: val}, nil
	case ast.ExprVarDef:
		init, err := l.lowerExpr(e.VarInit)
		if err != nil {
			return nil, err
		}
		return &Expr{
			ID: id, Kind: ExprVarDef, Span: e.Span, VarName: e.VarName,
			VarType: l.lowerTypeExpr(e.VarType), VarInit: init,
		}, nil
	case ast.ExprIf:
		cond, err := l.lowerExpr(e.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.lowerBlock(e.Then)
		if err != nil {
			return nil, err
		}
		var elseExpr *Expr
		if e.Else != nil {
			el, err := l.lowerExpr(e.Else)
			if err != nil {
				return nil, err
			}
			elseExpr = el
		}
		return &Expr{ID: id, Kind: ExprIf, Span: e.Span, Cond: cond, Then: then, Else: elseExpr}, nil
	default:
		return nil, &UnsupportedConstruct{What: "expression"}
	}
}
