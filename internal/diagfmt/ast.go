package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"corec/internal/ast"
)

// DumpAST writes an indented tree rendering of file's declarations,
// the tree corec parse prints.
func DumpAST(w io.Writer, file *ast.File) error {
	d := &astDumper{w: w}
	fmt.Fprintf(w, "unit %s\n", file.UnitName)
	for _, decl := range file.Decls {
		d.decl(decl, 1)
	}
	return d.err
}

type astDumper struct {
	w   io.Writer
	err error
}

func (d *astDumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, err := fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
	if err != nil {
		d.err = err
	}
}

func (d *astDumper) decl(decl ast.Decl, depth int) {
	switch decl.Kind {
	case ast.DeclFunc:
		fn := decl.Func
		d.line(depth, "func %s(%s) -> %s", fn.Name, joinParams(fn.Params), returnTypeName(fn.ReturnType))
		d.expr(fn.Body, depth+1)
	case ast.DeclExternFunc:
		ext := decl.Extern
		d.line(depth, "extern func %s(%s) -> %s", ext.Name, joinParams(ext.Params), typeExprName(ext.ReturnType))
	case ast.DeclImport:
		d.line(depth, "import %s = %q", decl.Import.Name, decl.Import.Target)
	}
}

func (d *astDumper) expr(e ast.Expr, depth int) {
	switch e.Kind {
	case ast.ExprIdent:
		d.line(depth, "ident %s", e.Ident)
	case ast.ExprInt:
		d.line(depth, "int %d", e.IntVal)
	case ast.ExprFloat:
		d.line(depth, "float %g", e.FloatVal)
	case ast.ExprBool:
		d.line(depth, "bool %t", e.BoolVal)
	case ast.ExprString:
		d.line(depth, "string %q", e.StrVal)
	case ast.ExprBlock:
		d.line(depth, "block")
		for _, inner := range e.Block {
			d.expr(inner, depth+1)
		}
	case ast.ExprBinary:
		d.line(depth, "binary %s", binOpName(e.BinOp))
		d.expr(*e.Lhs, depth+1)
		d.expr(*e.Rhs, depth+1)
	case ast.ExprCall:
		if e.CallAlias != "" {
			d.line(depth, "call %s::%s", e.CallAlias, e.CallName)
		} else {
			d.line(depth, "call %s", e.CallName)
		}
		for _, arg := range e.CallArgs {
			d.expr(arg, depth+1)
		}
	case ast.ExprReturn:
		d.line(depth, "return")
		if e.ReturnValue != nil {
			d.expr(*e.ReturnValue, depth+1)
		}
	case ast.ExprVarDef:
		d.line(depth, "var %s: %s", e.VarName, optionalTypeExprName(e.VarType))
		d.expr(*e.VarInit, depth+1)
	case ast.ExprIf:
		d.line(depth, "if")
		d.expr(*e.Cond, depth+1)
		d.expr(*e.Then, depth+1)
		if e.Else != nil {
			d.expr(*e.Else, depth+1)
		}
	}
}

func joinParams(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Text + ": " + typeExprName(p.Type)
	}
	return strings.Join(parts, ", ")
}

func typeExprName(t ast.TypeExpr) string {
	if t.Kind == ast.TypeArray {
		return fmt.Sprintf("[%s; %d]", typeExprName(*t.Elem), t.Size)
	}
	return t.Name
}

func optionalTypeExprName(t *ast.TypeExpr) string {
	if t == nil {
		return "_"
	}
	return typeExprName(*t)
}

func returnTypeName(t *ast.TypeExpr) string {
	if t == nil {
		return "Void"
	}
	return typeExprName(*t)
}

func binOpName(op ast.BinOpToken) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	case ast.OpLt:
		return "<"
	case ast.OpGt:
		return ">"
	case ast.OpEq:
		return "=="
	default:
		return "?"
	}
}
