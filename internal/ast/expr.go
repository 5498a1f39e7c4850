package ast

import "corec/internal/source"

// ExprKind tags which concrete expression shape an Expr carries.
type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprInt
	ExprFloat
	ExprBool
	ExprString
	ExprBlock
	ExprBinary
	ExprCall
	ExprReturn
	ExprVarDef
	ExprIf
)

// BinOpToken is the raw operator a Binary expression was parsed with;
// internal/hir.Lower carries it through unchanged as hir.BinOp.
type BinOpToken uint8

const (
	OpAdd BinOpToken = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpLt
	OpGt
	OpEq
)

// Expr is a tagged union over every expression shape the grammar
// produces. Exactly one of the kind-specific fields below is populated,
// selected by Kind.
type Expr struct {
	Kind ExprKind
	Span source.Span

	Ident string // ExprIdent

	IntVal   int64   // ExprInt
	FloatVal float64 // ExprFloat
	BoolVal  bool    // ExprBool
	StrVal   string  // ExprString

	Block []Expr // ExprBlock; last element is the block's value

	BinOp BinOpToken // ExprBinary
	Lhs   *Expr      // ExprBinary
	Rhs   *Expr      // ExprBinary

	CallAlias string // ExprCall, optional
	CallName  string // ExprCall
	CallArgs  []Expr // ExprCall

	ReturnValue *Expr // ExprReturn, optional

	VarName string    // ExprVarDef
	VarType *TypeExpr // ExprVarDef, optional
	VarInit *Expr     // ExprVarDef

	Cond *Expr // ExprIf
	Then *Expr // ExprIf; always an ExprBlock
	Else *Expr // ExprIf, optional; ExprBlock or nested ExprIf
}
