// Package hir defines the high-level intermediate representation that
// name resolution, type inference, and the backend all operate over.
// It is a direct, minimally-desugared image of the AST: its only job is
// giving every node a stable ids.NodeID so later passes have something
// to key their tables on.
package hir

import (
	"corec/internal/ast"
	"corec/internal/ids"
	"corec/internal/source"
)

// BinOp mirrors ast.BinOpToken at the HIR level.
type BinOp = ast.BinOpToken

// Vis mirrors ast.Visibility at the HIR level.
type Vis = ast.Visibility

const (
	Private = ast.Private
	Public  = ast.Public
)

// TyHint names a type the way source syntax spells it, before
// resolution into internal/types.Type.
type TyHint struct {
	Name string // the type name itself; empty for an array hint (see Elem)
	Elem *TyHint
	Size int64 // array length, meaningful only when Elem != nil
	Span source.Span
}

// File is the lowered form of one parsed source file.
type File struct {
	ID       ids.NodeID
	UnitName string
	Decls    []*Item
	Span     source.Span
}

// ItemKind distinguishes the kinds of top-level items HIR carries.
type ItemKind uint8

const (
	ItemFunc ItemKind = iota
	ItemExternFunc
	ItemImport
)

// Item is a top-level declaration: a function, an extern declaration,
// or an import.
type Item struct {
	ID   ids.NodeID
	Kind ItemKind
	Span source.Span

	Func   *Func
	Extern *ExternFunc
	Import *Import
}

// Param is one function parameter, named and given a type hint that
// name resolution and inference will later turn into a concrete type.
type Param struct {
	ID   ids.NodeID
	Name string
	Type TyHint
	Span source.Span
}

// Func is a lowered function definition.
type Func struct {
	ID       ids.NodeID
	Name     string
	Vis      Vis
	Params   []Param
	Result   *TyHint // nil means Unit
	Body     *Block
	Span     source.Span
}

// ExternFunc is a lowered `extern fn` declaration: no body, always
// callable, name never mangled.
type ExternFunc struct {
	ID     ids.NodeID
	Name   string
	Params []Param
	Result TyHint
	Span   source.Span
}

// Import is a lowered `import` declaration.
type Import struct {
	ID     ids.NodeID
	Name   string
	Target string
	Span   source.Span
}

// Block is a lowered `{ ... }` expression: a sequence of expressions,
// its own NodeID, and a fresh lexical scope once symbols.Resolve runs.
type Block struct {
	ID    ids.NodeID
	Exprs []Expr
	Span  source.Span
}

// ExprKind enumerates HIR expression kinds. This maps one-to-one onto
// ast.ExprKind; lowering performs no desugaring beyond minting NodeIDs.
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

// Expr is one lowered expression node. Like ast.Expr it is a tagged
// union; Kind selects which fields are meaningful.
type Expr struct {
	ID   ids.NodeID
	Kind ExprKind
	Span source.Span

	Ident string

	IntVal   int64
	FloatVal float64
	BoolVal  bool
	StrVal   string

	Block *Block

	BinOp BinOp
	Lhs   *Expr
	Rhs   *Expr

	CallName string
	CallArgs []Expr

	ReturnValue *Expr

	VarName string
	VarType TyHint
	VarInit *Expr

	Cond *Expr
	Then *Block
	Else *Expr
}
