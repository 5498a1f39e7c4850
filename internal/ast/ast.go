// Package ast defines the parse-tree shape the parser produces and
// internal/hir's lowering pass consumes. AST nodes are plain Go structs,
// not an arena: a file's AST is built exactly once by the parser and
// walked exactly once by lowering, so there is no cross-pass identity to
// preserve at this layer (that starts at the HIR layer, see internal/hir).
package ast

import "corec/internal/source"

// File is a single parsed compilation unit: a unit name plus its ordered
// top-level declarations.
type File struct {
	UnitName string
	Decls    []Decl
	Span     source.Span
}

// Visibility controls whether a declaration is reachable from outside its
// compilation unit.
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

// Param is one function parameter: a name paired with its declared type.
type Param struct {
	Name source.Span
	Text string // parameter name text, for convenience
	Type TypeExpr
}

// DeclKind tags which concrete declaration a Decl carries.
type DeclKind uint8

const (
	DeclFunc DeclKind = iota
	DeclExternFunc
	DeclImport
)

// Decl is a tagged union over the three kinds of top-level declaration
// the grammar accepts: function, extern function declaration, and
// import directive.
type Decl struct {
	Kind DeclKind
	Span source.Span

	Func   *FuncDecl   // set iff Kind == DeclFunc
	Extern *ExternDecl // set iff Kind == DeclExternFunc
	Import *ImportDecl // set iff Kind == DeclImport
}

// FuncDecl is a function with a body.
type FuncDecl struct {
	Name       string
	NameSpan   source.Span
	Params     []Param
	ReturnType *TypeExpr // nil means "no explicit return type"
	Vis        Visibility
	Body       Expr
}

// ExternDecl is a function signature with no body, always externally
// linked.
type ExternDecl struct {
	Name       string
	NameSpan   source.Span
	Params     []Param
	ReturnType TypeExpr
}

// ImportDecl is opaque to the core pipeline: only the raw name and
// target text are preserved.
type ImportDecl struct {
	Name   string
	Target string
}

// TypeExprKind tags which concrete shape a TypeExpr carries.
type TypeExprKind uint8

const (
	TypeNamed TypeExprKind = iota
	TypeArray
)

// TypeExpr is either a named primitive ("Int", "Float", "Bool", "Char",
// "String", "Void") or a fixed-size array of another TypeExpr.
type TypeExpr struct {
	Kind Kind
	Span source.Span

	Name string // set iff Kind == TypeNamed

	Elem *TypeExpr // set iff Kind == TypeArray
	Size int64     // set iff Kind == TypeArray
}

// Kind is an alias so call sites can write ast.TypeNamed without
// stuttering ast.TypeExprKind.
type Kind = TypeExprKind
