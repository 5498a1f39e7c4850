package symbols

import (
	"fmt"

	"corec/internal/diag"
	"corec/internal/hir"
	"corec/internal/ids"
	"corec/internal/source"
)

// scope is one lexical frame: the global frame, one per function, and
// one per block or if-branch nested inside it.
type scope struct {
	parent *scope
	names  map[string]ids.NodeID
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]ids.NodeID)}
}

// define binds name to id in this scope only. It reports false if name
// already exists in this exact scope -- shadowing a name from an outer
// scope is fine, redefining one in the same scope is not.
func (s *scope) define(name string, id ids.NodeID) bool {
	if _, exists := s.names[name]; exists {
		return false
	}
	s.names[name] = id
	return true
}

func (s *scope) lookup(name string) (ids.NodeID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.names[name]; ok {
			return id, true
		}
	}
	return 0, false
}

// callable records a top-level function or extern declaration, looked
// up by call expressions independently of the lexical scope stack.
type callable struct {
	target   ids.NodeID
	external bool
}

type resolver struct {
	bag     *diag.Bag
	m       *Map
	global  *scope
	callees map[string]callable
}

// Resolve walks every file in a unit and builds its Map: a global pass
// collects function and extern names first (so forward calls resolve),
// then each function body is walked with a scope stack that makes a
// VarDef visible only to the expressions after it.
func Resolve(files []*hir.File, bag *diag.Bag) *Map {
	r := &resolver{
		bag:     bag,
		m:       NewMap(),
		global:  newScope(nil),
		callees: make(map[string]callable),
	}
	r.collectGlobals(files)
	for _, f := range files {
		for _, item := range f.Decls {
			if item.Kind == hir.ItemFunc && item.Func.Body != nil {
				r.resolveFunc(item.Func)
			}
		}
	}
	return r.m
}

func (r *resolver) collectGlobals(files []*hir.File) {
	for _, f := range files {
		for _, item := range f.Decls {
			switch item.Kind {
			case hir.ItemFunc:
				r.defineGlobal(item.Func.Name, item.Func.ID, false, item.Span)
			case hir.ItemExternFunc:
				r.defineGlobal(item.Extern.Name, item.Extern.ID, true, item.Span)
			}
		}
	}
}

func (r *resolver) defineGlobal(name string, id ids.NodeID, external bool, span source.Span) {
	if _, exists := r.callees[name]; exists {
		r.undef(diag.SemaDuplicateDefinition, span, fmt.Sprintf("%q is already defined in this unit", name))
		return
	}
	r.callees[name] = callable{target: id, external: external}
}

func (r *resolver) resolveFunc(fn *hir.Func) {
	fs := newScope(r.global)
	for _, p := range fn.Params {
		if !fs.define(p.Name, p.ID) {
			r.undef(diag.SemaDuplicateDefinition, p.Span, fmt.Sprintf("parameter %q is already defined", p.Name))
		}
	}
	r.resolveBlock(fn.Body, fs)
}

func (r *resolver) resolveBlock(b *hir.Block, parent *scope) {
	s := newScope(parent)
	for i := range b.Exprs {
		r.resolveExpr(&b.Exprs[i], s)
	}
}

func (r *resolver) resolveExpr(e *hir.Expr, s *scope) {
	switch e.Kind {
	case hir.ExprIdent:
		if target, ok := s.lookup(e.Ident); ok {
			r.m.Bind(e.ID, Def{Target: target})
		} else {
			r.undef(diag.SemaUndefinedSymbol, e.Span, fmt.Sprintf("undefined symbol %q", e.Ident))
		}
	case hir.ExprBinary:
		r.resolveExpr(e.Lhs, s)
		r.resolveExpr(e.Rhs, s)
	case hir.ExprCall:
		if c, ok := r.callees[e.CallName]; ok {
			r.m.Bind(e.ID, Def{Target: c.target, External: c.external})
		} else {
			r.undef(diag.SemaUndefinedSymbol, e.Span, fmt.Sprintf("undefined function %q", e.CallName))
		}
		for i := range e.CallArgs {
			r.resolveExpr(&e.CallArgs[i], s)
		}
	case hir.ExprReturn:
		if e.ReturnValue != nil {
			r.resolveExpr(e.ReturnValue, s)
		}
	case hir.ExprVarDef:
		r.resolveExpr(e.VarInit, s)
		if !s.define(e.VarName, e.ID) {
			r.undef(diag.SemaDuplicateDefinition, e.Span, fmt.Sprintf("%q is already defined in this scope", e.VarName))
		}
	case hir.ExprIf:
		r.resolveExpr(e.Cond, s)
		r.resolveBlock(e.Then, s)
		if e.Else != nil {
			if e.Else.Kind == hir.ExprBlock {
				r.resolveBlock(e.Else.Block, s)
			} else {
				r.resolveExpr(e.Else, s)
			}
		}
	case hir.ExprBlock:
		r.resolveBlock(e.Block, s)
	case hir.ExprInt, hir.ExprFloat, hir.ExprBool, hir.ExprString:
		// literals bind nothing
	}
}

func (r *resolver) undef(code diag.Code, span source.Span, msg string) {
	r.bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: code, Message: msg, Primary: span})
}
