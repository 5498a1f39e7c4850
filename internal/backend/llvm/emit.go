// Package llvm serializes a fully typed unit into textual LLVM IR --
// the "relocatable object" a compile_unit call hands back. Nothing here
// calls into an LLVM C API; building IR as text through a
// strings.Builder keeps the backend's only external dependency the
// toolchain that later assembles and links the .ll file, which this
// package has no opinion about.
package llvm

import (
	"fmt"
	"sort"
	"strings"

	"corec/internal/ctx"
	"corec/internal/hir"
	"corec/internal/ids"
	"corec/internal/types"
)

// funcInfo is what a call site needs to know about its callee: the
// symbol it links against and the signature used to render the call.
// vis only matters for ItemFunc entries -- it decides the `define`
// line's linkage keyword; extern declarations are always external and
// never consult it.
type funcInfo struct {
	name   string
	ret    types.Type
	params []types.Type
	vis    hir.Vis
}

// emitter holds the state shared by every function emitted for one
// unit: the type/symbol tables inference and resolution produced, the
// registry of callable functions, and the output buffer.
type emitter struct {
	gctx      *ctx.GlobalContext
	buf       strings.Builder
	funcs     map[ids.NodeID]funcInfo
	strConsts map[string]string // literal text -> global name
	strOrder  []string
}

// EmitUnit renders every file in gctx into one textual LLVM IR module.
// A funcEmitter.line call against an already-terminated block panics
// with an *internalError rather than threading an error return through
// every instruction-emitting call site; EmitUnit is the one place that
// turns such a panic back into a plain error for the caller.
func EmitUnit(gctx *ctx.GlobalContext) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*internalError)
			if !ok {
				panic(r)
			}
			err = ie
		}
	}()

	e := &emitter{
		gctx:      gctx,
		funcs:     make(map[ids.NodeID]funcInfo),
		strConsts: make(map[string]string),
	}
	e.writeHeader()
	e.collectFuncInfo()
	e.collectStringConsts()
	e.emitExternDecls()
	e.emitStringConsts()
	for _, f := range gctx.Files {
		for _, item := range f.Decls {
			if item.Kind != hir.ItemFunc {
				continue
			}
			if ferr := e.emitFunc(f.UnitName, item.Func); ferr != nil {
				return "", ferr
			}
		}
	}
	return e.buf.String(), nil
}

func (e *emitter) writeHeader() {
	triple := e.gctx.Config.Target.Triple
	if triple == "" {
		triple = "x86_64-linux-gnu"
	}
	fmt.Fprintf(&e.buf, "target triple = %q\n\n", triple)
}

// collectFuncInfo builds the link-name/signature registry for every
// function and extern declaration across every file in the unit, so
// calls -- including forward and cross-file calls -- resolve during a
// single pass.
func (e *emitter) collectFuncInfo() {
	for _, f := range e.gctx.Files {
		for _, item := range f.Decls {
			switch item.Kind {
			case hir.ItemFunc:
				fn := item.Func
				ret := e.gctx.Types.MustGet(fn.ID)
				params := make([]types.Type, len(fn.Params))
				for i, p := range fn.Params {
					params[i] = e.gctx.Types.MustGet(p.ID)
				}
				name := linkName(f.UnitName, fn.Name, false, ret, params)
				e.funcs[fn.ID] = funcInfo{name: name, ret: ret, params: params, vis: fn.Vis}
			case hir.ItemExternFunc:
				ext := item.Extern
				ret := e.gctx.Types.MustGet(ext.ID)
				params := make([]types.Type, len(ext.Params))
				for i, p := range ext.Params {
					params[i] = e.gctx.Types.MustGet(p.ID)
				}
				e.funcs[ext.ID] = funcInfo{name: ext.Name, ret: ret, params: params}
			}
		}
	}
}

func (e *emitter) emitExternDecls() {
	var externs []*hir.ExternFunc
	for _, f := range e.gctx.Files {
		for _, item := range f.Decls {
			if item.Kind == hir.ItemExternFunc {
				externs = append(externs, item.Extern)
			}
		}
	}
	sort.Slice(externs, func(i, j int) bool { return externs[i].Name < externs[j].Name })
	for _, ext := range externs {
		info := e.funcs[ext.ID]
		params := make([]string, len(info.params))
		for i, p := range info.params {
			params[i] = llType(p)
		}
		fmt.Fprintf(&e.buf, "declare %s @%s(%s)\n", llType(info.ret), info.name, strings.Join(params, ", "))
	}
	if len(externs) > 0 {
		e.buf.WriteString("\n")
	}
}

// collectStringConsts scans every function body for string literals and
// assigns each distinct text a stable global name, in first-appearance
// order across files in declaration order.
func (e *emitter) collectStringConsts() {
	for _, f := range e.gctx.Files {
		for _, item := range f.Decls {
			if item.Kind == hir.ItemFunc && item.Func.Body != nil {
				e.collectStringsInBlock(item.Func.Body)
			}
		}
	}
}

func (e *emitter) collectStringsInBlock(b *hir.Block) {
	for i := range b.Exprs {
		e.collectStringsInExpr(&b.Exprs[i])
	}
}

func (e *emitter) collectStringsInExpr(ex *hir.Expr) {
	switch ex.Kind {
	case hir.ExprString:
		if _, ok := e.strConsts[ex.StrVal]; !ok {
			name := fmt.Sprintf(".str.%d", len(e.strOrder))
			e.strConsts[ex.StrVal] = name
			e.strOrder = append(e.strOrder, ex.StrVal)
		}
	case hir.ExprBinary:
		e.collectStringsInExpr(ex.Lhs)
		e.collectStringsInExpr(ex.Rhs)
	case hir.ExprCall:
		for i := range ex.CallArgs {
			e.collectStringsInExpr(&ex.CallArgs[i])
		}
	case hir.ExprReturn:
		if ex.ReturnValue != nil {
			e.collectStringsInExpr(ex.ReturnValue)
		}
	case hir.ExprVarDef:
		e.collectStringsInExpr(ex.VarInit)
	case hir.ExprIf:
		e.collectStringsInExpr(ex.Cond)
		e.collectStringsInBlock(ex.Then)
		if ex.Else != nil {
			e.collectStringsInExpr(ex.Else)
		}
	case hir.ExprBlock:
		e.collectStringsInBlock(ex.Block)
	}
}

func (e *emitter) emitStringConsts() {
	for _, raw := range e.strOrder {
		name := e.strConsts[raw]
		bytes := append([]byte(raw), 0) // nul-terminated
		fmt.Fprintf(&e.buf, "@%s = private unnamed_addr constant [%d x i8] c%q\n", name, len(bytes), string(bytes))
	}
	if len(e.strOrder) > 0 {
		e.buf.WriteString("\n")
	}
}
