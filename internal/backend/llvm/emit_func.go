package llvm

import (
	"fmt"
	"sort"

	"corec/internal/hir"
	"corec/internal/ids"
	"corec/internal/symbols"
	"corec/internal/types"
)

// funcEmitter carries the per-function emission state: a result cursor
// into the module buffer, fresh-name counters, and the locals this
// function's entry block must alloca before any other instruction.
// Every local -- parameter, var binding, or an if-expression used for
// its value -- gets a stack slot; the emitter never builds SSA phi
// nodes, matching the alloca-and-reload shape every local already
// needs.
type funcEmitter struct {
	e         *emitter
	table     *types.Table
	syms      *symbols.Map
	tmp       int
	label     int
	state     emitState
	slotTypes map[ids.NodeID]types.Type
}

func slotName(id ids.NodeID) string {
	return fmt.Sprintf("%%slot.%d", id)
}

func (fe *funcEmitter) newTemp() string {
	fe.tmp++
	return fmt.Sprintf("%%t%d", fe.tmp)
}

func (fe *funcEmitter) newLabel(prefix string) string {
	fe.label++
	return fmt.Sprintf("%s.%d", prefix, fe.label)
}

// line appends a non-terminator instruction to the current block. It is
// a backend bug -- not a fault in the program being compiled -- to call
// this once the block has a terminator, since LLVM IR allows at most
// one terminator per block and nothing after it.
func (fe *funcEmitter) line(format string, args ...any) {
	if fe.state == stateTerminated {
		panic(errInternal("attempted to append %q after the block's terminator", fmt.Sprintf(format, args...)))
	}
	fmt.Fprintf(&fe.e.buf, "  "+format+"\n", args...)
}

func (fe *funcEmitter) startLabel(name string) {
	fmt.Fprintf(&fe.e.buf, "%s:\n", name)
	if name == "entry" {
		fe.state = stateInEntry
	} else {
		fe.state = stateInBlock
	}
}

func (fe *funcEmitter) ret(format string, args ...any) error {
	if fe.state == stateTerminated {
		return errInternal("attempted to terminate a block that is already terminated")
	}
	fmt.Fprintf(&fe.e.buf, "  "+format+"\n", args...)
	fe.state = stateTerminated
	return nil
}

// jump emits an unconditional branch unless the block has already been
// terminated by a return -- the join label after a branch whose arm
// returned has no predecessor from that arm.
func (fe *funcEmitter) jump(label string) {
	if fe.state == stateTerminated {
		return
	}
	fmt.Fprintf(&fe.e.buf, "  br label %%%s\n", label)
	fe.state = stateTerminated
}

func (e *emitter) emitFunc(unitName string, fn *hir.Func) error {
	info := e.funcs[fn.ID]
	fe := &funcEmitter{e: e, table: e.gctx.Types, syms: e.gctx.Symbols}
	fe.slotTypes = make(map[ids.NodeID]types.Type)
	for _, p := range fn.Params {
		fe.slotTypes[p.ID] = e.gctx.Types.MustGet(p.ID)
	}
	if fn.Body != nil {
		fe.collectSlots(fn.Body)
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %%arg%d", llType(fe.slotTypes[p.ID]), i)
	}
	fmt.Fprintf(&e.buf, "define%s %s @%s(%s) {\n", linkageKeyword(fn, info), llType(info.ret), info.name, joinArgs(params))

	fe.startLabel("entry")
	slotIDs := make([]ids.NodeID, 0, len(fe.slotTypes))
	for id := range fe.slotTypes {
		slotIDs = append(slotIDs, id)
	}
	sort.Slice(slotIDs, func(i, j int) bool { return slotIDs[i] < slotIDs[j] })
	for _, id := range slotIDs {
		fe.line("%s = alloca %s", slotName(id), llType(fe.slotTypes[id]))
	}
	for i, p := range fn.Params {
		fe.line("store %s %%arg%d, ptr %s", llType(fe.slotTypes[p.ID]), i, slotName(p.ID))
	}

	var lastVal string
	var lastTy types.Type
	if fn.Body != nil {
		v, t, err := fe.emitBlock(fn.Body)
		if err != nil {
			return fmt.Errorf("function %q: %w", fn.Name, err)
		}
		lastVal, lastTy = v, t
	}
	if fe.state != stateTerminated {
		if info.ret.Kind == types.KindUnit {
			if err := fe.ret("ret void"); err != nil {
				return err
			}
		} else {
			if err := fe.ret("ret %s %s", llType(lastTy), lastVal); err != nil {
				return err
			}
		}
	}
	e.buf.WriteString("}\n\n")
	return nil
}

// linkageKeyword returns the `define` line's linkage prefix: " internal"
// for a private function, "" (the default, external) for a public one
// or for main, which is always externally callable regardless of its
// declared visibility.
func linkageKeyword(fn *hir.Func, info funcInfo) string {
	if fn.Name == "main" || info.vis == hir.Public {
		return ""
	}
	return " internal"
}

func joinArgs(params []string) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// collectSlots walks a function body recording every node that needs a
// stack slot: var bindings (always) and if-expressions whose value is
// actually used (non-Unit result type).
func (fe *funcEmitter) collectSlots(b *hir.Block) {
	for i := range b.Exprs {
		fe.collectExprSlots(&b.Exprs[i])
	}
}

func (fe *funcEmitter) collectExprSlots(ex *hir.Expr) {
	switch ex.Kind {
	case hir.ExprVarDef:
		fe.slotTypes[ex.ID] = fe.table.MustGet(ex.ID)
		fe.collectExprSlots(ex.VarInit)
	case hir.ExprBinary:
		fe.collectExprSlots(ex.Lhs)
		fe.collectExprSlots(ex.Rhs)
	case hir.ExprCall:
		for i := range ex.CallArgs {
			fe.collectExprSlots(&ex.CallArgs[i])
		}
	case hir.ExprReturn:
		if ex.ReturnValue != nil {
			fe.collectExprSlots(ex.ReturnValue)
		}
	case hir.ExprBlock:
		fe.collectSlots(ex.Block)
	case hir.ExprIf:
		ty := fe.table.MustGet(ex.ID)
		if ty.Kind != types.KindUnit {
			fe.slotTypes[ex.ID] = ty
		}
		fe.collectExprSlots(ex.Cond)
		fe.collectSlots(ex.Then)
		if ex.Else != nil {
			fe.collectExprSlots(ex.Else)
		}
	}
}
