// Package ctx defines GlobalContext, the single mutable state object a
// compile_unit call threads through every pipeline stage. Go needs no
// interior-mutability wrapper for this the way the reference toolchain
// does: passing *GlobalContext around already gives every stage a
// shared, mutable view.
package ctx

import (
	"corec/internal/hir"
	"corec/internal/ids"
	"corec/internal/symbols"
	"corec/internal/types"
)

// BuildKind selects what a compile_unit call asks the backend to
// produce.
type BuildKind uint8

const (
	BuildObject BuildKind = iota
	BuildAssembly
)

// TargetSpec names the backend's target triple and CPU, mirroring the
// fields internal/backend/llvm needs to stamp onto every emitted
// module.
type TargetSpec struct {
	Triple string
	CPU    string
}

// Config carries the per-unit settings a compile_unit invocation is
// parameterized over.
type Config struct {
	ModuleName string
	Target     TargetSpec
	Build      BuildKind
}

// GlobalContext owns everything a unit's pipeline stages share: the
// lowered HIR files, the TypeTable, the SymbolMap, the list of publicly
// exported names, and the unit's Config. Every stage receives a
// *GlobalContext and mutates it directly.
type GlobalContext struct {
	Alloc   ids.Allocator
	Files   []*hir.File
	Types   *types.Table
	Symbols *symbols.Map
	Exports []string
	Config  Config
}

// New returns a GlobalContext with empty tables, ready for a unit's
// files to be lowered into it.
func New(cfg Config) *GlobalContext {
	return &GlobalContext{
		Types:   types.NewTable(),
		Symbols: symbols.NewMap(),
		Config:  cfg,
	}
}

// RecordExport appends name to the unit's exported-symbol list if it
// isn't already present.
func (c *GlobalContext) RecordExport(name string) {
	for _, e := range c.Exports {
		if e == name {
			return
		}
	}
	c.Exports = append(c.Exports, name)
}
