// Package compiler exposes compile_unit, the single entry point that
// runs one compilation unit through every pipeline stage: lex, parse,
// lower to HIR, resolve names, infer and validate types, and emit one
// LLVM IR module per unit.
package compiler

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/backend/llvm"
	"corec/internal/ctx"
	"corec/internal/diag"
	"corec/internal/hir"
	"corec/internal/ids"
	"corec/internal/lexer"
	"corec/internal/observ"
	"corec/internal/parser"
	"corec/internal/sema"
	"corec/internal/source"
	"corec/internal/symbols"
)

// Source is one file handed to CompileUnit: a name (used for the unit's
// lowered file and for mangling) and its raw text.
type Source struct {
	Name    string
	Content []byte
}

// TargetSpec names the backend target a unit is compiled for.
type TargetSpec struct {
	Triple   string
	CPU      string
	Features []string
}

// BuildKind selects what shape of object CompileUnit produces.
type BuildKind uint8

const (
	// Executable produces a unit containing a linkable main entry point.
	Executable BuildKind = iota
	// ModulePack produces a unit meant to be combined with others,
	// exporting its public functions instead of requiring main.
	ModulePack
)

// Object is one unit's emitted artifact: its LLVM IR text plus the
// names it exports for a ModulePack build.
type Object struct {
	UnitName string
	IR       []byte
	Exports  []string
}

// maxDiagnostics bounds how many diagnostics a single unit can emit
// before CompileUnit stops collecting more and reports what it has.
const maxDiagnostics = 4096

// nodeIDs is the process-wide NodeID counter every unit lowers with, so
// node identity stays unique across all units compiled in one process.
var nodeIDs ids.Allocator

// CompileUnit runs sources (one compilation unit, possibly split across
// several files) through the full pipeline and returns the resulting
// object plus every diagnostic the pipeline collected. Every failure,
// including a backend-internal one, is reported through the returned
// Bag with Object left nil; the returned error is always nil. The
// returned FileSet resolves every span in Bag's diagnostics and is
// always non-nil, even on failure.
func CompileUnit(unitName string, sources []Source, target TargetSpec, build BuildKind) (*Object, *diag.Bag, *source.FileSet, error) {
	return CompileUnitTimed(unitName, sources, target, build, nil)
}

// CompileUnitTimed is CompileUnit with phase timings recorded into
// timer, the collaborator `corec build --timings` reads from. Pass nil
// to skip timing, which is what CompileUnit does.
func CompileUnitTimed(unitName string, sources []Source, target TargetSpec, build BuildKind, timer *observ.Timer) (*Object, *diag.Bag, *source.FileSet, error) {
	bag := diag.NewBag(maxDiagnostics)
	fset := source.NewFileSet()
	gctx := ctx.New(ctx.Config{
		ModuleName: unitName,
		Target:     ctx.TargetSpec{Triple: target.Triple, CPU: target.CPU},
		Build:      buildKindFor(build),
	})

	phase := func(name string, fn func()) {
		if timer == nil {
			fn()
			return
		}
		idx := timer.Begin(name)
		fn()
		timer.End(idx, "")
	}

	var astFiles []*ast.File
	phase("parse", func() {
		for _, src := range sources {
			fileID := fset.AddVirtual(src.Name, src.Content)
			file := fset.Get(fileID)

			toks := lexer.New(file, bag).Tokenize()
			astFile := parser.New(toks, fileID, bag).ParseFile(unitName)
			astFiles = append(astFiles, astFile)
		}
	})
	if bag.HasErrors() {
		return nil, bag, fset, nil
	}

	phase("lower", func() {
		for _, astFile := range astFiles {
			hirFile, errs := hir.Lower(astFile, &nodeIDs)
			for _, err := range errs {
				bag.Add(&diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.SemaUnsupportedConstruct,
					Message:  err.Error(),
				})
			}
			gctx.Files = append(gctx.Files, hirFile)
		}
	})
	if bag.HasErrors() {
		return nil, bag, fset, nil
	}

	phase("resolve", func() { gctx.Symbols = symbols.Resolve(gctx.Files, bag) })
	if bag.HasErrors() {
		return nil, bag, fset, nil
	}

	phase("infer", func() { sema.Infer(gctx.Files, gctx.Symbols, gctx.Types, bag) })
	if bag.HasErrors() {
		return nil, bag, fset, nil
	}

	phase("validate", func() { sema.Validate(gctx.Files, gctx.Types, bag) })
	if bag.HasErrors() {
		return nil, bag, fset, nil
	}

	if build == ModulePack {
		recordExports(gctx)
	}

	var ir string
	var emitErr error
	phase("emit", func() { ir, emitErr = llvm.EmitUnit(gctx) })
	if emitErr != nil {
		bag.Add(&diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.BackendInternal,
			Message:  fmt.Sprintf("backend: %v", emitErr),
		})
		return nil, bag, fset, nil
	}

	return &Object{UnitName: unitName, IR: []byte(ir), Exports: gctx.Exports}, bag, fset, nil
}

func buildKindFor(b BuildKind) ctx.BuildKind {
	if b == ModulePack {
		return ctx.BuildAssembly
	}
	return ctx.BuildObject
}

func recordExports(gctx *ctx.GlobalContext) {
	for _, f := range gctx.Files {
		for _, item := range f.Decls {
			if item.Kind == hir.ItemFunc && item.Func.Vis == hir.Public {
				gctx.RecordExport(item.Func.Name)
			}
		}
	}
}
