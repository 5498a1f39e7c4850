// Package testkit provides small invariant checks shared across the
// pipeline's test suites, so each package's tests assert the same span
// invariants the same way instead of re-deriving them.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"corec/internal/ast"
	"corec/internal/source"
)

// CheckSpanInvariants asserts a parsed file's span structure:
//  1. the file's own span is non-empty and within its content's bounds
//  2. every declaration's span is non-empty and contained in the file's span
//  3. the file's span covers the union of its declarations' spans
func CheckSpanInvariants(file *ast.File, sf *source.File) error {
	if file == nil || sf == nil {
		return fmt.Errorf("nil file or source file")
	}
	if file.Span.End <= file.Span.Start {
		return fmt.Errorf("file span is empty: %v", file.Span)
	}
	if file.Span.File != sf.ID {
		return fmt.Errorf("file span points to a different file id: got=%d want=%d", file.Span.File, sf.ID)
	}
	contentLen, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length overflow: %w", err)
	}
	if file.Span.End > contentLen {
		return fmt.Errorf("file span end beyond content: %d > %d", file.Span.End, contentLen)
	}

	var union source.Span
	var haveDecl bool
	for _, d := range file.Decls {
		sp := d.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty decl span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("decl span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < file.Span.Start || sp.End > file.Span.End {
			return fmt.Errorf("decl span %v is outside file span %v", sp, file.Span)
		}
		if !haveDecl {
			union = sp
			haveDecl = true
		} else {
			union = union.Cover(sp)
		}
	}
	if haveDecl && (union.Start < file.Span.Start || union.End > file.Span.End) {
		return fmt.Errorf("file span %v does not cover the union of decl spans %v", file.Span, union)
	}
	return nil
}
