package llvm

import (
	"fmt"

	"corec/internal/types"
)

// llType renders a types.Type as the LLVM IR type it's represented by.
// Strings are immutable, nul-terminated, static-storage blobs, so they
// lower to an opaque byte pointer rather than a sized aggregate.
func llType(t types.Type) string {
	switch t.Kind {
	case types.KindInt:
		return "i64"
	case types.KindFloat:
		return "double"
	case types.KindBool:
		return "i1"
	case types.KindChar:
		return "i8"
	case types.KindUnit:
		return "void"
	case types.KindString:
		return "ptr"
	case types.KindArray:
		return fmt.Sprintf("[%d x %s]", t.Size, llType(*t.Elem))
	default:
		return "ptr"
	}
}
