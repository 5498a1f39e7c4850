package llvm

import (
	"strings"

	"corec/internal/types"
)

// shortType renders t using the single-letter alphabet the mangling
// scheme uses: Int->i, Bool->b, Char->c, Float->f, Unit->v, String->s.
// Arrays and any other shape fall back to "u" (custom/unknown).
func shortType(t types.Type) string {
	switch t.Kind {
	case types.KindInt:
		return "i"
	case types.KindBool:
		return "b"
	case types.KindChar:
		return "c"
	case types.KindFloat:
		return "f"
	case types.KindUnit:
		return "v"
	case types.KindString:
		return "s"
	default:
		return "u"
	}
}

// mangle builds the internal linkage name for a function: unmangled for
// "main" and for extern declarations (handled by the caller never
// calling mangle on them), mangled as
// _ZN_<unitName>_<funcName>_<retShort>[_<argShort>]* otherwise.
func mangle(unitName, funcName string, ret types.Type, params []types.Type) string {
	var b strings.Builder
	b.WriteString("_ZN_")
	b.WriteString(unitName)
	b.WriteByte('_')
	b.WriteString(funcName)
	b.WriteByte('_')
	b.WriteString(shortType(ret))
	for _, p := range params {
		b.WriteByte('_')
		b.WriteString(shortType(p))
	}
	return b.String()
}

// linkName returns the symbol name a function is emitted under:
// unmangled for "main" and extern declarations, mangled otherwise.
func linkName(unitName, funcName string, external bool, ret types.Type, params []types.Type) string {
	if external || funcName == "main" {
		return funcName
	}
	return mangle(unitName, funcName, ret, params)
}
