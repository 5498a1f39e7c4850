package diag

import "fmt"

// Code identifies the kind of a Diagnostic. Codes are banded by pipeline
// stage, the same convention as the rest of the toolchain: 1000s lexical,
// 2000s syntax, 3000s semantic (resolution + typing), 4000s backend.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical.
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntax.
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectToken       Code = 2003
	SynUnsupportedOp     Code = 2004
	SynUnknownTypeExpr   Code = 2005

	// Semantic: lowering.
	SemaUnsupportedConstruct Code = 3001

	// Semantic: name resolution.
	SemaUndefinedSymbol     Code = 3010
	SemaDuplicateDefinition Code = 3011

	// Semantic: typing.
	SemaTypeMismatch   Code = 3020
	SemaUnresolvedType Code = 3021

	// Backend.
	BackendInternal Code = 4001
)

var codeNames = map[Code]string{
	UnknownCode:              "unknown",
	LexUnknownChar:           "lex-unknown-char",
	LexUnterminatedString:    "lex-unterminated-string",
	LexBadNumber:             "lex-bad-number",
	SynUnexpectedToken:       "syntax-unexpected-token",
	SynExpectIdentifier:      "syntax-expect-identifier",
	SynExpectToken:           "syntax-expect-token",
	SynUnsupportedOp:         "syntax-unsupported-operator",
	SynUnknownTypeExpr:       "syntax-unknown-type",
	SemaUnsupportedConstruct: "unsupported-construct",
	SemaUndefinedSymbol:      "undefined-symbol",
	SemaDuplicateDefinition:  "duplicate-definition",
	SemaTypeMismatch:         "type-mismatch",
	SemaUnresolvedType:       "unresolved-type",
	BackendInternal:          "backend-internal",
}

// ID renders the code as a stable, greppable identifier like "SEM3020".
func (c Code) ID() string {
	switch n := uint16(c); {
	case n >= 1000 && n < 2000:
		return fmt.Sprintf("LEX%04d", n)
	case n >= 2000 && n < 3000:
		return fmt.Sprintf("SYN%04d", n)
	case n >= 3000 && n < 4000:
		return fmt.Sprintf("SEM%04d", n)
	case n >= 4000 && n < 5000:
		return fmt.Sprintf("BCK%04d", n)
	default:
		return "E0000"
	}
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}
