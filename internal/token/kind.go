// Package token defines the lexical token kinds the lexer produces and the
// parser consumes.
//
// Invariants:
//   - Token.Text is a string copy of the token's bytes in the source buffer.
//   - Token.Span matches Text exactly (Start..End).
//   - Comments (`// ...`) and whitespace never reach the token stream.
package token

// Kind identifies the lexical category of a Token.
type Kind uint8

const (
	EOF Kind = iota
	Illegal

	Identifier
	IntLiteral
	FloatLiteral
	BoolLiteral
	StringLiteral

	Plus
	Minus
	Slash
	Star
	LParen
	RParen
	LBrace
	RBrace
	// LBracket/RBracket delimit the fixed-size array type `[T; N]`. The
	// grammar needs them even though they weren't called out alongside
	// the other fixed punctuation.
	LBracket
	RBracket
	Semicolon
	Comma
	Colon
	Assign
	Eq
	Lt
	Gt
	And
	Or
	Exclamation

	KwFunction
	KwReturn
	KwPublic
	KwPrivate
	KwIf
	KwElse
	KwExtern
	KwConst
	KwImport
)

var kindNames = map[Kind]string{
	EOF:           "EOF",
	Illegal:       "ILLEGAL",
	Identifier:    "IDENT",
	IntLiteral:    "INT",
	FloatLiteral:  "FLOAT",
	BoolLiteral:   "BOOL",
	StringLiteral: "STRING",
	Plus:          "PLUS",
	Minus:         "MINUS",
	Slash:         "SLASH",
	Star:          "STAR",
	LParen:        "LPAREN",
	RParen:        "RPAREN",
	LBrace:        "LBRACE",
	RBrace:        "RBRACE",
	LBracket:      "LBRACKET",
	RBracket:      "RBRACKET",
	Semicolon:     "SEMICOLON",
	Comma:         "COMMA",
	Colon:         "COLON",
	Assign:        "ASSIGN",
	Eq:            "EQ",
	Lt:            "LT",
	Gt:            "GT",
	And:           "AND",
	Or:            "OR",
	Exclamation:   "EXCLAMATION",
	KwFunction:    "FUNCTION",
	KwReturn:      "RETURN",
	KwPublic:      "PUBLIC",
	KwPrivate:     "PRIVATE",
	KwIf:          "IF",
	KwElse:        "ELSE",
	KwExtern:      "EXTERN",
	KwConst:       "CONST",
	KwImport:      "IMPORT",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// keywords maps a lowercase lexeme to its keyword Kind. Identifiers that
// are not in this table are plain Identifier tokens; built-in type names
// (Int, Float, ...) are identifiers here too -- they are recognized by
// the type-hint translator in internal/sema, not by the lexer.
var keywords = map[string]Kind{
	"fn":      KwFunction,
	"ret":     KwReturn,
	"pub":     KwPublic,
	"priv":    KwPrivate,
	"if":      KwIf,
	"else":    KwElse,
	"extern":  KwExtern,
	"const":   KwConst,
	"import":  KwImport,
}

// LookupKeyword reports whether lexeme is a reserved keyword.
func LookupKeyword(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}
