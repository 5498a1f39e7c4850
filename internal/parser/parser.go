// Package parser implements a recursive-descent parser that turns an
// internal/token stream into an internal/ast tree.
package parser

import (
	"fmt"

	"corec/internal/ast"
	"corec/internal/diag"
	"corec/internal/source"
	"corec/internal/token"
)

// Parser consumes a flat token slice and builds an ast.File.
type Parser struct {
	toks []token.Token
	pos  int
	bag  *diag.Bag
	file source.FileID
}

// New creates a Parser over toks, reporting syntax diagnostics into bag.
func New(toks []token.Token, file source.FileID, bag *diag.Bag) *Parser {
	return &Parser{toks: toks, file: file, bag: bag}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 || t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errorf(diag.SynExpectToken, p.cur().Span, "expected %s, found %s", what, p.cur().Kind)
	return token.Token{}, false
}

// expectArrow consumes the two-token "->" sequence (MINUS immediately
// followed by GT); there's no single ARROW token, so "->" is recognized
// here as an adjacent Minus/Gt pair.
func (p *Parser) expectArrow() bool {
	if p.at(token.Minus) && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Kind == token.Gt {
		p.advance()
		p.advance()
		return true
	}
	p.errorf(diag.SynExpectToken, p.cur().Span, "expected '->'")
	return false
}

func (p *Parser) errorf(code diag.Code, span source.Span, format string, args ...any) {
	if p.bag == nil {
		return
	}
	p.bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: code, Message: fmt.Sprintf(format, args...), Primary: span})
}

// ParseFile parses the whole token stream into an ast.File.
func (p *Parser) ParseFile(unitName string) *ast.File {
	start := p.cur().Span
	f := &ast.File{UnitName: unitName}
	for !p.at(token.EOF) {
		d, ok := p.parseDecl()
		if !ok {
			p.resyncToDecl()
			continue
		}
		f.Decls = append(f.Decls, d)
	}
	end := start
	if n := len(f.Decls); n > 0 {
		end = f.Decls[n-1].Span
	}
	f.Span = start.Cover(end)
	return f
}

// resyncToDecl skips tokens until one that plausibly starts a new
// top-level declaration, so a single malformed decl doesn't cascade into
// spurious errors for the rest of the file.
func (p *Parser) resyncToDecl() {
	for !p.at(token.EOF) {
		switch p.cur().Kind {
		case token.KwFunction, token.KwPublic, token.KwPrivate, token.KwExtern, token.KwImport:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseDecl() (ast.Decl, bool) {
	switch p.cur().Kind {
	case token.KwExtern:
		return p.parseExtern()
	case token.KwImport:
		return p.parseImport()
	case token.KwPublic, token.KwPrivate, token.KwFunction:
		return p.parseFunc()
	default:
		p.errorf(diag.SynUnexpectedToken, p.cur().Span, "expected declaration, found %s", p.cur().Kind)
		return ast.Decl{}, false
	}
}

func (p *Parser) parseFunc() (ast.Decl, bool) {
	start := p.cur().Span
	vis := ast.Private
	if p.at(token.KwPublic) {
		vis = ast.Public
		p.advance()
	} else if p.at(token.KwPrivate) {
		p.advance()
	}
	if _, ok := p.expect(token.KwFunction, "'fn'"); !ok {
		return ast.Decl{}, false
	}
	name, ok := p.expect(token.Identifier, "function name")
	if !ok {
		return ast.Decl{}, false
	}
	params, ok := p.parseParamList()
	if !ok {
		return ast.Decl{}, false
	}
	var ret *ast.TypeExpr
	if p.at(token.Minus) {
		if !p.expectArrow() {
			return ast.Decl{}, false
		}
		t, ok := p.parseType()
		if !ok {
			return ast.Decl{}, false
		}
		ret = &t
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.Decl{}, false
	}
	span := start.Cover(body.Span)
	return ast.Decl{
		Kind: ast.DeclFunc,
		Span: span,
		Func: &ast.FuncDecl{
			Name: name.Text, NameSpan: name.Span, Params: params,
			ReturnType: ret, Vis: vis, Body: *body,
		},
	}, true
}

func (p *Parser) parseExtern() (ast.Decl, bool) {
	start := p.cur().Span
	p.advance() // 'extern'
	if _, ok := p.expect(token.KwFunction, "'fn'"); !ok {
		return ast.Decl{}, false
	}
	name, ok := p.expect(token.Identifier, "function name")
	if !ok {
		return ast.Decl{}, false
	}
	params, ok := p.parseParamList()
	if !ok {
		return ast.Decl{}, false
	}
	if !p.expectArrow() {
		return ast.Decl{}, false
	}
	ret, ok := p.parseType()
	if !ok {
		return ast.Decl{}, false
	}
	semi, ok := p.expect(token.Semicolon, "';'")
	if !ok {
		return ast.Decl{}, false
	}
	return ast.Decl{
		Kind: ast.DeclExternFunc,
		Span: start.Cover(semi.Span),
		Extern: &ast.ExternDecl{
			Name: name.Text, NameSpan: name.Span, Params: params, ReturnType: ret,
		},
	}, true
}

func (p *Parser) parseImport() (ast.Decl, bool) {
	start := p.cur().Span
	p.advance() // 'import'
	name, ok := p.expect(token.Identifier, "import name")
	if !ok {
		return ast.Decl{}, false
	}
	target := name.Text
	semi, ok := p.expect(token.Semicolon, "';'")
	if !ok {
		return ast.Decl{}, false
	}
	return ast.Decl{
		Kind:   ast.DeclImport,
		Span:   start.Cover(semi.Span),
		Import: &ast.ImportDecl{Name: name.Text, Target: target},
	}, true
}

func (p *Parser) parseParamList() ([]ast.Param, bool) {
	if _, ok := p.expect(token.LParen, "'('"); !ok {
		return nil, false
	}
	var params []ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		name, ok := p.expect(token.Identifier, "parameter name")
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, "':'"); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		params = append(params, ast.Param{Name: name.Span, Text: name.Text, Type: ty})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RParen, "')'"); !ok {
		return nil, false
	}
	return params, true
}

// parseType implements `type := Ident | "[" type ";" Int "]"`.
func (p *Parser) parseType() (ast.TypeExpr, bool) {
	if p.at(token.Identifier) {
		t := p.advance()
		return ast.TypeExpr{Kind: ast.TypeNamed, Span: t.Span, Name: t.Text}, true
	}
	if p.at(token.LBracket) {
		return p.arrayType()
	}
	p.errorf(diag.SynUnknownTypeExpr, p.cur().Span, "expected type, found %s", p.cur().Kind)
	return ast.TypeExpr{}, false
}

func (p *Parser) arrayType() (ast.TypeExpr, bool) {
	start := p.advance().Span // '['
	elem, ok := p.parseType()
	if !ok {
		return ast.TypeExpr{}, false
	}
	if _, ok := p.expect(token.Semicolon, "';'"); !ok {
		return ast.TypeExpr{}, false
	}
	sizeTok, ok := p.expect(token.IntLiteral, "array size")
	if !ok {
		return ast.TypeExpr{}, false
	}
	size, perr := parseInt(sizeTok.Text)
	if perr != nil {
		p.errorf(diag.SynUnknownTypeExpr, sizeTok.Span, "invalid array size %q", sizeTok.Text)
		return ast.TypeExpr{}, false
	}
	end, ok := p.expect(token.RBracket, "']'")
	if !ok {
		return ast.TypeExpr{}, false
	}
	return ast.TypeExpr{Kind: ast.TypeArray, Span: start.Cover(end.Span), Elem: &elem, Size: size}, true
}
