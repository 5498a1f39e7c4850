package parser

import (
	"corec/internal/ast"
	"corec/internal/diag"
	"corec/internal/token"
)

// binPrec ranks binary operators from loosest- to tightest-binding; `||`
// is lowest, `*`/`/` highest. Operators tied for a level are
// left-associative.
var binPrec = map[token.Kind]int{
	token.Or:    1,
	token.And:   2,
	token.Eq:    3,
	token.Lt:    3,
	token.Gt:    3,
	token.Plus:  4,
	token.Minus: 4,
	token.Star:  5,
	token.Slash: 5,
}

var binOpFor = map[token.Kind]ast.BinOpToken{
	token.Plus:  ast.OpAdd,
	token.Minus: ast.OpSub,
	token.Star:  ast.OpMul,
	token.Slash: ast.OpDiv,
	token.And:   ast.OpAnd,
	token.Or:    ast.OpOr,
	token.Lt:    ast.OpLt,
	token.Gt:    ast.OpGt,
	token.Eq:    ast.OpEq,
}

// parseExpr implements `expr := literal | Ident | call | binop | if |
// block | "ret" expr? | vardef`, dispatching to a var-def look-ahead
// before falling into ordinary precedence-climbing.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	if p.looksLikeVarDef() {
		return p.parseVarDef()
	}
	return p.parseBinary(0)
}

// looksLikeVarDef recognizes `type Ident "=" ...` before committing to a
// parse: either the type is an array (`[` ...) or it's a bare type name
// immediately followed by another identifier and `=`.
func (p *Parser) looksLikeVarDef() bool {
	if p.at(token.LBracket) {
		return true
	}
	if !p.at(token.Identifier) {
		return false
	}
	if p.pos+1 >= len(p.toks) || p.toks[p.pos+1].Kind != token.Identifier {
		return false
	}
	return p.pos+2 < len(p.toks) && p.toks[p.pos+2].Kind == token.Assign
}

func (p *Parser) parseVarDef() (ast.Expr, bool) {
	ty, ok := p.parseType()
	if !ok {
		return ast.Expr{}, false
	}
	name, ok := p.expect(token.Identifier, "variable name")
	if !ok {
		return ast.Expr{}, false
	}
	if _, ok := p.expect(token.Assign, "'='"); !ok {
		return ast.Expr{}, false
	}
	init, ok := p.parseExpr()
	if !ok {
		return ast.Expr{}, false
	}
	return ast.Expr{
		Kind: ast.ExprVarDef, Span: ty.Span.Cover(init.Span),
		VarName: name.Text, VarType: &ty, VarInit: &init,
	}, true
}

func (p *Parser) parseBinary(minPrec int) (ast.Expr, bool) {
	lhs, ok := p.parsePrimary()
	if !ok {
		return ast.Expr{}, false
	}
	for {
		prec, isBin := binPrec[p.cur().Kind]
		if !isBin || prec < minPrec {
			return lhs, true
		}
		opTok := p.advance()
		rhs, ok := p.parseBinary(prec + 1)
		if !ok {
			return ast.Expr{}, false
		}
		op := binOpFor[opTok.Kind]
		l, r := lhs, rhs
		lhs = ast.Expr{Kind: ast.ExprBinary, Span: l.Span.Cover(r.Span), BinOp: op, Lhs: &l, Rhs: &r}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.cur()
	switch tok.Kind {
	case token.IntLiteral:
		p.advance()
		v, err := parseInt(tok.Text)
		if err != nil {
			p.errorf(diag.SynUnexpectedToken, tok.Span, "invalid integer literal %q", tok.Text)
			return ast.Expr{}, false
		}
		return ast.Expr{Kind: ast.ExprInt, Span: tok.Span, IntVal: v}, true
	case token.FloatLiteral:
		p.advance()
		v, err := parseFloat(tok.Text)
		if err != nil {
			p.errorf(diag.SynUnexpectedToken, tok.Span, "invalid float literal %q", tok.Text)
			return ast.Expr{}, false
		}
		return ast.Expr{Kind: ast.ExprFloat, Span: tok.Span, FloatVal: v}, true
	case token.BoolLiteral:
		p.advance()
		return ast.Expr{Kind: ast.ExprBool, Span: tok.Span, BoolVal: tok.Text == "true"}, true
	case token.StringLiteral:
		p.advance()
		return ast.Expr{Kind: ast.ExprString, Span: tok.Span, StrVal: unquote(tok.Text)}, true
	case token.Identifier:
		return p.parseIdentOrCall()
	case token.LBrace:
		return p.parseBlock2()
	case token.KwIf:
		return p.parseIf()
	case token.KwReturn:
		return p.parseReturn()
	default:
		p.errorf(diag.SynUnexpectedToken, tok.Span, "expected expression, found %s", tok.Kind)
		return ast.Expr{}, false
	}
}

func (p *Parser) parseIdentOrCall() (ast.Expr, bool) {
	name := p.advance()
	if !p.at(token.LParen) {
		return ast.Expr{Kind: ast.ExprIdent, Span: name.Span, Ident: name.Text}, true
	}
	p.advance() // '('
	var args []ast.Expr
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			return ast.Expr{}, false
		}
		args = append(args, arg)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end, ok := p.expect(token.RParen, "')'")
	if !ok {
		return ast.Expr{}, false
	}
	return ast.Expr{
		Kind: ast.ExprCall, Span: name.Span.Cover(end.Span),
		CallName: name.Text, CallArgs: args,
	}, true
}

// parseBlock2 wraps parseBlock's pointer-returning variant for call sites
// that just want an ast.Expr value.
func (p *Parser) parseBlock2() (ast.Expr, bool) {
	b, ok := p.parseBlock()
	if !ok {
		return ast.Expr{}, false
	}
	return *b, true
}

func (p *Parser) parseBlock() (*ast.Expr, bool) {
	start, ok := p.expect(token.LBrace, "'{'")
	if !ok {
		return nil, false
	}
	var stmts []ast.Expr
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			p.resyncToStmt()
			continue
		}
		if _, ok := p.expect(token.Semicolon, "';'"); !ok {
			p.resyncToStmt()
			continue
		}
		stmts = append(stmts, e)
	}
	end, ok := p.expect(token.RBrace, "'}'")
	if !ok {
		return nil, false
	}
	return &ast.Expr{Kind: ast.ExprBlock, Span: start.Span.Cover(end.Span), Block: stmts}, true
}

func (p *Parser) resyncToStmt() {
	for !p.at(token.EOF) && !p.at(token.Semicolon) && !p.at(token.RBrace) {
		p.advance()
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func (p *Parser) parseIf() (ast.Expr, bool) {
	start := p.advance().Span // 'if'
	cond, ok := p.parseExpr()
	if !ok {
		return ast.Expr{}, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return ast.Expr{}, false
	}
	span := start.Cover(then.Span)
	result := ast.Expr{Kind: ast.ExprIf, Span: span, Cond: &cond, Then: then}
	if p.at(token.KwElse) {
		p.advance()
		var elseExpr ast.Expr
		if p.at(token.KwIf) {
			e, ok := p.parseIf()
			if !ok {
				return ast.Expr{}, false
			}
			elseExpr = e
		} else {
			b, ok := p.parseBlock()
			if !ok {
				return ast.Expr{}, false
			}
			elseExpr = *b
		}
		result.Else = &elseExpr
		result.Span = result.Span.Cover(elseExpr.Span)
	}
	return result, true
}

func (p *Parser) parseReturn() (ast.Expr, bool) {
	start := p.advance().Span // 'ret'
	if p.at(token.Semicolon) {
		return ast.Expr{Kind: ast.ExprReturn, Span: start}, true
	}
	val, ok := p.parseExpr()
	if !ok {
		return ast.Expr{}, false
	}
	return ast.Expr{Kind: ast.ExprReturn, Span: start.Cover(val.Span), ReturnValue: &val}, true
}
