// internal/parser/stmt.go
package parser

import "sysyc/internal/lexer"

// declAfterType parses the comma-separated definition list following a
// type keyword (and optional leading `const`) already consumed by the
// caller: `int a = 1, b[3], c;`.
func (p *Parser) declAfterType(isConst bool, _ FuncType) *Decl {
	line := p.peek().Line
	var defs []Def
	defs = append(defs, p.def(isConst))
	for p.match(lexer.TokenComma) {
		defs = append(defs, p.def(isConst))
	}
	return &Decl{IsConst: isConst, Defs: defs, Line: line}
}

func (p *Parser) def(isConst bool) Def {
	nameTok := p.consume(lexer.TokenIdent, "expect identifier in declaration")
	var dims []Exp
	for p.match(lexer.TokenLBracket) {
		dims = append(dims, p.expr())
		p.consume(lexer.TokenRBracket, "expect ']' after array dimension")
	}

	if isConst || p.check(lexer.TokenAssign) {
		p.consume(lexer.TokenAssign, "expect '=' in declaration")
		return Def{Name: nameTok.Lexeme, Dims: dims, Init: p.initVal()}
	}
	return Def{Name: nameTok.Lexeme, Dims: dims}
}

func (p *Parser) initVal() InitVal {
	if !p.match(lexer.TokenLBrace) {
		return &ExpInitVal{Exp: p.expr()}
	}
	var items []InitVal
	if !p.check(lexer.TokenRBrace) {
		items = append(items, p.initVal())
		for p.match(lexer.TokenComma) {
			items = append(items, p.initVal())
		}
	}
	p.consume(lexer.TokenRBrace, "expect '}' after initializer list")
	return &InitList{Items: items}
}

func (p *Parser) block() *Block {
	p.consume(lexer.TokenLBrace, "expect '{' to start block")
	var items []BlockItem
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		items = append(items, p.blockItem())
	}
	p.consume(lexer.TokenRBrace, "expect '}' after block")
	return &Block{Items: items}
}

func (p *Parser) blockItem() BlockItem {
	if p.check(lexer.TokenConst) || p.check(lexer.TokenInt) {
		isConst := p.match(lexer.TokenConst)
		typeTok := p.consumeType()
		decl := p.declAfterType(isConst, typeTok)
		p.consume(lexer.TokenSemicolon, "expect ';' after declaration")
		return BlockItem{Decl: decl}
	}
	return BlockItem{Stmt: p.stmt()}
}

func (p *Parser) stmt() Stmt {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenLBrace:
		return p.block()
	case lexer.TokenIf:
		return p.ifStmt()
	case lexer.TokenWhile:
		return p.whileStmt()
	case lexer.TokenBreak:
		p.advance()
		p.consume(lexer.TokenSemicolon, "expect ';' after 'break'")
		return &BreakStmt{Line: tok.Line}
	case lexer.TokenContinue:
		p.advance()
		p.consume(lexer.TokenSemicolon, "expect ';' after 'continue'")
		return &ContinueStmt{Line: tok.Line}
	case lexer.TokenReturn:
		p.advance()
		var e Exp
		if !p.check(lexer.TokenSemicolon) {
			e = p.expr()
		}
		p.consume(lexer.TokenSemicolon, "expect ';' after return statement")
		return &ReturnStmt{Exp: e, Line: tok.Line}
	case lexer.TokenSemicolon:
		p.advance()
		return &ExpStmt{}
	default:
		return p.assignOrExpStmt()
	}
}

// assignOrExpStmt disambiguates `lval = exp;` from a bare expression
// statement by speculatively parsing an lvalue-shaped expression and
// checking what follows it.
func (p *Parser) assignOrExpStmt() Stmt {
	save := p.current
	line := p.peek().Line
	e := p.expr()
	if lv, ok := e.(*LValExp); ok && p.check(lexer.TokenAssign) {
		p.advance()
		rhs := p.expr()
		p.consume(lexer.TokenSemicolon, "expect ';' after assignment")
		return &AssignStmt{LVal: lv, Exp: rhs, Line: line}
	}
	p.current = save
	e = p.expr()
	p.consume(lexer.TokenSemicolon, "expect ';' after expression statement")
	return &ExpStmt{Exp: e}
}

func (p *Parser) ifStmt() Stmt {
	line := p.peek().Line
	p.advance()
	p.consume(lexer.TokenLParen, "expect '(' after 'if'")
	cond := p.expr()
	p.consume(lexer.TokenRParen, "expect ')' after condition")
	then := p.stmt()
	var elseStmt Stmt
	if p.match(lexer.TokenElse) {
		elseStmt = p.stmt()
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseStmt, Line: line}
}

func (p *Parser) whileStmt() Stmt {
	line := p.peek().Line
	p.advance()
	p.consume(lexer.TokenLParen, "expect '(' after 'while'")
	cond := p.expr()
	p.consume(lexer.TokenRParen, "expect ')' after condition")
	body := p.stmt()
	return &WhileStmt{Cond: cond, Body: body, Line: line}
}
