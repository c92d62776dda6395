// Package parser turns a SysY token stream into an AST.
package parser

import (
	"fmt"
	"strings"

	"sysyc/internal/compileerr"
	"sysyc/internal/lexer"
)

// precedence ranks the binary operator ladder from loosest to tightest:
// || < && < ==/!= < relational < +- < */%.
var precedence = map[lexer.TokenType]int{
	lexer.TokenOr:      1,
	lexer.TokenAnd:     2,
	lexer.TokenEq:      3,
	lexer.TokenNe:      3,
	lexer.TokenLT:      4,
	lexer.TokenGT:      4,
	lexer.TokenLE:      4,
	lexer.TokenGE:      4,
	lexer.TokenPlus:    5,
	lexer.TokenMinus:   5,
	lexer.TokenStar:    6,
	lexer.TokenSlash:   6,
	lexer.TokenPercent: 6,
}

var binaryOps = map[lexer.TokenType]BinaryOp{
	lexer.TokenOr:      OpOr,
	lexer.TokenAnd:     OpAnd,
	lexer.TokenEq:      OpEq,
	lexer.TokenNe:      OpNe,
	lexer.TokenLT:      OpLt,
	lexer.TokenGT:      OpGt,
	lexer.TokenLE:      OpLe,
	lexer.TokenGE:      OpGe,
	lexer.TokenPlus:    OpAdd,
	lexer.TokenMinus:   OpSub,
	lexer.TokenStar:    OpMul,
	lexer.TokenSlash:   OpDiv,
	lexer.TokenPercent: OpMod,
}

// Parser is a recursive-descent parser over a pre-scanned token slice.
type Parser struct {
	tokens      []lexer.Token
	current     int
	file        string
	sourceLines []string
}

func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

func NewParserWithSource(tokens []lexer.Token, source, file string) *Parser {
	return &Parser{
		tokens:      tokens,
		file:        file,
		sourceLines: strings.Split(source, "\n"),
	}
}

// Parse consumes the whole token stream and returns the compilation unit.
// Syntax errors are reported by panicking with a *compileerr.Error; callers
// at the CLI boundary recover and convert the panic into a clean exit.
func (p *Parser) Parse() *CompUnit {
	var items []GlobalItem
	for !p.isAtEnd() {
		items = append(items, p.globalItem())
	}
	return &CompUnit{Items: items}
}

func (p *Parser) globalItem() GlobalItem {
	isConst := p.match(lexer.TokenConst)
	if isConst {
		decl := p.declAfterType(true, p.consumeType())
		p.consume(lexer.TokenSemicolon, "expect ';' after declaration")
		return decl
	}

	typeTok := p.consumeType()
	nameTok := p.consume(lexer.TokenIdent, "expect identifier")

	if p.check(lexer.TokenLParen) {
		return p.funcDefAfterName(typeTok, nameTok)
	}

	p.current--
	decl := p.declAfterType(false, typeTok)
	p.consume(lexer.TokenSemicolon, "expect ';' after declaration")
	return decl
}

func (p *Parser) consumeType() FuncType {
	if p.match(lexer.TokenVoid) {
		return FuncVoid
	}
	p.consume(lexer.TokenInt, "expect 'int' or 'void'")
	return FuncInt
}

func (p *Parser) funcDefAfterName(retType FuncType, nameTok lexer.Token) *FuncDef {
	p.consume(lexer.TokenLParen, "expect '(' after function name")
	var params []FuncParam
	if !p.check(lexer.TokenRParen) {
		params = append(params, p.funcParam())
		for p.match(lexer.TokenComma) {
			params = append(params, p.funcParam())
		}
	}
	p.consume(lexer.TokenRParen, "expect ')' after parameters")
	body := p.block()
	return &FuncDef{RetType: retType, Name: nameTok.Lexeme, Params: params, Body: body, Line: nameTok.Line}
}

func (p *Parser) funcParam() FuncParam {
	p.consume(lexer.TokenInt, "expect 'int' parameter type")
	nameTok := p.consume(lexer.TokenIdent, "expect parameter name")
	if !p.match(lexer.TokenLBracket) {
		return FuncParam{Name: nameTok.Lexeme}
	}
	p.consume(lexer.TokenRBracket, "expect ']' for array parameter")
	var dims []Exp
	for p.match(lexer.TokenLBracket) {
		dims = append(dims, p.expr())
		p.consume(lexer.TokenRBracket, "expect ']' after array dimension")
	}
	return FuncParam{Name: nameTok.Lexeme, IsArray: true, ArrayDims: dims}
}

// --- Expressions (precedence-climbing) ---

func (p *Parser) expr() Exp {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) Exp {
	left := p.parseUnary()
	for {
		tok := p.peek()
		prec, ok := precedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		left = &BinaryExp{Op: binaryOps[tok.Type], L: left, R: right, Line: tok.Line}
	}
	return left
}

func (p *Parser) parseUnary() Exp {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenPlus:
		p.advance()
		return &UnaryExp{Op: UnaryPlus, X: p.parseUnary(), Line: tok.Line}
	case lexer.TokenMinus:
		p.advance()
		return &UnaryExp{Op: UnaryNeg, X: p.parseUnary(), Line: tok.Line}
	case lexer.TokenNot:
		p.advance()
		return &UnaryExp{Op: UnaryNot, X: p.parseUnary(), Line: tok.Line}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() Exp {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		return &NumberExp{Value: tok.IntValue, Line: tok.Line}
	case lexer.TokenLParen:
		p.advance()
		e := p.expr()
		p.consume(lexer.TokenRParen, "expect ')' after expression")
		return e
	case lexer.TokenIdent:
		p.advance()
		if p.match(lexer.TokenLParen) {
			return p.finishCall(tok)
		}
		var indices []Exp
		for p.match(lexer.TokenLBracket) {
			indices = append(indices, p.expr())
			p.consume(lexer.TokenRBracket, "expect ']' after index")
		}
		return &LValExp{Name: tok.Lexeme, Indices: indices, Line: tok.Line}
	default:
		p.fail(tok, fmt.Sprintf("unexpected token in expression: %q", tok.Lexeme))
		return nil
	}
}

func (p *Parser) finishCall(nameTok lexer.Token) Exp {
	var args []Exp
	if !p.check(lexer.TokenRParen) {
		args = append(args, p.expr())
		for p.match(lexer.TokenComma) {
			args = append(args, p.expr())
		}
	}
	p.consume(lexer.TokenRParen, "expect ')' after arguments")
	return &CallExp{Name: nameTok.Lexeme, Args: args, Line: nameTok.Line}
}

// --- Token-stream utilities ---

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail(p.peek(), fmt.Sprintf("%s (got %q)", msg, p.peek().Lexeme))
	return lexer.Token{}
}

func (p *Parser) fail(tok lexer.Token, msg string) {
	err := compileerr.NewSyntaxError(msg, p.file, tok.Line, tok.Column)
	if p.sourceLines != nil && tok.Line > 0 && tok.Line <= len(p.sourceLines) {
		err = err.WithSource(p.sourceLines[tok.Line-1])
	}
	panic(err)
}

func (p *Parser) check(t lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.tokens[p.current-1]
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}
