// Package parser builds an AST from a token stream using a Pratt
// (precedence-climbing) expression parser combined with recursive-descent
// statement parsing.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/token"
)

// Precedence levels, lowest to highest, mirroring spec.md §6's grammar
// summary. PIPECHAIN sits just above LOWEST: the ZF-expression `|` chains
// source | mapper | predicate at the loosest real binding of all, looser
// even than comparisons, so a mapper/predicate sub-expression (frequently
// itself an arrow-bodied lambda, whose body is parsed at this same
// PIPECHAIN floor) stops at the next `|` instead of swallowing it.
const (
	LOWEST int = iota
	PIPECHAIN
	ASSIGNMENT
	TERNARY
	LOGIC_OR
	LOGIC_AND
	EQUALITY
	RELATIONAL
	RANGE_COMPREHENSION
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX
	CALL
)

var precedences = map[token.Type]int{
	token.ASSIGN:   ASSIGNMENT,
	token.QUESTION: TERNARY,
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALITY,
	token.NEQ:      EQUALITY,
	token.LT:       RELATIONAL,
	token.LTE:      RELATIONAL,
	token.GT:       RELATIONAL,
	token.GTE:      RELATIONAL,
	token.DOTDOT:   RANGE_COMPREHENSION,
	token.PIPE:     PIPECHAIN,
	token.PLUS:     ADDITIVE,
	token.MINUS:    ADDITIVE,
	token.STAR:     MULTIPLICATIVE,
	token.SLASH:    MULTIPLICATIVE,
	token.PERCENT:  MULTIPLICATIVE,
	token.INC:      POSTFIX,
	token.DEC:      POSTFIX,
	token.LBRACKET: CALL,
	token.LPAREN:   CALL,
	token.POW:      CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a token stream from the lexer and produces an *ast.Program.
// Errors are collected rather than raised: the parser attempts best-effort
// recovery by resuming statement parsing at the token after a failed
// statement, per spec.md §7.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{}
	p.infixParseFns = map[token.Type]infixParseFn{}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.FLOAT, p.parseRealLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.CHAR, p.parseCharLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.NIL, p.parseNilLiteral)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.NOT, p.parsePrefixExpression)
	p.registerPrefix(token.AMP, p.parseLambda)
	p.registerPrefix(token.BLESS, p.parseBless)
	p.registerPrefix(token.TYPEOF, p.parseTypeof)
	p.registerPrefix(token.MATCHRE, p.parseMatchre)
	for _, t := range []token.Type{
		token.SIZE, token.EMPTY, token.APPEND, token.PUSH,
		token.FIRST, token.REST, token.MAP, token.FILTER,
		token.REDUCE, token.SORT,
	} {
		p.registerPrefix(t, p.parseListOpCall)
	}

	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.STAR, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.PERCENT, p.parseInfixExpression)
	p.registerInfix(token.POW, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NEQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.LTE, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.GTE, p.parseInfixExpression)
	p.registerInfix(token.AND, p.parseLogicalExpression)
	p.registerInfix(token.OR, p.parseLogicalExpression)
	p.registerInfix(token.ASSIGN, p.parseAssignExpression)
	p.registerInfix(token.QUESTION, p.parseTernaryExpression)
	p.registerInfix(token.DOTDOT, p.parseRangeExpression)
	p.registerInfix(token.PIPE, p.parseComprehensionExpression)
	p.registerInfix(token.LBRACKET, p.parseSubscriptExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.INC, p.parsePostfixExpression)
	p.registerInfix(token.DEC, p.parsePostfixExpression)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)    { p.infixParseFns[t] = fn }

// Errors returns accumulated parse diagnostics.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: expected next token to be %s, got %s instead",
		p.peekToken.Pos.Line, p.peekToken.Pos.Column, t, p.peekToken.Type))
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: no prefix parse function for %s found",
		t.Pos.Line, t.Pos.Column, t.Type))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the full token stream into a Program, recovering from
// statement-level errors by resuming statement parsing at the next token.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	p.foldLexErrors()
	return program
}

// foldLexErrors merges the lexer's accumulated diagnostics (unterminated
// strings, unrecognized characters) into p.errors as diag.Lexical entries,
// so every caller that already checks Errors() sees them too instead of
// needing a second accumulator to consult.
func (p *Parser) foldLexErrors() {
	for _, le := range p.l.Errors() {
		p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s: %s",
			le.Pos.Line, le.Pos.Column, diag.Lexical, le.Message))
	}
}
