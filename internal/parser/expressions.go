package parser

import (
	"strconv"

	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/token"
)

// parseExpression is the Pratt-parser core: parse a prefix, then repeatedly
// fold in infix/postfix operators while they bind tighter than precedence.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errors = append(p.errors, "could not parse "+tok.Literal+" as integer")
		return nil
	}
	return &ast.IntLiteral{Token: tok, Value: v}
}

func (p *Parser) parseRealLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, "could not parse "+tok.Literal+" as real")
		return nil
	}
	return &ast.RealLiteral{Token: tok, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.Atoi(tok.Literal)
	if err != nil {
		p.errors = append(p.errors, "could not parse "+tok.Literal+" as character code")
		return nil
	}
	return &ast.CharLiteral{Token: tok, Value: rune(v)}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.curToken
	lit := &ast.ListLiteral{Token: tok}
	lit.Elements = p.parseExpressionList(token.RBRACKET)
	return lit
}

// parseExpressionList parses a comma-separated expression list up to (and
// consuming) the `end` delimiter. curToken is the opening delimiter on
// entry.
func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return list
	}
	return list
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	op := tok.Literal
	p.nextToken()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpr{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	return &ast.UnaryExpr{Token: tok, Operator: tok.Literal, Operand: left, Postfix: true}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpr{Token: tok, Operator: op, Left: left, Right: right}
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.LogicalExpr{Token: tok, Operator: op, Left: left, Right: right}
}

func (p *Parser) parseTernaryExpression(cond ast.Expression) ast.Expression {
	tok := p.curToken // '?'
	p.nextToken()
	then := p.parseExpression(TERNARY)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	alt := p.parseExpression(TERNARY)
	return &ast.TernaryExpr{Token: tok, Cond: cond, Then: then, Else: alt}
}

// parseAssignExpression requires the left side to be an *Identifier or
// *SubscriptExpr; anything else is a parse error but parsing continues with
// a best-effort node so diagnostics never abort (spec.md §7).
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	switch left.(type) {
	case *ast.Identifier, *ast.SubscriptExpr:
	default:
		p.errors = append(p.errors, "invalid assignment target")
	}
	p.nextToken()
	value := p.parseExpression(ASSIGNMENT - 1)
	return &ast.AssignExpr{Token: tok, Target: left, Value: value}
}

func (p *Parser) parseRangeExpression(low ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	high := p.parseExpression(RANGE_COMPREHENSION)
	return &ast.RangeExpr{Token: tok, Low: low, High: high}
}

func (p *Parser) parseComprehensionExpression(source ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	mapper := p.parseExpression(PIPECHAIN)
	expr := &ast.ComprehensionExpr{Token: tok, Source: source, Mapper: mapper}
	if p.peekTokenIs(token.PIPE) {
		p.nextToken()
		p.nextToken()
		expr.Predicate = p.parseExpression(PIPECHAIN)
	}
	return expr
}

func (p *Parser) parseSubscriptExpression(container ast.Expression) ast.Expression {
	tok := p.curToken // '['
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.SubscriptExpr{Token: tok, Container: container, Index: index}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.curToken // '('
	args := p.parseExpressionList(token.RPAREN)
	return &ast.CallExpr{Token: tok, Callee: callee, Args: args}
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.curToken // '&'
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParamList()
	lambda := &ast.LambdaExpr{Token: tok, Params: params}
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		// PIPECHAIN, not LOWEST: an arrow body must not swallow a `|` that
		// belongs to an enclosing comprehension chain (see PIPECHAIN's
		// doc comment in parser.go).
		lambda.ExprBody = p.parseExpression(PIPECHAIN)
		return lambda
	}
	if !p.expectPeek(token.LBRACE) {
		return lambda
	}
	block := p.parseBlockStmt().(*ast.BlockStmt)
	lambda.Body = block.Statements
	return lambda
}

func (p *Parser) parseBless() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.BlessExpr{Token: tok, TypeName: p.curToken.Literal}
}

func (p *Parser) parseTypeof() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	operand := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.TypeofExpr{Token: tok, Operand: operand}
}

// parseMatchre recognizes `matchre(text, pattern)` call syntax and produces
// a dedicated RegexExpr node (SPEC_FULL.md §4: surface syntax from
// original_source/, AST shape from spec.md's REG_EXPR).
func (p *Parser) parseMatchre() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	text := p.parseExpression(LOWEST)
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.nextToken()
	pattern := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.RegexExpr{Token: tok, Text: text, Pattern: pattern}
}

var listOpByToken = map[token.Type]ast.ListOp{
	token.SIZE:   ast.OpSize,
	token.EMPTY:  ast.OpEmpty,
	token.APPEND: ast.OpAppend,
	token.PUSH:   ast.OpPush,
	token.FIRST:  ast.OpFirst,
	token.REST:   ast.OpRest,
	token.MAP:    ast.OpMap,
	token.FILTER: ast.OpFilter,
	token.REDUCE: ast.OpReduce,
	token.SORT:   ast.OpSort,
}

// parseListOpCall parses one of the builtin list operator call forms, e.g.
// `size(xs)`, `map(xs, f)`, `reduce(xs, f)`.
func (p *Parser) parseListOpCall() ast.Expression {
	tok := p.curToken
	op := listOpByToken[tok.Type]
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args := p.parseExpressionList(token.RPAREN)
	return &ast.ListOpExpr{Token: tok, Op: op, Args: args}
}
