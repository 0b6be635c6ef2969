package parser

import (
	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.PRINT:
		return p.parsePrintStmt(false)
	case token.PRINTLN:
		return p.parsePrintStmt(true)
	case token.LET, token.VAR:
		return p.parseLetStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.FUNC, token.DEF:
		return p.parseFuncDefStmt()
	case token.STRUCT:
		return p.parseStructDefStmt()
	case token.LBRACE:
		return p.parseBlockStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parsePrintStmt(newline bool) ast.Statement {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(LOWEST)
	p.skipSemicolon()
	return &ast.PrintStmt{Token: tok, Value: value, Newline: newline}
}

func (p *Parser) parseLetStmt() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	p.skipSemicolon()
	return &ast.LetStmt{Token: tok, Name: name, Value: value}
}

func (p *Parser) parseExprStmt() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	p.skipSemicolon()
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{Token: tok, Expr: expr}
}

func (p *Parser) parseIfStmt() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	then := p.parseBlockStmt().(*ast.BlockStmt)

	stmt := &ast.IfStmt{Token: tok, Condition: cond, Then: then}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return stmt
		}
		stmt.Else = p.parseBlockStmt().(*ast.BlockStmt)
	}
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStmt().(*ast.BlockStmt)
	return &ast.WhileStmt{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseReturnStmt() ast.Statement {
	tok := p.curToken
	stmt := &ast.ReturnStmt{Token: tok}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		p.skipSemicolon()
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseFuncDefStmt() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParamList()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStmt().(*ast.BlockStmt)
	return &ast.FuncDefStmt{Token: tok, Name: name, Params: params, Body: body.Statements}
}

// parseParamList parses `(a, b, c)` assuming curToken == '('; leaves
// curToken on the closing ')'.
func (p *Parser) parseParamList() []*ast.Identifier {
	var params []*ast.Identifier
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}
	if !p.expectPeek(token.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parseStructDefStmt() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	var fields []*ast.StructField
	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		if !p.curTokenIs(token.IDENT) {
			p.errors = append(p.errors, "expected field name in struct definition")
			continue
		}
		fields = append(fields, &ast.StructField{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}})
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	p.skipSemicolon()
	return &ast.StructDefStmt{Token: tok, Name: name, Fields: fields}
}

func (p *Parser) parseBlockStmt() ast.Statement {
	tok := p.curToken // '{'
	block := &ast.BlockStmt{Token: tok}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}
