package lexer_test

import (
	"testing"

	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, source string) []token.Type {
	t.Helper()
	l := lexer.New(source)
	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	return types
}

func TestNextTokenOperators(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []token.Type
	}{
		{"assign", ":=", []token.Type{token.ASSIGN, token.EOF}},
		{"colon alone", ":", []token.Type{token.COLON, token.EOF}},
		{"pow", "**", []token.Type{token.POW, token.EOF}},
		{"star", "* 2", []token.Type{token.STAR, token.INT, token.EOF}},
		{"arrow", "->", []token.Type{token.ARROW, token.EOF}},
		{"dec", "--", []token.Type{token.DEC, token.EOF}},
		{"minus", "- 1", []token.Type{token.MINUS, token.INT, token.EOF}},
		{"dotdot", "..", []token.Type{token.DOTDOT, token.EOF}},
		{"and", "&&", []token.Type{token.AND, token.EOF}},
		{"amp", "& x", []token.Type{token.AMP, token.IDENT, token.EOF}},
		{"eq", "==", []token.Type{token.EQ, token.EOF}},
		{"neq", "!=", []token.Type{token.NEQ, token.EOF}},
		{"lte", "<=", []token.Type{token.LTE, token.EOF}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tokenTypes(t, tc.in))
		})
	}
}

func TestNextTokenNumbers(t *testing.T) {
	l := lexer.New("42 3.14 1e10 2.5e-3")
	intTok := l.NextToken()
	assert.Equal(t, token.INT, intTok.Type)
	assert.Equal(t, "42", intTok.Literal)

	floatTok := l.NextToken()
	assert.Equal(t, token.FLOAT, floatTok.Type)
	assert.Equal(t, "3.14", floatTok.Literal)

	expTok := l.NextToken()
	assert.Equal(t, token.FLOAT, expTok.Type)
	assert.Equal(t, "1e10", expTok.Literal)

	expNegTok := l.NextToken()
	assert.Equal(t, token.FLOAT, expNegTok.Type)
	assert.Equal(t, "2.5e-3", expNegTok.Literal)
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := lexer.New(`"a\nb\tc\\d"`)
	tok := l.NextToken()
	require.Equal(t, token.STRING, tok.Type)
	assert.Equal(t, "a\nb\tc\\d", tok.Literal)
}

func TestNextTokenUnterminatedStringReportsErrorNotPanic(t *testing.T) {
	l := lexer.New(`"unterminated`)
	tok := l.NextToken()
	assert.Equal(t, token.ILLEGAL, tok.Type)
	require.Len(t, l.Errors(), 1)
	assert.Contains(t, l.Errors()[0].Message, "unterminated")
}

func TestNextTokenCharLiteral(t *testing.T) {
	l := lexer.New("#65")
	tok := l.NextToken()
	require.Equal(t, token.CHAR, tok.Type)
	assert.Equal(t, "65", tok.Literal)
}

func TestNextTokenSkipsLineAndBlockComments(t *testing.T) {
	types := tokenTypes(t, "1 // trailing\n/* block */ 2")
	assert.Equal(t, []token.Type{token.INT, token.INT, token.EOF}, types)
}

func TestNextTokenKeywordsLookup(t *testing.T) {
	types := tokenTypes(t, "let func return if else")
	assert.Equal(t, []token.Type{token.LET, token.FUNC, token.RETURN, token.IF, token.ELSE, token.EOF}, types)
}

func TestNextTokenUnicodeIdentifierColumnsCountRunes(t *testing.T) {
	l := lexer.New("café x")
	tok := l.NextToken()
	require.Equal(t, token.IDENT, tok.Type)
	assert.Equal(t, "café", tok.Literal)

	next := l.NextToken()
	require.Equal(t, token.IDENT, next.Type)
	assert.Equal(t, 6, next.Pos.Column, "column counted in runes, not bytes")
}

func TestNextTokenUnrecognizedCharacterReportsError(t *testing.T) {
	l := lexer.New("1 @ 2")
	l.NextToken()
	illegal := l.NextToken()
	assert.Equal(t, token.ILLEGAL, illegal.Type)
	require.Len(t, l.Errors(), 1)
}
