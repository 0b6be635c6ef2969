package parser_test

import (
	"testing"

	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseProgram(t *testing.T, source string) *ast.Program {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "source: %s", source)
	return program
}

func TestParseLetStmt(t *testing.T) {
	program := parseProgram(t, "let x := 1 + 2")
	require.Len(t, program.Statements, 1)
	letStmt, ok := program.Statements[0].(*ast.LetStmt)
	require.True(t, ok)
	assert.Equal(t, "x", letStmt.Name.Value)
	bin, ok := letStmt.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Operator)
}

func TestParseOperatorPrecedence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mul before add", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"pow binds tighter than mul", "2 * 3 ** 2", "(2 * (3 ** 2))"},
		{"comparisons below additive", "1 + 2 < 3 + 4", "((1 + 2) < (3 + 4))"},
		{"logical and below or", "true || false && true", "(true || (false && true))"},
		{"grouping overrides", "(1 + 2) * 3", "((1 + 2) * 3)"},
		{"unary minus", "-1 + 2", "((-1) + 2)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			program := parseProgram(t, tc.in)
			require.Len(t, program.Statements, 1)
			exprStmt, ok := program.Statements[0].(*ast.ExprStmt)
			require.True(t, ok)
			assert.Equal(t, tc.want, exprStmt.Expr.String())
		})
	}
}

func TestParseIfElse(t *testing.T) {
	program := parseProgram(t, "if (x < 2) { return 1 } else { return 2 }")
	require.Len(t, program.Statements, 1)
	ifStmt, ok := program.Statements[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)
	assert.Len(t, ifStmt.Then.Statements, 1)
	assert.Len(t, ifStmt.Else.Statements, 1)
}

func TestParseFuncDef(t *testing.T) {
	program := parseProgram(t, "func add(a, b) { return a + b }")
	require.Len(t, program.Statements, 1)
	fn, ok := program.Statements[0].(*ast.FuncDefStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Value)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Value)
	assert.Equal(t, "b", fn.Params[1].Value)
}

func TestParseStructDef(t *testing.T) {
	program := parseProgram(t, "struct Point { x; y; }")
	require.Len(t, program.Statements, 1)
	def, ok := program.Statements[0].(*ast.StructDefStmt)
	require.True(t, ok)
	assert.Equal(t, "Point", def.Name)
	require.Len(t, def.Fields, 2)
	assert.Equal(t, "x", def.Fields[0].Name.Value)
	assert.Equal(t, "y", def.Fields[1].Name.Value)
}

func TestParseLambdaArrowForm(t *testing.T) {
	program := parseProgram(t, "let f := &(n) -> n * 2")
	letStmt := program.Statements[0].(*ast.LetStmt)
	lambda, ok := letStmt.Value.(*ast.LambdaExpr)
	require.True(t, ok)
	require.NotNil(t, lambda.ExprBody)
	assert.Nil(t, lambda.Body)
}

func TestParseLambdaBraceForm(t *testing.T) {
	program := parseProgram(t, "let f := &(n) { return n * 2 }")
	letStmt := program.Statements[0].(*ast.LetStmt)
	lambda, ok := letStmt.Value.(*ast.LambdaExpr)
	require.True(t, ok)
	assert.Nil(t, lambda.ExprBody)
	assert.Len(t, lambda.Body, 1)
}

func TestParseRangeAndComprehension(t *testing.T) {
	program := parseProgram(t, "let xs := (1..5) | &(n) -> n * n | &(n) -> n % 2 == 0")
	letStmt := program.Statements[0].(*ast.LetStmt)
	comp, ok := letStmt.Value.(*ast.ComprehensionExpr)
	require.True(t, ok)
	_, ok = comp.Source.(*ast.RangeExpr)
	assert.True(t, ok)
	require.NotNil(t, comp.Predicate)
}

func TestParseListLiteralAndSubscript(t *testing.T) {
	program := parseProgram(t, "let xs := [1, 2, 3]; xs[0]")
	letStmt := program.Statements[0].(*ast.LetStmt)
	list, ok := letStmt.Value.(*ast.ListLiteral)
	require.True(t, ok)
	assert.Len(t, list.Elements, 3)

	exprStmt := program.Statements[1].(*ast.ExprStmt)
	sub, ok := exprStmt.Expr.(*ast.SubscriptExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.Identifier{}, sub.Container)
}

func TestParseBlessAndTypeof(t *testing.T) {
	program := parseProgram(t, "struct P { x; }; let p := bless P; typeof(p)")
	blessLet := program.Statements[1].(*ast.LetStmt)
	bless, ok := blessLet.Value.(*ast.BlessExpr)
	require.True(t, ok)
	assert.Equal(t, "P", bless.TypeName)

	exprStmt := program.Statements[2].(*ast.ExprStmt)
	_, ok = exprStmt.Expr.(*ast.TypeofExpr)
	assert.True(t, ok)
}

func TestParseTernary(t *testing.T) {
	program := parseProgram(t, "1 < 2 ? 10 : 20")
	exprStmt := program.Statements[0].(*ast.ExprStmt)
	tern, ok := exprStmt.Expr.(*ast.TernaryExpr)
	require.True(t, ok)
	assert.NotNil(t, tern.Cond)
}

func TestParseListOpCall(t *testing.T) {
	program := parseProgram(t, "let xs := [1, 2]; size(xs)")
	exprStmt := program.Statements[1].(*ast.ExprStmt)
	op, ok := exprStmt.Expr.(*ast.ListOpExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpSize, op.Op)
}

func TestParseErrorRecoveryReportsAndContinues(t *testing.T) {
	l := lexer.New("let := 1; let y := 2")
	p := parser.New(l)
	program := p.ParseProgram()
	assert.NotEmpty(t, p.Errors())
	found := false
	for _, stmt := range program.Statements {
		if letStmt, ok := stmt.(*ast.LetStmt); ok && letStmt.Name != nil && letStmt.Name.Value == "y" {
			found = true
		}
	}
	assert.True(t, found, "parser should recover and still parse the y declaration")
}
