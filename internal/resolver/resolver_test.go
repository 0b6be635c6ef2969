package resolver_test

import (
	"testing"

	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/lexer"
	"github.com/cwbudde/go-twlang/internal/parser"
	"github.com/cwbudde/go-twlang/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) *ast.Program {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	require.Empty(t, p.Errors())
	return program
}

// identDepth returns the Depth of the first Identifier whose Value matches name, found by
// a depth-first walk of program.String()-adjacent structure. Tests below
// only need the reference inside a single, known expression shape, so this
// walks just the shapes the fixtures below use.
func identDepth(t *testing.T, program *ast.Program, want string) int {
	t.Helper()
	var found *ast.Identifier
	var walk func(n ast.Expression)
	walk = func(n ast.Expression) {
		if found != nil || n == nil {
			return
		}
		switch e := n.(type) {
		case *ast.Identifier:
			if e.Value == want {
				found = e
			}
		case *ast.BinaryExpr:
			walk(e.Left)
			walk(e.Right)
		case *ast.CallExpr:
			walk(e.Callee)
			for _, a := range e.Args {
				walk(a)
			}
		case *ast.ComprehensionExpr:
			walk(e.Source)
			walk(e.Mapper)
			walk(e.Predicate)
		case *ast.RangeExpr:
			walk(e.Low)
			walk(e.High)
		case *ast.LambdaExpr:
			if e.ExprBody != nil {
				walk(e.ExprBody)
			}
			for _, b := range e.Body {
				if rs, ok := b.(*ast.ReturnStmt); ok {
					walk(rs.Value)
				}
			}
		}
	}
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FuncDefStmt:
			for _, b := range s.Body {
				if rs, ok := b.(*ast.ReturnStmt); ok {
					walk(rs.Value)
				}
			}
		case *ast.ExprStmt:
			walk(s.Expr)
		}
	}
	require.NotNil(t, found, "identifier %q not found", want)
	return found.Depth
}

func TestResolveGlobalIsDepthMinusOne(t *testing.T) {
	program := parse(t, "let g := 1; g + 1")
	r := diag.NewReporter()
	resolver.Resolve(program, r)
	assert.Equal(t, -1, identDepth(t, program, "g"))
}

func TestResolveParamIsOwnFunctionScope(t *testing.T) {
	// Inside fact's own body, the parameter n is declared in the innermost
	// scope the resolver pushed for the function, so referencing it from a
	// nested if/block should walk back through one scope hop per nesting
	// level, never falling through to -1.
	program := parse(t, "func fact(n) { if (n < 2) { return 1 } return n }")
	r := diag.NewReporter()
	resolver.Resolve(program, r)
	assert.GreaterOrEqual(t, identDepth(t, program, "n"), 0)
}

// TestResolveComprehensionMapperClosesOverEnclosingFunction guards against a
// resolver scope pushed for ComprehensionExpr with no runtime counterpart:
// evalComprehension/compileComprehension open no activation/scope of their
// own, so resolving Mapper/Predicate must not add an extra depth hop beyond
// what the mapper lambda's own LambdaExpr case pushes.
func TestResolveComprehensionMapperClosesOverEnclosingFunction(t *testing.T) {
	program := parse(t, "func make() { let n := 5; return (1..3 | &(x) -> x + n) }")
	r := diag.NewReporter()
	resolver.Resolve(program, r)
	// n is declared in make's function scope and referenced from inside the
	// mapper lambda's own scope — exactly one hop, matching the access link
	// from the lambda's call activation back to make's call activation.
	assert.Equal(t, 1, identDepth(t, program, "n"))
}

func TestResolveDuplicateDeclarationReportsNameError(t *testing.T) {
	program := parse(t, "let x := 1; let x := 2")
	r := diag.NewReporter()
	resolver.Resolve(program, r)
	require.True(t, r.HasErrors())
	assert.Equal(t, diag.Name, r.Diagnostics()[0].Kind)
}
