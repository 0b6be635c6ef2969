// Package eval implements the tree-walking evaluator of spec.md §4.F: a
// recursive interpreter keyed by AST node kind, carrying an operand stack
// alongside the Context so every expression pushes exactly one Value and
// every statement leaves the stack balanced.
package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/context"
	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/scope"
	"github.com/cwbudde/go-twlang/internal/token"
	"github.com/cwbudde/go-twlang/internal/trace"
	"github.com/cwbudde/go-twlang/internal/value"
)

// RegexOracle is the external `matches(text, pattern) -> bool` collaborator
// spec.md §1 treats as opaque. A nil oracle makes every REG_EXPR report a
// TypeError and evaluate to false.
type RegexOracle func(text, pattern string) bool

// Evaluator walks a resolved AST against a Context.
type Evaluator struct {
	Ctx   *context.Context
	Out   io.Writer
	Regex RegexOracle
	Trace bool

	bailout      bool
	bailoutValue value.Value
}

// New creates an Evaluator writing print/println output to out.
func New(ctx *context.Context, out io.Writer) *Evaluator {
	return &Evaluator{Ctx: ctx, Out: out}
}

// Run executes every top-level statement of program in order.
func (ev *Evaluator) Run(program *ast.Program) {
	ev.execStmts(program.Statements)
}

func (ev *Evaluator) report(kind diag.Kind, pos token.Position, format string, args ...any) {
	ev.Ctx.Reporter.Report(kind, pos, format, args...)
}

// execStmts runs a statement sequence, stopping early if a RETURN set the
// bailout flag (spec.md §4.F: RETURN "unwinds... through the enclosing exec
// sequence"; spec.md §5: it must not escape a function boundary, but must
// escape nested statements/loops — callFunction is the only place that
// clears bailout).
func (ev *Evaluator) execStmts(stmts []ast.Statement) {
	for _, s := range stmts {
		ev.execStmt(s)
		if ev.bailout {
			return
		}
	}
}

func (ev *Evaluator) execStmt(stmt ast.Statement) {
	trace.Printf(ev.Trace, os.Stderr, "; %T\n", stmt)
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		v := ev.evalExpr(s.Value)
		text := ev.Ctx.Heap.ToDisplayString(v)
		if s.Newline {
			fmt.Fprintln(ev.Out, text)
		} else {
			fmt.Fprint(ev.Out, text)
		}
	case *ast.LetStmt:
		v := ev.evalExpr(s.Value)
		ev.Ctx.Assign(s.Name.Value, s.Name.Depth, v)
	case *ast.ExprStmt:
		ev.evalExpr(s.Expr)
	case *ast.IfStmt:
		cond := ev.evalExpr(s.Condition)
		if cond.Truthy() {
			ev.execBlock(s.Then)
		} else if s.Else != nil {
			ev.execBlock(s.Else)
		}
	case *ast.WhileStmt:
		for ev.evalExpr(s.Condition).Truthy() {
			ev.execBlock(s.Body)
			if ev.bailout {
				return
			}
		}
	case *ast.ReturnStmt:
		var v value.Value = value.NullValue
		if s.Value != nil {
			v = ev.evalExpr(s.Value)
		}
		ev.bailoutValue = v
		ev.bailout = true
	case *ast.FuncDefStmt:
		fn := ev.Ctx.Heap.MakeTreeFunction(s.Name.Value, identNames(s.Params), s.Body, nil, ev.Ctx.Top())
		ev.Ctx.Assign(s.Name.Value, s.Name.Depth, fn)
	case *ast.StructDefStmt:
		names := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			names[i] = f.Name.Value
		}
		ev.Ctx.RegisterStructType(s.Name, names)
	case *ast.BlockStmt:
		ev.execBlock(s)
	}
}

func (ev *Evaluator) execBlock(b *ast.BlockStmt) {
	ev.Ctx.OpenScope(nil)
	ev.execStmts(b.Statements)
	ev.Ctx.CloseScope()
}

func identNames(ids []*ast.Identifier) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Value
	}
	return names
}

// callFunction implements spec.md §4.F's invocation shape, generalized per
// §9's linked-scope redesign: the new activation's access link is the
// Function's captured chain (not a snapshot), so no write-back step is
// needed after the call returns.
func (ev *Evaluator) callFunction(fn value.Value, args []value.Value) value.Value {
	if fn.Kind != value.Function {
		ev.report(diag.Type, token.Position{}, "attempt to call a non-function value")
		return value.NullValue
	}
	// The callee and, below, the result stay on the operand stack while
	// scopes close, so the GC cycle each close runs keeps them alive.
	ev.Ctx.PushOperand(fn)
	enclosing := ev.Ctx.Heap.FuncEnclosing(fn.Handle)
	params := ev.Ctx.Heap.FuncParams(fn.Handle)

	env := scope.New(enclosing, ev.Ctx.Top())
	for i, p := range params {
		v := value.NullValue
		if i < len(args) {
			v = args[i]
		}
		env.Bind(p, v)
	}
	ev.Ctx.OpenPrepared(env)

	body := ev.Ctx.Heap.FuncBody(fn.Handle)
	exprBody := ev.Ctx.Heap.FuncExprBody(fn.Handle)

	var result value.Value
	if exprBody != nil {
		result = ev.evalExpr(exprBody)
	} else {
		ev.execStmts(body)
		if ev.bailout {
			result = ev.bailoutValue
			ev.bailout = false
		} else {
			result = value.NullValue
		}
	}
	ev.Ctx.PushOperand(result)
	ev.Ctx.CloseScope()
	ev.Ctx.PopOperand()
	ev.Ctx.PopOperand()
	return result
}
