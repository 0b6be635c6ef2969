// Package resolver implements the single-pass static scope resolution of
// spec.md §4.E: every identifier reference is annotated with its lexical
// depth (a walk count of access links from the current scope to the scope
// that declares it, or -1 for global/unresolved).
package resolver

import (
	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/token"
)

// scopeSet is one lexical scope's set of declared names.
type scopeSet map[string]bool

// Resolver walks a Program once, maintaining a stack of scopeSets that
// mirrors the activation-record nesting the evaluator/VM will build at
// runtime.
type Resolver struct {
	scopes   []scopeSet
	reporter *diag.Reporter
}

// New creates a Resolver reporting diagnostics to r.
func New(r *diag.Reporter) *Resolver {
	return &Resolver{reporter: r}
}

func (r *Resolver) push()    { r.scopes = append(r.scopes, scopeSet{}) }
func (r *Resolver) pop()     { r.scopes = r.scopes[:len(r.scopes)-1] }
func (r *Resolver) current() scopeSet { return r.scopes[len(r.scopes)-1] }

// declare introduces name in the current scope, reporting a NameError
// diagnostic on redeclaration (spec.md §4.E: "rejects duplicates in the
// same scope with a diagnostic") but never refusing to bind — evaluation
// proceeds regardless, per spec.md §7.
func (r *Resolver) declare(name string, pos token.Position) {
	s := r.current()
	if s[name] {
		r.reporter.Report(diag.Name, pos, "duplicate declaration of %q in this scope", name)
	}
	s[name] = true
}

// resolveIdent sets tok's depth to the number of scope hops from the
// innermost scope to the one declaring name, or -1 if it is declared
// nowhere in the active scope stack (treated as a global/unresolved
// reference — spec.md §4.E).
func (r *Resolver) resolveIdent(id *ast.Identifier) {
	// The outermost scope stands in for the global scope (spec.md §4.C):
	// a name declared there, or nowhere at all, always resolves to -1
	// rather than a finite access-link walk count.
	for depth := 0; depth < len(r.scopes)-1; depth++ {
		s := r.scopes[len(r.scopes)-1-depth]
		if s[id.Value] {
			id.Depth = depth
			return
		}
	}
	id.Depth = -1
}

// Resolve annotates every identifier reference in program, reporting any
// NameError diagnostics to r.
func Resolve(program *ast.Program, r *diag.Reporter) {
	res := New(r)
	res.push() // top-level scope (depth 0 from itself; globals live at depth -1 by convention)
	for _, stmt := range program.Statements {
		res.resolveStmt(stmt)
	}
	res.pop()
}

func (r *Resolver) resolveStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		r.resolveExpr(s.Value)
	case *ast.LetStmt:
		r.resolveExpr(s.Value)
		r.declare(s.Name.Value, s.Name.Pos())
		r.resolveIdent(s.Name)
	case *ast.ExprStmt:
		r.resolveExpr(s.Expr)
	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveBlock(s.Then)
		if s.Else != nil {
			r.resolveBlock(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveBlock(s.Body)
	case *ast.ReturnStmt:
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *ast.FuncDefStmt:
		r.declare(s.Name.Value, s.Name.Pos())
		r.resolveIdent(s.Name)
		r.push()
		for _, p := range s.Params {
			r.declare(p.Value, p.Pos())
			r.resolveIdent(p)
		}
		for _, b := range s.Body {
			r.resolveStmt(b)
		}
		r.pop()
	case *ast.StructDefStmt:
		// Field names are not lexical bindings; nothing to resolve.
	case *ast.BlockStmt:
		r.resolveBlock(s)
	}
}

func (r *Resolver) resolveBlock(b *ast.BlockStmt) {
	r.push()
	for _, stmt := range b.Statements {
		r.resolveStmt(stmt)
	}
	r.pop()
}

func (r *Resolver) resolveExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case nil:
		return
	case *ast.Identifier:
		r.resolveIdent(e)
	case *ast.IntLiteral, *ast.RealLiteral, *ast.BoolLiteral, *ast.CharLiteral, *ast.NilLiteral, *ast.StringLiteral:
		// no free identifiers
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			r.resolveExpr(el)
		}
	case *ast.UnaryExpr:
		r.resolveExpr(e.Operand)
	case *ast.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.TernaryExpr:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *ast.AssignExpr:
		r.resolveExpr(e.Value)
		switch t := e.Target.(type) {
		case *ast.Identifier:
			r.resolveIdent(t)
		case *ast.SubscriptExpr:
			r.resolveExpr(t.Container)
			// The index under a Struct subscript target is a literal field
			// name token, not a variable reference (spec.md §9 Open
			// Question); the evaluator distinguishes Struct vs. List at
			// runtime, so resolution always attempts the identifier lookup
			// here and the evaluator ignores Depth when the container is a
			// Struct.
			if id, ok := t.Index.(*ast.Identifier); ok {
				r.resolveIdent(id)
			} else {
				r.resolveExpr(t.Index)
			}
		}
	case *ast.SubscriptExpr:
		r.resolveExpr(e.Container)
		if id, ok := e.Index.(*ast.Identifier); ok {
			r.resolveIdent(id)
		} else {
			r.resolveExpr(e.Index)
		}
	case *ast.CallExpr:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.LambdaExpr:
		r.push()
		for _, p := range e.Params {
			r.declare(p.Value, p.Pos())
			r.resolveIdent(p)
		}
		for _, b := range e.Body {
			r.resolveStmt(b)
		}
		if e.ExprBody != nil {
			r.resolveExpr(e.ExprBody)
		}
		r.pop()
	case *ast.ListOpExpr:
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.RangeExpr:
		r.resolveExpr(e.Low)
		r.resolveExpr(e.High)
	case *ast.ComprehensionExpr:
		// Mapper/Predicate are ordinary expressions (typically lambda
		// literals) resolved in the current scope: evalComprehension and
		// compileComprehension open no activation/scope of their own for
		// them, so no resolver scope is pushed here either — a nested
		// mapper/predicate lambda's own LambdaExpr case pushes whatever
		// scope its own params need.
		r.resolveExpr(e.Source)
		r.resolveExpr(e.Mapper)
		if e.Predicate != nil {
			r.resolveExpr(e.Predicate)
		}
	case *ast.RegexExpr:
		r.resolveExpr(e.Text)
		r.resolveExpr(e.Pattern)
	case *ast.BlessExpr:
		// Type name is not a lexical binding.
	case *ast.TypeofExpr:
		r.resolveExpr(e.Operand)
	}
}
