package heap

import (
	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/scope"
	"github.com/cwbudde/go-twlang/internal/value"
)

// MakeTreeFunction allocates a Function object for the tree-walking
// evaluator: name, parameter names, body (or expression body for a
// lambda), and the access-link chain captured at creation time
// (spec.md §9: linked lexical scopes, not a snapshot).
func (h *Heap) MakeTreeFunction(name string, params []string, body []ast.Statement, exprBody ast.Expression, enclosing *scope.Activation) value.Value {
	return value.MakeFunc(h.insert(&funcObj{
		Name: name, Params: params, Body: body, ExprBody: exprBody, Enclosing: enclosing,
	}))
}

// MakeCompiledFunction allocates a Function object for the bytecode
// backend: arg/local counts and the entry instruction address
// (spec.md §3, §4.G).
func (h *Heap) MakeCompiledFunction(name string, argCount, localCount, addr int) value.Value {
	return value.MakeFunc(h.insert(&funcObj{
		Name: name, IsCompiled: true, ArgCount: argCount, LocalCount: localCount, Addr: addr,
	}))
}

func (h *Heap) FuncName(id value.HeapID) string {
	if f := h.funcObjFor(id); f != nil {
		return f.Name
	}
	return ""
}

func (h *Heap) FuncParams(id value.HeapID) []string {
	if f := h.funcObjFor(id); f != nil {
		return f.Params
	}
	return nil
}

func (h *Heap) FuncBody(id value.HeapID) []ast.Statement {
	if f := h.funcObjFor(id); f != nil {
		return f.Body
	}
	return nil
}

func (h *Heap) FuncExprBody(id value.HeapID) ast.Expression {
	if f := h.funcObjFor(id); f != nil {
		return f.ExprBody
	}
	return nil
}

func (h *Heap) FuncEnclosing(id value.HeapID) *scope.Activation {
	if f := h.funcObjFor(id); f != nil {
		return f.Enclosing
	}
	return nil
}

func (h *Heap) FuncCompiledInfo(id value.HeapID) (argCount, localCount, addr int, ok bool) {
	f := h.funcObjFor(id)
	if f == nil || !f.IsCompiled {
		return 0, 0, 0, false
	}
	return f.ArgCount, f.LocalCount, f.Addr, true
}
