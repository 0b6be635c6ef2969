// Package context implements the façade described in spec.md §4.D: it owns
// the global scope, the call stack of active activation records, the struct
// type-template registry, the singleton Null value, and the allocator.
package context

import (
	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/heap"
	"github.com/cwbudde/go-twlang/internal/scope"
	"github.com/cwbudde/go-twlang/internal/value"
)

// Template is a registered struct type: a name and its declared field
// order, each field initializing to Null on instantiation (spec.md §3).
type Template struct {
	Name   string
	Fields []string
}

// Context is the single owner of all mutable interpreter state; it is
// passed explicitly everywhere rather than held as a package-level global
// (spec.md §9: "Global state ... pass it explicitly. No process-wide
// singletons.").
type Context struct {
	Heap   *heap.Heap
	Global *scope.Activation

	callStack []*scope.Activation
	operand   []value.Value

	structTypes map[string]*Template

	Reporter *diag.Reporter
}

// New creates a Context with a fresh heap and global scope.
func New() *Context {
	return &Context{
		Heap:        heap.New(),
		Global:      scope.New(nil, nil),
		structTypes: make(map[string]*Template),
		Reporter:    diag.NewReporter(),
	}
}

// Top returns the innermost active activation record, or the global scope
// if no call is in progress.
func (c *Context) Top() *scope.Activation {
	if len(c.callStack) == 0 {
		return c.Global
	}
	return c.callStack[len(c.callStack)-1]
}

// OpenScope pushes a new activation, access-linked to access (or Top() if
// access is nil) and control-linked to the current Top().
func (c *Context) OpenScope(access *scope.Activation) *scope.Activation {
	if access == nil {
		access = c.Top()
	}
	act := scope.New(access, c.Top())
	c.callStack = append(c.callStack, act)
	return act
}

// OpenPrepared pushes an already-constructed activation (used when a
// closure call must access-link to its captured chain rather than the
// caller's scope).
func (c *Context) OpenPrepared(act *scope.Activation) {
	c.callStack = append(c.callStack, act)
}

// CloseScope pops the innermost activation and triggers a GC cycle, per
// spec.md §4.B ("Collection runs when an activation record is closed").
func (c *Context) CloseScope() {
	if len(c.callStack) == 0 {
		return
	}
	c.callStack = c.callStack[:len(c.callStack)-1]
	c.CollectGarbage()
}

// CollectGarbage assembles the current root set (operand stack ∪ every
// binding in every activation reachable along the control-link chain) and
// runs one allocator mark-sweep pass. Exposed so callers (e.g. the CLI's
// `--debug` trace, or a manual GC trigger per spec.md §4.B) can force a
// cycle outside of scope close.
func (c *Context) CollectGarbage() {
	var roots []value.Value
	roots = append(roots, c.operand...)

	seen := make(map[*scope.Activation]bool)
	enumerate := func(act *scope.Activation) {
		for a := act; a != nil && !seen[a]; a = a.Control {
			seen[a] = true
			a.Each(func(v value.Value) { roots = append(roots, v) })
		}
	}
	for _, act := range c.callStack {
		enumerate(act)
	}
	c.Global.Each(func(v value.Value) { roots = append(roots, v) })

	c.Heap.Collect(roots)
}

// Push/Pop/PeekOperand manage the operand stack shared by the evaluator
// (spec.md §4.F: "every expression pushes exactly one Value").
func (c *Context) PushOperand(v value.Value) { c.operand = append(c.operand, v) }

func (c *Context) PopOperand() value.Value {
	if len(c.operand) == 0 {
		return value.NullValue
	}
	v := c.operand[len(c.operand)-1]
	c.operand = c.operand[:len(c.operand)-1]
	return v
}

func (c *Context) OperandDepth() int { return len(c.operand) }

// Lookup implements spec.md §4.C: depth -1 addresses the global scope;
// depth >= 0 walks depth access links from the top of the call stack.
func (c *Context) Lookup(name string, depth int) value.Value {
	if depth < 0 {
		if v, ok := c.Global.Get(name); ok {
			return v
		}
		return value.NullValue
	}
	act := c.Top().AccessAncestor(depth)
	if act == nil {
		return value.NullValue
	}
	if v, ok := act.Get(name); ok {
		return v
	}
	return value.NullValue
}

// Assign implements the write counterpart of Lookup.
func (c *Context) Assign(name string, depth int, v value.Value) bool {
	if depth < 0 {
		if !c.Global.Has(name) {
			c.Global.Bind(name, v)
			return true
		}
		return c.Global.Set(name, v)
	}
	act := c.Top().AccessAncestor(depth)
	if act == nil {
		return false
	}
	if !act.Has(name) {
		act.Bind(name, v)
		return true
	}
	return act.Set(name, v)
}

// RegisterStructType registers a type template (spec.md §4.D).
func (c *Context) RegisterStructType(name string, fields []string) {
	c.structTypes[name] = &Template{Name: name, Fields: fields}
}

// StructType returns the registered template for name, if any.
func (c *Context) StructType(name string) (*Template, bool) {
	t, ok := c.structTypes[name]
	return t, ok
}
