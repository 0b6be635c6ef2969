package bytecode

import (
	"strconv"

	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/heap"
	"github.com/cwbudde/go-twlang/internal/value"
)

// StructTemplate is a struct type registered at compile time: a name and
// its declared field order, mirroring internal/context.Template for the
// bytecode backend (spec.md §4.D, §4.F BLESS_EXPR).
type StructTemplate struct {
	Name   string
	Fields []string
}

// Compiler lowers a resolved AST into a flat instruction vector plus a
// constant pool, following spec.md §4.H's single-pass design: a symbol
// table of nested scopes assigns each local a fixed slot, control flow uses
// reserve-and-patch, and each named function occupies a constant-pool entry
// whose `addr` is patched once its body is emitted.
//
// Calls are compiled to support first-class function values (`let c :=
// mk(); c()`), not only statically-known named calls: the callee expression
// is compiled like any other value-producing expression and `call`'s
// operand is the argument count, with the callee itself popped from
// beneath the arguments at the VM. This departs from
// original_source/codegenerator.hpp's assumption that every call site
// names a function resolvable at compile time.
type Compiler struct {
	pool        *ConstantPool
	code        []Instruction
	st          *symbolTable
	heap        *heap.Heap
	structs     []StructTemplate
	structIndex map[string]int
	tempNum     int
}

// NewCompiler creates a Compiler allocating string/function/struct
// constants into h — the same allocator the VM will run against.
func NewCompiler(h *heap.Heap) *Compiler {
	return &Compiler{pool: NewConstantPool(), st: newSymbolTable(), heap: h, structIndex: map[string]int{}}
}

// Compile lowers program and returns the finished code vector, constant
// pool, and struct template registry.
func Compile(program *ast.Program, h *heap.Heap) ([]Instruction, *ConstantPool, []StructTemplate) {
	c := NewCompiler(h)
	for _, s := range program.Statements {
		c.compileStmt(s)
	}
	c.emit(OpHalt, value.NullValue)
	return c.code, c.pool, c.structs
}

func (c *Compiler) emit(op Op, operand value.Value) int {
	c.code = append(c.code, Instruction{Op: op, Operand: operand})
	return len(c.code) - 1
}

func (c *Compiler) emitOp(op Op) int { return c.emit(op, value.NullValue) }

// reserve appends a placeholder branch instruction, to be overwritten once
// its target address is known (the reserve-and-patch idiom of spec.md
// §4.H).
func (c *Compiler) reserve(op Op) int { return c.emit(op, value.MakeInt(0)) }

func (c *Compiler) patch(idx int, target int) {
	c.code[idx].Operand = value.MakeInt(int64(target))
}

func (c *Compiler) here() int { return len(c.code) }

// newTemp returns a fresh synthetic local name for compiler-introduced
// bindings (e.g. comprehension lowering); `$` cannot appear in a
// source-level identifier, so there is no collision risk.
func (c *Compiler) newTemp() string {
	c.tempNum++
	return "$t" + strconv.Itoa(c.tempNum)
}

func (c *Compiler) compileStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		c.compileExpr(s.Value)
		if s.Newline {
			c.emitOp(OpPrintln)
		} else {
			c.emitOp(OpPrint)
		}
	case *ast.LetStmt:
		c.compileExpr(s.Value)
		entry := c.st.declare(s.Name.Value, c.pool)
		c.emitStore(entry)
	case *ast.ExprStmt:
		c.compileExpr(s.Expr)
		c.emitOp(OpPop)
	case *ast.IfStmt:
		c.compileExpr(s.Condition)
		elseJump := c.reserve(OpBrf)
		c.compileBlock(s.Then)
		if s.Else != nil {
			endJump := c.reserve(OpBr)
			c.patch(elseJump, c.here())
			c.compileBlock(s.Else)
			c.patch(endJump, c.here())
		} else {
			c.patch(elseJump, c.here())
		}
	case *ast.WhileStmt:
		top := c.here()
		c.compileExpr(s.Condition)
		exitJump := c.reserve(OpBrf)
		c.compileBlock(s.Body)
		c.emit(OpBr, value.MakeInt(int64(top)))
		c.patch(exitJump, c.here())
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.compileExpr(s.Value)
		} else {
			c.emitOp(OpNull)
		}
		c.emitOp(OpRet)
	case *ast.FuncDefStmt:
		c.compileFuncDef(s)
	case *ast.StructDefStmt:
		c.compileStructDef(s)
	case *ast.BlockStmt:
		c.compileBlock(s)
	}
}

func (c *Compiler) compileBlock(b *ast.BlockStmt) {
	c.emitOp(OpOpenScope)
	c.st.pushBlock()
	for _, s := range b.Statements {
		c.compileStmt(s)
	}
	c.st.popBlock()
	c.emitOp(OpCloseScope)
}

// compileFuncDef allocates the function's constant-pool entry up front (so
// recursive calls resolve), compiles its body into the same flat code
// vector, and patches the entry to a compiled Function value once the
// body's address and local-slot count are known.
func (c *Compiler) compileFuncDef(s *ast.FuncDefStmt) {
	entry := c.st.declare(s.Name.Value, c.pool)
	addr, localCount := c.compileFuncBody(s.Params, s.Body)
	c.pool.UpdateAt(entry.index, c.heap.MakeCompiledFunction(s.Name.Value, len(s.Params), localCount, addr))
}

// compileLambda compiles an anonymous function body inline, returning a
// compiled Function value ready to be pushed as a constant. Per DESIGN.md,
// the VM backend supports closures over global bindings only — a lambda
// body referencing a name from an enclosing *function's* locals resolves
// that name as a fresh local slot in the lambda's own frame instead, since
// the flat call-frame model has
// no upvalue mechanism (the tree-walking evaluator is the backend with full
// lexical closures, per spec.md §9).
func (c *Compiler) compileLambda(params []*ast.Identifier, body []ast.Statement, exprBody ast.Expression) value.Value {
	var stmts []ast.Statement
	if exprBody != nil {
		stmts = []ast.Statement{&ast.ReturnStmt{Value: exprBody}}
	} else {
		stmts = body
	}
	addr, localCount := c.compileFuncBody(params, stmts)
	return c.heap.MakeCompiledFunction("(lambda)", len(params), localCount, addr)
}

// compileFuncBody emits params-then-body into the shared code vector,
// jumping compile-time flow around it, and returns the body's entry
// address and local-slot count.
func (c *Compiler) compileFuncBody(params []*ast.Identifier, body []ast.Statement) (addr, localCount int) {
	skip := c.reserve(OpBr)
	addr = c.here()
	c.emitOp(OpDef)

	c.st.enterFunction()
	for _, p := range params {
		c.st.declare(p.Value, c.pool)
	}
	for _, stmt := range body {
		c.compileStmt(stmt)
	}
	localCount = c.st.leaveFunction()

	c.emitOp(OpNull)
	c.emitOp(OpRet)
	c.patch(skip, c.here())
	return addr, localCount
}

func (c *Compiler) compileStructDef(s *ast.StructDefStmt) {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name.Value
	}
	c.structIndex[s.Name] = len(c.structs)
	c.structs = append(c.structs, StructTemplate{Name: s.Name, Fields: names})
}

func (c *Compiler) emitLoad(entry symEntry) {
	if entry.kind == symLocal {
		c.emit(OpLoad, value.MakeInt(int64(entry.index)))
	} else {
		c.emit(OpGLoad, value.MakeInt(int64(entry.index)))
	}
}

func (c *Compiler) emitStore(entry symEntry) {
	if entry.kind == symLocal {
		c.emit(OpStore, value.MakeInt(int64(entry.index)))
	} else {
		c.emit(OpGStore, value.MakeInt(int64(entry.index)))
	}
}
