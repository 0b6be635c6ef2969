package bytecode

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/heap"
	"github.com/cwbudde/go-twlang/internal/token"
	"github.com/cwbudde/go-twlang/internal/trace"
	"github.com/cwbudde/go-twlang/internal/value"
)

// maxStack bounds the operand stack; spec.md §4.I names stack overflow as a
// diagnosable condition rather than an unbounded resource.
const maxStack = 1 << 16

// frame is one call-frame of spec.md §4.I: the address to resume at on
// return, and a fixed-size local slot array sized to the function's
// declared local count.
type frame struct {
	returnAddr int
	locals     []value.Value
}

// VM is the stack-based execution backend of spec.md §4.I, executing the
// flat instruction vector a Compiler produces over the same Heap the
// tree-walking evaluator uses. Grounded on original_source/bcvm/vm.hpp's
// fetch/decode/execute loop, adapted to the tagged-union Value model and to
// this backend's argument-count calling convention (see compiler.go).
type VM struct {
	Heap     *heap.Heap
	Reporter *diag.Reporter
	Out      io.Writer
	Debug    bool

	code    []Instruction
	pool    *ConstantPool
	structs []StructTemplate

	stack  []value.Value
	frames []*frame
	ip     int
}

// NewVM creates a VM ready to run code against pool and the given struct
// template registry (spec.md §4.D's registry, mirrored for this backend).
func NewVM(h *heap.Heap, reporter *diag.Reporter, out io.Writer, code []Instruction, pool *ConstantPool, structs []StructTemplate) *VM {
	return &VM{Heap: h, Reporter: reporter, Out: out, code: code, pool: pool, structs: structs}
}

func (vm *VM) report(kind diag.Kind, format string, args ...any) {
	vm.Reporter.Report(kind, token.Position{}, format, args...)
}

func (vm *VM) push(v value.Value) {
	if len(vm.stack) >= maxStack {
		vm.report(diag.VMStack, "operand stack overflow")
		return
	}
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() value.Value {
	if len(vm.stack) == 0 {
		vm.report(diag.VMStack, "operand stack underflow")
		return value.NullValue
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) curFrame() *frame {
	if len(vm.frames) == 0 {
		return nil
	}
	return vm.frames[len(vm.frames)-1]
}

// Run executes from instruction 0 until halt (spec.md §4.I). Unknown
// opcodes and stack under/overflow are diagnosed and execution continues
// best-effort, per spec.md §7's never-abort policy.
func (vm *VM) Run() {
	for vm.ip < len(vm.code) {
		instr := vm.code[vm.ip]
		trace.Printf(vm.Debug, os.Stderr, "; %04d %-12s stack=%d\n", vm.ip, instr, len(vm.stack))
		vm.ip++
		if instr.Op == OpHalt {
			return
		}
		vm.exec(instr)
	}
}

func (vm *VM) exec(instr Instruction) {
	switch instr.Op {
	case OpConst:
		vm.push(instr.Operand)
	case OpNull:
		vm.push(value.NullValue)
	case OpPop:
		vm.pop()
	case OpAdd:
		vm.binArith(vm.Heap.Add, "+")
	case OpSub:
		vm.binArith(vm.Heap.Sub, "-")
	case OpMul:
		vm.binArith(vm.Heap.Mul, "*")
	case OpPow:
		vm.binArith(vm.Heap.Pow, "**")
	case OpDiv:
		b := vm.pop()
		a := vm.pop()
		v, ok, nonzero := vm.Heap.Div(a, b)
		if !ok {
			vm.report(diag.Type, "'/' is not defined for %s and %s", a.Kind, b.Kind)
		} else if !nonzero {
			vm.report(diag.DivisionByZero, "division by zero")
		}
		vm.push(v)
	case OpMod:
		b := vm.pop()
		a := vm.pop()
		v, ok, nonzero := vm.Heap.Mod(a, b)
		if !ok {
			vm.report(diag.Type, "'%%' is not defined for %s and %s", a.Kind, b.Kind)
		} else if !nonzero {
			vm.report(diag.DivisionByZero, "modulo by zero")
		}
		vm.push(v)
	case OpNeg:
		a := vm.pop()
		v, ok := vm.Heap.Neg(a)
		if !ok {
			vm.report(diag.Type, "unary '-' requires a numeric operand")
		}
		vm.push(v)
	case OpNot:
		a := vm.pop()
		v, ok := vm.Heap.Not(a)
		if !ok {
			vm.report(diag.Type, "'!' requires a Bool operand")
		}
		vm.push(v)
	case OpEqu:
		b, a := vm.pop(), vm.pop()
		vm.push(value.MakeBool(vm.Heap.Equ(a, b)))
	case OpNeq:
		b, a := vm.pop(), vm.pop()
		vm.push(value.MakeBool(vm.Heap.Neq(a, b)))
	case OpLt:
		b, a := vm.pop(), vm.pop()
		vm.push(value.MakeBool(vm.Heap.Lt(a, b)))
	case OpGt:
		b, a := vm.pop(), vm.pop()
		vm.push(value.MakeBool(vm.Heap.Gt(a, b)))
	case OpLte:
		b, a := vm.pop(), vm.pop()
		vm.push(value.MakeBool(vm.Heap.Lte(a, b)))
	case OpGte:
		b, a := vm.pop(), vm.pop()
		vm.push(value.MakeBool(vm.Heap.Gte(a, b)))
	case OpMkList:
		vm.push(vm.Heap.MakeEmptyList())
	case OpApndList:
		v := vm.pop()
		list := vm.pop()
		if list.Kind != value.List {
			vm.report(diag.Type, "append requires a List argument, got %s", list.Kind)
			vm.push(list)
			return
		}
		vm.Heap.ListAppend(list.Handle, v)
		vm.push(list)
	case OpListPush:
		v := vm.pop()
		list := vm.pop()
		if list.Kind != value.List {
			vm.report(diag.Type, "push requires a List argument, got %s", list.Kind)
			vm.push(list)
			return
		}
		vm.Heap.ListPush(list.Handle, v)
		vm.push(list)
	case OpListSize:
		list := vm.pop()
		if list.Kind != value.List {
			vm.report(diag.Type, "size requires a List argument, got %s", list.Kind)
			vm.push(value.MakeInt(0))
			return
		}
		vm.push(value.MakeInt(int64(vm.Heap.ListCount(list.Handle))))
	case OpDef:
		// Function entry marker; the frame is already set up by the call
		// that jumped here.
	case OpCall:
		vm.doCall(int(instr.Operand.IntVal))
	case OpRet:
		vm.doReturn()
	case OpClosure:
		// Unused by this backend: VM functions capture globals only, so
		// there is no upvalue set to bind (see DESIGN.md).
	case OpOpenScope, OpCloseScope:
		vm.collectGarbage()
	case OpBr:
		vm.ip = int(instr.Operand.IntVal)
	case OpBrf:
		if !vm.pop().Truthy() {
			vm.ip = int(instr.Operand.IntVal)
		}
	case OpGLoad, OpGLda:
		vm.push(vm.pool.Get(int(instr.Operand.IntVal)))
	case OpGStore:
		vm.pool.UpdateAt(int(instr.Operand.IntVal), vm.pop())
	case OpLoad, OpLda:
		f := vm.curFrame()
		slot := int(instr.Operand.IntVal)
		if f == nil || slot < 0 || slot >= len(f.locals) {
			vm.report(diag.VMStack, "local slot %d out of range", slot)
			vm.push(value.NullValue)
			return
		}
		vm.push(f.locals[slot])
	case OpStore:
		f := vm.curFrame()
		slot := int(instr.Operand.IntVal)
		v := vm.pop()
		if f == nil || slot < 0 || slot >= len(f.locals) {
			vm.report(diag.VMStack, "local slot %d out of range", slot)
			return
		}
		f.locals[slot] = v
	case OpFLoad, OpFLda:
		vm.doFieldLoad()
	case OpFStore:
		vm.doFieldStore()
	case OpStruct:
		idx := int(instr.Operand.IntVal)
		if idx < 0 || idx >= len(vm.structs) {
			vm.push(value.NullValue)
			return
		}
		tpl := vm.structs[idx]
		vm.push(vm.Heap.MakeStructInstance(tpl.Name, tpl.Fields))
	case OpPrint:
		fmt.Fprint(vm.Out, vm.Heap.ToDisplayString(vm.pop()))
	case OpPrintln:
		fmt.Fprintln(vm.Out, vm.Heap.ToDisplayString(vm.pop()))
	case OpTypeOf:
		v := vm.pop()
		vm.push(vm.Heap.MakeString(v.Kind.String()))
	case OpLabel:
		// Marker only; addresses are resolved at compile time.
	default:
		vm.report(diag.VMStack, "unknown opcode %d", int(instr.Op))
	}
}

func (vm *VM) binArith(op func(a, b value.Value) (value.Value, bool), symbol string) {
	b := vm.pop()
	a := vm.pop()
	v, ok := op(a, b)
	if !ok {
		vm.report(diag.Type, "'%s' is not defined for %s and %s", symbol, a.Kind, b.Kind)
	}
	vm.push(v)
}

// doCall implements the argument-count calling convention: the callee
// Value sits beneath its arguments on the operand stack (see compiler.go's
// Compiler doc comment for why this departs from a compile-time-resolved
// function index).
func (vm *VM) doCall(argCount int) {
	args := make([]value.Value, argCount)
	for i := argCount - 1; i >= 0; i-- {
		args[i] = vm.pop()
	}
	callee := vm.pop()
	if callee.Kind != value.Function {
		vm.report(diag.Type, "attempt to call a non-function value")
		vm.push(value.NullValue)
		return
	}
	_, localCount, addr, ok := vm.Heap.FuncCompiledInfo(callee.Handle)
	if !ok {
		vm.report(diag.Type, "attempt to call an uncompiled function value")
		vm.push(value.NullValue)
		return
	}
	locals := make([]value.Value, localCount)
	for i := range locals {
		locals[i] = value.NullValue
	}
	copy(locals, args)
	vm.frames = append(vm.frames, &frame{returnAddr: vm.ip, locals: locals})
	vm.ip = addr
}

func (vm *VM) doReturn() {
	v := vm.pop()
	if len(vm.frames) == 0 {
		vm.report(diag.VMStack, "return with no active call frame")
		vm.push(v)
		return
	}
	f := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.ip = f.returnAddr
	vm.push(v)
}

// doFieldLoad implements container[index] for both Lists and Structs,
// choosing at runtime which reading of the two compileSubscriptIndex
// pushed (see expressions.go) applies, exactly as internal/eval's
// evalSubscript does off the AST directly.
func (vm *VM) doFieldLoad() {
	idxVal := vm.pop()
	nameVal := vm.pop()
	container := vm.pop()
	switch container.Kind {
	case value.List:
		if idxVal.Kind != value.Int {
			vm.report(diag.Type, "list index must be an Int")
			vm.push(value.NullValue)
			return
		}
		v, ok := vm.Heap.ListGet(container.Handle, int(idxVal.IntVal))
		if !ok {
			vm.report(diag.Index, "list index %d out of range", idxVal.IntVal)
			vm.push(value.NullValue)
			return
		}
		vm.push(v)
	case value.Struct:
		if nameVal.Kind != value.String {
			vm.report(diag.Type, "struct field subscript must be a field name")
			vm.push(value.NullValue)
			return
		}
		name := vm.Heap.StringData(nameVal.Handle)
		v, found := vm.Heap.StructField(container.Handle, name)
		if !found {
			vm.report(diag.Name, "struct %s has no field %q", vm.Heap.StructTypeName(container.Handle), name)
			vm.push(value.NullValue)
			return
		}
		vm.push(v)
	default:
		vm.report(diag.Type, "cannot index into a %s value", container.Kind)
		vm.push(value.NullValue)
	}
}

func (vm *VM) doFieldStore() {
	v := vm.pop()
	idxVal := vm.pop()
	nameVal := vm.pop()
	container := vm.pop()
	switch container.Kind {
	case value.List:
		if idxVal.Kind != value.Int {
			vm.report(diag.Type, "list index must be an Int")
			return
		}
		if !vm.Heap.ListSet(container.Handle, int(idxVal.IntVal), v) {
			vm.report(diag.Index, "list index %d out of range", idxVal.IntVal)
		}
	case value.Struct:
		if nameVal.Kind != value.String {
			vm.report(diag.Type, "struct field subscript must be a field name")
			return
		}
		name := vm.Heap.StringData(nameVal.Handle)
		if !vm.Heap.StructSetField(container.Handle, name, v) {
			vm.report(diag.Name, "struct %s has no field %q", vm.Heap.StructTypeName(container.Handle), name)
		}
	default:
		vm.report(diag.Type, "cannot index into a %s value", container.Kind)
	}
}

// collectGarbage roots a GC cycle at the operand stack, every live frame's
// locals, and the constant pool (which holds every global, matching
// internal/context.Context.CollectGarbage's root set for the tree-walking
// backend, minus the access/control-link walk this backend has no use
// for).
func (vm *VM) collectGarbage() {
	var roots []value.Value
	roots = append(roots, vm.stack...)
	for _, f := range vm.frames {
		roots = append(roots, f.locals...)
	}
	for i := 0; i < vm.pool.Len(); i++ {
		roots = append(roots, vm.pool.Get(i))
	}
	vm.Heap.Collect(roots)
}
