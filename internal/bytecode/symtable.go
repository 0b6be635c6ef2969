package bytecode

import "github.com/cwbudde/go-twlang/internal/value"

// symKind distinguishes a name bound in the constant pool (global) from one
// bound to a fixed local slot within the current function's frame.
type symKind int

const (
	symGlobal symKind = iota
	symLocal
)

type symEntry struct {
	kind  symKind
	index int
}

// funcScope tracks one function's nested block scopes during compilation.
// Locals are never reclaimed across a block exit (spec.md §4.H: "a fixed
// slot index within its enclosing function"), matching
// original_source/bcvm/symboltable.hpp's Scope, whose num_locals only grows.
type funcScope struct {
	blocks   []map[string]int // stack of name -> slot, innermost last
	nextSlot int
}

func newFuncScope() *funcScope {
	fs := &funcScope{}
	fs.pushBlock()
	return fs
}

func (fs *funcScope) pushBlock() { fs.blocks = append(fs.blocks, map[string]int{}) }
func (fs *funcScope) popBlock()  { fs.blocks = fs.blocks[:len(fs.blocks)-1] }

func (fs *funcScope) declare(name string) int {
	slot := fs.nextSlot
	fs.nextSlot++
	fs.blocks[len(fs.blocks)-1][name] = slot
	return slot
}

func (fs *funcScope) find(name string) (int, bool) {
	for i := len(fs.blocks) - 1; i >= 0; i-- {
		if slot, ok := fs.blocks[i][name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// symbolTable resolves names to either a global constant-pool slot or a
// local slot in the function currently being compiled. Grounded on
// original_source/bcvm/symboltable.hpp's SymbolTable.get: search the active
// function scope first, then fall back to globals.
type symbolTable struct {
	globals map[string]int
	funcs   []*funcScope // stack; empty at top level
}

func newSymbolTable() *symbolTable {
	return &symbolTable{globals: map[string]int{}}
}

func (st *symbolTable) enterFunction() {
	st.funcs = append(st.funcs, newFuncScope())
}

func (st *symbolTable) leaveFunction() (localCount int) {
	fs := st.funcs[len(st.funcs)-1]
	st.funcs = st.funcs[:len(st.funcs)-1]
	return fs.nextSlot
}

func (st *symbolTable) inFunction() bool { return len(st.funcs) > 0 }

func (st *symbolTable) pushBlock() {
	if st.inFunction() {
		st.funcs[len(st.funcs)-1].pushBlock()
	}
}

func (st *symbolTable) popBlock() {
	if st.inFunction() {
		st.funcs[len(st.funcs)-1].popBlock()
	}
}

// declare introduces name in the innermost scope: a local slot if compiling
// inside a function, otherwise a fresh constant-pool slot.
func (st *symbolTable) declare(name string, pool *ConstantPool) symEntry {
	if st.inFunction() {
		slot := st.funcs[len(st.funcs)-1].declare(name)
		return symEntry{kind: symLocal, index: slot}
	}
	if idx, ok := st.globals[name]; ok {
		return symEntry{kind: symGlobal, index: idx}
	}
	idx := pool.Alloc(value.NullValue)
	st.globals[name] = idx
	return symEntry{kind: symGlobal, index: idx}
}

// resolve looks up name, declaring it as a new global if seen nowhere yet
// (spec.md §7: evaluation never aborts on an unresolved name).
func (st *symbolTable) resolve(name string, pool *ConstantPool) symEntry {
	if st.inFunction() {
		if slot, ok := st.funcs[len(st.funcs)-1].find(name); ok {
			return symEntry{kind: symLocal, index: slot}
		}
	}
	if idx, ok := st.globals[name]; ok {
		return symEntry{kind: symGlobal, index: idx}
	}
	return st.declare(name, pool)
}
