// Package bytecode implements the second execution backend of spec.md
// §4.G–§4.I: a flat instruction vector, a compiler lowering the resolved AST
// into it, and a stack-based VM executing it over the same value model and
// allocator the tree-walking evaluator uses.
//
// Grounded on original_source/bcvm/{bytecode,constant_pool,symboltable,vm}.hpp
// and original_source/codegenerator.hpp: the opcode set, constant-pool
// free-list, symbol-table depth search, and fetch/decode/execute loop all
// follow that design, adapted to the tagged-union Value/Heap model shared
// with internal/eval instead of the original's raw Object union.
package bytecode

// Op is one bytecode instruction opcode (spec.md §4.G). Three additions go
// beyond that list: `typeof` reads a Value's Kind at runtime for the
// supplemented typeof operation (see SPEC_FULL.md §4), `listpush` mirrors
// `apndlist` for the List builtin's push (prepend) form — spec's list
// opcodes cover construction, append, and size only, and prepend cannot be
// expressed as a rebuild over those three without losing the in-place
// mutation aliasing that append already gets from apndlist — and `pow`
// covers the "**" operator, which heap.Pow already implements for the
// tree-walking evaluator but which the listed arithmetic opcodes have no
// slot for.
type Op int

const (
	OpHalt Op = iota
	OpConst
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpNot
	OpEqu
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
	OpMkList
	OpApndList
	OpListSize
	OpDef
	OpCall
	OpRet
	OpClosure
	OpOpenScope
	OpCloseScope
	OpBr
	OpBrf
	OpGLoad
	OpGLda
	OpGStore
	OpLoad
	OpLda
	OpStore
	OpFLoad
	OpFLda
	OpFStore
	OpStruct
	OpNull
	OpPrint
	OpPrintln
	OpPop
	OpLabel
	OpTypeOf
	OpListPush
	OpPow
)

var opNames = [...]string{
	OpHalt:       "halt",
	OpConst:      "const",
	OpAdd:        "add",
	OpSub:        "sub",
	OpMul:        "mul",
	OpDiv:        "div",
	OpMod:        "mod",
	OpNeg:        "neg",
	OpNot:        "not",
	OpEqu:        "equ",
	OpNeq:        "neq",
	OpLt:         "lt",
	OpGt:         "gt",
	OpLte:        "lte",
	OpGte:        "gte",
	OpMkList:     "mklist",
	OpApndList:   "apndlist",
	OpListSize:   "listsize",
	OpDef:        "def",
	OpCall:       "call",
	OpRet:        "ret",
	OpClosure:    "closure",
	OpOpenScope:  "open_scope",
	OpCloseScope: "close_scope",
	OpBr:         "br",
	OpBrf:        "brf",
	OpGLoad:      "gload",
	OpGLda:       "glda",
	OpGStore:     "gstore",
	OpLoad:       "load",
	OpLda:        "lda",
	OpStore:      "store",
	OpFLoad:      "fload",
	OpFLda:       "flda",
	OpFStore:     "fstore",
	OpStruct:     "struct",
	OpNull:       "null",
	OpPrint:      "print",
	OpPrintln:    "println",
	OpPop:        "pop",
	OpLabel:      "label",
	OpTypeOf:     "typeof",
	OpListPush:   "listpush",
	OpPow:        "pow",
}

func (op Op) String() string {
	if int(op) >= 0 && int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "?"
}
