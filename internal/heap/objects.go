package heap

import (
	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/scope"
	"github.com/cwbudde/go-twlang/internal/value"
)

// object is implemented by every heap-resident payload. The allocator
// stores objects behind this interface so mark/sweep can treat all four
// heap kinds (spec.md §3) uniformly.
type object interface {
	isMarked() bool
	setMarked(bool)
	kind() value.Kind
}

type baseObj struct {
	mark bool
}

func (b *baseObj) isMarked() bool   { return b.mark }
func (b *baseObj) setMarked(v bool) { b.mark = v }

// stringObj is an immutable byte sequence.
type stringObj struct {
	baseObj
	data string
}

func (*stringObj) kind() value.Kind { return value.String }

// listNode is one cons cell of a List's singly linked chain.
type listNode struct {
	val  value.Value
	next *listNode
}

// listObj is a singly linked node chain with head, tail, and count,
// per spec.md §3. The tail pointer makes append O(1); the chain is mutated
// in place by append/push, matching the head/tail/count invariant
// (spec.md §3 invariant 3).
type listObj struct {
	baseObj
	head, tail *listNode
	count      int
}

func (*listObj) kind() value.Kind { return value.List }

// funcObj is the Function heap object. The tree-walking evaluator uses
// Name/Params/Body/ExprBody/Enclosing (the linked-scope closure model of
// spec.md §9); the bytecode backend instead uses ArgCount/LocalCount/Addr
// (spec.md §3: "{arg_count, local_count, code_address}"). A single struct
// carries both so one heap kind serves either backend.
type funcObj struct {
	baseObj
	Name     string
	Params   []string
	Body     []ast.Statement
	ExprBody ast.Expression
	Enclosing *scope.Activation

	// bytecode backend fields
	IsCompiled bool
	ArgCount   int
	LocalCount int
	Addr       int
}

func (*funcObj) kind() value.Kind { return value.Function }

// structObj is a typed record. FieldOrder preserves declaration order for
// deterministic printing; Fields is the authoritative name->Value map.
type structObj struct {
	baseObj
	TypeName   string
	FieldOrder []string
	Fields     map[string]value.Value
	Blessed    bool
}

func (*structObj) kind() value.Kind { return value.Struct }
