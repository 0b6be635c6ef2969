// This file implements the value-model operations of spec.md §4.A. They
// live in the heap package rather than internal/value because nearly every
// operation — string concatenation, equality on heap-backed values,
// to_string rendering of Lists — needs to dereference a heap object, and
// the allocator is the only component allowed to do that.
package heap

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/go-twlang/internal/value"
)

// The functions below are the arithmetic/comparison/logical operators from
// spec.md §4.A, each returning a result Value and an ok flag: ok is false
// when the operand kinds are incompatible, in which case callers report a
// TypeError diagnostic and substitute Null (spec.md §7).

func (h *Heap) Add(a, b value.Value) (value.Value, bool) {
	if a.Kind == value.String || b.Kind == value.String {
		return h.MakeString(h.ToDisplayString(a) + h.ToDisplayString(b)), true
	}
	if !a.IsOrdinal() || !b.IsOrdinal() {
		return value.NullValue, false
	}
	if a.Kind == value.Real || b.Kind == value.Real {
		return value.MakeReal(a.AsFloat() + b.AsFloat()), true
	}
	return value.MakeInt(intOf(a) + intOf(b)), true
}

func (h *Heap) Sub(a, b value.Value) (value.Value, bool) {
	if !a.IsOrdinal() || !b.IsOrdinal() {
		return value.NullValue, false
	}
	if a.Kind == value.Real || b.Kind == value.Real {
		return value.MakeReal(a.AsFloat() - b.AsFloat()), true
	}
	return value.MakeInt(intOf(a) - intOf(b)), true
}

func (h *Heap) Mul(a, b value.Value) (value.Value, bool) {
	if !a.IsOrdinal() || !b.IsOrdinal() {
		return value.NullValue, false
	}
	if a.Kind == value.Real || b.Kind == value.Real {
		return value.MakeReal(a.AsFloat() * b.AsFloat()), true
	}
	return value.MakeInt(intOf(a) * intOf(b)), true
}

// Div implements floating-point division; division by zero is reported by
// the caller (it has the position for a diagnostic) and this returns
// Real 0, per spec.md §4.A.
func (h *Heap) Div(a, b value.Value) (value.Value, bool, bool) {
	if !a.IsOrdinal() || !b.IsOrdinal() {
		return value.NullValue, false, false
	}
	if b.AsFloat() == 0 {
		return value.MakeReal(0), true, false
	}
	return value.MakeReal(a.AsFloat() / b.AsFloat()), true, true
}

// Mod truncates to Int (spec.md §4.A).
func (h *Heap) Mod(a, b value.Value) (value.Value, bool, bool) {
	if !a.IsOrdinal() || !b.IsOrdinal() {
		return value.NullValue, false, false
	}
	bi := intOf(b)
	if bi == 0 {
		return value.MakeInt(0), true, false
	}
	return value.MakeInt(intOf(a) % bi), true, true
}

func (h *Heap) Pow(a, b value.Value) (value.Value, bool) {
	if !a.IsOrdinal() || !b.IsOrdinal() {
		return value.NullValue, false
	}
	return value.MakeReal(math.Pow(a.AsFloat(), b.AsFloat())), true
}

func (h *Heap) Neg(a value.Value) (value.Value, bool) {
	switch a.Kind {
	case value.Int:
		return value.MakeInt(-a.IntVal), true
	case value.Real:
		return value.MakeReal(-a.RlVal), true
	case value.Bool:
		return value.MakeInt(-int64(boolToInt(a.BlVal))), true
	default:
		return value.NullValue, false
	}
}

func (h *Heap) Not(a value.Value) (value.Value, bool) {
	if a.Kind != value.Bool {
		return value.NullValue, false
	}
	return value.MakeBool(!a.BlVal), true
}

// cmpOrdinal returns both values as comparable float64s when both are ordinal,
// with ok=true; otherwise ok is false and callers fall back to string
// comparison (spec.md §4.A: "otherwise compare string representations
// lexicographically").
func (h *Heap) cmpOrdinal(a, b value.Value) (float64, float64, bool) {
	if a.IsOrdinal() && b.IsOrdinal() {
		return a.AsFloat(), b.AsFloat(), true
	}
	return 0, 0, false
}

func (h *Heap) Lt(a, b value.Value) bool {
	if af, bf, ok := h.cmpOrdinal(a, b); ok {
		return af < bf
	}
	return h.ToDisplayString(a) < h.ToDisplayString(b)
}

func (h *Heap) Lte(a, b value.Value) bool { return h.Lt(a, b) || h.Equ(a, b) }
func (h *Heap) Gt(a, b value.Value) bool  { return !h.Lte(a, b) }
func (h *Heap) Gte(a, b value.Value) bool { return !h.Lt(a, b) }

// Equ implements spec.md §3's equality rule: ordinal scalars compare by
// numeric value; otherwise (heap-backed values, or a heap-backed value
// against a scalar) compare string representations.
func (h *Heap) Equ(a, b value.Value) bool {
	if a.Kind == value.Null || b.Kind == value.Null {
		return a.Kind == b.Kind
	}
	if af, bf, ok := h.cmpOrdinal(a, b); ok {
		return af == bf
	}
	return h.ToDisplayString(a) == h.ToDisplayString(b)
}

func (h *Heap) Neq(a, b value.Value) bool { return !h.Equ(a, b) }

// ToDisplayString renders a Value as source-level text: `print`/`println`,
// string concatenation via `+`, and the string-representation fallback used
// by comparisons/equality all go through this. Lists render recursively as
// `[ a, b, c ]` (spec.md §4.A).
func (h *Heap) ToDisplayString(v value.Value) string {
	switch v.Kind {
	case value.Int:
		return strconv.FormatInt(v.IntVal, 10)
	case value.Real:
		return strconv.FormatFloat(v.RlVal, 'g', -1, 64)
	case value.Bool:
		return strconv.FormatBool(v.BlVal)
	case value.Char:
		return string(v.ChVal)
	case value.Null:
		return "nil"
	case value.String:
		return h.StringData(v.Handle)
	case value.List:
		elems := h.ListToSlice(v.Handle)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = h.ToDisplayString(e)
		}
		if len(parts) == 0 {
			return "[ ]"
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case value.Function:
		return fmt.Sprintf("<function %s>", h.FuncName(v.Handle))
	case value.Struct:
		return fmt.Sprintf("<struct %s>", h.StructTypeName(v.Handle))
	default:
		return "?"
	}
}

func intOf(v value.Value) int64 {
	if v.Kind == value.Bool {
		return boolToInt(v.BlVal)
	}
	return v.IntVal
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
