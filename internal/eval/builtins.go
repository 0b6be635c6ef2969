package eval

import (
	"sort"

	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/value"
)

// evalListOp dispatches the ten builtin list operators of spec.md §4.F's
// LIST_EXPR family. size/empty/first/rest/append/push read or mutate a List
// directly; map/filter/reduce/sort each take a List plus a callback Value
// and drive it through callFunction once per element.
func (ev *Evaluator) evalListOp(e *ast.ListOpExpr) value.Value {
	if len(e.Args) == 0 {
		ev.report(diag.Type, e.Pos(), "%s requires a List argument", e.TokenLiteral())
		return value.NullValue
	}
	list := ev.eval(e.Args[0])
	if list.Kind != value.List {
		ev.report(diag.Type, e.Pos(), "%s requires a List argument, got %s", e.TokenLiteral(), list.Kind)
		return value.NullValue
	}
	h := ev.Ctx.Heap

	switch e.Op {
	case ast.OpSize:
		return value.MakeInt(int64(h.ListCount(list.Handle)))
	case ast.OpEmpty:
		return value.MakeBool(h.ListCount(list.Handle) == 0)
	case ast.OpFirst:
		return h.ListFirst(list.Handle)
	case ast.OpRest:
		return h.ListRest(list.Handle)
	case ast.OpAppend:
		if len(e.Args) < 2 {
			ev.report(diag.Type, e.Pos(), "append requires a value argument")
			return list
		}
		h.ListAppend(list.Handle, ev.eval(e.Args[1]))
		return list
	case ast.OpPush:
		if len(e.Args) < 2 {
			ev.report(diag.Type, e.Pos(), "push requires a value argument")
			return list
		}
		h.ListPush(list.Handle, ev.eval(e.Args[1]))
		return list
	case ast.OpMap:
		return ev.listMap(e, list)
	case ast.OpFilter:
		return ev.listFilter(e, list)
	case ast.OpReduce:
		return ev.listReduce(e, list)
	case ast.OpSort:
		return ev.listSort(e, list)
	default:
		return value.NullValue
	}
}

func (ev *Evaluator) callbackArg(e *ast.ListOpExpr, idx int) (value.Value, bool) {
	if len(e.Args) <= idx {
		ev.report(diag.Type, e.Pos(), "%s requires a callback argument", e.TokenLiteral())
		return value.NullValue, false
	}
	fn := ev.eval(e.Args[idx])
	if fn.Kind != value.Function {
		ev.report(diag.Type, e.Pos(), "%s requires a Function callback, got %s", e.TokenLiteral(), fn.Kind)
		return value.NullValue, false
	}
	return fn, true
}

// listMap builds a fresh List of the same length, each element replaced by
// fn(element) (spec.md §3: map never mutates its source list).
func (ev *Evaluator) listMap(e *ast.ListOpExpr, list value.Value) value.Value {
	fn, ok := ev.callbackArg(e, 1)
	if !ok {
		return value.NullValue
	}
	h := ev.Ctx.Heap
	src := h.ListToSlice(list.Handle)
	out := make([]value.Value, len(src))
	for i, v := range src {
		out[i] = ev.callFunction(fn, []value.Value{v})
	}
	return h.MakeListFrom(out)
}

// listFilter builds a fresh List holding only the elements for which
// fn(element) is truthy.
func (ev *Evaluator) listFilter(e *ast.ListOpExpr, list value.Value) value.Value {
	fn, ok := ev.callbackArg(e, 1)
	if !ok {
		return value.NullValue
	}
	h := ev.Ctx.Heap
	src := h.ListToSlice(list.Handle)
	out := make([]value.Value, 0, len(src))
	for _, v := range src {
		if ev.callFunction(fn, []value.Value{v}).Truthy() {
			out = append(out, v)
		}
	}
	return h.MakeListFrom(out)
}

// listReduce folds the list left-to-right via fn(acc, element). An optional
// third argument is the seed; without one, the first element seeds the fold
// and folding starts at the second (an empty list then yields Null).
func (ev *Evaluator) listReduce(e *ast.ListOpExpr, list value.Value) value.Value {
	fn, ok := ev.callbackArg(e, 1)
	if !ok {
		return value.NullValue
	}
	acc := value.NullValue
	if len(e.Args) > 2 {
		acc = ev.eval(e.Args[2])
	}
	h := ev.Ctx.Heap
	elems := h.ListToSlice(list.Handle)
	if len(e.Args) <= 2 && len(elems) > 0 {
		acc, elems = elems[0], elems[1:]
	}
	for _, v := range elems {
		acc = ev.callFunction(fn, []value.Value{acc, v})
	}
	return acc
}

// listSort builds a fresh, stably sorted List using fn(a, b) as a less-than
// comparator returning a truthy value when a should sort before b.
func (ev *Evaluator) listSort(e *ast.ListOpExpr, list value.Value) value.Value {
	fn, ok := ev.callbackArg(e, 1)
	if !ok {
		return value.NullValue
	}
	h := ev.Ctx.Heap
	out := h.ListToSlice(list.Handle)
	sort.SliceStable(out, func(i, j int) bool {
		return ev.callFunction(fn, []value.Value{out[i], out[j]}).Truthy()
	})
	return h.MakeListFrom(out)
}

// evalRange materializes `low..high` as an inclusive Int List (spec.md §4.F
// RANGE_EXPR).
func (ev *Evaluator) evalRange(e *ast.RangeExpr) value.Value {
	low := ev.eval(e.Low)
	high := ev.eval(e.High)
	if low.Kind != value.Int || high.Kind != value.Int {
		ev.report(diag.Type, e.Pos(), "range bounds must be Int")
		return ev.Ctx.Heap.MakeEmptyList()
	}
	var elems []value.Value
	if low.IntVal <= high.IntVal {
		for i := low.IntVal; i <= high.IntVal; i++ {
			elems = append(elems, value.MakeInt(i))
		}
	} else {
		for i := low.IntVal; i >= high.IntVal; i-- {
			elems = append(elems, value.MakeInt(i))
		}
	}
	return ev.Ctx.Heap.MakeListFrom(elems)
}

// evalComprehension implements the ZF expression `source | mapper [|
// predicate]` (spec.md §4.F ZF_EXPR, §8 scenario 4): source must evaluate to
// a List; mapper and predicate are one-argument Function values (typically
// lambda literals) invoked once per element through the same calling
// convention as the map/filter list builtins — predicate runs first, and an
// element is mapped at all only when predicate(element) is truthy.
func (ev *Evaluator) evalComprehension(e *ast.ComprehensionExpr) value.Value {
	src := ev.eval(e.Source)
	if src.Kind != value.List {
		ev.report(diag.Type, e.Pos(), "comprehension source must be a List")
		return ev.Ctx.Heap.MakeEmptyList()
	}
	mapper := ev.eval(e.Mapper)
	if mapper.Kind != value.Function {
		ev.report(diag.Type, e.Pos(), "comprehension mapper must be a Function")
		return ev.Ctx.Heap.MakeEmptyList()
	}
	var predicate value.Value
	if e.Predicate != nil {
		predicate = ev.eval(e.Predicate)
		if predicate.Kind != value.Function {
			ev.report(diag.Type, e.Pos(), "comprehension predicate must be a Function")
			return ev.Ctx.Heap.MakeEmptyList()
		}
	}

	h := ev.Ctx.Heap
	elems := h.ListToSlice(src.Handle)
	out := make([]value.Value, 0, len(elems))
	// Both callbacks stay on the operand stack so that a call to one does
	// not let the GC free the other.
	ev.Ctx.PushOperand(mapper)
	ev.Ctx.PushOperand(predicate)
	for _, v := range elems {
		if e.Predicate != nil && !ev.callFunction(predicate, []value.Value{v}).Truthy() {
			continue
		}
		out = append(out, ev.callFunction(mapper, []value.Value{v}))
	}
	ev.Ctx.PopOperand()
	ev.Ctx.PopOperand()
	return h.MakeListFrom(out)
}
