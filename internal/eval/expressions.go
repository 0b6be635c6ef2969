package eval

import (
	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/diag"
	"github.com/cwbudde/go-twlang/internal/value"
)

// evalExpr evaluates expr to a single Value. Per spec.md §4.F every
// expression pushes exactly one Value onto the shared operand stack; it is
// popped again at once, so it is not held there across later evaluation
// (callFunction keeps its callee and result on that stack across a call's
// scope close).
func (ev *Evaluator) evalExpr(expr ast.Expression) value.Value {
	v := ev.eval(expr)
	ev.Ctx.PushOperand(v)
	return ev.Ctx.PopOperand()
}

func (ev *Evaluator) eval(expr ast.Expression) value.Value {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return value.MakeInt(e.Value)
	case *ast.RealLiteral:
		return value.MakeReal(e.Value)
	case *ast.BoolLiteral:
		return value.MakeBool(e.Value)
	case *ast.CharLiteral:
		return value.MakeChar(e.Value)
	case *ast.NilLiteral:
		return value.NullValue
	case *ast.StringLiteral:
		return ev.Ctx.Heap.MakeString(e.Value)
	case *ast.Identifier:
		return ev.Ctx.Lookup(e.Value, e.Depth)
	case *ast.ListLiteral:
		elems := make([]value.Value, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = ev.eval(el)
		}
		return ev.Ctx.Heap.MakeListFrom(elems)
	case *ast.UnaryExpr:
		return ev.evalUnary(e)
	case *ast.BinaryExpr:
		return ev.evalBinary(e)
	case *ast.LogicalExpr:
		return ev.evalLogical(e)
	case *ast.TernaryExpr:
		if ev.eval(e.Cond).Truthy() {
			return ev.eval(e.Then)
		}
		return ev.eval(e.Else)
	case *ast.AssignExpr:
		return ev.evalAssign(e)
	case *ast.SubscriptExpr:
		return ev.evalSubscript(e)
	case *ast.CallExpr:
		return ev.evalCall(e)
	case *ast.LambdaExpr:
		return ev.Ctx.Heap.MakeTreeFunction("(lambda)", identNames(e.Params), e.Body, e.ExprBody, ev.Ctx.Top())
	case *ast.ListOpExpr:
		return ev.evalListOp(e)
	case *ast.RangeExpr:
		return ev.evalRange(e)
	case *ast.ComprehensionExpr:
		return ev.evalComprehension(e)
	case *ast.RegexExpr:
		return ev.evalRegex(e)
	case *ast.BlessExpr:
		return ev.evalBless(e)
	case *ast.TypeofExpr:
		v := ev.eval(e.Operand)
		return ev.Ctx.Heap.MakeString(v.Kind.String())
	default:
		return value.NullValue
	}
}

func (ev *Evaluator) evalUnary(e *ast.UnaryExpr) value.Value {
	switch e.Operator {
	case "!":
		v := ev.eval(e.Operand)
		r, ok := ev.Ctx.Heap.Not(v)
		if !ok {
			ev.report(diag.Type, e.Pos(), "'!' requires a Bool operand")
			return value.NullValue
		}
		return r
	case "-":
		v := ev.eval(e.Operand)
		r, ok := ev.Ctx.Heap.Neg(v)
		if !ok {
			ev.report(diag.Type, e.Pos(), "unary '-' requires a numeric operand")
			return value.NullValue
		}
		return r
	case "++", "--":
		id, ok := e.Operand.(*ast.Identifier)
		if !ok {
			ev.report(diag.Type, e.Pos(), "'%s' requires an identifier operand", e.Operator)
			return value.NullValue
		}
		cur := ev.Ctx.Lookup(id.Value, id.Depth)
		delta := int64(1)
		if e.Operator == "--" {
			delta = -1
		}
		var next value.Value
		var ok2 bool
		if e.Operator == "++" {
			next, ok2 = ev.Ctx.Heap.Add(cur, value.MakeInt(delta))
		} else {
			next, ok2 = ev.Ctx.Heap.Sub(cur, value.MakeInt(1))
		}
		if !ok2 {
			ev.report(diag.Type, e.Pos(), "'%s' requires a numeric operand", e.Operator)
			return value.NullValue
		}
		ev.Ctx.Assign(id.Value, id.Depth, next)
		return cur
	default:
		return value.NullValue
	}
}

func (ev *Evaluator) evalBinary(e *ast.BinaryExpr) value.Value {
	l := ev.eval(e.Left)
	r := ev.eval(e.Right)
	h := ev.Ctx.Heap
	switch e.Operator {
	case "+":
		if v, ok := h.Add(l, r); ok {
			return v
		}
		ev.report(diag.Type, e.Pos(), "'+' is not defined for %s and %s", l.Kind, r.Kind)
		return value.NullValue
	case "-":
		if v, ok := h.Sub(l, r); ok {
			return v
		}
		ev.report(diag.Type, e.Pos(), "'-' is not defined for %s and %s", l.Kind, r.Kind)
		return value.NullValue
	case "*":
		if v, ok := h.Mul(l, r); ok {
			return v
		}
		ev.report(diag.Type, e.Pos(), "'*' is not defined for %s and %s", l.Kind, r.Kind)
		return value.NullValue
	case "/":
		v, ok, nonzero := h.Div(l, r)
		if !ok {
			ev.report(diag.Type, e.Pos(), "'/' is not defined for %s and %s", l.Kind, r.Kind)
			return value.NullValue
		}
		if !nonzero {
			ev.report(diag.DivisionByZero, e.Pos(), "division by zero")
		}
		return v
	case "%":
		v, ok, nonzero := h.Mod(l, r)
		if !ok {
			ev.report(diag.Type, e.Pos(), "'%%' is not defined for %s and %s", l.Kind, r.Kind)
			return value.NullValue
		}
		if !nonzero {
			ev.report(diag.DivisionByZero, e.Pos(), "modulo by zero")
		}
		return v
	case "**":
		if v, ok := h.Pow(l, r); ok {
			return v
		}
		ev.report(diag.Type, e.Pos(), "'**' is not defined for %s and %s", l.Kind, r.Kind)
		return value.NullValue
	case "==":
		return value.MakeBool(h.Equ(l, r))
	case "!=":
		return value.MakeBool(h.Neq(l, r))
	case "<":
		return value.MakeBool(h.Lt(l, r))
	case "<=":
		return value.MakeBool(h.Lte(l, r))
	case ">":
		return value.MakeBool(h.Gt(l, r))
	case ">=":
		return value.MakeBool(h.Gte(l, r))
	default:
		return value.NullValue
	}
}

// evalLogical implements short-circuit evaluation (spec.md §4.F, §8): the
// right operand is not evaluated when the left already determines the
// result.
func (ev *Evaluator) evalLogical(e *ast.LogicalExpr) value.Value {
	l := ev.eval(e.Left)
	if e.Operator == "&&" {
		if !l.Truthy() {
			return value.MakeBool(false)
		}
		return value.MakeBool(ev.eval(e.Right).Truthy())
	}
	// "||"
	if l.Truthy() {
		return value.MakeBool(true)
	}
	return value.MakeBool(ev.eval(e.Right).Truthy())
}

func (ev *Evaluator) evalAssign(e *ast.AssignExpr) value.Value {
	v := ev.eval(e.Value)
	switch t := e.Target.(type) {
	case *ast.Identifier:
		ev.Ctx.Assign(t.Value, t.Depth, v)
		return v
	case *ast.SubscriptExpr:
		container := ev.eval(t.Container)
		switch container.Kind {
		case value.List:
			idxVal := ev.eval(t.Index)
			if idxVal.Kind != value.Int {
				ev.report(diag.Type, t.Pos(), "list index must be an Int")
				return v
			}
			if !ev.Ctx.Heap.ListSet(container.Handle, int(idxVal.IntVal), v) {
				ev.report(diag.Index, t.Pos(), "list index %d out of range", idxVal.IntVal)
			}
			return v
		case value.Struct:
			id, ok := t.Index.(*ast.Identifier)
			if !ok {
				ev.report(diag.Type, t.Pos(), "struct field subscript must be a field name")
				return v
			}
			if !ev.Ctx.Heap.StructSetField(container.Handle, id.Value, v) {
				ev.report(diag.Name, t.Pos(), "struct %s has no field %q", ev.Ctx.Heap.StructTypeName(container.Handle), id.Value)
			}
			return v
		default:
			ev.report(diag.Type, t.Pos(), "cannot index into a %s value", container.Kind)
			return v
		}
	default:
		return v
	}
}

func (ev *Evaluator) evalSubscript(e *ast.SubscriptExpr) value.Value {
	container := ev.eval(e.Container)
	switch container.Kind {
	case value.List:
		idxVal := ev.eval(e.Index)
		if idxVal.Kind != value.Int {
			ev.report(diag.Type, e.Pos(), "list index must be an Int")
			return value.NullValue
		}
		v, ok := ev.Ctx.Heap.ListGet(container.Handle, int(idxVal.IntVal))
		if !ok {
			ev.report(diag.Index, e.Pos(), "list index %d out of range", idxVal.IntVal)
			return value.NullValue
		}
		return v
	case value.Struct:
		id, ok := e.Index.(*ast.Identifier)
		if !ok {
			ev.report(diag.Type, e.Pos(), "struct field subscript must be a field name")
			return value.NullValue
		}
		v, found := ev.Ctx.Heap.StructField(container.Handle, id.Value)
		if !found {
			ev.report(diag.Name, e.Pos(), "struct %s has no field %q", ev.Ctx.Heap.StructTypeName(container.Handle), id.Value)
			return value.NullValue
		}
		return v
	default:
		ev.report(diag.Type, e.Pos(), "cannot index into a %s value", container.Kind)
		return value.NullValue
	}
}

func (ev *Evaluator) evalCall(e *ast.CallExpr) value.Value {
	callee := ev.eval(e.Callee)
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = ev.eval(a)
	}
	return ev.callFunction(callee, args)
}

func (ev *Evaluator) evalBless(e *ast.BlessExpr) value.Value {
	tpl, ok := ev.Ctx.StructType(e.TypeName)
	if !ok {
		ev.report(diag.Name, e.Pos(), "no struct type named %q", e.TypeName)
		return value.NullValue
	}
	return ev.Ctx.Heap.MakeStructInstance(tpl.Name, tpl.Fields)
}

func (ev *Evaluator) evalRegex(e *ast.RegexExpr) value.Value {
	text := ev.eval(e.Text)
	pattern := ev.eval(e.Pattern)
	if text.Kind != value.String || pattern.Kind != value.String {
		ev.report(diag.Type, e.Pos(), "matchre requires two String operands")
		return value.MakeBool(false)
	}
	if ev.Regex == nil {
		ev.report(diag.Type, e.Pos(), "no regex oracle configured")
		return value.MakeBool(false)
	}
	ok := ev.Regex(ev.Ctx.Heap.StringData(text.Handle), ev.Ctx.Heap.StringData(pattern.Handle))
	return value.MakeBool(ok)
}
