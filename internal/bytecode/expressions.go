package bytecode

import (
	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/value"
)

func (c *Compiler) compileExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		c.emit(OpConst, value.MakeInt(e.Value))
	case *ast.RealLiteral:
		c.emit(OpConst, value.MakeReal(e.Value))
	case *ast.BoolLiteral:
		c.emit(OpConst, value.MakeBool(e.Value))
	case *ast.CharLiteral:
		c.emit(OpConst, value.MakeChar(e.Value))
	case *ast.NilLiteral:
		c.emitOp(OpNull)
	case *ast.StringLiteral:
		c.emit(OpConst, c.heap.MakeString(e.Value))
	case *ast.Identifier:
		c.emitLoad(c.st.resolve(e.Value, c.pool))
	case *ast.ListLiteral:
		c.emitOp(OpMkList)
		for _, el := range e.Elements {
			c.compileExpr(el)
			c.emitOp(OpApndList)
		}
	case *ast.UnaryExpr:
		c.compileUnary(e)
	case *ast.BinaryExpr:
		c.compileExpr(e.Left)
		c.compileExpr(e.Right)
		c.emitOp(binaryOp(e.Operator))
	case *ast.LogicalExpr:
		c.compileLogical(e)
	case *ast.TernaryExpr:
		c.compileExpr(e.Cond)
		elseJump := c.reserve(OpBrf)
		c.compileExpr(e.Then)
		endJump := c.reserve(OpBr)
		c.patch(elseJump, c.here())
		c.compileExpr(e.Else)
		c.patch(endJump, c.here())
	case *ast.AssignExpr:
		c.compileAssign(e)
	case *ast.SubscriptExpr:
		c.compileExpr(e.Container)
		c.compileSubscriptIndex(e.Index)
		c.emitOp(OpFLoad)
	case *ast.CallExpr:
		c.compileExpr(e.Callee)
		for _, a := range e.Args {
			c.compileExpr(a)
		}
		c.emit(OpCall, value.MakeInt(int64(len(e.Args))))
	case *ast.LambdaExpr:
		fn := c.compileLambda(e.Params, e.Body, e.ExprBody)
		c.emit(OpConst, fn)
	case *ast.ListOpExpr:
		c.compileListOp(e)
	case *ast.RangeExpr:
		c.compileRange(e)
	case *ast.ComprehensionExpr:
		c.compileComprehension(e)
	case *ast.RegexExpr:
		// No VM-side regex oracle plumbing: the bytecode backend reports an
		// unconditional false, matching the evaluator's behavior with no
		// oracle configured (spec.md §7 — never abort, substitute best effort).
		c.emit(OpConst, value.MakeBool(false))
	case *ast.BlessExpr:
		idx, ok := c.structIndex[e.TypeName]
		if !ok {
			c.emitOp(OpNull)
			return
		}
		c.emit(OpStruct, value.MakeInt(int64(idx)))
	case *ast.TypeofExpr:
		c.compileExpr(e.Operand)
		c.emitOp(OpTypeOf)
	default:
		c.emitOp(OpNull)
	}
}

func binaryOp(op string) Op {
	switch op {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	case "/":
		return OpDiv
	case "%":
		return OpMod
	case "==":
		return OpEqu
	case "!=":
		return OpNeq
	case "<":
		return OpLt
	case ">":
		return OpGt
	case "<=":
		return OpLte
	case ">=":
		return OpGte
	case "**":
		return OpPow
	default:
		return OpNull
	}
}

func (c *Compiler) compileUnary(e *ast.UnaryExpr) {
	switch e.Operator {
	case "!":
		c.compileExpr(e.Operand)
		c.emitOp(OpNot)
	case "-":
		c.compileExpr(e.Operand)
		c.emitOp(OpNeg)
	case "++", "--":
		id, ok := e.Operand.(*ast.Identifier)
		if !ok {
			c.emitOp(OpNull)
			return
		}
		entry := c.st.resolve(id.Value, c.pool)
		tmp := c.st.declare(c.newTemp(), c.pool)
		c.emitLoad(entry)
		c.emitStore(tmp) // save the pre-increment value as the expression result
		c.emitLoad(entry)
		c.emit(OpConst, value.MakeInt(1))
		if e.Operator == "++" {
			c.emitOp(OpAdd)
		} else {
			c.emitOp(OpSub)
		}
		c.emitStore(entry)
		c.emitLoad(tmp)
	}
}

// compileLogical implements short-circuit evaluation using the same
// reserve-and-patch branching the compiler uses for if/while (spec.md §8).
func (c *Compiler) compileLogical(e *ast.LogicalExpr) {
	c.compileExpr(e.Left)
	if e.Operator == "&&" {
		shortCircuit := c.reserve(OpBrf)
		c.compileExpr(e.Right)
		end := c.reserve(OpBr)
		c.patch(shortCircuit, c.here())
		c.emit(OpConst, value.MakeBool(false))
		c.patch(end, c.here())
		return
	}
	// "||": branch-if-false to evaluate the right side; otherwise short
	// circuit to true.
	evalRight := c.reserve(OpBrf)
	c.emit(OpConst, value.MakeBool(true))
	end := c.reserve(OpBr)
	c.patch(evalRight, c.here())
	c.compileExpr(e.Right)
	c.patch(end, c.here())
}

// compileSubscriptIndex compiles the index half of `container[index]`.
// Whether `index` names a struct field literally or a List index variable
// is a runtime decision driven by container's Kind (the §9 Open Question
// resolution shared with internal/eval), which a bytecode compiler cannot
// make ahead of time — so both readings are pushed and `fload`/`fstore`
// choose between them: a literal field-name String (Null if index is not a
// bare identifier) and the index expression's ordinarily-resolved value.
func (c *Compiler) compileSubscriptIndex(index ast.Expression) {
	if id, ok := index.(*ast.Identifier); ok {
		c.emit(OpConst, c.heap.MakeString(id.Value))
	} else {
		c.emitOp(OpNull)
	}
	c.compileExpr(index)
}

func (c *Compiler) compileAssign(e *ast.AssignExpr) {
	tmp := c.st.declare(c.newTemp(), c.pool)
	c.compileExpr(e.Value)
	c.emitStore(tmp)

	switch t := e.Target.(type) {
	case *ast.Identifier:
		entry := c.st.resolve(t.Value, c.pool)
		c.emitLoad(tmp)
		c.emitStore(entry)
	case *ast.SubscriptExpr:
		c.compileExpr(t.Container)
		c.compileSubscriptIndex(t.Index)
		c.emitLoad(tmp)
		c.emitOp(OpFStore)
	}
	c.emitLoad(tmp)
}

func (c *Compiler) compileRange(e *ast.RangeExpr) {
	low := c.st.declare(c.newTemp(), c.pool)
	high := c.st.declare(c.newTemp(), c.pool)
	i := c.st.declare(c.newTemp(), c.pool)

	c.compileExpr(e.Low)
	c.emitStore(low)
	c.compileExpr(e.High)
	c.emitStore(high)
	c.emitLoad(low)
	c.emitStore(i)

	c.emitOp(OpMkList)
	result := c.st.declare(c.newTemp(), c.pool)
	c.emitStore(result)

	top := c.here()
	c.emitLoad(i)
	c.emitLoad(high)
	c.emitOp(OpLte)
	exit := c.reserve(OpBrf)

	c.emitLoad(result)
	c.emitLoad(i)
	c.emitOp(OpApndList)
	c.emitOp(OpPop)

	c.emitLoad(i)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpAdd)
	c.emitStore(i)
	c.emit(OpBr, value.MakeInt(int64(top)))
	c.patch(exit, c.here())

	c.emitLoad(result)
}

// compileComprehension lowers `source | mapper [| predicate]` into an
// equivalent indexed while-loop over compiler-introduced temporaries, since
// the bytecode ISA has no dedicated comprehension opcode (spec.md §4.G's
// opcode list is exhaustive and does not include one). mapper and predicate
// are Function values invoked once per kept element, mirroring
// compileListMap/compileListFilter's call(1) convention.
func (c *Compiler) compileComprehension(e *ast.ComprehensionExpr) {
	src := c.st.declare(c.newTemp(), c.pool)
	mapperFn := c.st.declare(c.newTemp(), c.pool)
	var predFn symEntry
	hasPred := e.Predicate != nil
	if hasPred {
		predFn = c.st.declare(c.newTemp(), c.pool)
	}
	n := c.st.declare(c.newTemp(), c.pool)
	i := c.st.declare(c.newTemp(), c.pool)
	elem := c.st.declare(c.newTemp(), c.pool)
	result := c.st.declare(c.newTemp(), c.pool)

	c.compileExpr(e.Source)
	c.emitStore(src)
	c.compileExpr(e.Mapper)
	c.emitStore(mapperFn)
	if hasPred {
		c.compileExpr(e.Predicate)
		c.emitStore(predFn)
	}

	c.emitLoad(src)
	c.emitOp(OpListSize)
	c.emitStore(n)
	c.emit(OpConst, value.MakeInt(0))
	c.emitStore(i)
	c.emitOp(OpMkList)
	c.emitStore(result)

	top := c.here()
	c.emitLoad(i)
	c.emitLoad(n)
	c.emitOp(OpLt)
	exit := c.reserve(OpBrf)

	c.emitIndexLoad(src, i)
	c.emitStore(elem)

	keep := -1
	if hasPred {
		c.emitLoad(predFn)
		c.emitLoad(elem)
		c.emit(OpCall, value.MakeInt(1))
		keep = c.reserve(OpBrf)
	}
	c.emitLoad(result)
	c.emitLoad(mapperFn)
	c.emitLoad(elem)
	c.emit(OpCall, value.MakeInt(1))
	c.emitOp(OpApndList)
	c.emitOp(OpPop)
	if keep >= 0 {
		c.patch(keep, c.here())
	}

	c.emitLoad(i)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpAdd)
	c.emitStore(i)
	c.emit(OpBr, value.MakeInt(int64(top)))
	c.patch(exit, c.here())

	c.emitLoad(result)
}
