package bytecode

import (
	"github.com/cwbudde/go-twlang/internal/ast"
	"github.com/cwbudde/go-twlang/internal/value"
)

// emitIndexLoad emits container[index] using already-declared locals,
// matching the container/field-name-or-null/index stack shape that
// compileSubscriptIndex gives general subscripts (see expressions.go).
func (c *Compiler) emitIndexLoad(container, index symEntry) {
	c.emitLoad(container)
	c.emitOp(OpNull)
	c.emitLoad(index)
	c.emitOp(OpFLoad)
}

func (c *Compiler) emitIndexStore(container, index, val symEntry) {
	c.emitLoad(container)
	c.emitOp(OpNull)
	c.emitLoad(index)
	c.emitLoad(val)
	c.emitOp(OpFStore)
}

// compileListOp lowers the ten builtin list operators (spec.md §4.F
// LIST_EXPR) onto mklist/apndlist/listsize/fload/fstore plus
// compiler-introduced loops, mirroring internal/eval/builtins.go's
// evalListOp one operator at a time.
func (c *Compiler) compileListOp(e *ast.ListOpExpr) {
	if len(e.Args) == 0 {
		c.emitOp(OpNull)
		return
	}
	c.compileExpr(e.Args[0])
	list := c.st.declare(c.newTemp(), c.pool)
	c.emitStore(list)

	switch e.Op {
	case ast.OpSize:
		c.emitLoad(list)
		c.emitOp(OpListSize)
	case ast.OpEmpty:
		c.emitLoad(list)
		c.emitOp(OpListSize)
		c.emit(OpConst, value.MakeInt(0))
		c.emitOp(OpEqu)
	case ast.OpFirst:
		zero := c.st.declare(c.newTemp(), c.pool)
		c.emit(OpConst, value.MakeInt(0))
		c.emitStore(zero)
		c.emitIndexLoad(list, zero)
	case ast.OpRest:
		c.compileListRest(list)
	case ast.OpAppend:
		if len(e.Args) < 2 {
			c.emitLoad(list)
			return
		}
		c.emitLoad(list)
		c.compileExpr(e.Args[1])
		c.emitOp(OpApndList)
		c.emitOp(OpPop)
		c.emitLoad(list)
	case ast.OpPush:
		if len(e.Args) < 2 {
			c.emitLoad(list)
			return
		}
		c.emitLoad(list)
		c.compileExpr(e.Args[1])
		c.emitOp(OpListPush)
		c.emitOp(OpPop)
		c.emitLoad(list)
	case ast.OpMap:
		c.compileListMap(e, list)
	case ast.OpFilter:
		c.compileListFilter(e, list)
	case ast.OpReduce:
		c.compileListReduce(e, list)
	case ast.OpSort:
		c.compileListSort(e, list)
	default:
		c.emitOp(OpNull)
	}
}

// compileListRest builds a fresh List holding list[1:] by looping an index
// over fload, since the ISA has no dedicated "drop first" primitive.
func (c *Compiler) compileListRest(list symEntry) {
	n := c.st.declare(c.newTemp(), c.pool)
	i := c.st.declare(c.newTemp(), c.pool)
	result := c.st.declare(c.newTemp(), c.pool)

	c.emitLoad(list)
	c.emitOp(OpListSize)
	c.emitStore(n)
	c.emit(OpConst, value.MakeInt(1))
	c.emitStore(i)
	c.emitOp(OpMkList)
	c.emitStore(result)

	top := c.here()
	c.emitLoad(i)
	c.emitLoad(n)
	c.emitOp(OpLt)
	exit := c.reserve(OpBrf)

	c.emitLoad(result)
	c.emitIndexLoad(list, i)
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

func (c *Compiler) compileListMap(e *ast.ListOpExpr, list symEntry) {
	if len(e.Args) < 2 {
		c.emitOp(OpNull)
		return
	}
	c.compileExpr(e.Args[1])
	fn := c.st.declare(c.newTemp(), c.pool)
	c.emitStore(fn)

	n := c.st.declare(c.newTemp(), c.pool)
	i := c.st.declare(c.newTemp(), c.pool)
	result := c.st.declare(c.newTemp(), c.pool)

	c.emitLoad(list)
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

	c.emitLoad(result)
	c.emitLoad(fn)
	c.emitIndexLoad(list, i)
	c.emit(OpCall, value.MakeInt(1))
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

func (c *Compiler) compileListFilter(e *ast.ListOpExpr, list symEntry) {
	if len(e.Args) < 2 {
		c.emitOp(OpNull)
		return
	}
	c.compileExpr(e.Args[1])
	fn := c.st.declare(c.newTemp(), c.pool)
	c.emitStore(fn)

	n := c.st.declare(c.newTemp(), c.pool)
	i := c.st.declare(c.newTemp(), c.pool)
	elem := c.st.declare(c.newTemp(), c.pool)
	result := c.st.declare(c.newTemp(), c.pool)

	c.emitLoad(list)
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

	c.emitIndexLoad(list, i)
	c.emitStore(elem)

	c.emitLoad(fn)
	c.emitLoad(elem)
	c.emit(OpCall, value.MakeInt(1))
	skip := c.reserve(OpBrf)
	c.emitLoad(result)
	c.emitLoad(elem)
	c.emitOp(OpApndList)
	c.emitOp(OpPop)
	c.patch(skip, c.here())

	c.emitLoad(i)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpAdd)
	c.emitStore(i)
	c.emit(OpBr, value.MakeInt(int64(top)))
	c.patch(exit, c.here())

	c.emitLoad(result)
}

func (c *Compiler) compileListReduce(e *ast.ListOpExpr, list symEntry) {
	if len(e.Args) < 2 {
		c.emitOp(OpNull)
		return
	}
	c.compileExpr(e.Args[1])
	fn := c.st.declare(c.newTemp(), c.pool)
	c.emitStore(fn)

	acc := c.st.declare(c.newTemp(), c.pool)
	if len(e.Args) > 2 {
		c.compileExpr(e.Args[2])
	} else {
		c.emitOp(OpNull)
	}
	c.emitStore(acc)

	n := c.st.declare(c.newTemp(), c.pool)
	i := c.st.declare(c.newTemp(), c.pool)

	c.emitLoad(list)
	c.emitOp(OpListSize)
	c.emitStore(n)
	c.emit(OpConst, value.MakeInt(0))
	c.emitStore(i)

	if len(e.Args) <= 2 {
		// Without a seed, a non-empty list's first element seeds the fold
		// and iteration starts at index 1.
		c.emit(OpConst, value.MakeInt(0))
		c.emitLoad(n)
		c.emitOp(OpLt)
		empty := c.reserve(OpBrf)
		c.emitIndexLoad(list, i)
		c.emitStore(acc)
		c.emit(OpConst, value.MakeInt(1))
		c.emitStore(i)
		c.patch(empty, c.here())
	}

	top := c.here()
	c.emitLoad(i)
	c.emitLoad(n)
	c.emitOp(OpLt)
	exit := c.reserve(OpBrf)

	c.emitLoad(fn)
	c.emitLoad(acc)
	c.emitIndexLoad(list, i)
	c.emit(OpCall, value.MakeInt(2))
	c.emitStore(acc)

	c.emitLoad(i)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpAdd)
	c.emitStore(i)
	c.emit(OpBr, value.MakeInt(int64(top)))
	c.patch(exit, c.here())

	c.emitLoad(acc)
}

// compileListSort lowers the sort builtin to a stable insertion sort over a
// copy of list, driven by fn(a, b) as the less-than comparator — there is no
// native sort opcode, so the comparator-driven shuffle is expressed directly
// as indexed fload/fstore moves.
func (c *Compiler) compileListSort(e *ast.ListOpExpr, list symEntry) {
	if len(e.Args) < 2 {
		c.emitOp(OpNull)
		return
	}
	c.compileExpr(e.Args[1])
	fn := c.st.declare(c.newTemp(), c.pool)
	c.emitStore(fn)

	n := c.st.declare(c.newTemp(), c.pool)
	result := c.st.declare(c.newTemp(), c.pool)
	i := c.st.declare(c.newTemp(), c.pool)
	j := c.st.declare(c.newTemp(), c.pool)
	jp1 := c.st.declare(c.newTemp(), c.pool)
	key := c.st.declare(c.newTemp(), c.pool)

	c.emitLoad(list)
	c.emitOp(OpListSize)
	c.emitStore(n)
	c.emitOp(OpMkList)
	c.emitStore(result)
	c.emit(OpConst, value.MakeInt(0))
	c.emitStore(i)

	copyTop := c.here()
	c.emitLoad(i)
	c.emitLoad(n)
	c.emitOp(OpLt)
	copyExit := c.reserve(OpBrf)
	c.emitLoad(result)
	c.emitIndexLoad(list, i)
	c.emitOp(OpApndList)
	c.emitOp(OpPop)
	c.emitLoad(i)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpAdd)
	c.emitStore(i)
	c.emit(OpBr, value.MakeInt(int64(copyTop)))
	c.patch(copyExit, c.here())

	// for i := 1; i < n; i++ {
	//   key := result[i]; j := i - 1
	//   while j >= 0 && fn(key, result[j]) { result[j+1] := result[j]; j-- }
	//   result[j+1] := key
	// }
	c.emit(OpConst, value.MakeInt(1))
	c.emitStore(i)
	outerTop := c.here()
	c.emitLoad(i)
	c.emitLoad(n)
	c.emitOp(OpLt)
	outerExit := c.reserve(OpBrf)

	c.emitIndexLoad(result, i)
	c.emitStore(key)
	c.emitLoad(i)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpSub)
	c.emitStore(j)

	innerTop := c.here()
	c.emitLoad(j)
	c.emit(OpConst, value.MakeInt(0))
	c.emitOp(OpGte)
	innerExit := c.reserve(OpBrf)

	c.emitLoad(fn)
	c.emitLoad(key)
	c.emitIndexLoad(result, j)
	c.emit(OpCall, value.MakeInt(2))
	shiftExit := c.reserve(OpBrf)

	shiftVal := c.st.declare(c.newTemp(), c.pool)
	c.emitIndexLoad(result, j)
	c.emitStore(shiftVal)
	c.emitLoad(j)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpAdd)
	c.emitStore(jp1)
	c.emitIndexStore(result, jp1, shiftVal)

	c.emitLoad(j)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpSub)
	c.emitStore(j)
	c.emit(OpBr, value.MakeInt(int64(innerTop)))
	c.patch(shiftExit, c.here())
	c.patch(innerExit, c.here())

	c.emitLoad(j)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpAdd)
	c.emitStore(jp1)
	c.emitIndexStore(result, jp1, key)

	c.emitLoad(i)
	c.emit(OpConst, value.MakeInt(1))
	c.emitOp(OpAdd)
	c.emitStore(i)
	c.emit(OpBr, value.MakeInt(int64(outerTop)))
	c.patch(outerExit, c.here())

	c.emitLoad(result)
}
