package context_test

import (
	"testing"

	"github.com/cwbudde/go-twlang/internal/context"
	"github.com/cwbudde/go-twlang/internal/value"
	"github.com/stretchr/testify/assert"
)

func TestLookupUnresolvedDepthFallsThroughToGlobal(t *testing.T) {
	ctx := context.New()
	ctx.Global.Bind("g", value.MakeInt(7))
	assert.Equal(t, value.MakeInt(7), ctx.Lookup("g", -1))
}

func TestAssignDepthMinusOneWritesGlobal(t *testing.T) {
	ctx := context.New()
	ok := ctx.Assign("g", -1, value.MakeInt(1))
	assert.True(t, ok)
	assert.Equal(t, value.MakeInt(1), ctx.Lookup("g", -1))

	ok = ctx.Assign("g", -1, value.MakeInt(2))
	assert.True(t, ok)
	assert.Equal(t, value.MakeInt(2), ctx.Lookup("g", -1))
}

func TestOpenScopeCloseScopeNestsCallStack(t *testing.T) {
	ctx := context.New()
	assert.Equal(t, ctx.Global, ctx.Top())

	act := ctx.OpenScope(nil)
	assert.Equal(t, act, ctx.Top())
	assert.NotEqual(t, ctx.Global, ctx.Top())

	ctx.CloseScope()
	assert.Equal(t, ctx.Global, ctx.Top())
}

func TestLookupNonNegativeDepthWalksAccessLinks(t *testing.T) {
	ctx := context.New()
	outer := ctx.OpenScope(nil)
	outer.Bind("n", value.MakeInt(10))
	ctx.OpenScope(nil) // inner, access-linked to outer via Top()
	assert.Equal(t, value.MakeInt(10), ctx.Lookup("n", 1))
}

func TestStructTypeRegistryRoundTrips(t *testing.T) {
	ctx := context.New()
	ctx.RegisterStructType("Point", []string{"x", "y"})
	tpl, ok := ctx.StructType("Point")
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, tpl.Fields)

	_, ok = ctx.StructType("Missing")
	assert.False(t, ok)
}

func TestOperandStackPushPopOrder(t *testing.T) {
	ctx := context.New()
	assert.Equal(t, 0, ctx.OperandDepth())
	ctx.PushOperand(value.MakeInt(1))
	ctx.PushOperand(value.MakeInt(2))
	assert.Equal(t, 2, ctx.OperandDepth())
	assert.Equal(t, value.MakeInt(2), ctx.PopOperand())
	assert.Equal(t, value.MakeInt(1), ctx.PopOperand())
	assert.Equal(t, 0, ctx.OperandDepth())
}
