package scope_test

import (
	"sort"
	"testing"

	"github.com/cwbudde/go-twlang/internal/scope"
	"github.com/cwbudde/go-twlang/internal/value"
	"github.com/stretchr/testify/assert"
)

func TestBindGetOwnScopeOnly(t *testing.T) {
	parent := scope.New(nil, nil)
	parent.Bind("x", value.MakeInt(1))
	child := scope.New(parent, parent)

	_, ok := child.Get("x")
	assert.False(t, ok, "Get does not walk the access chain")

	v, ok := parent.Get("x")
	assert.True(t, ok)
	assert.Equal(t, value.MakeInt(1), v)
}

func TestSetFailsOnUnboundName(t *testing.T) {
	a := scope.New(nil, nil)
	assert.False(t, a.Set("missing", value.MakeInt(1)))
	a.Bind("x", value.MakeInt(1))
	assert.True(t, a.Set("x", value.MakeInt(2)))
	v, _ := a.Get("x")
	assert.Equal(t, value.MakeInt(2), v)
}

func TestAccessAncestorWalksAccessLinksNotControlLinks(t *testing.T) {
	global := scope.New(nil, nil)
	fn := scope.New(global, nil)       // access-linked to global (closure capture)
	call := scope.New(fn, global)      // access-linked to fn, control-linked to global (caller)
	inner := scope.New(call, call)

	assert.Equal(t, inner, inner.AccessAncestor(0))
	assert.Equal(t, call, inner.AccessAncestor(1))
	assert.Equal(t, fn, inner.AccessAncestor(2))
	assert.Equal(t, global, inner.AccessAncestor(3))
	assert.Nil(t, inner.AccessAncestor(4))
}

func TestEachVisitsAllDirectBindings(t *testing.T) {
	a := scope.New(nil, nil)
	a.Bind("x", value.MakeInt(1))
	a.Bind("y", value.MakeInt(2))

	var seen []int64
	a.Each(func(v value.Value) { seen = append(seen, v.IntVal) })
	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	assert.Equal(t, []int64{1, 2}, seen)
}

func TestNamesListsDirectBindingsOnly(t *testing.T) {
	parent := scope.New(nil, nil)
	parent.Bind("outer", value.MakeInt(1))
	child := scope.New(parent, parent)
	child.Bind("inner", value.MakeInt(2))

	names := child.Names()
	assert.Equal(t, []string{"inner"}, names)
}
