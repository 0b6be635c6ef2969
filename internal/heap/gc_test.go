package heap_test

import (
	"testing"

	"github.com/cwbudde/go-twlang/internal/heap"
	"github.com/cwbudde/go-twlang/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCollectFreesUnreachable exercises spec.md §8's GC soundness invariant:
// a rooted value survives collection, and an unrooted one is freed.
func TestCollectFreesUnreachable(t *testing.T) {
	h := heap.New()

	rootStr := h.MakeString("kept")
	garbageStr := h.MakeString("discarded")
	require.Equal(t, 2, h.LiveCount())

	h.Collect([]value.Value{rootStr})

	assert.Equal(t, 1, h.LiveCount())
	assert.Equal(t, "kept", h.StringData(rootStr.Handle))
	_ = garbageStr
}

// TestCollectRecursesIntoLists ensures a rooted List keeps every element it
// holds alive, even though only the List handle itself is a GC root.
func TestCollectRecursesIntoLists(t *testing.T) {
	h := heap.New()

	elem := h.MakeString("inside")
	list := h.MakeListFrom([]value.Value{elem})
	require.Equal(t, 2, h.LiveCount())

	h.Collect([]value.Value{list})

	assert.Equal(t, 2, h.LiveCount(), "list and its element must both survive")
}

// TestCollectIsCycleSafe: a List that (indirectly) contains itself must not
// hang the mark walk, and must still be collected once unrooted.
func TestCollectIsCycleSafe(t *testing.T) {
	h := heap.New()

	list := h.MakeListFrom(nil)
	h.ListAppend(list.Handle, list) // self-referential

	h.Collect([]value.Value{list})
	assert.Equal(t, 1, h.LiveCount())

	h.Collect(nil)
	assert.Equal(t, 0, h.LiveCount())
}
