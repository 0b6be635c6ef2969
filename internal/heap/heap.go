// Package heap implements the mark-and-sweep allocator of spec.md §4.B: it
// owns every heap-resident String, List, Function, and Struct object and is
// the only component permitted to create or destroy them.
//
// New objects are inserted with mark=false. Collection is triggered
// externally (by internal/context, on activation close) by calling
// Collect with the current root Values; Collect performs the full
// mark-then-sweep pass described in spec.md §4.B and is otherwise
// infallible — there is no internal failure mode.
package heap

import "github.com/cwbudde/go-twlang/internal/value"

// Heap is the allocator: the live set of heap objects keyed by HeapID.
type Heap struct {
	objects map[value.HeapID]object
	nextID  value.HeapID
}

// New creates an empty allocator. HeapID 0 is never issued, so a
// zero-valued Value of a heap kind is recognizably uninitialized.
func New() *Heap {
	return &Heap{objects: make(map[value.HeapID]object), nextID: 1}
}

func (h *Heap) insert(o object) value.HeapID {
	id := h.nextID
	h.nextID++
	h.objects[id] = o
	return id
}

// LiveCount returns the number of objects currently in the live set —
// exposed for tests exercising GC behavior (spec.md §8 scenario 6).
func (h *Heap) LiveCount() int { return len(h.objects) }

// MakeString allocates a new immutable String object.
func (h *Heap) MakeString(s string) value.Value {
	return value.MakeStr(h.insert(&stringObj{data: s}))
}

func (h *Heap) StringData(id value.HeapID) string {
	if o, ok := h.objects[id].(*stringObj); ok {
		return o.data
	}
	return ""
}

// MakeEmptyList allocates a new List object with no elements.
func (h *Heap) MakeEmptyList() value.Value {
	return value.MakeList(h.insert(&listObj{}))
}

// MakeListFrom allocates a new List object containing a copy of elems, in
// order.
func (h *Heap) MakeListFrom(elems []value.Value) value.Value {
	v := h.MakeEmptyList()
	for _, e := range elems {
		h.ListAppend(v.Handle, e)
	}
	return v
}

func (h *Heap) listObjFor(id value.HeapID) *listObj {
	o, _ := h.objects[id].(*listObj)
	return o
}

// ListCount returns the element count of the List at id.
func (h *Heap) ListCount(id value.HeapID) int {
	if l := h.listObjFor(id); l != nil {
		return l.count
	}
	return 0
}

// ListAppend adds v after the current tail — O(1) via the tail pointer,
// mutating the List in place (spec.md §3 invariant 3).
func (h *Heap) ListAppend(id value.HeapID, v value.Value) {
	l := h.listObjFor(id)
	if l == nil {
		return
	}
	node := &listNode{val: v}
	if l.tail != nil {
		l.tail.next = node
	} else {
		l.head = node
	}
	l.tail = node
	l.count++
}

// ListPush prepends v — O(1) via the head pointer, mutating in place.
func (h *Heap) ListPush(id value.HeapID, v value.Value) {
	l := h.listObjFor(id)
	if l == nil {
		return
	}
	node := &listNode{val: v, next: l.head}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.count++
}

// ListFirst returns the head element, or Null if the list is empty.
func (h *Heap) ListFirst(id value.HeapID) value.Value {
	l := h.listObjFor(id)
	if l == nil || l.head == nil {
		return value.NullValue
	}
	return l.head.val
}

// ListRest returns a fresh List containing every element but the first.
func (h *Heap) ListRest(id value.HeapID) value.Value {
	elems := h.ListToSlice(id)
	if len(elems) == 0 {
		return h.MakeEmptyList()
	}
	return h.MakeListFrom(elems[1:])
}

// ListGet returns the element at idx (0-based), and whether idx was in
// range.
func (h *Heap) ListGet(id value.HeapID, idx int) (value.Value, bool) {
	l := h.listObjFor(id)
	if l == nil || idx < 0 || idx >= l.count {
		return value.NullValue, false
	}
	n := l.head
	for i := 0; i < idx; i++ {
		n = n.next
	}
	return n.val, true
}

// ListSet overwrites the node's value at idx in place, reporting whether idx
// was in range.
func (h *Heap) ListSet(id value.HeapID, idx int, v value.Value) bool {
	l := h.listObjFor(id)
	if l == nil || idx < 0 || idx >= l.count {
		return false
	}
	n := l.head
	for i := 0; i < idx; i++ {
		n = n.next
	}
	n.val = v
	return true
}

// ListToSlice gathers every element of the List at id, in order.
func (h *Heap) ListToSlice(id value.HeapID) []value.Value {
	l := h.listObjFor(id)
	if l == nil {
		return nil
	}
	out := make([]value.Value, 0, l.count)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.val)
	}
	return out
}

// MakeStructInstance deep-copies a registered type template's field map
// into a fresh, blessed Struct instance (spec.md §4.F BLESS_EXPR).
func (h *Heap) MakeStructInstance(typeName string, fieldOrder []string) value.Value {
	fields := make(map[string]value.Value, len(fieldOrder))
	order := make([]string, len(fieldOrder))
	copy(order, fieldOrder)
	for _, f := range fieldOrder {
		fields[f] = value.NullValue
	}
	return value.MakeStruct(h.insert(&structObj{TypeName: typeName, FieldOrder: order, Fields: fields, Blessed: true}))
}

func (h *Heap) structObjFor(id value.HeapID) *structObj {
	o, _ := h.objects[id].(*structObj)
	return o
}

// StructField reads a field by name.
func (h *Heap) StructField(id value.HeapID, name string) (value.Value, bool) {
	s := h.structObjFor(id)
	if s == nil {
		return value.NullValue, false
	}
	v, ok := s.Fields[name]
	return v, ok
}

// StructSetField overwrites a field in place.
func (h *Heap) StructSetField(id value.HeapID, name string, v value.Value) bool {
	s := h.structObjFor(id)
	if s == nil {
		return false
	}
	if _, ok := s.Fields[name]; !ok {
		return false
	}
	s.Fields[name] = v
	return true
}

// StructTypeName returns the struct instance's type name.
func (h *Heap) StructTypeName(id value.HeapID) string {
	if s := h.structObjFor(id); s != nil {
		return s.TypeName
	}
	return ""
}

// StructFieldOrder returns the declared field order of a struct instance.
func (h *Heap) StructFieldOrder(id value.HeapID) []string {
	if s := h.structObjFor(id); s != nil {
		return s.FieldOrder
	}
	return nil
}

// StructIsBlessed reports whether the Struct at id is a bless()-produced
// instance rather than a fresh template (spec.md §3 invariant 5).
func (h *Heap) StructIsBlessed(id value.HeapID) bool {
	if s := h.structObjFor(id); s != nil {
		return s.Blessed
	}
	return false
}

// funcObjFor exposes the raw function object to internal/eval and
// internal/bytecode (same module, package-external access via the
// accessor methods below — the struct itself stays unexported so no other
// package can construct one without going through the allocator).
func (h *Heap) funcObjFor(id value.HeapID) *funcObj {
	o, _ := h.objects[id].(*funcObj)
	return o
}
