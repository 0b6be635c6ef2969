package heap

import "github.com/cwbudde/go-twlang/internal/value"

// Collect runs one mark-and-sweep cycle, rooted at the given Values
// (spec.md §4.B). Roots are assembled by internal/context from the operand
// stack and every activation record reachable along the control-link
// chain; Collect itself only needs the flattened root Value list.
//
// The mark walk recurses into Lists (every node's Value) and blessed
// Structs (every field Value), skipping already-marked handles so cyclic
// heap graphs terminate (spec.md §5, §9). It additionally recurses into a
// Function's captured access-link chain: spec.md §4.B's bullet list names
// only List/Struct recursion, but the GC soundness invariant of §8 ("every
// Value still reachable from the runtime roots is not freed") requires
// keeping a closure's captured heap-backed bindings alive too, so this
// implementation extends the walk to cover them.
func (h *Heap) Collect(roots []value.Value) {
	for _, r := range roots {
		h.mark(r)
	}
	h.sweep()
}

func (h *Heap) mark(v value.Value) {
	if !v.IsHeap() {
		return
	}
	o, ok := h.objects[v.Handle]
	if !ok || o.isMarked() {
		return
	}
	o.setMarked(true)

	switch obj := o.(type) {
	case *listObj:
		for n := obj.head; n != nil; n = n.next {
			h.mark(n.val)
		}
	case *structObj:
		if obj.Blessed {
			for _, fv := range obj.Fields {
				h.mark(fv)
			}
		}
	case *funcObj:
		h.markEnclosing(obj)
	}
}

// markEnclosing walks a Function's captured activation chain (if any),
// marking every bound Value. The chain itself is a plain Go struct (not a
// heap object we own), so Go's native GC keeps the Activation alive as long
// as the Function object survives one of our mark-sweep cycles; this walk
// only needs to protect the heap-backed Values reachable from it.
func (h *Heap) markEnclosing(f *funcObj) {
	for act := f.Enclosing; act != nil; act = act.Access {
		act.Each(func(v value.Value) { h.mark(v) })
	}
}

func (h *Heap) sweep() {
	for id, o := range h.objects {
		if o.isMarked() {
			o.setMarked(false)
			continue
		}
		delete(h.objects, id)
	}
}
