// Package scope implements activation records: the lexical binding model
// described in spec.md §3 and §4.C.
//
// Each Activation holds a bindings map, an access link (the lexically
// enclosing activation, used for free-variable lookup through a closure's
// captured chain) and a control link (the caller's activation, used for GC
// rooting and scope close). spec.md §9 resolves the "two historical context
// implementations" ambiguity in favor of linked lexical scopes: a closure
// records the access-link chain at creation time rather than snapshotting
// bindings, so free-variable lookups and mutations flow through the same
// Activation the defining scope used — no write-back dance is needed.
package scope

import "github.com/cwbudde/go-twlang/internal/value"

// Activation is a single lexical scope / call frame.
type Activation struct {
	bindings map[string]value.Value
	Access   *Activation // lexically enclosing activation (nil at global scope)
	Control  *Activation // caller's activation (nil for the outermost call)
}

// New creates an activation enclosed lexically by access and called from
// control. Either may be nil.
func New(access, control *Activation) *Activation {
	return &Activation{bindings: make(map[string]value.Value), Access: access, Control: control}
}

// Bind introduces or overwrites a binding in this activation's own scope.
func (a *Activation) Bind(name string, v value.Value) {
	a.bindings[name] = v
}

// Get looks up name in this activation's own bindings only (no chain walk —
// callers address a specific activation by static depth, per spec.md §4.C).
func (a *Activation) Get(name string) (value.Value, bool) {
	v, ok := a.bindings[name]
	return v, ok
}

// Has reports whether name is bound directly in this activation.
func (a *Activation) Has(name string) bool {
	_, ok := a.bindings[name]
	return ok
}

// Set overwrites an existing binding in this activation's own scope, doing
// nothing if name is not already bound here.
func (a *Activation) Set(name string, v value.Value) bool {
	if _, ok := a.bindings[name]; !ok {
		return false
	}
	a.bindings[name] = v
	return true
}

// AccessAncestor walks `depth` access links starting from a, returning the
// activation reached (or nil if depth walks past the global scope).
func (a *Activation) AccessAncestor(depth int) *Activation {
	cur := a
	for i := 0; i < depth && cur != nil; i++ {
		cur = cur.Access
	}
	return cur
}

// Each invokes fn for every value bound directly in this activation. Used
// by the allocator's mark phase to enumerate roots (internal/heap).
func (a *Activation) Each(fn func(value.Value)) {
	for _, v := range a.bindings {
		fn(v)
	}
}

// Names returns the set of names bound directly in this activation, the
// runtime counterpart of the resolver's per-scope name sets (which the
// resolver keeps itself for its duplicate-declaration check).
func (a *Activation) Names() []string {
	names := make([]string, 0, len(a.bindings))
	for n := range a.bindings {
		names = append(names, n)
	}
	return names
}
