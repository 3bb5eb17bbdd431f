package types

import "github.com/loomlang/loom/internal/alloc"

// NewRecursiveBuilder allocates an empty recursive-type wrapper in the
// "building" state: allocate the wrapper empty, build the inner term
// using the wrapper as a leaf, then set the inner term. The returned
// wrapper may be used as a leaf type (e.g. as an array element, or a struct
// field type) while constructing its own inner term; each such use must go
// through Leaf, which tracks the self-reference count that Finalize later
// subtracts.
func NewRecursiveBuilder() *Type {
	t := alloc.New[Type]("types.Type")
	t.kind = Recursive
	t.refcount = 1
	t.building = true
	return t
}

// Leaf returns t itself, retained, for use as a self-referential leaf while
// t is still building. Using Retain directly during construction would make
// the wrapper's external refcount include internal self-references;
// Finalize corrects for this by subtracting selfRefs, so every self-use
// during construction must go through Leaf instead of Retain.
func (t *Type) Leaf() *Type {
	if !t.building {
		return t.Retain()
	}
	t.refcount++
	t.selfRefs++
	return t
}

// Finalize sets t's inner term, completing two-step construction, and
// subtracts t's accumulated self-reference count from its external refcount
// so callers outside the construction see the correct count.
func (t *Type) Finalize(inner *Type) *Type {
	t.inner = inner.Retain()
	t.building = false
	t.refcount -= t.selfRefs
	if t.refcount < 1 {
		t.refcount = 1
	}
	t.selfRefs = 0
	return t
}
