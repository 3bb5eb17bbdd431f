package types

// Retain increments t's reference count and returns t for chaining. It is a
// no-op for primitive singletons (sentinel refcount).
func (t *Type) Retain() *Type {
	if t == nil || t.refcount == sentinelRefcount {
		return t
	}
	t.refcount++
	return t
}

// Release decrements t's reference count, recursively releasing children
// once it reaches zero. No-op for primitive singletons. Releasing a
// recursive wrapper breaks its self-reference before destroying the inner
// term.
func (t *Type) Release() {
	if t == nil || t.refcount == sentinelRefcount {
		return
	}
	t.refcount--
	if t.refcount > 0 {
		return
	}
	switch t.kind {
	case Array, Set, Ref, Vector, Matrix:
		t.elem.Release()
	case Dict:
		t.key.Release()
		t.value.Release()
	case Struct:
		for _, f := range t.fields {
			f.Type.Release()
		}
	case Variant:
		for _, c := range t.cases {
			c.Type.Release()
		}
	case Function, AsyncFunction:
		for _, in := range t.inputs {
			in.Release()
		}
		t.output.Release()
	case Recursive:
		// Break the self-reference: the inner term's leaf occurrences of
		// this wrapper must not be released again, so we detach inner
		// before releasing it.
		inner := t.inner
		t.inner = nil
		inner.Release()
	}
}

// Refcount reports the current reference count, for tests and diagnostics.
// Returns sentinelRefcount for primitive singletons.
func (t *Type) Refcount() int32 {
	if t == nil {
		return 0
	}
	return t.refcount
}
