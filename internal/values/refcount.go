package values

// Retain increments v's reference count and returns v for chaining. No-op
// for the Null singleton.
func (v *Value) Retain() *Value {
	if v == nil || v.refcount == sentinelRefcount {
		return v
	}
	v.refcount++
	return v
}

// Release decrements v's reference count, recursively releasing children
// once it reaches zero — container release recursively releases
// children. No-op for the Null singleton. Reaching zero does not by
// itself unregister v from a cycle tracker — that is the tracker's job
// (internal/gc), invoked by whoever holds the tracker (normally
// internal/eval's Context) wrapping Retain/Release.
func (v *Value) Release() {
	if v == nil || v.refcount == sentinelRefcount {
		return
	}
	v.refcount--
	if v.refcount > 0 {
		return
	}
	v.releaseChildren()
}

func (v *Value) releaseChildren() {
	switch v.kind {
	case KArray, KSet:
		for _, it := range v.items {
			it.Release()
		}
	case KDict:
		for _, p := range v.dict {
			p.Key.Release()
			p.Value.Release()
		}
	case KStruct:
		for _, fv := range v.fieldValues {
			fv.Release()
		}
	case KVariant:
		v.payload.Release()
	case KRef:
		v.cell.Release()
	}
	// KFunction releases nothing directly: the captured environment is
	// owned by the closure/environment chain itself (retained when the
	// closure was built), reclaimed by refcounting on the environment or by
	// the cycle collector when the chain becomes unreachable through a
	// cycle.
}

// Refcount reports the current reference count for tests/diagnostics.
func (v *Value) Refcount() int32 { return v.refcount }

// MarkDestroyed sets an impossible-high sentinel refcount so a recursive
// destructor call reached through a cycle cannot double-free v. Only the
// cycle collector should call this.
func (v *Value) MarkDestroyed() { v.refcount = 1 << 30 }

// Tracked reports whether v is currently registered with a cycle tracker.
func (v *Value) Tracked() bool { return v.tracked }

// SetTracked is called by internal/gc when registering/unregistering v.
func (v *Value) SetTracked(t bool) { v.tracked = t }
