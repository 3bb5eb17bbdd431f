package values

// GCChildren returns the values directly reachable from v in one step, for
// cycle-collector traversal. For function values this
// walks the closure's captured environment chain via Closure.CollectChildren,
// which is responsible for visiting each environment at most once per
// generation.
func (v *Value) GCChildren(generation uint64) []*Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KArray, KSet:
		return append([]*Value(nil), v.items...)
	case KDict:
		out := make([]*Value, 0, len(v.dict)*2)
		for _, p := range v.dict {
			out = append(out, p.Key, p.Value)
		}
		return out
	case KStruct:
		return append([]*Value(nil), v.fieldValues...)
	case KVariant:
		return []*Value{v.payload}
	case KRef:
		return []*Value{v.cell}
	case KFunction:
		var out []*Value
		if v.fn != nil {
			v.fn.CollectChildren(generation, &out)
		}
		return out
	default:
		return nil
	}
}

// ReleaseChildren decrements the refcount of every direct child, the same
// work Release does once a container's own refcount reaches zero. The
// cycle collector calls this directly on garbage it has already unlinked
// and marked destroyed — destroy their contents, then free them —
// instead of going through Release, since the garbage value's
// own refcount bookkeeping is already finished at that point.
func (v *Value) ReleaseChildren() { v.releaseChildren() }
