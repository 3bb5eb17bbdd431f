package values

import (
	"sort"

	"github.com/loomlang/loom/internal/alloc"
	"github.com/loomlang/loom/internal/types"
)

func newContainer(kind Kind) *Value {
	v := alloc.New[Value]("values.Value")
	v.kind = kind
	v.refcount = 1
	return v
}

// NewArray constructs an array value from items in the given order,
// retaining each item and the element type.
func NewArray(elemType *types.Type, items []*Value) *Value {
	v := newContainer(KArray)
	v.elemType = elemType.Retain()
	v.items = retainAll(items)
	return v
}

// NewSet constructs a set value, sorting and de-duplicating items so the
// strictly-ascending invariant holds by construction.
func NewSet(elemType *types.Type, items []*Value) *Value {
	v := newContainer(KSet)
	v.elemType = elemType.Retain()
	v.items = dedupSorted(retainAll(items))
	return v
}

// SetAdd inserts item in sorted position if not already present,
// maintaining the ascending invariant.
func SetAdd(s *Value, item *Value) {
	i := sort.Search(len(s.items), func(i int) bool { return Compare(s.items[i], item) >= 0 })
	if i < len(s.items) && Equal(s.items[i], item) {
		return
	}
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = item.Retain()
}

// SetRemove removes item from s if present.
func SetRemove(s *Value, item *Value) {
	i := sort.Search(len(s.items), func(i int) bool { return Compare(s.items[i], item) >= 0 })
	if i < len(s.items) && Equal(s.items[i], item) {
		s.items[i].Release()
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

// SetContains reports whether item is a member of s (binary search over
// the ascending invariant).
func SetContains(s *Value, item *Value) bool {
	i := sort.Search(len(s.items), func(i int) bool { return Compare(s.items[i], item) >= 0 })
	return i < len(s.items) && Equal(s.items[i], item)
}

func dedupSorted(items []*Value) []*Value {
	sort.Slice(items, func(i, j int) bool { return Compare(items[i], items[j]) < 0 })
	out := items[:0]
	for i, it := range items {
		if i == 0 || !Equal(out[len(out)-1], it) {
			out = append(out, it)
		} else {
			it.Release() // duplicate, drop the extra reference
		}
	}
	return out
}

// NewDict constructs a dict value, sorting by key so the strictly-ascending
// key invariant holds. Later duplicate keys win (matches map-literal
// "last write wins" convention). Unlike array/set/vector/matrix, Dict
// doesn't carry a key/value type handle on the value itself — callers
// that need dict<K,V> statically (codec, patch) get it
// from the enclosing IR/type context instead.
func NewDict(pairs []DictPair) *Value {
	v := newContainer(KDict)
	v.dict = dedupDict(retainDict(pairs))
	return v
}

func retainDict(pairs []DictPair) []DictPair {
	out := make([]DictPair, len(pairs))
	for i, p := range pairs {
		out[i] = DictPair{Key: p.Key.Retain(), Value: p.Value.Retain()}
	}
	return out
}

func dedupDict(pairs []DictPair) []DictPair {
	sort.SliceStable(pairs, func(i, j int) bool { return Compare(pairs[i].Key, pairs[j].Key) < 0 })
	out := pairs[:0]
	for _, p := range pairs {
		if n := len(out); n > 0 && Equal(out[n-1].Key, p.Key) {
			out[n-1].Key.Release()
			out[n-1].Value.Release()
			out[n-1] = p
		} else {
			out = append(out, p)
		}
	}
	return out
}

// DictSet inserts or overwrites the value for key, maintaining sort order.
func DictSet(d *Value, key, val *Value) {
	i := sort.Search(len(d.dict), func(i int) bool { return Compare(d.dict[i].Key, key) >= 0 })
	if i < len(d.dict) && Equal(d.dict[i].Key, key) {
		d.dict[i].Value.Release()
		d.dict[i].Value = val.Retain()
		return
	}
	d.dict = append(d.dict, DictPair{})
	copy(d.dict[i+1:], d.dict[i:])
	d.dict[i] = DictPair{Key: key.Retain(), Value: val.Retain()}
}

// DictGet looks up key, returning (value, true) or (nil, false).
func DictGet(d *Value, key *Value) (*Value, bool) {
	i := sort.Search(len(d.dict), func(i int) bool { return Compare(d.dict[i].Key, key) >= 0 })
	if i < len(d.dict) && Equal(d.dict[i].Key, key) {
		return d.dict[i].Value, true
	}
	return nil, false
}

// DictDelete removes key from d if present.
func DictDelete(d *Value, key *Value) {
	i := sort.Search(len(d.dict), func(i int) bool { return Compare(d.dict[i].Key, key) >= 0 })
	if i < len(d.dict) && Equal(d.dict[i].Key, key) {
		d.dict[i].Key.Release()
		d.dict[i].Value.Release()
		d.dict = append(d.dict[:i], d.dict[i+1:]...)
	}
}

// NewStruct constructs a struct value. fieldValues must be given in the
// struct type's declared field order; duplicate names or a count
// mismatch is a programmer error in the caller (IR construction / codec),
// not a recoverable runtime condition.
func NewStruct(structType *types.Type, fieldValues []*Value) *Value {
	v := newContainer(KStruct)
	v.structType = structType.Retain()
	names := make([]string, len(structType.Fields()))
	for i, f := range structType.Fields() {
		names[i] = f.Name
	}
	v.fieldNames = names
	v.fieldValues = retainAll(fieldValues)
	return v
}

// NewVariant constructs a variant value with the given case and payload.
// caseName must be one of variantType's declared cases.
func NewVariant(variantType *types.Type, caseName string, payload *Value) *Value {
	v := newContainer(KVariant)
	v.variantType = variantType.Retain()
	v.caseName = caseName
	v.payload = payload.Retain()
	return v
}

// NewRef constructs a ref cell holding initial, retaining it.
func NewRef(elemType *types.Type, initial *Value) *Value {
	v := newContainer(KRef)
	v.elemType = elemType.Retain()
	v.cell = initial.Retain()
	return v
}

// NewFunction constructs a function value wrapping a closure handle.
func NewFunction(fn Closure) *Value {
	v := newContainer(KFunction)
	v.fn = fn
	return v
}

func retainAll(items []*Value) []*Value {
	out := make([]*Value, len(items))
	for i, it := range items {
		out[i] = it.Retain()
	}
	return out
}
