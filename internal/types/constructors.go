package types

import (
	"sort"

	"github.com/loomlang/loom/internal/alloc"
)

func newTerm(kind Kind) *Type {
	t := alloc.New[Type]("types.Type")
	t.kind = kind
	t.refcount = 1
	return t
}

// NewArray constructs array<elem>, retaining elem.
func NewArray(elem *Type) *Type {
	t := newTerm(Array)
	t.elem = elem.Retain()
	return t
}

// NewSet constructs set<elem>, retaining elem.
func NewSet(elem *Type) *Type {
	t := newTerm(Set)
	t.elem = elem.Retain()
	return t
}

// NewRef constructs ref<elem>, retaining elem.
func NewRef(elem *Type) *Type {
	t := newTerm(Ref)
	t.elem = elem.Retain()
	return t
}

// NewVector constructs vector<elem>. elem must be integer, float, or
// boolean, per the vector/matrix element-type invariant.
func NewVector(elem *Type) *Type {
	t := newTerm(Vector)
	t.elem = elem.Retain()
	return t
}

// NewMatrix constructs matrix<elem>, same element-type invariant as vector.
func NewMatrix(elem *Type) *Type {
	t := newTerm(Matrix)
	t.elem = elem.Retain()
	return t
}

// NewDict constructs dict<key,value>, retaining both.
func NewDict(key, value *Type) *Type {
	t := newTerm(Dict)
	t.key = key.Retain()
	t.value = value.Retain()
	return t
}

// NewStruct constructs struct{fields...}. Fields are sorted lexicographically
// by name and retained; field order is part of the type's identity.
func NewStruct(fields []Field) *Type {
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for i := range sorted {
		sorted[i].Type = sorted[i].Type.Retain()
	}
	t := newTerm(Struct)
	t.fields = sorted
	return t
}

// NewVariant constructs variant{cases...}. Cases are sorted lexicographically
// by name and retained, same identity rule as NewStruct.
func NewVariant(cases []Case) *Type {
	sorted := make([]Case, len(cases))
	copy(sorted, cases)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for i := range sorted {
		sorted[i].Type = sorted[i].Type.Retain()
	}
	t := newTerm(Variant)
	t.cases = sorted
	return t
}

// NewFunction constructs function(inputs...) -> output, retaining all
// referenced types. Input order is significant (positional parameters).
func NewFunction(inputs []*Type, output *Type) *Type {
	t := newTerm(Function)
	t.inputs = retainAll(inputs)
	t.output = output.Retain()
	return t
}

// NewAsyncFunction constructs async_function(inputs...) -> output. Execution
// is synchronous at runtime; the async marker is preserved only in the
// type and in IR/function values.
func NewAsyncFunction(inputs []*Type, output *Type) *Type {
	t := newTerm(AsyncFunction)
	t.inputs = retainAll(inputs)
	t.output = output.Retain()
	return t
}

func retainAll(ts []*Type) []*Type {
	out := make([]*Type, len(ts))
	for i, t := range ts {
		out[i] = t.Retain()
	}
	return out
}
