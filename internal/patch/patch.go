// Package patch implements the type-directed diff/apply/compose/invert
// patch algebra: a parametric variant type Patch<T> with three shapes —
// unchanged, a full before/after replacement, or a structural body whose
// shape depends on T's kind (array/set/dict/struct/variant/ref recurse;
// scalars and opaque kinds only ever replace). Like internal/types and
// internal/values, a single tagged struct under a Kind enum is used for
// Patch itself rather than reusing the generic value universe: a patch's
// shape is driven by a static type, not by a runtime value, so it is its
// own closed sum with its own dispatch, in the same style as ir.Node.
package patch

import "github.com/loomlang/loom/internal/values"

// Kind tags which of the three Patch<T> shapes a Patch is.
type Kind uint8

const (
	KUnchanged Kind = iota
	KReplace
	KPatch
)

// ArrayOpKind tags an array patch operation.
type ArrayOpKind uint8

const (
	ArrDelete ArrayOpKind = iota
	ArrInsert
	ArrUpdate
)

// ArrayOp is one entry of an array<E> patch body. Key indexes into the
// working copy at the time this op is applied (the "current logical
// state", per spec); Offset is a reserved signed bias added to Key. Diff
// always emits 0; Apply honours non-zero offsets from other producers.
type ArrayOp struct {
	Kind   ArrayOpKind
	Key    int
	Offset int
	Elem   *values.Value // ArrDelete/ArrInsert
	Patch  *Patch        // ArrUpdate
}

// SetOpKind tags a set patch operation.
type SetOpKind uint8

const (
	SetOpDelete SetOpKind = iota
	SetOpInsert
)

// SetOp is one entry of a set<E> patch body.
type SetOp struct {
	Kind SetOpKind
	Elem *values.Value
}

// DictOpKind tags a dict patch operation.
type DictOpKind uint8

const (
	DictOpDelete DictOpKind = iota
	DictOpInsert
	DictOpUpdate
)

// DictOp is one entry of a dict<K,V> patch body.
type DictOp struct {
	Kind   DictOpKind
	Key    *values.Value
	Before *values.Value // DictOpDelete: the value being removed
	After  *values.Value // DictOpInsert: the value being added
	Patch  *Patch        // DictOpUpdate
}

// FieldPatch is one field's sub-patch within a struct<f:T...> patch body.
type FieldPatch struct {
	Name  string
	Patch *Patch
}

// Patch is a value of the parametric type Patch<T> for some type t tracked
// alongside it by the caller (diff/apply/compose/invert all take t
// explicitly rather than storing it on the patch, since a patch's shape is
// already fully determined once built — the type is only needed to know
// how to interpret a .patch body's kind-dependent fields).
type Patch struct {
	kind     Kind
	refcount int32

	before, after *values.Value // KReplace

	arrayOps []ArrayOp    // KPatch over array<E>
	setOps   []SetOp      // KPatch over set<E>
	dictOps  []DictOp     // KPatch over dict<K,V>
	fields   []FieldPatch // KPatch over struct{f:T...}
	caseName string       // KPatch over variant (case identical before/after)
	variant  *Patch       // KPatch over variant: payload sub-patch
	ref      *Patch       // KPatch over ref<E>: pointee sub-patch
}

// Kind reports which Patch<T> shape p is.
func (p *Patch) Kind() Kind { return p.kind }

// Unchanged constructs the .unchanged patch.
func Unchanged() *Patch {
	return &Patch{kind: KUnchanged, refcount: 1}
}

// Replace constructs a full before/after replacement patch.
func Replace(before, after *values.Value) *Patch {
	return &Patch{kind: KReplace, refcount: 1, before: before.Retain(), after: after.Retain()}
}

// Before and After expose a KReplace patch's endpoints.
func (p *Patch) Before() *values.Value { return p.before }
func (p *Patch) After() *values.Value  { return p.after }

// ArrayOps, SetOps, DictOps, Fields, CaseName, and Variant/Ref expose a
// KPatch body's kind-dependent content.
func (p *Patch) ArrayOps() []ArrayOp    { return p.arrayOps }
func (p *Patch) SetOps() []SetOp        { return p.setOps }
func (p *Patch) DictOps() []DictOp      { return p.dictOps }
func (p *Patch) Fields() []FieldPatch   { return p.fields }
func (p *Patch) CaseName() string       { return p.caseName }
func (p *Patch) VariantPatch() *Patch   { return p.variant }
func (p *Patch) RefPatch() *Patch       { return p.ref }

// Retain increments p's reference count and returns p for chaining.
func (p *Patch) Retain() *Patch {
	if p == nil {
		return nil
	}
	p.refcount++
	return p
}

// Release decrements p's reference count, recursively releasing the
// values and sub-patches it owns once it reaches zero.
func (p *Patch) Release() {
	if p == nil {
		return
	}
	p.refcount--
	if p.refcount > 0 {
		return
	}
	switch p.kind {
	case KReplace:
		p.before.Release()
		p.after.Release()
	case KPatch:
		for _, op := range p.arrayOps {
			if op.Elem != nil {
				op.Elem.Release()
			}
			op.Patch.Release()
		}
		for _, op := range p.setOps {
			op.Elem.Release()
		}
		for _, op := range p.dictOps {
			op.Key.Release()
			if op.Before != nil {
				op.Before.Release()
			}
			if op.After != nil {
				op.After.Release()
			}
			op.Patch.Release()
		}
		for _, f := range p.fields {
			f.Patch.Release()
		}
		p.variant.Release()
		p.ref.Release()
	}
}

func releaseAll(vs []*values.Value) {
	for _, v := range vs {
		v.Release()
	}
}

func findFieldPatch(fields []FieldPatch, name string) *FieldPatch {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

func retainArrayOp(op ArrayOp) ArrayOp {
	out := op
	if op.Elem != nil {
		out.Elem = op.Elem.Retain()
	}
	out.Patch = op.Patch.Retain()
	return out
}

func retainDictOp(op DictOp) DictOp {
	out := op
	out.Key = op.Key.Retain()
	if op.Before != nil {
		out.Before = op.Before.Retain()
	}
	if op.After != nil {
		out.After = op.After.Retain()
	}
	out.Patch = op.Patch.Retain()
	return out
}
