package patch

import (
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// Diff produces the minimal patch taking before to after at type t.
func Diff(before, after *values.Value, t *types.Type) *Patch {
	return diffRec(before, after, t, nil)
}

func diffRec(before, after *values.Value, t *types.Type, stack []*types.Type) *Patch {
	if values.Equal(before, after) {
		return Unchanged()
	}
	if t.Kind() == types.Recursive {
		if onTypeStack(stack, t) {
			return Replace(before, after)
		}
		return diffRec(before, after, t.Inner(), pushTypeStack(stack, t))
	}
	switch t.Kind() {
	case types.Array:
		return diffArray(before, after, stack)
	case types.Set:
		return diffSet(before, after)
	case types.Dict:
		return diffDict(before, after, t.Value(), stack)
	case types.Struct:
		return diffStruct(before, after, t.Fields(), stack)
	case types.Variant:
		return diffVariant(before, after, t, stack)
	case types.Ref:
		return diffRef(before, after, t.Elem(), stack)
	default:
		return Replace(before, after)
	}
}

// diffArray uses the LCS alignment to find the preserved subsequence, then
// emits deletes for unmatched before-elements and inserts for unmatched
// after-elements. Key tracks the position in the working copy at the
// moment each op is emitted, matching how Apply consumes key+offset
// against an evolving copy in emitted order.
func diffArray(before, after *values.Value, stack []*types.Type) *Patch {
	b := before.Items()
	a := after.Items()
	pairs := lcsPairs(b, a)

	var ops []ArrayOp
	pos := 0
	i, j := 0, 0
	emitGap := func(bi, aj int) {
		for k := i; k < bi; k++ {
			ops = append(ops, ArrayOp{Kind: ArrDelete, Key: pos, Elem: b[k].Retain()})
		}
		for k := j; k < aj; k++ {
			ops = append(ops, ArrayOp{Kind: ArrInsert, Key: pos, Elem: a[k].Retain()})
			pos++
		}
	}
	for _, pr := range pairs {
		bi, aj := pr[0], pr[1]
		emitGap(bi, aj)
		pos++ // consume the matched element itself
		i, j = bi+1, aj+1
	}
	emitGap(len(b), len(a))

	if len(ops) == 0 {
		return Unchanged()
	}
	return &Patch{kind: KPatch, refcount: 1, arrayOps: ops}
}

// diffSet walks both sorted element lists in lockstep — sets maintain an
// ascending invariant, making this a linear merge rather than a
// hash-based walk.
func diffSet(before, after *values.Value) *Patch {
	b := before.Items()
	a := after.Items()
	var ops []SetOp
	i, j := 0, 0
	for i < len(b) && j < len(a) {
		switch c := values.Compare(b[i], a[j]); {
		case c < 0:
			ops = append(ops, SetOp{Kind: SetOpDelete, Elem: b[i].Retain()})
			i++
		case c > 0:
			ops = append(ops, SetOp{Kind: SetOpInsert, Elem: a[j].Retain()})
			j++
		default:
			i++
			j++
		}
	}
	for ; i < len(b); i++ {
		ops = append(ops, SetOp{Kind: SetOpDelete, Elem: b[i].Retain()})
	}
	for ; j < len(a); j++ {
		ops = append(ops, SetOp{Kind: SetOpInsert, Elem: a[j].Retain()})
	}
	if len(ops) == 0 {
		return Unchanged()
	}
	return &Patch{kind: KPatch, refcount: 1, setOps: ops}
}

func diffDict(before, after *values.Value, valueType *types.Type, stack []*types.Type) *Patch {
	b := before.Dict()
	a := after.Dict()
	var ops []DictOp
	i, j := 0, 0
	for i < len(b) && j < len(a) {
		switch c := values.Compare(b[i].Key, a[j].Key); {
		case c < 0:
			ops = append(ops, DictOp{Kind: DictOpDelete, Key: b[i].Key.Retain(), Before: b[i].Value.Retain()})
			i++
		case c > 0:
			ops = append(ops, DictOp{Kind: DictOpInsert, Key: a[j].Key.Retain(), After: a[j].Value.Retain()})
			j++
		default:
			if !values.Equal(b[i].Value, a[j].Value) {
				sub := diffRec(b[i].Value, a[j].Value, valueType, stack)
				ops = append(ops, DictOp{Kind: DictOpUpdate, Key: b[i].Key.Retain(), Patch: sub})
			}
			i++
			j++
		}
	}
	for ; i < len(b); i++ {
		ops = append(ops, DictOp{Kind: DictOpDelete, Key: b[i].Key.Retain(), Before: b[i].Value.Retain()})
	}
	for ; j < len(a); j++ {
		ops = append(ops, DictOp{Kind: DictOpInsert, Key: a[j].Key.Retain(), After: a[j].Value.Retain()})
	}
	if len(ops) == 0 {
		return Unchanged()
	}
	return &Patch{kind: KPatch, refcount: 1, dictOps: ops}
}

func diffStruct(before, after *values.Value, fields []types.Field, stack []*types.Type) *Patch {
	bv := before.FieldValues()
	av := after.FieldValues()
	out := make([]FieldPatch, len(fields))
	allUnchanged := true
	for i, f := range fields {
		sub := diffRec(bv[i], av[i], f.Type, stack)
		if sub.kind != KUnchanged {
			allUnchanged = false
		}
		out[i] = FieldPatch{Name: f.Name, Patch: sub}
	}
	if allUnchanged {
		for _, fp := range out {
			fp.Patch.Release()
		}
		return Unchanged()
	}
	return &Patch{kind: KPatch, refcount: 1, fields: out}
}

func diffVariant(before, after *values.Value, t *types.Type, stack []*types.Type) *Patch {
	if before.CaseName() != after.CaseName() {
		return Replace(before, after)
	}
	c, _ := t.CaseByName(before.CaseName())
	sub := diffRec(before.Payload(), after.Payload(), c.Type, stack)
	if sub.kind == KUnchanged {
		return sub
	}
	return &Patch{kind: KPatch, refcount: 1, caseName: before.CaseName(), variant: sub}
}

func diffRef(before, after *values.Value, elemType *types.Type, stack []*types.Type) *Patch {
	sub := diffRec(before.Cell(), after.Cell(), elemType, stack)
	if sub.kind == KUnchanged {
		return sub
	}
	return &Patch{kind: KPatch, refcount: 1, ref: sub}
}
