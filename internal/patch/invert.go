package patch

import (
	"github.com/loomlang/loom/internal/types"
)

// Invert derives the patch that undoes p at type t.
func Invert(p *Patch, t *types.Type) *Patch {
	return invertRec(p, t, nil)
}

func invertRec(p *Patch, t *types.Type, stack []*types.Type) *Patch {
	switch p.kind {
	case KUnchanged:
		return Unchanged()
	case KReplace:
		return Replace(p.after, p.before)
	case KPatch:
		if t.Kind() == types.Recursive {
			if onTypeStack(stack, t) {
				return Unchanged()
			}
			return invertRec(p, t.Inner(), pushTypeStack(stack, t))
		}
		switch t.Kind() {
		case types.Array:
			return invertArray(p.arrayOps, t.Elem(), stack)
		case types.Set:
			return invertSet(p.setOps)
		case types.Dict:
			return invertDict(p.dictOps, t.Value(), stack)
		case types.Struct:
			return invertStruct(p.fields, t, stack)
		case types.Variant:
			return invertVariant(p, t, stack)
		case types.Ref:
			return invertRef(p, t.Elem(), stack)
		default:
			return Unchanged()
		}
	}
	return Unchanged()
}

// invertArray reverses op order and flips each op's sense: a delete
// becomes an insert of the same element and vice versa, an update recurses.
// Key/Offset are kept as-is per the literal inversion rule: reversing both
// the op list and each op's sense reproduces the before-state positions.
func invertArray(ops []ArrayOp, elemType *types.Type, stack []*types.Type) *Patch {
	out := make([]ArrayOp, len(ops))
	for i, op := range ops {
		j := len(ops) - 1 - i
		switch op.Kind {
		case ArrDelete:
			out[j] = ArrayOp{Kind: ArrInsert, Key: op.Key, Offset: op.Offset, Elem: op.Elem.Retain()}
		case ArrInsert:
			out[j] = ArrayOp{Kind: ArrDelete, Key: op.Key, Offset: op.Offset, Elem: op.Elem.Retain()}
		case ArrUpdate:
			out[j] = ArrayOp{Kind: ArrUpdate, Key: op.Key, Offset: op.Offset, Patch: invertRec(op.Patch, elemType, stack)}
		}
	}
	return &Patch{kind: KPatch, refcount: 1, arrayOps: out}
}

func invertSet(ops []SetOp) *Patch {
	out := make([]SetOp, len(ops))
	for i, op := range ops {
		switch op.Kind {
		case SetOpDelete:
			out[i] = SetOp{Kind: SetOpInsert, Elem: op.Elem.Retain()}
		case SetOpInsert:
			out[i] = SetOp{Kind: SetOpDelete, Elem: op.Elem.Retain()}
		}
	}
	return &Patch{kind: KPatch, refcount: 1, setOps: out}
}

func invertDict(ops []DictOp, valueType *types.Type, stack []*types.Type) *Patch {
	out := make([]DictOp, len(ops))
	for i, op := range ops {
		switch op.Kind {
		case DictOpDelete:
			out[i] = DictOp{Kind: DictOpInsert, Key: op.Key.Retain(), After: op.Before.Retain()}
		case DictOpInsert:
			out[i] = DictOp{Kind: DictOpDelete, Key: op.Key.Retain(), Before: op.After.Retain()}
		case DictOpUpdate:
			out[i] = DictOp{Kind: DictOpUpdate, Key: op.Key.Retain(), Patch: invertRec(op.Patch, valueType, stack)}
		}
	}
	return &Patch{kind: KPatch, refcount: 1, dictOps: out}
}

func invertStruct(fields []FieldPatch, t *types.Type, stack []*types.Type) *Patch {
	out := make([]FieldPatch, len(fields))
	for i, fp := range fields {
		f, _ := t.FieldByName(fp.Name)
		out[i] = FieldPatch{Name: fp.Name, Patch: invertRec(fp.Patch, f.Type, stack)}
	}
	return &Patch{kind: KPatch, refcount: 1, fields: out}
}

func invertVariant(p *Patch, t *types.Type, stack []*types.Type) *Patch {
	c, _ := t.CaseByName(p.caseName)
	return &Patch{kind: KPatch, refcount: 1, caseName: p.caseName, variant: invertRec(p.variant, c.Type, stack)}
}

func invertRef(p *Patch, elemType *types.Type, stack []*types.Type) *Patch {
	return &Patch{kind: KPatch, refcount: 1, ref: invertRec(p.ref, elemType, stack)}
}
