package patch

import (
	"fmt"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// Apply produces the value reached by applying p to base at type t.
func Apply(base *values.Value, p *Patch, t *types.Type) (*values.Value, error) {
	return applyRec(base, p, t, nil)
}

func applyRec(base *values.Value, p *Patch, t *types.Type, stack []*types.Type) (*values.Value, error) {
	switch p.kind {
	case KUnchanged:
		return base.Retain(), nil
	case KReplace:
		return p.after.Retain(), nil
	case KPatch:
		if t.Kind() == types.Recursive {
			if onTypeStack(stack, t) {
				return nil, fmt.Errorf("patch: recursive type cycle exceeded while applying patch")
			}
			return applyRec(base, p, t.Inner(), pushTypeStack(stack, t))
		}
		switch t.Kind() {
		case types.Array:
			return applyArray(base, p.arrayOps, t.Elem(), stack)
		case types.Set:
			return applySet(base, p.setOps)
		case types.Dict:
			return applyDict(base, p.dictOps, t.Value(), stack)
		case types.Struct:
			return applyStruct(base, p.fields, t, stack)
		case types.Variant:
			return applyVariant(base, p, t, stack)
		case types.Ref:
			return applyRef(base, p.ref, t.Elem(), stack)
		default:
			return nil, fmt.Errorf("patch: structural patch body for non-structural type %s", t.Kind())
		}
	}
	return nil, fmt.Errorf("patch: unknown patch kind %d", p.kind)
}

func applyArray(base *values.Value, ops []ArrayOp, elemType *types.Type, stack []*types.Type) (*values.Value, error) {
	working := make([]*values.Value, len(base.Items()))
	for i, v := range base.Items() {
		working[i] = v.Retain()
	}
	defer func() { releaseAll(working) }()

	for _, op := range ops {
		pos := op.Key + op.Offset
		switch op.Kind {
		case ArrDelete:
			if pos < 0 || pos >= len(working) {
				return nil, fmt.Errorf("patch: array delete position %d out of range (len %d)", pos, len(working))
			}
			working[pos].Release()
			working = append(working[:pos], working[pos+1:]...)
		case ArrInsert:
			if pos < 0 || pos > len(working) {
				return nil, fmt.Errorf("patch: array insert position %d out of range (len %d)", pos, len(working))
			}
			working = append(working, nil)
			copy(working[pos+1:], working[pos:])
			working[pos] = op.Elem.Retain()
		case ArrUpdate:
			if pos < 0 || pos >= len(working) {
				return nil, fmt.Errorf("patch: array update position %d out of range (len %d)", pos, len(working))
			}
			updated, err := applyRec(working[pos], op.Patch, elemType, stack)
			if err != nil {
				return nil, err
			}
			working[pos].Release()
			working[pos] = updated
		default:
			return nil, fmt.Errorf("patch: unknown array op kind %d", op.Kind)
		}
	}
	return values.NewArray(elemType, working), nil
}

// applySet builds a private copy of base (SetAdd/SetRemove mutate in
// place, and base may be aliased elsewhere) before applying ops to it.
func applySet(base *values.Value, ops []SetOp) (*values.Value, error) {
	working := values.NewSet(base.ElemType(), base.Items())
	for _, op := range ops {
		switch op.Kind {
		case SetOpDelete:
			values.SetRemove(working, op.Elem)
		case SetOpInsert:
			values.SetAdd(working, op.Elem)
		default:
			working.Release()
			return nil, fmt.Errorf("patch: unknown set op kind %d", op.Kind)
		}
	}
	return working, nil
}

// applyDict builds a private copy of base (DictSet/DictDelete mutate in
// place) before applying ops to it.
func applyDict(base *values.Value, ops []DictOp, valueType *types.Type, stack []*types.Type) (*values.Value, error) {
	working := values.NewDict(base.Dict())
	for _, op := range ops {
		switch op.Kind {
		case DictOpDelete:
			values.DictDelete(working, op.Key)
		case DictOpInsert:
			values.DictSet(working, op.Key, op.After)
		case DictOpUpdate:
			cur, ok := values.DictGet(working, op.Key)
			if !ok {
				working.Release()
				return nil, fmt.Errorf("patch: dict update on missing key")
			}
			updated, err := applyRec(cur, op.Patch, valueType, stack)
			if err != nil {
				working.Release()
				return nil, err
			}
			values.DictSet(working, op.Key, updated)
			updated.Release()
		default:
			working.Release()
			return nil, fmt.Errorf("patch: unknown dict op kind %d", op.Kind)
		}
	}
	return working, nil
}

func applyStruct(base *values.Value, fields []FieldPatch, t *types.Type, stack []*types.Type) (*values.Value, error) {
	declared := t.Fields()
	baseVals := base.FieldValues()
	out := make([]*values.Value, len(declared))
	for i, f := range declared {
		fp := findFieldPatch(fields, f.Name)
		if fp == nil {
			out[i] = baseVals[i].Retain()
			continue
		}
		updated, err := applyRec(baseVals[i], fp.Patch, f.Type, stack)
		if err != nil {
			releaseAll(out[:i])
			return nil, err
		}
		out[i] = updated
	}
	result := values.NewStruct(t, out)
	releaseAll(out)
	return result, nil
}

func applyVariant(base *values.Value, p *Patch, t *types.Type, stack []*types.Type) (*values.Value, error) {
	if base.CaseName() != p.caseName {
		return nil, fmt.Errorf("patch: variant update case mismatch: base is %q, patch targets %q", base.CaseName(), p.caseName)
	}
	c, ok := t.CaseByName(p.caseName)
	if !ok {
		return nil, fmt.Errorf("patch: unknown variant case %q", p.caseName)
	}
	payload, err := applyRec(base.Payload(), p.variant, c.Type, stack)
	if err != nil {
		return nil, err
	}
	result := values.NewVariant(t, p.caseName, payload)
	payload.Release()
	return result, nil
}

func applyRef(base *values.Value, p *Patch, elemType *types.Type, stack []*types.Type) (*values.Value, error) {
	cell, err := applyRec(base.Cell(), p, elemType, stack)
	if err != nil {
		return nil, err
	}
	result := values.NewRef(elemType, cell)
	cell.Release()
	return result, nil
}
