package patch

import (
	"fmt"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// Compose derives the patch equivalent to applying p1 then p2, at type t.
func Compose(p1, p2 *Patch, t *types.Type) (*Patch, error) {
	return composeRec(p1, p2, t, nil)
}

func composeRec(p1, p2 *Patch, t *types.Type, stack []*types.Type) (*Patch, error) {
	if p1.kind == KUnchanged {
		return p2.Retain(), nil
	}
	if p2.kind == KUnchanged {
		return p1.Retain(), nil
	}
	if p1.kind == KReplace && p2.kind == KReplace {
		return Replace(p1.before, p2.after), nil
	}
	if p1.kind == KReplace && p2.kind == KPatch {
		applied, err := applyRec(p1.after, p2, t, stack)
		if err != nil {
			return nil, err
		}
		result := Replace(p1.before, applied)
		applied.Release()
		return result, nil
	}
	if p1.kind == KPatch && p2.kind == KReplace {
		invP1 := invertRec(p1, t, stack)
		recovered, err := applyRec(p2.before, invP1, t, stack)
		invP1.Release()
		if err != nil {
			return nil, err
		}
		result := Replace(recovered, p2.after)
		recovered.Release()
		return result, nil
	}

	// Both are .patch. Dispatch on t's structural kind.
	if t.Kind() == types.Recursive {
		if onTypeStack(stack, t) {
			return nil, fmt.Errorf("patch: recursive type cycle exceeded while composing patches")
		}
		return composeRec(p1, p2, t.Inner(), pushTypeStack(stack, t))
	}
	switch t.Kind() {
	case types.Array:
		return composeArray(p1, p2), nil
	case types.Set:
		return composeSet(p1, p2), nil
	case types.Dict:
		return composeDict(p1, p2, t.Value(), stack)
	case types.Struct:
		return composeStruct(p1, p2, t, stack)
	case types.Variant:
		return composeVariant(p1, p2, t, stack)
	case types.Ref:
		return composeRef(p1, p2, t.Elem(), stack)
	default:
		return nil, fmt.Errorf("patch: cannot compose two structural patches for non-structural type %s", t.Kind())
	}
}

// composeArray concatenates op lists: Apply processes ops sequentially
// against an evolving working copy, so applying p1's ops then p2's ops in
// sequence is exactly applying the concatenation in one pass.
func composeArray(p1, p2 *Patch) *Patch {
	ops := make([]ArrayOp, 0, len(p1.arrayOps)+len(p2.arrayOps))
	for _, op := range p1.arrayOps {
		ops = append(ops, retainArrayOp(op))
	}
	for _, op := range p2.arrayOps {
		ops = append(ops, retainArrayOp(op))
	}
	return &Patch{kind: KPatch, refcount: 1, arrayOps: ops}
}

// composeSet cancels matching delete/insert pairs for the same element
// (a delete by p1 immediately reinserted by p2, or vice versa, is a net
// no-op) and concatenates the rest.
func composeSet(p1, p2 *Patch) *Patch {
	used2 := make([]bool, len(p2.setOps))
	var ops []SetOp
	for _, op1 := range p1.setOps {
		canceled := false
		for j, op2 := range p2.setOps {
			if used2[j] || op1.Kind == op2.Kind || !values.Equal(op1.Elem, op2.Elem) {
				continue
			}
			used2[j] = true
			canceled = true
			break
		}
		if !canceled {
			ops = append(ops, SetOp{Kind: op1.Kind, Elem: op1.Elem.Retain()})
		}
	}
	for j, op2 := range p2.setOps {
		if !used2[j] {
			ops = append(ops, SetOp{Kind: op2.Kind, Elem: op2.Elem.Retain()})
		}
	}
	if len(ops) == 0 {
		return Unchanged()
	}
	return &Patch{kind: KPatch, refcount: 1, setOps: ops}
}

func composeDict(p1, p2 *Patch, valueType *types.Type, stack []*types.Type) (*Patch, error) {
	i, j := 0, 0
	var ops []DictOp
	for i < len(p1.dictOps) && j < len(p2.dictOps) {
		o1, o2 := p1.dictOps[i], p2.dictOps[j]
		switch c := values.Compare(o1.Key, o2.Key); {
		case c < 0:
			ops = append(ops, retainDictOp(o1))
			i++
		case c > 0:
			ops = append(ops, retainDictOp(o2))
			j++
		default:
			merged, err := composeDictOp(o1, o2, valueType, stack)
			if err != nil {
				return nil, err
			}
			if merged != nil {
				ops = append(ops, *merged)
			}
			i++
			j++
		}
	}
	for ; i < len(p1.dictOps); i++ {
		ops = append(ops, retainDictOp(p1.dictOps[i]))
	}
	for ; j < len(p2.dictOps); j++ {
		ops = append(ops, retainDictOp(p2.dictOps[j]))
	}
	if len(ops) == 0 {
		return Unchanged(), nil
	}
	return &Patch{kind: KPatch, refcount: 1, dictOps: ops}, nil
}

// composeDictOp implements the per-key compose algebra for two ops on the
// same dict key: insert-then-delete cancels, insert-then-update folds into
// a single insert, delete-then-insert becomes an update (a replace under
// the hood), update-then-delete becomes a delete of the original value, and
// update-then-update composes the sub-patches.
func composeDictOp(o1, o2 DictOp, valueType *types.Type, stack []*types.Type) (*DictOp, error) {
	switch {
	case o1.Kind == DictOpInsert && o2.Kind == DictOpDelete:
		return nil, nil
	case o1.Kind == DictOpInsert && o2.Kind == DictOpUpdate:
		applied, err := applyRec(o1.After, o2.Patch, valueType, stack)
		if err != nil {
			return nil, err
		}
		out := DictOp{Kind: DictOpInsert, Key: o1.Key.Retain(), After: applied}
		return &out, nil
	case o1.Kind == DictOpDelete && o2.Kind == DictOpInsert:
		p := Replace(o1.Before, o2.After)
		out := DictOp{Kind: DictOpUpdate, Key: o1.Key.Retain(), Patch: p}
		return &out, nil
	case o1.Kind == DictOpUpdate && o2.Kind == DictOpDelete:
		inv := invertRec(o1.Patch, valueType, stack)
		original, err := applyRec(o2.Before, inv, valueType, stack)
		inv.Release()
		if err != nil {
			return nil, err
		}
		out := DictOp{Kind: DictOpDelete, Key: o1.Key.Retain(), Before: original}
		return &out, nil
	case o1.Kind == DictOpUpdate && o2.Kind == DictOpUpdate:
		composed, err := composeRec(o1.Patch, o2.Patch, valueType, stack)
		if err != nil {
			return nil, err
		}
		out := DictOp{Kind: DictOpUpdate, Key: o1.Key.Retain(), Patch: composed}
		return &out, nil
	default:
		return nil, fmt.Errorf("patch: incompatible dict ops on the same key (%d then %d)", o1.Kind, o2.Kind)
	}
}

func composeStruct(p1, p2 *Patch, t *types.Type, stack []*types.Type) (*Patch, error) {
	declared := t.Fields()
	var out []FieldPatch
	for _, f := range declared {
		fp1 := findFieldPatch(p1.fields, f.Name)
		fp2 := findFieldPatch(p2.fields, f.Name)
		switch {
		case fp1 == nil && fp2 == nil:
			continue
		case fp1 == nil:
			out = append(out, FieldPatch{Name: f.Name, Patch: fp2.Patch.Retain()})
		case fp2 == nil:
			out = append(out, FieldPatch{Name: f.Name, Patch: fp1.Patch.Retain()})
		default:
			composed, err := composeRec(fp1.Patch, fp2.Patch, f.Type, stack)
			if err != nil {
				return nil, err
			}
			if composed.kind != KUnchanged {
				out = append(out, FieldPatch{Name: f.Name, Patch: composed})
			} else {
				composed.Release()
			}
		}
	}
	if len(out) == 0 {
		return Unchanged(), nil
	}
	return &Patch{kind: KPatch, refcount: 1, fields: out}, nil
}

func composeVariant(p1, p2 *Patch, t *types.Type, stack []*types.Type) (*Patch, error) {
	if p1.caseName != p2.caseName {
		return nil, fmt.Errorf("patch: cannot compose variant patches for different cases (%q vs %q)", p1.caseName, p2.caseName)
	}
	c, ok := t.CaseByName(p1.caseName)
	if !ok {
		return nil, fmt.Errorf("patch: unknown variant case %q", p1.caseName)
	}
	sub, err := composeRec(p1.variant, p2.variant, c.Type, stack)
	if err != nil {
		return nil, err
	}
	if sub.kind == KUnchanged {
		return sub, nil
	}
	return &Patch{kind: KPatch, refcount: 1, caseName: p1.caseName, variant: sub}, nil
}

func composeRef(p1, p2 *Patch, elemType *types.Type, stack []*types.Type) (*Patch, error) {
	sub, err := composeRec(p1.ref, p2.ref, elemType, stack)
	if err != nil {
		return nil, err
	}
	if sub.kind == KUnchanged {
		return sub, nil
	}
	return &Patch{kind: KPatch, refcount: 1, ref: sub}, nil
}
