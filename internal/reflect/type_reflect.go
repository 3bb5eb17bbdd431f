// Package reflect implements the bidirectional type-of-types / IR-of-IR
// mapping: a distinguished recursive variant type describing the shape of
// type terms (and, in ir_reflect.go, of IR node terms), plus the
// value_of_type/type_of_value and value_of_ir/ir_of_value conversions that
// form an inverse pair.
package reflect

import (
	"fmt"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// TypeOfTypesType constructs the distinguished recursive variant type
// describing the shape of type terms: one case per type
// constructor, with payloads mirroring constructor arguments — arrays of
// {name,type} for struct/variant, {key,value} for dict, {inputs,output}
// for function/async_function, an integer depth marker for recursive, and
// null for every primitive (nothing further to describe). It is rebuilt on
// each call rather than cached as a package-level singleton, since the
// type graph is refcounted and a shared global would need its own
// never-released lifetime exception.
func TypeOfTypesType() *types.Type {
	wrapper := types.NewRecursiveBuilder()

	entryTypeField := wrapper.Leaf()
	entryType := types.NewStruct([]types.Field{
		{Name: "name", Type: types.TString},
		{Name: "type", Type: entryTypeField},
	})
	entryTypeField.Release()

	fieldsArrType := types.NewArray(entryType)
	entryType.Release()

	dictKeyLeaf := wrapper.Leaf()
	dictValLeaf := wrapper.Leaf()
	dictPayloadType := types.NewStruct([]types.Field{
		{Name: "key", Type: dictKeyLeaf},
		{Name: "value", Type: dictValLeaf},
	})
	dictKeyLeaf.Release()
	dictValLeaf.Release()

	funcInputsLeaf := wrapper.Leaf()
	funcInputsArrType := types.NewArray(funcInputsLeaf)
	funcInputsLeaf.Release()
	funcOutputLeaf := wrapper.Leaf()
	funcPayloadType := types.NewStruct([]types.Field{
		{Name: "inputs", Type: funcInputsArrType},
		{Name: "output", Type: funcOutputLeaf},
	})
	funcInputsArrType.Release()
	funcOutputLeaf.Release()

	arrayLeaf := wrapper.Leaf()
	setLeaf := wrapper.Leaf()
	refLeaf := wrapper.Leaf()
	vectorLeaf := wrapper.Leaf()
	matrixLeaf := wrapper.Leaf()

	cases := []types.Case{
		{Name: "never", Type: types.TNull},
		{Name: "null", Type: types.TNull},
		{Name: "boolean", Type: types.TNull},
		{Name: "integer", Type: types.TNull},
		{Name: "float", Type: types.TNull},
		{Name: "string", Type: types.TNull},
		{Name: "datetime", Type: types.TNull},
		{Name: "blob", Type: types.TNull},
		{Name: "array", Type: arrayLeaf},
		{Name: "set", Type: setLeaf},
		{Name: "dict", Type: dictPayloadType},
		{Name: "struct", Type: fieldsArrType},
		{Name: "variant", Type: fieldsArrType},
		{Name: "ref", Type: refLeaf},
		{Name: "vector", Type: vectorLeaf},
		{Name: "matrix", Type: matrixLeaf},
		{Name: "function", Type: funcPayloadType},
		{Name: "async_function", Type: funcPayloadType},
		{Name: "recursive", Type: types.TInteger},
	}
	inner := types.NewVariant(cases)

	arrayLeaf.Release()
	setLeaf.Release()
	refLeaf.Release()
	vectorLeaf.Release()
	matrixLeaf.Release()
	dictPayloadType.Release()
	fieldsArrType.Release()
	funcPayloadType.Release()

	result := wrapper.Finalize(inner)
	inner.Release()
	return result
}

func caseType(totInner *types.Type, name string) *types.Type {
	c, ok := totInner.CaseByName(name)
	if !ok {
		panic(fmt.Sprintf("reflect: type-of-types missing case %q", name))
	}
	return c.Type
}

// ValueOfType converts t into a value of the type-of-types shape (spec
// §4.5's value_of_type). Self-referential Recursive wrappers are rendered
// as a `.recursive(depth)` back-reference, depth counting outward along a
// context stack of every compound-constructor type visited on the current
// path — the same type object can only reappear by pointer identity via a
// Recursive wrapper's own `Leaf()`-produced self-references, so the check
// never misfires on merely structurally-equal distinct types.
func ValueOfType(t *types.Type) *values.Value {
	tot := TypeOfTypesType()
	v := valueOfTypeRec(t, nil, tot.Inner())
	tot.Release()
	return v
}

func pushTypeStack(stack []*types.Type, t *types.Type) []*types.Type {
	out := make([]*types.Type, len(stack)+1)
	copy(out, stack)
	out[len(stack)] = t
	return out
}

func valueOfTypeRec(t *types.Type, stack []*types.Type, variantType *types.Type) *values.Value {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == t {
			depth := values.NewInteger(int64(len(stack) - i))
			v := values.NewVariant(variantType, "recursive", depth)
			depth.Release()
			return v
		}
	}

	structural := t
	if t.Kind() == types.Recursive {
		structural = t.Inner()
	}

	switch structural.Kind() {
	case types.Never, types.Null, types.Boolean, types.Integer, types.Float, types.String, types.Datetime, types.Blob:
		return values.NewVariant(variantType, structural.Kind().String(), values.Null)

	case types.Array, types.Set, types.Ref, types.Vector, types.Matrix:
		newStack := pushTypeStack(stack, t)
		elem := valueOfTypeRec(structural.Elem(), newStack, variantType)
		v := values.NewVariant(variantType, structural.Kind().String(), elem)
		elem.Release()
		return v

	case types.Dict:
		newStack := pushTypeStack(stack, t)
		payloadType := caseType(variantType, "dict")
		k := valueOfTypeRec(structural.Key(), newStack, variantType)
		val := valueOfTypeRec(structural.Value(), newStack, variantType)
		payload := values.NewStruct(payloadType, []*values.Value{k, val})
		k.Release()
		val.Release()
		v := values.NewVariant(variantType, "dict", payload)
		payload.Release()
		return v

	case types.Struct, types.Variant:
		newStack := pushTypeStack(stack, t)
		caseName := "struct"
		type namedType struct {
			name string
			typ  *types.Type
		}
		var entries []namedType
		if structural.Kind() == types.Struct {
			for _, f := range structural.Fields() {
				entries = append(entries, namedType{f.Name, f.Type})
			}
		} else {
			caseName = "variant"
			for _, c := range structural.Cases() {
				entries = append(entries, namedType{c.Name, c.Type})
			}
		}
		arrType := caseType(variantType, caseName)
		entryType := arrType.Elem()
		items := make([]*values.Value, len(entries))
		for i, e := range entries {
			nameV := values.NewString(e.name)
			typeV := valueOfTypeRec(e.typ, newStack, variantType)
			items[i] = values.NewStruct(entryType, []*values.Value{nameV, typeV})
			nameV.Release()
			typeV.Release()
		}
		payload := values.NewArray(entryType, items)
		for _, it := range items {
			it.Release()
		}
		v := values.NewVariant(variantType, caseName, payload)
		payload.Release()
		return v

	case types.Function, types.AsyncFunction:
		newStack := pushTypeStack(stack, t)
		caseName := "function"
		if structural.Kind() == types.AsyncFunction {
			caseName = "async_function"
		}
		payloadType := caseType(variantType, caseName)
		inputsField, _ := payloadType.FieldByName("inputs")
		inputItems := make([]*values.Value, len(structural.Inputs()))
		for i, in := range structural.Inputs() {
			inputItems[i] = valueOfTypeRec(in, newStack, variantType)
		}
		inputsArr := values.NewArray(inputsField.Type.Elem(), inputItems)
		for _, it := range inputItems {
			it.Release()
		}
		output := valueOfTypeRec(structural.Output(), newStack, variantType)
		payload := values.NewStruct(payloadType, []*values.Value{inputsArr, output})
		inputsArr.Release()
		output.Release()
		v := values.NewVariant(variantType, caseName, payload)
		payload.Release()
		return v

	default:
		return values.NewVariant(variantType, "never", values.Null)
	}
}

// typeBuildFrame is a speculative Recursive-wrapper builder pushed while
// reconstructing one compound-constructor node; used is set if some nested
// `.recursive(depth)` case targeted it, in which case the wrapper is kept,
// otherwise it is discarded and the plain inner type is returned unwrapped.
type typeBuildFrame struct {
	builder *types.Type
	used    bool
}

// TypeOfValue reconstructs a type term from a type-of-types-shaped value,
// the inverse of ValueOfType.
func TypeOfValue(v *values.Value) (*types.Type, error) {
	return typeOfValueRec(v, nil)
}

func typeOfValueRec(v *values.Value, stack []*typeBuildFrame) (*types.Type, error) {
	if v.Kind() != values.KVariant {
		return nil, fmt.Errorf("reflect: type-of-types value must be a variant, got %v", v.Kind())
	}

	switch v.CaseName() {
	case "never":
		return types.TNever, nil
	case "null":
		return types.TNull, nil
	case "boolean":
		return types.TBoolean, nil
	case "integer":
		return types.TInteger, nil
	case "float":
		return types.TFloat, nil
	case "string":
		return types.TString, nil
	case "datetime":
		return types.TDatetime, nil
	case "blob":
		return types.TBlob, nil
	case "recursive":
		depth := v.Payload().Int()
		idx := len(stack) - int(depth)
		if idx < 0 || idx >= len(stack) {
			return nil, fmt.Errorf("reflect: recursive depth %d out of range (stack depth %d)", depth, len(stack))
		}
		stack[idx].used = true
		return stack[idx].builder.Leaf(), nil
	}

	frame := &typeBuildFrame{builder: types.NewRecursiveBuilder()}
	newStack := make([]*typeBuildFrame, len(stack)+1)
	copy(newStack, stack)
	newStack[len(stack)] = frame

	inner, err := typeOfValueCompound(v, newStack)
	if err != nil {
		frame.builder.Release()
		return nil, err
	}
	if frame.used {
		result := frame.builder.Finalize(inner)
		inner.Release()
		return result, nil
	}
	frame.builder.Release()
	return inner, nil
}

func typeOfValueCompound(v *values.Value, stack []*typeBuildFrame) (*types.Type, error) {
	switch v.CaseName() {
	case "array", "set", "ref", "vector", "matrix":
		elem, err := typeOfValueRec(v.Payload(), stack)
		if err != nil {
			return nil, err
		}
		var t *types.Type
		switch v.CaseName() {
		case "array":
			t = types.NewArray(elem)
		case "set":
			t = types.NewSet(elem)
		case "ref":
			t = types.NewRef(elem)
		case "vector":
			t = types.NewVector(elem)
		case "matrix":
			t = types.NewMatrix(elem)
		}
		elem.Release()
		return t, nil

	case "dict":
		p := v.Payload()
		keyV, ok := p.FieldByName("key")
		if !ok {
			return nil, fmt.Errorf("reflect: dict payload missing key field")
		}
		valV, ok := p.FieldByName("value")
		if !ok {
			return nil, fmt.Errorf("reflect: dict payload missing value field")
		}
		kt, err := typeOfValueRec(keyV, stack)
		if err != nil {
			return nil, err
		}
		vt, err := typeOfValueRec(valV, stack)
		if err != nil {
			kt.Release()
			return nil, err
		}
		t := types.NewDict(kt, vt)
		kt.Release()
		vt.Release()
		return t, nil

	case "struct", "variant":
		entries := v.Payload().Items()
		if v.CaseName() == "struct" {
			fields := make([]types.Field, len(entries))
			for i, e := range entries {
				nameV, _ := e.FieldByName("name")
				typeV, _ := e.FieldByName("type")
				ft, err := typeOfValueRec(typeV, stack)
				if err != nil {
					for _, f := range fields[:i] {
						f.Type.Release()
					}
					return nil, err
				}
				fields[i] = types.Field{Name: nameV.Str(), Type: ft}
			}
			t := types.NewStruct(fields)
			for _, f := range fields {
				f.Type.Release()
			}
			return t, nil
		}
		cases := make([]types.Case, len(entries))
		for i, e := range entries {
			nameV, _ := e.FieldByName("name")
			typeV, _ := e.FieldByName("type")
			ct, err := typeOfValueRec(typeV, stack)
			if err != nil {
				for _, c := range cases[:i] {
					c.Type.Release()
				}
				return nil, err
			}
			cases[i] = types.Case{Name: nameV.Str(), Type: ct}
		}
		t := types.NewVariant(cases)
		for _, c := range cases {
			c.Type.Release()
		}
		return t, nil

	case "function", "async_function":
		p := v.Payload()
		inputsV, ok := p.FieldByName("inputs")
		if !ok {
			return nil, fmt.Errorf("reflect: function payload missing inputs field")
		}
		outputV, ok := p.FieldByName("output")
		if !ok {
			return nil, fmt.Errorf("reflect: function payload missing output field")
		}
		items := inputsV.Items()
		inputs := make([]*types.Type, len(items))
		for i, it := range items {
			t, err := typeOfValueRec(it, stack)
			if err != nil {
				for _, in := range inputs[:i] {
					in.Release()
				}
				return nil, err
			}
			inputs[i] = t
		}
		out, err := typeOfValueRec(outputV, stack)
		if err != nil {
			for _, in := range inputs {
				in.Release()
			}
			return nil, err
		}
		var t *types.Type
		if v.CaseName() == "function" {
			t = types.NewFunction(inputs, out)
		} else {
			t = types.NewAsyncFunction(inputs, out)
		}
		for _, in := range inputs {
			in.Release()
		}
		out.Release()
		return t, nil

	default:
		return nil, fmt.Errorf("reflect: unknown type-of-types case %q", v.CaseName())
	}
}
