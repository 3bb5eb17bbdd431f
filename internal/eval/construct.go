package eval

import (
	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// evalRaise evaluates the message expression (which must be a string) and
// unwinds with an error carrying the raising node's location stack (spec
// §4.3 "Error (raise)").
func evalRaise(node *ir.Node, env *Environment, ctx *Context) Result {
	r := Eval(node.A(), env, ctx)
	if !r.IsOk() {
		return r
	}
	if r.Value.Kind() != values.KString {
		k := r.Value.Kind()
		r.Value.Release()
		return ErrorResult(attachLoc(lmerr.TypeShape("raise requires a string message, got %v", k), node))
	}
	msg := r.Value.Str()
	r.Value.Release()
	return ErrorResult(&lmerr.Error{
		Kind:    lmerr.KindUser,
		Message: msg,
		Stack:   append(lmerr.Stack(nil), node.Locations()...),
	})
}

// stackEntryType is the {column, filename, line} struct type bound to a
// try/catch's stack variable. Built fresh per
// catch rather than cached: it is a handful of primitive-singleton retains,
// and keeping construction local avoids a shared mutable type-cache.
func stackEntryType() *types.Type {
	return types.NewStruct([]types.Field{
		{Name: "column", Type: types.TInteger},
		{Name: "filename", Type: types.TString},
		{Name: "line", Type: types.TInteger},
	})
}

// buildStackValue converts a propagated location stack into the array of
// {column, filename, line} structs bound to the catch clause's stack
// variable.
func buildStackValue(stack lmerr.Stack) *values.Value {
	entryType := stackEntryType()
	items := make([]*values.Value, len(stack))
	for i, loc := range stack {
		col := values.NewInteger(int64(loc.Column))
		file := values.NewString(loc.File)
		line := values.NewInteger(int64(loc.Line))
		items[i] = values.NewStruct(entryType, []*values.Value{col, file, line})
		col.Release()
		file.Release()
		line.Release()
	}
	arr := values.NewArray(entryType, items)
	for _, it := range items {
		it.Release()
	}
	entryType.Release()
	return arr
}

// evalTry implements try/catch/finally: the catch clause
// observes user errors only (return/break/continue pass through untouched);
// a present finally clause always runs afterwards and its own error or
// non-ok status overrides whatever the try/catch produced.
func evalTry(node *ir.Node, env *Environment, ctx *Context) Result {
	result := Eval(node.A(), env, ctx)

	if result.Kind == StatusError && node.HasCatch() {
		child := NewChild(env)
		if node.MsgVar() != "" {
			msg := values.NewString(result.Err.Message)
			child.Define(node.MsgVar(), msg)
			msg.Release()
		}
		if node.StackVar() != "" {
			stack := buildStackValue(result.Err.Stack)
			child.Define(node.StackVar(), stack)
			stack.Release()
		}
		result = Eval(node.B(), child, ctx)
	}

	if node.HasFinally() {
		finallyResult := Eval(node.C(), env, ctx)
		if finallyResult.Kind != StatusOk {
			result.Release()
			return finallyResult
		}
		finallyResult.Release()
	}

	return result
}

func evalNewArray(node *ir.Node, env *Environment, ctx *Context) Result {
	items, failed := evalArgs(node.List(), env, ctx)
	if failed != nil {
		return *failed
	}
	v := values.NewArray(node.ElemType(), items)
	for _, it := range items {
		it.Release()
	}
	ctx.Tracker.Track(v)
	return Ok(v)
}

func evalNewSet(node *ir.Node, env *Environment, ctx *Context) Result {
	items, failed := evalArgs(node.List(), env, ctx)
	if failed != nil {
		return *failed
	}
	v := values.NewSet(node.ElemType(), items)
	for _, it := range items {
		it.Release()
	}
	ctx.Tracker.Track(v)
	return Ok(v)
}

func evalNewDict(node *ir.Node, env *Environment, ctx *Context) Result {
	entries := node.DictEntries()
	pairs := make([]values.DictPair, 0, len(entries))
	for _, e := range entries {
		kr := Eval(e.Key, env, ctx)
		if !kr.IsOk() {
			releaseDictPairs(pairs)
			return kr
		}
		vr := Eval(e.Value, env, ctx)
		if !vr.IsOk() {
			kr.Value.Release()
			releaseDictPairs(pairs)
			return vr
		}
		pairs = append(pairs, values.DictPair{Key: kr.Value, Value: vr.Value})
	}
	v := values.NewDict(pairs)
	releaseDictPairs(pairs)
	ctx.Tracker.Track(v)
	return Ok(v)
}

func releaseDictPairs(pairs []values.DictPair) {
	for _, p := range pairs {
		p.Key.Release()
		p.Value.Release()
	}
}

func evalNewRef(node *ir.Node, env *Environment, ctx *Context) Result {
	init := Eval(node.A(), env, ctx)
	if !init.IsOk() {
		return init
	}
	v := values.NewRef(node.ElemType(), init.Value)
	init.Value.Release()
	ctx.Tracker.Track(v)
	return Ok(v)
}

// evalNewVector evaluates each element expression, then packs the results
// into the vector's buffer according to the static element type (spec
// §4.3: "construct the container with the static element/key/value types
// taken from the node's type").
func evalNewVector(node *ir.Node, env *Environment, ctx *Context) Result {
	items, failed := evalArgs(node.List(), env, ctx)
	if failed != nil {
		return *failed
	}
	defer func() {
		for _, it := range items {
			it.Release()
		}
	}()

	elemType := node.ElemType()
	var v *values.Value
	switch elemType.Kind() {
	case types.Integer:
		data := make([]int64, len(items))
		for i, it := range items {
			data[i] = it.Int()
		}
		v = values.NewIntVector(elemType, data)
	case types.Float:
		data := make([]float64, len(items))
		for i, it := range items {
			data[i] = it.Float()
		}
		v = values.NewFloatVector(elemType, data)
	case types.Boolean:
		data := make([]bool, len(items))
		for i, it := range items {
			data[i] = it.Bool()
		}
		v = values.NewBoolVector(elemType, data)
	default:
		return ErrorResult(attachLoc(lmerr.TypeShape("vector element type must be integer, float, or boolean, got %v", elemType.Kind()), node))
	}
	ctx.Tracker.Track(v)
	return Ok(v)
}

func evalNewMatrix(node *ir.Node, env *Environment, ctx *Context) Result {
	items, failed := evalArgs(node.List(), env, ctx)
	if failed != nil {
		return *failed
	}
	defer func() {
		for _, it := range items {
			it.Release()
		}
	}()

	rows, cols := node.Rows(), node.Cols()
	if len(items) != rows*cols {
		return ErrorResult(attachLoc(lmerr.TypeShape("matrix expects %d elements for %dx%d, got %d", rows*cols, rows, cols, len(items)), node))
	}

	elemType := node.ElemType()
	var v *values.Value
	switch elemType.Kind() {
	case types.Integer:
		data := make([]int64, len(items))
		for i, it := range items {
			data[i] = it.Int()
		}
		v = values.NewIntMatrix(elemType, rows, cols, data)
	case types.Float:
		data := make([]float64, len(items))
		for i, it := range items {
			data[i] = it.Float()
		}
		v = values.NewFloatMatrix(elemType, rows, cols, data)
	case types.Boolean:
		data := make([]bool, len(items))
		for i, it := range items {
			data[i] = it.Bool()
		}
		v = values.NewBoolMatrix(elemType, rows, cols, data)
	default:
		return ErrorResult(attachLoc(lmerr.TypeShape("matrix element type must be integer, float, or boolean, got %v", elemType.Kind()), node))
	}
	ctx.Tracker.Track(v)
	return Ok(v)
}

// evalStructLit evaluates fields in stored order.
func evalStructLit(node *ir.Node, env *Environment, ctx *Context) Result {
	fieldVals, failed := evalArgs(node.List(), env, ctx)
	if failed != nil {
		return *failed
	}
	v := values.NewStruct(node.StructType(), fieldVals)
	for _, fv := range fieldVals {
		fv.Release()
	}
	ctx.Tracker.Track(v)
	return Ok(v)
}

func evalGetField(node *ir.Node, env *Environment, ctx *Context) Result {
	target := Eval(node.A(), env, ctx)
	if !target.IsOk() {
		return target
	}
	if target.Value.Kind() != values.KStruct {
		k := target.Value.Kind()
		target.Value.Release()
		return ErrorResult(attachLoc(lmerr.TypeShape("get-field requires a struct, got %v", k), node))
	}
	fv, ok := target.Value.FieldByName(node.Name())
	if !ok {
		target.Value.Release()
		return ErrorResult(attachLoc(lmerr.TypeShape("struct has no field %q", node.Name()), node))
	}
	result := fv.Retain()
	target.Value.Release()
	return Ok(result)
}

// evalVariantLit evaluates the payload then wraps it.
func evalVariantLit(node *ir.Node, env *Environment, ctx *Context) Result {
	payload := Eval(node.A(), env, ctx)
	if !payload.IsOk() {
		return payload
	}
	v := values.NewVariant(node.VariantType(), node.CaseName(), payload.Value)
	payload.Value.Release()
	ctx.Tracker.Track(v)
	return Ok(v)
}
