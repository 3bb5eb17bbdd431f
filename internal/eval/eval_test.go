package eval

import (
	"testing"

	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/registry"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

func newTestContext() *Context {
	return NewContext(registry.New())
}

func lit(v *values.Value, typ *types.Type) *ir.Node {
	return ir.Literal(typ, v)
}

func intLit(i int64) *ir.Node { return lit(values.NewInteger(i), types.TInteger) }

func mustOk(t *testing.T, r Result) *values.Value {
	t.Helper()
	if r.Kind != StatusOk {
		t.Fatalf("expected ok result, got kind=%v err=%v", r.Kind, r.Err)
	}
	return r.Value
}

func TestLetAndVariableRoundTrip(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(types.TInteger, "x", intLit(42)),
		ir.Variable(types.TInteger, "x"),
	})
	r := Eval(block, env, ctx)
	v := mustOk(t, r)
	defer v.Release()

	if v.Kind() != values.KInteger || v.Int() != 42 {
		t.Fatalf("expected integer 42, got %v", v)
	}
}

func TestUndefinedVariableErrors(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	r := Eval(ir.Variable(types.TInteger, "missing"), env, ctx)
	if r.Kind != StatusError {
		t.Fatalf("expected error, got %v", r.Kind)
	}
	if r.Err.Kind != "undefined" {
		t.Fatalf("expected undefined kind, got %v", r.Err.Kind)
	}
}

func TestAssignMutatesThroughOuterScope(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(types.TInteger, "acc", intLit(0)),
		ir.Assign(types.TInteger, "acc", intLit(7)),
		ir.Variable(types.TInteger, "acc"),
	})
	r := Eval(block, env, ctx)
	v := mustOk(t, r)
	defer v.Release()

	if v.Int() != 7 {
		t.Fatalf("expected 7 after assign, got %d", v.Int())
	}
}

func TestIfTruthiness(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	falseLit := lit(values.NewBoolean(false), types.TBoolean)
	node := ir.If(types.TInteger, falseLit, intLit(1), intLit(2))
	r := Eval(node, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Int() != 2 {
		t.Fatalf("expected else branch (2), got %d", v.Int())
	}
}

func TestIfWithoutElseYieldsNull(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	falseLit := lit(values.NewBoolean(false), types.TBoolean)
	node := ir.If(types.TNull, falseLit, intLit(1), nil)
	r := Eval(node, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Kind() != values.KNull {
		t.Fatalf("expected null, got %v", v.Kind())
	}
}

func TestWhileLoopWithBreak(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	// let n = 0
	// while true { n = 1; break }
	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(types.TInteger, "n", intLit(0)),
		ir.While(types.TNull, "", lit(values.NewBoolean(true), types.TBoolean),
			ir.Block(types.TNull, []*ir.Node{
				ir.Assign(types.TInteger, "n", intLit(1)),
				ir.Break(types.TNull, "", false),
			})),
		ir.Variable(types.TInteger, "n"),
	})
	r := Eval(block, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Int() != 1 {
		t.Fatalf("expected n=1 after break, got %d", v.Int())
	}
}

func TestForArrayBindsLastElementThroughAssign(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	arrNode := ir.NewArrayNode(types.NewArray(types.TInteger), types.TInteger,
		[]*ir.Node{intLit(10), intLit(20), intLit(30)})

	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(types.TInteger, "acc", intLit(0)),
		ir.ForArray(types.TNull, "", "elem", arrNode,
			ir.Assign(types.TInteger, "acc", ir.Variable(types.TInteger, "elem"))),
		ir.Variable(types.TInteger, "acc"),
	})
	r := Eval(block, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Int() != 30 {
		t.Fatalf("expected acc=30, got %d", v.Int())
	}
}

func TestForArrayContinueSkipsAssign(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	arrNode := ir.NewArrayNode(types.NewArray(types.TInteger), types.TInteger,
		[]*ir.Node{intLit(1), intLit(2), intLit(3)})

	// for elem in arr { if elem == 2 { continue }; acc = elem }
	eq := ir.Builtin(types.TBoolean, "equal", nil,
		[]*ir.Node{ir.Variable(types.TInteger, "elem"), intLit(2)})
	body := ir.Block(types.TNull, []*ir.Node{
		ir.If(types.TNull, eq, ir.Continue(types.TNull, "", false), nil),
		ir.Assign(types.TInteger, "acc", ir.Variable(types.TInteger, "elem")),
	})
	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(types.TInteger, "acc", intLit(0)),
		ir.ForArray(types.TNull, "", "elem", arrNode, body),
		ir.Variable(types.TInteger, "acc"),
	})
	r := Eval(block, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Int() != 3 {
		t.Fatalf("expected acc=3 (2 skipped via continue), got %d", v.Int())
	}
}

func TestLabeledBreakEscapesOuterLoop(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	arrOuter := ir.NewArrayNode(types.NewArray(types.TInteger), types.TInteger,
		[]*ir.Node{intLit(1), intLit(2)})
	arrInner := ir.NewArrayNode(types.NewArray(types.TInteger), types.TInteger,
		[]*ir.Node{intLit(10), intLit(20)})

	inner := ir.ForArray(types.TNull, "", "y", arrInner,
		ir.Block(types.TNull, []*ir.Node{
			ir.Assign(types.TInteger, "acc", ir.Variable(types.TInteger, "y")),
			ir.Break(types.TNull, "outer", true),
		}))
	outer := ir.ForArray(types.TNull, "outer", "x", arrOuter, inner)

	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(types.TInteger, "acc", intLit(0)),
		outer,
		ir.Variable(types.TInteger, "acc"),
	})
	r := Eval(block, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Int() != 10 {
		t.Fatalf("expected acc=10 (labeled break stopped both loops on first inner iter), got %d", v.Int())
	}
}

func TestForDictBindsKeyAndValue(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	k1 := values.NewString("a")
	v1 := values.NewInteger(1)
	dictNode := ir.NewDictNode(types.NewDict(types.TString, types.TInteger), []ir.DictEntry{
		{Key: lit(k1, types.TString), Value: lit(v1, types.TInteger)},
	})
	k1.Release()
	v1.Release()

	block := ir.Block(types.TString, []*ir.Node{
		ir.Let(types.TString, "lastKey", lit(values.NewString(""), types.TString)),
		ir.Let(types.TInteger, "lastVal", intLit(0)),
		ir.ForDict(types.TNull, "", "k", "v", dictNode,
			ir.Block(types.TNull, []*ir.Node{
				ir.Assign(types.TString, "lastKey", ir.Variable(types.TString, "k")),
				ir.Assign(types.TInteger, "lastVal", ir.Variable(types.TInteger, "v")),
			})),
		ir.Variable(types.TString, "lastKey"),
	})
	r := Eval(block, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Str() != "a" {
		t.Fatalf("expected lastKey=%q, got %q", "a", v.Str())
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	fnType := types.NewFunction([]*types.Type{types.TInteger}, types.TInteger)
	funcLit := ir.FuncLit(fnType, []string{"x"},
		ir.Return(types.TInteger, ir.Variable(types.TInteger, "x")), nil)

	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(fnType, "identity", funcLit),
		ir.Call(types.TInteger, ir.Variable(fnType, "identity"), []*ir.Node{intLit(99)}),
	})
	r := Eval(block, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Int() != 99 {
		t.Fatalf("expected 99, got %d", v.Int())
	}
}

func TestClosureSharesMutableCapture(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	// let counter = 0
	// let bump = () -> { counter = 1; counter }
	// bump()
	// counter  (should observe the mutation through the shared env)
	fnType := types.NewFunction(nil, types.TInteger)
	bumpBody := ir.Block(types.TInteger, []*ir.Node{
		ir.Assign(types.TInteger, "counter", intLit(1)),
		ir.Variable(types.TInteger, "counter"),
	})
	funcLit := ir.FuncLit(fnType, nil, bumpBody, nil)

	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(types.TInteger, "counter", intLit(0)),
		ir.Let(fnType, "bump", funcLit),
		ir.Call(types.TInteger, ir.Variable(fnType, "bump"), nil),
		ir.Variable(types.TInteger, "counter"),
	})
	r := Eval(block, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Int() != 1 {
		t.Fatalf("expected mutation visible through shared capture, got %d", v.Int())
	}
}

func TestCallArityMismatchErrors(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	fnType := types.NewFunction([]*types.Type{types.TInteger}, types.TInteger)
	funcLit := ir.FuncLit(fnType, []string{"x"},
		ir.Return(types.TInteger, ir.Variable(types.TInteger, "x")), nil)

	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(fnType, "identity", funcLit),
		ir.Call(types.TInteger, ir.Variable(fnType, "identity"), nil),
	})
	r := Eval(block, env, ctx)
	if r.Kind != StatusError {
		t.Fatalf("expected arity error, got %v", r.Kind)
	}
}

func TestMatchDispatchesOnCaseAndBindsPayload(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	variantType := types.NewVariant([]types.Case{
		{Name: "some", Type: types.TInteger},
		{Name: "none", Type: types.TNull},
	})
	payload := values.NewInteger(5)
	scrutVal := values.NewVariant(variantType, "some", payload)
	payload.Release()

	scrut := lit(scrutVal, variantType)
	scrutVal.Release()

	node := ir.Match(types.TInteger, scrut, []ir.MatchCase{
		{CaseName: "some", Bind: "payload", Body: ir.Variable(types.TInteger, "payload")},
		{CaseName: "none", Bind: "", Body: intLit(-1)},
	})

	r := Eval(node, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Int() != 5 {
		t.Fatalf("expected matched payload 5, got %d", v.Int())
	}
}

func TestMatchNoCaseErrors(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	variantType := types.NewVariant([]types.Case{
		{Name: "some", Type: types.TInteger},
		{Name: "none", Type: types.TNull},
	})
	nullVal := values.Null
	scrutVal := values.NewVariant(variantType, "none", nullVal)
	scrut := lit(scrutVal, variantType)
	scrutVal.Release()

	node := ir.Match(types.TInteger, scrut, []ir.MatchCase{
		{CaseName: "some", Bind: "payload", Body: ir.Variable(types.TInteger, "payload")},
	})
	r := Eval(node, env, ctx)
	if r.Kind != StatusError {
		t.Fatalf("expected no-matching-case error, got %v", r.Kind)
	}
}

func TestRaiseAndTryCatchBindsMessageAndStack(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	raiseMsg := lit(values.NewString("boom"), types.TString)
	tryBody := ir.Raise(types.TString, raiseMsg)
	catchBody := ir.Variable(types.TString, "msg")

	node := ir.Try(types.TString, tryBody, "msg", "stack", catchBody, nil)
	r := Eval(node, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Str() != "boom" {
		t.Fatalf("expected caught message %q, got %q", "boom", v.Str())
	}
}

func TestTryCatchStackHasLocationEntries(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	raiseMsg := lit(values.NewString("boom"), types.TString)
	tryBody := ir.Raise(types.TString, raiseMsg)
	tryBody.SetLocations(lmerr.Stack{{File: "f.loom", Line: 3, Column: 7}})

	stackArrType := types.NewArray(types.TNull) // node's static result type is unused by evalTry/evalVariable
	catchBody := ir.Variable(stackArrType, "stack")
	node := ir.Try(stackArrType, tryBody, "msg", "stack", catchBody, nil)

	r := Eval(node, env, ctx)
	v := mustOk(t, r)
	defer v.Release()

	if v.Kind() != values.KArray || len(v.Items()) < 1 {
		t.Fatalf("expected non-empty stack array, got %v", v)
	}
	entry := v.Items()[0]
	if entry.Kind() != values.KStruct {
		t.Fatalf("expected stack entries to be structs, got %v", entry.Kind())
	}
	file, ok := entry.FieldByName("filename")
	if !ok || file.Str() != "f.loom" {
		t.Fatalf("expected filename field f.loom, got %v (ok=%v)", file, ok)
	}
	line, ok := entry.FieldByName("line")
	if !ok || line.Int() != 3 {
		t.Fatalf("expected line field 3, got %v (ok=%v)", line, ok)
	}
}

func TestFinallyOverridesNormalResult(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	tryBody := intLit(1)
	finallyBody := ir.Raise(types.TNull, lit(values.NewString("late"), types.TString))
	node := ir.Try(types.TInteger, tryBody, "", "", nil, finallyBody)

	r := Eval(node, env, ctx)
	if r.Kind != StatusError {
		t.Fatalf("expected finally's error to override, got %v", r.Kind)
	}
	if r.Err.Message != "late" {
		t.Fatalf("expected error message 'late', got %q", r.Err.Message)
	}
}

func TestNewContainersAndFieldAccess(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	structType := types.NewStruct([]types.Field{
		{Name: "x", Type: types.TInteger},
		{Name: "y", Type: types.TInteger},
	})
	structNode := ir.StructLit(structType, []*ir.Node{intLit(1), intLit(2)})
	getX := ir.GetField(types.TInteger, structNode, "x")

	r := Eval(getX, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Int() != 1 {
		t.Fatalf("expected field x=1, got %d", v.Int())
	}
}

func TestNewArraySetDictRef(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	arrType := types.NewArray(types.TInteger)
	arrNode := ir.NewArrayNode(arrType, types.TInteger, []*ir.Node{intLit(3), intLit(1), intLit(2)})
	r := Eval(arrNode, env, ctx)
	arr := mustOk(t, r)
	if len(arr.Items()) != 3 {
		t.Fatalf("expected 3 array items, got %d", len(arr.Items()))
	}
	arr.Release()

	setType := types.NewSet(types.TInteger)
	setNode := ir.NewSetNode(setType, types.TInteger, []*ir.Node{intLit(1), intLit(1), intLit(2)})
	r = Eval(setNode, env, ctx)
	set := mustOk(t, r)
	if len(set.Items()) != 2 {
		t.Fatalf("expected deduped set of 2, got %d", len(set.Items()))
	}
	set.Release()

	refType := types.NewRef(types.TInteger)
	refNode := ir.NewRefNode(refType, types.TInteger, intLit(9))
	r = Eval(refNode, env, ctx)
	ref := mustOk(t, r)
	if ref.Cell().Int() != 9 {
		t.Fatalf("expected ref cell 9, got %d", ref.Cell().Int())
	}
	ref.Release()
}

func TestVariantLitConstructsPayload(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	variantType := types.NewVariant([]types.Case{
		{Name: "ok", Type: types.TInteger},
		{Name: "err", Type: types.TString},
	})
	node := ir.VariantLit(variantType, "ok", intLit(7))
	r := Eval(node, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.CaseName() != "ok" || v.Payload().Int() != 7 {
		t.Fatalf("expected variant ok(7), got %s(%v)", v.CaseName(), v.Payload())
	}
}

func TestNewVectorPacksIntegerBuffer(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	vecType := types.NewVector(types.TInteger)
	node := ir.NewVectorNode(vecType, types.TInteger, []*ir.Node{intLit(1), intLit(2), intLit(3)})
	r := Eval(node, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if v.Vector().Len() != 3 {
		t.Fatalf("expected vector length 3, got %d", v.Vector().Len())
	}
}

func TestBuiltinComparisonDispatch(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	node := ir.Builtin(types.TBoolean, "less_than", nil, []*ir.Node{intLit(1), intLit(2)})
	r := Eval(node, env, ctx)
	v := mustOk(t, r)
	defer v.Release()
	if !v.Bool() {
		t.Fatalf("expected 1 < 2 to be true")
	}
}

func TestUnknownBuiltinErrors(t *testing.T) {
	env := NewRoot()
	ctx := newTestContext()

	node := ir.Builtin(types.TInteger, "does_not_exist", nil, nil)
	r := Eval(node, env, ctx)
	if r.Kind != StatusError {
		t.Fatalf("expected undefined-builtin error, got %v", r.Kind)
	}
}

func TestCycleCollectionReclaimsRefCycle(t *testing.T) {
	ctx := newTestContext()

	// ref<array<ref>> cycle: an array holds a ref, and that ref points back
	// at the array.
	innerRef := values.NewRef(types.TNull, values.Null)
	ctx.Tracker.Track(innerRef)

	arr := values.NewArray(types.NewRef(types.TNull), []*values.Value{innerRef})
	ctx.Tracker.Track(arr)
	innerRef.Release() // array now holds the sole external reference to innerRef

	innerRef.SetCell(arr) // close the cycle: arr -> innerRef -> arr

	before := ctx.Tracker.Len()
	if before != 2 {
		t.Fatalf("expected 2 tracked values before collection, got %d", before)
	}

	arr.Release() // drop the test's own handle; only the cycle keeps it alive
	ctx.Tracker.Collect()

	after := ctx.Tracker.Len()
	if after != 0 {
		t.Fatalf("expected cycle collection to free both values, got %d still tracked", after)
	}
}
