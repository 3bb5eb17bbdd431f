package reflect

import (
	"testing"

	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

func intLit(i int64) *ir.Node {
	v := values.NewInteger(i)
	n := ir.Literal(types.TInteger, v)
	v.Release()
	return n
}

func roundTripIR(t *testing.T, n *ir.Node) *ir.Node {
	t.Helper()
	v, pool, _ := ValueOfIR(n)
	defer v.Release()
	got, err := IRFromValue(v, pool)
	if err != nil {
		t.Fatalf("IRFromValue: %v", err)
	}
	return got
}

func TestRoundTripLiteral(t *testing.T) {
	n := intLit(7)
	defer n.Release()
	got := roundTripIR(t, n)
	defer got.Release()

	if got.Kind() != ir.KLiteral {
		t.Fatalf("expected KLiteral, got %v", got.Kind())
	}
	if got.Literal().Int() != 7 {
		t.Fatalf("expected literal 7, got %v", got.Literal().Int())
	}
}

func TestRoundTripVariableAndLet(t *testing.T) {
	block := ir.Block(types.TInteger, []*ir.Node{
		ir.Let(types.TInteger, "x", intLit(42)),
		ir.Variable(types.TInteger, "x"),
	})
	defer block.Release()

	got := roundTripIR(t, block)
	defer got.Release()

	if got.Kind() != ir.KBlock || len(got.List()) != 2 {
		t.Fatalf("expected 2-statement block, got %v", got)
	}
	letNode := got.List()[0]
	if letNode.Kind() != ir.KLet || letNode.Name() != "x" {
		t.Fatalf("expected let x, got %v/%q", letNode.Kind(), letNode.Name())
	}
	varNode := got.List()[1]
	if varNode.Kind() != ir.KVariable || varNode.Name() != "x" {
		t.Fatalf("expected variable x, got %v/%q", varNode.Kind(), varNode.Name())
	}
}

func TestRoundTripIfWithoutElse(t *testing.T) {
	n := ir.If(types.TInteger, intLit(1), intLit(2), nil)
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.Kind() != ir.KIf {
		t.Fatalf("expected KIf, got %v", got.Kind())
	}
	if got.C() != nil {
		t.Fatalf("expected no else branch, got %v", got.C())
	}
	if got.A().Literal().Int() != 1 || got.B().Literal().Int() != 2 {
		t.Fatalf("branches mismatched: %v / %v", got.A(), got.B())
	}
}

func TestRoundTripIfWithElse(t *testing.T) {
	n := ir.If(types.TInteger, intLit(1), intLit(2), intLit(3))
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.C() == nil || got.C().Literal().Int() != 3 {
		t.Fatalf("expected else branch with literal 3, got %v", got.C())
	}
}

func TestRoundTripMatch(t *testing.T) {
	variantType := types.NewVariant([]types.Case{
		{Name: "a", Type: types.TNull},
		{Name: "b", Type: types.TInteger},
	})
	defer variantType.Release()

	nullLit := ir.Literal(types.TNull, values.Null)
	scrutinee := ir.VariantLit(variantType, "a", nullLit)
	nullLit.Release()

	cases := []ir.MatchCase{
		{CaseName: "a", Bind: "", Body: intLit(10)},
		{CaseName: "b", Bind: "n", Body: intLit(20)},
	}
	n := ir.Match(types.TInteger, scrutinee, cases)
	scrutinee.Release()
	cases[0].Body.Release()
	cases[1].Body.Release()
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.Kind() != ir.KMatch || len(got.Cases()) != 2 {
		t.Fatalf("expected 2-case match, got %v", got)
	}
	if got.Cases()[1].CaseName != "b" || got.Cases()[1].Bind != "n" {
		t.Fatalf("case 1 mismatch: %+v", got.Cases()[1])
	}
	if got.Cases()[1].Body.Literal().Int() != 20 {
		t.Fatalf("case 1 body mismatch: %v", got.Cases()[1].Body)
	}
}

func TestRoundTripTryCatchFinally(t *testing.T) {
	tryBody := intLit(1)
	catchBody := intLit(2)
	finallyBody := intLit(3)
	n := ir.Try(types.TInteger, tryBody, "msg", "stack", catchBody, finallyBody)
	tryBody.Release()
	catchBody.Release()
	finallyBody.Release()
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if !got.HasCatch() || !got.HasFinally() {
		t.Fatalf("expected catch and finally present, got catch=%v finally=%v", got.HasCatch(), got.HasFinally())
	}
	if got.MsgVar() != "msg" || got.StackVar() != "stack" {
		t.Fatalf("catch binding mismatch: %q/%q", got.MsgVar(), got.StackVar())
	}
	if got.A().Literal().Int() != 1 || got.B().Literal().Int() != 2 || got.C().Literal().Int() != 3 {
		t.Fatalf("try/catch/finally bodies mismatched")
	}
}

func TestRoundTripTryNoCatchNoFinally(t *testing.T) {
	tryBody := intLit(1)
	n := ir.Try(types.TInteger, tryBody, "", "", nil, nil)
	tryBody.Release()
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.HasCatch() || got.HasFinally() {
		t.Fatalf("expected no catch/finally, got catch=%v finally=%v", got.HasCatch(), got.HasFinally())
	}
	if got.B() != nil || got.C() != nil {
		t.Fatalf("expected nil catch/finally bodies, got %v/%v", got.B(), got.C())
	}
}

func TestRoundTripFuncLitWithLitBack(t *testing.T) {
	funcType := types.NewFunction([]*types.Type{types.TInteger}, types.TInteger)
	defer funcType.Release()

	body := ir.Variable(types.TInteger, "n")
	litBack := values.NewString("function(n) { return n; }")
	n := ir.FuncLit(funcType, []string{"n"}, body, litBack)
	body.Release()
	litBack.Release()
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.Kind() != ir.KFuncLit {
		t.Fatalf("expected KFuncLit, got %v", got.Kind())
	}
	if len(got.Params()) != 1 || got.Params()[0] != "n" {
		t.Fatalf("expected params [n], got %v", got.Params())
	}
	if got.LitBack() == nil || got.LitBack().Str() != "function(n) { return n; }" {
		t.Fatalf("expected litBack preserved, got %v", got.LitBack())
	}
}

func TestRoundTripBuiltinWithTypeArgs(t *testing.T) {
	n := ir.Builtin(types.TInteger, "len", []*types.Type{types.TString}, []*ir.Node{intLit(1)})
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.Kind() != ir.KBuiltin || got.Name() != "len" {
		t.Fatalf("expected builtin 'len', got %v/%q", got.Kind(), got.Name())
	}
	if len(got.TypeArgs()) != 1 || !types.Equal(got.TypeArgs()[0], types.TString) {
		t.Fatalf("expected type arg [string], got %v", got.TypeArgs())
	}
}

func TestRoundTripNewDict(t *testing.T) {
	dictType := types.NewDict(types.TString, types.TInteger)
	defer dictType.Release()

	keyA := ir.Literal(types.TString, values.NewString("a"))
	entries := []ir.DictEntry{{Key: keyA, Value: intLit(1)}}
	n := ir.NewDictNode(dictType, entries)
	keyA.Release()
	entries[0].Value.Release()
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.Kind() != ir.KNewDict || len(got.DictEntries()) != 1 {
		t.Fatalf("expected 1-entry new_dict, got %v", got)
	}
	if got.DictEntries()[0].Key.Literal().Str() != "a" {
		t.Fatalf("key mismatch: %v", got.DictEntries()[0].Key)
	}
	if got.DictEntries()[0].Value.Literal().Int() != 1 {
		t.Fatalf("value mismatch: %v", got.DictEntries()[0].Value)
	}
}

func TestRoundTripNewArray(t *testing.T) {
	arrType := types.NewArray(types.TInteger)
	defer arrType.Release()

	n := ir.NewArrayNode(arrType, types.TInteger, []*ir.Node{intLit(1), intLit(2), intLit(3)})
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.Kind() != ir.KNewArray || len(got.List()) != 3 {
		t.Fatalf("expected 3-item new_array, got %v", got)
	}
	for i, want := range []int64{1, 2, 3} {
		if got.List()[i].Literal().Int() != want {
			t.Fatalf("item %d mismatch: got %v want %d", i, got.List()[i], want)
		}
	}
}

func TestRoundTripLoopsAndBreakContinue(t *testing.T) {
	body := ir.Block(types.TNull, []*ir.Node{
		ir.Break(types.TNull, "outer", true),
		ir.Continue(types.TNull, "", false),
	})
	n := ir.While(types.TNull, "outer", intLit(1), body)
	body.Release()
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.Kind() != ir.KWhile || got.Label() != "outer" {
		t.Fatalf("expected labeled while, got %v/%q", got.Kind(), got.Label())
	}
	stmts := got.B().List()
	if stmts[0].Kind() != ir.KBreak || !stmts[0].HasLabel() || stmts[0].TargetLabel() != "outer" {
		t.Fatalf("break mismatch: %v", stmts[0])
	}
	if stmts[1].Kind() != ir.KContinue || stmts[1].HasLabel() {
		t.Fatalf("continue mismatch: %v", stmts[1])
	}
}

func TestRoundTripStructAndGetField(t *testing.T) {
	structType := types.NewStruct([]types.Field{
		{Name: "x", Type: types.TInteger},
		{Name: "y", Type: types.TString},
	})
	defer structType.Release()

	lit := ir.StructLit(structType, []*ir.Node{intLit(1), ir.Literal(types.TString, values.NewString("s"))})
	n := ir.GetField(types.TInteger, lit, "x")
	lit.Release()
	defer n.Release()

	got := roundTripIR(t, n)
	defer got.Release()

	if got.Kind() != ir.KGetField || got.Name() != "x" {
		t.Fatalf("expected get_field x, got %v/%q", got.Kind(), got.Name())
	}
	if got.A().Kind() != ir.KStructLit || len(got.A().List()) != 2 {
		t.Fatalf("expected 2-field struct_lit, got %v", got.A())
	}
}

func TestRoundTripConstantPoolDeduplication(t *testing.T) {
	shared := values.NewInteger(99)
	n := ir.Block(types.TInteger, []*ir.Node{
		ir.Literal(types.TInteger, shared),
		ir.Literal(types.TInteger, shared),
	})
	shared.Release()
	defer n.Release()

	v, pool, _ := ValueOfIR(n)
	defer v.Release()

	if len(pool) != 1 {
		t.Fatalf("expected a single deduplicated pool entry, got %d", len(pool))
	}

	got, err := IRFromValue(v, pool)
	if err != nil {
		t.Fatalf("IRFromValue: %v", err)
	}
	defer got.Release()

	if got.List()[0].Literal().Int() != 99 || got.List()[1].Literal().Int() != 99 {
		t.Fatalf("expected both literals to read back as 99, got %v", got.List())
	}
}
