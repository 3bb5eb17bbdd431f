package types

import "testing"

func TestCompareKindRankTotalOrder(t *testing.T) {
	order := []*Type{TNever, TNull, TBoolean, TInteger, TFloat, TString, TDatetime, TBlob}
	for i := 0; i < len(order)-1; i++ {
		if Compare(order[i], order[i+1]) >= 0 {
			t.Errorf("kind %v should sort strictly before %v", order[i].Kind(), order[i+1].Kind())
		}
		if Compare(order[i+1], order[i]) <= 0 {
			t.Errorf("kind %v should sort strictly after %v", order[i+1].Kind(), order[i].Kind())
		}
	}
}

func TestCompareSameKindIsZero(t *testing.T) {
	tests := []struct {
		name string
		a, b *Type
	}{
		{"integer", TInteger, TInteger},
		{"array<string>", NewArray(TString), NewArray(TString)},
		{"dict<string,integer>", NewDict(TString, TInteger), NewDict(TString, TInteger)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Compare(tt.a, tt.b) != 0 {
				t.Errorf("Compare(%v, %v) should be 0 for structurally identical terms", tt.a, tt.b)
			}
		})
	}
}

func TestCompareElementTypePropagates(t *testing.T) {
	small := NewArray(TInteger)
	defer small.Release()
	big := NewArray(TFloat)
	defer big.Release()
	if Compare(small, big) >= 0 {
		t.Errorf("array<integer> should sort before array<float>, since Integer < Float by kind rank")
	}
	if Compare(big, small) <= 0 {
		t.Error("Compare must be antisymmetric")
	}
}

func TestCompareDictKeyBeforeValue(t *testing.T) {
	a := NewDict(TInteger, TString)
	defer a.Release()
	b := NewDict(TFloat, TInteger)
	defer b.Release()
	// keys differ (Integer < Float), so the key difference alone decides it
	// regardless of the value types.
	if Compare(a, b) >= 0 {
		t.Error("dict ordering should compare key types before value types")
	}
}

func TestCompareStructFieldCountThenNamesThenTypes(t *testing.T) {
	shorter := NewStruct([]Field{{Name: "a", Type: TInteger}})
	defer shorter.Release()
	longer := NewStruct([]Field{{Name: "a", Type: TInteger}, {Name: "b", Type: TInteger}})
	defer longer.Release()
	if Compare(shorter, longer) >= 0 {
		t.Error("fewer fields should sort before more fields")
	}

	aFirst := NewStruct([]Field{{Name: "a", Type: TInteger}, {Name: "z", Type: TInteger}})
	defer aFirst.Release()
	bFirst := NewStruct([]Field{{Name: "b", Type: TInteger}, {Name: "z", Type: TInteger}})
	defer bFirst.Release()
	if Compare(aFirst, bFirst) >= 0 {
		t.Error("field name should be the tie-break ahead of field type, once counts match")
	}
}

func TestCompareVariantCaseCountThenNames(t *testing.T) {
	fewer := NewVariant([]Case{{Name: "ok", Type: TInteger}})
	defer fewer.Release()
	more := NewVariant([]Case{{Name: "err", Type: TString}, {Name: "ok", Type: TInteger}})
	defer more.Release()
	if Compare(fewer, more) >= 0 {
		t.Error("fewer cases should sort before more cases")
	}
}

func TestCompareFunctionArityThenInputsThenOutput(t *testing.T) {
	unary := NewFunction([]*Type{TInteger}, TBoolean)
	defer unary.Release()
	binary := NewFunction([]*Type{TInteger, TInteger}, TBoolean)
	defer binary.Release()
	if Compare(unary, binary) >= 0 {
		t.Error("fewer inputs should sort before more inputs")
	}

	lowOutput := NewFunction([]*Type{TInteger}, TBoolean)
	defer lowOutput.Release()
	highOutput := NewFunction([]*Type{TInteger}, TString)
	defer highOutput.Release()
	if Compare(lowOutput, highOutput) >= 0 {
		t.Error("with identical inputs, output type should decide the order")
	}
}

func TestCompareRecursiveSelfIsZeroOtherwiseStableTiebreak(t *testing.T) {
	build := func() *Type {
		w := NewRecursiveBuilder()
		leaf := w.Leaf()
		inner := NewArray(leaf)
		leaf.Release()
		w.Finalize(inner)
		inner.Release()
		return w
	}
	a := build()
	defer a.Release()
	b := build()
	defer b.Release()

	if Compare(a, a) != 0 {
		t.Error("a recursive type compared to itself must be 0")
	}
	c1 := Compare(a, b)
	c2 := Compare(a, b)
	if c1 != c2 {
		t.Error("Compare between distinct recursive types must be stable across calls")
	}
	if Compare(a, b) == 0 {
		t.Error("distinct recursive wrappers must not compare equal even if structurally isomorphic")
	}
	if (Compare(a, b) < 0) == (Compare(b, a) < 0) {
		t.Error("Compare(a,b) and Compare(b,a) must disagree in sign")
	}
}
