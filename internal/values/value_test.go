package values

import (
	"math"
	"testing"

	"github.com/loomlang/loom/internal/types"
)

func TestSetInvariantAscendingUnique(t *testing.T) {
	s := NewSet(types.TInteger, []*Value{NewInteger(3), NewInteger(1), NewInteger(2), NewInteger(1)})
	if len(s.Items()) != 3 {
		t.Fatalf("expected dedup to 3 items, got %d", len(s.Items()))
	}
	for i := 0; i < len(s.Items())-1; i++ {
		if Compare(s.Items()[i], s.Items()[i+1]) >= 0 {
			t.Fatalf("set items not strictly ascending: %v", s.Items())
		}
	}
}

func TestFloatEqualityNaNAndSignedZero(t *testing.T) {
	nan1 := NewFloat(math.NaN())
	nan2 := NewFloat(math.NaN())
	if !Equal(nan1, nan2) {
		t.Fatal("NaN must equal NaN under structural equality")
	}
	pos := NewFloat(0)
	neg := NewFloat(math.Copysign(0, -1))
	if Equal(pos, neg) {
		t.Fatal("+0 must not equal -0 under structural equality")
	}
}

func TestFloatOrderingSignedZeroAndNaN(t *testing.T) {
	pos := NewFloat(0)
	neg := NewFloat(math.Copysign(0, -1))
	if Compare(neg, pos) >= 0 {
		t.Fatal("-0 must sort before +0")
	}
	nan := NewFloat(math.NaN())
	one := NewFloat(1)
	if Compare(nan, one) <= 0 {
		t.Fatal("NaN must be the greatest float value")
	}
}

func TestHeterogeneousArraySortOrder(t *testing.T) {
	items := []*Value{
		NewBoolean(true), NewInteger(0), NewInteger(-1), NewString("a"), Null,
	}
	// Sort using the generic Compare.
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if Compare(items[j], items[i]) < 0 {
				items[i], items[j] = items[j], items[i]
			}
		}
	}
	want := []Kind{KNull, KBoolean, KInteger, KInteger, KString}
	for i, k := range want {
		if items[i].Kind() != k {
			t.Fatalf("position %d: got kind %v, want %v", i, items[i].Kind(), k)
		}
	}
	if items[2].Int() != -1 || items[3].Int() != 0 {
		t.Fatalf("expected -1 before 0 among integers, got %d then %d", items[2].Int(), items[3].Int())
	}
}

func TestRefMutationObservedThroughSetCell(t *testing.T) {
	r := NewRef(types.TInteger, NewInteger(1))
	r.SetCell(NewInteger(2))
	if r.Cell().Int() != 2 {
		t.Fatalf("expected ref cell updated to 2, got %d", r.Cell().Int())
	}
}

func TestStructEqualityFieldOrderAndValues(t *testing.T) {
	st := types.NewStruct([]types.Field{{Name: "a", Type: types.TInteger}, {Name: "b", Type: types.TInteger}})
	v1 := NewStruct(st, []*Value{NewInteger(1), NewInteger(2)})
	v2 := NewStruct(st, []*Value{NewInteger(1), NewInteger(2)})
	v3 := NewStruct(st, []*Value{NewInteger(1), NewInteger(3)})
	if !Equal(v1, v2) {
		t.Fatal("identical structs should be equal")
	}
	if Equal(v1, v3) {
		t.Fatal("structs with differing field values should not be equal")
	}
}

func TestPrintRoundTripShapes(t *testing.T) {
	cases := []struct {
		v    *Value
		want string
	}{
		{Null, "null"},
		{NewBoolean(true), "true"},
		{NewInteger(-42), "-42"},
		{NewString("hi\n"), `"hi\n"`},
		{NewBlob([]byte{0xde, 0xad}), "0xdead"},
	}
	for _, c := range cases {
		if got := c.v.Print(); got != c.want {
			t.Errorf("Print() = %q, want %q", got, c.want)
		}
	}
}
