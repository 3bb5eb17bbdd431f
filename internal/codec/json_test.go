package codec

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

func roundTripJSON(t *testing.T, v *values.Value, typ *types.Type) string {
	t.Helper()
	s, err := EncodeJSON(v, typ)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	got, err := DecodeJSON(s, typ)
	if err != nil {
		t.Fatalf("DecodeJSON(%q): %v", s, err)
	}
	defer got.Release()
	if !values.Equal(got, v) {
		t.Fatalf("round trip mismatch: encoded %q, decoded back %v, want %v", s, got.Print(), v.Print())
	}
	return s
}

func TestJSONScalars(t *testing.T) {
	cases := []struct {
		name string
		v    *values.Value
		typ  *types.Type
	}{
		{"null", values.Null, types.TNull},
		{"bool", values.NewBoolean(true), types.TBoolean},
		{"int", values.NewInteger(-17), types.TInteger},
		{"float", values.NewFloat(2.25), types.TFloat},
		{"string", values.NewString("héllo\nworld"), types.TString},
		{"blob", values.NewBlob([]byte{0x01, 0x02}), types.TBlob},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			roundTripJSON(t, c.v, c.typ)
		})
	}
}

func TestJSONIntegerHasNoFractionalPart(t *testing.T) {
	v := values.NewInteger(42)
	defer v.Release()
	s := roundTripJSON(t, v, types.TInteger)
	if s != "42" {
		t.Fatalf("expected integer to encode without fractional part, got %q", s)
	}
}

func TestJSONStringKeyedDictIsObject(t *testing.T) {
	dictType := types.NewDict(types.TString, types.TInteger)
	defer dictType.Release()

	k := values.NewString("count")
	v := values.NewInteger(5)
	d := values.NewDict([]values.DictPair{{Key: k, Value: v}})
	k.Release()
	v.Release()
	defer d.Release()

	s := roundTripJSON(t, d, dictType)
	if s[0] != '{' {
		t.Fatalf("expected string-keyed dict to encode as a JSON object, got %q", s)
	}
}

func TestJSONNonStringKeyedDictIsArrayOfPairs(t *testing.T) {
	dictType := types.NewDict(types.TInteger, types.TString)
	defer dictType.Release()

	k := values.NewInteger(1)
	v := values.NewString("one")
	d := values.NewDict([]values.DictPair{{Key: k, Value: v}})
	k.Release()
	v.Release()
	defer d.Release()

	s := roundTripJSON(t, d, dictType)
	if s[0] != '[' {
		t.Fatalf("expected non-string-keyed dict to encode as an array of pairs, got %q", s)
	}
}

func TestJSONVariantIsSingleFieldObject(t *testing.T) {
	variantType := types.NewVariant([]types.Case{
		{Name: "err", Type: types.TString},
		{Name: "ok", Type: types.TInteger},
	})
	defer variantType.Release()

	v := values.NewVariant(variantType, "ok", values.NewInteger(3))
	defer v.Release()
	roundTripJSON(t, v, variantType)
}

func TestJSONArrayAndStruct(t *testing.T) {
	structType := types.NewStruct([]types.Field{
		{Name: "id", Type: types.TInteger},
		{Name: "name", Type: types.TString},
	})
	defer structType.Release()
	arrType := types.NewArray(structType)
	defer arrType.Release()

	mkRow := func(id int64, name string) *values.Value {
		idv := values.NewInteger(id)
		namev := values.NewString(name)
		row := values.NewStruct(structType, []*values.Value{idv, namev})
		idv.Release()
		namev.Release()
		return row
	}
	r1 := mkRow(1, "a")
	r2 := mkRow(2, "b")
	arr := values.NewArray(structType, []*values.Value{r1, r2})
	r1.Release()
	r2.Release()
	defer arr.Release()

	roundTripJSON(t, arr, arrType)
}

func TestJSONNonFiniteFloatRejected(t *testing.T) {
	v := values.NewFloat(1.0 / zero())
	defer v.Release()
	if _, err := EncodeJSON(v, types.TFloat); err == nil {
		t.Fatalf("expected error encoding +Inf as JSON, got none")
	}
}

// TestJSONPrettyArrayOfStructsSnapshot pins the layout of EncodeJSONPretty's
// output against a stored snapshot, the way the interpreter's fixture runner
// snapshots program output for cases with no hand-written expected file.
func TestJSONPrettyArrayOfStructsSnapshot(t *testing.T) {
	structType := types.NewStruct([]types.Field{
		{Name: "id", Type: types.TInteger},
		{Name: "name", Type: types.TString},
	})
	defer structType.Release()
	arrType := types.NewArray(structType)
	defer arrType.Release()

	mkRow := func(id int64, name string) *values.Value {
		idv := values.NewInteger(id)
		namev := values.NewString(name)
		row := values.NewStruct(structType, []*values.Value{idv, namev})
		idv.Release()
		namev.Release()
		return row
	}
	r1 := mkRow(1, "alpha")
	r2 := mkRow(2, "beta")
	arr := values.NewArray(structType, []*values.Value{r1, r2})
	r1.Release()
	r2.Release()
	defer arr.Release()

	out, err := EncodeJSONPretty(arr, arrType)
	if err != nil {
		t.Fatalf("EncodeJSONPretty: %v", err)
	}
	snaps.MatchSnapshot(t, out)
}

func zero() float64 { return 0 }
