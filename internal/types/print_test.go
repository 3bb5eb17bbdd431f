package types

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Never, "never"},
		{Null, "null"},
		{Boolean, "boolean"},
		{Integer, "integer"},
		{Float, "float"},
		{String, "string"},
		{Datetime, "datetime"},
		{Blob, "blob"},
		{Array, "array"},
		{Set, "set"},
		{Dict, "dict"},
		{Struct, "struct"},
		{Variant, "variant"},
		{Ref, "ref"},
		{Vector, "vector"},
		{Matrix, "matrix"},
		{Function, "function"},
		{AsyncFunction, "async_function"},
		{Recursive, "recursive"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindStringUnknown(t *testing.T) {
	var k Kind = 255
	if got := k.String(); got != "kind(255)" {
		t.Errorf("String() for an out-of-range Kind = %q, want %q", got, "kind(255)")
	}
}

func TestTypeStringPrimitives(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{TInteger, "integer"},
		{TString, "string"},
		{TBoolean, "boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeStringParameterized(t *testing.T) {
	tests := []struct {
		name string
		typ  func() *Type
		want string
	}{
		{"array", func() *Type { return NewArray(TInteger) }, "array<integer>"},
		{"set", func() *Type { return NewSet(TString) }, "set<string>"},
		{"ref", func() *Type { return NewRef(TBoolean) }, "ref<boolean>"},
		{"vector", func() *Type { return NewVector(TFloat) }, "vector<float>"},
		{"matrix", func() *Type { return NewMatrix(TInteger) }, "matrix<integer>"},
		{"dict", func() *Type { return NewDict(TString, TInteger) }, "dict<string,integer>"},
		{
			"struct",
			func() *Type {
				return NewStruct([]Field{{Name: "x", Type: TInteger}, {Name: "y", Type: TFloat}})
			},
			"struct{x:integer,y:float}",
		},
		{
			"variant",
			func() *Type {
				return NewVariant([]Case{{Name: "err", Type: TString}, {Name: "ok", Type: TInteger}})
			},
			"variant{err:string,ok:integer}",
		},
		{
			"function",
			func() *Type { return NewFunction([]*Type{TInteger, TString}, TBoolean) },
			"function(integer,string) -> boolean",
		},
		{
			"async_function",
			func() *Type { return NewAsyncFunction([]*Type{TInteger}, TBoolean) },
			"async_function(integer) -> boolean",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := tt.typ()
			defer typ.Release()
			if got := typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeStringRecursiveBuilding(t *testing.T) {
	w := NewRecursiveBuilder()
	defer w.Release()
	if got := w.String(); got != "recursive(<building>)" {
		t.Errorf("String() before Finalize = %q, want %q", got, "recursive(<building>)")
	}
}

func TestTypeStringNil(t *testing.T) {
	var typ *Type
	if got := typ.String(); got != "<nil>" {
		t.Errorf("String() on a nil *Type = %q, want %q", got, "<nil>")
	}
}
