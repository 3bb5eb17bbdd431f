package types

import "testing"

func TestRetainReleasePrimitiveSingletonsAreNoOps(t *testing.T) {
	tests := []struct {
		name string
		prim *Type
	}{
		{"never", TNever},
		{"null", TNull},
		{"boolean", TBoolean},
		{"integer", TInteger},
		{"float", TFloat},
		{"string", TString},
		{"datetime", TDatetime},
		{"blob", TBlob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.prim.Refcount()
			tt.prim.Retain()
			tt.prim.Retain()
			tt.prim.Release()
			tt.prim.Release()
			tt.prim.Release()
			if tt.prim.Refcount() != before {
				t.Errorf("primitive refcount changed: got %d, want unchanged %d", tt.prim.Refcount(), before)
			}
			if !tt.prim.IsPrimitive() {
				t.Errorf("%v should report IsPrimitive() true", tt.name)
			}
		})
	}
}

func TestRetainIncrementsReleaseDecrements(t *testing.T) {
	a := NewArray(TInteger)
	if a.Refcount() != 1 {
		t.Fatalf("fresh type should start at refcount 1, got %d", a.Refcount())
	}
	a.Retain()
	if a.Refcount() != 2 {
		t.Fatalf("after Retain, refcount should be 2, got %d", a.Refcount())
	}
	a.Release()
	if a.Refcount() != 1 {
		t.Fatalf("after one Release, refcount should be 1, got %d", a.Refcount())
	}
	a.Release()
}

func TestReleaseToZeroReleasesArrayElement(t *testing.T) {
	elem := NewArray(TInteger) // elem.Refcount() == 1
	arr := NewArray(elem)      // retains elem -> elem.Refcount() == 2
	if elem.Refcount() != 2 {
		t.Fatalf("constructing array<elem> should retain elem, got refcount %d", elem.Refcount())
	}
	arr.Release()
	if elem.Refcount() != 1 {
		t.Fatalf("releasing the outer array to zero should release its element once, got refcount %d", elem.Refcount())
	}
	elem.Release()
}

func TestReleaseToZeroReleasesDictKeyAndValue(t *testing.T) {
	key := NewArray(TString)
	value := NewArray(TInteger)
	d := NewDict(key, value)
	if key.Refcount() != 2 || value.Refcount() != 2 {
		t.Fatalf("constructing dict<key,value> should retain both, got key=%d value=%d", key.Refcount(), value.Refcount())
	}
	d.Release()
	if key.Refcount() != 1 || value.Refcount() != 1 {
		t.Fatalf("releasing the dict to zero should release key and value once each, got key=%d value=%d", key.Refcount(), value.Refcount())
	}
	key.Release()
	value.Release()
}

func TestReleaseToZeroReleasesStructFieldTypes(t *testing.T) {
	fieldType := NewArray(TBoolean)
	st := NewStruct([]Field{{Name: "flag", Type: fieldType}})
	if fieldType.Refcount() != 2 {
		t.Fatalf("constructing the struct should retain the field type, got refcount %d", fieldType.Refcount())
	}
	st.Release()
	if fieldType.Refcount() != 1 {
		t.Fatalf("releasing the struct to zero should release the field type once, got refcount %d", fieldType.Refcount())
	}
	fieldType.Release()
}

func TestReleaseToZeroReleasesVariantCaseTypes(t *testing.T) {
	caseType := NewArray(TString)
	v := NewVariant([]Case{{Name: "ok", Type: caseType}})
	if caseType.Refcount() != 2 {
		t.Fatalf("constructing the variant should retain the case type, got refcount %d", caseType.Refcount())
	}
	v.Release()
	if caseType.Refcount() != 1 {
		t.Fatalf("releasing the variant to zero should release the case type once, got refcount %d", caseType.Refcount())
	}
	caseType.Release()
}

func TestReleaseToZeroReleasesFunctionInputsAndOutput(t *testing.T) {
	input := NewArray(TInteger)
	output := NewArray(TString)
	fn := NewFunction([]*Type{input}, output)
	if input.Refcount() != 2 || output.Refcount() != 2 {
		t.Fatalf("constructing the function should retain inputs and output, got input=%d output=%d", input.Refcount(), output.Refcount())
	}
	fn.Release()
	if input.Refcount() != 1 || output.Refcount() != 1 {
		t.Fatalf("releasing the function to zero should release inputs and output once each, got input=%d output=%d", input.Refcount(), output.Refcount())
	}
	input.Release()
	output.Release()
}

func TestReleaseNilIsNoOp(t *testing.T) {
	var t0 *Type
	t0.Release() // must not panic
	if t0.Retain() != nil {
		t.Fatal("Retain on a nil *Type should return nil")
	}
	if t0.Refcount() != 0 {
		t.Fatalf("Refcount on a nil *Type should be 0, got %d", t0.Refcount())
	}
}
