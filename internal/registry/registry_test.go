package registry

import (
	"math"
	"testing"

	"github.com/loomlang/loom/internal/values"
)

func TestComparisonBuiltinsDeferToValuesOrdering(t *testing.T) {
	r := New()

	factory, ok := r.LookupBuiltin("less_than")
	if !ok {
		t.Fatalf("expected less_than to be pre-registered")
	}
	impl := factory(nil)

	result, errv := impl([]*values.Value{values.NewInteger(1), values.NewInteger(2)})
	if errv != nil {
		t.Fatalf("unexpected error: %v", errv)
	}
	if !result.Bool() {
		t.Fatalf("expected 1 < 2 to be true")
	}
}

func TestEqualBuiltinUsesStructuralEquality(t *testing.T) {
	r := New()
	factory, _ := r.LookupBuiltin("equal")
	impl := factory(nil)

	nan := values.NewFloat(math.NaN())
	result, errv := impl([]*values.Value{nan, nan})
	if errv != nil {
		t.Fatalf("unexpected error: %v", errv)
	}
	if !result.Bool() {
		t.Fatalf("expected NaN to equal itself under is-equal semantics (spec 4.1)")
	}
}

func TestLookupMissingBuiltinFails(t *testing.T) {
	r := New()
	if _, ok := r.LookupBuiltin("nonexistent"); ok {
		t.Fatalf("expected lookup miss")
	}
}

func TestBuiltinNamesSorted(t *testing.T) {
	r := New()
	names := r.BuiltinNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("expected sorted names, got %v", names)
		}
	}
}
