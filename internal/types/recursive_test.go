package types

import "testing"

func TestRecursiveBuilderStartsEmpty(t *testing.T) {
	w := NewRecursiveBuilder()
	defer w.Release()
	if w.Kind() != Recursive {
		t.Fatalf("builder should report Recursive kind, got %v", w.Kind())
	}
	if w.Inner() != nil {
		t.Fatal("Inner() should be nil before Finalize")
	}
}

func TestLeafDuringBuildingTracksSelfRefs(t *testing.T) {
	w := NewRecursiveBuilder()
	before := w.Refcount()
	leaf1 := w.Leaf()
	leaf2 := w.Leaf()
	if w.Refcount() != before+2 {
		t.Fatalf("each Leaf() call during building should bump the raw refcount by 1, got %d want %d", w.Refcount(), before+2)
	}
	inner := NewStruct([]Field{{Name: "next", Type: leaf1}, {Name: "alt", Type: leaf2}})
	leaf1.Release()
	leaf2.Release()
	w.Finalize(inner)
	inner.Release()
	defer w.Release()
	if w.Refcount() != before {
		t.Fatalf("Finalize should subtract the 2 self-references, leaving refcount %d, got %d", before, w.Refcount())
	}
}

func TestLeafAfterFinalizeBehavesLikeRetain(t *testing.T) {
	w := NewRecursiveBuilder()
	leaf := w.Leaf()
	inner := NewArray(leaf)
	leaf.Release()
	w.Finalize(inner)
	inner.Release()
	defer w.Release()

	before := w.Refcount()
	again := w.Leaf()
	if again != w {
		t.Fatal("Leaf() on a finalized wrapper should return the wrapper itself")
	}
	if w.Refcount() != before+1 {
		t.Fatalf("Leaf() after Finalize should behave like Retain, got refcount %d want %d", w.Refcount(), before+1)
	}
	again.Release()
}

func TestFinalizeRefcountNeverDropsBelowOne(t *testing.T) {
	// A wrapper used as a leaf many times relative to its one external
	// reference must still end up with refcount >= 1, not drop to zero or
	// negative and be prematurely collectible.
	w := NewRecursiveBuilder()
	leaves := make([]*Type, 0, 5)
	for i := 0; i < 5; i++ {
		leaves = append(leaves, w.Leaf())
	}
	fields := make([]Field, len(leaves))
	for i, l := range leaves {
		fields[i] = Field{Name: string(rune('a' + i)), Type: l}
	}
	inner := NewStruct(fields)
	for _, l := range leaves {
		l.Release()
	}
	w.Finalize(inner)
	inner.Release()
	defer w.Release()

	if w.Refcount() < 1 {
		t.Fatalf("finalized refcount must never drop below 1, got %d", w.Refcount())
	}
}

func TestFinalizeSetsInnerAndClearsBuilding(t *testing.T) {
	w := NewRecursiveBuilder()
	leaf := w.Leaf()
	inner := NewArray(leaf)
	leaf.Release()
	w.Finalize(inner)
	inner.Release()
	defer w.Release()

	if w.Inner() == nil {
		t.Fatal("Inner() should be set after Finalize")
	}
	if w.Inner().Kind() != Array {
		t.Fatalf("Inner() should be the array term passed to Finalize, got kind %v", w.Inner().Kind())
	}
	// Calling Leaf after Finalize should not panic; Leaf now behaves like
	// ordinary Retain.
	after := w.Leaf()
	after.Release()
}

func TestRecursiveStringRendersSelfOnCycle(t *testing.T) {
	w := NewRecursiveBuilder()
	leaf := w.Leaf()
	inner := NewArray(leaf)
	leaf.Release()
	w.Finalize(inner)
	inner.Release()
	defer w.Release()

	s := w.String()
	if s == "" {
		t.Fatal("String() should render something for a recursive type")
	}
	if want := "recursive(array<self>)"; s != want {
		t.Fatalf("String() = %q, want %q", s, want)
	}
}

func TestReleaseRecursiveBreaksSelfReferenceBeforeDestroyingInner(t *testing.T) {
	w := NewRecursiveBuilder()
	leaf := w.Leaf()
	inner := NewArray(leaf)
	leaf.Release()
	w.Finalize(inner)
	inner.Release()
	// Releasing down to zero must not double-release the wrapper through
	// its own self-referential leaf inside inner.
	w.Release()
}
