package gc

import (
	"testing"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// TestCollectFreesRefArrayCycle exercises cycle collection: a
// ref<array<ref>> wired into a cycle, with all external handles released,
// must be fully reclaimed by a single Collect() call.
func TestCollectFreesRefArrayCycle(t *testing.T) {
	elemType := types.TInteger // placeholder element type, unused by the test

	r := values.NewRef(elemType, values.Null)
	arr := values.NewArray(elemType, []*values.Value{r})
	r.SetCell(arr) // closes the cycle: r -> arr -> [r]

	tr := New()
	tr.Track(r)
	tr.Track(arr)
	if tr.Len() != 2 {
		t.Fatalf("expected 2 tracked values before release, got %d", tr.Len())
	}

	// Drop the external handles a caller would have held.
	r.Release()
	arr.Release()

	freed := tr.Collect()
	if freed != 2 {
		t.Fatalf("expected Collect to free both cycle members, freed %d", freed)
	}
	if tr.Len() != 0 {
		t.Fatalf("expected tracked-count back to pre-construction level, got %d", tr.Len())
	}
}

func TestCollectDoesNotFreeExternallyReachableValues(t *testing.T) {
	elemType := types.TInteger
	arr := values.NewArray(elemType, []*values.Value{values.NewInteger(1), values.NewInteger(2)})

	tr := New()
	tr.Track(arr)

	// No external handle dropped: arr.Refcount() is still 1 from construction.
	freed := tr.Collect()
	if freed != 0 {
		t.Fatalf("expected 0 freed for a still-referenced value, got %d", freed)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected value to remain tracked, got len %d", tr.Len())
	}
}
