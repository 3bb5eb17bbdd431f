// Package gc implements a CPython-style trial-deletion cycle collector: a
// tracking list of cycle-capable values, collected by copying refcounts,
// decrementing for internal references, and treating whatever still has
// positive scratch count as a root.
//
// The tracker is held by an explicit handle (Tracker) rather than
// thread-local state, so each execution context owns its own.
package gc

import "github.com/loomlang/loom/internal/values"

// Tracker holds the set of cycle-capable values currently tracked for one
// execution context, plus the generation counter used to make closure
// environment traversal visit each environment at most once per phase.
type Tracker struct {
	tracked    map[*values.Value]struct{}
	generation uint64
}

// New constructs an empty tracker.
func New() *Tracker {
	return &Tracker{tracked: make(map[*values.Value]struct{})}
}

// Track registers v if it is cycle-capable and not already tracked (spec
// §3: "cycle-capable kinds... are registered with the cycle collector upon
// construction").
func (t *Tracker) Track(v *values.Value) {
	if v == nil || !v.IsCycleCapable() || v.Tracked() {
		return
	}
	v.SetTracked(true)
	t.tracked[v] = struct{}{}
}

// Untrack unregisters v ("...and unregistered on release").
func (t *Tracker) Untrack(v *values.Value) {
	if v == nil || !v.Tracked() {
		return
	}
	v.SetTracked(false)
	delete(t.tracked, v)
}

// Len reports how many values are currently tracked, for tests checking
// that the tracked count drops back to its pre-construction level.
func (t *Tracker) Len() int { return len(t.tracked) }

// Collect runs one trial-deletion pass and returns the number of values
// freed. The caller (internal/eval) must only invoke this at the
// outermost call boundary — nested calls must not collect, because
// built-ins commonly hold live references on the native
// (Go) stack invisible to this traversal.
func (t *Tracker) Collect() int {
	if len(t.tracked) == 0 {
		return 0
	}
	t.generation++
	gen := t.generation

	// Prune entries that already reached refcount zero through an ordinary
	// (non-cycle) Release call elsewhere in the tracked set's own release
	// cascade — e.g. releasing an array also releases its tracked elements,
	// and nothing else flags the tracker at that exact moment. Their
	// children were already released by that cascade, so we only forget
	// them here, never call ReleaseChildren a second time.
	for v := range t.tracked {
		if v.Refcount() <= 0 {
			delete(t.tracked, v)
		}
	}

	// Step 1: copy each tracked value's refcount into a scratch field.
	scratch := make(map[*values.Value]int32, len(t.tracked))
	for v := range t.tracked {
		scratch[v] = v.Refcount()
	}

	// Step 2: for each tracked value, decrement the scratch count of every
	// tracked value it references.
	for v := range t.tracked {
		for _, c := range v.GCChildren(gen) {
			if _, ok := scratch[c]; ok {
				scratch[c]--
			}
		}
	}

	// Step 3: tracked values with scratch > 0 are roots; mark them and
	// everything they transitively reach (within the tracked set) as
	// rescued.
	reached := make(map[*values.Value]bool, len(t.tracked))
	var mark func(v *values.Value)
	mark = func(v *values.Value) {
		if reached[v] {
			return
		}
		reached[v] = true
		for _, c := range v.GCChildren(gen) {
			if _, ok := t.tracked[c]; ok {
				mark(c)
			}
		}
	}
	for v := range t.tracked {
		if scratch[v] > 0 {
			mark(v)
		}
	}

	// Step 4: unrescued tracked values are garbage. Unlink and mark them
	// destroyed first (so cascading ReleaseChildren calls across the
	// garbage set can never double-free one another), then destroy
	// contents.
	var garbage []*values.Value
	for v := range t.tracked {
		if !reached[v] {
			garbage = append(garbage, v)
		}
	}
	for _, v := range garbage {
		delete(t.tracked, v)
		v.SetTracked(false)
		v.MarkDestroyed()
	}
	for _, v := range garbage {
		v.ReleaseChildren()
	}
	return len(garbage)
}
