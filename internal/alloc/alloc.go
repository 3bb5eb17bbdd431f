// Package alloc is a thin allocator facade. Every value and type-term
// constructor in this module allocates through it instead of calling `new`
// or a composite literal directly, so a future arena allocator can be
// slotted in behind the same seam without touching call sites — mirroring
// the pooling seam kept in internal/interp/runtime/pool.go.
package alloc

import "sync/atomic"

// Stats tracks allocation counts per kind name, purely for diagnostics —
// there is no reuse/pooling behavior here yet, only the seam.
type Stats struct {
	counts map[string]*atomic.Int64
}

var global = NewStats()

// NewStats constructs an empty allocation counter set.
func NewStats() *Stats {
	return &Stats{counts: make(map[string]*atomic.Int64)}
}

func (s *Stats) counter(kind string) *atomic.Int64 {
	if c, ok := s.counts[kind]; ok {
		return c
	}
	c := &atomic.Int64{}
	s.counts[kind] = c
	return c
}

// Count records one allocation of the given kind.
func (s *Stats) Count(kind string) {
	s.counter(kind).Add(1)
}

// Get returns the number of allocations recorded for kind.
func (s *Stats) Get(kind string) int64 {
	if c, ok := s.counts[kind]; ok {
		return c.Load()
	}
	return 0
}

// Global returns the process-wide allocation counters, used by constructors
// that don't carry their own ExecutionContext-scoped Stats.
func Global() *Stats { return global }

// New allocates a zero-valued T and records the allocation under kind. It is
// a direct stand-in for malloc+zero-init in the source runtime's allocator
// facade; swapping this body for an arena/pool implementation is the whole
// point of keeping every constructor behind this one function.
func New[T any](kind string) *T {
	global.Count(kind)
	return new(T)
}
