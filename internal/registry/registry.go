// Package registry implements the built-in and platform function
// registries: name -> factory mappings where the factory receives static
// type parameters and returns a concrete, uniformly-signed implementation.
//
// Built-in and platform *bodies* are outside this package's core
// concerns — it owns only the lookup/registration machinery, plus a
// handful of illustrative built-ins (comparison operators, which the
// evaluator relies on structurally, and one locale-aware demo) so the
// registry is exercised end to end.
package registry

import (
	"sort"
	"sync"

	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// Implementation is a concrete, specialized built-in or platform body.
// It returns either a result value or an error rather than a null result
// plus a pending error message; the operational contract (factory and
// implementation called back-to-back, no intervening IR evaluation) is
// unaffected by this surface choice.
type Implementation func(args []*values.Value) (*values.Value, *lmerr.Error)

// BuiltinFactory specializes a built-in on its static type parameters.
type BuiltinFactory func(typeArgs []*types.Type) Implementation

// PlatformFactory specializes a platform-host callback on its static type
// parameters, identically shaped to BuiltinFactory — the same pattern,
// via the platform registry.
type PlatformFactory func(typeArgs []*types.Type) Implementation

// Registry holds both the built-in and platform factory tables for one
// runtime instance.
type Registry struct {
	mu        sync.RWMutex
	builtins  map[string]BuiltinFactory
	platforms map[string]PlatformFactory
}

// New constructs an empty registry and seeds it with the comparison
// built-ins, which defer to the generic compare/equal ordering.
func New() *Registry {
	r := &Registry{
		builtins:  make(map[string]BuiltinFactory),
		platforms: make(map[string]PlatformFactory),
	}
	registerComparisons(r)
	return r
}

// RegisterBuiltin adds or replaces a built-in factory.
func (r *Registry) RegisterBuiltin(name string, factory BuiltinFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[name] = factory
}

// RegisterPlatform adds or replaces a platform factory.
func (r *Registry) RegisterPlatform(name string, factory PlatformFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.platforms[name] = factory
}

// LookupBuiltin finds a built-in factory by exact name.
func (r *Registry) LookupBuiltin(name string) (BuiltinFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.builtins[name]
	return f, ok
}

// LookupPlatform finds a platform factory by exact name.
func (r *Registry) LookupPlatform(name string) (PlatformFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.platforms[name]
	return f, ok
}

// BuiltinNames returns every registered built-in name, sorted
// lexicographically.
func (r *Registry) BuiltinNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.builtins))
	for name := range r.builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// PlatformNames returns every registered platform-function name.
func (r *Registry) PlatformNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
