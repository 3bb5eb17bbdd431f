// Package eval implements the tree-walking IR evaluator: environments,
// closures, the control-flow result sum, and the single recursive Eval
// function threading it through every IR node kind.
package eval

import (
	"github.com/loomlang/loom/internal/strmap"
	"github.com/loomlang/loom/internal/values"
)

// Environment is a lexical scope: a binding table plus a link to the
// enclosing scope, in the same chain-of-scopes shape as
// internal/interp/runtime.Environment. Bindings own a retained reference
// to their value; Define and Update release the value they replace.
// Environment has no Release method of its own.
type Environment struct {
	vars  *strmap.Map[*values.Value]
	outer *Environment

	// lastGen is the cycle-collector generation this environment was last
	// visited during, so a shared environment reachable through several
	// closures is traversed at most once per collection phase.
	lastGen uint64
	visited bool
}

// NewRoot constructs a root environment with no enclosing scope.
func NewRoot() *Environment {
	return &Environment{vars: strmap.New[*values.Value]()}
}

// NewChild constructs a scope enclosed by outer. Loop bodies, match arms,
// call frames, and try/catch handlers each get a fresh child scope.
func NewChild(outer *Environment) *Environment {
	return &Environment{vars: strmap.New[*values.Value](), outer: outer}
}

// Outer returns the enclosing environment, or nil at the root.
func (e *Environment) Outer() *Environment { return e.outer }

// Define binds name in THIS scope, retaining v and releasing any prior
// binding of the same name in this scope.
func (e *Environment) Define(name string, v *values.Value) {
	if old, ok := e.vars.Get(name); ok {
		old.Release()
	}
	e.vars.Set(name, v.Retain())
}

// Get looks up name starting in this scope and walking outward through
// the environment chain.
func (e *Environment) Get(name string) (*values.Value, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.vars.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Update searches the scope chain for an existing binding of name and
// overwrites it in place, so the mutation is visible through every
// closure sharing that scope. Reports whether a binding was found.
func (e *Environment) Update(name string, v *values.Value) bool {
	for env := e; env != nil; env = env.outer {
		if old, ok := env.vars.Get(name); ok {
			old.Release()
			env.vars.Set(name, v.Retain())
			return true
		}
	}
	return false
}

// Has reports whether name is bound anywhere in the scope chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// collectChildren appends every value bound in this environment and then
// in each enclosing scope to *out, visiting each environment at most once
// per generation.
func (e *Environment) collectChildren(generation uint64, out *[]*values.Value) {
	if e.visited && e.lastGen == generation {
		return
	}
	e.lastGen = generation
	e.visited = true
	e.vars.Range(func(_ string, v *values.Value) bool {
		*out = append(*out, v)
		return true
	})
	if e.outer != nil {
		e.outer.collectChildren(generation, out)
	}
}
