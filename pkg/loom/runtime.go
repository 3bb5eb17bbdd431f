// Package loom is the host embedding API: construct a Runtime over a
// platform.Platform, register built-ins and platform capabilities, load a
// reflected type or IR node from encoded bytes, invoke a closure value, and
// encode a value back out — all without the caller ever touching
// internal/eval, internal/reflect, or internal/registry directly. This
// mirrors pkg/dwscript's shape, a single top-level struct owning the
// parse/compile/run state of an embedded script, adapted here to
// reflect-and-invoke since this module's IR arrives pre-typed rather than
// being parsed from source text.
package loom

import (
	"fmt"

	"github.com/loomlang/loom/internal/codec"
	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/reflect"
	"github.com/loomlang/loom/internal/registry"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
	"github.com/loomlang/loom/pkg/platform"
)

// Runtime owns a built-in/platform registry and the root environment every
// loaded program's top-level Let bindings are defined into.
type Runtime struct {
	reg  *registry.Registry
	root *eval.Environment
	plat platform.Platform
}

// New constructs a Runtime bound to plat. plat is not consulted directly by
// Runtime itself — it exists so that RegisterPlatform factories supplied by
// the embedder can close over it, the same way a built-in factory closes
// over whatever constant state it needs.
func New(plat platform.Platform) *Runtime {
	return &Runtime{
		reg:  registry.New(),
		root: eval.NewRoot(),
		plat: plat,
	}
}

// RootEnvironment returns the environment top-level bindings are defined
// into before a program runs.
func (r *Runtime) RootEnvironment() *eval.Environment {
	return r.root
}

// Platform returns the platform this Runtime was constructed with, for
// RegisterPlatform factories that need to close over it.
func (r *Runtime) Platform() platform.Platform {
	return r.plat
}

// Registry returns the registry backing this Runtime, for callers that need
// to pass it to a package-level registration helper such as
// registry.RegisterDemoBuiltins rather than registering built-ins one at a
// time through RegisterBuiltin.
func (r *Runtime) Registry() *registry.Registry {
	return r.reg
}

// RegisterBuiltin installs a built-in factory under name.
func (r *Runtime) RegisterBuiltin(name string, factory registry.BuiltinFactory) {
	r.reg.RegisterBuiltin(name, factory)
}

// RegisterPlatform installs a platform-capability factory under name.
func (r *Runtime) RegisterPlatform(name string, factory registry.PlatformFactory) {
	r.reg.RegisterPlatform(name, factory)
}

// LoadType decodes data (encoded with the same codec, against
// reflect.TypeOfTypesType's schema) into a type term.
func (r *Runtime) LoadType(data []byte, c codec.Codec) (*types.Type, error) {
	schema := reflect.TypeOfTypesType()
	defer schema.Release()
	v, err := c.Decode(data, schema)
	if err != nil {
		return nil, err
	}
	defer v.Release()
	return reflect.TypeOfValue(v)
}

// LoadIR decodes data into an IR node tree. data must have been produced by
// EncodeIR with a codec of the same name; t is the node's expected static
// type, checked against the decoded node's own type once reconstructed —
// it does not drive the decode itself, since the node's schema
// (reflect.NodeSchemaType) is fixed regardless of what the node evaluates
// to.
func (r *Runtime) LoadIR(data []byte, c codec.Codec, t *types.Type) (*ir.Node, error) {
	node, err := DecodeIR(data, c)
	if err != nil {
		return nil, err
	}
	if !types.Equal(node.Type(), t) {
		return nil, fmt.Errorf("loom: decoded IR node has type %s, expected %s", node.Type(), t)
	}
	return node, nil
}

// Invoke calls fn (a Function value) with args, the same call-depth and
// cycle-collection bookkeeping a call from inside a running program gets,
// via eval.CallClosure. Invoke takes ownership of args — each is released
// once bound to the closure's parameters, whether or not the call
// succeeds.
func (r *Runtime) Invoke(fn *values.Value, args []*values.Value) (*values.Value, error) {
	if fn.Kind() != values.KFunction {
		for _, a := range args {
			a.Release()
		}
		return nil, lmerr.TypeShape("invoke target must be a function, got %v", fn.Kind())
	}
	closure, ok := fn.Closure().(*eval.Closure)
	if !ok {
		for _, a := range args {
			a.Release()
		}
		return nil, lmerr.TypeShape("invoke target is not a Loom closure")
	}

	ctx := eval.NewContext(r.reg)
	result, err := eval.CallClosure(closure, args, ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Encode renders v, a value of type t, through c.
func (r *Runtime) Encode(v *values.Value, t *types.Type, c codec.Codec) ([]byte, error) {
	return c.Encode(v, t)
}
