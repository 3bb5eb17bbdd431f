package eval

import (
	"unsafe"

	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// Closure implements values.Closure: the captured environment is shared
// (not copied), so mutations inside the closure's scope are visible to
// every closure and caller referencing the same chain.
type Closure struct {
	captured *Environment
	params   []string
	body     *ir.Node
	funcType *types.Type
	async    bool
}

// NewClosure constructs a function value's backing closure. body and
// funcType are borrowed from the originating KFuncLit IR node, which stays
// alive for the lifetime of the loaded program — the closure does not take
// an independent ownership stake in them — the capture contract concerns
// the *environment*, which genuinely outlives any one node.
func NewClosure(captured *Environment, params []string, body *ir.Node, funcType *types.Type, async bool) *Closure {
	return &Closure{
		captured: captured,
		params:   append([]string(nil), params...),
		body:     body,
		funcType: funcType,
		async:    async,
	}
}

// FuncType returns the closure's static function/async_function type.
func (c *Closure) FuncType() *types.Type { return c.funcType }

// Identity returns a stable per-closure identity for function
// equality/ordering (functions compare by handle identity).
func (c *Closure) Identity() uintptr {
	return uintptr(unsafe.Pointer(c))
}

// CollectChildren appends every value reachable from the closure's captured
// environment chain, visiting each environment at most once per generation.
func (c *Closure) CollectChildren(generation uint64, out *[]*values.Value) {
	if c.captured != nil {
		c.captured.collectChildren(generation, out)
	}
}

// Params returns the closure's positional parameter names.
func (c *Closure) Params() []string { return c.params }

// Body returns the closure's IR body.
func (c *Closure) Body() *ir.Node { return c.body }

// Captured returns the closure's captured environment.
func (c *Closure) Captured() *Environment { return c.captured }

// Async reports whether this closure was constructed from an
// async-function literal (async markers are preserved, execution stays
// synchronous).
func (c *Closure) Async() bool { return c.async }
