package eval

import (
	"github.com/loomlang/loom/internal/gc"
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/registry"
)

// defaultMaxDepth bounds call recursion, matching the CallStack default
// in internal/interp/runtime/callstack.go.
const defaultMaxDepth = 1024

// Context holds all per-execution state threaded through Eval: the cycle
// collector tracker, the built-in/platform registry, and the call-depth
// counter used for overflow detection — an explicit handle threaded
// through the evaluator rather than thread-local state.
type Context struct {
	Tracker  *gc.Tracker
	Registry *registry.Registry

	depth    int
	maxDepth int
}

// NewContext constructs a fresh execution context bound to reg.
func NewContext(reg *registry.Registry) *Context {
	return &Context{Tracker: gc.New(), Registry: reg, maxDepth: defaultMaxDepth}
}

// pushCall increments the call depth, returning a stack-overflow error if
// the configured maximum would be exceeded.
func (c *Context) pushCall() *lmerr.Error {
	if c.depth >= c.maxDepth {
		return lmerr.User("stack overflow: maximum call depth (%d) exceeded", c.maxDepth)
	}
	c.depth++
	return nil
}

func (c *Context) popCall() {
	if c.depth > 0 {
		c.depth--
	}
}

// collectIfOutermost runs the cycle collector exactly once at the outermost
// call return: nested calls must not collect.
func (c *Context) collectIfOutermost() {
	if c.depth == 0 {
		c.Tracker.Collect()
	}
}
