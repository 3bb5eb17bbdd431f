package eval

import (
	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/values"
)

func evalIf(node *ir.Node, env *Environment, ctx *Context) Result {
	cond := Eval(node.A(), env, ctx)
	if !cond.IsOk() {
		return cond
	}
	truthy := isTruthy(cond.Value)
	cond.Release()

	if truthy {
		return Eval(node.B(), env, ctx)
	}
	if node.C() != nil {
		return Eval(node.C(), env, ctx)
	}
	return Ok(values.Null.Retain())
}

func evalMatch(node *ir.Node, env *Environment, ctx *Context) Result {
	scrut := Eval(node.A(), env, ctx)
	if !scrut.IsOk() {
		return scrut
	}
	if scrut.Value.Kind() != values.KVariant {
		v := scrut.Value
		v.Release()
		return ErrorResult(attachLoc(lmerr.TypeShape("match requires a variant scrutinee, got %v", v.Kind()), node))
	}

	for _, c := range node.Cases() {
		if c.CaseName != scrut.Value.CaseName() {
			continue
		}
		child := NewChild(env)
		if c.Bind != "" {
			child.Define(c.Bind, scrut.Value.Payload())
		}
		result := Eval(c.Body, child, ctx)
		scrut.Value.Release()
		return result
	}

	caseName := scrut.Value.CaseName()
	scrut.Value.Release()
	return ErrorResult(attachLoc(lmerr.User("no matching case %q", caseName), node))
}

// loopOutcome interprets a loop body's Result against the loop's own label,
// reporting whether the loop should stop (and with what final Result) or
// continue to the next iteration.
func loopOutcome(r Result, label string) (stop bool, final Result) {
	switch r.Kind {
	case StatusOk:
		r.Release()
		return false, Result{}
	case StatusBreak:
		if !r.HasLabel || r.Label == label {
			return true, Ok(values.Null.Retain())
		}
		return true, r
	case StatusContinue:
		if !r.HasLabel || r.Label == label {
			return false, Result{}
		}
		return true, r
	default: // Return, Error
		return true, r
	}
}

func evalWhile(node *ir.Node, env *Environment, ctx *Context) Result {
	label := node.Label()
	for {
		cond := Eval(node.A(), env, ctx)
		if !cond.IsOk() {
			return cond
		}
		truthy := isTruthy(cond.Value)
		cond.Release()
		if !truthy {
			return Ok(values.Null.Retain())
		}

		child := NewChild(env)
		body := Eval(node.B(), child, ctx)
		if stop, final := loopOutcome(body, label); stop {
			return final
		}
	}
}

func evalForSeq(node *ir.Node, env *Environment, ctx *Context) Result {
	label := node.Label()
	seq := Eval(node.A(), env, ctx)
	if !seq.IsOk() {
		return seq
	}
	wantKind := values.KArray
	if node.Kind() == ir.KForSet {
		wantKind = values.KSet
	}
	if seq.Value.Kind() != wantKind {
		k := seq.Value.Kind()
		seq.Value.Release()
		return ErrorResult(attachLoc(lmerr.TypeShape("for loop requires a %v, got %v", wantKind, k), node))
	}

	// Snapshot the backing slice: Items() returns the container's live
	// slice, and a set could in principle be mutated by the loop body
	// through another binding — iterate over a stable copy.
	items := append([]*values.Value(nil), seq.Value.Items()...)
	seq.Value.Release()

	for _, item := range items {
		child := NewChild(env)
		child.Define(node.Bind(), item)
		body := Eval(node.B(), child, ctx)
		if stop, final := loopOutcome(body, label); stop {
			return final
		}
	}
	return Ok(values.Null.Retain())
}

func evalForDict(node *ir.Node, env *Environment, ctx *Context) Result {
	label := node.Label()
	seq := Eval(node.A(), env, ctx)
	if !seq.IsOk() {
		return seq
	}
	if seq.Value.Kind() != values.KDict {
		k := seq.Value.Kind()
		seq.Value.Release()
		return ErrorResult(attachLoc(lmerr.TypeShape("for loop requires a dict, got %v", k), node))
	}

	pairs := append([]values.DictPair(nil), seq.Value.Dict()...)
	seq.Value.Release()

	for _, p := range pairs {
		child := NewChild(env)
		child.Define(node.Name(), p.Key)
		child.Define(node.Bind(), p.Value)
		body := Eval(node.B(), child, ctx)
		if stop, final := loopOutcome(body, label); stop {
			return final
		}
	}
	return Ok(values.Null.Retain())
}
