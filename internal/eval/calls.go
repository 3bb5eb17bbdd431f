package eval

import (
	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/values"
)

func evalFuncLit(node *ir.Node, env *Environment, ctx *Context) Result {
	closure := NewClosure(env, node.Params(), node.A(), node.FuncType(), node.Kind() == ir.KAsyncFuncLit)
	fn := values.NewFunction(closure)
	ctx.Tracker.Track(fn)
	return Ok(fn)
}

func evalCall(node *ir.Node, env *Environment, ctx *Context) Result {
	calleeR := Eval(node.A(), env, ctx)
	if !calleeR.IsOk() {
		return calleeR
	}
	if calleeR.Value.Kind() != values.KFunction {
		k := calleeR.Value.Kind()
		calleeR.Value.Release()
		return ErrorResult(attachLoc(lmerr.TypeShape("call target must be a function, got %v", k), node))
	}
	closure, ok := calleeR.Value.Closure().(*Closure)
	if !ok {
		calleeR.Value.Release()
		return ErrorResult(attachLoc(lmerr.TypeShape("call target is not a Loom closure"), node))
	}

	argNodes := node.List()
	if len(argNodes) != len(closure.Params()) {
		calleeR.Value.Release()
		return ErrorResult(attachLoc(lmerr.User("function expects %d argument(s), got %d", len(closure.Params()), len(argNodes)), node))
	}

	argVals := make([]*values.Value, 0, len(argNodes))
	for _, a := range argNodes {
		r := Eval(a, env, ctx)
		if !r.IsOk() {
			calleeR.Value.Release()
			for _, v := range argVals {
				v.Release()
			}
			return r
		}
		argVals = append(argVals, r.Value)
	}

	result := invokeClosure(closure, argVals, ctx)
	calleeR.Value.Release()

	switch result.Kind {
	case StatusError:
		return ErrorResult(attachLoc(result.Err, node))
	case StatusOk, StatusReturn:
		return result
	default:
		// A break/continue escaping a function body indicates malformed IR
		// (no enclosing loop matched its label); surface it as an error
		// rather than silently propagating a loop signal across a call
		// boundary.
		return ErrorResult(attachLoc(lmerr.TypeShape("break/continue escaped function body"), node))
	}
}

// invokeClosure binds argVals to closure's parameters in a fresh child of
// its captured environment, evaluates its body under call-depth tracking,
// and normalizes StatusReturn to StatusOk. argVals is consumed (each value
// released once bound). Shared by evalCall and the exported CallClosure, so
// a host embedding this package (pkg/loom) gets the identical call-depth
// and cycle-collection bookkeeping a program-internal call gets.
func invokeClosure(closure *Closure, argVals []*values.Value, ctx *Context) Result {
	child := NewChild(closure.Captured())
	for i, p := range closure.Params() {
		child.Define(p, argVals[i])
		argVals[i].Release()
	}

	if err := ctx.pushCall(); err != nil {
		return ErrorResult(err)
	}
	bodyR := Eval(closure.Body(), child, ctx)
	ctx.popCall()
	ctx.collectIfOutermost()

	if bodyR.Kind == StatusReturn {
		return Ok(bodyR.Value)
	}
	return bodyR
}

// CallClosure invokes closure with already-evaluated args, the entry point
// pkg/loom's Runtime.Invoke uses to call into a loaded program's function
// value from outside the evaluator. Returns a *lmerr.Error rather than a
// Result, since an external caller has no IR node to attach a source
// location to and no loop-signal case to handle — StatusBreak/StatusContinue
// escaping here is as malformed as it is for an ordinary call.
func CallClosure(closure *Closure, args []*values.Value, ctx *Context) (*values.Value, *lmerr.Error) {
	if len(args) != len(closure.Params()) {
		for _, a := range args {
			a.Release()
		}
		return nil, lmerr.User("function expects %d argument(s), got %d", len(closure.Params()), len(args))
	}

	result := invokeClosure(closure, args, ctx)
	switch result.Kind {
	case StatusOk:
		return result.Value, nil
	case StatusError:
		return nil, result.Err
	default:
		return nil, lmerr.TypeShape("break/continue escaped function body")
	}
}

// evalArgs evaluates IR argument nodes left to right into owned values,
// releasing everything evaluated so far and returning the first non-ok
// Result if one of them fails.
func evalArgs(nodes []*ir.Node, env *Environment, ctx *Context) ([]*values.Value, *Result) {
	out := make([]*values.Value, 0, len(nodes))
	for _, n := range nodes {
		r := Eval(n, env, ctx)
		if !r.IsOk() {
			for _, v := range out {
				v.Release()
			}
			return nil, &r
		}
		out = append(out, r.Value)
	}
	return out, nil
}

func evalBuiltin(node *ir.Node, env *Environment, ctx *Context) Result {
	factory, ok := ctx.Registry.LookupBuiltin(node.Name())
	if !ok {
		return ErrorResult(attachLoc(lmerr.Undefined(node.Name()), node))
	}
	args, failed := evalArgs(node.List(), env, ctx)
	if failed != nil {
		return *failed
	}
	impl := factory(node.TypeArgs())
	result, errv := impl(args)
	for _, a := range args {
		a.Release()
	}
	if errv != nil {
		return ErrorResult(attachLoc(errv, node))
	}
	return Ok(result)
}

func evalPlatform(node *ir.Node, env *Environment, ctx *Context) Result {
	factory, ok := ctx.Registry.LookupPlatform(node.Name())
	if !ok {
		return ErrorResult(attachLoc(lmerr.Undefined(node.Name()), node))
	}
	args, failed := evalArgs(node.List(), env, ctx)
	if failed != nil {
		return *failed
	}
	impl := factory(node.TypeArgs())
	result, errv := impl(args)
	for _, a := range args {
		a.Release()
	}
	if errv != nil {
		return ErrorResult(attachLoc(errv, node))
	}
	return Ok(result)
}
