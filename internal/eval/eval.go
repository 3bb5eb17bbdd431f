package eval

import (
	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/values"
)

// Eval walks node and returns the resulting control-flow Result (spec
// §4.3). It is the single recursive entry point every IR node kind passes
// through; node-kind-specific logic lives in control.go, calls.go and
// construct.go, grouped by concern.
func Eval(node *ir.Node, env *Environment, ctx *Context) Result {
	switch node.Kind() {
	case ir.KLiteral:
		return Ok(node.Literal().Retain())

	case ir.KVariable:
		v, ok := env.Get(node.Name())
		if !ok {
			return ErrorResult(attachLoc(lmerr.Undefined(node.Name()), node))
		}
		return Ok(v.Retain())

	case ir.KLet:
		r := Eval(node.A(), env, ctx)
		if !r.IsOk() {
			return r
		}
		env.Define(node.Name(), r.Value)
		return r

	case ir.KAssign:
		r := Eval(node.A(), env, ctx)
		if !r.IsOk() {
			return r
		}
		if !env.Update(node.Name(), r.Value) {
			r.Release()
			return ErrorResult(attachLoc(lmerr.Undefined(node.Name()), node))
		}
		return r

	case ir.KBlock:
		return evalBlock(node, env, ctx)

	case ir.KIf:
		return evalIf(node, env, ctx)

	case ir.KMatch:
		return evalMatch(node, env, ctx)

	case ir.KWhile:
		return evalWhile(node, env, ctx)

	case ir.KForArray, ir.KForSet:
		return evalForSeq(node, env, ctx)

	case ir.KForDict:
		return evalForDict(node, env, ctx)

	case ir.KFuncLit, ir.KAsyncFuncLit:
		return evalFuncLit(node, env, ctx)

	case ir.KCall, ir.KAsyncCall:
		return evalCall(node, env, ctx)

	case ir.KBuiltin:
		return evalBuiltin(node, env, ctx)

	case ir.KPlatform:
		return evalPlatform(node, env, ctx)

	case ir.KReturn:
		r := Eval(node.A(), env, ctx)
		if !r.IsOk() {
			return r
		}
		return Return(r.Value)

	case ir.KBreak:
		return Break(node.TargetLabel(), node.HasLabel())

	case ir.KContinue:
		return Continue(node.TargetLabel(), node.HasLabel())

	case ir.KRaise:
		return evalRaise(node, env, ctx)

	case ir.KTry:
		return evalTry(node, env, ctx)

	case ir.KNewArray:
		return evalNewArray(node, env, ctx)
	case ir.KNewSet:
		return evalNewSet(node, env, ctx)
	case ir.KNewDict:
		return evalNewDict(node, env, ctx)
	case ir.KNewRef:
		return evalNewRef(node, env, ctx)
	case ir.KNewVector:
		return evalNewVector(node, env, ctx)
	case ir.KNewMatrix:
		return evalNewMatrix(node, env, ctx)

	case ir.KStructLit:
		return evalStructLit(node, env, ctx)
	case ir.KGetField:
		return evalGetField(node, env, ctx)
	case ir.KVariantLit:
		return evalVariantLit(node, env, ctx)

	case ir.KWrapRecursive, ir.KUnwrapRecursive:
		// Pass-through: these carry type information only.
		return Eval(node.A(), env, ctx)

	default:
		return ErrorResult(attachLoc(lmerr.TypeShape("unhandled IR node kind %v", node.Kind()), node))
	}
}

// attachLoc stamps node's first recorded source location onto err, if any.
func attachLoc(err *lmerr.Error, node *ir.Node) *lmerr.Error {
	locs := node.Locations()
	if len(locs) == 0 {
		return err
	}
	return err.WithLocation(locs[0])
}

// isTruthy implements the If/else truthiness rule: boolean false and
// null are falsy, everything else truthy.
func isTruthy(v *values.Value) bool {
	switch v.Kind() {
	case values.KNull:
		return false
	case values.KBoolean:
		return v.Bool()
	default:
		return true
	}
}

// evalBlock sequences statements in the current scope, discarding every
// non-final result and returning the last.
func evalBlock(node *ir.Node, env *Environment, ctx *Context) Result {
	stmts := node.List()
	if len(stmts) == 0 {
		return Ok(values.Null.Retain())
	}
	for i, stmt := range stmts {
		r := Eval(stmt, env, ctx)
		if i == len(stmts)-1 {
			return r
		}
		if !r.IsOk() {
			return r
		}
		r.Release()
	}
	panic("unreachable")
}
