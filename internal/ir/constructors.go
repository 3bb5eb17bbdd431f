package ir

import (
	"github.com/loomlang/loom/internal/alloc"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

func newNode(kind Kind, typ *types.Type) *Node {
	n := alloc.New[Node]("ir.Node")
	n.kind = kind
	n.refcount = 1
	n.typ = typ.Retain()
	return n
}

// Literal constructs a KLiteral node embedding v.
func Literal(typ *types.Type, v *values.Value) *Node {
	n := newNode(KLiteral, typ)
	n.literal = v.Retain()
	return n
}

// Variable constructs a KVariable reference node.
func Variable(typ *types.Type, name string) *Node {
	n := newNode(KVariable, typ)
	n.name = name
	return n
}

// Let constructs a `let name = init` binding node.
func Let(typ *types.Type, name string, init *Node) *Node {
	n := newNode(KLet, typ)
	n.name = name
	n.a = init.retain()
	return n
}

// Assign constructs a mutating assignment node.
func Assign(typ *types.Type, name string, value *Node) *Node {
	n := newNode(KAssign, typ)
	n.name = name
	n.a = value.retain()
	return n
}

// Block constructs a sequence of statements; the block's value is the last
// statement's value.
func Block(typ *types.Type, stmts []*Node) *Node {
	n := newNode(KBlock, typ)
	n.list = retainAll(stmts)
	return n
}

// If constructs an if/else node; elseBranch may be nil.
func If(typ *types.Type, cond, thenBranch, elseBranch *Node) *Node {
	n := newNode(KIf, typ)
	n.a = cond.retain()
	n.b = thenBranch.retain()
	n.c = elseBranch.retain()
	return n
}

// Match constructs a variant pattern-match node over scrutinee.
func Match(typ *types.Type, scrutinee *Node, cases []MatchCase) *Node {
	n := newNode(KMatch, typ)
	n.a = scrutinee.retain()
	out := make([]MatchCase, len(cases))
	for i, c := range cases {
		out[i] = MatchCase{CaseName: c.CaseName, Bind: c.Bind, Body: c.Body.retain()}
	}
	n.cases = out
	return n
}

// While constructs a labeled while loop.
func While(typ *types.Type, label string, cond, body *Node) *Node {
	n := newNode(KWhile, typ)
	n.label = label
	n.a = cond.retain()
	n.b = body.retain()
	return n
}

// ForArray constructs a `for elemVar in seq` loop over an array.
func ForArray(typ *types.Type, label, elemVar string, seq, body *Node) *Node {
	n := newNode(KForArray, typ)
	n.label = label
	n.bind = elemVar
	n.a = seq.retain()
	n.b = body.retain()
	return n
}

// ForSet constructs a `for elemVar in seq` loop over a set.
func ForSet(typ *types.Type, label, elemVar string, seq, body *Node) *Node {
	n := newNode(KForSet, typ)
	n.label = label
	n.bind = elemVar
	n.a = seq.retain()
	n.b = body.retain()
	return n
}

// ForDict constructs a `for keyVar, valVar in seq` loop over a dict.
// keyVar is stored in Name(), valVar in Bind().
func ForDict(typ *types.Type, label, keyVar, valVar string, seq, body *Node) *Node {
	n := newNode(KForDict, typ)
	n.label = label
	n.name = keyVar
	n.bind = valVar
	n.a = seq.retain()
	n.b = body.retain()
	return n
}

// FuncLit constructs a function literal node. litBack, if non-nil, is the
// originating literal value form; it may be nil when built directly
// rather than reflected from a value.
func FuncLit(funcType *types.Type, params []string, body *Node, litBack *values.Value) *Node {
	n := newNode(KFuncLit, funcType)
	n.params = append([]string(nil), params...)
	n.funcType = funcType.Retain()
	n.a = body.retain()
	n.litBack = litBack.Retain()
	return n
}

// AsyncFuncLit constructs an async function literal node. Async markers
// are preserved but execution is synchronous.
func AsyncFuncLit(funcType *types.Type, params []string, body *Node, litBack *values.Value) *Node {
	n := FuncLit(funcType, params, body, litBack)
	n.kind = KAsyncFuncLit
	return n
}

// Call constructs a function call node.
func Call(typ *types.Type, callee *Node, args []*Node) *Node {
	n := newNode(KCall, typ)
	n.a = callee.retain()
	n.list = retainAll(args)
	return n
}

// AsyncCall constructs an async-call node (synchronous at runtime).
func AsyncCall(typ *types.Type, callee *Node, args []*Node) *Node {
	n := Call(typ, callee, args)
	n.kind = KAsyncCall
	return n
}

// Builtin constructs a built-in invocation node.
func Builtin(typ *types.Type, name string, typeArgs []*types.Type, args []*Node) *Node {
	n := newNode(KBuiltin, typ)
	n.name = name
	n.typeArgs = retainAllTypes(typeArgs)
	n.list = retainAll(args)
	return n
}

// Platform constructs a platform-function invocation node.
func Platform(typ *types.Type, name string, typeArgs []*types.Type, args []*Node) *Node {
	n := newNode(KPlatform, typ)
	n.name = name
	n.typeArgs = retainAllTypes(typeArgs)
	n.list = retainAll(args)
	return n
}

// Return constructs a return node.
func Return(typ *types.Type, value *Node) *Node {
	n := newNode(KReturn, typ)
	n.a = value.retain()
	return n
}

// Break constructs a break node with an optional label.
func Break(typ *types.Type, label string, hasLabel bool) *Node {
	n := newNode(KBreak, typ)
	n.label = label
	n.hasLabel = hasLabel
	return n
}

// Continue constructs a continue node with an optional label.
func Continue(typ *types.Type, label string, hasLabel bool) *Node {
	n := newNode(KContinue, typ)
	n.label = label
	n.hasLabel = hasLabel
	return n
}

// Raise constructs an error-raising node; message must evaluate to a string.
func Raise(typ *types.Type, message *Node) *Node {
	n := newNode(KRaise, typ)
	n.a = message.retain()
	return n
}

// Try constructs a try/catch/finally node. catchBody/finallyBody may be
// nil, reflected by hasCatch/hasFinally.
func Try(typ *types.Type, tryBody *Node, msgVar, stackVar string, catchBody *Node, finallyBody *Node) *Node {
	n := newNode(KTry, typ)
	n.a = tryBody.retain()
	n.msgVar = msgVar
	n.stackVar = stackVar
	n.b = catchBody.retain()
	n.hasCatch = catchBody != nil
	n.c = finallyBody.retain()
	n.hasFinally = finallyBody != nil
	return n
}

// NewArrayNode constructs a `new array<elemType>` literal node.
func NewArrayNode(typ, elemType *types.Type, items []*Node) *Node {
	n := newNode(KNewArray, typ)
	n.elemType = elemType.Retain()
	n.list = retainAll(items)
	return n
}

// NewSetNode constructs a `new set<elemType>` literal node.
func NewSetNode(typ, elemType *types.Type, items []*Node) *Node {
	n := newNode(KNewSet, typ)
	n.elemType = elemType.Retain()
	n.list = retainAll(items)
	return n
}

// NewDictNode constructs a `new dict<K,V>` literal node.
func NewDictNode(typ *types.Type, entries []DictEntry) *Node {
	n := newNode(KNewDict, typ)
	out := make([]DictEntry, len(entries))
	for i, e := range entries {
		out[i] = DictEntry{Key: e.Key.retain(), Value: e.Value.retain()}
	}
	n.dictEntries = out
	return n
}

// NewRefNode constructs a `new ref<elemType>` literal node.
func NewRefNode(typ, elemType *types.Type, init *Node) *Node {
	n := newNode(KNewRef, typ)
	n.elemType = elemType.Retain()
	n.a = init.retain()
	return n
}

// NewVectorNode constructs a `new vector<elemType>` literal node.
func NewVectorNode(typ, elemType *types.Type, items []*Node) *Node {
	n := newNode(KNewVector, typ)
	n.elemType = elemType.Retain()
	n.list = retainAll(items)
	return n
}

// NewMatrixNode constructs a `new matrix<elemType>[rows,cols]` literal node.
func NewMatrixNode(typ, elemType *types.Type, rows, cols int, items []*Node) *Node {
	n := newNode(KNewMatrix, typ)
	n.elemType = elemType.Retain()
	n.rows = rows
	n.cols = cols
	n.list = retainAll(items)
	return n
}

// StructLit constructs a struct literal node; fieldValues must be given in
// structType's declared field order.
func StructLit(structType *types.Type, fieldValues []*Node) *Node {
	n := newNode(KStructLit, structType)
	n.structType = structType.Retain()
	n.list = retainAll(fieldValues)
	return n
}

// GetField constructs a field-access node.
func GetField(typ *types.Type, target *Node, name string) *Node {
	n := newNode(KGetField, typ)
	n.a = target.retain()
	n.name = name
	return n
}

// VariantLit constructs a variant constructor node.
func VariantLit(variantType *types.Type, caseName string, payload *Node) *Node {
	n := newNode(KVariantLit, variantType)
	n.variantType = variantType.Retain()
	n.caseName = caseName
	n.a = payload.retain()
	return n
}

// WrapRecursive constructs a pass-through wrap-recursive node that
// carries type information only.
func WrapRecursive(typ *types.Type, inner *Node) *Node {
	n := newNode(KWrapRecursive, typ)
	n.a = inner.retain()
	return n
}

// UnwrapRecursive constructs a pass-through unwrap-recursive node.
func UnwrapRecursive(typ *types.Type, inner *Node) *Node {
	n := newNode(KUnwrapRecursive, typ)
	n.a = inner.retain()
	return n
}

func (n *Node) retain() *Node {
	if n == nil {
		return nil
	}
	return n.Retain()
}

func retainAll(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, c := range nodes {
		out[i] = c.retain()
	}
	return out
}

func retainAllTypes(ts []*types.Type) []*types.Type {
	out := make([]*types.Type, len(ts))
	for i, t := range ts {
		out[i] = t.Retain()
	}
	return out
}
