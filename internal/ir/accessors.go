package ir

import (
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// Literal returns the embedded value of a KLiteral node.
func (n *Node) Literal() *values.Value { return n.literal }

// Name returns the identifier carried by KVariable/KLet/KAssign/KGetField/
// KBuiltin/KPlatform nodes.
func (n *Node) Name() string { return n.name }

// A returns the first generic child slot (e.g. KLet's init expression,
// KIf's condition, KWhile's condition, KTry's try body, KReturn's value,
// KRaise's message, KNewRef's initial value, KCall's callee).
func (n *Node) A() *Node { return n.a }

// B returns the second generic child slot (e.g. KIf's then-branch, KWhile's
// body, KTry's catch body).
func (n *Node) B() *Node { return n.b }

// C returns the third generic child slot (e.g. KIf's else-branch, KTry's
// finally body).
func (n *Node) C() *Node { return n.c }

// List returns the generic child list (KBlock statements, KCall/KAsyncCall/
// KBuiltin/KPlatform arguments, KNewArray/KNewSet/KNewVector/KNewMatrix
// items, KStructLit field values in struct-type order).
func (n *Node) List() []*Node { return n.list }

// Cases returns a KMatch node's arms, in declared order.
func (n *Node) Cases() []MatchCase { return n.cases }

// Bind returns the binding name for loop variables (KForArray/KForSet's
// element binding, KForDict's value binding — the key binding is Name).
func (n *Node) Bind() string { return n.bind }

// Label returns a loop's optional label (KWhile/KForArray/KForSet/KForDict).
func (n *Node) Label() string { return n.label }

// TargetLabel returns a KBreak/KContinue node's target label; HasLabel
// reports whether one was given (absent matches the innermost loop).
func (n *Node) TargetLabel() string { return n.label }

// HasLabel reports whether a KBreak/KContinue node names a target label.
func (n *Node) HasLabel() bool { return n.hasLabel }

// Params returns a KFuncLit/KAsyncFuncLit node's parameter names, positional.
func (n *Node) Params() []string { return n.params }

// FuncType returns a KFuncLit/KAsyncFuncLit node's static function type.
func (n *Node) FuncType() *types.Type { return n.funcType }

// LitBack returns the back-reference to the literal value form this
// function literal was reconstructed from, enabling byte-faithful
// re-serialization.
func (n *Node) LitBack() *values.Value { return n.litBack }

// TypeArgs returns a KBuiltin/KPlatform node's explicit type parameters.
func (n *Node) TypeArgs() []*types.Type { return n.typeArgs }

// MsgVar returns a KTry node's catch message-binding name.
func (n *Node) MsgVar() string { return n.msgVar }

// StackVar returns a KTry node's catch stack-binding name.
func (n *Node) StackVar() string { return n.stackVar }

// HasCatch reports whether a KTry node has a catch clause.
func (n *Node) HasCatch() bool { return n.hasCatch }

// HasFinally reports whether a KTry node has a finally clause.
func (n *Node) HasFinally() bool { return n.hasFinally }

// DictEntries returns a KNewDict node's key/value pairs.
func (n *Node) DictEntries() []DictEntry { return n.dictEntries }

// ElemType returns the static element type of KNewArray/KNewSet/KNewRef/
// KNewVector/KNewMatrix nodes.
func (n *Node) ElemType() *types.Type { return n.elemType }

// Rows and Cols return a KNewMatrix node's static dimensions.
func (n *Node) Rows() int { return n.rows }
func (n *Node) Cols() int { return n.cols }

// StructType returns a KStructLit node's static struct type.
func (n *Node) StructType() *types.Type { return n.structType }

// VariantType returns a KVariantLit node's static variant type.
func (n *Node) VariantType() *types.Type { return n.variantType }

// CaseName returns a KVariantLit node's case name.
func (n *Node) CaseName() string { return n.caseName }
