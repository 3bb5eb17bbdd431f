// Package ir implements the homoiconic IR term tree the evaluator walks.
// Like internal/types and internal/values, a single tagged struct under a
// Kind enum carries every node shape rather than ~30 separate Go types.
package ir

import (
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// Kind tags which IR construct a Node represents.
type Kind uint8

const (
	KLiteral Kind = iota
	KVariable
	KLet
	KAssign
	KBlock
	KIf
	KMatch
	KWhile
	KForArray
	KForSet
	KForDict
	KFuncLit
	KAsyncFuncLit
	KCall
	KAsyncCall
	KBuiltin
	KPlatform
	KReturn
	KBreak
	KContinue
	KRaise
	KTry
	KNewArray
	KNewSet
	KNewDict
	KNewRef
	KNewVector
	KNewMatrix
	KStructLit
	KGetField
	KVariantLit
	KWrapRecursive
	KUnwrapRecursive
)

// MatchCase is one arm of a `match` node: the variant case it matches, an
// optional payload binding name, and the body to evaluate.
type MatchCase struct {
	CaseName string
	Bind     string // empty if the payload isn't bound
	Body     *Node
}

// DictEntry is one key/value pair of a `new-dict` literal node.
type DictEntry struct {
	Key   *Node
	Value *Node
}

// Node is the tagged IR term. Nodes are reference counted; a parent owns
// its children. Exactly one group of payload fields is meaningful
// depending on Kind.
type Node struct {
	kind     Kind
	refcount int32

	typ  *types.Type // static type of this node's result
	locs lmerr.Stack  // source-location stack, possibly empty

	// KLiteral
	literal *values.Value

	// KVariable, KLet, KAssign, KGetField (field name), KBuiltin/KPlatform (name)
	name string

	// KLet, KAssign, KIf(cond)/... generic single-child slots
	a, b, c *Node

	// KBlock, KCall/KAsyncCall (args), KBuiltin/KPlatform (args), KNewArray/KNewSet/KNewVector (items)
	list []*Node

	// KMatch
	cases []MatchCase

	// KForArray/KForSet: iterVar; KForDict: keyVar/valVar (reuses name/bind)
	bind string

	// KWhile/KForArray/KForSet/KForDict: optional loop label
	label string
	// KBreak/KContinue: optional target label
	hasLabel bool

	// KFuncLit/KAsyncFuncLit
	params   []string
	funcType *types.Type
	litBack  *values.Value // back-reference to originating literal value form

	// KBuiltin/KPlatform
	typeArgs []*types.Type

	// KTry
	msgVar, stackVar       string
	hasCatch, hasFinally   bool

	// KNewDict
	dictEntries []DictEntry

	// KNewArray/KNewSet/KNewVector/KNewMatrix element type; KNewRef element type
	elemType *types.Type
	rows, cols int

	// KStructLit
	structType *types.Type
	// KVariantLit
	variantType *types.Type
	caseName    string
}

// Kind returns the node's tag.
func (n *Node) Kind() Kind { return n.kind }

// Type returns the node's static result type.
func (n *Node) Type() *types.Type { return n.typ }

// Locations returns the node's source-location stack.
func (n *Node) Locations() lmerr.Stack { return n.locs }

// SetLocations replaces the node's location stack (used while reflecting
// IR from serialized form, see internal/reflect).
func (n *Node) SetLocations(locs lmerr.Stack) { n.locs = locs }

// Children returns every direct child node, for generic tree walks
// (Release does not use it; it releases each child slot directly).
func (n *Node) Children() []*Node {
	var out []*Node
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	add(n.a)
	add(n.b)
	add(n.c)
	out = append(out, n.list...)
	for _, mc := range n.cases {
		add(mc.Body)
	}
	for _, de := range n.dictEntries {
		add(de.Key)
		add(de.Value)
	}
	return out
}
