// Package values implements the tagged runtime value universe: scalars,
// containers with their sorted invariants, reference counting, and
// deterministic structural equality/ordering. Like internal/types, a
// single tagged struct under a Kind enum is used rather than an
// interface-per-kind hierarchy: a tagged-union with a switch on the tag is
// faithful and efficient for a closed ~16-variant sum.
package values

import "github.com/loomlang/loom/internal/types"

// Kind tags which of the closed set of value constructors a Value is. The
// numeric order below IS the kind-ranking used by Compare.
type Kind uint8

const (
	KNull Kind = iota
	KBoolean
	KInteger
	KFloat
	KString
	KDatetime
	KBlob
	KArray
	KSet
	KDict
	KStruct
	KVariant
	KRef
	KVector
	KMatrix
	KFunction
)

func (k Kind) String() string {
	names := [...]string{
		"null", "boolean", "integer", "float", "string", "datetime", "blob",
		"array", "set", "dict", "struct", "variant", "ref", "vector", "matrix", "function",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Closure is implemented by internal/eval. Values cannot import eval (eval
// must import values to produce them), so function values hold this narrow
// interface instead of a concrete closure type — the same callback-seam
// pattern used elsewhere for RefCountManager/DestructorCallback to avoid
// circular imports between runtime and interp.
type Closure interface {
	// FuncType returns the static function/async_function type of the closure.
	FuncType() *types.Type
	// Identity returns a stable per-closure identity used for function
	// equality/ordering (function values compare by handle identity).
	Identity() uintptr
	// CollectChildren appends every Value directly reachable from this
	// closure's captured environment to *out, for cycle-collector
	// traversal. Implementations must visit each environment
	// in the capture chain at most once per generation.
	CollectChildren(generation uint64, out *[]*Value)
}

// DictPair is one key→value entry of a dict value, kept sorted by key.
type DictPair struct {
	Key   *Value
	Value *Value
}

// sentinelRefcount makes Retain/Release no-ops for the shared Null
// singleton: Null is a globally shared sentinel with a negative sentinel
// refcount.
const sentinelRefcount = -1 << 30

// Value is the tagged runtime value record. Exactly one group of payload
// fields is meaningful depending on Kind.
type Value struct {
	kind     Kind
	refcount int32
	tracked  bool // registered with a cycle collector tracker

	b bool    // Boolean
	i int64   // Integer, Datetime (epoch milliseconds)
	f float64 // Float
	s []byte  // String, Blob

	elemType *types.Type // Array, Set, Vector, Matrix element type handle

	items []*Value // Array sequence, Set sorted-unique members

	dict []DictPair // Dict sorted pairs

	structType   *types.Type // Struct
	fieldNames   []string    // parallel to fieldValues, struct type's field order
	fieldValues  []*Value

	variantType *types.Type // Variant
	caseName    string
	payload     *Value

	cell *Value // Ref single-slot cell (nil means unset, distinct from holding Null)

	vec *VectorData // Vector
	mat *MatrixData // Matrix

	fn Closure // Function
}

// VectorData is a packed numeric buffer for a vector value. Exactly one of
// Ints/Floats/Bools is populated, matching the element type.
type VectorData struct {
	Ints   []int64
	Floats []float64
	Bools  []bool
}

// MatrixData is a packed row-major numeric buffer with explicit dimensions.
type MatrixData struct {
	Rows, Cols int
	Ints       []int64
	Floats     []float64
	Bools      []bool
}

// Kind returns the value's tag.
func (v *Value) Kind() Kind { return v.kind }

// IsCycleCapable reports whether v's kind is one the cycle collector must
// track: array, set, dict, struct, variant, ref, function.
func (v *Value) IsCycleCapable() bool {
	switch v.kind {
	case KArray, KSet, KDict, KStruct, KVariant, KRef, KFunction:
		return true
	default:
		return false
	}
}
