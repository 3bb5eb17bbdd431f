// Package types implements the static type term universe: primitives as
// shared singletons, parameterized constructors, and the recursive-type
// wrapper. Types are a parallel tree to internal/values, used by
// operations that need type specialization — serialization, patching,
// and reflection.
package types

import "fmt"

// Kind tags which of the closed set of type constructors a Type is.
type Kind uint8

const (
	Never Kind = iota
	Null
	Boolean
	Integer
	Float
	String
	Datetime
	Blob
	Array
	Set
	Dict
	Struct
	Variant
	Ref
	Vector
	Matrix
	Function
	AsyncFunction
	Recursive
)

func (k Kind) String() string {
	switch k {
	case Never:
		return "never"
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Datetime:
		return "datetime"
	case Blob:
		return "blob"
	case Array:
		return "array"
	case Set:
		return "set"
	case Dict:
		return "dict"
	case Struct:
		return "struct"
	case Variant:
		return "variant"
	case Ref:
		return "ref"
	case Vector:
		return "vector"
	case Matrix:
		return "matrix"
	case Function:
		return "function"
	case AsyncFunction:
		return "async_function"
	case Recursive:
		return "recursive"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// sentinelRefcount makes retain/release no-ops, used for primitive
// singletons: primitive terms are process-wide singletons with a
// sentinel refcount.
const sentinelRefcount = -1 << 30

// Field is a named field of a struct type. Struct fields are sorted
// lexicographically by name at construction time; the order is part of
// the type's identity.
type Field struct {
	Name string
	Type *Type
}

// Case is a named case of a variant type, sorted lexicographically by name
// at construction time, same identity rule as Field.
type Case struct {
	Name string
	Type *Type
}

// Type is the tagged type term. Exactly one group of fields below is
// meaningful depending on Kind; see the constructors in constructors.go for
// the only supported way to build one.
type Type struct {
	kind     Kind
	refcount int32

	elem *Type // Array, Set, Ref, Vector, Matrix

	key   *Type // Dict
	value *Type // Dict

	fields []Field // Struct
	cases  []Case  // Variant

	inputs []*Type // Function, AsyncFunction
	output *Type   // Function, AsyncFunction

	// Recursive wrapper state. inner is nil while building; set by
	// Finalize. selfRefs counts how many times the wrapper itself was used
	// as a leaf while building its own inner term — Finalize subtracts this
	// from the external refcount so callers see a correct count.
	inner    *Type
	building bool
	selfRefs int32
}

// Kind returns the type's constructor tag.
func (t *Type) Kind() Kind { return t.kind }

// Elem returns the element type of array/set/ref/vector/matrix types.
func (t *Type) Elem() *Type { return t.elem }

// Key returns the key type of a dict type.
func (t *Type) Key() *Type { return t.key }

// Value returns the value type of a dict type.
func (t *Type) Value() *Type { return t.value }

// Fields returns the sorted field list of a struct type.
func (t *Type) Fields() []Field { return t.fields }

// Cases returns the sorted case list of a variant type.
func (t *Type) Cases() []Case { return t.cases }

// Inputs returns the input types of a function/async_function type.
func (t *Type) Inputs() []*Type { return t.inputs }

// Output returns the output type of a function/async_function type.
func (t *Type) Output() *Type { return t.output }

// Inner returns the wrapped inner term of a recursive type. It is nil until
// Finalize has been called (see recursive.go).
func (t *Type) Inner() *Type { return t.inner }

// FieldByName looks up a struct field by name, returning (field, true) or
// (zero, false). Field order is lexicographic, so this is a binary search.
func (t *Type) FieldByName(name string) (Field, bool) {
	lo, hi := 0, len(t.fields)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case t.fields[mid].Name == name:
			return t.fields[mid], true
		case t.fields[mid].Name < name:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return Field{}, false
}

// CaseByName looks up a variant case by name the same way FieldByName does.
func (t *Type) CaseByName(name string) (Case, bool) {
	lo, hi := 0, len(t.cases)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case t.cases[mid].Name == name:
			return t.cases[mid], true
		case t.cases[mid].Name < name:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return Case{}, false
}
