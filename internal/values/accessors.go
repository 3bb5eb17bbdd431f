package values

import "github.com/loomlang/loom/internal/types"

// Bool returns the payload of a Boolean value.
func (v *Value) Bool() bool { return v.b }

// Int returns the payload of an Integer or Datetime value (epoch
// milliseconds for Datetime).
func (v *Value) Int() int64 { return v.i }

// Float returns the payload of a Float value.
func (v *Value) Float() float64 { return v.f }

// Bytes returns the raw bytes of a String or Blob value.
func (v *Value) Bytes() []byte { return v.s }

// Str returns the raw bytes of a String value as a Go string. Only valid
// for KString; use Bytes for Blob.
func (v *Value) Str() string { return string(v.s) }

// ElemType returns the element type handle of Array/Set/Vector/Matrix.
func (v *Value) ElemType() *types.Type { return v.elemType }

// Items returns the backing slice of an Array or Set. Callers must not
// mutate a Set's slice directly — use Set-specific mutators so the
// ascending invariant is preserved.
func (v *Value) Items() []*Value { return v.items }

// Dict returns the sorted key→value pairs of a Dict value.
func (v *Value) Dict() []DictPair { return v.dict }

// StructType returns the static type of a Struct value.
func (v *Value) StructType() *types.Type { return v.structType }

// FieldNames returns a Struct value's field names in the type's declared
// order — struct field order follows the type's field list.
func (v *Value) FieldNames() []string { return v.fieldNames }

// FieldValues returns a Struct value's field values parallel to FieldNames.
func (v *Value) FieldValues() []*Value { return v.fieldValues }

// FieldByName looks up a struct field's value by name.
func (v *Value) FieldByName(name string) (*Value, bool) {
	for i, n := range v.fieldNames {
		if n == name {
			return v.fieldValues[i], true
		}
	}
	return nil, false
}

// VariantType returns the static type of a Variant value.
func (v *Value) VariantType() *types.Type { return v.variantType }

// CaseName returns a Variant value's active case name.
func (v *Value) CaseName() string { return v.caseName }

// Payload returns a Variant value's case payload.
func (v *Value) Payload() *Value { return v.payload }

// Cell returns the current contents of a Ref's single mutable slot.
func (v *Value) Cell() *Value { return v.cell }

// SetCell mutates a Ref's single slot in place, retaining the new value and
// releasing the old one.
func (v *Value) SetCell(nv *Value) {
	old := v.cell
	v.cell = nv.Retain()
	old.Release()
}

// Vector returns the packed numeric buffer of a Vector value.
func (v *Value) Vector() *VectorData { return v.vec }

// Matrix returns the packed numeric buffer of a Matrix value.
func (v *Value) Matrix() *MatrixData { return v.mat }

// Closure returns the closure handle of a Function value.
func (v *Value) Closure() Closure { return v.fn }
