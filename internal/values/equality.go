package values

import (
	"bytes"
	"math"
)

// Equal implements structural, recursive equality: for float it is
// "is-same" semantics (NaN equals NaN, +0 != -0 when signed-zero
// bits differ) — deliberately NOT IEEE == semantics, and deliberately NOT
// the same tie-break Compare uses for sorting (Compare: -0 < +0; Equal: -0
// != +0). For blob/string: length-then-bytes. Containers: length-then-
// element. Struct: name+value pairwise in stored order. Variant: case-name
// then payload. Ref: pointee equality, with identical pointers short-
// circuited so value graphs containing ref cycles don't deadlock.
func Equal(a, b *Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KNull:
		return true
	case KBoolean:
		return a.b == b.b
	case KInteger, KDatetime:
		return a.i == b.i
	case KFloat:
		return floatSame(a.f, b.f)
	case KString, KBlob:
		return bytes.Equal(a.s, b.s)
	case KArray, KSet:
		return equalSeq(a.items, b.items)
	case KDict:
		return equalDict(a.dict, b.dict)
	case KStruct:
		return equalStruct(a, b)
	case KVariant:
		return a.caseName == b.caseName && Equal(a.payload, b.payload)
	case KRef:
		return Equal(a.cell, b.cell)
	case KVector:
		return equalVector(a.vec, b.vec)
	case KMatrix:
		return equalMatrix(a.mat, b.mat)
	case KFunction:
		return a.fn.Identity() == b.fn.Identity()
	default:
		return false
	}
}

func floatSame(a, b float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	if aNaN || bNaN {
		return aNaN && bNaN
	}
	if a != b {
		return false
	}
	// a == b here is true for both zeros; distinguish signed zero.
	return math.Signbit(a) == math.Signbit(b)
}

func equalSeq(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalDict(a, b []DictPair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i].Key, b[i].Key) || !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func equalStruct(a, b *Value) bool {
	if len(a.fieldNames) != len(b.fieldNames) {
		return false
	}
	for i := range a.fieldNames {
		if a.fieldNames[i] != b.fieldNames[i] || !Equal(a.fieldValues[i], b.fieldValues[i]) {
			return false
		}
	}
	return true
}

func equalVector(a, b *VectorData) bool {
	return int64SliceEqual(a.Ints, b.Ints) && floatSliceEqual(a.Floats, b.Floats) && boolSliceEqual(a.Bools, b.Bools)
}

func equalMatrix(a, b *MatrixData) bool {
	return a.Rows == b.Rows && a.Cols == b.Cols &&
		int64SliceEqual(a.Ints, b.Ints) && floatSliceEqual(a.Floats, b.Floats) && boolSliceEqual(a.Bools, b.Bools)
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func floatSliceEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floatSame(a[i], b[i]) {
			return false
		}
	}
	return true
}

func boolSliceEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
