package values

import "github.com/loomlang/loom/internal/types"

// NewIntVector constructs a vector<integer> value from a packed buffer.
func NewIntVector(elemType *types.Type, data []int64) *Value {
	v := newContainer(KVector)
	v.elemType = elemType.Retain()
	v.vec = &VectorData{Ints: append([]int64(nil), data...)}
	return v
}

// NewFloatVector constructs a vector<float> value from a packed buffer.
func NewFloatVector(elemType *types.Type, data []float64) *Value {
	v := newContainer(KVector)
	v.elemType = elemType.Retain()
	v.vec = &VectorData{Floats: append([]float64(nil), data...)}
	return v
}

// NewBoolVector constructs a vector<boolean> value from a packed buffer.
func NewBoolVector(elemType *types.Type, data []bool) *Value {
	v := newContainer(KVector)
	v.elemType = elemType.Retain()
	v.vec = &VectorData{Bools: append([]bool(nil), data...)}
	return v
}

// NewIntMatrix constructs a matrix<integer> value, row-major.
func NewIntMatrix(elemType *types.Type, rows, cols int, data []int64) *Value {
	v := newContainer(KMatrix)
	v.elemType = elemType.Retain()
	v.mat = &MatrixData{Rows: rows, Cols: cols, Ints: append([]int64(nil), data...)}
	return v
}

// NewFloatMatrix constructs a matrix<float> value, row-major.
func NewFloatMatrix(elemType *types.Type, rows, cols int, data []float64) *Value {
	v := newContainer(KMatrix)
	v.elemType = elemType.Retain()
	v.mat = &MatrixData{Rows: rows, Cols: cols, Floats: append([]float64(nil), data...)}
	return v
}

// NewBoolMatrix constructs a matrix<boolean> value, row-major.
func NewBoolMatrix(elemType *types.Type, rows, cols int, data []bool) *Value {
	v := newContainer(KMatrix)
	v.elemType = elemType.Retain()
	v.mat = &MatrixData{Rows: rows, Cols: cols, Bools: append([]bool(nil), data...)}
	return v
}

// Len returns the element count of a vector's packed buffer, whichever
// field is populated.
func (d *VectorData) Len() int {
	switch {
	case d.Ints != nil:
		return len(d.Ints)
	case d.Floats != nil:
		return len(d.Floats)
	default:
		return len(d.Bools)
	}
}
