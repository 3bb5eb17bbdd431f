package values

import "github.com/loomlang/loom/internal/alloc"

// Null is the globally shared sentinel value. Retain/Release on it are
// no-ops.
var Null = &Value{kind: KNull, refcount: sentinelRefcount}

func newScalar(kind Kind) *Value {
	v := alloc.New[Value]("values.Value")
	v.kind = kind
	v.refcount = 1
	return v
}

// NewBoolean constructs a Boolean value.
func NewBoolean(b bool) *Value {
	v := newScalar(KBoolean)
	v.b = b
	return v
}

// NewInteger constructs a 64-bit signed Integer value.
func NewInteger(i int64) *Value {
	v := newScalar(KInteger)
	v.i = i
	return v
}

// NewFloat constructs a 64-bit IEEE-754 Float value.
func NewFloat(f float64) *Value {
	v := newScalar(KFloat)
	v.f = f
	return v
}

// NewString constructs a length-prefixed String value from bytes. The
// bytes are copied so later mutation of the caller's slice is not observed.
func NewString(s string) *Value {
	v := newScalar(KString)
	v.s = []byte(s)
	return v
}

// NewDatetime constructs a Datetime value from epoch milliseconds.
func NewDatetime(epochMillis int64) *Value {
	v := newScalar(KDatetime)
	v.i = epochMillis
	return v
}

// NewBlob constructs a length-prefixed Blob value, copying the given bytes.
func NewBlob(b []byte) *Value {
	v := newScalar(KBlob)
	v.s = append([]byte(nil), b...)
	return v
}
