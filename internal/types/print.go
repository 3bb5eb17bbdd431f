package types

import "strings"

// String renders a type term in a readable canonical form, used for
// diagnostics and the `loom inspect` CLI command. It is not a codec — see
// internal/codec for the contractual serialization forms.
func (t *Type) String() string {
	var b strings.Builder
	t.writeTo(&b, make(map[*Type]bool))
	return b.String()
}

func (t *Type) writeTo(b *strings.Builder, seen map[*Type]bool) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.kind {
	case Never, Null, Boolean, Integer, Float, String, Datetime, Blob:
		b.WriteString(t.kind.String())
	case Array, Set, Ref, Vector, Matrix:
		b.WriteString(t.kind.String())
		b.WriteByte('<')
		t.elem.writeTo(b, seen)
		b.WriteByte('>')
	case Dict:
		b.WriteString("dict<")
		t.key.writeTo(b, seen)
		b.WriteByte(',')
		t.value.writeTo(b, seen)
		b.WriteByte('>')
	case Struct:
		b.WriteString("struct{")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.Name)
			b.WriteByte(':')
			f.Type.writeTo(b, seen)
		}
		b.WriteByte('}')
	case Variant:
		b.WriteString("variant{")
		for i, c := range t.cases {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(c.Name)
			b.WriteByte(':')
			c.Type.writeTo(b, seen)
		}
		b.WriteByte('}')
	case Function, AsyncFunction:
		if t.kind == AsyncFunction {
			b.WriteString("async_function(")
		} else {
			b.WriteString("function(")
		}
		for i, in := range t.inputs {
			if i > 0 {
				b.WriteByte(',')
			}
			in.writeTo(b, seen)
		}
		b.WriteString(") -> ")
		t.output.writeTo(b, seen)
	case Recursive:
		if seen[t] {
			b.WriteString("self")
			return
		}
		seen[t] = true
		b.WriteString("recursive(")
		if t.inner != nil {
			t.inner.writeTo(b, seen)
		} else {
			b.WriteString("<building>")
		}
		b.WriteByte(')')
	}
}
