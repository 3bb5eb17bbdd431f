package values

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Print renders v as readable text. Its layout is close to the text
// codec's but not identical: refs print as ref(...), datetimes as epoch
// milliseconds, and non-ASCII runes below U+10000 unescaped, so Print
// output does not always parse back through the text codec.
func (v *Value) Print() string {
	var b strings.Builder
	v.writeTo(&b)
	return b.String()
}

func (v *Value) writeTo(b *strings.Builder) {
	switch v.kind {
	case KNull:
		b.WriteString("null")
	case KBoolean:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KInteger:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KDatetime:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KFloat:
		b.WriteString(FormatFloat(v.f))
	case KString:
		writeQuotedString(b, string(v.s))
	case KBlob:
		b.WriteString("0x")
		b.WriteString(hex.EncodeToString(v.s))
	case KArray:
		b.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			it.writeTo(b)
		}
		b.WriteByte(']')
	case KSet:
		b.WriteByte('{')
		for i, it := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			it.writeTo(b)
		}
		b.WriteByte('}')
	case KDict:
		b.WriteByte('{')
		for i, p := range v.dict {
			if i > 0 {
				b.WriteString(", ")
			}
			p.Key.writeTo(b)
			b.WriteString(": ")
			p.Value.writeTo(b)
		}
		b.WriteByte('}')
	case KStruct:
		b.WriteByte('{')
		for i, name := range v.fieldNames {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(": ")
			v.fieldValues[i].writeTo(b)
		}
		b.WriteByte('}')
	case KVariant:
		b.WriteByte('.')
		b.WriteString(v.caseName)
		if v.payload.kind != KNull {
			b.WriteByte(' ')
			v.payload.writeTo(b)
		}
	case KRef:
		b.WriteString("ref(")
		v.cell.writeTo(b)
		b.WriteByte(')')
	case KVector:
		b.WriteString("vector[")
		writeVectorData(b, v.vec)
		b.WriteByte(']')
	case KMatrix:
		b.WriteString(fmt.Sprintf("matrix[%d,%d](", v.mat.Rows, v.mat.Cols))
		writeMatrixData(b, v.mat)
		b.WriteByte(')')
	case KFunction:
		b.WriteString("<function>")
	}
}

func writeVectorData(b *strings.Builder, d *VectorData) {
	switch {
	case d.Ints != nil:
		for i, n := range d.Ints {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatInt(n, 10))
		}
	case d.Floats != nil:
		for i, f := range d.Floats {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(FormatFloat(f))
		}
	default:
		for i, bo := range d.Bools {
			if i > 0 {
				b.WriteString(", ")
			}
			if bo {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		}
	}
}

func writeMatrixData(b *strings.Builder, m *MatrixData) {
	writeVectorData(b, &VectorData{Ints: m.Ints, Floats: m.Floats, Bools: m.Bools})
}

// FormatFloat renders f using the shortest round-trippable decimal
// representation, matching the widely-used Number.toString convention.
// Negative zero prints as "-0".
func FormatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	// Number.toString uses plain decimal for magnitudes in [1e-6, 1e21) and
	// exponent form outside that range. strconv emits "1e-07" where
	// Number.toString emits "1e-7". Normalize the exponent form's leading
	// zeros away.
	format := byte('e')
	if a := math.Abs(f); a == 0 || (a >= 1e-6 && a < 1e21) {
		format = 'f'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if idx := strings.IndexAny(s, "eE"); idx >= 0 {
		mantissa, exp := s[:idx], s[idx+1:]
		sign := "+"
		if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
			if exp[0] == '-' {
				sign = "-"
			}
			exp = exp[1:]
		}
		exp = strings.TrimLeft(exp, "0")
		if exp == "" {
			exp = "0"
		}
		s = mantissa + "e" + sign + exp
	}
	return s
}

// writeQuotedString escapes quote, backslash, \n, \r and \t with standard
// escapes, other control characters and DEL as \uXXXX, and runes above
// U+FFFF as a \uXXXX\uXXXX surrogate pair; other non-ASCII runes are
// written unescaped.
func writeQuotedString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(b, `\u%04x`, r)
			} else if r > 0xffff {
				// Escape as a UTF-16 surrogate pair, matching the text
				// codec's astral-plane handling (internal/codec/text.go).
				r1, r2 := utf16SurrogatePair(r)
				fmt.Fprintf(b, `\u%04x\u%04x`, r1, r2)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

func utf16SurrogatePair(r rune) (rune, rune) {
	r -= 0x10000
	hi := 0xd800 + (r >> 10)
	lo := 0xdc00 + (r & 0x3ff)
	return hi, lo
}
