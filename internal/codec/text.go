package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// PrintText renders v, a value of type t, in the module's canonical text
// form. Function and opaque-handle values print a placeholder and do not
// round-trip; every other admissible value does.
func PrintText(v *values.Value, t *types.Type) (string, error) {
	var b strings.Builder
	if err := printText(&b, v, t); err != nil {
		return "", err
	}
	return b.String(), nil
}

func printText(b *strings.Builder, v *values.Value, t *types.Type) error {
	if t.Kind() == types.Recursive {
		return printText(b, v, t.Inner())
	}
	switch t.Kind() {
	case types.Never:
		return fmt.Errorf("codec: no value of type never")
	case types.Null:
		b.WriteString("null")
	case types.Boolean:
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case types.Integer:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case types.Float:
		b.WriteString(formatFloat(v.Float()))
	case types.String:
		return printString(b, v.Str())
	case types.Datetime:
		b.WriteString(time.UnixMilli(v.Int()).UTC().Format("2006-01-02T15:04:05.000Z"))
	case types.Blob:
		b.WriteString(encodeHex(v.Bytes()))
	case types.Array:
		return printSeq(b, '[', ']', v.Items(), t.Elem())
	case types.Set:
		return printSeq(b, '{', '}', v.Items(), t.Elem())
	case types.Dict:
		return printDict(b, v.Dict(), t.Value())
	case types.Struct:
		return printStruct(b, v, t)
	case types.Variant:
		return printVariant(b, v, t)
	case types.Ref:
		b.WriteByte('&')
		return printText(b, v.Cell(), t.Elem())
	case types.Vector, types.Matrix, types.Function, types.AsyncFunction:
		fmt.Fprintf(b, "<%s>", t.Kind())
	default:
		return fmt.Errorf("codec: unsupported type kind %s for text printing", t.Kind())
	}
	return nil
}

func printSeq(b *strings.Builder, open, close byte, items []*values.Value, elemType *types.Type) error {
	b.WriteByte(open)
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := printText(b, it, elemType); err != nil {
			return err
		}
	}
	b.WriteByte(close)
	return nil
}

func printDict(b *strings.Builder, pairs []values.DictPair, valueType *types.Type) error {
	b.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := printString(b, p.Key.Str()); err != nil {
			return err
		}
		b.WriteString(": ")
		if err := printText(b, p.Value, valueType); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func printStruct(b *strings.Builder, v *values.Value, t *types.Type) error {
	b.WriteByte('{')
	fields := t.Fields()
	vals := v.FieldValues()
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		if err := printText(b, vals[i], f.Type); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func printVariant(b *strings.Builder, v *values.Value, t *types.Type) error {
	b.WriteByte('.')
	b.WriteString(v.CaseName())
	c, ok := t.CaseByName(v.CaseName())
	if !ok {
		return fmt.Errorf("codec: unknown variant case %q", v.CaseName())
	}
	if c.Type == types.TNull {
		return nil
	}
	b.WriteByte(' ')
	return printText(b, v.Payload(), c.Type)
}

// printString escapes control bytes with standard escapes, every other rune
// outside printable ASCII (including printable non-ASCII runes such as é)
// as \uXXXX, and astral runes as a UTF-16 surrogate pair produced by
// running the rune through a golang.org/x/text/encoding/unicode encoder
// (the same decode-side library internal/interp/encoding.go uses for BOM
// detection, here used for the reverse direction).
func printString(b *strings.Builder, s string) error {
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
			switch {
			case r >= 0x20 && r < 0x7f:
				b.WriteRune(r)
			case r < 0x10000:
				fmt.Fprintf(b, `\u%04x`, r)
			default:
				hi, lo, err := utf16SurrogatePair(r)
				if err != nil {
					return err
				}
				fmt.Fprintf(b, `\u%04x\u%04x`, hi, lo)
			}
		}
	}
	b.WriteByte('"')
	return nil
}

func utf16SurrogatePair(r rune) (uint16, uint16, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	out, _, err := transform.Bytes(enc, []byte(string(r)))
	if err != nil {
		return 0, 0, fmt.Errorf("codec: UTF-16 surrogate encode failed: %w", err)
	}
	if len(out) != 4 {
		return 0, 0, fmt.Errorf("codec: expected 4-byte surrogate pair, got %d bytes", len(out))
	}
	hi := uint16(out[0])<<8 | uint16(out[1])
	lo := uint16(out[2])<<8 | uint16(out[3])
	return hi, lo, nil
}
