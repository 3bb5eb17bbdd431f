package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// ParseText parses the module's canonical text form into a value of
// type t, the inverse of PrintText for every round-trippable kind.
func ParseText(s string, t *types.Type) (*values.Value, error) {
	p := &textParser{s: s}
	p.skipSpace()
	v, err := p.parseValue(t)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("codec: trailing input at offset %d", p.pos)
	}
	return v, nil
}

type textParser struct {
	s   string
	pos int
}

func (p *textParser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *textParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *textParser) expect(c byte) error {
	if p.peek() != c {
		return fmt.Errorf("codec: expected %q at offset %d, got %q", c, p.pos, p.peek())
	}
	p.pos++
	return nil
}

func (p *textParser) consumeWhile(pred func(byte) bool) string {
	start := p.pos
	for p.pos < len(p.s) && pred(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *textParser) consumeLiteral(lit string) bool {
	if strings.HasPrefix(p.s[p.pos:], lit) {
		p.pos += len(lit)
		return true
	}
	return false
}

func (p *textParser) parseValue(t *types.Type) (*values.Value, error) {
	if t.Kind() == types.Recursive {
		return p.parseValue(t.Inner())
	}
	switch t.Kind() {
	case types.Never:
		return nil, fmt.Errorf("codec: no value of type never")
	case types.Null:
		if !p.consumeLiteral("null") {
			return nil, fmt.Errorf("codec: expected null at offset %d", p.pos)
		}
		return values.Null, nil
	case types.Boolean:
		switch {
		case p.consumeLiteral("true"):
			return values.NewBoolean(true), nil
		case p.consumeLiteral("false"):
			return values.NewBoolean(false), nil
		}
		return nil, fmt.Errorf("codec: expected boolean at offset %d", p.pos)
	case types.Integer:
		lit := p.consumeWhile(isIntByte)
		if lit == "" {
			return nil, fmt.Errorf("codec: expected integer at offset %d", p.pos)
		}
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("codec: invalid integer literal %q: %w", lit, err)
		}
		return values.NewInteger(n), nil
	case types.Float:
		return p.parseFloatValue()
	case types.String:
		s, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return values.NewString(s), nil
	case types.Datetime:
		lit := p.consumeWhile(func(c byte) bool { return c != ',' && c != '}' && c != ']' && c != ' ' })
		ts, err := time.Parse("2006-01-02T15:04:05.000Z", lit)
		if err != nil {
			return nil, fmt.Errorf("codec: invalid datetime literal %q: %w", lit, err)
		}
		return values.NewDatetime(ts.UnixMilli()), nil
	case types.Blob:
		lit := p.consumeWhile(func(c byte) bool { return isHexByte(c) || c == 'x' })
		b, err := decodeHex(lit)
		if err != nil {
			return nil, err
		}
		return values.NewBlob(b), nil
	case types.Array:
		return p.parseSeq('[', ']', t.Elem(), func(elemType *types.Type, items []*values.Value) *values.Value {
			return values.NewArray(elemType, items)
		})
	case types.Set:
		return p.parseSeq('{', '}', t.Elem(), func(elemType *types.Type, items []*values.Value) *values.Value {
			return values.NewSet(elemType, items)
		})
	case types.Dict:
		return p.parseDict(t.Value())
	case types.Struct:
		return p.parseStruct(t)
	case types.Variant:
		return p.parseVariant(t)
	case types.Ref:
		if err := p.expect('&'); err != nil {
			return nil, err
		}
		cell, err := p.parseValue(t.Elem())
		if err != nil {
			return nil, err
		}
		v := values.NewRef(t.Elem(), cell)
		cell.Release()
		return v, nil
	default:
		return nil, fmt.Errorf("codec: unsupported type kind %s for text parsing", t.Kind())
	}
}

func isIntByte(c byte) bool { return c == '-' || (c >= '0' && c <= '9') }
func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (p *textParser) parseFloatValue() (*values.Value, error) {
	switch {
	case p.consumeLiteral("NaN"):
		f, _ := parseFloat("NaN")
		return values.NewFloat(f), nil
	case p.consumeLiteral("-Infinity"):
		f, _ := parseFloat("-Infinity")
		return values.NewFloat(f), nil
	case p.consumeLiteral("Infinity"):
		f, _ := parseFloat("Infinity")
		return values.NewFloat(f), nil
	}
	lit := p.consumeWhile(func(c byte) bool {
		return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
	})
	if lit == "" {
		return nil, fmt.Errorf("codec: expected float at offset %d", p.pos)
	}
	f, err := parseFloat(lit)
	if err != nil {
		return nil, err
	}
	return values.NewFloat(f), nil
}

func (p *textParser) parseStringLiteral() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	var b strings.Builder
	for {
		if p.pos >= len(p.s) {
			return "", fmt.Errorf("codec: unterminated string literal")
		}
		c := p.s[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(p.s[p.pos:])
			b.WriteRune(r)
			p.pos += size
			continue
		}
		p.pos++
		if p.pos >= len(p.s) {
			return "", fmt.Errorf("codec: unterminated escape sequence")
		}
		esc := p.s[p.pos]
		p.pos++
		switch esc {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r1, err := p.readHex4()
			if err != nil {
				return "", err
			}
			if utf16.IsSurrogate(rune(r1)) && strings.HasPrefix(p.s[p.pos:], `\u`) {
				save := p.pos
				p.pos += 2
				r2, err := p.readHex4()
				if err != nil {
					p.pos = save
					b.WriteRune(rune(r1))
					continue
				}
				combined := utf16.DecodeRune(rune(r1), rune(r2))
				if combined == utf8.RuneError {
					p.pos = save
					b.WriteRune(rune(r1))
					continue
				}
				b.WriteRune(combined)
				continue
			}
			b.WriteRune(rune(r1))
		default:
			return "", fmt.Errorf("codec: invalid escape \\%c", esc)
		}
	}
}

func (p *textParser) readHex4() (uint16, error) {
	if p.pos+4 > len(p.s) {
		return 0, fmt.Errorf("codec: truncated \\u escape")
	}
	lit := p.s[p.pos : p.pos+4]
	n, err := strconv.ParseUint(lit, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("codec: invalid \\u escape %q: %w", lit, err)
	}
	p.pos += 4
	return uint16(n), nil
}

func (p *textParser) parseSeq(open, close byte, elemType *types.Type, build func(*types.Type, []*values.Value) *values.Value) (*values.Value, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}
	var items []*values.Value
	p.skipSpace()
	for p.peek() != close {
		v, err := p.parseValue(elemType)
		if err != nil {
			releaseAll(items)
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
		}
	}
	p.pos++
	result := build(elemType, items)
	releaseAll(items)
	return result, nil
}

func (p *textParser) parseDict(valueType *types.Type) (*values.Value, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var pairs []values.DictPair
	p.skipSpace()
	for p.peek() != '}' {
		key, err := p.parseStringLiteral()
		if err != nil {
			releaseDictPairs(pairs)
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			releaseDictPairs(pairs)
			return nil, err
		}
		p.skipSpace()
		val, err := p.parseValue(valueType)
		if err != nil {
			releaseDictPairs(pairs)
			return nil, err
		}
		pairs = append(pairs, values.DictPair{Key: values.NewString(key), Value: val})
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
		}
	}
	p.pos++
	result := values.NewDict(pairs)
	releaseDictPairs(pairs)
	return result, nil
}

func (p *textParser) parseStruct(t *types.Type) (*values.Value, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	fields := t.Fields()
	vals := make(map[string]*values.Value, len(fields))
	p.skipSpace()
	for p.peek() != '}' {
		name := p.consumeWhile(func(c byte) bool {
			return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		})
		f, ok := t.FieldByName(name)
		if !ok {
			releaseMap(vals)
			return nil, fmt.Errorf("codec: unknown struct field %q", name)
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			releaseMap(vals)
			return nil, err
		}
		p.skipSpace()
		v, err := p.parseValue(f.Type)
		if err != nil {
			releaseMap(vals)
			return nil, err
		}
		vals[name] = v
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
		}
	}
	p.pos++
	out := make([]*values.Value, len(fields))
	for i, f := range fields {
		v, ok := vals[f.Name]
		if !ok {
			releaseMap(vals)
			return nil, fmt.Errorf("codec: missing struct field %q", f.Name)
		}
		out[i] = v
	}
	result := values.NewStruct(t, out)
	releaseAll(out)
	return result, nil
}

func (p *textParser) parseVariant(t *types.Type) (*values.Value, error) {
	if err := p.expect('.'); err != nil {
		return nil, err
	}
	name := p.consumeWhile(func(c byte) bool {
		return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
	})
	c, ok := t.CaseByName(name)
	if !ok {
		return nil, fmt.Errorf("codec: unknown variant case %q", name)
	}
	if c.Type == types.TNull {
		return values.NewVariant(t, name, values.Null), nil
	}
	p.skipSpace()
	payload, err := p.parseValue(c.Type)
	if err != nil {
		return nil, err
	}
	v := values.NewVariant(t, name, payload)
	payload.Release()
	return v, nil
}

func releaseAll(vs []*values.Value) {
	for _, v := range vs {
		v.Release()
	}
}

func releaseDictPairs(pairs []values.DictPair) {
	for _, p := range pairs {
		p.Key.Release()
		p.Value.Release()
	}
}

func releaseMap(m map[string]*values.Value) {
	for _, v := range m {
		v.Release()
	}
}
