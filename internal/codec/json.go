package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// EncodeJSON renders v, a value of type t, as compact JSON using the
// module's type-directed mapping: integers as JSON numbers without a fractional
// part, floats as the shortest round-trippable decimal, dicts as objects
// only when keyed by string (otherwise as [key, value] arrays), blobs as
// 0x-prefixed hex strings, and variants as single-field objects. Objects
// and arrays are assembled incrementally with sjson.SetRaw rather than
// built as an intermediate tree, matching the shape-walking style the rest
// of this module uses for its other container conversions.
func EncodeJSON(v *values.Value, t *types.Type) (string, error) {
	return encodeJSON(v, t)
}

// EncodeJSONPretty is EncodeJSON with indentation applied via
// github.com/tidwall/pretty, used by `loom fmt --pretty` when the output
// codec is json.
func EncodeJSONPretty(v *values.Value, t *types.Type) (string, error) {
	raw, err := encodeJSON(v, t)
	if err != nil {
		return "", err
	}
	return string(pretty.Pretty([]byte(raw))), nil
}

func encodeJSON(v *values.Value, t *types.Type) (string, error) {
	if t.Kind() == types.Recursive {
		return encodeJSON(v, t.Inner())
	}
	switch t.Kind() {
	case types.Never:
		return "", fmt.Errorf("codec: no value of type never")
	case types.Null:
		return "null", nil
	case types.Boolean:
		if v.Bool() {
			return "true", nil
		}
		return "false", nil
	case types.Integer:
		return strconv.FormatInt(v.Int(), 10), nil
	case types.Float:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("codec: JSON cannot represent non-finite float %v", f)
		}
		return formatFloat(f), nil
	case types.String:
		b, err := jsonMarshalString(v.Str())
		return b, err
	case types.Datetime:
		s, err := PrintText(v, t)
		if err != nil {
			return "", err
		}
		return jsonMarshalString(s)
	case types.Blob:
		return jsonMarshalString(encodeHex(v.Bytes()))
	case types.Array:
		return encodeJSONArray(v.Items(), t.Elem())
	case types.Set:
		return encodeJSONArray(v.Items(), t.Elem())
	case types.Dict:
		return encodeJSONDict(v.Dict(), t.Key(), t.Value())
	case types.Struct:
		return encodeJSONStruct(v, t)
	case types.Variant:
		return encodeJSONVariant(v, t)
	case types.Ref:
		return encodeJSON(v.Cell(), t.Elem())
	default:
		return "", fmt.Errorf("codec: unsupported type kind %s for JSON encoding", t.Kind())
	}
}

func jsonMarshalString(s string) (string, error) {
	var b strings.Builder
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
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String(), nil
}

func encodeJSONArray(items []*values.Value, elemType *types.Type) (string, error) {
	out := "[]"
	for _, it := range items {
		raw, err := encodeJSON(it, elemType)
		if err != nil {
			return "", err
		}
		out, err = sjson.SetRaw(out, "-1", raw)
		if err != nil {
			return "", fmt.Errorf("codec: sjson array append failed: %w", err)
		}
	}
	return out, nil
}

func encodeJSONDict(pairs []values.DictPair, keyType, valueType *types.Type) (string, error) {
	if keyType.Kind() == types.String {
		out := "{}"
		for _, p := range pairs {
			raw, err := encodeJSON(p.Value, valueType)
			if err != nil {
				return "", err
			}
			out, err = sjson.SetRaw(out, escapeSjsonKey(p.Key.Str()), raw)
			if err != nil {
				return "", fmt.Errorf("codec: sjson object set failed: %w", err)
			}
		}
		return out, nil
	}
	out := "[]"
	for _, p := range pairs {
		keyRaw, err := encodeJSON(p.Key, keyType)
		if err != nil {
			return "", err
		}
		valRaw, err := encodeJSON(p.Value, valueType)
		if err != nil {
			return "", err
		}
		pair := "[]"
		pair, err = sjson.SetRaw(pair, "-1", keyRaw)
		if err != nil {
			return "", err
		}
		pair, err = sjson.SetRaw(pair, "-1", valRaw)
		if err != nil {
			return "", err
		}
		out, err = sjson.SetRaw(out, "-1", pair)
		if err != nil {
			return "", fmt.Errorf("codec: sjson array append failed: %w", err)
		}
	}
	return out, nil
}

func encodeJSONStruct(v *values.Value, t *types.Type) (string, error) {
	out := "{}"
	fields := t.Fields()
	vals := v.FieldValues()
	for i, f := range fields {
		raw, err := encodeJSON(vals[i], f.Type)
		if err != nil {
			return "", err
		}
		out, err = sjson.SetRaw(out, escapeSjsonKey(f.Name), raw)
		if err != nil {
			return "", fmt.Errorf("codec: sjson object set failed: %w", err)
		}
	}
	return out, nil
}

func encodeJSONVariant(v *values.Value, t *types.Type) (string, error) {
	c, ok := t.CaseByName(v.CaseName())
	if !ok {
		return "", fmt.Errorf("codec: unknown variant case %q", v.CaseName())
	}
	raw, err := encodeJSON(v.Payload(), c.Type)
	if err != nil {
		return "", err
	}
	out := "{}"
	out, err = sjson.SetRaw(out, escapeSjsonKey(v.CaseName()), raw)
	if err != nil {
		return "", fmt.Errorf("codec: sjson object set failed: %w", err)
	}
	return out, nil
}

// escapeSjsonKey backslash-escapes the path-meaningful characters sjson
// recognizes (. * ? | # and backslash itself) so an arbitrary struct field
// name or string dict key is treated as a literal path segment rather than
// a wildcard or nested-path separator.
func escapeSjsonKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DecodeJSON parses JSON text into a value of type t, the inverse of
// EncodeJSON, walking the parsed tree with gjson.
func DecodeJSON(s string, t *types.Type) (*values.Value, error) {
	res := gjson.Parse(s)
	return decodeJSONValue(res, t)
}

func decodeJSONValue(res gjson.Result, t *types.Type) (*values.Value, error) {
	if t.Kind() == types.Recursive {
		return decodeJSONValue(res, t.Inner())
	}
	switch t.Kind() {
	case types.Never:
		return nil, fmt.Errorf("codec: no value of type never")
	case types.Null:
		return values.Null, nil
	case types.Boolean:
		if res.Type != gjson.True && res.Type != gjson.False {
			return nil, fmt.Errorf("codec: expected JSON boolean, got %s", res.Type)
		}
		return values.NewBoolean(res.Bool()), nil
	case types.Integer:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("codec: expected JSON number for integer, got %s", res.Type)
		}
		return values.NewInteger(res.Int()), nil
	case types.Float:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("codec: expected JSON number for float, got %s", res.Type)
		}
		return values.NewFloat(res.Float()), nil
	case types.String:
		if res.Type != gjson.String {
			return nil, fmt.Errorf("codec: expected JSON string, got %s", res.Type)
		}
		return values.NewString(res.String()), nil
	case types.Datetime:
		v, err := ParseText(res.String(), t)
		if err != nil {
			return nil, err
		}
		return v, nil
	case types.Blob:
		b, err := decodeHex(res.String())
		if err != nil {
			return nil, err
		}
		return values.NewBlob(b), nil
	case types.Array:
		return decodeJSONArray(res, t.Elem(), func(elemType *types.Type, items []*values.Value) *values.Value {
			return values.NewArray(elemType, items)
		})
	case types.Set:
		return decodeJSONArray(res, t.Elem(), func(elemType *types.Type, items []*values.Value) *values.Value {
			return values.NewSet(elemType, items)
		})
	case types.Dict:
		return decodeJSONDict(res, t.Key(), t.Value())
	case types.Struct:
		return decodeJSONStruct(res, t)
	case types.Variant:
		return decodeJSONVariant(res, t)
	case types.Ref:
		cell, err := decodeJSONValue(res, t.Elem())
		if err != nil {
			return nil, err
		}
		v := values.NewRef(t.Elem(), cell)
		cell.Release()
		return v, nil
	default:
		return nil, fmt.Errorf("codec: unsupported type kind %s for JSON decoding", t.Kind())
	}
}

func decodeJSONArray(res gjson.Result, elemType *types.Type, build func(*types.Type, []*values.Value) *values.Value) (*values.Value, error) {
	if !res.IsArray() {
		return nil, fmt.Errorf("codec: expected JSON array, got %s", res.Type)
	}
	var items []*values.Value
	var outerErr error
	res.ForEach(func(_, val gjson.Result) bool {
		v, err := decodeJSONValue(val, elemType)
		if err != nil {
			outerErr = err
			return false
		}
		items = append(items, v)
		return true
	})
	if outerErr != nil {
		releaseAll(items)
		return nil, outerErr
	}
	result := build(elemType, items)
	releaseAll(items)
	return result, nil
}

func decodeJSONDict(res gjson.Result, keyType, valueType *types.Type) (*values.Value, error) {
	if keyType.Kind() == types.String {
		if !res.IsObject() {
			return nil, fmt.Errorf("codec: expected JSON object for string-keyed dict, got %s", res.Type)
		}
		var pairs []values.DictPair
		var outerErr error
		res.ForEach(func(key, val gjson.Result) bool {
			v, err := decodeJSONValue(val, valueType)
			if err != nil {
				outerErr = err
				return false
			}
			pairs = append(pairs, values.DictPair{Key: values.NewString(key.String()), Value: v})
			return true
		})
		if outerErr != nil {
			releaseDictPairs(pairs)
			return nil, outerErr
		}
		result := values.NewDict(pairs)
		releaseDictPairs(pairs)
		return result, nil
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("codec: expected JSON array of [key, value] pairs, got %s", res.Type)
	}
	var pairs []values.DictPair
	var outerErr error
	res.ForEach(func(_, pairRes gjson.Result) bool {
		elems := pairRes.Array()
		if len(elems) != 2 {
			outerErr = fmt.Errorf("codec: expected a 2-element [key, value] pair, got %d elements", len(elems))
			return false
		}
		key, err := decodeJSONValue(elems[0], keyType)
		if err != nil {
			outerErr = err
			return false
		}
		val, err := decodeJSONValue(elems[1], valueType)
		if err != nil {
			key.Release()
			outerErr = err
			return false
		}
		pairs = append(pairs, values.DictPair{Key: key, Value: val})
		return true
	})
	if outerErr != nil {
		releaseDictPairs(pairs)
		return nil, outerErr
	}
	result := values.NewDict(pairs)
	releaseDictPairs(pairs)
	return result, nil
}

func decodeJSONStruct(res gjson.Result, t *types.Type) (*values.Value, error) {
	if !res.IsObject() {
		return nil, fmt.Errorf("codec: expected JSON object for struct, got %s", res.Type)
	}
	fields := t.Fields()
	out := make([]*values.Value, len(fields))
	for i, f := range fields {
		fieldRes := res.Get(escapeSjsonKey(f.Name))
		if !fieldRes.Exists() {
			releaseAll(out[:i])
			return nil, fmt.Errorf("codec: missing struct field %q in JSON object", f.Name)
		}
		v, err := decodeJSONValue(fieldRes, f.Type)
		if err != nil {
			releaseAll(out[:i])
			return nil, err
		}
		out[i] = v
	}
	result := values.NewStruct(t, out)
	releaseAll(out)
	return result, nil
}

func decodeJSONVariant(res gjson.Result, t *types.Type) (*values.Value, error) {
	if !res.IsObject() {
		return nil, fmt.Errorf("codec: expected single-field JSON object for variant, got %s", res.Type)
	}
	var caseName string
	var payloadRes gjson.Result
	count := 0
	res.ForEach(func(key, val gjson.Result) bool {
		caseName = key.String()
		payloadRes = val
		count++
		return true
	})
	if count != 1 {
		return nil, fmt.Errorf("codec: variant object must have exactly one field, got %d", count)
	}
	c, ok := t.CaseByName(caseName)
	if !ok {
		return nil, fmt.Errorf("codec: unknown variant case %q", caseName)
	}
	payload, err := decodeJSONValue(payloadRes, c.Type)
	if err != nil {
		return nil, err
	}
	v := values.NewVariant(t, caseName, payload)
	payload.Release()
	return v, nil
}
