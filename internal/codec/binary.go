package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// Binary format
// =============
//
// Every encoded value is a type-tag byte followed by a type-directed body.
// Lengths (array/set/dict/string/blob element counts, byte counts) are
// unsigned varints; signed integers use zigzag varints. This keeps the
// wire size close to the bytecode serializer's compactness goal while
// staying bitwise-identical across platforms (varints have no host
// endianness to get wrong, unlike the serializer's fixed-width
// binary.Write/Read of machine words).
const (
	tagNull uint8 = iota
	tagBoolean
	tagInteger
	tagFloat
	tagString
	tagDatetime
	tagBlob
	tagArray
	tagSet
	tagDict
	tagStruct
	tagVariant
	tagRef
)

// EncodeBinary renders v, a value of type t, as the length-prefixed binary
// form described above.
func EncodeBinary(v *values.Value, t *types.Type) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := encodeBinary(buf, v, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeBinary(buf *bytes.Buffer, v *values.Value, t *types.Type) error {
	if t.Kind() == types.Recursive {
		return encodeBinary(buf, v, t.Inner())
	}
	switch t.Kind() {
	case types.Never:
		return fmt.Errorf("codec: no value of type never")
	case types.Null:
		buf.WriteByte(tagNull)
		return nil
	case types.Boolean:
		buf.WriteByte(tagBoolean)
		if v.Bool() {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		return nil
	case types.Integer:
		buf.WriteByte(tagInteger)
		writeZigzag(buf, v.Int())
		return nil
	case types.Float:
		buf.WriteByte(tagFloat)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v.Float()))
		buf.Write(b[:])
		return nil
	case types.String:
		buf.WriteByte(tagString)
		writeBytes(buf, []byte(v.Str()))
		return nil
	case types.Datetime:
		buf.WriteByte(tagDatetime)
		writeZigzag(buf, v.Int())
		return nil
	case types.Blob:
		buf.WriteByte(tagBlob)
		writeBytes(buf, v.Bytes())
		return nil
	case types.Array:
		buf.WriteByte(tagArray)
		return encodeBinarySeq(buf, v.Items(), t.Elem())
	case types.Set:
		buf.WriteByte(tagSet)
		return encodeBinarySeq(buf, v.Items(), t.Elem())
	case types.Dict:
		buf.WriteByte(tagDict)
		pairs := v.Dict()
		writeUvarint(buf, uint64(len(pairs)))
		for _, p := range pairs {
			if err := encodeBinary(buf, p.Key, t.Key()); err != nil {
				return err
			}
			if err := encodeBinary(buf, p.Value, t.Value()); err != nil {
				return err
			}
		}
		return nil
	case types.Struct:
		buf.WriteByte(tagStruct)
		fields := t.Fields()
		vals := v.FieldValues()
		for i, f := range fields {
			if err := encodeBinary(buf, vals[i], f.Type); err != nil {
				return err
			}
		}
		return nil
	case types.Variant:
		buf.WriteByte(tagVariant)
		c, ok := t.CaseByName(v.CaseName())
		if !ok {
			return fmt.Errorf("codec: unknown variant case %q", v.CaseName())
		}
		writeBytes(buf, []byte(v.CaseName()))
		return encodeBinary(buf, v.Payload(), c.Type)
	case types.Ref:
		buf.WriteByte(tagRef)
		return encodeBinary(buf, v.Cell(), t.Elem())
	default:
		return fmt.Errorf("codec: unsupported type kind %s for binary encoding", t.Kind())
	}
}

func encodeBinarySeq(buf *bytes.Buffer, items []*values.Value, elemType *types.Type) error {
	writeUvarint(buf, uint64(len(items)))
	for _, it := range items {
		if err := encodeBinary(buf, it, elemType); err != nil {
			return err
		}
	}
	return nil
}

func writeUvarint(buf *bytes.Buffer, n uint64) {
	var tmp [binary.MaxVarintLen64]byte
	size := binary.PutUvarint(tmp[:], n)
	buf.Write(tmp[:size])
}

func writeZigzag(buf *bytes.Buffer, n int64) {
	writeUvarint(buf, zigzagEncode(n))
}

func zigzagEncode(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

func zigzagDecode(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUvarint(buf, uint64(len(b)))
	buf.Write(b)
}

// DecodeBinary parses the length-prefixed binary form into a value of type
// t, the inverse of EncodeBinary.
func DecodeBinary(data []byte, t *types.Type) (*values.Value, error) {
	r := bytes.NewReader(data)
	v, err := decodeBinary(r, t)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("codec: %d trailing bytes after binary value", r.Len())
	}
	return v, nil
}

func decodeBinary(r *bytes.Reader, t *types.Type) (*values.Value, error) {
	if t.Kind() == types.Recursive {
		return decodeBinary(r, t.Inner())
	}
	tag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("codec: unexpected end of binary input: %w", err)
	}
	switch t.Kind() {
	case types.Never:
		return nil, fmt.Errorf("codec: no value of type never")
	case types.Null:
		if tag != tagNull {
			return nil, fmt.Errorf("codec: expected null tag, got %d", tag)
		}
		return values.Null, nil
	case types.Boolean:
		if tag != tagBoolean {
			return nil, fmt.Errorf("codec: expected boolean tag, got %d", tag)
		}
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return values.NewBoolean(b != 0), nil
	case types.Integer:
		if tag != tagInteger {
			return nil, fmt.Errorf("codec: expected integer tag, got %d", tag)
		}
		n, err := readZigzag(r)
		if err != nil {
			return nil, err
		}
		return values.NewInteger(n), nil
	case types.Float:
		if tag != tagFloat {
			return nil, fmt.Errorf("codec: expected float tag, got %d", tag)
		}
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, fmt.Errorf("codec: truncated float: %w", err)
		}
		return values.NewFloat(math.Float64frombits(binary.LittleEndian.Uint64(b[:]))), nil
	case types.String:
		if tag != tagString {
			return nil, fmt.Errorf("codec: expected string tag, got %d", tag)
		}
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		return values.NewString(string(b)), nil
	case types.Datetime:
		if tag != tagDatetime {
			return nil, fmt.Errorf("codec: expected datetime tag, got %d", tag)
		}
		n, err := readZigzag(r)
		if err != nil {
			return nil, err
		}
		return values.NewDatetime(n), nil
	case types.Blob:
		if tag != tagBlob {
			return nil, fmt.Errorf("codec: expected blob tag, got %d", tag)
		}
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		return values.NewBlob(b), nil
	case types.Array:
		if tag != tagArray {
			return nil, fmt.Errorf("codec: expected array tag, got %d", tag)
		}
		return decodeBinarySeq(r, t.Elem(), func(elemType *types.Type, items []*values.Value) *values.Value {
			return values.NewArray(elemType, items)
		})
	case types.Set:
		if tag != tagSet {
			return nil, fmt.Errorf("codec: expected set tag, got %d", tag)
		}
		return decodeBinarySeq(r, t.Elem(), func(elemType *types.Type, items []*values.Value) *values.Value {
			return values.NewSet(elemType, items)
		})
	case types.Dict:
		if tag != tagDict {
			return nil, fmt.Errorf("codec: expected dict tag, got %d", tag)
		}
		count, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("codec: truncated dict count: %w", err)
		}
		pairs := make([]values.DictPair, 0, count)
		for i := uint64(0); i < count; i++ {
			key, err := decodeBinary(r, t.Key())
			if err != nil {
				releaseDictPairs(pairs)
				return nil, err
			}
			val, err := decodeBinary(r, t.Value())
			if err != nil {
				key.Release()
				releaseDictPairs(pairs)
				return nil, err
			}
			pairs = append(pairs, values.DictPair{Key: key, Value: val})
		}
		result := values.NewDict(pairs)
		releaseDictPairs(pairs)
		return result, nil
	case types.Struct:
		if tag != tagStruct {
			return nil, fmt.Errorf("codec: expected struct tag, got %d", tag)
		}
		fields := t.Fields()
		out := make([]*values.Value, len(fields))
		for i, f := range fields {
			v, err := decodeBinary(r, f.Type)
			if err != nil {
				releaseAll(out[:i])
				return nil, err
			}
			out[i] = v
		}
		result := values.NewStruct(t, out)
		releaseAll(out)
		return result, nil
	case types.Variant:
		if tag != tagVariant {
			return nil, fmt.Errorf("codec: expected variant tag, got %d", tag)
		}
		nameBytes, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		name := string(nameBytes)
		c, ok := t.CaseByName(name)
		if !ok {
			return nil, fmt.Errorf("codec: unknown variant case %q", name)
		}
		payload, err := decodeBinary(r, c.Type)
		if err != nil {
			return nil, err
		}
		v := values.NewVariant(t, name, payload)
		payload.Release()
		return v, nil
	case types.Ref:
		if tag != tagRef {
			return nil, fmt.Errorf("codec: expected ref tag, got %d", tag)
		}
		cell, err := decodeBinary(r, t.Elem())
		if err != nil {
			return nil, err
		}
		v := values.NewRef(t.Elem(), cell)
		cell.Release()
		return v, nil
	default:
		return nil, fmt.Errorf("codec: unsupported type kind %s for binary decoding", t.Kind())
	}
}

func decodeBinarySeq(r *bytes.Reader, elemType *types.Type, build func(*types.Type, []*values.Value) *values.Value) (*values.Value, error) {
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("codec: truncated sequence count: %w", err)
	}
	items := make([]*values.Value, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := decodeBinary(r, elemType)
		if err != nil {
			releaseAll(items)
			return nil, err
		}
		items = append(items, v)
	}
	result := build(elemType, items)
	releaseAll(items)
	return result, nil
}

func readZigzag(r *bytes.Reader) (int64, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, fmt.Errorf("codec: truncated varint: %w", err)
	}
	return zigzagDecode(n), nil
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("codec: truncated length prefix: %w", err)
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("codec: truncated byte payload: %w", err)
	}
	return out, nil
}
