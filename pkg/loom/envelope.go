package loom

import (
	"fmt"

	"github.com/loomlang/loom/internal/codec"
	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/reflect"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// The constant pool internal/reflect.ValueOfIR returns alongside a
// reflected IR node is heterogeneously typed: a literal's pool entry has
// that literal's own type, not one uniform schema. EncodeIR/DecodeIR
// bridge that gap for a type-directed codec by wrapping each pool entry in
// a self-describing {type, payload} pair — the entry's type reflected as a
// type-of-types value, its payload encoded through c against that type and
// stored as a blob — nested inside an envelope struct alongside the node
// itself (encoded against reflect.NodeSchemaType()).

func poolEntryEnvelopeType() *types.Type {
	tot := reflect.TypeOfTypesType()
	t := types.NewStruct([]types.Field{
		{Name: "type", Type: tot},
		{Name: "payload", Type: types.TBlob},
	})
	tot.Release()
	return t
}

func envelopeType() *types.Type {
	entryType := poolEntryEnvelopeType()
	poolArr := types.NewArray(entryType)
	nodeSchema := reflect.NodeSchemaType()
	t := types.NewStruct([]types.Field{
		{Name: "node", Type: nodeSchema},
		{Name: "pool", Type: poolArr},
	})
	entryType.Release()
	poolArr.Release()
	nodeSchema.Release()
	return t
}

// EncodeIR serializes node (and the constant pool its reflected form
// references) through c into a self-contained envelope Runtime.LoadIR can
// later decode back into the same tree.
func EncodeIR(node *ir.Node, c codec.Codec) ([]byte, error) {
	nodeVal, pool, poolTypes := reflect.ValueOfIR(node)
	defer nodeVal.Release()
	defer releaseAll(pool)

	entryType := poolEntryEnvelopeType()
	defer entryType.Release()

	entries := make([]*values.Value, 0, len(pool))
	defer releaseAll(entries)
	for i, entry := range pool {
		typeVal := reflect.ValueOfType(poolTypes[i])
		payload, err := c.Encode(entry, poolTypes[i])
		if err != nil {
			typeVal.Release()
			return nil, fmt.Errorf("loom: encoding constant pool entry %d: %w", i, err)
		}
		blobVal := values.NewBlob(payload)
		// NewStruct's field order follows the type's declared (sorted)
		// field order, and "payload" sorts before "type" lexicographically.
		entries = append(entries, values.NewStruct(entryType, []*values.Value{blobVal, typeVal}))
		typeVal.Release()
		blobVal.Release()
	}

	poolArr := types.NewArray(entryType)
	poolVal := values.NewArray(poolArr, entries)
	poolArr.Release()
	defer poolVal.Release()

	et := envelopeType()
	defer et.Release()
	envelope := values.NewStruct(et, []*values.Value{nodeVal, poolVal})
	defer envelope.Release()

	return c.Encode(envelope, et)
}

// DecodeIR is the inverse of EncodeIR.
func DecodeIR(data []byte, c codec.Codec) (*ir.Node, error) {
	et := envelopeType()
	defer et.Release()

	envelope, err := c.Decode(data, et)
	if err != nil {
		return nil, err
	}
	defer envelope.Release()

	nodeVal, ok := envelope.FieldByName("node")
	if !ok {
		return nil, fmt.Errorf("loom: IR envelope missing node field")
	}
	poolField, ok := envelope.FieldByName("pool")
	if !ok {
		return nil, fmt.Errorf("loom: IR envelope missing pool field")
	}

	pool := make([]*values.Value, len(poolField.Items()))
	defer releaseAll(pool)
	for i, entry := range poolField.Items() {
		typeField, ok := entry.FieldByName("type")
		if !ok {
			return nil, fmt.Errorf("loom: pool entry %d missing type field", i)
		}
		payloadField, ok := entry.FieldByName("payload")
		if !ok {
			return nil, fmt.Errorf("loom: pool entry %d missing payload field", i)
		}
		entryType, err := reflect.TypeOfValue(typeField)
		if err != nil {
			return nil, fmt.Errorf("loom: pool entry %d: %w", i, err)
		}
		v, err := c.Decode(payloadField.Bytes(), entryType)
		entryType.Release()
		if err != nil {
			return nil, fmt.Errorf("loom: decoding constant pool entry %d: %w", i, err)
		}
		pool[i] = v
	}

	return reflect.IRFromValue(nodeVal, pool)
}

func releaseAll(vs []*values.Value) {
	for _, v := range vs {
		v.Release()
	}
}

// EncodeType serializes t through c against reflect.TypeOfTypesType's
// schema, the encode-side counterpart to Runtime.LoadType — not part of
// the core host API surface itself (a host that loads types only ever
// needs the decode direction) but kept here for symmetry, and used by
// this package's own round-trip tests.
func EncodeType(t *types.Type, c codec.Codec) ([]byte, error) {
	schema := reflect.TypeOfTypesType()
	defer schema.Release()
	v := reflect.ValueOfType(t)
	defer v.Release()
	return c.Encode(v, schema)
}
