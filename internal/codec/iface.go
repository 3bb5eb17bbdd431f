package codec

import (
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// Codec is the uniform encode/decode contract pkg/loom's host API operates
// against, letting a caller choose a wire format (JSON, binary, text)
// without the host API itself branching on which one.
type Codec interface {
	Name() string
	Encode(v *values.Value, t *types.Type) ([]byte, error)
	Decode(data []byte, t *types.Type) (*values.Value, error)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(v *values.Value, t *types.Type) ([]byte, error) {
	s, err := EncodeJSON(v, t)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (jsonCodec) Decode(data []byte, t *types.Type) (*values.Value, error) {
	return DecodeJSON(string(data), t)
}

type binaryCodec struct{}

func (binaryCodec) Name() string { return "binary" }

func (binaryCodec) Encode(v *values.Value, t *types.Type) ([]byte, error) {
	return EncodeBinary(v, t)
}

func (binaryCodec) Decode(data []byte, t *types.Type) (*values.Value, error) {
	return DecodeBinary(data, t)
}

type textCodec struct{}

func (textCodec) Name() string { return "text" }

func (textCodec) Encode(v *values.Value, t *types.Type) ([]byte, error) {
	s, err := PrintText(v, t)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (textCodec) Decode(data []byte, t *types.Type) (*values.Value, error) {
	return ParseText(string(data), t)
}

// JSON, Binary, and Text are the three stock Codec implementations
// pkg/loom and cmd/loom select between.
var (
	JSON   Codec = jsonCodec{}
	Binary Codec = binaryCodec{}
	Text   Codec = textCodec{}
)

// ByName resolves a codec by its Name() for CLI flag handling.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON, true
	case "binary":
		return Binary, true
	case "text":
		return Text, true
	default:
		return nil, false
	}
}
