package mirror

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec marshals cached values to and from bytes.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	ContentType() string
}

// MsgpackCodec implements Codec using MessagePack encoding.
// It is the default codec of DefaultStrategy.
type MsgpackCodec struct{}

// Encode serializes a value to MessagePack bytes.
func (MsgpackCodec) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes MessagePack bytes into a value.
func (MsgpackCodec) Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// ContentType returns the MessagePack MIME type.
func (MsgpackCodec) ContentType() string {
	return "application/msgpack"
}

// JSONCodec implements Codec using JSON encoding.
type JSONCodec struct{}

// Encode serializes a value to JSON bytes.
func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode deserializes JSON bytes into a value.
func (JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// Ensure codecs implement Codec.
var (
	_ Codec = MsgpackCodec{}
	_ Codec = JSONCodec{}
)

// encode marshals v, wrapping failures in ErrEncode.
func encode(c Codec, v any) ([]byte, error) {
	data, err := c.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return data, nil
}
