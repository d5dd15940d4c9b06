package mirror

import "encoding/binary"

// ownerPrefix is the width of the big-endian owner id in a composite value.
const ownerPrefix = 8

// Owned is a composite cached value: the payload plus the id of the entity
// that owns it. It is used for children stored at keys that do not encode
// their parent, such as emojis, stickers and stage instances.
type Owned[T any] struct {
	OwnerID uint64
	Value   T
}

// EncodeOwned encodes v with c and prefixes the result with owner.
func EncodeOwned(c Codec, owner uint64, v any) ([]byte, error) {
	data, err := encode(c, v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, ownerPrefix, ownerPrefix+len(data))
	binary.BigEndian.PutUint64(out, owner)
	return append(out, data...), nil
}

// OwnedValue returns a decoder for composite values written by EncodeOwned.
func OwnedValue[T any](c Codec) Decoder[Owned[T]] {
	return func(reply any) (Owned[T], error) {
		var o Owned[T]
		data, err := Bytes(reply)
		if err != nil {
			return o, err
		}
		if len(data) < ownerPrefix {
			return o, parseError("composite value shorter than owner prefix", reply)
		}
		o.OwnerID = binary.BigEndian.Uint64(data[:ownerPrefix])
		if err := c.Decode(data[ownerPrefix:], &o.Value); err != nil {
			return o, parseError("failed to decode value: "+err.Error(), reply)
		}
		return o, nil
	}
}
