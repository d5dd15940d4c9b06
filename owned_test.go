package mirror

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestOwned_RoundTrip(t *testing.T) {
	codecs := map[string]Codec{"msgpack": MsgpackCodec{}, "json": JSONCodec{}}
	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			data, err := EncodeOwned(codec, 81384788765712384, testValue{Name: "wave", Value: 1})
			if err != nil {
				t.Fatalf("EncodeOwned failed: %v", err)
			}
			if got := binary.BigEndian.Uint64(data[:8]); got != 81384788765712384 {
				t.Errorf("prefix = %d", got)
			}

			o, err := OwnedValue[testValue](codec)(data)
			if err != nil {
				t.Fatalf("OwnedValue failed: %v", err)
			}
			if o.OwnerID != 81384788765712384 || o.Value.Name != "wave" {
				t.Errorf("unexpected owned value: %+v", o)
			}
		})
	}
}

func TestOwned_OwnerBoundaries(t *testing.T) {
	for _, owner := range []uint64{0, 1, math.MaxUint64} {
		data, err := EncodeOwned(MsgpackCodec{}, owner, testValue{Name: "x"})
		if err != nil {
			t.Fatalf("EncodeOwned(%d) failed: %v", owner, err)
		}
		o, err := OwnedValue[testValue](MsgpackCodec{})(data)
		if err != nil {
			t.Fatalf("OwnedValue(%d) failed: %v", owner, err)
		}
		if o.OwnerID != owner || o.Value.Name != "x" {
			t.Errorf("owner %d round-tripped as %+v", owner, o)
		}
	}
}

func TestOwned_Errors(t *testing.T) {
	d := OwnedValue[testValue](MsgpackCodec{})

	if _, err := d([]byte{0, 1, 2}); !errors.Is(err, ErrParse) {
		t.Errorf("short value should be ErrParse, got %v", err)
	}
	if _, err := d(nil); !errors.Is(err, ErrParse) {
		t.Errorf("nil should be ErrParse, got %v", err)
	}
	bad := append(make([]byte, 8), 0xc1)
	if _, err := d(bad); !errors.Is(err, ErrParse) {
		t.Errorf("undecodable payload should be ErrParse, got %v", err)
	}
	if _, err := EncodeOwned(JSONCodec{}, 1, make(chan int)); !errors.Is(err, ErrEncode) {
		t.Errorf("expected ErrEncode, got %v", err)
	}
}
