package mirror

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/sentinel"
)

// Reader provides typed reads of values written by a Cache.
// T must match what the cache Strategy stores for the keys read.
type Reader[T any] struct {
	driver   Driver
	codec    Codec
	key      capitan.GenericKey[T]
	metadata sentinel.Metadata
}

// NewReader creates a Reader for T over the driver and codec of c.
func NewReader[T any](c *Cache) *Reader[T] {
	return NewReaderWithCodec[T](c.driver, c.codec)
}

// NewReaderWithCodec creates a Reader for T with an explicit codec.
func NewReaderWithCodec[T any](driver Driver, codec Codec) *Reader[T] {
	if codec == nil {
		codec = MsgpackCodec{}
	}
	meta := sentinel.Inspect[T]()
	variant := capitan.Variant(meta.PackageName + "." + meta.TypeName)
	return &Reader[T]{
		driver:   driver,
		codec:    codec,
		key:      capitan.NewKey[T]("value", variant),
		metadata: meta,
	}
}

// Key returns the capitan key for extracting T from read events.
func (r *Reader[T]) Key() capitan.GenericKey[T] {
	return r.key
}

// Metadata returns the sentinel metadata for T.
func (r *Reader[T]) Metadata() sentinel.Metadata {
	return r.metadata
}

// Get returns the value at k, or nil when the key is absent.
func (r *Reader[T]) Get(ctx context.Context, k Key) (*T, error) {
	var v *T
	err := r.read(ctx, k, func(conn Conn) error {
		if err := NewPipe().Get(k).Query(ctx, conn, Into(&v, Optional(Value[T](r.codec)))); err != nil {
			return err
		}
		if v == nil {
			return nil
		}
		return callAfterLoad(ctx, v)
	}, func() []capitan.Field {
		if v == nil {
			return []capitan.Field{FieldFound.Field(false)}
		}
		return []capitan.Field{FieldFound.Field(true), r.key.Field(*v)}
	})
	return v, err
}

// GetOwned returns an owner-prefixed value at k, or nil when absent.
func (r *Reader[T]) GetOwned(ctx context.Context, k Key) (*Owned[T], error) {
	var v *Owned[T]
	err := r.read(ctx, k, func(conn Conn) error {
		if err := NewPipe().Get(k).Query(ctx, conn, Into(&v, Optional(OwnedValue[T](r.codec)))); err != nil {
			return err
		}
		if v == nil {
			return nil
		}
		return callAfterLoad(ctx, &v.Value)
	}, func() []capitan.Field {
		return []capitan.Field{FieldFound.Field(v != nil)}
	})
	return v, err
}

// GetMany reads keys with one MGET. Absent keys yield nil entries at their
// position.
func (r *Reader[T]) GetMany(ctx context.Context, keys ...Key) ([]*T, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var vs []*T
	err := r.read(ctx, keys[0], func(conn Conn) error {
		var err error
		vs, err = r.mget(ctx, conn, keys)
		return err
	}, func() []capitan.Field {
		return []capitan.Field{FieldOps.Field(len(keys))}
	})
	return vs, err
}

// Members scans set and reads the value of every member id, keyed by id.
// Members whose value is missing are omitted.
func (r *Reader[T]) Members(ctx context.Context, set Key, value func(id uint64) Key) (map[uint64]*T, error) {
	out := make(map[uint64]*T)
	err := r.read(ctx, set, func(conn Conn) error {
		ids, err := ScanIDs(ctx, conn, set)
		if err != nil || len(ids) == 0 {
			return err
		}
		keys := make([]Key, len(ids))
		for i, id := range ids {
			keys[i] = value(id)
		}
		vs, err := r.mget(ctx, conn, keys)
		if err != nil {
			return err
		}
		for i, v := range vs {
			if v != nil {
				out[ids[i]] = v
			}
		}
		return nil
	}, func() []capitan.Field {
		return []capitan.Field{FieldOps.Field(len(out))}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Reader[T]) mget(ctx context.Context, conn Conn, keys []Key) ([]*T, error) {
	var vs []*T
	if err := NewPipe().MGet(keys...).Query(ctx, conn, Into(&vs, Slice(Optional(Value[T](r.codec))))); err != nil {
		return nil, err
	}
	if err := callAfterLoadSlice(ctx, vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// read leases a connection for fn and emits the outcome. fields is
// evaluated only on success.
func (r *Reader[T]) read(ctx context.Context, k Key, fn func(Conn) error, fields func() []capitan.Field) error {
	start := time.Now()
	typeName := r.metadata.TypeName

	err := func() error {
		conn, err := r.driver.Acquire(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()
		return fn(conn)
	}()
	if err != nil {
		capitan.Emit(ctx, ReadFailed,
			FieldKey.Field(k.String()),
			FieldType.Field(typeName),
			FieldError.Field(err),
			FieldDuration.Field(time.Since(start)),
		)
		return err
	}

	capitan.Emit(ctx, ReadCompleted, append([]capitan.Field{
		FieldKey.Field(k.String()),
		FieldType.Field(typeName),
		FieldDuration.Field(time.Since(start)),
	}, fields()...)...)
	return nil
}
