package mirror

import (
	"context"
	"testing"

	"github.com/zoobzio/mirror/gateway"
	"github.com/zoobzio/mirror/internal/memstore"
	"github.com/zoobzio/mirror/model"
)

func newTestCache(t *testing.T, opts ...Option) (*Cache, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	cache, err := New(store, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return cache, store
}

func withResources(r Resource) Option {
	cfg := DefaultConfig()
	cfg.Resources = r
	return WithConfig(cfg)
}

func apply(t *testing.T, cache *Cache, events ...gateway.Event) {
	t.Helper()
	ctx := context.Background()
	for _, ev := range events {
		if err := cache.Update(ctx, ev); err != nil {
			t.Fatalf("Update(%s) failed: %v", ev.EventName(), err)
		}
	}
}

func mustEncode(t *testing.T, v any) []byte {
	t.Helper()
	data, err := MsgpackCodec{}.Encode(v)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return data
}

// decodeAt decodes the msgpack value stored at k into a T.
func decodeAt[T any](t *testing.T, store *memstore.Store, k Key) (T, bool) {
	t.Helper()
	var v T
	data, ok := store.Value(k.String())
	if !ok {
		return v, false
	}
	if err := (MsgpackCodec{}).Decode(data, &v); err != nil {
		t.Fatalf("decode %s failed: %v", k, err)
	}
	return v, true
}

// decodeOwnedAt decodes an owner-prefixed msgpack value stored at k.
func decodeOwnedAt[T any](t *testing.T, store *memstore.Store, k Key) (Owned[T], bool) {
	t.Helper()
	data, ok := store.Value(k.String())
	if !ok {
		return Owned[T]{}, false
	}
	o, err := OwnedValue[T](MsgpackCodec{})(data)
	if err != nil {
		t.Fatalf("decode %s failed: %v", k, err)
	}
	return o, true
}

func hasKey(store *memstore.Store, k Key) bool {
	for _, key := range store.Keys() {
		if key == k.String() {
			return true
		}
	}
	return false
}

func seedGuild(t *testing.T, store *memstore.Store, g model.Guild) {
	t.Helper()
	store.Seed(GuildKey(g.ID).String(), mustEncode(t, g))
}

func idStrings(ids ...uint64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(EncodeID(id))
	}
	return out
}
