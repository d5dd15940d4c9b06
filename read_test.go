package mirror

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/mirror/internal/memstore"
	"github.com/zoobzio/mirror/model"
)

func seededCache(t *testing.T) (*Cache, *memstore.Store) {
	t.Helper()
	cache, store := newTestCache(t)
	store.SeedSet("GUILD_CHANNELS:7", "1", "2", "3")
	store.Seed("CHANNEL:1", mustEncode(t, model.Channel{ID: 1, Name: "general"}))
	store.Seed("CHANNEL:2", mustEncode(t, model.Channel{ID: 2, Name: "random"}))
	store.SeedList("CHANNEL_MESSAGES:1", "10", "11", "12")
	store.Seed("MESSAGE:10", mustEncode(t, model.Message{ID: 10, Content: "a"}))
	store.Seed("MESSAGE:12", mustEncode(t, model.Message{ID: 12, Content: "c"}))
	return cache, store
}

func TestCache_RawReads(t *testing.T) {
	cache, store := seededCache(t)
	ctx := context.Background()

	t.Run("Get", func(t *testing.T) {
		data, err := cache.Get(ctx, ChannelKey(1))
		if err != nil || len(data) == 0 {
			t.Errorf("Get: %v %v", data, err)
		}
		missing, err := cache.Get(ctx, ChannelKey(9))
		if err != nil || missing != nil {
			t.Errorf("missing Get: %v %v", missing, err)
		}
	})

	t.Run("Take", func(t *testing.T) {
		store.Seed("CHANNEL:99", []byte("x"))
		data, err := cache.Take(ctx, ChannelKey(99))
		if err != nil || string(data) != "x" {
			t.Errorf("Take: %q %v", data, err)
		}
		if _, ok := store.Value("CHANNEL:99"); ok {
			t.Error("Take should delete the value")
		}
		again, err := cache.Take(ctx, ChannelKey(99))
		if err != nil || again != nil {
			t.Errorf("second Take: %v %v", again, err)
		}
	})

	t.Run("sets", func(t *testing.T) {
		ids, err := cache.Members(ctx, GuildChannelsKey(7))
		slices.Sort(ids)
		if err != nil || !slices.Equal(ids, []uint64{1, 2, 3}) {
			t.Errorf("Members: %v %v", ids, err)
		}
		n, err := cache.MemberCount(ctx, GuildChannelsKey(7))
		if err != nil || n != 3 {
			t.Errorf("MemberCount: %d %v", n, err)
		}
		ok, err := cache.IsMember(ctx, GuildChannelsKey(7), 2)
		if err != nil || !ok {
			t.Errorf("IsMember(2): %v %v", ok, err)
		}
		ok, err = cache.IsMember(ctx, GuildChannelsKey(7), 4)
		if err != nil || ok {
			t.Errorf("IsMember(4): %v %v", ok, err)
		}
	})

	t.Run("lists", func(t *testing.T) {
		n, err := cache.ListLen(ctx, 1)
		if err != nil || n != 3 {
			t.Errorf("ListLen: %d %v", n, err)
		}
		newest, err := cache.ListIndex(ctx, 1, -1)
		if err != nil || newest == nil || *newest != 12 {
			t.Errorf("ListIndex(-1): %v %v", newest, err)
		}
		ids, err := cache.ListRange(ctx, 1, 1, -1)
		if err != nil || !slices.Equal(ids, []uint64{11, 12}) {
			t.Errorf("ListRange: %v %v", ids, err)
		}
	})

	if store.Outstanding() != 0 {
		t.Errorf("lease leaked: %d outstanding", store.Outstanding())
	}
}

func TestCache_Reads_AcquireError(t *testing.T) {
	cache, store := seededCache(t)
	store.SetAcquireErr(ErrPool)
	ctx := context.Background()

	if _, err := cache.Get(ctx, ChannelKey(1)); !errors.Is(err, ErrPool) {
		t.Errorf("Get: expected ErrPool, got %v", err)
	}
	if _, err := cache.Members(ctx, GuildChannelsKey(7)); !errors.Is(err, ErrPool) {
		t.Errorf("Members: expected ErrPool, got %v", err)
	}
	if _, err := NewReader[model.Channel](cache).Get(ctx, ChannelKey(1)); !errors.Is(err, ErrPool) {
		t.Errorf("Reader.Get: expected ErrPool, got %v", err)
	}
}

func TestChannelMessages(t *testing.T) {
	cache, _ := seededCache(t)
	msgs, err := ChannelMessages[model.Message](context.Background(), cache, 1, 0, -1)
	if err != nil {
		t.Fatalf("ChannelMessages failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "a" || msgs[1].Content != "c" {
		t.Errorf("missing values should be skipped in order, got %+v", msgs)
	}

	empty, err := ChannelMessages[model.Message](context.Background(), cache, 2, 0, -1)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty channel: %v %v", empty, err)
	}
}

func TestReader(t *testing.T) {
	cache, store := seededCache(t)
	ctx := context.Background()
	r := NewReader[model.Channel](cache)

	if r.Metadata().TypeName != "Channel" {
		t.Errorf("unexpected metadata: %+v", r.Metadata())
	}

	t.Run("Get", func(t *testing.T) {
		ch, err := r.Get(ctx, ChannelKey(1))
		if err != nil || ch == nil || ch.Name != "general" {
			t.Errorf("Get: %+v %v", ch, err)
		}
		missing, err := r.Get(ctx, ChannelKey(9))
		if err != nil || missing != nil {
			t.Errorf("missing: %+v %v", missing, err)
		}
	})

	t.Run("Get undecodable", func(t *testing.T) {
		store.Seed("CHANNEL:50", []byte{0xc1})
		if _, err := r.Get(ctx, ChannelKey(50)); !errors.Is(err, ErrParse) {
			t.Errorf("expected ErrParse, got %v", err)
		}
	})

	t.Run("GetMany", func(t *testing.T) {
		vs, err := r.GetMany(ctx, ChannelKey(1), ChannelKey(3), ChannelKey(2))
		if err != nil || len(vs) != 3 {
			t.Fatalf("GetMany: %v %v", vs, err)
		}
		if vs[0].Name != "general" || vs[1] != nil || vs[2].Name != "random" {
			t.Errorf("unexpected positional results: %+v", vs)
		}
		none, err := r.GetMany(ctx)
		if err != nil || none != nil {
			t.Errorf("empty GetMany: %v %v", none, err)
		}
	})

	t.Run("Members", func(t *testing.T) {
		m, err := r.Members(ctx, GuildChannelsKey(7), ChannelKey)
		if err != nil {
			t.Fatalf("Members failed: %v", err)
		}
		if len(m) != 2 || m[1].Name != "general" || m[2].Name != "random" {
			t.Errorf("unexpected members: %+v", m)
		}
	})

	t.Run("GetOwned", func(t *testing.T) {
		data, err := EncodeOwned(MsgpackCodec{}, 7, model.Emoji{ID: 70, Name: "wave"})
		if err != nil {
			t.Fatalf("EncodeOwned failed: %v", err)
		}
		store.Seed("EMOJI:70", data)

		o, err := NewReader[model.Emoji](cache).GetOwned(ctx, EmojiKey(70))
		if err != nil || o == nil || o.OwnerID != 7 || o.Value.Name != "wave" {
			t.Errorf("GetOwned: %+v %v", o, err)
		}
		missing, err := NewReader[model.Emoji](cache).GetOwned(ctx, EmojiKey(71))
		if err != nil || missing != nil {
			t.Errorf("missing GetOwned: %+v %v", missing, err)
		}
	})
}

func TestReader_Signals(t *testing.T) {
	cache, store := seededCache(t)
	store.Seed("CHANNEL:404", []byte{0xc1})
	ctx := context.Background()
	r := NewReader[model.Channel](cache)

	var (
		mu     sync.Mutex
		found  []bool
		failed int
	)
	l1 := capitan.Hook(ReadCompleted, func(_ context.Context, e *capitan.Event) {
		if FieldKey.ExtractFromFields(e.Fields()) != "CHANNEL:1" {
			return
		}
		mu.Lock()
		found = append(found, FieldFound.ExtractFromFields(e.Fields()))
		mu.Unlock()
	})
	l2 := capitan.Hook(ReadFailed, func(_ context.Context, e *capitan.Event) {
		if FieldKey.ExtractFromFields(e.Fields()) != "CHANNEL:404" {
			return
		}
		mu.Lock()
		failed++
		mu.Unlock()
	})

	if _, err := r.Get(ctx, ChannelKey(1)); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := r.Get(ctx, ChannelKey(404)); err == nil {
		t.Fatal("undecodable value should fail")
	}

	_ = l1.Drain(ctx)
	_ = l2.Drain(ctx)
	l1.Close()
	l2.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(found) != 1 || !found[0] {
		t.Errorf("expected one ReadCompleted with found=true, got %v", found)
	}
	if failed != 1 {
		t.Errorf("expected one ReadFailed, got %d", failed)
	}
}
