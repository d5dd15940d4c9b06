package benchmarks

import (
	"context"
	"testing"

	"github.com/zoobzio/mirror"
	"github.com/zoobzio/mirror/gateway"
	mirrortesting "github.com/zoobzio/mirror/testing"
)

func newCache(b *testing.B, opts ...mirror.Option) *mirror.Cache {
	b.Helper()
	cache, _, err := mirrortesting.NewCache(opts...)
	if err != nil {
		b.Fatalf("new cache: %v", err)
	}
	return cache
}

// BenchmarkUpdate_MessageCreate measures inserts into a full bounded list.
func BenchmarkUpdate_MessageCreate(b *testing.B) {
	cfg := mirror.DefaultConfig()
	cfg.MessageCacheSize = 50
	cache := newCache(b, mirror.WithConfig(cfg))
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = cache.Update(ctx, &gateway.MessageCreate{Message: gateway.Message{
			ID:        gateway.ID(i + 1),
			ChannelID: 1,
			GuildID:   2,
			Author:    gateway.User{ID: 3},
			Content:   "hello",
		}})
	}
}

// BenchmarkUpdate_GuildEmojisUpdate measures reconciliation of a stable set.
func BenchmarkUpdate_GuildEmojisUpdate(b *testing.B) {
	cache := newCache(b)
	ctx := context.Background()

	emojis := make([]gateway.Emoji, 100)
	for i := range emojis {
		emojis[i] = gateway.Emoji{ID: gateway.ID(i + 1), Name: "e"}
	}
	ev := &gateway.GuildEmojisUpdate{GuildID: 1, Emojis: emojis}
	_ = cache.Update(ctx, ev)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = cache.Update(ctx, ev)
	}
}

// BenchmarkKey_Encode measures key encoding.
func BenchmarkKey_Encode(b *testing.B) {
	k := mirror.MemberKey(81384788765712384, 80351110224678912)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = k.Encode()
	}
}

// BenchmarkPipe_Build measures batch construction for a multi-index write.
func BenchmarkPipe_Build(b *testing.B) {
	value := []byte("value")

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := mirror.NewPipe().Atomic()
		p.SAdd(mirror.GuildMembersKey(1), uint64(i)).
			Set(mirror.MemberKey(1, uint64(i)), value).
			SAdd(mirror.UsersKey(), uint64(i)).
			Set(mirror.UserKey(uint64(i)), value)
	}
}
