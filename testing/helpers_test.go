package testing

import (
	"context"
	"testing"

	"github.com/zoobzio/mirror"
	"github.com/zoobzio/mirror/gateway"
)

func TestNewCache(t *testing.T) {
	cache, store, err := NewCache()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache == nil || store == nil {
		t.Fatal("expected cache and store")
	}
	if !cache.Wants(mirror.ResourceAll) {
		t.Error("default cache should want every resource")
	}
}

func TestNewCache_InvalidConfig(t *testing.T) {
	cfg := mirror.DefaultConfig()
	cfg.MessageCacheSize = 0
	if _, _, err := NewCache(mirror.WithConfig(cfg)); err == nil {
		t.Error("expected validation error")
	}
}

func TestApply(t *testing.T) {
	cache, store, err := NewCache()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	err = Apply(ctx, cache,
		&gateway.ChannelCreate{Channel: gateway.Channel{ID: 1, GuildID: 2, Name: "general"}},
		&gateway.ChannelCreate{Channel: gateway.Channel{ID: 3, GuildID: 2, Name: "random"}},
	)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got := store.Set("GUILD_CHANNELS:2"); len(got) != 2 {
		t.Errorf("expected 2 channels, got %v", got)
	}
	if store.Outstanding() != 0 {
		t.Errorf("leaked %d connections", store.Outstanding())
	}
}

func TestApply_StopsAtFailure(t *testing.T) {
	cache, store, err := NewCache()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = Apply(context.Background(), cache,
		nil,
		&gateway.ChannelCreate{Channel: gateway.Channel{ID: 1}},
	)
	if err == nil {
		t.Fatal("expected error for nil event")
	}
	if len(store.Keys()) != 0 {
		t.Errorf("later events should not run, keys: %v", store.Keys())
	}
}

func TestCapture_UpdateSignals(t *testing.T) {
	cache, _, err := NewCache()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	capture := Capture()

	if err := cache.Update(ctx, &gateway.UserUpdate{User: gateway.User{ID: 1}}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := capture.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	var started, completed []CapturedEvent
	for _, e := range capture.ForEvent("USER_UPDATE") {
		switch e.Signal {
		case mirror.UpdateStarted:
			started = append(started, e)
		case mirror.UpdateCompleted:
			completed = append(completed, e)
		}
	}
	if len(started) != 1 || len(completed) != 1 {
		t.Fatalf("expected one started and one completed, got %d and %d", len(started), len(completed))
	}
	if got := mirror.FieldOps.ExtractFromFields(completed[0].Fields); got != 1 {
		t.Errorf("expected 1 op, got %d", got)
	}
	if len(capture.BySignal(mirror.BatchExecuted)) == 0 {
		t.Error("expected a batch signal")
	}
}

func TestCapture_Whitelist(t *testing.T) {
	cfg := mirror.DefaultConfig()
	cfg.MessageCacheSize = 1
	cache, _, err := NewCache(mirror.WithConfig(cfg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	capture := Capture(mirror.MessageEvicted)

	err = Apply(ctx, cache,
		&gateway.MessageCreate{Message: gateway.Message{ID: 1, ChannelID: 900, Author: gateway.User{ID: 3}}},
		&gateway.MessageCreate{Message: gateway.Message{ID: 2, ChannelID: 900, Author: gateway.User{ID: 3}}},
	)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := capture.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	for _, e := range capture.Events() {
		if e.Signal != mirror.MessageEvicted {
			t.Errorf("unexpected signal %s", e.Signal.Name())
		}
	}
	evicted := capture.ForKey(mirror.ChannelMessagesKey(900))
	if len(evicted) != 1 {
		t.Fatalf("expected one eviction, got %d", len(evicted))
	}
	if ids := mirror.FieldIDs.ExtractFromFields(evicted[0].Fields); len(ids) != 1 || ids[0] != 1 {
		t.Errorf("expected message 1 evicted, got %v", ids)
	}
}

func TestCapture_StopEndsRecording(t *testing.T) {
	cache, _, err := NewCache()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	capture := Capture(mirror.UpdateCompleted)
	if err := capture.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	if err := cache.Update(ctx, &gateway.UserUpdate{User: gateway.User{ID: 77}}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := capture.ForEvent("USER_UPDATE"); len(got) != 0 {
		t.Errorf("stopped capture recorded %d events", len(got))
	}
}
