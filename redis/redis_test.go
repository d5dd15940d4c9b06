package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/zoobzio/mirror/internal/shared"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Multiplexed, false},
		{"multiplexed", Multiplexed, false},
		{"pooled", Pooled, false},
		{"cluster", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMode_String(t *testing.T) {
	if Multiplexed.String() != "multiplexed" {
		t.Errorf("unexpected: %s", Multiplexed)
	}
	if Pooled.String() != "pooled" {
		t.Errorf("unexpected: %s", Pooled)
	}
	if Mode(9).String() != "Mode(9)" {
		t.Errorf("unexpected: %s", Mode(9))
	}
}

func TestNormalize(t *testing.T) {
	t.Run("nested arrays", func(t *testing.T) {
		got := normalize([]any{"0", []any{"1", "2"}})
		arr, ok := got.([]any)
		if !ok || len(arr) != 2 {
			t.Fatalf("unexpected shape: %#v", got)
		}
		inner, ok := arr[1].([]any)
		if !ok || len(inner) != 2 || inner[0] != "1" {
			t.Errorf("unexpected inner: %#v", arr[1])
		}
	})

	t.Run("booleans become integers", func(t *testing.T) {
		if normalize(true) != int64(1) {
			t.Error("true should be 1")
		}
		if normalize(false) != int64(0) {
			t.Error("false should be 0")
		}
	})

	t.Run("sets become arrays", func(t *testing.T) {
		got := normalize(map[any]struct{}{"7": {}})
		arr, ok := got.([]any)
		if !ok || len(arr) != 1 || arr[0] != "7" {
			t.Errorf("unexpected: %#v", got)
		}
	})

	t.Run("scalars pass through", func(t *testing.T) {
		if normalize(int64(5)) != int64(5) {
			t.Error("int64 changed")
		}
		if normalize("x") != "x" {
			t.Error("string changed")
		}
		if normalize(nil) != nil {
			t.Error("nil changed")
		}
	})
}

func TestClassify(t *testing.T) {
	if err := classify(redis.ErrPoolTimeout); !errors.Is(err, shared.ErrPool) {
		t.Errorf("pool timeout should be ErrPool, got %v", err)
	}
	if err := classify(redis.ErrClosed); !errors.Is(err, shared.ErrPool) {
		t.Errorf("closed client should be ErrPool, got %v", err)
	}
	err := classify(errors.New("WRONGTYPE"))
	if !errors.Is(err, shared.ErrTransport) {
		t.Errorf("server error should be ErrTransport, got %v", err)
	}
}

func TestAcquire_CanceledContext(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(client, Pooled).Acquire(ctx)
	if !errors.Is(err, shared.ErrPool) {
		t.Errorf("expected ErrPool, got %v", err)
	}
}

func TestConn_EmptyBatch(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	conn, err := New(client, Multiplexed).Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer conn.Close()

	replies, err := conn.Exec(context.Background(), nil, true)
	if err != nil || replies != nil {
		t.Errorf("expected no round trip, got %v %v", replies, err)
	}
}
