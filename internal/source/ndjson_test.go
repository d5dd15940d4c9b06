package source

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/mirror/gateway"
	"github.com/zoobzio/mirror/internal/shared"
)

func collect(t *testing.T, src Source) []Item {
	t.Helper()
	var items []Item
	err := src.Run(context.Background(), func(_ context.Context, item Item) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return items
}

func TestNDJSON_Run(t *testing.T) {
	input := strings.Join([]string{
		`{"t":"CHANNEL_CREATE","d":{"id":"1","guild_id":"2","type":0,"name":"general"}}`,
		``,
		`   `,
		`{"t":"NOT_A_THING","d":{}}`,
		`{"t":"MESSAGE_DELETE","d":{"id":"5","channel_id":"1"}}`,
	}, "\n")

	items := collect(t, NewNDJSON(strings.NewReader(input)))
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	t.Run("decoded", func(t *testing.T) {
		ev, ok := items[0].Event.(*gateway.ChannelCreate)
		if !ok {
			t.Fatalf("expected *ChannelCreate, got %T", items[0].Event)
		}
		if ev.ID != 1 || ev.GuildID != 2 {
			t.Errorf("unexpected channel: %+v", ev.Channel)
		}
		if items[0].Seq != 1 {
			t.Errorf("expected seq 1, got %d", items[0].Seq)
		}
	})

	t.Run("unknown event continues", func(t *testing.T) {
		if !errors.Is(items[1].Err, shared.ErrUnknownEvent) {
			t.Errorf("expected ErrUnknownEvent, got %v", items[1].Err)
		}
		if items[1].Event != nil {
			t.Errorf("expected nil event, got %T", items[1].Event)
		}
		if _, ok := items[2].Event.(*gateway.MessageDelete); !ok {
			t.Errorf("expected *MessageDelete, got %T", items[2].Event)
		}
		if items[2].Seq != 3 {
			t.Errorf("blank lines should not advance seq, got %d", items[2].Seq)
		}
	})

	t.Run("raw retained", func(t *testing.T) {
		if !strings.HasPrefix(string(items[2].Raw), `{"t":"MESSAGE_DELETE"`) {
			t.Errorf("unexpected raw: %s", items[2].Raw)
		}
	})
}

func TestNDJSON_YieldError(t *testing.T) {
	input := "{\"t\":\"CHANNEL_PINS_UPDATE\",\"d\":{\"channel_id\":\"1\"}}\n{\"t\":\"CHANNEL_PINS_UPDATE\",\"d\":{\"channel_id\":\"2\"}}\n"
	stop := errors.New("stop")

	calls := 0
	err := NewNDJSON(strings.NewReader(input)).Run(context.Background(), func(context.Context, Item) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected stop error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestNDJSON_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "{\"t\":\"CHANNEL_PINS_UPDATE\",\"d\":{\"channel_id\":\"1\"}}\n"
	err := NewNDJSON(strings.NewReader(input)).Run(ctx, func(context.Context, Item) error {
		t.Error("yield should not be called")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNDJSON_MaxFrame(t *testing.T) {
	run := func(input string, limit int) (int, error) {
		yielded := 0
		err := NewNDJSON(strings.NewReader(input)).WithMaxFrame(limit).Run(context.Background(), func(context.Context, Item) error {
			yielded++
			return nil
		})
		return yielded, err
	}

	t.Run("tiny limit", func(t *testing.T) {
		_, err := run(`{"t":"CHANNEL_PINS_UPDATE","d":{"channel_id":"1"}}`, 8)
		if !errors.Is(err, bufio.ErrTooLong) {
			t.Errorf("expected bufio.ErrTooLong, got %v", err)
		}
	})

	t.Run("limit below the default buffer", func(t *testing.T) {
		topic := strings.Repeat("x", 40000)
		line := `{"t":"STAGE_INSTANCE_CREATE","d":{"id":"1","guild_id":"2","channel_id":"3","topic":"` + topic + `"}}`
		yielded, err := run(line+"\n", 1024)
		if !errors.Is(err, bufio.ErrTooLong) {
			t.Errorf("expected bufio.ErrTooLong, got %v", err)
		}
		if yielded != 0 {
			t.Errorf("oversized line should not be yielded, got %d", yielded)
		}
	})

	t.Run("within limit", func(t *testing.T) {
		yielded, err := run(`{"t":"CHANNEL_PINS_UPDATE","d":{"channel_id":"1"}}`+"\n", 1024)
		if err != nil || yielded != 1 {
			t.Errorf("expected one item, got %d %v", yielded, err)
		}
	})
}

func TestNATS_NotConnected(t *testing.T) {
	err := NewNATS(nil, "gateway.events", "").Run(context.Background(), func(context.Context, Item) error {
		return nil
	})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}
