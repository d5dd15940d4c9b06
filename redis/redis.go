// Package redis provides a mirror Driver implementation for Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zoobzio/mirror/internal/shared"
)

// Mode selects how connections are leased from the client.
type Mode int

const (
	// Multiplexed shares the client across every lease. Close is a no-op.
	Multiplexed Mode = iota
	// Pooled dedicates one pooled connection to each lease until Close.
	Pooled
)

func (m Mode) String() string {
	switch m {
	case Multiplexed:
		return "multiplexed"
	case Pooled:
		return "pooled"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "multiplexed" or "pooled".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "multiplexed", "":
		return Multiplexed, nil
	case "pooled":
		return Pooled, nil
	default:
		return 0, fmt.Errorf("%w: unknown redis mode %q", shared.ErrInvalidConfig, s)
	}
}

// Driver implements mirror.Driver for Redis.
type Driver struct {
	client *redis.Client
	mode   Mode
}

// New creates a Redis driver over client.
func New(client *redis.Client, mode Mode) *Driver {
	return &Driver{client: client, mode: mode}
}

// Open parses a redis:// URL, connects and verifies the server responds.
func Open(ctx context.Context, url string, mode Mode) (*Driver, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidConfig, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, classify(err)
	}
	return New(client, mode), nil
}

// Client returns the underlying client.
func (d *Driver) Client() *redis.Client {
	return d.client
}

// Mode returns the lease mode.
func (d *Driver) Mode() Mode {
	return d.mode
}

// Close closes the underlying client.
func (d *Driver) Close() error {
	return d.client.Close()
}

// Acquire leases a connection.
func (d *Driver) Acquire(ctx context.Context) (shared.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrPool, err)
	}
	if d.mode == Pooled {
		rc := d.client.Conn()
		return &conn{p: rc, dedicated: rc}, nil
	}
	return &conn{p: d.client}, nil
}

type pipeliner interface {
	Pipeline() redis.Pipeliner
	TxPipeline() redis.Pipeliner
}

// conn executes batches over either the shared client or a dedicated
// pooled connection.
type conn struct {
	p         pipeliner
	dedicated *redis.Conn
}

// Close returns a dedicated connection to the pool.
func (c *conn) Close() error {
	if c.dedicated == nil {
		return nil
	}
	err := c.dedicated.Close()
	c.dedicated = nil
	if err != nil && !errors.Is(err, redis.ErrClosed) {
		return classify(err)
	}
	return nil
}

// Exec sends cmds in one pipeline, wrapped in MULTI/EXEC when atomic.
// Replies come back in command order; a missing value is a nil reply.
func (c *conn) Exec(ctx context.Context, cmds []shared.Command, atomic bool) ([]any, error) {
	if len(cmds) == 0 {
		return nil, nil
	}

	var pipe redis.Pipeliner
	if atomic {
		pipe = c.p.TxPipeline()
	} else {
		pipe = c.p.Pipeline()
	}

	results := make([]*redis.Cmd, len(cmds))
	for i, cmd := range cmds {
		args := make([]any, 0, len(cmd.Args)+1)
		args = append(args, cmd.Name)
		args = append(args, cmd.Args...)
		results[i] = pipe.Do(ctx, args...)
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, classify(err)
	}

	replies := make([]any, len(results))
	for i, r := range results {
		v, err := r.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, classify(err)
		}
		replies[i] = normalize(v)
	}
	return replies, nil
}

// normalize maps go-redis reply values onto the shapes the reply decoders
// accept: nil, string, int64 and []any.
func normalize(v any) any {
	switch r := v.(type) {
	case []any:
		out := make([]any, len(r))
		for i, e := range r {
			out[i] = normalize(e)
		}
		return out
	case bool:
		if r {
			return int64(1)
		}
		return int64(0)
	case map[any]struct{}:
		out := make([]any, 0, len(r))
		for k := range r {
			out = append(out, normalize(k))
		}
		return out
	default:
		return v
	}
}

func classify(err error) error {
	switch {
	case errors.Is(err, redis.ErrPoolTimeout), errors.Is(err, redis.ErrClosed):
		return fmt.Errorf("%w: %w", shared.ErrPool, err)
	default:
		return fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}
}
