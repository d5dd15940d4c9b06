// Package replay applies a stream of gateway dispatches to a cache with a
// pool of workers.
package replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/zoobzio/mirror/gateway"
	"github.com/zoobzio/mirror/internal/source"
)

// ErrClosed is returned to a source that yields after the run has ended.
var ErrClosed = errors.New("replay: runner closed")

// Applier applies one event. *mirror.Cache satisfies it.
type Applier interface {
	Update(ctx context.Context, ev gateway.Event) error
}

// Config tunes a Runner.
type Config struct {
	// Workers is the number of shards. Events of one owner always land on
	// the same worker.
	Workers int
	// QueueSize is the buffer of each worker queue.
	QueueSize int
	// StopOnError aborts the run at the first failed update instead of
	// logging it and moving on.
	StopOnError bool
}

// DefaultConfig returns the configuration used when a field is left zero.
func DefaultConfig() Config {
	return Config{Workers: 4, QueueSize: 256}
}

// Stats summarizes a run.
type Stats struct {
	RunID       uuid.UUID
	Read        int64
	Applied     int64
	Failed      int64
	Undecodable int64
	ByEvent     map[string]int64
	Duration    time.Duration
}

// Runner shards events by owner across workers.
type Runner struct {
	applier Applier
	config  Config
	logger  *slog.Logger
}

// New creates a Runner. A nil logger uses slog.Default.
func New(applier Applier, cfg Config, logger *slog.Logger) *Runner {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{applier: applier, config: cfg, logger: logger}
}

type run struct {
	*Runner
	id     uuid.UUID
	logger *slog.Logger
	cancel context.CancelCauseFunc

	read        *xsync.Counter
	applied     *xsync.Counter
	failed      *xsync.Counter
	undecodable *xsync.Counter
	byEvent     *xsync.MapOf[string, *xsync.Counter]
}

// Run drains src. Events without an owner wait for every queued event to be
// applied and are then applied inline. Failed updates are logged and skipped
// unless StopOnError is set.
func (r *Runner) Run(ctx context.Context, src source.Source) (Stats, error) {
	start := time.Now()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	id := uuid.New()
	rn := &run{
		Runner:      r,
		id:          id,
		logger:      r.logger.With("run_id", id.String()),
		cancel:      cancel,
		read:        xsync.NewCounter(),
		applied:     xsync.NewCounter(),
		failed:      xsync.NewCounter(),
		undecodable: xsync.NewCounter(),
		byEvent:     xsync.NewMapOf[string, *xsync.Counter](),
	}
	rn.logger.LogAttrs(ctx, slog.LevelInfo, "replay started", slog.Int("workers", r.config.Workers))

	var (
		workers  sync.WaitGroup
		inflight sync.WaitGroup
		mu       sync.Mutex
		closed   bool
	)
	queues := make([]chan source.Item, r.config.Workers)
	for i := range queues {
		queues[i] = make(chan source.Item, r.config.QueueSize)
		workers.Add(1)
		go func(q <-chan source.Item) {
			defer workers.Done()
			for item := range q {
				if ctx.Err() == nil {
					rn.apply(ctx, item)
				}
				inflight.Done()
			}
		}(queues[i])
	}

	err := src.Run(ctx, func(ctx context.Context, item source.Item) error {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return ErrClosed
		}

		rn.read.Inc()
		if item.Err != nil {
			rn.undecodable.Inc()
			rn.logger.LogAttrs(ctx, slog.LevelWarn, "skipping undecodable frame",
				slog.Int64("seq", item.Seq),
				slog.String("error", item.Err.Error()),
			)
			return nil
		}

		owner, ok := gateway.Owner(item.Event)
		if !ok {
			inflight.Wait()
			rn.apply(ctx, item)
			return context.Cause(ctx)
		}

		inflight.Add(1)
		select {
		case queues[uint64(owner)%uint64(len(queues))] <- item:
			return nil
		case <-ctx.Done():
			inflight.Done()
			return context.Cause(ctx)
		}
	})

	mu.Lock()
	closed = true
	for _, q := range queues {
		close(q)
	}
	mu.Unlock()
	workers.Wait()

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		err = cause
	} else if errors.Is(err, context.Canceled) && cause != nil {
		err = nil
	}

	stats := rn.stats(time.Since(start))
	rn.logger.LogAttrs(context.WithoutCancel(ctx), slog.LevelInfo, "replay finished",
		slog.Int64("read", stats.Read),
		slog.Int64("applied", stats.Applied),
		slog.Int64("failed", stats.Failed),
		slog.Int64("undecodable", stats.Undecodable),
		slog.Duration("duration", stats.Duration),
	)
	return stats, err
}

func (rn *run) apply(ctx context.Context, item source.Item) {
	name := item.Event.EventName()
	if err := rn.applier.Update(ctx, item.Event); err != nil {
		rn.failed.Inc()
		rn.logger.LogAttrs(ctx, slog.LevelWarn, "update failed",
			slog.Int64("seq", item.Seq),
			slog.String("event", name),
			slog.String("error", err.Error()),
		)
		if rn.config.StopOnError {
			rn.cancel(fmt.Errorf("replay: seq %d %s: %w", item.Seq, name, err))
		}
		return
	}
	rn.applied.Inc()
	c, _ := rn.byEvent.LoadOrCompute(name, xsync.NewCounter)
	c.Inc()
}

func (rn *run) stats(d time.Duration) Stats {
	byEvent := make(map[string]int64, rn.byEvent.Size())
	rn.byEvent.Range(func(name string, c *xsync.Counter) bool {
		byEvent[name] = c.Value()
		return true
	})
	return Stats{
		RunID:       rn.id,
		Read:        rn.read.Value(),
		Applied:     rn.applied.Value(),
		Failed:      rn.failed.Value(),
		Undecodable: rn.undecodable.Value(),
		ByEvent:     byEvent,
		Duration:    d,
	}
}
