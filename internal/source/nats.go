package source

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/zoobzio/mirror/gateway"
)

// ErrNotConnected is returned when the NATS connection is closed or not yet
// established.
var ErrNotConnected = errors.New("source: not connected to NATS")

// DefaultMessageTimeout bounds the handling of a single NATS message.
const DefaultMessageTimeout = 30 * time.Second

// NATS yields dispatch envelopes published on a subject. Messages on one
// subscription are delivered in order by a single goroutine.
type NATS struct {
	conn    *nats.Conn
	subject string
	queue   string
	timeout time.Duration
}

// NewNATS creates a source reading subject over conn. A non-empty queue joins
// a queue group so several consumers can share the subject.
func NewNATS(conn *nats.Conn, subject, queue string) *NATS {
	return &NATS{conn: conn, subject: subject, queue: queue, timeout: DefaultMessageTimeout}
}

// WithTimeout overrides the per-message timeout.
func (s *NATS) WithTimeout(d time.Duration) *NATS {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Run subscribes and blocks until ctx is done or yield fails. A done context
// is a clean stop and returns nil.
func (s *NATS) Run(ctx context.Context, yield Yield) error {
	if s.conn == nil || !s.conn.IsConnected() {
		return ErrNotConnected
	}

	var seq atomic.Int64
	failed := make(chan error, 1)

	handler := func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		msgCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		ev, err := gateway.DecodeEnvelope(msg.Data)
		item := Item{Seq: seq.Add(1), Raw: msg.Data, Event: ev, Err: err}
		if err := yield(msgCtx, item); err != nil {
			select {
			case failed <- err:
			default:
			}
		}
	}

	var (
		sub *nats.Subscription
		err error
	)
	if s.queue != "" {
		sub, err = s.conn.QueueSubscribe(s.subject, s.queue, handler)
	} else {
		sub, err = s.conn.Subscribe(s.subject, handler)
	}
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-failed:
		return err
	}
}
