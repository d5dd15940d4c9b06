// Package testing provides test utilities for mirror.
package testing

import (
	"context"
	"slices"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/mirror"
	"github.com/zoobzio/mirror/gateway"
	"github.com/zoobzio/mirror/internal/memstore"
)

// Store is the in-memory store used by NewCache.
type Store = memstore.Store

// NewStore creates an empty in-memory store that can back a Cache.
func NewStore() *Store {
	return memstore.New()
}

// NewCache creates a Cache over a fresh in-memory store.
func NewCache(opts ...mirror.Option) (*mirror.Cache, *Store, error) {
	store := NewStore()
	cache, err := mirror.New(store, opts...)
	if err != nil {
		return nil, nil, err
	}
	return cache, store, nil
}

// Apply feeds events to cache in order and stops at the first failure.
func Apply(ctx context.Context, cache *mirror.Cache, events ...gateway.Event) error {
	for _, ev := range events {
		if err := cache.Update(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Signals lists every signal the engine emits.
var Signals = []capitan.Signal{
	mirror.UpdateStarted,
	mirror.UpdateCompleted,
	mirror.UpdateFailed,
	mirror.BatchExecuted,
	mirror.BatchFailed,
	mirror.ReconcileCompleted,
	mirror.MessageEvicted,
	mirror.ReadCompleted,
	mirror.ReadFailed,
}

// CapturedEvent is one signal observed while a capture was running.
type CapturedEvent struct {
	Signal capitan.Signal
	Fields []capitan.Field
}

// Event returns the gateway event name carried by the signal, if any.
func (e CapturedEvent) Event() string {
	return mirror.FieldEvent.ExtractFromFields(e.Fields)
}

// Key returns the encoded store key carried by the signal, if any.
func (e CapturedEvent) Key() string {
	return mirror.FieldKey.ExtractFromFields(e.Fields)
}

// Err returns the error carried by a failure signal.
func (e CapturedEvent) Err() error {
	return mirror.FieldError.ExtractFromFields(e.Fields)
}

// EventCapture records mirror signals between Capture and Stop.
type EventCapture struct {
	mu       sync.Mutex
	events   []CapturedEvent
	observer *capitan.Observer
}

// Capture starts recording the given signals, or every signal in Signals
// when none are given.
func Capture(signals ...capitan.Signal) *EventCapture {
	if len(signals) == 0 {
		signals = Signals
	}
	c := &EventCapture{}
	c.observer = capitan.Observe(func(_ context.Context, e *capitan.Event) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.events = append(c.events, CapturedEvent{Signal: e.Signal(), Fields: e.Fields()})
	}, signals...)
	return c
}

// Stop waits for already emitted signals to be delivered, then stops
// recording. Captured events stay readable.
func (c *EventCapture) Stop(ctx context.Context) error {
	err := c.observer.Drain(ctx)
	c.observer.Close()
	return err
}

// Events returns a copy of everything captured so far.
func (c *EventCapture) Events() []CapturedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

// BySignal returns the captured events of sig.
func (c *EventCapture) BySignal(sig capitan.Signal) []CapturedEvent {
	return c.filter(func(e CapturedEvent) bool { return e.Signal == sig })
}

// ForEvent returns the captured update signals of one gateway event name.
func (c *EventCapture) ForEvent(name string) []CapturedEvent {
	return c.filter(func(e CapturedEvent) bool { return e.Event() == name })
}

// ForKey returns the captured signals that concern k.
func (c *EventCapture) ForKey(k mirror.Key) []CapturedEvent {
	enc := k.String()
	return c.filter(func(e CapturedEvent) bool { return e.Key() == enc })
}

func (c *EventCapture) filter(keep func(CapturedEvent) bool) []CapturedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []CapturedEvent
	for _, e := range c.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
