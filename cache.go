package mirror

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/mirror/gateway"
)

// Cache mirrors gateway events into the store behind a Driver.
// It holds no values in process; every read goes to the store.
type Cache struct {
	driver   Driver
	config   Config
	strategy Strategy
	codec    Codec
	messages BoundedList
}

// New creates a Cache over driver.
// Uses DefaultConfig and DefaultStrategy unless overridden with options.
func New(driver Driver, opts ...Option) (*Cache, error) {
	c := &Cache{
		driver: driver,
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.strategy == nil {
		c.strategy = NewDefaultStrategy(nil)
	}
	if err := c.config.Validate(); err != nil {
		return nil, err
	}

	c.codec = c.strategy.Codec()
	c.messages = BoundedList{
		List:  ChannelMessagesKey,
		Value: MessageKey,
		Cap:   c.config.MessageCacheSize,
	}
	return c, nil
}

// Config returns the cache policy.
func (c *Cache) Config() Config { return c.config }

// Strategy returns the cache strategy.
func (c *Cache) Strategy() Strategy { return c.strategy }

// Wants reports whether every category in r is enabled.
func (c *Cache) Wants(r Resource) bool {
	return c.config.Resources.Has(r)
}

// WantsAny reports whether any category in r is enabled.
func (c *Cache) WantsAny(r Resource) bool {
	return c.config.Resources.HasAny(r)
}

// Pipe returns an empty pipe, atomic if the cache is configured so.
func (c *Cache) Pipe() *Pipe {
	p := NewPipe()
	if c.config.Atomic {
		p.Atomic()
	}
	return p
}

// Messages returns the bounded list manager of channel messages.
func (c *Cache) Messages() BoundedList { return c.messages }

// Update applies one event. It builds a single batch for everything the
// event touches and executes it when non-empty. Read-modify-write flows
// read before the batch is built and are not atomic with it.
// Unhandled event types return ErrUnknownEvent.
func (c *Cache) Update(ctx context.Context, ev gateway.Event) error {
	name := "<nil>"
	if ev != nil {
		name = ev.EventName()
	}

	start := time.Now()
	capitan.Emit(ctx, UpdateStarted, FieldEvent.Field(name))

	u := &update{cache: c, ctx: ctx, pipe: c.Pipe()}
	err := u.run(ev)
	u.release()

	observeUpdate(name, err)
	if err != nil {
		capitan.Emit(ctx, UpdateFailed,
			FieldEvent.Field(name),
			FieldError.Field(err),
			FieldDuration.Field(time.Since(start)),
		)
		return err
	}

	capitan.Emit(ctx, UpdateCompleted,
		FieldEvent.Field(name),
		FieldOps.Field(u.pipe.Len()),
		FieldDuration.Field(time.Since(start)),
	)
	return nil
}

// update is the state of one Update call: its batch and a lazily leased
// connection shared by the reads and the final execution.
type update struct {
	cache *Cache
	ctx   context.Context
	pipe  *Pipe
	c     Conn
}

func (u *update) run(ev gateway.Event) error {
	if err := u.dispatch(ev); err != nil {
		return err
	}
	if u.pipe.IsEmpty() {
		return nil
	}
	conn, err := u.conn()
	if err != nil {
		return err
	}
	_, err = u.pipe.Exec(u.ctx, conn)
	return err
}

func (u *update) conn() (Conn, error) {
	if u.c != nil {
		return u.c, nil
	}
	conn, err := u.cache.driver.Acquire(u.ctx)
	if err != nil {
		return nil, err
	}
	u.c = conn
	return conn, nil
}

func (u *update) release() {
	if u.c != nil {
		_ = u.c.Close()
		u.c = nil
	}
}

func (u *update) wants(r Resource) bool { return u.cache.Wants(r) }

func (u *update) strategy() Strategy { return u.cache.strategy }

func (u *update) encode(v any) ([]byte, error) {
	if err := callBeforeStore(u.ctx, v); err != nil {
		return nil, err
	}
	return encode(u.cache.codec, v)
}

func (u *update) encodeOwned(ownerID uint64, v any) ([]byte, error) {
	if err := callBeforeStore(u.ctx, v); err != nil {
		return nil, err
	}
	return EncodeOwned(u.cache.codec, ownerID, v)
}

// load reads the value at k into dst. It reports false when the key is absent.
func (u *update) load(k Key, dst any) (bool, error) {
	conn, err := u.conn()
	if err != nil {
		return false, err
	}
	var data *[]byte
	if err := NewPipe().Get(k).Query(u.ctx, conn, Into(&data, Optional(Bytes))); err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	return true, u.decode(*data, dst)
}

// fetch reads the values of keys in one round trip. Absent keys yield nil.
func (u *update) fetch(keys []Key) ([]*[]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	conn, err := u.conn()
	if err != nil {
		return nil, err
	}
	var values []*[]byte
	if err := NewPipe().MGet(keys...).Query(u.ctx, conn, Into(&values, Slice(Optional(Bytes)))); err != nil {
		return nil, err
	}
	if len(values) != len(keys) {
		return nil, parseError("MGET reply length does not match keys", values)
	}
	return values, nil
}

func (u *update) decode(data []byte, dst any) error {
	if err := u.cache.codec.Decode(data, dst); err != nil {
		return parseError("failed to decode value: "+err.Error(), data)
	}
	if h, ok := dst.(AfterLoad); ok {
		return h.AfterLoad(u.ctx)
	}
	return nil
}

// scan reads every id of a set.
func (u *update) scan(set Key) ([]uint64, error) {
	conn, err := u.conn()
	if err != nil {
		return nil, err
	}
	return ScanIDs(u.ctx, conn, set)
}
