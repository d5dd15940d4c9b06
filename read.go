package mirror

import "context"

// withConn leases a connection for fn and releases it on every path.
func (c *Cache) withConn(ctx context.Context, fn func(Conn) error) error {
	conn, err := c.driver.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

// Get returns the raw value at k, or nil when the key is absent.
func (c *Cache) Get(ctx context.Context, k Key) ([]byte, error) {
	var data *[]byte
	err := c.withConn(ctx, func(conn Conn) error {
		return NewPipe().Get(k).Query(ctx, conn, Into(&data, Optional(Bytes)))
	})
	if err != nil || data == nil {
		return nil, err
	}
	return *data, nil
}

// Take reads the raw value at k and deletes it in the same batch.
// It returns nil when the key was absent.
func (c *Cache) Take(ctx context.Context, k Key) ([]byte, error) {
	var data *[]byte
	err := c.withConn(ctx, func(conn Conn) error {
		p := NewPipe().Atomic().Remove(k)
		return p.Query(ctx, conn, Into(&data, Optional(Bytes)))
	})
	if err != nil || data == nil {
		return nil, err
	}
	return *data, nil
}

// Members returns every id of a membership set, unordered.
func (c *Cache) Members(ctx context.Context, set Key) ([]uint64, error) {
	var ids []uint64
	err := c.withConn(ctx, func(conn Conn) error {
		var err error
		ids, err = ScanIDs(ctx, conn, set)
		return err
	})
	return ids, err
}

// MemberCount returns the cardinality of a membership set.
func (c *Cache) MemberCount(ctx context.Context, set Key) (int64, error) {
	var n int64
	err := c.withConn(ctx, func(conn Conn) error {
		return NewPipe().SCard(set).Query(ctx, conn, Into(&n, Int))
	})
	return n, err
}

// IsMember reports whether id belongs to a membership set.
func (c *Cache) IsMember(ctx context.Context, set Key, id uint64) (bool, error) {
	var ok bool
	err := c.withConn(ctx, func(conn Conn) error {
		return NewPipe().SIsMember(set, id).Query(ctx, conn, Into(&ok, Bool))
	})
	return ok, err
}

// ListLen returns the number of cached message ids of a channel.
func (c *Cache) ListLen(ctx context.Context, channelID uint64) (int64, error) {
	var n int64
	err := c.withConn(ctx, func(conn Conn) error {
		var err error
		n, err = c.messages.Len(ctx, conn, channelID)
		return err
	})
	return n, err
}

// ListIndex returns the message id at index counted from the oldest, or nil.
// Negative indices count from the newest.
func (c *Cache) ListIndex(ctx context.Context, channelID uint64, index int64) (*uint64, error) {
	var id *uint64
	err := c.withConn(ctx, func(conn Conn) error {
		var err error
		id, err = c.messages.Index(ctx, conn, channelID, index)
		return err
	})
	return id, err
}

// ListRange returns the message ids of a channel between start and stop
// inclusive, oldest first.
func (c *Cache) ListRange(ctx context.Context, channelID uint64, start, stop int64) ([]uint64, error) {
	var ids []uint64
	err := c.withConn(ctx, func(conn Conn) error {
		var err error
		ids, err = c.messages.Range(ctx, conn, channelID, start, stop)
		return err
	})
	return ids, err
}

// ChannelMessages reads the cached messages of a channel between start and
// stop inclusive, oldest first. Ids whose value is missing are skipped.
func ChannelMessages[T any](ctx context.Context, c *Cache, channelID uint64, start, stop int64) ([]*T, error) {
	ids, err := c.ListRange(ctx, channelID, start, stop)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	keys := make([]Key, len(ids))
	for i, id := range ids {
		keys[i] = MessageKey(id)
	}
	vs, err := NewReader[T](c).GetMany(ctx, keys...)
	if err != nil {
		return nil, err
	}
	out := vs[:0]
	for _, v := range vs {
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}
