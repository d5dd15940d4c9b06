package mirror

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Entry pairs a key with an encoded value for MSET.
type Entry struct {
	Key   Key
	Value []byte
}

// Pipe accumulates primitive store operations and sends them in one round trip.
// Builder methods return the Pipe for chaining. Variadic operations with no
// arguments are not queued.
type Pipe struct {
	cmds   []Command
	skip   []bool
	atomic bool
	// queued is false when the last builder call was a no-op, so Ignore
	// has nothing to apply to.
	queued bool
}

// NewPipe creates an empty, non-atomic pipe.
func NewPipe() *Pipe {
	return &Pipe{}
}

// Atomic marks the batch to execute as a single all-or-nothing unit.
func (p *Pipe) Atomic() *Pipe {
	p.atomic = true
	return p
}

// IsAtomic reports whether the batch executes atomically.
func (p *Pipe) IsAtomic() bool { return p.atomic }

// IsEmpty reports whether no operation has been queued.
func (p *Pipe) IsEmpty() bool { return len(p.cmds) == 0 }

// Len returns the number of queued operations.
func (p *Pipe) Len() int { return len(p.cmds) }

// Commands returns a copy of the queued operations in enqueue order.
func (p *Pipe) Commands() []Command {
	out := make([]Command, len(p.cmds))
	copy(out, p.cmds)
	return out
}

// Ignore drops the reply of the operation queued by the previous builder
// call from the results of Exec and Query. It does nothing when that call
// queued nothing.
func (p *Pipe) Ignore() *Pipe {
	if p.queued {
		p.skip[len(p.skip)-1] = true
	}
	return p
}

func (p *Pipe) add(name string, args ...any) *Pipe {
	p.cmds = append(p.cmds, Command{Name: name, Args: args})
	p.skip = append(p.skip, false)
	p.queued = true
	return p
}

func (p *Pipe) skipped() *Pipe {
	p.queued = false
	return p
}

func keyArgs(keys []Key) []any {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k.Encode()
	}
	return args
}

func idArgs(k Key, ids []uint64) []any {
	args := make([]any, 0, len(ids)+1)
	args = append(args, k.Encode())
	for _, id := range ids {
		args = append(args, EncodeID(id))
	}
	return args
}

func byteArgs(k Key, members [][]byte) []any {
	args := make([]any, 0, len(members)+1)
	args = append(args, k.Encode())
	for _, m := range members {
		args = append(args, m)
	}
	return args
}

// Get queues a value read. The reply is bulk or nil.
func (p *Pipe) Get(k Key) *Pipe {
	return p.add("GET", k.Encode())
}

// MGet queues a multi-value read. The reply is an array of bulk or nil.
func (p *Pipe) MGet(keys ...Key) *Pipe {
	if len(keys) == 0 {
		return p.skipped()
	}
	return p.add("MGET", keyArgs(keys)...)
}

// Set queues a value write.
func (p *Pipe) Set(k Key, value []byte) *Pipe {
	return p.add("SET", k.Encode(), value)
}

// MSet queues a multi-value write.
func (p *Pipe) MSet(entries ...Entry) *Pipe {
	if len(entries) == 0 {
		return p.skipped()
	}
	args := make([]any, 0, len(entries)*2)
	for _, e := range entries {
		args = append(args, e.Key.Encode(), e.Value)
	}
	return p.add("MSET", args...)
}

// Del queues deletion of keys.
func (p *Pipe) Del(keys ...Key) *Pipe {
	if len(keys) == 0 {
		return p.skipped()
	}
	return p.add("DEL", keyArgs(keys)...)
}

// Remove queues a read of k followed by its deletion. Only the read
// contributes a reply, so the removed value can be decoded.
func (p *Pipe) Remove(k Key) *Pipe {
	return p.Get(k).Del(k).Ignore()
}

// SAdd queues adding identifiers to a set.
func (p *Pipe) SAdd(k Key, ids ...uint64) *Pipe {
	if len(ids) == 0 {
		return p.skipped()
	}
	return p.add("SADD", idArgs(k, ids)...)
}

// SAddBytes queues adding encoded members to a set.
func (p *Pipe) SAddBytes(k Key, members ...[]byte) *Pipe {
	if len(members) == 0 {
		return p.skipped()
	}
	return p.add("SADD", byteArgs(k, members)...)
}

// SRem queues removing identifiers from a set.
func (p *Pipe) SRem(k Key, ids ...uint64) *Pipe {
	if len(ids) == 0 {
		return p.skipped()
	}
	return p.add("SREM", idArgs(k, ids)...)
}

// SRemBytes queues removing encoded members from a set.
func (p *Pipe) SRemBytes(k Key, members ...[]byte) *Pipe {
	if len(members) == 0 {
		return p.skipped()
	}
	return p.add("SREM", byteArgs(k, members)...)
}

// SCard queues a set cardinality read.
func (p *Pipe) SCard(k Key) *Pipe {
	return p.add("SCARD", k.Encode())
}

// SIsMember queues a set membership test. The reply is 0 or 1.
func (p *Pipe) SIsMember(k Key, id uint64) *Pipe {
	return p.add("SISMEMBER", k.Encode(), EncodeID(id))
}

// SScan queues one page of a set scan starting at cursor.
func (p *Pipe) SScan(k Key, cursor uint64, count int64) *Pipe {
	return p.add("SSCAN", k.Encode(), EncodeID(cursor), "COUNT", count)
}

// SMembers queues a full set read.
func (p *Pipe) SMembers(k Key) *Pipe {
	return p.add("SMEMBERS", k.Encode())
}

// RPush queues appending identifiers to the tail of a list.
func (p *Pipe) RPush(k Key, ids ...uint64) *Pipe {
	if len(ids) == 0 {
		return p.skipped()
	}
	return p.add("RPUSH", idArgs(k, ids)...)
}

// LPop queues popping the head of a list. The reply is bulk or nil.
func (p *Pipe) LPop(k Key) *Pipe {
	return p.add("LPOP", k.Encode())
}

// LPopCount queues popping n elements from the head of a list.
// The reply is an array or nil.
func (p *Pipe) LPopCount(k Key, n int64) *Pipe {
	return p.add("LPOP", k.Encode(), n)
}

// LIndex queues a positional list read. The reply is bulk or nil.
func (p *Pipe) LIndex(k Key, index int64) *Pipe {
	return p.add("LINDEX", k.Encode(), index)
}

// LRange queues an inclusive range read of a list.
func (p *Pipe) LRange(k Key, start, stop int64) *Pipe {
	return p.add("LRANGE", k.Encode(), start, stop)
}

// LRem queues removing occurrences of id from a list. A count of 0 removes all.
func (p *Pipe) LRem(k Key, count int64, id uint64) *Pipe {
	return p.add("LREM", k.Encode(), count, EncodeID(id))
}

// LLen queues a list length read.
func (p *Pipe) LLen(k Key) *Pipe {
	return p.add("LLEN", k.Encode())
}

// Exec sends the batch in one round trip and returns the replies of the
// operations not marked with Ignore, in enqueue order. An empty pipe
// returns without touching the connection.
func (p *Pipe) Exec(ctx context.Context, conn Conn) ([]any, error) {
	if p.IsEmpty() {
		return nil, nil
	}

	start := time.Now()
	replies, err := conn.Exec(ctx, p.cmds, p.atomic)
	if err == nil && len(replies) != len(p.cmds) {
		err = parseError("reply count does not match queued operations", replies)
	}
	observeBatch(len(p.cmds), p.atomic, start, err)
	if err != nil {
		capitan.Emit(ctx, BatchFailed,
			FieldOps.Field(len(p.cmds)),
			FieldAtomic.Field(p.atomic),
			FieldError.Field(err),
			FieldDuration.Field(time.Since(start)),
		)
		return nil, err
	}

	capitan.Emit(ctx, BatchExecuted,
		FieldOps.Field(len(p.cmds)),
		FieldAtomic.Field(p.atomic),
		FieldDuration.Field(time.Since(start)),
	)

	out := make([]any, 0, len(replies))
	for i, r := range replies {
		if !p.skip[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

// Query executes the batch and decodes the replies positionally into
// targets. The number of targets must equal the number of non-ignored
// operations; a mismatch at any position fails the whole call.
func (p *Pipe) Query(ctx context.Context, conn Conn, targets ...Target) error {
	replies, err := p.Exec(ctx, conn)
	if err != nil {
		return err
	}
	if replies == nil {
		replies = []any{}
	}
	return Tuple(replies, targets...)
}
