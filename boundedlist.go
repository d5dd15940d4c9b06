package mirror

import (
	"context"

	"github.com/zoobzio/capitan"
)

// BoundedList keeps a capped, insertion-ordered list of ids per owner with
// one cached value per listed id. The oldest id is evicted first.
type BoundedList struct {
	List  func(owner uint64) Key
	Value func(id uint64) Key
	Cap   int
}

// Insert appends id to the owner's list and queues its value on p.
// The length and head are read in one batch before anything is queued; if
// the list is at or above the cap, enough head ids are popped and their
// values deleted that the list holds exactly Cap ids after the push.
// It returns the evicted ids.
func (b BoundedList) Insert(ctx context.Context, conn Conn, p *Pipe, owner, id uint64, value []byte) ([]uint64, error) {
	list := b.List(owner)

	var (
		length int64
		oldest *uint64
	)
	err := NewPipe().LLen(list).LIndex(list, 0).
		Query(ctx, conn, Into(&length, Int), Into(&oldest, Optional(ID)))
	if err != nil {
		return nil, err
	}

	var evicted []uint64
	if surplus := length - int64(b.Cap) + 1; surplus > 0 {
		switch {
		case surplus == 1 && oldest != nil:
			evicted = []uint64{*oldest}
			p.LPop(list)
		case surplus > 1:
			err := NewPipe().LRange(list, 0, surplus-1).
				Query(ctx, conn, Into(&evicted, Slice(ID)))
			if err != nil {
				return nil, err
			}
			p.LPopCount(list, surplus)
		}
	}

	if len(evicted) > 0 {
		keys := make([]Key, len(evicted))
		for i, e := range evicted {
			keys[i] = b.Value(e)
		}
		p.Del(keys...)
		evictions.Add(len(evicted))
		capitan.Emit(ctx, MessageEvicted,
			FieldKey.Field(list.String()),
			FieldIDs.Field(evicted),
		)
	}

	p.RPush(list, id).Set(b.Value(id), value)
	return evicted, nil
}

// Remove queues deletion of id from anywhere in the owner's list, plus its value.
func (b BoundedList) Remove(p *Pipe, owner, id uint64) *Pipe {
	return p.LRem(b.List(owner), 0, id).Del(b.Value(id))
}

// Len returns the current length of the owner's list.
func (b BoundedList) Len(ctx context.Context, conn Conn, owner uint64) (int64, error) {
	var n int64
	err := NewPipe().LLen(b.List(owner)).Query(ctx, conn, Into(&n, Int))
	return n, err
}

// Index returns the id at position index counted from the head, or nil.
func (b BoundedList) Index(ctx context.Context, conn Conn, owner uint64, index int64) (*uint64, error) {
	var id *uint64
	err := NewPipe().LIndex(b.List(owner), index).Query(ctx, conn, Into(&id, Optional(ID)))
	return id, err
}

// Range returns the ids between start and stop inclusive.
func (b BoundedList) Range(ctx context.Context, conn Conn, owner uint64, start, stop int64) ([]uint64, error) {
	var ids []uint64
	err := NewPipe().LRange(b.List(owner), start, stop).Query(ctx, conn, Into(&ids, Slice(ID)))
	return ids, err
}
