package mirror

import (
	"context"
	"slices"

	"github.com/zoobzio/capitan"
)

// scanCount is the page size hint for set scans.
const scanCount = 100

// SetIndex describes a membership set and the values paired with its ids.
type SetIndex[T any] struct {
	// Set is the membership set holding child ids.
	Set Key
	// ID extracts the identifier of an item.
	ID func(T) uint64
	// Key addresses the cached value of an id.
	Key func(id uint64) Key
	// Encode produces the cached value of an item.
	Encode func(T) ([]byte, error)
	// Refresh rewrites the values of unchanged items without touching the set.
	Refresh bool
}

// Delta is the result of diffing a replacement collection against a set.
type Delta[T any] struct {
	Additions []T
	Removals  []uint64
	Unchanged []T
}

// IsEmpty reports whether the delta adds or removes nothing.
func (d Delta[T]) IsEmpty() bool {
	return len(d.Additions) == 0 && len(d.Removals) == 0
}

// Diff computes the delta between the current set contents and an
// authoritative replacement collection. Items whose id is already present
// are unchanged; ids left unmatched are removals. Duplicate ids in incoming
// collapse to their first occurrence. Removals are sorted ascending.
func Diff[T any](current []uint64, incoming []T, id func(T) uint64) Delta[T] {
	remaining := make(map[uint64]struct{}, len(current))
	for _, c := range current {
		remaining[c] = struct{}{}
	}
	seen := make(map[uint64]struct{}, len(incoming))

	var d Delta[T]
	for _, item := range incoming {
		i := id(item)
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		if _, ok := remaining[i]; ok {
			delete(remaining, i)
			d.Unchanged = append(d.Unchanged, item)
			continue
		}
		d.Additions = append(d.Additions, item)
	}

	for r := range remaining {
		d.Removals = append(d.Removals, r)
	}
	slices.Sort(d.Removals)
	return d
}

// Apply queues the delta on p: one SADD and one MSET for additions, one
// SREM and one DEL for removals.
func (ix SetIndex[T]) Apply(p *Pipe, d Delta[T]) error {
	if len(d.Additions) > 0 {
		ids := make([]uint64, len(d.Additions))
		entries := make([]Entry, len(d.Additions))
		for i, item := range d.Additions {
			data, err := ix.Encode(item)
			if err != nil {
				return err
			}
			ids[i] = ix.ID(item)
			entries[i] = Entry{Key: ix.Key(ids[i]), Value: data}
		}
		p.SAdd(ix.Set, ids...).MSet(entries...)
	}

	if ix.Refresh && len(d.Unchanged) > 0 {
		entries := make([]Entry, len(d.Unchanged))
		for i, item := range d.Unchanged {
			data, err := ix.Encode(item)
			if err != nil {
				return err
			}
			entries[i] = Entry{Key: ix.Key(ix.ID(item)), Value: data}
		}
		p.MSet(entries...)
	}

	if len(d.Removals) > 0 {
		keys := make([]Key, len(d.Removals))
		for i, id := range d.Removals {
			keys[i] = ix.Key(id)
		}
		p.SRem(ix.Set, d.Removals...).Del(keys...)
	}
	return nil
}

// Reconcile reads the current contents of ix.Set in full, diffs them against
// incoming and queues the resulting delta on p. An empty incoming collection
// removes everything currently present.
func Reconcile[T any](ctx context.Context, conn Conn, p *Pipe, ix SetIndex[T], incoming []T) (Delta[T], error) {
	current, err := ScanIDs(ctx, conn, ix.Set)
	if err != nil {
		return Delta[T]{}, err
	}

	d := Diff(current, incoming, ix.ID)
	if err := ix.Apply(p, d); err != nil {
		return Delta[T]{}, err
	}

	reconcileAdds.Add(len(d.Additions))
	reconcileDels.Add(len(d.Removals))
	capitan.Emit(ctx, ReconcileCompleted,
		FieldKey.Field(ix.Set.String()),
		FieldAdded.Field(len(d.Additions)),
		FieldRemoved.Field(len(d.Removals)),
	)
	return d, nil
}

// ScanIDs reads every identifier in a set with repeated SSCAN calls.
// The result is unordered.
func ScanIDs(ctx context.Context, conn Conn, set Key) ([]uint64, error) {
	members, err := ScanMembers(ctx, conn, set)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := ID(m)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ScanMembers reads every raw member of a set with repeated SSCAN calls.
func ScanMembers(ctx context.Context, conn Conn, set Key) ([][]byte, error) {
	var (
		members [][]byte
		cursor  uint64
	)
	for {
		var page ScanPage
		err := NewPipe().SScan(set, cursor, scanCount).
			Query(ctx, conn, Into(&page, Scan))
		if err != nil {
			return nil, err
		}
		members = append(members, page.Members...)
		cursor = page.Cursor
		if cursor == 0 {
			return members, nil
		}
	}
}
