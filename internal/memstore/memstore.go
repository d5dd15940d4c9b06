// Package memstore provides an in-memory store speaking the primitive
// command set used by mirror, for tests and dry runs.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/zoobzio/mirror/internal/shared"
)

// ErrUnknownCommand is returned for commands the store does not implement.
var ErrUnknownCommand = errors.New("memstore: unknown command")

// Batch is one executed batch as recorded by the store.
type Batch struct {
	Commands []shared.Command
	Atomic   bool
}

// Store is an in-memory Driver and Conn. It is safe for concurrent use;
// each batch executes under one lock.
type Store struct {
	mu      sync.Mutex
	values  map[string][]byte
	sets    map[string]map[string]struct{}
	lists   map[string][]string
	batches []Batch

	execErr    error
	acquireErr error
	acquired   int
	released   int
}

// New creates an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.values = make(map[string][]byte)
	s.sets = make(map[string]map[string]struct{})
	s.lists = make(map[string][]string)
	s.batches = nil
}

// Reset clears all data, recorded batches and injected errors.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.execErr = nil
	s.acquireErr = nil
	s.acquired = 0
	s.released = 0
}

// SetExecErr makes every subsequent Exec fail with err. Nil clears it.
func (s *Store) SetExecErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execErr = err
}

// SetAcquireErr makes every subsequent Acquire fail with err. Nil clears it.
func (s *Store) SetAcquireErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquireErr = err
}

// Acquire leases the store itself. Leases are counted for leak checks.
func (s *Store) Acquire(_ context.Context) (shared.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.acquired++
	return &lease{s: s}, nil
}

// Outstanding returns the number of leases not yet closed.
func (s *Store) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquired - s.released
}

type lease struct {
	s      *Store
	closed bool
}

func (l *lease) Exec(ctx context.Context, cmds []shared.Command, atomic bool) ([]any, error) {
	return l.s.Exec(ctx, cmds, atomic)
}

func (l *lease) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	l.s.mu.Lock()
	l.s.released++
	l.s.mu.Unlock()
	return nil
}

// Exec runs cmds in order and returns one reply per command. Atomic
// batches are rejected whole if any command is unknown, like an aborted
// MULTI; non-atomic batches fail at the first unknown command.
func (s *Store) Exec(ctx context.Context, cmds []shared.Command, atomic bool) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.execErr != nil {
		return nil, s.execErr
	}
	if atomic {
		for _, c := range cmds {
			if _, ok := handlers[c.Name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, c.Name)
			}
		}
	}

	s.batches = append(s.batches, Batch{Commands: slices.Clone(cmds), Atomic: atomic})

	replies := make([]any, len(cmds))
	for i, c := range cmds {
		h, ok := handlers[c.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, c.Name)
		}
		args := make([]string, len(c.Args))
		for j, a := range c.Args {
			args[j] = shared.Arg(a)
		}
		r, err := h(s, args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		replies[i] = r
	}
	return replies, nil
}

// Close is a no-op so the store can be used directly as a Conn.
func (s *Store) Close() error { return nil }

// Batches returns the executed batches in order.
func (s *Store) Batches() []Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.batches)
}

// Commands returns the names of every executed command in order.
func (s *Store) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, b := range s.batches {
		for _, c := range b.Commands {
			names = append(names, c.Name)
		}
	}
	return names
}

// Value returns the value stored at key.
func (s *Store) Value(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set returns the members of the set at key, sorted.
func (s *Store) Set(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedMembers(s.sets[key])
}

// List returns the elements of the list at key, head first.
func (s *Store) List(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lists[key])
}

// Keys returns every key holding data, sorted.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.values {
		keys = append(keys, k)
	}
	for k := range s.sets {
		keys = append(keys, k)
	}
	for k := range s.lists {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// Seed writes a value directly, bypassing the command log.
func (s *Store) Seed(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// SeedSet adds members to a set directly, bypassing the command log.
func (s *Store) SeedSet(key string, members ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sadd(key, members)
}

// SeedList appends elements to a list directly, bypassing the command log.
func (s *Store) SeedList(key string, elems ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], elems...)
}

func sortedMembers(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

func (s *Store) sadd(key string, members []string) int64 {
	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	var added int64
	for _, m := range members {
		if _, ok := set[m]; !ok {
			set[m] = struct{}{}
			added++
		}
	}
	return added
}

var errArity = errors.New("wrong number of arguments")

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value is not an integer: %q", s)
	}
	return n, nil
}

// bounds resolves a Redis style inclusive index range against length n.
func bounds(start, stop, n int64) (int64, int64, bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	start = max(start, 0)
	stop = min(stop, n-1)
	if start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop, true
}

type handler func(s *Store, args []string) (any, error)

var handlers = map[string]handler{
	"GET": func(s *Store, args []string) (any, error) {
		if len(args) != 1 {
			return nil, errArity
		}
		if v, ok := s.values[args[0]]; ok {
			return slices.Clone(v), nil
		}
		return nil, nil
	},
	"MGET": func(s *Store, args []string) (any, error) {
		if len(args) == 0 {
			return nil, errArity
		}
		out := make([]any, len(args))
		for i, k := range args {
			if v, ok := s.values[k]; ok {
				out[i] = slices.Clone(v)
			}
		}
		return out, nil
	},
	"SET": func(s *Store, args []string) (any, error) {
		if len(args) != 2 {
			return nil, errArity
		}
		s.values[args[0]] = []byte(args[1])
		return "OK", nil
	},
	"MSET": func(s *Store, args []string) (any, error) {
		if len(args) == 0 || len(args)%2 != 0 {
			return nil, errArity
		}
		for i := 0; i < len(args); i += 2 {
			s.values[args[i]] = []byte(args[i+1])
		}
		return "OK", nil
	},
	"DEL": func(s *Store, args []string) (any, error) {
		if len(args) == 0 {
			return nil, errArity
		}
		var n int64
		for _, k := range args {
			_, v := s.values[k]
			_, st := s.sets[k]
			_, l := s.lists[k]
			if v || st || l {
				n++
			}
			delete(s.values, k)
			delete(s.sets, k)
			delete(s.lists, k)
		}
		return n, nil
	},
	"SADD": func(s *Store, args []string) (any, error) {
		if len(args) < 2 {
			return nil, errArity
		}
		return s.sadd(args[0], args[1:]), nil
	},
	"SREM": func(s *Store, args []string) (any, error) {
		if len(args) < 2 {
			return nil, errArity
		}
		set := s.sets[args[0]]
		var n int64
		for _, m := range args[1:] {
			if _, ok := set[m]; ok {
				delete(set, m)
				n++
			}
		}
		if set != nil && len(set) == 0 {
			delete(s.sets, args[0])
		}
		return n, nil
	},
	"SCARD": func(s *Store, args []string) (any, error) {
		if len(args) != 1 {
			return nil, errArity
		}
		return int64(len(s.sets[args[0]])), nil
	},
	"SISMEMBER": func(s *Store, args []string) (any, error) {
		if len(args) != 2 {
			return nil, errArity
		}
		if _, ok := s.sets[args[0]][args[1]]; ok {
			return int64(1), nil
		}
		return int64(0), nil
	},
	"SMEMBERS": func(s *Store, args []string) (any, error) {
		if len(args) != 1 {
			return nil, errArity
		}
		members := sortedMembers(s.sets[args[0]])
		out := make([]any, len(members))
		for i, m := range members {
			out[i] = []byte(m)
		}
		return out, nil
	},
	// SSCAN pages through the sorted members. The cursor is an offset.
	"SSCAN": func(s *Store, args []string) (any, error) {
		if len(args) != 2 && len(args) != 4 {
			return nil, errArity
		}
		cursor, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		count := int64(10)
		if len(args) == 4 {
			if args[2] != "COUNT" {
				return nil, fmt.Errorf("syntax error near %q", args[2])
			}
			if count, err = parseInt(args[3]); err != nil {
				return nil, err
			}
		}
		members := sortedMembers(s.sets[args[0]])
		end := min(cursor+count, int64(len(members)))
		page := make([]any, 0, max(end-cursor, 0))
		for i := cursor; i < end; i++ {
			page = append(page, []byte(members[i]))
		}
		next := end
		if next >= int64(len(members)) {
			next = 0
		}
		return []any{[]byte(strconv.FormatInt(next, 10)), page}, nil
	},
	"RPUSH": func(s *Store, args []string) (any, error) {
		if len(args) < 2 {
			return nil, errArity
		}
		s.lists[args[0]] = append(s.lists[args[0]], args[1:]...)
		return int64(len(s.lists[args[0]])), nil
	},
	"LPOP": func(s *Store, args []string) (any, error) {
		if len(args) != 1 && len(args) != 2 {
			return nil, errArity
		}
		list := s.lists[args[0]]
		if len(args) == 1 {
			if len(list) == 0 {
				return nil, nil
			}
			s.setList(args[0], list[1:])
			return []byte(list[0]), nil
		}
		n, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, nil
		}
		n = min(n, int64(len(list)))
		out := make([]any, n)
		for i := range out {
			out[i] = []byte(list[i])
		}
		s.setList(args[0], list[n:])
		return out, nil
	},
	"LINDEX": func(s *Store, args []string) (any, error) {
		if len(args) != 2 {
			return nil, errArity
		}
		i, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		list := s.lists[args[0]]
		if i < 0 {
			i += int64(len(list))
		}
		if i < 0 || i >= int64(len(list)) {
			return nil, nil
		}
		return []byte(list[i]), nil
	},
	"LRANGE": func(s *Store, args []string) (any, error) {
		if len(args) != 3 {
			return nil, errArity
		}
		start, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		stop, err := parseInt(args[2])
		if err != nil {
			return nil, err
		}
		list := s.lists[args[0]]
		lo, hi, ok := bounds(start, stop, int64(len(list)))
		if !ok {
			return []any{}, nil
		}
		out := make([]any, 0, hi-lo+1)
		for _, e := range list[lo : hi+1] {
			out = append(out, []byte(e))
		}
		return out, nil
	},
	"LREM": func(s *Store, args []string) (any, error) {
		if len(args) != 3 {
			return nil, errArity
		}
		count, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		if count < 0 {
			return nil, errors.New("negative LREM count is not supported")
		}
		list := s.lists[args[0]]
		kept := make([]string, 0, len(list))
		var removed int64
		for _, e := range list {
			if e == args[2] && (count == 0 || removed < count) {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		s.setList(args[0], kept)
		return removed, nil
	},
	"LLEN": func(s *Store, args []string) (any, error) {
		if len(args) != 1 {
			return nil, errArity
		}
		return int64(len(s.lists[args[0]])), nil
	},
}

func (s *Store) setList(key string, list []string) {
	if len(list) == 0 {
		delete(s.lists, key)
		return
	}
	s.lists[key] = list
}

var _ shared.Driver = (*Store)(nil)
var _ shared.Conn = (*Store)(nil)
