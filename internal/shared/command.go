package shared //nolint:revive // internal shared package is intentional

import (
	"context"
	"strconv"
)

// Command is one primitive store operation: a command name and its arguments.
// Arguments are []byte, string, int64 or uint64.
type Command struct {
	Name string
	Args []any
}

// Conn executes a batch of commands in a single round trip.
// Replies are positional: nil, string or []byte for bulk values,
// int64 for integers and []any for arrays.
type Conn interface {
	Exec(ctx context.Context, cmds []Command, atomic bool) ([]any, error)
	Close() error
}

// Driver leases connections. Every leased Conn must be closed by the caller.
type Driver interface {
	Acquire(ctx context.Context) (Conn, error)
}

// Arg renders a command argument as a string.
func Arg(a any) string {
	switch v := a.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
