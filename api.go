// Package mirror mirrors gateway events into Redis.
// Every event becomes one batch of primitive store operations that keeps
// primary values and their derived indices (membership sets, bounded lists)
// consistent with each other.
package mirror

import "github.com/zoobzio/mirror/internal/shared"

// Semantic errors for cache synchronization (re-exported from internal/shared).
var (
	ErrEncode        = shared.ErrEncode
	ErrTransport     = shared.ErrTransport
	ErrParse         = shared.ErrParse
	ErrPool          = shared.ErrPool
	ErrUnknownEvent  = shared.ErrUnknownEvent
	ErrInvalidConfig = shared.ErrInvalidConfig
)

// Command is one primitive store operation.
type Command = shared.Command

// Conn executes batches of commands against the store.
// Implementations: redis.Conn, memstore.Store.
type Conn = shared.Conn

// Driver leases a Conn for the duration of one logical call.
// The Conn must be closed on every exit path.
type Driver = shared.Driver
