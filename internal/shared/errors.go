// Package shared contains canonical type definitions shared across mirror.
package shared //nolint:revive // internal shared package is intentional

import "errors"

// Semantic errors for cache synchronization.
var (
	// ErrEncode indicates a value could not be marshaled before a write.
	ErrEncode = errors.New("mirror: encode failed")

	// ErrTransport indicates the store connection failed or returned a server error.
	ErrTransport = errors.New("mirror: transport failed")

	// ErrParse indicates a store reply did not have the expected shape.
	ErrParse = errors.New("mirror: unexpected reply")

	// ErrPool indicates a connection could not be leased from the pool.
	ErrPool = errors.New("mirror: connection pool exhausted")

	// ErrUnknownEvent indicates an event type the cache does not handle.
	ErrUnknownEvent = errors.New("mirror: unknown event")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("mirror: invalid config")
)
