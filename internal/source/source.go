// Package source reads gateway dispatches from outside the process.
package source

import (
	"context"

	"github.com/zoobzio/mirror/gateway"
)

// Item is one decoded dispatch. Err is set when the frame could not be
// decoded; Event is nil in that case.
type Item struct {
	Seq   int64
	Raw   []byte
	Event gateway.Event
	Err   error
}

// Yield receives items in arrival order. Returning an error stops the source.
type Yield func(ctx context.Context, item Item) error

// Source produces gateway dispatches until it is exhausted, the context is
// done, or yield fails.
type Source interface {
	Run(ctx context.Context, yield Yield) error
}
