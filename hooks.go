package mirror

import "context"

// BeforeStore is called on a strategy value before it is encoded.
// Return an error to abort the update that produced it.
type BeforeStore interface {
	BeforeStore(ctx context.Context) error
}

// AfterLoad is called after a cached value has been read and decoded.
// Return an error to signal a post-load invariant failure.
type AfterLoad interface {
	AfterLoad(ctx context.Context) error
}

// callBeforeStore calls BeforeStore on v if it implements the interface.
func callBeforeStore(ctx context.Context, v any) error {
	if h, ok := v.(BeforeStore); ok {
		return h.BeforeStore(ctx)
	}
	return nil
}

// callAfterLoad calls AfterLoad on value if T implements the interface.
func callAfterLoad[T any](ctx context.Context, value *T) error {
	if h, ok := any(value).(AfterLoad); ok {
		return h.AfterLoad(ctx)
	}
	return nil
}

// callAfterLoadSlice calls AfterLoad on each non-nil element.
func callAfterLoadSlice[T any](ctx context.Context, values []*T) error {
	for _, v := range values {
		if v == nil {
			continue
		}
		if err := callAfterLoad(ctx, v); err != nil {
			return err
		}
	}
	return nil
}
