package mirror

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultMessageCacheSize is the default cap of each channel message list.
const DefaultMessageCacheSize = 100

// Config is the immutable policy of a Cache.
type Config struct {
	// Resources selects the categories to mirror.
	Resources Resource
	// Atomic executes each event's batch as MULTI/EXEC.
	Atomic bool
	// MessageCacheSize caps the message list of each channel.
	MessageCacheSize int
}

// DefaultConfig mirrors every category atomically with 100 messages per channel.
func DefaultConfig() Config {
	return Config{
		Resources:        ResourceAll,
		Atomic:           true,
		MessageCacheSize: DefaultMessageCacheSize,
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.MessageCacheSize, validation.Required, validation.Min(1)),
		validation.Field(&c.Resources, validation.By(func(v any) error {
			r, _ := v.(Resource)
			if r&^ResourceAll != 0 {
				return fmt.Errorf("unknown bits 0x%x", uint64(r&^ResourceAll))
			}
			return nil
		})),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
