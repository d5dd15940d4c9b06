package mirror

// Option configures a Cache.
type Option func(*Cache)

// WithConfig sets the cache policy. If not specified, DefaultConfig is used.
func WithConfig(cfg Config) Option {
	return func(c *Cache) {
		c.config = cfg
	}
}

// WithStrategy sets the strategy deciding what is stored per entity kind.
// If not specified, DefaultStrategy with MsgpackCodec is used.
func WithStrategy(s Strategy) Option {
	return func(c *Cache) {
		c.strategy = s
	}
}
