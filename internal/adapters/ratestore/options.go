package ratestore

// Option configures a RedisStore.
type Option func(*RedisStore)

// WithPrefix sets the namespace prepended to every key.
func WithPrefix(prefix string) Option {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}
