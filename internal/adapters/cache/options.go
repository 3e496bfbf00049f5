package cache

import "time"

const (
	defaultTTL           = time.Hour
	defaultSweepInterval = 2 * time.Minute
)

type settings struct {
	defaultTTL    time.Duration
	sweepInterval time.Duration
	maxEntries    int
	now           func() time.Time
}

func defaultSettings() settings {
	return settings{
		defaultTTL:    defaultTTL,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
}

// Option applies a configuration option to a TTL cache.
type Option func(*settings)

// WithDefaultTTL sets the lifetime used when Set gets a non-positive ttl.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithSweepInterval sets how often expired entries are dropped. Zero disables sweeping.
func WithSweepInterval(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.sweepInterval = d
		}
	}
}

// WithMaxEntries bounds the cache. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.maxEntries = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
