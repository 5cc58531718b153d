package shm

import (
	"log/slog"
	"time"
)

// DefaultTimeout is how long an idle buffer survives without being reused.
const DefaultTimeout = 3 * time.Second

// Option configures a Pool during creation.
//
// Example:
//
//	pool := shm.NewPool(shm.MemfdAllocator{}, session,
//	    shm.WithTimeout(5*time.Second))
type Option func(*poolOptions)

type poolOptions struct {
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

func defaultOptions() poolOptions {
	return poolOptions{
		timeout: DefaultTimeout,
		now:     time.Now,
	}
}

// WithTimeout sets the idle time after which a buffer is evicted.
// Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *poolOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithClock replaces the time source. Used by tests to drive eviction.
func WithClock(now func() time.Time) Option {
	return func(o *poolOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger for pool diagnostics. By default the pool logs
// through halo.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *poolOptions) {
		o.logger = l
	}
}
