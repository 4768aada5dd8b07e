// Package timeouts centralizes the deadlines handlers put on I/O.
//
//   - Ping: health checks and storage probes
//   - Short: single-document reads and writes, login, signup
//   - Medium: list queries, stats aggregations, bulk deletes
//   - Webhook: outbound marketing events
//
// Values start at the defaults below and may be overridden once at startup
// with Configure.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing    = 2 * time.Second
	DefaultShort   = 5 * time.Second
	DefaultMedium  = 10 * time.Second
	DefaultWebhook = 5 * time.Second
)

var (
	mu      sync.RWMutex
	current = Config{
		Ping:    DefaultPing,
		Short:   DefaultShort,
		Medium:  DefaultMedium,
		Webhook: DefaultWebhook,
	}
)

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping    time.Duration
	Short   time.Duration
	Medium  time.Duration
	Webhook time.Duration
}

func Ping() time.Duration    { return get().Ping }
func Short() time.Duration   { return get().Short }
func Medium() time.Duration  { return get().Medium }
func Webhook() time.Duration { return get().Webhook }

func get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		current.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		current.Short = cfg.Short
	}
	if cfg.Medium > 0 {
		current.Medium = cfg.Medium
	}
	if cfg.Webhook > 0 {
		current.Webhook = cfg.Webhook
	}
}

// Current returns the active configuration, for startup logging.
func Current() Config {
	return get()
}

// WithTimeout is context.WithTimeout with a cancel func that logs a warning
// when the deadline was what ended the operation.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "feedback stats")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
