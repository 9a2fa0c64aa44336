package callback

import (
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// DefaultWindow is how far signed_at may drift from the receiver clock.
const DefaultWindow = 5 * time.Minute

// defaultMaxMemory bounds the in-memory part of a multipart callback body.
const defaultMaxMemory = 1 << 20

// Option is a functional option for configuring a [Receiver] via [New].
type Option func(*options) error

type options struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	guard     Guard
	window    time.Duration
	clock     func() time.Time
	mw        []Middleware
	maxMemory int64
}

// WithLogger sets the logger used for request and error logging.
func WithLogger(log *slog.Logger) Option {
	return func(opts *options) error {
		opts.logger = log
		return nil
	}
}

// WithTracer records a span for every callback.
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		opts.tracer = tracer
		return nil
	}
}

// WithGuard replaces the in-memory replay guard, e.g. with a [RedisGuard]
// shared by several receivers.
func WithGuard(g Guard) Option {
	return func(opts *options) error {
		if g == nil {
			return errors.New("guard must not be nil")
		}
		opts.guard = g
		return nil
	}
}

// WithWindow sets the accepted drift of signed_at. Accepted callbacks are
// remembered for twice this long.
func WithWindow(d time.Duration) Option {
	return func(opts *options) error {
		if d <= 0 {
			return errors.New("window must be positive")
		}
		opts.window = d
		return nil
	}
}

// WithClock replaces the time source used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(opts *options) error {
		if now == nil {
			return errors.New("clock must not be nil")
		}
		opts.clock = now
		return nil
	}
}

// WithMiddleware adds middleware that runs inside the error handling and
// outside the panic recovery.
func WithMiddleware(mw ...Middleware) Option {
	return func(opts *options) error {
		opts.mw = append(opts.mw, mw...)
		return nil
	}
}

// WithMaxMemory bounds the bytes of a multipart body kept in memory.
func WithMaxMemory(n int64) Option {
	return func(opts *options) error {
		if n <= 0 {
			return errors.New("max memory must be positive")
		}
		opts.maxMemory = n
		return nil
	}
}
