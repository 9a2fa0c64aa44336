package throttle

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// throttle is an http.RoundTripper, using the time/rate token
// bucket limiter to restrict outbound calls.
type throttle struct {
	cfg   Config
	next  http.RoundTripper
	logFn func() *slog.Logger

	mu       sync.Mutex
	global   *rate.Limiter
	limiters map[string]*rate.Limiter
}

// NewRoundTripper returns an http.RoundTripper that throttles outbound requests
// using token bucket rate limiting. logFn lazily resolves the logger at request
// time, making option ordering irrelevant. A nil-returning logFn disables the
// exhaustion logs.
func NewRoundTripper(cfg Config, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if cfg.RPS <= 0 || cfg.Burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", cfg.RPS, cfg.Burst, ErrMustNotBeZero)
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	t := &throttle{
		cfg:   cfg,
		next:  next,
		logFn: logFn,
	}
	if cfg.PerPath {
		t.limiters = make(map[string]*rate.Limiter)
	} else {
		t.global = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	}

	return t, nil
}

// limiter returns the bucket that governs path.
func (t *throttle) limiter(path string) *rate.Limiter {
	if !t.cfg.PerPath {
		return t.global
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[path]
	if !ok {
		l = rate.NewLimiter(rate.Limit(t.cfg.RPS), t.cfg.Burst)
		t.limiters[path] = l
	}

	return l
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	if err := t.wait(ctx, t.limiter(r.URL.Path), r.URL.Path); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil { // Check context hasn't expired again.
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return t.next.RoundTrip(r)
}

// wait reserves one token from limiter and blocks until it is due. The
// reservation is handed back when ctx ends first.
func (t *throttle) wait(ctx context.Context, limiter *rate.Limiter, path string) error {
	res := limiter.Reserve()
	if !res.OK() {
		return fmt.Errorf("%w: burst %d too small", ErrWaitingFailed, t.cfg.Burst)
	}

	delay := res.Delay()
	if delay <= 0 {
		return nil
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
		res.Cancel()
		return fmt.Errorf("%w: delay %s exceeds deadline: %w", ErrWaitingFailed, delay, context.DeadlineExceeded)
	}

	logger := t.logFn()
	if logger != nil {
		logger.Info("throttle tokens exhausted", "rate", t.cfg.RPS, "burst", t.cfg.Burst, "path", path, "delay", delay.String())
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		res.Cancel()
		return fmt.Errorf("%w: %w", ErrWaitingFailed, ctx.Err())
	case <-timer.C:
	}

	if logger != nil {
		logger.Info("throttle wait complete", "waited", delay.String(), "path", path)
	}

	return nil
}
