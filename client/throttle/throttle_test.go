package throttle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRoundTripper_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    Config
		expErr error
	}{
		{
			name:   "Invalid RPS (zero)",
			cfg:    Config{RPS: 0, Burst: 10},
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid RPS (negative)",
			cfg:    Config{RPS: -5, Burst: 10},
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (zero)",
			cfg:    Config{RPS: 10, Burst: 0, PerPath: true},
			expErr: ErrMustNotBeZero,
		},
		{
			name: "Valid global",
			cfg:  Config{RPS: 10, Burst: 20},
		},
		{
			name: "Valid per path",
			cfg:  Config{RPS: 10, Burst: 20, PerPath: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rt, err := NewRoundTripper(tc.cfg, nil, http.DefaultTransport)

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("exp nil err, got: %v", err)
			}
			if rt == nil {
				t.Error("exp non-nil RoundTripper")
			}
		})
	}
}

func newCountingServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func doGet(ctx context.Context, c *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}

	return resp.Body.Close()
}

func TestThrottle_GlobalBucketExhausted(t *testing.T) {
	srv, calls := newCountingServer(t)

	rt, err := NewRoundTripper(Config{RPS: 1, Burst: 1}, func() *slog.Logger { return nil }, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}
	c := &http.Client{Transport: rt}

	if err := doGet(t.Context(), c, srv.URL+"/webinar/create"); err != nil {
		t.Fatalf("first request: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	err = doGet(ctx, c, srv.URL+"/webinar/delete")
	if !errors.Is(err, ErrWaitingFailed) {
		t.Fatalf("exp ErrWaitingFailed for a second path sharing the bucket, got: %v", err)
	}

	if got := atomic.LoadInt32(calls); got != 1 {
		t.Errorf("exp 1 call to reach the server, got %d", got)
	}
}

func TestThrottle_PerPathBuckets(t *testing.T) {
	srv, calls := newCountingServer(t)

	rt, err := NewRoundTripper(Config{RPS: 1, Burst: 1, PerPath: true}, func() *slog.Logger { return slog.Default() }, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}
	c := &http.Client{Transport: rt}

	start := time.Now()
	for _, path := range []string{"/webinar/create", "/webinar/delete", "/report/form"} {
		if err := doGet(t.Context(), c, srv.URL+path); err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("distinct paths should not wait on each other; took %v", elapsed)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	if err := doGet(ctx, c, srv.URL+"/webinar/create"); !errors.Is(err, ErrWaitingFailed) {
		t.Fatalf("exp ErrWaitingFailed on a repeated path, got: %v", err)
	}

	if got := atomic.LoadInt32(calls); got != 3 {
		t.Errorf("exp 3 calls to reach the server, got %d", got)
	}
}

func TestThrottle_CancelledContext(t *testing.T) {
	srv, calls := newCountingServer(t)

	rt, err := NewRoundTripper(Config{RPS: 100, Burst: 10}, nil, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}
	c := &http.Client{Transport: rt}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err = doGet(ctx, c, srv.URL)
	if !errors.Is(err, ErrContextEnded) {
		t.Errorf("exp ErrContextEnded, got: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("exp context.Canceled, got: %v", err)
	}
	if got := atomic.LoadInt32(calls); got != 0 {
		t.Errorf("exp no calls to reach the server, got %d", got)
	}
}

func TestThrottle_FullBucketDoesNotBlock(t *testing.T) {
	srv, calls := newCountingServer(t)

	logger := slog.New(slog.DiscardHandler)
	rt, err := NewRoundTripper(Config{RPS: 1, Burst: 2}, func() *slog.Logger { return logger }, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}
	c := &http.Client{Transport: rt}

	// Each request takes exactly one token, so a burst of two passes at once.
	start := time.Now()
	for range 2 {
		if err := doGet(t.Context(), c, srv.URL+"/webinar/create"); err != nil {
			t.Fatalf("request: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("requests within burst should not wait; took %v", elapsed)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	if err := doGet(ctx, c, srv.URL+"/webinar/create"); !errors.Is(err, ErrWaitingFailed) {
		t.Fatalf("exp ErrWaitingFailed once the burst is spent, got: %v", err)
	}

	if got := atomic.LoadInt32(calls); got != 2 {
		t.Errorf("exp 2 calls to reach the server, got %d", got)
	}
}

func TestThrottle_CancelledWaitReturnsToken(t *testing.T) {
	srv, calls := newCountingServer(t)

	rt, err := NewRoundTripper(Config{RPS: 5, Burst: 1}, nil, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}
	c := &http.Client{Transport: rt}

	if err := doGet(t.Context(), c, srv.URL); err != nil {
		t.Fatalf("first request: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	if err := doGet(ctx, c, srv.URL); !errors.Is(err, ErrWaitingFailed) {
		t.Fatalf("exp ErrWaitingFailed, got: %v", err)
	}

	// The abandoned reservation must not push the next request further out.
	start := time.Now()
	if err := doGet(t.Context(), c, srv.URL); err != nil {
		t.Fatalf("third request: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 350*time.Millisecond {
		t.Errorf("third request waited %v, want about one token interval", elapsed)
	}

	if got := atomic.LoadInt32(calls); got != 2 {
		t.Errorf("exp 2 calls to reach the server, got %d", got)
	}
}
