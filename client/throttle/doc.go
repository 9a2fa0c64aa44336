// Package throttle provides an [http.RoundTripper] that rate-limits
// outbound vhall API calls using token buckets from
// [golang.org/x/time/rate].
//
// The remote service enforces quotas per interface, so a [Config] can
// ask for one bucket per endpoint path instead of a single shared one:
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.Config{RPS: 10, Burst: 5, PerPath: true},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//
// When a bucket is empty, requests block until a token becomes available
// or the request context ends.
package throttle
