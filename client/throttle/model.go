package throttle

import (
	"errors"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config defines the throttler's requests per second and burst. With
// PerPath set, every endpoint path gets its own bucket of that size.
type Config struct {
	RPS     int
	Burst   int
	PerPath bool
}
