package spool

import (
	"errors"
	"hash"
)

// Option defines optional settings for spooling content.
type Option func(*options) error

type options struct {
	checksum *digest
	progress bool
}

// WithChecksum verifies the written content hashes to expected, a hex
// string, using h (e.g. md5.New()).
func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &digest{Hash: h, want: expected}
		return nil
	}
}

// WithProgress logs write progress at most once per second.
func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}
