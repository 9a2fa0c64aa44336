package spool

import (
	"errors"
	"fmt"
)

var (
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrChecksumMismatch      = errors.New("checksum mismatch")
	ErrCancelled             = errors.New("spool cancelled")
)

// Error reports spooled content that failed a post-write check. The file
// it was written to has already been removed.
type Error struct {
	// Stage is the check that failed: "length" or "checksum".
	Stage string
	Want  string
	Got   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("spool %s: %v: want %s, got %s", e.Stage, e.Err, e.Want, e.Got)
}

func (e *Error) Unwrap() error { return e.Err }
