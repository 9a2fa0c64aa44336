package spool

import (
	"encoding/hex"
	"hash"
	"strings"
)

// digest accumulates the hash of spooled content.
type digest struct {
	hash.Hash
	want string
}

// check compares the hash of everything written so far with want. A nil
// digest always passes.
func (d *digest) check() error {
	if d == nil {
		return nil
	}

	if got := hex.EncodeToString(d.Sum(nil)); !strings.EqualFold(got, d.want) {
		return &Error{Stage: "checksum", Want: d.want, Got: got, Err: ErrChecksumMismatch}
	}

	return nil
}
