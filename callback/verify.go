package callback

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xxscloud/vhall/client"
)

var (
	ErrUnknownApp   = errors.New("unknown app key")
	ErrStale        = errors.New("callback outside freshness window")
	ErrBadSignature = errors.New("signature mismatch")
	ErrReplayed     = errors.New("callback replayed")
)

// verify checks that ev was signed by cred within window of now.
func verify(cred client.Credential, ev Event, now time.Time, window time.Duration) error {
	if subtle.ConstantTimeCompare([]byte(ev.AppKey), []byte(cred.AppKey)) != 1 {
		return ErrUnknownApp
	}

	at, err := ev.Time()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStale, err)
	}
	if skew := now.Sub(at).Abs(); skew > window {
		return fmt.Errorf("%w: skew %s", ErrStale, skew.Round(time.Second))
	}

	params := make(client.Params, len(ev.Fields))
	for k, v := range ev.Fields {
		if k != client.KeySign {
			params[k] = client.String(v)
		}
	}

	exp := client.Sign(cred.SecretKey, params)
	if subtle.ConstantTimeCompare([]byte(exp), []byte(strings.ToLower(ev.Sign))) != 1 {
		return ErrBadSignature
	}

	return nil
}
