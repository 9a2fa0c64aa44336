package callback

import (
	"net/url"
	"strconv"
	"time"

	"github.com/xxscloud/vhall/client"
)

// millisThreshold separates second and millisecond timestamps: any value
// at or above it is read as milliseconds.
const millisThreshold = 1_000_000_000_000

// Event is one callback notification.
type Event struct {
	AppKey    string `json:"app_key" validate:"required"`
	SignedAt  string `json:"signed_at" validate:"required,number"`
	Sign      string `json:"sign" validate:"required,len=32,hexadecimal"`
	Name      string `json:"event" validate:"required"`
	WebinarID string `json:"webinar_id"`

	// Fields holds every submitted field, the ones above included.
	Fields map[string]string `json:"-"`
}

// Time returns signed_at as a time. Both seconds and milliseconds are
// accepted.
func (e Event) Time() (time.Time, error) {
	n, err := strconv.ParseInt(e.SignedAt, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	if n >= millisThreshold {
		return time.UnixMilli(n), nil
	}

	return time.Unix(n, 0), nil
}

// Get returns the submitted value of key.
func (e Event) Get(key string) string {
	return e.Fields[key]
}

func parseEvent(form url.Values) Event {
	fields := make(map[string]string, len(form))
	for k := range form {
		fields[k] = form.Get(k)
	}

	return Event{
		AppKey:    fields[client.KeyAppKey],
		SignedAt:  fields[client.KeySignedAt],
		Sign:      fields[client.KeySign],
		Name:      fields["event"],
		WebinarID: fields["webinar_id"],
		Fields:    fields,
	}
}
