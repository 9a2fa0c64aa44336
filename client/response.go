package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// SuccessCode is the textual status the remote service uses for success.
const SuccessCode = "200"

// Response is a decoded response object. Numbers are kept as json.Number.
type Response map[string]any

// Code returns the textual form of the code field, or "" when absent.
func (r Response) Code() string {
	return text(r["code"])
}

// Message returns the msg field, or "" when absent.
func (r Response) Message() string {
	return text(r["msg"])
}

// Data returns the untyped data field.
func (r Response) Data() any {
	return r["data"]
}

// Result classifies r: a 200 code yields the data field, anything else
// an [*APIError] carrying the remote message and code.
func Result(r Response) (any, error) {
	if code := r.Code(); code != SuccessCode {
		return nil, &APIError{Code: code, Message: r.Message()}
	}

	return r.Data(), nil
}

// DataAs reshapes untyped response data into T. Absent data is reported as
// [ErrMalformedResponse].
func DataAs[T any](data any) (T, error) {
	var out T
	if data == nil {
		return out, fmt.Errorf("%w: data is absent", ErrMalformedResponse)
	}

	b, err := json.Marshal(data)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	if err := d.Decode(&out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return out, nil
}

// decodeResponse parses body as a single JSON object.
func decodeResponse(body []byte) (Response, error) {
	d := json.NewDecoder(bytes.NewReader(body))
	d.UseNumber()

	var r Response
	if err := d.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: body is not an object", ErrMalformedResponse)
	}
	if err := d.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedResponse)
	}

	return r, nil
}

// text renders a decoded JSON scalar the way the remote service compares it.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}
