package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// maxErrBodySize caps the amount of response body kept when building an
// error for a response that could not be decoded.
const maxErrBodySize = 4 << 10 // 4KB

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error

var (
	// ErrTransport is matched by every [TransportError].
	ErrTransport = errors.New("transport failure")
	// ErrEmptyResponse is wrapped by a [TransportError] when a POST
	// response carries no body.
	ErrEmptyResponse = errors.New("response body is empty")
	// ErrMalformedResponse reports a body that is not a JSON object, or
	// data that does not have the shape the caller asked for.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrRemoteAPI is matched by every [APIError].
	ErrRemoteAPI = errors.New("remote api error")
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrReservedKey is returned when caller parameters use a name the
	// signing envelope owns.
	ErrReservedKey = errors.New("reserved parameter")
	// ErrNonFinite is returned for float parameters that are NaN or infinite.
	ErrNonFinite = errors.New("non-finite float parameter")
)

// TransportError is returned when the HTTP exchange itself failed: the
// connection broke, the request timed out, or the body was absent.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrTransport, e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// APIError is returned when the remote service answered with a status code
// other than 200. Error returns the remote message verbatim.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrRemoteAPI
}

// UnexpectedStatusError is returned when a response could not be used and
// the HTTP status code was not 2xx.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

func reservedKeyError(keys []string) error {
	return fmt.Errorf("%w: %s", ErrReservedKey, strings.Join(keys, ", "))
}

func nonFiniteError(keys []string) error {
	return fmt.Errorf("%w: %s", ErrNonFinite, strings.Join(keys, ", "))
}
