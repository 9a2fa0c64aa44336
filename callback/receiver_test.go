package callback_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/xxscloud/vhall/callback"
	"github.com/xxscloud/vhall/callback/errs"
	"github.com/xxscloud/vhall/client"
)

var (
	testCred = client.Credential{AppKey: "k1", SecretKey: "s3cr3t"}
	now      = time.UnixMilli(1700000000000)
)

// signedForm returns fields plus app_key, signed_at and a valid sign.
func signedForm(cred client.Credential, at time.Time, fields map[string]string) url.Values {
	params := client.Params{
		client.KeyAppKey:   client.String(cred.AppKey),
		client.KeySignedAt: client.String(strconv.FormatInt(at.UnixMilli(), 10)),
	}
	for k, v := range fields {
		params[k] = client.String(v)
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v.Text())
	}
	form.Set(client.KeySign, client.Sign(cred.SecretKey, params))

	return form
}

func post(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	return w
}

func newReceiver(t *testing.T, opts ...callback.Option) *callback.Receiver {
	t.Helper()

	opts = append([]callback.Option{
		callback.WithClock(func() time.Time { return now }),
		callback.WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)

	rc, err := callback.New(testCred, opts...)
	if err != nil {
		t.Fatalf("building receiver: %v", err)
	}

	return rc
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decoding body %q: %v", w.Body.String(), err)
	}
	return m
}

func TestReceiver_Dispatch(t *testing.T) {
	rc := newReceiver(t)

	var got callback.Event
	rc.On("live_start", func(ctx context.Context, ev callback.Event) error {
		got = ev
		return nil
	})

	w := post(t, rc, signedForm(testCred, now, map[string]string{"event": "live_start", "webinar_id": "42", "room": "r1"}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if diff := cmp.Diff(map[string]any{"code": float64(200), "msg": "success"}, decode(t, w)); diff != "" {
		t.Errorf("ack mismatch (-want +got):\n%s", diff)
	}

	if got.Name != "live_start" || got.WebinarID != "42" || got.Get("room") != "r1" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestReceiver_Rejects(t *testing.T) {
	valid := map[string]string{"event": "live_start", "webinar_id": "42"}

	testCases := []struct {
		name      string
		form      func() url.Values
		expStatus int
		expField  string
	}{
		{
			name: "bad signature",
			form: func() url.Values {
				f := signedForm(testCred, now, valid)
				f.Set("webinar_id", "43")
				return f
			},
			expStatus: http.StatusUnauthorized,
		},
		{
			name: "other app",
			form: func() url.Values {
				return signedForm(client.Credential{AppKey: "k2", SecretKey: "s3cr3t"}, now, valid)
			},
			expStatus: http.StatusUnauthorized,
		},
		{
			name: "wrong secret",
			form: func() url.Values {
				return signedForm(client.Credential{AppKey: "k1", SecretKey: "guess"}, now, valid)
			},
			expStatus: http.StatusUnauthorized,
		},
		{
			name: "stale",
			form: func() url.Values {
				return signedForm(testCred, now.Add(-time.Hour), valid)
			},
			expStatus: http.StatusUnauthorized,
		},
		{
			name: "missing event",
			form: func() url.Values {
				return signedForm(testCred, now, map[string]string{"webinar_id": "42"})
			},
			expStatus: http.StatusUnprocessableEntity,
			expField:  "event",
		},
		{
			name: "malformed sign",
			form: func() url.Values {
				f := signedForm(testCred, now, valid)
				f.Set("sign", "nope")
				return f
			},
			expStatus: http.StatusUnprocessableEntity,
			expField:  "sign",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rc := newReceiver(t)

			var called bool
			rc.On("live_start", func(ctx context.Context, ev callback.Event) error {
				called = true
				return nil
			})

			w := post(t, rc, tc.form())
			if w.Code != tc.expStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tc.expStatus, w.Body.String())
			}
			if called {
				t.Error("handler must not run")
			}

			if tc.expField != "" && !strings.Contains(w.Body.String(), `"field":"`+tc.expField+`"`) {
				t.Errorf("exp field error for %s, got %s", tc.expField, w.Body.String())
			}
		})
	}
}

func TestReceiver_SecondsTimestamp(t *testing.T) {
	rc := newReceiver(t)

	form := url.Values{
		"app_key":   {"k1"},
		"signed_at": {strconv.FormatInt(now.Unix(), 10)},
		"event":     {"live_over"},
	}
	params := client.Params{}
	for k := range form {
		params[k] = client.String(form.Get(k))
	}
	form.Set("sign", client.Sign(testCred.SecretKey, params))

	if w := post(t, rc, form); w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestReceiver_Replay(t *testing.T) {
	rc := newReceiver(t)

	var calls int
	rc.On("live_start", func(ctx context.Context, ev callback.Event) error {
		calls++
		return nil
	})

	form := signedForm(testCred, now, map[string]string{"event": "live_start"})

	if w := post(t, rc, form); w.Code != http.StatusOK {
		t.Fatalf("first status = %d", w.Code)
	}
	if w := post(t, rc, form); w.Code != http.StatusConflict {
		t.Fatalf("replay status = %d, want %d", w.Code, http.StatusConflict)
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
}

func TestReceiver_HandlerErrors(t *testing.T) {
	testCases := []struct {
		name       string
		fn         callback.HandlerFunc
		expStatus  int
		expMessage string
	}{
		{
			name: "internal",
			fn: func(ctx context.Context, ev callback.Event) error {
				return errors.New("database password is hunter2")
			},
			expStatus:  http.StatusInternalServerError,
			expMessage: http.StatusText(http.StatusInternalServerError),
		},
		{
			name: "classified",
			fn: func(ctx context.Context, ev callback.Event) error {
				return errs.New(http.StatusBadRequest, fmt.Errorf("unknown webinar %s", ev.WebinarID))
			},
			expStatus:  http.StatusBadRequest,
			expMessage: "unknown webinar 42",
		},
		{
			name: "panic",
			fn: func(ctx context.Context, ev callback.Event) error {
				panic("boom")
			},
			expStatus:  http.StatusInternalServerError,
			expMessage: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rc := newReceiver(t)
			rc.On("live_start", tc.fn)

			form := signedForm(testCred, now, map[string]string{"event": "live_start", "webinar_id": "42"})

			w := post(t, rc, form)
			if w.Code != tc.expStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.expStatus)
			}
			if msg := decode(t, w)["message"]; msg != tc.expMessage {
				t.Errorf("message = %v, want %q", msg, tc.expMessage)
			}

			// A failed delivery may be retried.
			rc.On("live_start", func(ctx context.Context, ev callback.Event) error { return nil })
			if w := post(t, rc, form); w.Code != http.StatusOK {
				t.Errorf("retry status = %d, want %d", w.Code, http.StatusOK)
			}
		})
	}
}

func TestReceiver_Unhandled(t *testing.T) {
	rc := newReceiver(t)

	if w := post(t, rc, signedForm(testCred, now, map[string]string{"event": "doc_convert"})); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var fallback string
	rc.Default(func(ctx context.Context, ev callback.Event) error {
		fallback = ev.Name
		return nil
	})

	if w := post(t, rc, signedForm(testCred, now, map[string]string{"event": "record_ready"})); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if fallback != "record_ready" {
		t.Errorf("fallback saw %q", fallback)
	}
}

func TestReceiver_Multipart(t *testing.T) {
	rc := newReceiver(t)

	var seen bool
	rc.On("live_start", func(ctx context.Context, ev callback.Event) error {
		seen = true
		return nil
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range signedForm(testCred, now, map[string]string{"event": "live_start"}) {
		if err := mw.WriteField(k, vs[0]); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(http.MethodPost, "/callback", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	rc.ServeHTTP(w, r)

	if w.Code != http.StatusOK || !seen {
		t.Fatalf("status = %d, handled = %v", w.Code, seen)
	}
}

func TestReceiver_Method(t *testing.T) {
	rc := newReceiver(t)

	w := httptest.NewRecorder()
	rc.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := callback.New(client.Credential{AppKey: "k1"}); err == nil {
		t.Error("exp error for missing secret")
	}

	bad := map[string]callback.Option{
		"nil guard":   callback.WithGuard(nil),
		"zero window": callback.WithWindow(0),
		"nil clock":   callback.WithClock(nil),
		"nil tracer":  callback.WithTracer(nil),
		"zero memory": callback.WithMaxMemory(0),
	}
	for name, opt := range bad {
		t.Run(name, func(t *testing.T) {
			if _, err := callback.New(testCred, opt); err == nil {
				t.Error("exp error")
			}
		})
	}
}
