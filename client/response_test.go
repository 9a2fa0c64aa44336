package client_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xxscloud/vhall/client"
)

func TestResult(t *testing.T) {
	testCases := []struct {
		name     string
		resp     client.Response
		expData  any
		expCode  string
		expMsg   string
		expError bool
	}{
		{
			name:    "string code",
			resp:    client.Response{"code": "200", "data": map[string]any{"webinar_id": "42"}},
			expData: map[string]any{"webinar_id": "42"},
		},
		{
			name:    "numeric code",
			resp:    client.Response{"code": json.Number("200"), "data": "42"},
			expData: "42",
		},
		{
			name:    "success without data",
			resp:    client.Response{"code": "200"},
			expData: nil,
		},
		{
			name:     "failure with message",
			resp:     client.Response{"code": "400", "msg": "invalid subject"},
			expCode:  "400",
			expMsg:   "invalid subject",
			expError: true,
		},
		{
			name:     "failure without message",
			resp:     client.Response{"code": json.Number("10030")},
			expCode:  "10030",
			expMsg:   "",
			expError: true,
		},
		{
			name:     "missing code",
			resp:     client.Response{"data": "x"},
			expError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := client.Result(tc.resp)

			if !tc.expError {
				if err != nil {
					t.Fatalf("exp nil err, got: %v", err)
				}
				if diff := cmp.Diff(tc.expData, data); diff != "" {
					t.Errorf("data mismatch (-want +got):\n%s", diff)
				}
				return
			}

			if !errors.Is(err, client.ErrRemoteAPI) {
				t.Fatalf("exp ErrRemoteAPI, got: %v", err)
			}

			apiErr, ok := errors.AsType[*client.APIError](err)
			if !ok {
				t.Fatalf("exp *APIError, got %T", err)
			}
			if apiErr.Code != tc.expCode {
				t.Errorf("exp code %q, got %q", tc.expCode, apiErr.Code)
			}
			if err.Error() != tc.expMsg {
				t.Errorf("exp message %q, got %q", tc.expMsg, err.Error())
			}
		})
	}
}

func TestDataAs(t *testing.T) {
	type webinar struct {
		ID      json.Number `json:"webinar_id"`
		Subject string      `json:"subject"`
	}

	got, err := client.DataAs[webinar](map[string]any{"webinar_id": json.Number("42"), "subject": "Hello"})
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}
	if diff := cmp.Diff(webinar{ID: "42", Subject: "Hello"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := client.DataAs[webinar](nil); !errors.Is(err, client.ErrMalformedResponse) {
		t.Errorf("exp ErrMalformedResponse for absent data, got: %v", err)
	}

	if _, err := client.DataAs[webinar]([]any{"a"}); !errors.Is(err, client.ErrMalformedResponse) {
		t.Errorf("exp ErrMalformedResponse for array data, got: %v", err)
	}
}
