package callback

import (
	"context"
	"encoding/json"
	"net/http"
)

// ack is the body the remote service expects for a handled callback.
type ack struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

var success = ack{Code: http.StatusOK, Msg: "success"}

// RespondJSON writes data with statusCode and records the status.
func RespondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) error {
	SetStatusCode(ctx, statusCode)

	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err = w.Write(jsonData); err != nil {
		return err
	}

	return nil
}
