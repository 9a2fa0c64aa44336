package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"runtime/debug"
	"slices"
	"time"

	"github.com/xxscloud/vhall/callback/errs"
	"github.com/xxscloud/vhall/internal/validate"
)

// Handler is an http handler that returns an error.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// Middleware wraps a Handler.
type Middleware func(handler Handler) Handler

// Logger logs the start and completion of every callback request.
func Logger(log *slog.Logger) Middleware {
	m := func(handler Handler) Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v := GetValues(ctx)

			log.Info("callback started", "method", r.Method, "path", r.URL.Path, "remoteaddr", r.RemoteAddr, "trace_id", v.TraceID)

			err := handler(ctx, w, r)

			log.Info("callback completed", "method", r.Method, "path", r.URL.Path, "remoteaddr", r.RemoteAddr, "trace_id", v.TraceID,
				"statusCode", v.StatusCode, "since", time.Since(v.Now).String())

			return err
		}

		return h
	}

	return m
}

// Errors answers errors coming out of the call chain.
func Errors(log *slog.Logger) Middleware {
	m := func(handler Handler) Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			if fieldErr, ok := errors.AsType[validate.FieldErrors](err); ok {
				return RespondJSON(ctx, w, http.StatusUnprocessableEntity, fieldErr)
			}

			appErr, ok := errors.AsType[*errs.Error](err)
			if !ok { // obscure errors that escaped unclassified.
				appErr = errs.NewInternal(err)
			}

			reqLog := log.With("trace_id", GetValues(ctx).TraceID)
			reqLog.Error(err.Error(), "source_err_file", path.Base(appErr.FileName), "source_err_func", path.Base(appErr.FuncName))

			resp := *appErr
			if resp.InnerErr {
				resp.Message = http.StatusText(resp.Code)
			}

			return RespondJSON(ctx, w, resp.Code, &resp)
		}

		return h
	}

	return m
}

// Panics recovers from panics in the rest of the chain.
func Panics() Middleware {
	m := func(handler Handler) Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					err = fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(trace))
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// wrap middleware around the handler, the first one outermost.
func wrap(mw []Middleware, handler Handler) Handler {
	for _, mwFn := range slices.Backward(mw) {
		if mwFn != nil {
			handler = mwFn(handler)
		}
	}

	return handler
}
