package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xxscloud/vhall/callback/errs"
	"github.com/xxscloud/vhall/client"
	"github.com/xxscloud/vhall/internal/validate"
)

// HandlerFunc processes one verified event.
type HandlerFunc func(ctx context.Context, ev Event) error

// Receiver verifies callbacks and dispatches them by event name.
type Receiver struct {
	cred      client.Credential
	logger    *slog.Logger
	tracer    trace.Tracer
	guard     Guard
	window    time.Duration
	now       func() time.Time
	maxMemory int64
	chain     Handler

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	fallback HandlerFunc
}

// New returns a Receiver verifying callbacks signed with cred.
func New(cred client.Credential, optFns ...Option) (*Receiver, error) {
	if err := cred.Validate(); err != nil {
		return nil, fmt.Errorf("validating credential: %w", err)
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying receiver option: %w", err)
		}
	}

	rc := &Receiver{
		cred:      cred,
		logger:    slog.Default(),
		tracer:    noop.NewTracerProvider().Tracer("vhall callback"),
		window:    DefaultWindow,
		now:       time.Now,
		maxMemory: defaultMaxMemory,
		handlers:  make(map[string]HandlerFunc),
	}

	if opts.logger != nil {
		rc.logger = opts.logger
	}
	if opts.tracer != nil {
		rc.tracer = opts.tracer
	}
	if opts.window > 0 {
		rc.window = opts.window
	}
	if opts.clock != nil {
		rc.now = opts.clock
	}
	if opts.maxMemory > 0 {
		rc.maxMemory = opts.maxMemory
	}
	rc.guard = opts.guard
	if rc.guard == nil {
		rc.guard = NewMemoryGuard(rc.now)
	}

	mw := []Middleware{Logger(rc.logger), Errors(rc.logger)}
	mw = append(mw, opts.mw...)
	mw = append(mw, Panics())
	rc.chain = wrap(mw, rc.handle)

	return rc, nil
}

// On registers fn for events named event, replacing any earlier one.
func (rc *Receiver) On(event string, fn HandlerFunc) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.handlers[event] = fn
}

// Default registers fn for events without a dedicated handler. Without
// one, such events are acknowledged and dropped.
func (rc *Receiver) Default(fn HandlerFunc) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.fallback = fn
}

// ServeHTTP implements http.Handler.
func (rc *Receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := rc.tracer.Start(ctx, "vhall.callback")
	defer span.End()

	traceID := span.SpanContext().TraceID().String()
	if !span.SpanContext().TraceID().IsValid() {
		traceID = uuid.New().String()
	}

	v := BaseValues{
		TraceID: traceID,
		Now:     rc.now().UTC(),
		Tracer:  rc.tracer,
	}

	r = r.WithContext(setValues(ctx, &v))

	if err := rc.chain(r.Context(), w, r); err != nil {
		span.SetStatus(codes.Error, err.Error())
		rc.logger.Error("callback", "trace_id", traceID, "error", err)
	}
}

func (rc *Receiver) handle(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodPost {
		return errs.New(http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	}

	form, err := rc.form(r)
	if err != nil {
		return errs.New(http.StatusBadRequest, fmt.Errorf("parsing form: %w", err))
	}

	ev := parseEvent(form)
	if err := validate.Check(ev); err != nil {
		return err
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("vhall.event", ev.Name), attribute.String("vhall.webinar_id", ev.WebinarID))

	if err := verify(rc.cred, ev, rc.now(), rc.window); err != nil {
		return errs.New(http.StatusUnauthorized, err)
	}

	fresh, err := rc.guard.Claim(ctx, ev.Sign, 2*rc.window)
	if err != nil {
		return errs.NewInternal(fmt.Errorf("claiming callback: %w", err))
	}
	if !fresh {
		return errs.New(http.StatusConflict, ErrReplayed)
	}

	fn := rc.lookup(ev.Name)
	if fn == nil {
		rc.logger.Debug("unhandled callback event", "event", ev.Name, "trace_id", GetValues(ctx).TraceID)
		return RespondJSON(ctx, w, http.StatusOK, success)
	}

	ctx, hspan := AddSpan(ctx, "vhall.callback.handle", attribute.String("vhall.event", ev.Name))
	defer hspan.End()

	if err := rc.dispatch(ctx, fn, ev); err != nil {
		hspan.RecordError(err)
		return err
	}

	return RespondJSON(ctx, w, http.StatusOK, success)
}

// dispatch runs fn and gives up the claim on ev when fn fails or panics, so
// the remote service can retry the delivery. A panic is re-raised once the
// claim is released.
func (rc *Receiver) dispatch(ctx context.Context, fn HandlerFunc, ev Event) (err error) {
	defer func() {
		rec := recover()
		if err == nil && rec == nil {
			return
		}

		if rerr := rc.guard.Release(ctx, ev.Sign); rerr != nil {
			if rec != nil {
				rc.logger.Error("releasing callback claim", "event", ev.Name, "error", rerr)
			} else {
				err = errors.Join(err, rerr)
			}
		}

		if rec != nil {
			panic(rec)
		}
	}()

	return fn(ctx, ev)
}

func (rc *Receiver) lookup(event string) HandlerFunc {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	if fn, ok := rc.handlers[event]; ok {
		return fn
	}
	return rc.fallback
}

// form returns the submitted fields of either form encoding.
func (rc *Receiver) form(r *http.Request) (url.Values, error) {
	err := r.ParseMultipartForm(rc.maxMemory)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	return r.PostForm, nil
}
