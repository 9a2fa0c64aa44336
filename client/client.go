package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xxscloud/vhall/client/metrics"
	"github.com/xxscloud/vhall/client/throttle"
)

// Client signs and sends requests for one credential and one API variant.
// It is safe for concurrent use; build it once and share it.
type Client struct {
	c       *http.Client
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics

	cred    Credential
	variant Variant
	baseURL string
	now     func() time.Time
}

// Build validates the credential and variant and assembles a [Client].
// Unless configured otherwise, requests go through [http.DefaultTransport]
// with no timeout.
func Build(cred Credential, variant Variant, optFns ...Option) (*Client, error) {
	if err := cred.Validate(); err != nil {
		return nil, fmt.Errorf("validating credential: %w", err)
	}
	if err := variant.valid(); err != nil {
		return nil, err
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		c:       &http.Client{},
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer("vhall"),
		cred:    cred,
		variant: variant,
		baseURL: variant.BaseURL(),
		now:     time.Now,
	}

	if opts.client != nil {
		cpy := *opts.client
		client.c = &cpy
	}
	if opts.logger != nil {
		client.logger = opts.logger
	}
	if opts.tracer != nil {
		client.tracer = opts.tracer
	}
	if opts.baseURL != "" {
		client.baseURL = opts.baseURL
	}
	if opts.clock != nil {
		client.now = opts.clock
	}
	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}
	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.registerer != nil {
		m, err := metrics.New(opts.registerer)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		client.metrics = m
		transport = m.RoundTripper(transport)
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Variant reports the API generation the client targets.
func (c *Client) Variant() Variant { return c.variant }

// Logger returns the logger the client writes to.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Seal signs params with the client's credential at the current time.
func (c *Client) Seal(params Params) Envelope {
	return Seal(c.cred, c.variant, params, c.now())
}

// Call posts params to path and normalizes the response with [Result].
// A non-200 remote code is returned as an [*APIError], unwrapped.
func (c *Client) Call(ctx context.Context, path string, params Params, opts ...PostOption) (any, error) {
	ctx, span := c.tracer.Start(ctx, "vhall.call", trace.WithAttributes(
		attribute.String("vhall.path", path),
		attribute.String("vhall.variant", c.variant.String()),
	))
	defer span.End()

	resp, err := c.Post(ctx, path, params, opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	code := resp.Code()
	span.SetAttributes(attribute.String("vhall.code", code))
	c.metrics.CountResult(path, code)

	data, err := Result(resp)
	if err != nil {
		c.logger.Debug("vhall call rejected", "path", path, "code", code, "msg", resp.Message())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return data, nil
}

// Post signs params, sends them to path as multipart/form-data and decodes
// the response object. The remote code is not inspected.
func (c *Client) Post(ctx context.Context, path string, params Params, opts ...PostOption) (Response, error) {
	var settings postOpts
	for _, opt := range opts {
		opt(&settings)
	}

	if keys := reserved(params); len(keys) > 0 {
		return nil, reservedKeyError(keys)
	}
	if keys := nonFinite(params); len(keys) > 0 {
		return nil, nonFiniteError(keys)
	}

	env := c.Seal(params)
	body, contentType, err := env.Multipart(settings.fileType)
	if err != nil {
		return nil, fmt.Errorf("building request body: %w", err)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.logger.Debug("vhall request", "variant", c.variant.String(), "path", path, "params", env.Wire.Keys())

	var resp Response
	decodeFn := func(r *http.Response) error {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return &TransportError{URL: endpoint, Err: fmt.Errorf("reading body: %w", err)}
		}
		if len(bytes.TrimSpace(b)) == 0 {
			return &TransportError{URL: endpoint, Err: ErrEmptyResponse}
		}

		resp, err = decodeResponse(b)
		if err != nil {
			if !success(r.StatusCode) {
				return &UnexpectedStatusError{
					StatusCode: r.StatusCode,
					Body:       string(truncate(b, maxErrBodySize)),
					Err:        ErrUnexpectedStatusCode,
				}
			}
			return err
		}

		return nil
	}

	if err := c.exec(req, decodeFn); err != nil {
		return nil, err
	}

	c.logger.Debug("vhall response", "path", path, "code", resp.Code())

	return resp, nil
}

// Get fetches rawURL and returns the body. An empty body yields nil
// content and a nil error; deciding whether that is acceptable is up to
// the caller.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	var content []byte
	readFn := func(r *http.Response) error {
		if !success(r.StatusCode) {
			b, err := io.ReadAll(io.LimitReader(r.Body, maxErrBodySize))
			if err != nil {
				b = []byte("unable to read body")
			}

			return &UnexpectedStatusError{
				StatusCode: r.StatusCode,
				Body:       string(b),
				Err:        ErrUnexpectedStatusCode,
			}
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			return &TransportError{URL: rawURL, Err: fmt.Errorf("reading body: %w", err)}
		}
		if len(b) > 0 {
			content = b
		}

		return nil
	}

	if err := c.exec(req, readFn); err != nil {
		return nil, err
	}

	return content, nil
}

// exec runs the request and hands the response to fn. The body is always
// drained and closed afterwards.
func (c *Client) exec(req *http.Request, fn execFn) error {
	resp, err := c.c.Do(req)
	if err != nil {
		return &TransportError{URL: req.URL.Redacted(), Err: err}
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	return fn(resp)
}

func success(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
