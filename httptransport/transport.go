package httptransport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apicontract/contract"
	"github.com/kbukum/apicontract/logger"
)

const tracerName = "github.com/kbukum/apicontract/httptransport"

// Transport sends resolved contract.Params over HTTP and returns the raw
// response body. It is safe for concurrent use.
type Transport struct {
	httpClient *http.Client
	config     Config
	log        *logger.Logger
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

var _ contract.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the underlying *http.Client. Its Timeout is left
// as given.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.httpClient = c
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(l *logger.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.log = l
		}
	}
}

// WithTracerProvider sets the tracer provider used for client spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Transport) {
		if tp != nil {
			t.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithPropagator sets the propagator that injects trace context into
// outgoing headers.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Transport) {
		if p != nil {
			t.propagator = p
		}
	}
}

// New creates a new HTTP transport with the given configuration.
func New(cfg Config, opts ...Option) (*Transport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	component := "httptransport"
	if cfg.Name != "" {
		component += "." + cfg.Name
	}

	t := &Transport{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config:     cfg,
		log:        logger.WithComponent(component),
		tracer:     otel.GetTracerProvider().Tracer(tracerName),
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// SendRequest executes params and returns the response body of a 2xx
// response. Other outcomes return an *Error.
func (t *Transport) SendRequest(ctx context.Context, params contract.Params) ([]byte, error) {
	start := time.Now()
	ctx, span := t.tracer.Start(ctx, "HTTP "+params.Method(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", params.Method()),
			attribute.String("url.path", params.Path()),
		),
	)
	defer span.End()

	req, requestID, err := t.buildRequest(ctx, params)
	if err != nil {
		return nil, t.fail(span, params, requestID, start, err)
	}
	span.SetAttributes(
		attribute.String("url.full", req.URL.String()),
		attribute.String("http.request.id", requestID),
	)
	if t.config.Name != "" {
		span.SetAttributes(attribute.String("peer.service", t.config.Name))
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, t.fail(span, params, requestID, start, NewTimeoutError(err))
		}
		return nil, t.fail(span, params, requestID, start, NewConnectionError(err))
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.config.MaxBodySize+1))
	if err != nil {
		return nil, t.fail(span, params, requestID, start, NewConnectionError(fmt.Errorf("read response body: %w", err)))
	}
	if int64(len(body)) > t.config.MaxBodySize {
		return nil, t.fail(span, params, requestID, start, newTooLargeError(resp.StatusCode, t.config.MaxBodySize))
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return nil, t.fail(span, params, requestID, start, classErr)
	}

	fields := t.fields(params, requestID, start)
	fields[logger.FieldStatus] = resp.StatusCode
	t.log.Debug("request completed", fields)
	return body, nil
}

// Close releases idle connections held by the transport.
func (t *Transport) Close() {
	t.httpClient.CloseIdleConnections()
}

// Config returns the effective configuration.
func (t *Transport) Config() Config {
	return t.config
}

// buildRequest constructs an *http.Request from the transport config and params.
func (t *Transport) buildRequest(ctx context.Context, params contract.Params) (*http.Request, string, error) {
	var body io.Reader
	if params.HasBody() {
		body = bytes.NewReader(params.Body())
	}

	req, err := http.NewRequestWithContext(ctx, params.Method(), t.URL(params), body)
	if err != nil {
		return nil, "", newRequestError(err)
	}

	// Defaults first, then the request's own headers.
	for k, v := range t.config.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range params.Headers() {
		req.Header.Set(k, v)
	}
	if params.HasBody() && params.ContentType() != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", params.ContentType())
	}

	t.config.Auth.apply(req.Header)

	requestID := req.Header.Get(t.config.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(t.config.RequestIDHeader, requestID)
	}

	t.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, requestID, nil
}

// URL returns the address a request is sent to: the base URL joined with
// the request path and query. Absolute request URLs are used as they are.
func (t *Transport) URL(params contract.Params) string {
	target := params.URL()
	if t.config.BaseURL == "" || strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return strings.TrimRight(t.config.BaseURL, "/") + "/" + strings.TrimLeft(target, "/")
}

func (t *Transport) fail(span trace.Span, params contract.Params, requestID string, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	fields := logger.MergeWithError(t.fields(params, requestID, start), err)
	if code := StatusCode(err); code > 0 {
		fields[logger.FieldStatus] = code
	}
	t.log.Debug("request failed", fields)
	return err
}

func (t *Transport) fields(params contract.Params, requestID string, start time.Time) map[string]interface{} {
	fields := logger.MergeWithDuration(logger.RequestFields(params.Method(), params.Path()), time.Since(start))
	if requestID != "" {
		fields[logger.FieldRequestID] = requestID
	}
	return fields
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
