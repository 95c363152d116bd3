package contract

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/apicontract/codec"
	"github.com/kbukum/apicontract/logger"
	"github.com/kbukum/apicontract/validation"
)

// Transport sends a built request and returns the raw response payload.
// Implementations must be safe for concurrent use; cancellation is carried
// by ctx.
type Transport interface {
	SendRequest(ctx context.Context, params Params) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, params Params) ([]byte, error)

// SendRequest calls f.
func (f TransportFunc) SendRequest(ctx context.Context, params Params) ([]byte, error) {
	return f(ctx, params)
}

// Client performs contract calls over a Transport. It holds no per-call
// state and is safe for concurrent use.
type Client struct {
	transport Transport
	codec     codec.Codec
	sink      Sink
	validate  *validator.Validate
}

// Option configures a Client.
type Option func(*Client)

// WithCodec replaces the JSON codec used for bodies and responses.
func WithCodec(c codec.Codec) Option {
	return func(cl *Client) {
		if c != nil {
			cl.codec = c
		}
	}
}

// WithSink sets where decode diagnostics go. Nil discards them.
func WithSink(s Sink) Option {
	return func(cl *Client) {
		if s == nil {
			s = NopSink
		}
		cl.sink = s
	}
}

// WithBodyValidation validates struct bodies with v before encoding. A nil
// v uses a default validator.
func WithBodyValidation(v *validator.Validate) Option {
	return func(cl *Client) {
		if v == nil {
			v = validation.New()
		}
		cl.validate = v
	}
}

// New creates a client sending requests through t. Diagnostics go to the
// global logger unless WithSink is given.
func New(t Transport, opts ...Option) (*Client, error) {
	if t == nil {
		return nil, errors.New("contract: transport is required")
	}
	c := &Client{
		transport: t,
		codec:     codec.JSON{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sink == nil {
		c.sink = LogSink(logger.WithComponent("contract"))
	}
	return c, nil
}

// Prepare builds the Params for req against ep without sending them.
// headers are merged after the parameter headers and override them.
func (c *Client) Prepare(req Request, ep Endpoint, headers map[string]string) (Params, error) {
	b := NewBuilder(WithBuilderCodec(c.codec), WithBuilderValidator(c.validate))

	if ep != nil {
		if err := b.SetMethod(ep.Method()); err != nil {
			return Params{}, err
		}
		if err := b.SetPath(ep.Path()); err != nil {
			return Params{}, err
		}
	}

	if req != nil {
		for _, f := range req.Fields() {
			if f.Param == nil {
				continue
			}
			if err := f.Param.FillRequest(f.Name, b); err != nil {
				return Params{}, err
			}
		}
	}

	if headers != nil {
		if err := b.AddHeaders(headers); err != nil {
			return Params{}, err
		}
	}

	return b.Build()
}
