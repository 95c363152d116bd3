package contract

import "context"

type callOptions struct {
	headers map[string]string
}

// CallOption configures a single Perform call.
type CallOption func(*callOptions)

// WithHeaders adds custom headers to the call. They override headers set by
// request parameters of the same name.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *callOptions) {
		o.headers = headers
	}
}

// Perform builds req against ep, sends it through the client's transport,
// and decodes the payload into Resp.
//
// Build and transport failures are returned as *PipelineError. Decode
// failures are reported to the client's Sink and returned exactly as the
// codec produced them. An empty payload decodes as an empty object when
// Resp is EmptyCapable.
func Perform[Resp any](ctx context.Context, c *Client, req Request, ep Endpoint, opts ...CallOption) (Resp, error) {
	var zero Resp

	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	params, err := c.Prepare(req, ep, o.headers)
	if err != nil {
		return zero, &PipelineError{Stage: StageBuild, Err: err}
	}

	data, err := c.transport.SendRequest(ctx, params)
	if err != nil {
		return zero, &PipelineError{Stage: StageTransport, Err: err}
	}

	return decodeResponse[Resp](ctx, c, params, data)
}

func decodeResponse[Resp any](ctx context.Context, c *Client, params Params, data []byte) (Resp, error) {
	payload := data
	if len(data) == 0 && acceptsEmpty[Resp]() {
		payload = emptyObject
	}

	var resp Resp
	var err error
	if d, ok := any(&resp).(codecDecoder); ok {
		err = d.decodeWith(c.codec, payload)
	} else {
		err = c.codec.Decode(payload, &resp)
	}
	if err != nil {
		c.sink.DecodeFailed(ctx, NewDiagnostic(params, err, data))
		var zero Resp
		return zero, err
	}
	return resp, nil
}
