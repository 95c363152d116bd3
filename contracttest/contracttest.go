// Package contracttest provides test doubles for code built on contract.
//
//	tr := contracttest.NewTransport().Respond([]byte(`{"name":"Ann"}`))
//	sink := &contracttest.Sink{}
//	client, _ := contract.New(tr, contract.WithSink(sink))
package contracttest

import (
	"context"
	"sync"

	"github.com/kbukum/apicontract/contract"
)

type reply struct {
	body []byte
	err  error
}

// Transport records every request and answers with queued replies. When
// the queue is empty the last reply is repeated; with no replies at all it
// returns an empty body. It is safe for concurrent use.
type Transport struct {
	mu       sync.Mutex
	requests []contract.Params
	replies  []reply
	last     reply
}

var _ contract.Transport = (*Transport)(nil)

// NewTransport creates a transport with no queued replies.
func NewTransport() *Transport {
	return &Transport{}
}

// Respond queues a successful reply.
func (t *Transport) Respond(body []byte) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, reply{body: body})
	return t
}

// Fail queues a failed reply.
func (t *Transport) Fail(err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, reply{err: err})
	return t
}

// SendRequest implements contract.Transport.
func (t *Transport) SendRequest(ctx context.Context, params contract.Params) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, params)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(t.replies) > 0 {
		t.last = t.replies[0]
		t.replies = t.replies[1:]
	}
	return t.last.body, t.last.err
}

// Requests returns the requests received so far.
func (t *Transport) Requests() []contract.Params {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]contract.Params, len(t.requests))
	copy(out, t.requests)
	return out
}

// LastRequest returns the most recent request and whether there was one.
func (t *Transport) LastRequest() (contract.Params, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.requests) == 0 {
		return contract.Params{}, false
	}
	return t.requests[len(t.requests)-1], true
}

// Sink captures diagnostics. The zero value is ready to use.
type Sink struct {
	mu          sync.Mutex
	diagnostics []contract.Diagnostic
}

var _ contract.Sink = (*Sink)(nil)

// DecodeFailed implements contract.Sink.
func (s *Sink) DecodeFailed(_ context.Context, d contract.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = append(s.diagnostics, d)
}

// Diagnostics returns the captured diagnostics.
func (s *Sink) Diagnostics() []contract.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]contract.Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	return out
}
