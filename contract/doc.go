// Package contract turns declarative request objects into HTTP calls and
// typed results.
//
// A request type lists its fields together with the part of the HTTP
// request each one fills:
//
//	type GetUser struct {
//	    ID    string
//	    Trace string
//	}
//
//	func (r GetUser) Fields() []contract.Field {
//	    return []contract.Field{
//	        contract.Bind("id", contract.InPath(r.ID)),
//	        contract.Bind("X-Trace-Id", contract.InHeader(r.Trace)),
//	    }
//	}
//
// Perform builds the request against an endpoint, sends it through the
// client's Transport, and decodes the payload into the response type:
//
//	client, _ := contract.New(transport)
//	user, err := contract.Perform[User](ctx, client, GetUser{ID: "42"}, contract.Get("/users/{id}"))
//
// Response types implementing EmptyCapable, such as EmptyResponse, accept a
// zero-length payload. Either combines a regular response with an
// empty-capable one. Decode failures are reported to the client's Sink as a
// Diagnostic and returned to the caller unchanged.
package contract
