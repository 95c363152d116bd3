package contract

// EmptyCapable is implemented by response types that have a canonical value
// for a response without a body. When the payload is empty and the response
// type accepts it, Perform decodes an empty JSON object instead.
type EmptyCapable interface {
	AcceptsEmptyBody() bool
}

// EmptyResponse is the response type for operations that return no body.
type EmptyResponse struct{}

// AcceptsEmptyBody implements EmptyCapable.
func (EmptyResponse) AcceptsEmptyBody() bool { return true }

// acceptsEmpty reports whether T accepts an empty payload. The method set
// of *T covers both value and pointer receivers.
func acceptsEmpty[T any]() bool {
	var zero T
	if ec, ok := any(&zero).(EmptyCapable); ok {
		return ec.AcceptsEmptyBody()
	}
	return false
}

// emptyObject is the canonical payload decoded for empty responses.
var emptyObject = []byte("{}")
