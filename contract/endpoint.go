package contract

import "net/http"

// Endpoint identifies a remote operation by HTTP method and path template.
// The template may contain placeholders such as {id}.
type Endpoint interface {
	Method() string
	Path() string
}

// Route is an immutable Endpoint.
type Route struct {
	method string
	path   string
}

var _ Endpoint = Route{}

// NewRoute creates a route for method and path template.
func NewRoute(method, path string) Route {
	return Route{method: method, path: path}
}

// Get creates a GET route.
func Get(path string) Route { return NewRoute(http.MethodGet, path) }

// Post creates a POST route.
func Post(path string) Route { return NewRoute(http.MethodPost, path) }

// Put creates a PUT route.
func Put(path string) Route { return NewRoute(http.MethodPut, path) }

// Patch creates a PATCH route.
func Patch(path string) Route { return NewRoute(http.MethodPatch, path) }

// Delete creates a DELETE route.
func Delete(path string) Route { return NewRoute(http.MethodDelete, path) }

// Method returns the HTTP method.
func (r Route) Method() string { return r.method }

// Path returns the path template.
func (r Route) Path() string { return r.path }

// String returns "METHOD path".
func (r Route) String() string { return r.method + " " + r.path }
