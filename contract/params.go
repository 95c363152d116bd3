package contract

import (
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// QueryItem is one key=value query term.
type QueryItem struct {
	Key   string
	Value string
}

// Params is a fully resolved request produced by Builder.Build. It is
// immutable: accessors return copies.
type Params struct {
	method      string
	path        string
	headers     map[string]string
	query       []QueryItem
	body        []byte
	contentType string
}

// Method returns the HTTP method.
func (p Params) Method() string { return p.method }

// Path returns the resolved path.
func (p Params) Path() string { return p.path }

// Header returns the value of the named header, or "".
func (p Params) Header(name string) string {
	return p.headers[http.CanonicalHeaderKey(name)]
}

// Headers returns a copy of the headers, keyed by canonical name.
func (p Params) Headers() map[string]string {
	return maps.Clone(p.headers)
}

// Query returns a copy of the query terms in insertion order.
func (p Params) Query() []QueryItem {
	return slices.Clone(p.query)
}

// RawQuery returns the encoded query string, preserving term order.
func (p Params) RawQuery() string {
	var sb strings.Builder
	for i, item := range p.query {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(item.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(item.Value))
	}
	return sb.String()
}

// URL returns the resolved path followed by the encoded query, if any.
func (p Params) URL() string {
	if len(p.query) == 0 {
		return p.path
	}
	return p.path + "?" + p.RawQuery()
}

// HasBody reports whether a body was set.
func (p Params) HasBody() bool { return p.body != nil }

// Body returns a copy of the body, or nil if none was set.
func (p Params) Body() []byte { return slices.Clone(p.body) }

// ContentType returns the media type of the body, or "".
func (p Params) ContentType() string { return p.contentType }
