// Package httptransport implements contract.Transport over net/http.
//
// It resolves request paths against a base URL, applies default headers
// and header-based authentication, tags every request with a request ID,
// records an OpenTelemetry client span, and classifies non-2xx responses
// into *Error values carrying the response body.
//
// # Basic Usage
//
//	tr, err := httptransport.New(httptransport.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    httptransport.BearerAuth("my-token"),
//	})
//	client, err := contract.New(tr)
//
// Retries, caching, and connection policy are left to the *http.Client
// passed with WithHTTPClient.
package httptransport
