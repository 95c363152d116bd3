package httptransport

import (
	"net/http"
	"testing"
)

func TestBearerAuth(t *testing.T) {
	h := http.Header{}
	BearerAuth("my-token").apply(h)
	if got := h.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("got %q, want %q", got, "Bearer my-token")
	}
}

func TestBasicAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	BasicAuth("user", "pass").apply(req.Header)
	u, p, ok := req.BasicAuth()
	if !ok || u != "user" || p != "pass" {
		t.Errorf("basic auth not set correctly: user=%q pass=%q ok=%v", u, p, ok)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	h := http.Header{}
	APIKeyAuth("secret-key").apply(h)
	if got := h.Get("X-API-Key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}

	h = http.Header{}
	APIKeyAuthHeader("secret-key", "X-Custom-Key").apply(h)
	if got := h.Get("X-Custom-Key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}

	h = http.Header{}
	(&AuthConfig{Type: AuthAPIKey, Key: "k"}).apply(h)
	if got := h.Get("X-API-Key"); got != "k" {
		t.Errorf("empty header name should fall back to X-API-Key, got %q", got)
	}
}

func TestAuth_KeepsExistingHeader(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer per-request")
	BearerAuth("default").apply(h)
	if got := h.Get("Authorization"); got != "Bearer per-request" {
		t.Errorf("request credentials should win, got %q", got)
	}
}

func TestAuth_NilAndNone(t *testing.T) {
	h := http.Header{}
	var a *AuthConfig
	a.apply(h)
	(&AuthConfig{Type: AuthNone}).apply(h)
	if len(h) != 0 {
		t.Errorf("expected no headers, got %v", h)
	}
}
