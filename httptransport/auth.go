package httptransport

import (
	"encoding/base64"
	"net/http"
)

// AuthType identifies the authentication scheme.
type AuthType string

const (
	// AuthNone disables authentication.
	AuthNone AuthType = "none"
	// AuthBearer sends "Authorization: Bearer <token>".
	AuthBearer AuthType = "bearer"
	// AuthBasic sends HTTP Basic credentials.
	AuthBasic AuthType = "basic"
	// AuthAPIKey sends the key in a named header.
	AuthAPIKey AuthType = "api_key"
)

const defaultAPIKeyHeader = "X-API-Key"

// AuthConfig configures header-based authentication.
type AuthConfig struct {
	// Type is the authentication scheme.
	Type AuthType `yaml:"type" mapstructure:"type" validate:"omitempty,oneof=none bearer basic api_key"`
	// Token is the bearer token (AuthBearer).
	Token string `yaml:"token" mapstructure:"token" validate:"required_if=Type bearer"`
	// Username is the basic auth username (AuthBasic).
	Username string `yaml:"username" mapstructure:"username" validate:"required_if=Type basic"`
	// Password is the basic auth password (AuthBasic).
	Password string `yaml:"password" mapstructure:"password"`
	// Key is the API key value (AuthAPIKey).
	Key string `yaml:"key" mapstructure:"key" validate:"required_if=Type api_key"`
	// Header is the API key header name. Defaults to "X-API-Key".
	Header string `yaml:"header" mapstructure:"header"`
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent in X-API-Key.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Header: defaultAPIKeyHeader}
}

// APIKeyAuthHeader creates an API key auth config with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Header: headerName}
}

// apply sets the authentication header on h. Headers already present in
// h are left alone, so a request can carry its own credentials.
func (a *AuthConfig) apply(h http.Header) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		setIfAbsent(h, "Authorization", "Bearer "+a.Token)
	case AuthBasic:
		creds := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
		setIfAbsent(h, "Authorization", "Basic "+creds)
	case AuthAPIKey:
		name := a.Header
		if name == "" {
			name = defaultAPIKeyHeader
		}
		setIfAbsent(h, name, a.Key)
	}
}

func setIfAbsent(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}
