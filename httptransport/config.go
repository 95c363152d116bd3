package httptransport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxBodySize     = 10 << 20
	defaultRequestIDHeader = "X-Request-Id"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config configures the HTTP transport.
type Config struct {
	// Name identifies the remote API in logs and spans.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to request paths that are not absolute URLs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout bounds a whole request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// Headers are default headers; request headers override them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth configures header-based authentication.
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`

	// MaxBodySize caps the response body in bytes. Defaults to 10 MiB.
	MaxBodySize int64 `yaml:"max_body_size" mapstructure:"max_body_size" validate:"gt=0"`

	// RequestIDHeader names the header carrying the generated request ID.
	// Defaults to X-Request-Id.
	RequestIDHeader string `yaml:"request_id_header" mapstructure:"request_id_header"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
	if c.RequestIDHeader == "" {
		c.RequestIDHeader = defaultRequestIDHeader
	}
	// Keys loaded through viper arrive lower-cased.
	headers := make(map[string]string, len(c.Headers)+1)
	for k, v := range c.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	c.Headers = headers
	if _, ok := c.Headers["Accept"]; !ok {
		c.Headers["Accept"] = "application/json"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("httptransport: invalid config: %w", err)
	}
	return nil
}
