// Package config loads command configuration from a YAML file, an optional
// .env file, and prefixed environment variables.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.Load("apicall", &cfg, config.WithConfigFile("api.yml"))
//
// Environment variables override file values. With the default APICALL
// prefix, APICALL_HTTP_BASE_URL sets http.base_url.
package config
