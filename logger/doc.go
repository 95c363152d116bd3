// Package logger provides structured logging for apicontract clients
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("billing-client").WithComponent("contract")
//	log.Warn("decode failure", logger.Fields("path", "/users/42"))
package logger
