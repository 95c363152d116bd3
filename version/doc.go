// Package version reports the build version of the apicall binary.
//
// Version, commit, and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/apicontract/version.Version=1.0.0"
//
// Unset values are filled from the module build info when available.
package version
