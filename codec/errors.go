package codec

import (
	"errors"
	"fmt"
	"strings"
)

// DecodeErrorKind classifies decode failures.
type DecodeErrorKind int

const (
	// KindUnknown is a failure that fits no other kind.
	KindUnknown DecodeErrorKind = iota
	// KindKeyNotFound indicates a required key is absent.
	KindKeyNotFound
	// KindTypeMismatch indicates a value of the wrong JSON type.
	KindTypeMismatch
	// KindValueNotFound indicates a null where a value is required.
	KindValueNotFound
	// KindDataCorrupted indicates the payload is not valid JSON.
	KindDataCorrupted
)

// String returns the kind name.
func (k DecodeErrorKind) String() string {
	switch k {
	case KindKeyNotFound:
		return "key_not_found"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindValueNotFound:
		return "value_not_found"
	case KindDataCorrupted:
		return "data_corrupted"
	default:
		return "unknown"
	}
}

// DecodeError describes why a payload could not be decoded.
type DecodeError struct {
	// Kind classifies the failure.
	Kind DecodeErrorKind
	// Path is the coding path to the failing value. For KindKeyNotFound it
	// is the path of the object that lacks Key.
	Path []string
	// Key is the missing key (KindKeyNotFound).
	Key string
	// Type is the Go type that was expected (KindTypeMismatch, KindValueNotFound).
	Type string
	// Debug is a human-readable note about the failure.
	Debug string
	// Err is the underlying error, if any.
	Err error
}

// PathString joins the coding path with " -> ".
func (e *DecodeError) PathString() string {
	return strings.Join(e.Path, " -> ")
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	switch e.Kind {
	case KindKeyNotFound:
		if len(e.Path) > 0 {
			return fmt.Sprintf("codec: %s: key %q at %s", e.Kind, e.Key, e.PathString())
		}
		return fmt.Sprintf("codec: %s: key %q", e.Kind, e.Key)
	case KindTypeMismatch, KindValueNotFound:
		return fmt.Sprintf("codec: %s: %s at %s: %s", e.Kind, e.Type, e.PathString(), e.Debug)
	default:
		return fmt.Sprintf("codec: %s: %s", e.Kind, e.Debug)
	}
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsKeyNotFound checks if err is a missing-key decode error.
func IsKeyNotFound(err error) bool { return hasKind(err, KindKeyNotFound) }

// IsTypeMismatch checks if err is a type-mismatch decode error.
func IsTypeMismatch(err error) bool { return hasKind(err, KindTypeMismatch) }

// IsValueNotFound checks if err is a null-value decode error.
func IsValueNotFound(err error) bool { return hasKind(err, KindValueNotFound) }

// IsDataCorrupted checks if err is a corrupted-payload decode error.
func IsDataCorrupted(err error) bool { return hasKind(err, KindDataCorrupted) }

func hasKind(err error, kind DecodeErrorKind) bool {
	var e *DecodeError
	return errors.As(err, &e) && e.Kind == kind
}
