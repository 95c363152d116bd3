package contract

import (
	"errors"
	"fmt"
)

// BuilderErrorCode classifies request construction errors.
type BuilderErrorCode int

const (
	// ErrCodeMissingMethod indicates Build was called without a method.
	ErrCodeMissingMethod BuilderErrorCode = iota
	// ErrCodeMissingPath indicates Build or a path parameter ran without a path.
	ErrCodeMissingPath
	// ErrCodeUnresolvedPlaceholder indicates a path parameter without a
	// placeholder, or a placeholder without a path parameter.
	ErrCodeUnresolvedPlaceholder
	// ErrCodeDuplicateBody indicates a second body for the same request.
	ErrCodeDuplicateBody
	// ErrCodeEncodeBody indicates the codec could not encode a body value.
	ErrCodeEncodeBody
	// ErrCodeInvalidBody indicates a body value failed validation.
	ErrCodeInvalidBody
	// ErrCodeEncodeQuery indicates a query object could not be expanded.
	ErrCodeEncodeQuery
	// ErrCodeFinalized indicates a mutation after Build or after a failure.
	ErrCodeFinalized
)

// String returns the error code name.
func (c BuilderErrorCode) String() string {
	switch c {
	case ErrCodeMissingMethod:
		return "missing_method"
	case ErrCodeMissingPath:
		return "missing_path"
	case ErrCodeUnresolvedPlaceholder:
		return "unresolved_placeholder"
	case ErrCodeDuplicateBody:
		return "duplicate_body"
	case ErrCodeEncodeBody:
		return "encode_body"
	case ErrCodeInvalidBody:
		return "invalid_body"
	case ErrCodeEncodeQuery:
		return "encode_query"
	case ErrCodeFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// BuilderError is a request construction error. These are caller
// configuration errors and are never retried.
type BuilderError struct {
	// Code classifies the error.
	Code BuilderErrorCode
	// Name is the parameter or placeholder involved, if any.
	Name string
	// Message describes the error.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *BuilderError) Error() string {
	return fmt.Sprintf("contract: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *BuilderError) Unwrap() error {
	return e.Err
}

func newMissingMethod() *BuilderError {
	return &BuilderError{Code: ErrCodeMissingMethod, Message: "http method is not set"}
}

func newMissingPath() *BuilderError {
	return &BuilderError{Code: ErrCodeMissingPath, Message: "path is not set"}
}

func newUnresolvedPlaceholder(name, reason string) *BuilderError {
	return &BuilderError{
		Code:    ErrCodeUnresolvedPlaceholder,
		Name:    name,
		Message: fmt.Sprintf("placeholder {%s} %s", name, reason),
	}
}

func newDuplicateBody(name string) *BuilderError {
	return &BuilderError{
		Code:    ErrCodeDuplicateBody,
		Name:    name,
		Message: fmt.Sprintf("body already set when applying %q", name),
	}
}

func newFinalized() *BuilderError {
	return &BuilderError{Code: ErrCodeFinalized, Message: "builder no longer accepts changes"}
}

// Stage names the pipeline step that failed.
type Stage int

const (
	// StageBuild is request construction.
	StageBuild Stage = iota
	// StageTransport is request dispatch.
	StageTransport
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageBuild:
		return "build"
	case StageTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// PipelineError wraps a build or transport failure of Perform. Decode
// failures are returned unwrapped.
type PipelineError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("contract: %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsMissingMethod checks if err is a missing-method builder error.
func IsMissingMethod(err error) bool { return hasCode(err, ErrCodeMissingMethod) }

// IsMissingPath checks if err is a missing-path builder error.
func IsMissingPath(err error) bool { return hasCode(err, ErrCodeMissingPath) }

// IsUnresolvedPlaceholder checks if err is an unresolved-placeholder builder error.
func IsUnresolvedPlaceholder(err error) bool { return hasCode(err, ErrCodeUnresolvedPlaceholder) }

// IsDuplicateBody checks if err is a duplicate-body builder error.
func IsDuplicateBody(err error) bool { return hasCode(err, ErrCodeDuplicateBody) }

// IsInvalidBody checks if err is a body validation error.
func IsInvalidBody(err error) bool { return hasCode(err, ErrCodeInvalidBody) }

// IsBuildError checks if err came from the build stage of Perform.
func IsBuildError(err error) bool { return hasStage(err, StageBuild) }

// IsTransportError checks if err came from the transport stage of Perform.
func IsTransportError(err error) bool { return hasStage(err, StageTransport) }

func hasCode(err error, code BuilderErrorCode) bool {
	var e *BuilderError
	return errors.As(err, &e) && e.Code == code
}

func hasStage(err error, stage Stage) bool {
	var e *PipelineError
	return errors.As(err, &e) && e.Stage == stage
}
