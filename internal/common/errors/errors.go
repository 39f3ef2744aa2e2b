// Package errors provides the error taxonomy shared by the HTTP surface and
// the generation pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMissingInput          ErrorCode = "MISSING_INPUT"
	ErrCodeInvalidRequest        ErrorCode = "INVALID_REQUEST"
	ErrCodePayloadTooLarge       ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeModelInvocationFailed ErrorCode = "MODEL_INVOCATION_FAILED"
	ErrCodeEmptyModelOutput      ErrorCode = "EMPTY_MODEL_OUTPUT"
	ErrCodeNormalizationFallback ErrorCode = "NORMALIZATION_FALLBACK"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// Sentinels wrapped with %w by the components that detect them.
var (
	ErrMissingTree      = stderrors.New("Missing folder tree")
	ErrModelInvocation  = stderrors.New("model invocation failed")
	ErrEmptyModelOutput = stderrors.New("empty model output")
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the response status for the error's code.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// NewMissingInputError is returned when the request has no usable tree.
func NewMissingInputError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingInput,
		Message:   ErrMissingTree.Error(),
		Timestamp: time.Now().UTC(),
		cause:     ErrMissingTree,
	}
}

// NewInvalidRequestError covers bodies that are not the expected JSON.
func NewInvalidRequestError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewPayloadTooLargeError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadTooLarge,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewModelInvocationError keeps the underlying message so callers see what
// the provider said.
func NewModelInvocationError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelInvocationFailed,
		Message:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewEmptyModelOutputError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyModelOutput,
		Message:   ErrEmptyModelOutput.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     ErrEmptyModelOutput,
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMissingInput, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeNormalizationFallback:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// Normalize ensures we always have a StandardError. Sentinel errors map to
// their codes; anything else is INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	switch {
	case stderrors.Is(err, ErrMissingTree):
		return NewMissingInputError()
	case stderrors.Is(err, ErrEmptyModelOutput):
		return NewEmptyModelOutputError()
	case stderrors.Is(err, ErrModelInvocation):
		return NewModelInvocationError(err)
	}
	return NewInternalError(err)
}

