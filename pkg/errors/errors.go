package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeInvalidRequest    = "InvalidRequest"
	CodeValidationError   = "ValidationError"
	CodePagingUnavailable = "PagingUnavailable"
	CodeTransportError    = "TransportError"
	CodeBadResponse       = "BadResponse"
	CodeNotFound          = "NotFound"
	CodeServerError       = "ServerError"
	CodeUnexpectedStatus  = "UnexpectedStatus"
	CodeDecodeError       = "DecodeError"
	CodeStorageError      = "StorageError"
	CodeInternalError     = "InternalError"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code       string `json:"error"`                 // Error code/type (e.g., "NotFound", "DecodeError")
	Message    string `json:"message"`               // Human-readable error message
	Details    string `json:"details"`               // Additional details (URL, field name, cause)
	StatusCode int    `json:"status_code,omitempty"` // Upstream HTTP status for UnexpectedStatus

	cause error
}

// Error implements the error interface
func (e *StandardError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the HTTP status the API answers with for this error.
// Upstream catalog failures surface as gateway errors.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest, CodeValidationError:
		return http.StatusBadRequest
	case CodePagingUnavailable:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTransportError, CodeBadResponse, CodeServerError, CodeUnexpectedStatus, CodeDecodeError:
		return http.StatusBadGateway
	case CodeStorageError, CodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

func wrap(code, message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	e := NewStandardError(code, message, details)
	e.cause = err
	return e
}

// Common error constructors
func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError(CodeInvalidRequest, message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError(CodeValidationError, message, fmt.Sprintf("Field: %s", field))
}

func NewPagingUnavailable(mode string) *StandardError {
	return NewStandardError(CodePagingUnavailable, "page loading is only available while browsing", fmt.Sprintf("Mode: %s", mode))
}

func NewTransportError(err error) *StandardError {
	return wrap(CodeTransportError, "received invalid data from the server", err)
}

func NewBadResponse(details string) *StandardError {
	return NewStandardError(CodeBadResponse, "received an invalid HTTP response", details)
}

func NewNotFound(url string) *StandardError {
	return NewStandardError(CodeNotFound, "the requested resource was not found", fmt.Sprintf("URL: %s", url))
}

func NewServerError(url string) *StandardError {
	return NewStandardError(CodeServerError, "the server encountered an error", fmt.Sprintf("URL: %s", url))
}

func NewUnexpectedStatus(statusCode int, url string) *StandardError {
	e := NewStandardError(CodeUnexpectedStatus,
		fmt.Sprintf("received an unexpected status code: %d", statusCode),
		fmt.Sprintf("URL: %s", url))
	e.StatusCode = statusCode
	return e
}

func NewDecodeError(err error) *StandardError {
	return wrap(CodeDecodeError, "failed to decode the response data", err)
}

func NewStorageError(operation string, err error) *StandardError {
	return wrap(CodeStorageError, fmt.Sprintf("storage operation failed: %s", operation), err)
}

// NewInternalError keeps err as the cause for logging but leaves Details
// empty, so nothing internal reaches the client.
func NewInternalError(message string, err error) *StandardError {
	e := NewStandardError(CodeInternalError, message, "")
	e.cause = err
	return e
}

// FromStatus maps an upstream HTTP status to the catalog taxonomy.
// It returns nil for 2xx.
func FromStatus(statusCode int, url string) *StandardError {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusNotFound:
		return NewNotFound(url)
	case statusCode == http.StatusInternalServerError:
		return NewServerError(url)
	default:
		return NewUnexpectedStatus(statusCode, url)
	}
}

// As returns the StandardError in err's chain, if any.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a StandardError with the given code.
func HasCode(err error, code string) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}
