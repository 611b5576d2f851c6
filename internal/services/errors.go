package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid          ErrorCode = "invalid"
	ErrorScopeRequired    ErrorCode = "scope_required"
	ErrorInvalidDateRange ErrorCode = "invalid_date_range"
	ErrorInvalidFilter    ErrorCode = "invalid_filter"
	ErrorDataUnavailable  ErrorCode = "data_unavailable"
	ErrorUnauthorized     ErrorCode = "unauthorized"
	ErrorForbidden        ErrorCode = "forbidden"
	ErrorNotFound         ErrorCode = "not_found"
	ErrorConflict         ErrorCode = "conflict"
)

// ServiceError carries a machine code alongside the human message so the API
// layer can pick the right status and errorCode without string matching.
type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }

func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

// NewScopeRequiredError is returned before any store call when the caller's
// organisation scope is missing.
func NewScopeRequiredError() error {
	return &ServiceError{Code: ErrorScopeRequired, Message: "Organisation ID is required"}
}

func NewInvalidDateRangeError(msg string) error {
	return &ServiceError{Code: ErrorInvalidDateRange, Message: msg}
}

func NewInvalidFilterError(msg string) error {
	return &ServiceError{Code: ErrorInvalidFilter, Message: msg}
}

// NewDataUnavailableError wraps a store failure. The engine never retries;
// callers may retry the whole report request.
func NewDataUnavailableError(err error) error {
	return &ServiceError{Code: ErrorDataUnavailable, Message: "Failed to generate report: " + err.Error()}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
