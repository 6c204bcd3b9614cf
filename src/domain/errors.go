package domain

import "net/http"

// ErrorCode identifies a class of domain failure
type ErrorCode int

const (
	// ErrorCodeParameterInvalid covers bad user input: non-positive
	// duration, negative bounty, empty required fields, unknown severity.
	ErrorCodeParameterInvalid ErrorCode = iota + 1
	// ErrorCodeResourceNotFound means a referenced id does not exist.
	ErrorCodeResourceNotFound
	// ErrorCodeNoActiveChallenge means the operation requires an active
	// challenge and none exists.
	ErrorCodeNoActiveChallenge
	// ErrorCodeInternalProcess covers storage/transaction failures that
	// abort the enclosing operation.
	ErrorCodeInternalProcess
)

// DomainError is a typed failure carried across the service boundary.
// Handlers translate it to an HTTP status and a client-safe message; the
// wrapped cause stays in the logs only.
type DomainError struct {
	code      ErrorCode
	err       error
	clientMsg string
	detail    map[string]interface{}
}

// ErrorOption customizes a DomainError at construction
type ErrorOption func(*DomainError)

// WithMsg sets the client-facing message
func WithMsg(msg string) ErrorOption {
	return func(e *DomainError) {
		e.clientMsg = msg
	}
}

// WithDetail attaches structured detail to the error response
func WithDetail(detail map[string]interface{}) ErrorOption {
	return func(e *DomainError) {
		e.detail = detail
	}
}

func NewError(code ErrorCode, err error, opts ...ErrorOption) DomainError {
	e := DomainError{code: code, err: err}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e DomainError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.clientMsg
}

func (e DomainError) Unwrap() error {
	return e.err
}

// Code returns the error class
func (e DomainError) Code() ErrorCode {
	return e.code
}

// Name returns the stable string identifier of the error class
func (e DomainError) Name() string {
	switch e.code {
	case ErrorCodeParameterInvalid:
		return "PARAMETER_INVALID"
	case ErrorCodeResourceNotFound:
		return "RESOURCE_NOT_FOUND"
	case ErrorCodeNoActiveChallenge:
		return "NO_ACTIVE_CHALLENGE"
	case ErrorCodeInternalProcess:
		return "INTERNAL_PROCESS"
	default:
		return "UNKNOWN"
	}
}

// HTTPStatus maps the error class to an HTTP status code
func (e DomainError) HTTPStatus() int {
	switch e.code {
	case ErrorCodeParameterInvalid:
		return http.StatusBadRequest
	case ErrorCodeResourceNotFound, ErrorCodeNoActiveChallenge:
		return http.StatusNotFound
	case ErrorCodeInternalProcess:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ClientMsg returns the message safe to show to the client
func (e DomainError) ClientMsg() string {
	return e.clientMsg
}

// Detail returns optional structured error detail, nil if none
func (e DomainError) Detail() map[string]interface{} {
	return e.detail
}
