package errs

import (
	"net/http"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

func pick(code *string, status int) string {
	if code != nil {
		return *code
	}
	return statusCode(status)
}

// NewBadRequestError creates a 400 error. code defaults to "BAD_REQUEST"
// when nil; errors carries per-field validation failures.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	return &HTTPError{
		Code:     pick(code, http.StatusBadRequest),
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewConflictError reports a uniqueness clash. The directory answers these
// with 400 rather than 409.
func NewConflictError(message string, code *string) *HTTPError {
	return NewBadRequestError(message, false, code, nil, nil)
}

func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return NewNotFoundWithStatus(http.StatusNotFound, message, override, code)
}

// NewNotFoundWithStatus builds a not-found error that is reported with a
// status other than 404.
func NewNotFoundWithStatus(status int, message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     pick(code, http.StatusNotFound),
		Message:  message,
		Status:   status,
		Override: override,
	}
}

func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusUnauthorized),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusTooManyRequests),
		Message: message,
		Status:  http.StatusTooManyRequests,
		Action:  &Action{Type: ActionTypeRetry, Message: "Slow down and retry later"},
	}
}

// NewGatewayTimeoutError is returned when an upstream dependency did not
// answer within its deadline.
func NewGatewayTimeoutError(message string) *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusGatewayTimeout),
		Message: message,
		Status:  http.StatusGatewayTimeout,
	}
}

// NewServiceUnavailableError is returned when an upstream dependency could
// not be reached or answered with something unreadable.
func NewServiceUnavailableError(message string) *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusServiceUnavailable),
		Message: message,
		Status:  http.StatusServiceUnavailable,
	}
}

// NewUpstreamError relays an upstream non-success status to the client.
// Statuses that cannot carry the JSON error body (1xx, 204, 205, 304) or
// fall outside the valid range are reported as 502.
func NewUpstreamError(status int, message string) *HTTPError {
	if !statusAllowsBody(status) {
		status = http.StatusBadGateway
	}
	return &HTTPError{
		Code:    "UPSTREAM_ERROR",
		Message: message,
		Status:  status,
	}
}

func statusAllowsBody(status int) bool {
	switch {
	case status < http.StatusOK || status > 599:
		return false
	case status == http.StatusNoContent, status == http.StatusResetContent, status == http.StatusNotModified:
		return false
	}
	return true
}

// NewInternalServerError returns a generic 500. The real cause is logged,
// never sent, unless the caller opts in with WithMessage.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusInternalServerError),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// ValidationError wraps a plain validation error into a 400.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
