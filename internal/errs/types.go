package errs

import "strings"

// FieldError is a single per-field validation failure.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ActionType string

const (
	ActionTypeRedirect ActionType = "redirect"
	ActionTypeRetry    ActionType = "retry"
)

// Action is an optional hint telling the client what to do next.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error envelope sent to clients.
//
// The human readable text is serialized under "error" so that every failure
// body, whatever its status, can be recognised by that key alone.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"error"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors,omitempty"`
	Action *Action      `json:"action,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError. Code and Status are not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// WithCode returns a copy of e with Code replaced.
func (e *HTTPError) WithCode(code string) *HTTPError {
	clone := *e
	clone.Code = code
	return &clone
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
