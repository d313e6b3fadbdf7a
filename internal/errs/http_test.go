package errs

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestConstructorsStatusAndCode(t *testing.T) {
	custom := "USER_ALREADY_EXISTS"

	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"conflict keeps 400", NewConflictError("taken", &custom), http.StatusBadRequest, custom},
		{"not found", NewNotFoundError("missing", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"not found as 400", NewNotFoundWithStatus(http.StatusBadRequest, "missing", false, nil), http.StatusBadRequest, "NOT_FOUND"},
		{"gateway timeout", NewGatewayTimeoutError("slow"), http.StatusGatewayTimeout, "GATEWAY_TIMEOUT"},
		{"service unavailable", NewServiceUnavailableError("down"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"upstream 503", NewUpstreamError(http.StatusServiceUnavailable, "x"), http.StatusServiceUnavailable, "UPSTREAM_ERROR"},
		{"upstream 404", NewUpstreamError(http.StatusNotFound, "x"), http.StatusNotFound, "UPSTREAM_ERROR"},
		{"upstream 202 relayed", NewUpstreamError(http.StatusAccepted, "x"), http.StatusAccepted, "UPSTREAM_ERROR"},
		{"upstream 206 relayed", NewUpstreamError(http.StatusPartialContent, "x"), http.StatusPartialContent, "UPSTREAM_ERROR"},
		{"upstream redirect relayed", NewUpstreamError(http.StatusFound, "x"), http.StatusFound, "UPSTREAM_ERROR"},
		{"upstream 204 becomes 502", NewUpstreamError(http.StatusNoContent, "x"), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"upstream 205 becomes 502", NewUpstreamError(http.StatusResetContent, "x"), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"upstream 304 becomes 502", NewUpstreamError(http.StatusNotModified, "x"), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"upstream 1xx becomes 502", NewUpstreamError(http.StatusEarlyHints, "x"), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"upstream out of range becomes 502", NewUpstreamError(999, "x"), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"too many requests", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestHTTPErrorSerializesMessageUnderErrorKey(t *testing.T) {
	body, err := json.Marshal(NewGatewayTimeoutError("upstream timed out"))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["error"] != "upstream timed out" {
		t.Errorf("error = %v, want %q", decoded["error"], "upstream timed out")
	}
	if _, ok := decoded["message"]; ok {
		t.Error("unexpected message key in error body")
	}
}

func TestWithMessageCopies(t *testing.T) {
	base := NewInternalServerError()
	derived := base.WithMessage("Internal error: boom")

	if base.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("base message mutated: %q", base.Message)
	}
	if derived.Message != "Internal error: boom" || derived.Status != http.StatusInternalServerError {
		t.Errorf("unexpected derived error: %+v", derived)
	}
}

func TestIsMatchesAnyHTTPError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewNotFoundError("x", false, nil))
	if !errors.Is(wrapped, &HTTPError{}) {
		t.Error("errors.Is should match any *HTTPError")
	}
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	if got := MakeUpperCaseWithUnderscores("Service Unavailable"); got != "SERVICE_UNAVAILABLE" {
		t.Errorf("got %q", got)
	}
}
