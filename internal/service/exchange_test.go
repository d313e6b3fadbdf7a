package service_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/lib/exchange"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/service"
)

type fakeFetcher struct {
	quote *model.ExchangeQuote
	err   error
}

func (f fakeFetcher) FetchUSDBRL(context.Context) (*model.ExchangeQuote, error) {
	return f.quote, f.err
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestGetUSDBRLSuccess(t *testing.T) {
	want := &model.ExchangeQuote{Code: "USD", Codein: "BRL", Bid: "5.3986", Ask: "5.4016"}

	got, err := service.NewExchangeService(fakeFetcher{quote: want}).GetUSDBRL(context.Background())
	if err != nil {
		t.Fatalf("GetUSDBRL: %v", err)
	}
	if got != want {
		t.Errorf("quote = %+v", got)
	}
}

func TestGetUSDBRLErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantInError string
	}{
		{"upstream 500", &exchange.StatusError{StatusCode: http.StatusInternalServerError}, http.StatusInternalServerError, ""},
		{"upstream 503", &exchange.StatusError{StatusCode: http.StatusServiceUnavailable}, http.StatusServiceUnavailable, ""},
		{"upstream 201", &exchange.StatusError{StatusCode: http.StatusCreated}, http.StatusCreated, ""},
		{"upstream 204", &exchange.StatusError{StatusCode: http.StatusNoContent}, http.StatusBadGateway, ""},
		{"missing quote", exchange.ErrQuoteNotFound, http.StatusNotFound, ""},
		{"timeout", &exchange.RequestError{Err: timeoutErr{}}, http.StatusGatewayTimeout, ""},
		{"deadline", &exchange.RequestError{Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, ""},
		{"connection refused", &exchange.RequestError{Err: errors.New("connection refused")}, http.StatusServiceUnavailable, "connection refused"},
		{"malformed quote", &exchange.MalformedQuoteError{Field: "bid", Reason: "missing quote field"}, http.StatusInternalServerError, "bid"},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.NewExchangeService(fakeFetcher{err: tt.err}).GetUSDBRL(context.Background())

			httpErr := requireHTTPError(t, err, tt.wantStatus)
			if httpErr.Message == "" {
				t.Error("error message should not be empty")
			}
			if tt.wantInError != "" && !strings.Contains(httpErr.Message, tt.wantInError) {
				t.Errorf("message %q should mention %q", httpErr.Message, tt.wantInError)
			}
		})
	}
}
