package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/config"
)

const quoteBody = `{
	"USDBRL": {
		"code": "USD",
		"codein": "BRL",
		"name": "Dólar Americano/Real Brasileiro",
		"high": "5.4108",
		"low": "5.3784",
		"varBid": "-0.0112",
		"pctChange": "-0.21",
		"bid": "5.3986",
		"ask": "5.4016",
		"timestamp": "1718908199",
		"create_date": "2024-06-20 15:29:59"
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.ExchangeConfig{URL: srv.URL + "/json/last/USD-BRL", Timeout: timeout})
}

func TestFetchUSDBRLSuccess(t *testing.T) {
	var gotPath, gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(quoteBody))
	}, time.Second)

	quote, err := client.FetchUSDBRL(context.Background())
	if err != nil {
		t.Fatalf("FetchUSDBRL: %v", err)
	}

	if gotMethod != http.MethodGet || gotPath != "/json/last/USD-BRL" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if quote.Code != "USD" || quote.Codein != "BRL" {
		t.Errorf("code/codein = %q/%q", quote.Code, quote.Codein)
	}
	if quote.Bid != "5.3986" || quote.Ask != "5.4016" {
		t.Errorf("bid/ask = %q/%q", quote.Bid, quote.Ask)
	}
	if quote.VarBid != "-0.0112" || quote.PctChange != "-0.21" {
		t.Errorf("varBid/pctChange = %q/%q", quote.VarBid, quote.PctChange)
	}
	if quote.CreateDate != "2024-06-20 15:29:59" {
		t.Errorf("create_date = %q", quote.CreateDate)
	}
}

func TestFetchUSDBRLNumericFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"USDBRL":{"code":"USD","codein":"BRL","name":"Dólar Americano/Real Brasileiro",` +
			`"high":5.4108,"low":"5.3784","varBid":-0.0112,"pctChange":"-0.21","bid":5.3986,"ask":"5.4016",` +
			`"timestamp":1763990550,"create_date":"2025-11-24 10:22:30"}}`))
	}, time.Second)

	quote, err := client.FetchUSDBRL(context.Background())
	if err != nil {
		t.Fatalf("FetchUSDBRL: %v", err)
	}

	if quote.Timestamp != "1763990550" {
		t.Errorf("timestamp = %q, want 1763990550", quote.Timestamp)
	}
	if quote.High != "5.4108" || quote.Bid != "5.3986" || quote.VarBid != "-0.0112" {
		t.Errorf("high/bid/varBid = %q/%q/%q", quote.High, quote.Bid, quote.VarBid)
	}
}

func TestNewClientDefaultsToTenSeconds(t *testing.T) {
	client := NewClient(config.ExchangeConfig{})
	if client.Timeout() != 10*time.Second {
		t.Errorf("timeout = %s, want 10s", client.Timeout())
	}
	if client.URL() != config.DefaultExchangeURL {
		t.Errorf("url = %q", client.URL())
	}
}

func TestFetchUSDBRLNonOKStatus(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusNotFound} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}, time.Second)

		_, err := client.FetchUSDBRL(context.Background())

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("status %d: expected *StatusError, got %v", status, err)
		}
		if statusErr.StatusCode != status {
			t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, status)
		}
	}
}

func TestFetchUSDBRLMissingQuote(t *testing.T) {
	for _, body := range []string{`{}`, `{"EURBRL": {}}`, `[]`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}, time.Second)

		if _, err := client.FetchUSDBRL(context.Background()); !errors.Is(err, ErrQuoteNotFound) {
			t.Errorf("body %s: expected ErrQuoteNotFound, got %v", body, err)
		}
	}
}

func TestFetchUSDBRLMissingField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"USDBRL": {"code": "USD"}}`))
	}, time.Second)

	_, err := client.FetchUSDBRL(context.Background())

	var malformed *MalformedQuoteError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedQuoteError, got %v", err)
	}
	if malformed.Field != "codein" {
		t.Errorf("field = %q, want codein", malformed.Field)
	}
}

func TestFetchUSDBRLInvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}, time.Second)

	_, err := client.FetchUSDBRL(context.Background())

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if IsTimeout(err) {
		t.Error("decode failure must not be reported as a timeout")
	}
}

func TestFetchUSDBRLTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := client.FetchUSDBRL(context.Background())
	if !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestFetchUSDBRLConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(config.ExchangeConfig{URL: url, Timeout: time.Second})
	_, err := client.FetchUSDBRL(context.Background())

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if IsTimeout(err) {
		t.Error("refused connection must not be reported as a timeout")
	}
}
