// Package exchange fetches the current USD-BRL quote from AwesomeAPI.
//
// The client does exactly one GET per call, bounded by a fixed timeout.
// There are no retries and nothing is cached between calls.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/config"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
)

const (
	quoteKey     = "USDBRL"
	maxBodyBytes = 1 << 20
	userAgent    = config.ServiceName
)

// ErrQuoteNotFound means the upstream answered 200 without a USDBRL entry.
var ErrQuoteNotFound = errors.New("quote data not found in upstream response")

// StatusError is a non-200 answer from the upstream.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exchange api returned status %d", e.StatusCode)
}

// RequestError covers failures to complete the request or read a JSON body.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time.
func (e *RequestError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// MalformedQuoteError means USDBRL was present but unusable.
type MalformedQuoteError struct {
	Field  string
	Reason string
}

func (e *MalformedQuoteError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Field)
}

// IsTimeout reports whether err is a RequestError caused by a timeout.
func IsTimeout(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Timeout()
}

type Client struct {
	httpClient *http.Client
	url        string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client; its Timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(cfg config.ExchangeConfig, opts ...Option) *Client {
	url := cfg.URL
	if url == "" {
		url = config.DefaultExchangeURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultExchangeTimeout
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newrelic.NewRoundTripper(nil),
		},
		url: url,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchUSDBRL performs a single GET and returns the decoded quote.
func (c *Client) FetchUSDBRL(ctx context.Context) (*model.ExchangeQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building exchange request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	// Numbers stay json.Number so they are copied digit for digit.
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, &RequestError{Err: errors.Wrap(err, "decoding exchange response")}
	}

	return parseQuote(body)
}

var quoteFields = []string{
	"code", "codein", "name", "high", "low", "varBid",
	"pctChange", "bid", "ask", "timestamp", "create_date",
}

func parseQuote(body any) (*model.ExchangeQuote, error) {
	root, ok := body.(map[string]any)
	if !ok {
		return nil, ErrQuoteNotFound
	}
	raw, ok := root[quoteKey]
	if !ok {
		return nil, ErrQuoteNotFound
	}

	entry, ok := raw.(map[string]any)
	if !ok {
		return nil, &MalformedQuoteError{Field: quoteKey, Reason: "unexpected quote format"}
	}

	values := make(map[string]string, len(quoteFields))
	for _, field := range quoteFields {
		v, ok := entry[field]
		if !ok {
			return nil, &MalformedQuoteError{Field: field, Reason: "missing quote field"}
		}
		switch t := v.(type) {
		case string:
			values[field] = t
		case json.Number:
			values[field] = t.String()
		case nil:
			values[field] = ""
		default:
			values[field] = fmt.Sprint(t)
		}
	}

	return &model.ExchangeQuote{
		Code:       values["code"],
		Codein:     values["codein"],
		Name:       values["name"],
		High:       values["high"],
		Low:        values["low"],
		VarBid:     values["varBid"],
		PctChange:  values["pctChange"],
		Bid:        values["bid"],
		Ask:        values["ask"],
		Timestamp:  values["timestamp"],
		CreateDate: values["create_date"],
	}, nil
}

// Timeout is the effective request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

func (c *Client) URL() string {
	return c.url
}
