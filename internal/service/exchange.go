package service

import (
	"context"
	"errors"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/errs"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/lib/exchange"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/rs/zerolog"
)

const CodeQuoteNotFound = "QUOTE_NOT_FOUND"

type QuoteFetcher interface {
	FetchUSDBRL(ctx context.Context) (*model.ExchangeQuote, error)
}

type ExchangeService struct {
	fetcher QuoteFetcher
}

func NewExchangeService(fetcher QuoteFetcher) *ExchangeService {
	return &ExchangeService{fetcher: fetcher}
}

// GetUSDBRL returns the current quote or an error carrying the status that
// matches how the upstream call failed.
func (s *ExchangeService) GetUSDBRL(ctx context.Context) (*model.ExchangeQuote, error) {
	quote, err := s.fetcher.FetchUSDBRL(ctx)
	if err == nil {
		return quote, nil
	}

	zerolog.Ctx(ctx).Error().Err(err).Msg("failed to fetch USD-BRL quote")

	var (
		statusErr *exchange.StatusError
		reqErr    *exchange.RequestError
	)
	switch {
	case errors.As(err, &statusErr):
		return nil, errs.NewUpstreamError(statusErr.StatusCode, "Could not fetch the exchange rate")
	case errors.Is(err, exchange.ErrQuoteNotFound):
		code := CodeQuoteNotFound
		return nil, errs.NewNotFoundError("Quote data not found", false, &code)
	case exchange.IsTimeout(err):
		return nil, errs.NewGatewayTimeoutError("Timed out waiting for the exchange API")
	case errors.As(err, &reqErr):
		return nil, errs.NewServiceUnavailableError("Error connecting to the exchange API: " + reqErr.Error())
	default:
		return nil, errs.NewInternalServerError().WithMessage("Internal error: " + err.Error())
	}
}
