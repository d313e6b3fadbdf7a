package middleware

import (
	"errors"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/errs"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{server: s, nrApp: nrApp}
}

// NewRelicMiddleware opens a transaction per request, or does nothing when
// APM is disabled.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing decorates the current transaction with request metadata
// and, on failure, the error code the client will see. Client errors (4xx)
// are not reported as APM errors.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.route", c.Path())
			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("service.environment", tm.server.Config.Primary.Env)
			if id := GetRequestID(c); id != "" {
				txn.AddAttribute("request.id", id)
			}

			err := next(c)
			if err != nil {
				var httpErr *errs.HTTPError
				if errors.As(err, &httpErr) {
					txn.AddAttribute("error.code", httpErr.Code)
				}
				if statusOf(err, 0) >= 500 {
					txn.NoticeError(nrpkgerrors.Wrap(err))
				}
			}

			txn.AddAttribute("http.status_code", statusOf(err, c.Response().Status))
			return err
		}
	}
}
