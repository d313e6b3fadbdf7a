package handler

import (
	"time"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/middleware"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler carries the shared dependencies of every concrete handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Handle turns a typed endpoint into an echo.HandlerFunc. A fresh *Req is
// allocated per request, bound from path, query and body, and validated
// before fn runs. Successful results are written as JSON with status.
func Handle[Req any, PReq interface {
	*Req
	validation.Validatable
}, Res any](
	h Handler,
	fn func(c echo.Context, req PReq) (Res, error),
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := PReq(new(Req))

		txn := newrelic.FromContext(c.Request().Context())
		if txn != nil {
			txn.AddAttribute("handler.name", c.Path())
		}

		logger := middleware.GetLogger(c).With().
			Str("operation", "handler").
			Str("route", c.Path()).
			Logger()

		logger.Debug().Msg("handling request")

		validationStart := time.Now()
		if err := validation.BindAndValidate(c, req); err != nil {
			validationDuration := time.Since(validationStart)
			logger.Warn().
				Err(err).
				Dur("validation_duration", validationDuration).
				Msg("request validation failed")

			if txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
				txn.AddAttribute("validation.status", "failed")
				txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
			}
			return err
		}
		validationDuration := time.Since(validationStart)
		if txn != nil {
			txn.AddAttribute("validation.status", "success")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		handlerStart := time.Now()
		result, err := fn(c, req)
		handlerDuration := time.Since(handlerStart)

		if err != nil {
			logger.Warn().
				Err(err).
				Dur("handler_duration", handlerDuration).
				Dur("total_duration", time.Since(start)).
				Msg("handler execution failed")

			if txn != nil {
				txn.AddAttribute("handler.status", "error")
				txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			}
			return err
		}

		if txn != nil {
			txn.AddAttribute("handler.status", "success")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		}

		logger.Debug().
			Dur("validation_duration", validationDuration).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("request completed successfully")

		return c.JSON(status, result)
	}
}
