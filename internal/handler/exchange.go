package handler

import (
	"net/http"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/model"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/service"
	"github.com/labstack/echo/v4"
)

type ExchangeHandler struct {
	Handler
	exchange *service.ExchangeService
}

func NewExchangeHandler(s *server.Server, exchange *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{Handler: NewHandler(s), exchange: exchange}
}

func (h *ExchangeHandler) GetUSDToBRL() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, _ *model.EmptyPayload) (*model.ExchangeQuote, error) {
		return h.exchange.GetUSDBRL(c.Request().Context())
	}, http.StatusOK)
}
