package handler

import (
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/service"
)

type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Users    *UserHandler
	Exchange *ExchangeHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Users:    NewUserHandler(s, services.Users),
		Exchange: NewExchangeHandler(s, services.Exchange),
	}
}
