package service

import (
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/lib/exchange"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/repository"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
)

type Services struct {
	Users    *UserService
	Exchange *ExchangeService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var notifier WelcomeNotifier
	if s.Job != nil {
		notifier = s.Job
	}

	var opts []UserServiceOption
	if s.Events != nil {
		opts = append(opts, WithEventPublisher(s.Events))
	}

	return &Services{
		Users:    NewUserService(repos.Users, notifier, opts...),
		Exchange: NewExchangeService(exchange.NewClient(s.Config.Exchange)),
	}, nil
}
