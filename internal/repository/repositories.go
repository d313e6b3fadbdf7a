package repository

import (
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/server"
)

type Repositories struct {
	Users *UserRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users: NewUserRepository(s.DB.Pool),
	}
}
