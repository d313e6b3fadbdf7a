package testutil

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/config"
	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"
)

// Postgres is a throwaway database in a Docker container with the schema
// migrated.
type Postgres struct {
	Config config.DatabaseConfig
	Pool   *pgxpool.Pool

	docker   *dockertest.Pool
	resource *dockertest.Resource
}

// StartPostgres runs postgres:16-alpine and applies the migrations. It
// fails fast when Docker is not reachable so callers can skip.
func StartPostgres() (*Postgres, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not construct docker pool: %w", err)
	}
	if err := pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=tde",
			"POSTGRES_PASSWORD=tde",
			"POSTGRES_DB=tde_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start postgres: %w", err)
	}
	_ = resource.Expire(120)

	host, port, err := net.SplitHostPort(resource.GetHostPort("5432/tcp"))
	if err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("unexpected postgres address: %w", err)
	}
	portNum, _ := strconv.Atoi(port)

	pg := &Postgres{
		Config: config.DatabaseConfig{
			Host:     host,
			Port:     portNum,
			User:     "tde",
			Password: "tde",
			Name:     "tde_test",
			SSLMode:  "disable",
		},
		docker:   pool,
		resource: resource,
	}

	dsn := database.DSN(pg.Config)
	pool.MaxWait = 30 * time.Second
	if err := pool.Retry(func() error {
		p, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			return err
		}
		if err := p.Ping(context.Background()); err != nil {
			p.Close()
			return err
		}
		pg.Pool = p
		return nil
	}); err != nil {
		pg.Close()
		return nil, fmt.Errorf("postgres never became ready: %w", err)
	}

	logger := zerolog.Nop()
	if err := database.Migrate(context.Background(), &logger, dsn); err != nil {
		pg.Close()
		return nil, fmt.Errorf("could not migrate test database: %w", err)
	}

	return pg, nil
}

// Truncate empties the users table and resets its id sequence.
func (p *Postgres) Truncate(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, `TRUNCATE users RESTART IDENTITY`)
	return err
}

func (p *Postgres) Close() {
	if p == nil {
		return
	}
	if p.Pool != nil {
		p.Pool.Close()
	}
	if p.resource != nil {
		_ = p.docker.Purge(p.resource)
	}
}
