// Package config loads the service configuration from the environment.
//
// Variables are read with the TDE_ prefix and "." as the nesting delimiter,
// so TDE_SERVER.PORT lands in Config.Server.Port. A .env file in the working
// directory is loaded first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix   = "TDE_"
	ServiceName = "tde-api"

	DefaultExchangeURL     = "https://economia.awesomeapi.com.br/json/last/USD-BRL"
	DefaultExchangeTimeout = 10 * time.Second

	DefaultEventsExchange = "tde.users"
)

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Exchange      ExchangeConfig       `koanf:"exchange"`
	Redis         RedisConfig          `koanf:"redis"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Events        EventsConfig         `koanf:"events"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig timeouts are in seconds. RateLimit is requests per second per
// client IP; zero disables limiting.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout"`
	WriteTimeout       int      `koanf:"write_timeout"`
	IdleTimeout        int      `koanf:"idle_timeout"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	RateLimit          float64  `koanf:"rate_limit" validate:"gte=0"`
	RateLimitBurst     int      `koanf:"rate_limit_burst" validate:"gte=0"`
}

// DatabaseConfig lifetimes are in seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// ExchangeConfig points the quote fetcher at its upstream.
type ExchangeConfig struct {
	URL     string        `koanf:"url" validate:"omitempty,url"`
	Timeout time.Duration `koanf:"timeout"`
}

// RedisConfig is optional. Without an address the job queue is not started.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// EventsConfig is optional. Without a URL user events are not published.
type EventsConfig struct {
	URL      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
}

func (e EventsConfig) Enabled() bool {
	return e.URL != ""
}

// listKeys are read from comma separated environment values.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

func envValue(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if !listKeys[key] {
		return key, value
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LoadConfig reads, validates and defaults the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	cfg := &Config{Observability: DefaultObservabilityConfig()}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.RateLimit > 0 && c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = int(c.Server.RateLimit) * 2
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 60
	}

	if c.Exchange.URL == "" {
		c.Exchange.URL = DefaultExchangeURL
	}
	if c.Exchange.Timeout <= 0 {
		c.Exchange.Timeout = DefaultExchangeTimeout
	}

	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "TDE <onboarding@resend.dev>"
	}

	if c.Events.Exchange == "" {
		c.Events.Exchange = DefaultEventsExchange
	}

	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env
}
