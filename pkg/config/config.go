package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Redis   RedisConfig
	Session SessionConfig
	Gateway GatewayConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SKYLIGHT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SKYLIGHT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SKYLIGHT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	// BaseURL includes the API prefix, e.g. http://localhost:5000/api.
	BaseURL string `envconfig:"SKYLIGHT_API_BASE_URL" default:"http://localhost:5000/api"`
	// Timeout of 0 leaves outbound calls unbounded; the transport decides.
	Timeout time.Duration `envconfig:"SKYLIGHT_API_TIMEOUT" default:"0"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SKYLIGHT_REDIS_URL"`
	Address      string        `envconfig:"SKYLIGHT_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"SKYLIGHT_REDIS_PASSWORD"`
	DB           int           `envconfig:"SKYLIGHT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SKYLIGHT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SKYLIGHT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SKYLIGHT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SKYLIGHT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SKYLIGHT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	// HandoffTTL bounds how long a pending payment handoff survives,
	// the session-scoped-storage analogue.
	HandoffTTL time.Duration `envconfig:"SKYLIGHT_SESSION_HANDOFF_TTL" default:"30m"`
}

type GatewayConfig struct {
	Port string `envconfig:"SKYLIGHT_GATEWAY_PORT" default:"5050"`
	// BaseURL points the payment flow at the simulated processor. Empty
	// selects the interactive terminal prompt instead.
	BaseURL string `envconfig:"SKYLIGHT_GATEWAY_BASE_URL"`
}
