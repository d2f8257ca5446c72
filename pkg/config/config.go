package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "zarpado"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Delivery DeliveryConfig
	Redis    RedisConfig
	Session  SessionConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ZARPADO_APP_ENV" default:"development"`
	Port         string `envconfig:"ZARPADO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ZARPADO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ZARPADO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points the gateway at the store REST backend that owns
// catalog, delivery quoting, payments, and order state.
type UpstreamConfig struct {
	BaseURL           string        `envconfig:"ZARPADO_UPSTREAM_BASE_URL" default:"https://api.zarpadomueble.com"`
	FetchTimeout      time.Duration `envconfig:"ZARPADO_UPSTREAM_FETCH_TIMEOUT" default:"12s"`
	QuoteTimeout      time.Duration `envconfig:"ZARPADO_UPSTREAM_QUOTE_TIMEOUT" default:"12s"`
	PreferenceTimeout time.Duration `envconfig:"ZARPADO_UPSTREAM_PREFERENCE_TIMEOUT" default:"15s"`
}

func (u UpstreamConfig) validate() error {
	trimmed := strings.TrimSpace(u.BaseURL)
	if trimmed == "" {
		return fmt.Errorf("upstream base url is required")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return fmt.Errorf("upstream base url must be http(s): %q", u.BaseURL)
	}
	return nil
}

// NormalizedBaseURL strips trailing slashes so path joining stays predictable.
func (u UpstreamConfig) NormalizedBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(u.BaseURL), "/")
}

// DeliveryConfig tunes the shipping-quote scheduler.
type DeliveryConfig struct {
	QuoteDebounce time.Duration `envconfig:"ZARPADO_DELIVERY_QUOTE_DEBOUNCE" default:"300ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ZARPADO_REDIS_URL"`
	Address      string        `envconfig:"ZARPADO_REDIS_ADDR"`
	Password     string        `envconfig:"ZARPADO_REDIS_PASSWORD"`
	DB           int           `envconfig:"ZARPADO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ZARPADO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ZARPADO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ZARPADO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ZARPADO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ZARPADO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"ZARPADO_SESSION_COOKIE_NAME" default:"zm_session"`
	TTL        time.Duration `envconfig:"ZARPADO_SESSION_TTL" default:"720h"`
	Secure     bool          `envconfig:"ZARPADO_SESSION_COOKIE_SECURE" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ZARPADO_CORS_ALLOWED_ORIGINS" default:"https://zarpadomueble.com,https://www.zarpadomueble.com,http://localhost:4173"`
}
