package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Printful PrintfulConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Catalog  CatalogConfig
	Tenants  TenantsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Tenants.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type PrintfulConfig struct {
	Token   string        `envconfig:"STOREFRONT_PRINTFUL_TOKEN" required:"true"`
	BaseURL string        `envconfig:"STOREFRONT_PRINTFUL_BASE_URL" default:"https://api.printful.com"`
	Timeout time.Duration `envconfig:"STOREFRONT_PRINTFUL_TIMEOUT" default:"30s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" default:"redis://localhost:6379/0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,https://pw-productions.vercel.app,https://pwproductions.live,https://www.pwproductions.net"`
}

type CatalogConfig struct {
	// PageLimit caps the store-products result list when > 0. Zero means
	// the vendor's full page is returned; per-request ?limit= still applies.
	PageLimit int `envconfig:"STOREFRONT_CATALOG_PAGE_LIMIT" default:"0"`
}

type TenantsConfig struct {
	DefaultClient string `envconfig:"STOREFRONT_DEFAULT_CLIENT" default:"fire-conversation"`
	// DirectoryJSON overrides the built-in client directory when set. The
	// value is a JSON array of {key, store_id, name, description} objects.
	DirectoryJSON string `envconfig:"STOREFRONT_TENANTS_JSON"`
}

func (t TenantsConfig) validate() error {
	if strings.TrimSpace(t.DefaultClient) == "" {
		return fmt.Errorf("default client key must not be empty")
	}
	if t.DirectoryJSON != "" && !json.Valid([]byte(t.DirectoryJSON)) {
		return fmt.Errorf("%s_TENANTS_JSON is not valid JSON", EnvPrefix)
	}
	return nil
}
