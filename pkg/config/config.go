// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ORDERDESK"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	HTTP    HTTPConfig
	Catalog CatalogConfig
	Orders  OrdersConfig
}

// Load reads optional dotenv files (".env" when none are given) and then
// the environment. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading dotenv: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Orders.NumberingStrategy) {
	case "strict", "cached":
	default:
		return fmt.Errorf("invalid %s_NUMBERING_STRATEGY %q: want strict or cached", EnvPrefix, c.Orders.NumberingStrategy)
	}
	if c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("%s_DB_MIN_CONNS (%d) exceeds %s_DB_MAX_CONNS (%d)",
			EnvPrefix, c.DB.MinConns, EnvPrefix, c.DB.MaxConns)
	}
	return nil
}

type AppConfig struct {
	Env      string `envconfig:"ORDERDESK_APP_ENV" default:"development"`
	Port     string `envconfig:"ORDERDESK_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"ORDERDESK_LOG_LEVEL" default:"info"`
	Version  string `envconfig:"ORDERDESK_VERSION" default:"dev"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN             string        `envconfig:"ORDERDESK_DB_DSN" required:"true"`
	MaxConns        int32         `envconfig:"ORDERDESK_DB_MAX_CONNS" default:"20"`
	MinConns        int32         `envconfig:"ORDERDESK_DB_MIN_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type HTTPConfig struct {
	Gzip            bool          `envconfig:"ORDERDESK_HTTP_GZIP" default:"true"`
	ReadTimeout     time.Duration `envconfig:"ORDERDESK_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"ORDERDESK_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"ORDERDESK_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"ORDERDESK_HTTP_SHUTDOWN_TIMEOUT" default:"30s"`
}

type CatalogConfig struct {
	RefreshInterval time.Duration `envconfig:"ORDERDESK_CATALOG_REFRESH_INTERVAL" default:"10m"`

	// Listen subscribes to catalog_changed notifications from the SAP sync job.
	Listen bool `envconfig:"ORDERDESK_CATALOG_LISTEN" default:"true"`
}

type OrdersConfig struct {
	NumberPrefix      string `envconfig:"ORDERDESK_NUMBER_PREFIX" default:"ORD"`
	NumberingStrategy string `envconfig:"ORDERDESK_NUMBERING_STRATEGY" default:"strict"`
	NumberRangeSize   int64  `envconfig:"ORDERDESK_NUMBER_RANGE_SIZE" default:"50"`

	// Companies offered in the order header.
	Companies []string `envconfig:"ORDERDESK_COMPANIES" default:"Jivo Wellness,Jivo Mart"`
}

// Cached reports whether order numbers are reserved in ranges.
func (o OrdersConfig) Cached() bool {
	return strings.EqualFold(o.NumberingStrategy, "cached")
}
