package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Supported values for the enum-like settings.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"

	ProviderAlphaVantage = "alphavantage"
	ProviderIEX          = "iex"
)

var ErrMissingAPIKey = errors.New("API_KEY not set")

// Config is the whole runtime configuration of the application.
type Config struct {
	Addr string

	APIKey        string
	QuoteProvider string
	QuoteBaseURL  string
	QuoteTimeout  time.Duration
	QuoteNames    bool

	StartingCash decimal.Decimal

	JWTSecret    string
	SessionStore string
	SessionDir   string
	SessionTTL   time.Duration

	DB    Database
	Redis Redis
}

// Database holds the connection settings for either dialect.
type Database struct {
	Driver   string
	Path     string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	TimeZone string
	LogLevel string
}

// DSN returns the postgres connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone)
}

// SQLiteDSN returns the sqlite file URI. Transactions take the write lock at
// BEGIN so concurrent writers wait on the busy timeout instead of failing.
func (d Database) SQLiteDSN() string {
	return "file:" + d.Path + "?_txlock=immediate&_busy_timeout=5000"
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:          getenv("ADDR", ":8080"),
		APIKey:        os.Getenv("API_KEY"),
		QuoteProvider: strings.ToLower(getenv("QUOTE_PROVIDER", ProviderAlphaVantage)),
		QuoteBaseURL:  os.Getenv("QUOTE_BASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionStore:  strings.ToLower(getenv("SESSION_STORE", StoreFile)),
		SessionDir:    os.Getenv("SESSION_DIR"),
		DB: Database{
			Driver:   strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
			Path:     getenv("DB_PATH", "finance.db"),
			Host:     getenv("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getenv("DB_PORT", "5432"),
			TimeZone: getenv("DB_TIMEZONE", "UTC"),
			LogLevel: strings.ToLower(getenv("DB_LOG_LEVEL", "warn")),
		},
		Redis: Redis{
			Addr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}

	var err error
	if cfg.QuoteTimeout, err = time.ParseDuration(getenv("QUOTE_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("QUOTE_TIMEOUT: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(getenv("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.StartingCash, err = decimal.NewFromString(getenv("STARTING_CASH", "10000.00")); err != nil {
		return nil, fmt.Errorf("STARTING_CASH: %w", err)
	}
	if cfg.StartingCash.IsNegative() {
		return nil, fmt.Errorf("STARTING_CASH: must not be negative, got %s", cfg.StartingCash)
	}
	if cfg.QuoteNames, err = strconv.ParseBool(getenv("QUOTE_NAMES", "true")); err != nil {
		return nil, fmt.Errorf("QUOTE_NAMES: %w", err)
	}
	if cfg.Redis.DB, err = strconv.Atoi(getenv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	switch cfg.QuoteProvider {
	case ProviderAlphaVantage, ProviderIEX:
	default:
		return nil, fmt.Errorf("QUOTE_PROVIDER: unsupported provider %q", cfg.QuoteProvider)
	}
	switch cfg.SessionStore {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return nil, fmt.Errorf("SESSION_STORE: unsupported store %q", cfg.SessionStore)
	}
	switch cfg.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DB.Driver)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
