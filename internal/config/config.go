package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// MinSecretLength is the shortest JWT secret accepted at startup.
const MinSecretLength = 10

// Config aggregates runtime configuration for the accounts API.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	Log      LogConfig
	Metrics  MetricsConfig
	User     UserConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string        `env:"HOST" envDefault:"0.0.0.0"`
	Port         int           `env:"PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USERNAME" envDefault:"accounts"`
	Password string `env:"DB_PASSWORD" envDefault:"change-me"`
	Database string `env:"DB_NAME" envDefault:"accounts"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	MaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, strings.ToLower(p.SSLMode))
}

// AuthConfig groups token and password hashing settings. None of them has a default.
type AuthConfig struct {
	AccessTokenSecret         string `env:"JWT_ACCESS_TOKEN_SECRET,required,notEmpty"`
	AccessTokenExpirationSec  int    `env:"JWT_ACCESS_TOKEN_EXPIRATION_TIME_IN_SECONDS,required"`
	RefreshTokenSecret        string `env:"JWT_REFRESH_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenExpirationSec int    `env:"JWT_REFRESH_TOKEN_EXPIRATION_TIME_IN_SECONDS,required"`
	SaltRounds                int    `env:"SALT_ROUNDS,required"`
}

// AccessTokenTTL returns the access token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenExpirationSec) * time.Second
}

// RefreshTokenTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenExpirationSec) * time.Second
}

// Validate checks the constraints env tags cannot express.
func (a AuthConfig) Validate() error {
	var errs []error
	if len(a.AccessTokenSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_ACCESS_TOKEN_SECRET must be at least %d characters", MinSecretLength))
	}
	if len(a.RefreshTokenSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_TOKEN_SECRET must be at least %d characters", MinSecretLength))
	}
	if a.AccessTokenSecret == a.RefreshTokenSecret {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_SECRET and JWT_REFRESH_TOKEN_SECRET must differ"))
	}
	if a.AccessTokenExpirationSec <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_EXPIRATION_TIME_IN_SECONDS must be positive"))
	}
	if a.RefreshTokenExpirationSec <= 0 {
		errs = append(errs, errors.New("JWT_REFRESH_TOKEN_EXPIRATION_TIME_IN_SECONDS must be positive"))
	}
	if a.SaltRounds <= 0 {
		errs = append(errs, errors.New("SALT_ROUNDS must be positive"))
	}
	return errors.Join(errs...)
}

// LogConfig selects logger verbosity and encoding.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"APP_ENV" envDefault:"development"`
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// UserConfig holds user directory input rules.
type UserConfig struct {
	// PhoneDefaultRegion is assumed for phone numbers given without a leading '+'.
	PhoneDefaultRegion string `env:"PHONE_DEFAULT_REGION" envDefault:"BY"`
}

// Load reads an optional .env file, then environment variables, and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Auth.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid auth config: %w", err)
	}
	if len(cfg.User.PhoneDefaultRegion) != 2 {
		return Config{}, fmt.Errorf("invalid PHONE_DEFAULT_REGION: %q", cfg.User.PhoneDefaultRegion)
	}
	cfg.User.PhoneDefaultRegion = strings.ToUpper(cfg.User.PhoneDefaultRegion)
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT: %d", cfg.Server.Port)
	}

	return cfg, nil
}
