// Package config собирает настройки сервера: значения по умолчанию,
// затем JSON-файл, затем переменные окружения, затем флаги.
package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/atolz-bro/usermanagementservice/internal/server/jwt"
)

// Поддерживаемые хранилища.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// DefaultJWTSecret годится только для разработки: Validate принимает его
// лишь при Dev.
const DefaultJWTSecret = "dev-secret-change-me"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the user management server.
type Config struct {
	Address           string
	StorageDriver     string
	DatabaseDSN       string
	JWTSecret         string
	Issuer            string
	LogLevel          string
	LogFormat         string
	RedisAddr         string
	SeedAdminPassword string
	SeedUserPassword  string
	TokenTTL          time.Duration
	LookupTimeout     time.Duration
	ShutdownTimeout   time.Duration
	LoginRateWindow   time.Duration
	LoginRateLimit    int
	BcryptCost        int
	Seed              bool
	// Dev разрешает DefaultJWTSecret.
	Dev bool
}

// LoadDefaults заполняет Config значениями для локального запуска.
func (c *Config) LoadDefaults() {
	c.Address = ":8080"
	c.StorageDriver = DriverSQLite
	c.DatabaseDSN = "usermgmt.db"
	c.JWTSecret = DefaultJWTSecret
	c.Issuer = "usermanagementservice"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.RedisAddr = ""
	c.SeedAdminPassword = "admin123"
	c.SeedUserPassword = "user123"
	c.TokenTTL = 24 * time.Hour
	c.LookupTimeout = 2 * time.Second
	c.ShutdownTimeout = 10 * time.Second
	c.LoginRateWindow = time.Minute
	c.LoginRateLimit = 10
	c.BcryptCost = bcrypt.DefaultCost
	c.Seed = true
	c.Dev = false
}

// LoadConfig applies defaults, the optional JSON file given by -c/-config,
// USERMGMT_* environment variables and finally command-line flags.
// args are the process arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, без которых сервер не стартует.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverSQLite, DriverPostgres, DriverBolt:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("%w: database DSN is empty", ErrInvalidConfig)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: jwt secret is empty", ErrInvalidConfig)
	}
	if c.JWTSecret == DefaultJWTSecret && !c.Dev {
		return fmt.Errorf("%w: built-in jwt secret is allowed only in dev mode, set USERMGMT_JWT_SECRET or -s", ErrInvalidConfig)
	}
	if err := jwt.ValidateTTL(c.TokenTTL); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: bcrypt cost %d out of range", ErrInvalidConfig, c.BcryptCost)
	}
	if c.LoginRateLimit < 0 {
		return fmt.Errorf("%w: login rate limit is negative", ErrInvalidConfig)
	}
	if c.LoginRateLimit > 0 && c.LoginRateWindow <= 0 {
		return fmt.Errorf("%w: login rate window must be positive", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
