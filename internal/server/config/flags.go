package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/atolz-bro/usermanagementservice/internal/flagx"
)

// serverFlags are the flags parseFlags understands; anything else in args
// (-c, -version) belongs to another layer.
var serverFlags = []string{"-a", "-d", "-dsn", "-s", "-t", "-l", "-r", "-redis", "-seed", "-dev"}

// parseFlags переопределяет часть настроек флагами командной строки:
//
//	-a string     listen address (":8080")
//	-d string     storage driver: sqlite, postgres, bolt
//	-dsn string   database DSN or file path
//	-s string     JWT signing secret
//	-t duration   token TTL ("24h")
//	-l string     log level
//	-r int        login attempts per window, 0 disables limiting
//	-redis string Redis address for the shared login limiter
//	-seed bool    create default accounts in an empty store
//	-dev bool     allow the built-in development JWT secret
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	fs.StringVar(&cfg.StorageDriver, "d", cfg.StorageDriver, "storage driver")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "jwt secret")
	fs.DurationVar(&cfg.TokenTTL, "t", cfg.TokenTTL, "token ttl")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.IntVar(&cfg.LoginRateLimit, "r", cfg.LoginRateLimit, "login attempts per window")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "seed default accounts")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "development mode")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return nil
}
