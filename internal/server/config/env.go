package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "USERMGMT_"

func parseEnv(cfg *Config) {
	cfg.Address = GetString("ADDRESS", cfg.Address)
	cfg.StorageDriver = GetString("STORAGE_DRIVER", cfg.StorageDriver)
	cfg.DatabaseDSN = GetString("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.JWTSecret = GetString("JWT_SECRET", cfg.JWTSecret)
	cfg.Issuer = GetString("ISSUER", cfg.Issuer)
	cfg.LogLevel = GetString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = GetString("LOG_FORMAT", cfg.LogFormat)
	cfg.RedisAddr = GetString("REDIS_ADDR", cfg.RedisAddr)
	cfg.SeedAdminPassword = GetString("SEED_ADMIN_PASSWORD", cfg.SeedAdminPassword)
	cfg.SeedUserPassword = GetString("SEED_USER_PASSWORD", cfg.SeedUserPassword)
	cfg.TokenTTL = GetDuration("TOKEN_TTL", cfg.TokenTTL)
	cfg.LookupTimeout = GetDuration("LOOKUP_TIMEOUT", cfg.LookupTimeout)
	cfg.ShutdownTimeout = GetDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.LoginRateWindow = GetDuration("LOGIN_RATE_WINDOW", cfg.LoginRateWindow)
	cfg.LoginRateLimit = GetInt("LOGIN_RATE_LIMIT", cfg.LoginRateLimit)
	cfg.BcryptCost = GetInt("BCRYPT_COST", cfg.BcryptCost)
	cfg.Seed = GetBool("SEED", cfg.Seed)
	cfg.Dev = GetBool("DEV", cfg.Dev)
}

// GetString returns USERMGMT_<key> or fallback when unset.
func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(EnvPrefix + key); ok {
		return value
	}
	return fallback
}

// GetInt returns USERMGMT_<key> as an integer. Unparsable values are
// logged and the fallback is kept.
func GetInt(key string, fallback int) int {
	value, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid env value", slog.String("key", EnvPrefix+key), slog.Any("error", err))
		return fallback
	}
	return parsed
}

// GetBool returns USERMGMT_<key> as a bool.
func GetBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid env value", slog.String("key", EnvPrefix+key), slog.Any("error", err))
		return fallback
	}
	return parsed
}

// GetDuration accepts Go duration strings ("15m", "24h").
func GetDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid env value", slog.String("key", EnvPrefix+key), slog.Any("error", err))
		return fallback
	}
	return parsed
}
