package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atolz-bro/usermanagementservice/internal/flagx"
	"github.com/atolz-bro/usermanagementservice/internal/timex"
)

// JSONConfig is the on-disk form of Config. Durations are written as
// strings such as "24h". Absent fields keep their previous values.
type JSONConfig struct {
	Address           *string         `json:"address"`
	StorageDriver     *string         `json:"storage_driver"`
	DatabaseDSN       *string         `json:"database_dsn"`
	JWTSecret         *string         `json:"jwt_secret"`
	Issuer            *string         `json:"issuer"`
	LogLevel          *string         `json:"log_level"`
	LogFormat         *string         `json:"log_format"`
	RedisAddr         *string         `json:"redis_addr"`
	SeedAdminPassword *string         `json:"seed_admin_password"`
	SeedUserPassword  *string         `json:"seed_user_password"`
	TokenTTL          *timex.Duration `json:"token_ttl"`
	LookupTimeout     *timex.Duration `json:"lookup_timeout"`
	ShutdownTimeout   *timex.Duration `json:"shutdown_timeout"`
	LoginRateWindow   *timex.Duration `json:"login_rate_window"`
	LoginRateLimit    *int            `json:"login_rate_limit"`
	BcryptCost        *int            `json:"bcrypt_cost"`
	Seed              *bool           `json:"seed"`
	Dev               *bool           `json:"dev"`
}

// parseJSON накладывает значения из JSON-файла, если путь передан через -c/-config.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}

func (jc *JSONConfig) apply(cfg *Config) {
	setString(&cfg.Address, jc.Address)
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.JWTSecret, jc.JWTSecret)
	setString(&cfg.Issuer, jc.Issuer)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.SeedAdminPassword, jc.SeedAdminPassword)
	setString(&cfg.SeedUserPassword, jc.SeedUserPassword)

	if jc.TokenTTL != nil {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.LookupTimeout != nil {
		cfg.LookupTimeout = jc.LookupTimeout.Duration
	}
	if jc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
	if jc.LoginRateWindow != nil {
		cfg.LoginRateWindow = jc.LoginRateWindow.Duration
	}
	if jc.LoginRateLimit != nil {
		cfg.LoginRateLimit = *jc.LoginRateLimit
	}
	if jc.BcryptCost != nil {
		cfg.BcryptCost = *jc.BcryptCost
	}
	if jc.Seed != nil {
		cfg.Seed = *jc.Seed
	}
	if jc.Dev != nil {
		cfg.Dev = *jc.Dev
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
