// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Environment   string
	ServerAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	LogLevel      string
	DB            DatabaseConfig
	JWT           JWTConfig
}

// DatabaseConfig holds connection pool configuration.
type DatabaseConfig struct {
	DSN               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// JWTConfig holds token validation configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Load reads configuration from file or environment variables.
// Environment variables use the YAHVEH_ prefix with dots replaced by
// underscores (YAHVEH_DATABASE_DSN, YAHVEH_JWT_SECRET, ...).
func Load(path string) (Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file - environment variables and defaults apply.
	}

	v.SetEnvPrefix("YAHVEH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	config := Config{
		Environment:   v.GetString("environment"),
		ServerAddress: v.GetString("server.address"),
		ReadTimeout:   v.GetDuration("server.read_timeout"),
		WriteTimeout:  v.GetDuration("server.write_timeout"),
		IdleTimeout:   v.GetDuration("server.idle_timeout"),
		LogLevel:      v.GetString("logging.level"),
		DB: DatabaseConfig{
			DSN:               v.GetString("database.dsn"),
			MaxConns:          v.GetInt32("database.max_conns"),
			MinConns:          v.GetInt32("database.min_conns"),
			MaxConnLifetime:   v.GetDuration("database.max_conn_lifetime"),
			MaxConnIdleTime:   v.GetDuration("database.max_conn_idle_time"),
			HealthCheckPeriod: v.GetDuration("database.health_check_period"),
		},
		JWT: JWTConfig{
			Secret:   v.GetString("jwt.secret"),
			Issuer:   v.GetString("jwt.issuer"),
			TokenTTL: v.GetDuration("jwt.token_ttl"),
		},
	}

	if config.JWT.Secret == "" {
		return Config{}, fmt.Errorf("jwt.secret is required (YAHVEH_JWT_SECRET)")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("server.address", "0.0.0.0:8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("logging.level", "info")

	v.SetDefault("database.dsn", "postgres://localhost:5432/yahveh")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")
	v.SetDefault("database.health_check_period", "1m")

	v.SetDefault("jwt.issuer", "yahveh")
	v.SetDefault("jwt.token_ttl", "8h")
}
