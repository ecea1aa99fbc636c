package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	IDs      IDConfig       `mapstructure:"ids"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// Driver selects the database/sql driver: "pgx" for PostgreSQL or "sqlite"
// for an embedded SQLite file.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"         validate:"required,oneof=pgx sqlite"`
	URL          string `mapstructure:"url"            validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
// Tokens carry the profile id as their subject.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"     validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
}

// RedisConfig configures the optional plan cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"  validate:"gte=0"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// Enabled reports whether a redis address has been configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// IDConfig selects the identifier generator.
type IDConfig struct {
	Strategy string `mapstructure:"strategy" validate:"required,oneof=ulid uuid"`
}
