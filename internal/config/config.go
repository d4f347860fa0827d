// Package config loads the server configuration from a YAML file, a .env
// file and IC_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/evcraddock/invest-compare/internal/db"
)

// Config is the server configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the store. An empty DSN with the sqlite driver
// means the default database file.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Dialect returns the parsed driver.
func (d DatabaseConfig) Dialect() (db.Dialect, error) {
	return db.ParseDialect(d.Driver)
}

// RedisConfig enables the comparison cache when Address is set.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Dev bool `mapstructure:"dev"`
}

// RateLimitConfig bounds comparison creation per client IP. PerMinute 0
// disables the limit.
type RateLimitConfig struct {
	PerMinute int `mapstructure:"per_minute"`
	Burst     int `mapstructure:"burst"`
}
