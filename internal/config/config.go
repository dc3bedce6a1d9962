// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            int
	DBPath          string
	LogLevel        string
	AMQPURL         string // empty disables change notifications
	AMQPExchange    string
	MetricsPath     string
	ShutdownTimeout time.Duration
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// NotificationsEnabled reports whether a broker URL was configured.
func (c *Config) NotificationsEnabled() bool {
	return c.AMQPURL != ""
}

// Load reads configuration. Real environment variables override .env values,
// which override the defaults.
func Load() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "./data/eventsplit.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "eventsplit")
	v.SetDefault("METRICS_PATH", "/metrics")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.AutomaticEnv()

	shutdown, err := time.ParseDuration(v.GetString("SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", v.GetString("SHUTDOWN_TIMEOUT"), err)
	}

	cfg := &Config{
		Port:            v.GetInt("PORT"),
		DBPath:          v.GetString("DB_PATH"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		AMQPURL:         v.GetString("AMQP_URL"),
		AMQPExchange:    v.GetString("AMQP_EXCHANGE"),
		MetricsPath:     v.GetString("METRICS_PATH"),
		ShutdownTimeout: shutdown,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("METRICS_PATH must start with /, got %q", c.MetricsPath)
	}
	if c.NotificationsEnabled() && c.AMQPExchange == "" {
		return fmt.Errorf("AMQP_EXCHANGE must be set when AMQP_URL is")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
