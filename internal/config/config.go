package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration, read from environment
// variables with sensible development defaults.
type Config struct {
	AppPort     string
	AppEnv      string
	LogLevel    string
	DatabaseDSN string
	JWTSecret   string
	JWTExpire   time.Duration
	RabbitMQURL string
}

// Load reads configuration via viper. Every key can be overridden from
// the environment; defaults target local development.
func Load() *Config {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=bookbazaar port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "dev_secret_change_me")
	v.SetDefault("JWT_EXPIRE_HOURS", 168) // 7 days
	v.SetDefault("RABBITMQ_URL", "")
	v.AutomaticEnv()

	return &Config{
		AppPort:     v.GetString("APP_PORT"),
		AppEnv:      v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTExpire:   time.Duration(v.GetInt("JWT_EXPIRE_HOURS")) * time.Hour,
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
	}
}
