package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/clinio/clinio-api/internal/email"
	"github.com/clinio/clinio-api/internal/middleware"
	"github.com/clinio/clinio-api/internal/repository/postgres"
	"github.com/clinio/clinio-api/pkg/messaging/redis"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret" validate:"required,min=16"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Config struct {
	Server    ServerConfig                 `mapstructure:"server"`
	Database  postgres.DatabaseConfig      `mapstructure:"database"`
	JWT       JWTConfig                    `mapstructure:"jwt"`
	Redis     redis.Config                 `mapstructure:"redis"`
	SMTP      email.SMTPConfig             `mapstructure:"smtp"`
	RateLimit middleware.RateLimiterConfig `mapstructure:"rate_limit"`
	Log       LogConfig                    `mapstructure:"log"`
}

// LoadConfig reads config.yml, overlays CLINIO_* environment variables and
// validates the result.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment overrides, e.g. CLINIO_DATABASE_HOST, CLINIO_JWT_SECRET.
	if err := envconfig.Process("clinio", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
