// Package config loads server settings from a YAML file, a .env file and
// PARADIGMS_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PARADIGMS_LOG_LEVEL.
const EnvPrefix = "PARADIGMS"

type Config struct {
	JSONRPC    Listener   `mapstructure:"jsonrpc"`
	REST       Listener   `mapstructure:"rest"`
	HTTPServer HTTPServer `mapstructure:"http_server"`
	Batch      Batch      `mapstructure:"batch"`
	CORS       CORS       `mapstructure:"cors"`
	Log        Log        `mapstructure:"log"`
}

type Listener struct {
	Address string `mapstructure:"address" validate:"required,hostname_port"`
}

type HTTPServer struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout" validate:"gte=0"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	MaxConnections int           `mapstructure:"max_connections" validate:"gte=0"`
}

type Batch struct {
	MaxConcurrency int `mapstructure:"max_concurrency" validate:"gte=0"`
}

type CORS struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
	Output string `mapstructure:"output" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("jsonrpc.address", ":8001")
	v.SetDefault("rest.address", ":8002")
	v.SetDefault("http_server.read_timeout", "10s")
	v.SetDefault("http_server.write_timeout", "30s")
	v.SetDefault("http_server.idle_timeout", "60s")
	v.SetDefault("http_server.handler_timeout", "15s")
	v.SetDefault("http_server.max_body_bytes", 1<<20)
	v.SetDefault("http_server.max_connections", 0)
	v.SetDefault("batch.max_concurrency", 0)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment apply. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
