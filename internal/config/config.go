package config

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/vzahanych/weatherkit/pkg/weatherkit"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Apple       AppleConfig     `mapstructure:"apple"`
	Breaker     BreakerConfig   `mapstructure:"breaker"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port" validate:"min=1,max=65535"`
	Host            string `mapstructure:"host"`
	ReadTimeout     int    `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout    int    `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout     int    `mapstructure:"idle_timeout" validate:"min=0"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"min=1"`
}

// AppleConfig holds the developer credentials and API settings for WeatherKit.
type AppleConfig struct {
	TeamID         string `mapstructure:"team_id" validate:"required,len=10"`
	ServiceID      string `mapstructure:"service_id" validate:"required"`
	KeyID          string `mapstructure:"key_id" validate:"required,len=10"`
	PrivateKeyPath string `mapstructure:"private_key_path" validate:"required_without=PrivateKey"`
	PrivateKey     string `mapstructure:"private_key" validate:"required_without=PrivateKeyPath"`
	TokenTTL       int    `mapstructure:"token_ttl" validate:"min=1"`
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	Language       string `mapstructure:"language" validate:"required"`
	Country        string `mapstructure:"country" validate:"len=2"`
	Timeout        int    `mapstructure:"timeout" validate:"min=1"`
}

// BreakerConfig controls the circuit breaker around upstream WeatherKit calls.
type BreakerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	FailureThreshold uint32 `mapstructure:"failure_threshold" validate:"min=1"`
	MaxRequests      uint32 `mapstructure:"max_requests" validate:"min=1"`
	Timeout          int    `mapstructure:"timeout" validate:"min=1"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string `mapstructure:"service_name"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Apple: AppleConfig{
			TokenTTL: 3600,
			BaseURL:  weatherkit.DefaultBaseURL,
			Language: weatherkit.DefaultLanguage,
			Country:  weatherkit.DefaultCountry,
			Timeout:  10,
		},
		Breaker: BreakerConfig{
			Enabled:          false,
			FailureThreshold: 5,
			MaxRequests:      1,
			Timeout:          30,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "weatherkit",
		},
	}
}

func (c AppleConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

func (c AppleConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Credentials builds signing credentials, reading the key file when no inline key is set.
func (c AppleConfig) Credentials() (weatherkit.Credentials, error) {
	key := []byte(c.PrivateKey)
	if len(key) == 0 {
		data, err := os.ReadFile(c.PrivateKeyPath)
		if err != nil {
			return weatherkit.Credentials{}, fmt.Errorf("read private key: %w", err)
		}
		key = data
	}

	return weatherkit.Credentials{
		TeamID:     c.TeamID,
		ServiceID:  c.ServiceID,
		KeyID:      c.KeyID,
		PrivateKey: key,
	}, nil
}
