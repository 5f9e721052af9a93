package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"seating-chart-server-go/models"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"` // gin mode: debug, release, test
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		SeedDemo bool   `yaml:"seed_demo" env:"REDIS_SEED_DEMO"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
	} `yaml:"logging"`

	Seating struct {
		DefaultAlgorithm string `yaml:"default_algorithm" env:"SEATING_DEFAULT_ALGORITHM"`
	} `yaml:"seating"`
}

// LoadConfig reads an optional .env file, then the YAML file at configPath
// if it exists, then environment overrides
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env file is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "release"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"

	config.Redis.Addr = "127.0.0.1:6379"
	config.Redis.DB = 8
	config.Redis.SeedDemo = true

	config.Logging.Level = "info"
	config.Logging.Pretty = true

	config.Seating.DefaultAlgorithm = string(models.AlgorithmRandomized)
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	switch config.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server mode must be debug, release or test, got %q", config.Server.Mode)
	}
	if config.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}
	if config.Redis.DB < 0 {
		return fmt.Errorf("redis db must not be negative, got %d", config.Redis.DB)
	}
	if _, err := time.ParseDuration(config.Server.ReadTimeout); err != nil {
		return fmt.Errorf("invalid server read timeout: %w", err)
	}
	if _, err := time.ParseDuration(config.Server.WriteTimeout); err != nil {
		return fmt.Errorf("invalid server write timeout: %w", err)
	}
	if !models.AlgorithmType(config.Seating.DefaultAlgorithm).Known() {
		return fmt.Errorf("unknown default seating algorithm %q", config.Seating.DefaultAlgorithm)
	}
	return nil
}

// ReadTimeout returns the parsed server read timeout
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// WriteTimeout returns the parsed server write timeout
func (c *Config) WriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

// DefaultAlgorithm is used when an assign request names no algorithm
func (c *Config) DefaultAlgorithm() models.AlgorithmType {
	return models.AlgorithmType(c.Seating.DefaultAlgorithm)
}
