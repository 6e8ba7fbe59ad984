package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage StorageConfig

	// Logging configuration
	Log LogConfig

	// CORS configuration
	CORS CORSConfig

	// EnvFile is the .env file that was loaded, empty if none was found
	EnvFile string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"5002"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	SwaggerEnabled  bool          `env:"SWAGGER_ENABLED" envDefault:"true"`
}

// StorageConfig holds the location of the backing document
type StorageConfig struct {
	DataFile string `env:"DATA_FILE" envDefault:"models/database.json"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envDefault:"GET,POST,PUT,DELETE,OPTIONS" envSeparator:","`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envDefault:"*" envSeparator:","`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
}

// Load loads configuration from a .env file (if any) and the environment.
// Variables already set in the environment win over the .env file.
func Load() (*Config, error) {
	envFile := ""
	for _, candidate := range []string{"../.env", ".env"} {
		if err := godotenv.Load(candidate); err == nil {
			envFile = candidate
			break
		}
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

// Parse reads configuration from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.Storage.DataFile == "" {
		return fmt.Errorf("DATA_FILE is required")
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
