// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Blockchain settings
	RPCURL     string
	ChainID    int64
	PrivateKey string // Hex-encoded signing key; empty means the mock provider is used

	// Gate settings
	EventLogCap int // Max retained event log entries; 0 = unbounded

	// Observability
	OTLPEndpoint string // OTLP gRPC endpoint for traces (optional)
}

// Base Sepolia defaults
const (
	DefaultRPCURL      = "https://sepolia.base.org"
	DefaultChainID     = 84532 // Base Sepolia
	DefaultPort        = "8080"
	DefaultEnv         = "development"
	DefaultLogLevel    = "info"
	DefaultEventLogCap = 1000
)

// Load reads configuration from environment variables.
// It loads .env file if present (for local development).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", DefaultPort),
		Env:          getEnv("ENV", DefaultEnv),
		LogLevel:     getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:  os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		RPCURL:       getEnv("RPC_URL", DefaultRPCURL),
		ChainID:      getEnvInt64("CHAIN_ID", DefaultChainID),
		PrivateKey:   os.Getenv("PRIVATE_KEY"), // Optional, mock provider without it
		EventLogCap:  int(getEnvInt64("EVENT_LOG_CAP", DefaultEventLogCap)),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is coherent
func (c *Config) Validate() error {
	// A private key is optional; when present it must be well formed.
	if c.PrivateKey != "" {
		key := c.PrivateKey
		if len(key) == 66 && key[:2] == "0x" {
			key = key[2:]
		}
		if len(key) != 64 {
			return fmt.Errorf("PRIVATE_KEY must be 64 hex characters (with or without 0x prefix)")
		}
		if c.RPCURL == "" {
			return fmt.Errorf("RPC_URL is required when PRIVATE_KEY is set")
		}
	}

	if c.EventLogCap < 0 {
		return fmt.Errorf("EVENT_LOG_CAP must be >= 0")
	}

	return nil
}

// UseMockProvider reports whether the gate should run against the
// deterministic mock instead of a real node.
func (c *Config) UseMockProvider() bool {
	return c.PrivateKey == ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
