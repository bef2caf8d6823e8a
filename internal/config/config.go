package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	ProviderNeynar   = "neynar"
	ProviderAirstack = "airstack"
)

type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Neynar   NeynarConfig
	Airstack AirstackConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Addr string
}

type ProviderConfig struct {
	Name string
}

type NeynarConfig struct {
	APIKeys []string
}

type AirstackConfig struct {
	APIKey string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
		Provider: ProviderConfig{
			Name: getEnv("PROVIDER", ProviderNeynar),
		},
		Neynar: NeynarConfig{
			APIKeys: collectAPIKeys("NEYNAR_API_KEY_"),
		},
		Airstack: AirstackConfig{
			APIKey: getEnv("AIRSTACK_API_KEY", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Enabled:  getEnvBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "castlens"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "castlens"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Provider.Name {
	case ProviderNeynar:
		if len(c.Neynar.APIKeys) == 0 {
			return fmt.Errorf("at least one NEYNAR_API_KEY is required")
		}
	case ProviderAirstack:
		if c.Airstack.APIKey == "" {
			return fmt.Errorf("AIRSTACK_API_KEY is required")
		}
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider.Name)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func collectAPIKeys(prefix string) []string {
	keys := make([]string, 0)
	for i := 1; i <= 5; i++ {
		envKey := fmt.Sprintf("%s%d", prefix, i)
		if value := os.Getenv(envKey); value != "" {
			keys = append(keys, value)
		}
	}
	return keys
}
