package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	LogFormat   string
	Store       StoreConfig
	Server      ServerConfig
}

// StoreConfig holds recipe store configuration
type StoreConfig struct {
	Type      string // "dynamodb", "sqlite", "mongodb" or "memory"
	TableName string

	// DynamoDB
	Region   string
	Endpoint string

	// SQLite
	SQLitePath        string
	SQLiteBusyTimeout int
	SQLiteAutoMigrate bool

	// MongoDB
	MongoURI      string
	MongoDatabase string

	ConnectTimeout time.Duration
}

// ServerConfig holds settings for the standalone HTTP server
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxBodyBytes    int64
	EnableSwagger   bool
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("STORE_TYPE", "dynamodb")
	v.SetDefault("SQLITE_PATH", "./data/recipes.db")
	v.SetDefault("SQLITE_BUSY_TIMEOUT", 5000)
	v.SetDefault("SQLITE_AUTO_MIGRATE", true)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "recipehub")
	v.SetDefault("STORE_CONNECT_TIMEOUT", "10s")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("ENABLE_SWAGGER", true)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		Store: StoreConfig{
			Type:              v.GetString("STORE_TYPE"),
			TableName:         v.GetString("RECIPE_TABLE"),
			Region:            v.GetString("AWS_REGION"),
			Endpoint:          v.GetString("DYNAMODB_ENDPOINT"),
			SQLitePath:        v.GetString("SQLITE_PATH"),
			SQLiteBusyTimeout: v.GetInt("SQLITE_BUSY_TIMEOUT"),
			SQLiteAutoMigrate: v.GetBool("SQLITE_AUTO_MIGRATE"),
			MongoURI:          v.GetString("MONGO_URI"),
			MongoDatabase:     v.GetString("MONGO_DATABASE"),
			ConnectTimeout:    v.GetDuration("STORE_CONNECT_TIMEOUT"),
		},
		Server: ServerConfig{
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
			MaxBodyBytes:    v.GetInt64("MAX_BODY_BYTES"),
			EnableSwagger:   v.GetBool("ENABLE_SWAGGER"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the settings every entrypoint depends on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.TableName) == "" {
		return errors.New("RECIPE_TABLE is required")
	}

	switch strings.ToLower(c.Store.Type) {
	case "dynamodb", "sqlite", "mongodb", "memory":
	default:
		return fmt.Errorf("unsupported STORE_TYPE %q", c.Store.Type)
	}

	if c.Store.ConnectTimeout <= 0 {
		return errors.New("STORE_CONNECT_TIMEOUT must be greater than 0")
	}

	return nil
}

// IsProduction reports whether the application runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
