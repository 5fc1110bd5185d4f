package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backend identifies a store implementation
type Backend string

const (
	BackendDynamoDB Backend = "dynamodb"
	BackendSQLite   Backend = "sqlite"
	BackendMongoDB  Backend = "mongodb"
	BackendMemory   Backend = "memory"
)

// ParseBackend converts a configuration string into a Backend
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendDynamoDB, BackendSQLite, BackendMongoDB, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("unsupported store type: %q", s)
	}
}

// Config represents repository configuration
type Config struct {
	// Backend selects the store implementation
	Backend Backend `json:"backend" yaml:"backend"`

	// TableName is the table (or collection) that holds recipes
	TableName string `json:"table_name" yaml:"table_name"`

	// DynamoDB configuration
	DynamoDB DynamoDBConfig `json:"dynamodb" yaml:"dynamodb"`

	// SQLite configuration
	SQLite SQLiteConfig `json:"sqlite" yaml:"sqlite"`

	// MongoDB configuration
	MongoDB MongoDBConfig `json:"mongodb" yaml:"mongodb"`

	// ConnectTimeout bounds connection establishment at startup
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
}

// DynamoDBConfig represents DynamoDB client configuration
type DynamoDBConfig struct {
	// Region overrides the region resolved by the default AWS config chain
	Region string `json:"region" yaml:"region"`

	// Endpoint points the client at a local DynamoDB (e.g. http://localhost:8000)
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// SQLiteConfig represents SQLite configuration
type SQLiteConfig struct {
	// Path is the database file path
	Path string `json:"path" yaml:"path"`

	// BusyTimeout for SQLite (in milliseconds)
	BusyTimeout int `json:"busy_timeout" yaml:"busy_timeout"`

	// AutoMigrate applies pending migrations on connect
	AutoMigrate bool `json:"auto_migrate" yaml:"auto_migrate"`
}

// MongoDBConfig represents MongoDB configuration
type MongoDBConfig struct {
	URI      string `json:"uri" yaml:"uri"`
	Database string `json:"database" yaml:"database"`
}

// DefaultConfig returns a default repository configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendDynamoDB,
		SQLite: SQLiteConfig{
			Path:        "data/recipes.db",
			BusyTimeout: 5000,
			AutoMigrate: true,
		},
		MongoDB: MongoDBConfig{
			URI:      "mongodb://localhost:27017",
			Database: "recipehub",
		},
		ConnectTimeout: 10 * time.Second,
	}
}

// Validate validates the repository configuration
func (c *Config) Validate() error {
	if _, err := ParseBackend(string(c.Backend)); err != nil {
		return err
	}

	if strings.TrimSpace(c.TableName) == "" {
		return errors.New("table name is required")
	}

	if c.Backend == BackendSQLite && c.SQLite.Path == "" {
		return errors.New("database path is required for SQLite")
	}

	if c.Backend == BackendMongoDB {
		if c.MongoDB.URI == "" {
			return errors.New("MongoDB URI is required")
		}
		if c.MongoDB.Database == "" {
			return errors.New("MongoDB database name is required")
		}
	}

	if c.ConnectTimeout <= 0 {
		return errors.New("connect timeout must be greater than 0")
	}

	return nil
}
