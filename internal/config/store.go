package config

import (
	"github.com/youlserf/recipehub/internal/repositories"
)

// RepositoryConfig maps the store settings onto the repository layer configuration
func (c *Config) RepositoryConfig() (*repositories.Config, error) {
	backend, err := repositories.ParseBackend(c.Store.Type)
	if err != nil {
		return nil, err
	}

	repoConfig := repositories.DefaultConfig()
	repoConfig.Backend = backend
	repoConfig.TableName = c.Store.TableName
	repoConfig.DynamoDB = repositories.DynamoDBConfig{
		Region:   c.Store.Region,
		Endpoint: c.Store.Endpoint,
	}

	if c.Store.SQLitePath != "" {
		repoConfig.SQLite.Path = c.Store.SQLitePath
	}
	if c.Store.SQLiteBusyTimeout > 0 {
		repoConfig.SQLite.BusyTimeout = c.Store.SQLiteBusyTimeout
	}
	repoConfig.SQLite.AutoMigrate = c.Store.SQLiteAutoMigrate

	if c.Store.MongoURI != "" {
		repoConfig.MongoDB.URI = c.Store.MongoURI
	}
	if c.Store.MongoDatabase != "" {
		repoConfig.MongoDB.Database = c.Store.MongoDatabase
	}
	if c.Store.ConnectTimeout > 0 {
		repoConfig.ConnectTimeout = c.Store.ConnectTimeout
	}

	if err := repoConfig.Validate(); err != nil {
		return nil, err
	}
	return repoConfig, nil
}
