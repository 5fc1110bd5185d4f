package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youlserf/recipehub/internal/repositories"
)

func TestLoad(t *testing.T) {
	t.Setenv("RECIPE_TABLE", "recipes-dev")
	t.Setenv("STORE_TYPE", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/recipes.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "recipes-dev", cfg.Store.TableName)
	assert.Equal(t, "sqlite", cfg.Store.Type)
	assert.Equal(t, "/tmp/recipes.db", cfg.Store.SQLitePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Store.ConnectTimeout)
	assert.True(t, cfg.Store.SQLiteAutoMigrate)
}

func TestLoadRequiresTable(t *testing.T) {
	t.Setenv("RECIPE_TABLE", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECIPE_TABLE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing table", func(c *Config) { c.Store.TableName = " " }, true},
		{"unknown store", func(c *Config) { c.Store.Type = "redis" }, true},
		{"zero timeout", func(c *Config) { c.Store.ConnectTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Store: StoreConfig{Type: "memory", TableName: "recipes", ConnectTimeout: time.Second}}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdaptConfigForServerless(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "development",
			LogFormat:   "text",
			Store:       StoreConfig{Type: "sqlite", TableName: "recipes", Endpoint: "http://localhost:8000"},
		}
	}

	t.Run("outside lambda", func(t *testing.T) {
		cfg := AdaptConfigForServerless(&ServerlessConfig{}, base())
		assert.Equal(t, "sqlite", cfg.Store.Type)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("inside lambda", func(t *testing.T) {
		sc := &ServerlessConfig{IsLambda: true, Region: "eu-west-1", Stage: "prod"}
		cfg := AdaptConfigForServerless(sc, base())
		assert.Equal(t, "dynamodb", cfg.Store.Type)
		assert.Empty(t, cfg.Store.Endpoint)
		assert.Equal(t, "eu-west-1", cfg.Store.Region)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "prod", cfg.Environment)
	})
}

func TestRepositoryConfig(t *testing.T) {
	cfg := &Config{Store: StoreConfig{
		Type:           "mongodb",
		TableName:      "recipes",
		MongoURI:       "mongodb://db:27017",
		ConnectTimeout: 3 * time.Second,
	}}

	repoCfg, err := cfg.RepositoryConfig()
	require.NoError(t, err)
	assert.Equal(t, repositories.BackendMongoDB, repoCfg.Backend)
	assert.Equal(t, "mongodb://db:27017", repoCfg.MongoDB.URI)
	assert.Equal(t, "recipehub", repoCfg.MongoDB.Database)
	assert.Equal(t, 3*time.Second, repoCfg.ConnectTimeout)
}
