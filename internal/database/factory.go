package database

import (
	"context"
	"fmt"

	"github.com/youlserf/recipehub/internal/repositories"
	dynamorepo "github.com/youlserf/recipehub/internal/repositories/dynamodb"
	"github.com/youlserf/recipehub/internal/repositories/memory"
	mongorepo "github.com/youlserf/recipehub/internal/repositories/mongo"
	"github.com/youlserf/recipehub/internal/repositories/sqlite"

	"github.com/sirupsen/logrus"
)

// RepositoryFactory opens the configured backing store
type RepositoryFactory struct {
	logger *logrus.Logger
}

var _ repositories.Factory = (*RepositoryFactory)(nil)

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(logger *logrus.Logger) *RepositoryFactory {
	if logger == nil {
		logger = logrus.New()
	}
	return &RepositoryFactory{logger: logger}
}

// CreateRecipeRepository validates config and builds the repository for its backend
func (f *RepositoryFactory) CreateRecipeRepository(ctx context.Context, config *repositories.Config) (repositories.RecipeRepository, error) {
	if config == nil {
		config = repositories.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}

	log := f.logger.WithFields(logrus.Fields{
		"backend": config.Backend,
		"table":   config.TableName,
	})

	switch config.Backend {
	case repositories.BackendDynamoDB:
		client, err := NewDynamoDBClient(ctx, config.DynamoDB)
		if err != nil {
			return nil, repositories.ConnectionError("recipe", err)
		}
		log.Info("Using DynamoDB recipe store")
		return dynamorepo.NewRecipeRepository(client, config.TableName, f.logger), nil

	case repositories.BackendSQLite:
		db, err := OpenSQLite(ctx, config.SQLite, config.TableName, f.logger)
		if err != nil {
			return nil, repositories.ConnectionError("recipe", err)
		}
		log.Info("Using SQLite recipe store")
		return sqlite.NewRecipeRepository(db, config.TableName, f.logger), nil

	case repositories.BackendMongoDB:
		client, err := ConnectMongo(ctx, config.MongoDB.URI, config.ConnectTimeout)
		if err != nil {
			return nil, repositories.ConnectionError("recipe", err)
		}
		repo := mongorepo.NewRecipeRepository(client, config.MongoDB.Database, config.TableName, f.logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		log.Info("Using MongoDB recipe store")
		return repo, nil

	case repositories.BackendMemory:
		log.Warn("Using in-memory recipe store; data is lost on restart")
		return memory.NewRecipeRepository(), nil
	}

	return nil, fmt.Errorf("%w: store type %s", repositories.ErrUnsupported, config.Backend)
}
