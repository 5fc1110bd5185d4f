package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/youlserf/recipehub/internal/config"
	"github.com/youlserf/recipehub/internal/database"
	"github.com/youlserf/recipehub/internal/logging"
	"github.com/youlserf/recipehub/internal/repositories"
	"github.com/youlserf/recipehub/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *logrus.Logger
	RecipeService services.RecipeService

	// Internal dependencies
	recipeRepo repositories.RecipeRepository
}

// NewContainer opens the configured store and wires the services on top of it
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithFactory(context.Background(), cfg, nil)
}

// NewContainerWithFactory is NewContainer with a caller-supplied repository factory
func NewContainerWithFactory(ctx context.Context, cfg *config.Config, factory repositories.Factory) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := logging.New(cfg)

	repoConfig, err := cfg.RepositoryConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid store configuration: %w", err)
	}

	if factory == nil {
		factory = database.NewRepositoryFactory(logger)
	}

	ctx, cancel := context.WithTimeout(ctx, repoConfig.ConnectTimeout)
	defer cancel()

	recipeRepo, err := factory.CreateRecipeRepository(ctx, repoConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe repository: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"store":       repoConfig.Backend,
		"table":       repoConfig.TableName,
		"environment": cfg.Environment,
	}).Info("Container initialized")

	return &Container{
		Config:        cfg,
		Logger:        logger,
		RecipeService: services.NewRecipeService(recipeRepo, repoConfig.Backend, logger),
		recipeRepo:    recipeRepo,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.recipeRepo != nil {
		if err := c.recipeRepo.Close(); err != nil {
			return fmt.Errorf("failed to close recipe repository: %w", err)
		}
	}

	return nil
}
