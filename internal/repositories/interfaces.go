package repositories

import (
	"context"

	"github.com/youlserf/recipehub/internal/models"
)

// RecipeRepository defines the store operations used by the recipe handlers.
// Each method performs exactly one call against the backing store.
type RecipeRepository interface {
	// Put writes the recipe unconditionally, replacing any item with the same ID
	Put(ctx context.Context, recipe *models.Recipe) error

	// Get retrieves a recipe by its ID. A missing item yields a NotFound error.
	Get(ctx context.Context, id string) (*models.Recipe, error)

	// Update sets the mutable attributes of the item at id and returns the
	// resulting record. It does not check that the item exists beforehand.
	Update(ctx context.Context, id string, fields models.RecipeFields) (*models.Recipe, error)

	// Delete removes the item at id
	Delete(ctx context.Context, id string) error

	// List returns every recipe in the table
	List(ctx context.Context) ([]*models.Recipe, error)

	// Ping verifies the backing store is reachable
	Ping(ctx context.Context) error

	// Close releases any resources held by the repository
	Close() error
}
