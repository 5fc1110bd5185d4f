package services

import (
	"context"

	"github.com/youlserf/recipehub/internal/models"
	"github.com/youlserf/recipehub/internal/repositories"
)

// RecipeService defines the interface for recipe business logic operations
type RecipeService interface {
	// CRUD operations
	CreateRecipe(ctx context.Context, req *CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	ListRecipes(ctx context.Context) ([]*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, req *UpdateRecipeRequest) (*models.Recipe, error)

	// DeleteRecipe removes the recipe and returns it as it was before deletion
	DeleteRecipe(ctx context.Context, id string) (*models.Recipe, error)

	// Health reports whether the backing store is reachable
	Health(ctx context.Context) *repositories.HealthStatus
}

// Request/Response types

type CreateRecipeRequest struct {
	Name         string      `json:"name" validate:"required,max=1024"`
	Ingredients  interface{} `json:"ingredients" validate:"required" swaggertype:"array,string"`
	Instructions string      `json:"instructions" validate:"required"`
}

type UpdateRecipeRequest struct {
	Name         string      `json:"name" validate:"required,max=1024"`
	Ingredients  interface{} `json:"ingredients" validate:"required" swaggertype:"array,string"`
	Instructions string      `json:"instructions" validate:"required"`
}

// MaxIDLength bounds the path id; ids are otherwise opaque
const MaxIDLength = 1024

// RecipeIDRequest carries the recipe id taken from the request path
type RecipeIDRequest struct {
	ID string `json:"id" validate:"required,max=1024"`
}

func (r *CreateRecipeRequest) fields() models.RecipeFields {
	return models.RecipeFields{
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
	}
}

func (r *UpdateRecipeRequest) fields() models.RecipeFields {
	return models.RecipeFields{
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
	}
}
