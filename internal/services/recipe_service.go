package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/youlserf/recipehub/internal/models"
	"github.com/youlserf/recipehub/internal/repositories"
	"github.com/youlserf/recipehub/pkg/metrics"
)

// recipeService implements the RecipeService interface
type recipeService struct {
	recipeRepo repositories.RecipeRepository
	backend    repositories.Backend
	validator  *validator.Validate
	logger     *logrus.Logger
}

// NewRecipeService creates a new recipe service instance
func NewRecipeService(recipeRepo repositories.RecipeRepository, backend repositories.Backend, logger *logrus.Logger) RecipeService {
	if logger == nil {
		logger = logrus.New()
	}
	return &recipeService{
		recipeRepo: recipeRepo,
		backend:    backend,
		validator:  NewValidator(),
		logger:     logger,
	}
}

// CreateRecipe stores a new recipe under a freshly generated ID
func (s *recipeService) CreateRecipe(ctx context.Context, req *CreateRecipeRequest) (recipe *models.Recipe, err error) {
	defer s.observe("create", time.Now(), func() string { return idOf(recipe) }, &err)

	if req == nil {
		return nil, repositories.ValidationError("recipe", "", fmt.Errorf("create recipe request cannot be nil"))
	}
	if err := validateRequest(s.validator, "", req); err != nil {
		return nil, err
	}

	recipe = models.NewRecipe(req.fields())
	if err := s.recipeRepo.Put(ctx, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *recipeService) GetRecipe(ctx context.Context, id string) (recipe *models.Recipe, err error) {
	defer s.observe("get", time.Now(), func() string { return id }, &err)

	if err := s.validateID(id); err != nil {
		return nil, err
	}

	return s.recipeRepo.Get(ctx, id)
}

// ListRecipes returns every stored recipe. An empty store yields an empty slice.
func (s *recipeService) ListRecipes(ctx context.Context) (recipes []*models.Recipe, err error) {
	defer s.observe("list", time.Now(), func() string { return "" }, &err)

	recipes, err = s.recipeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []*models.Recipe{}
	}
	return recipes, nil
}

// UpdateRecipe overwrites the mutable fields of the recipe at id. The store
// applies the update whether or not the recipe already exists.
func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req *UpdateRecipeRequest) (recipe *models.Recipe, err error) {
	defer s.observe("update", time.Now(), func() string { return id }, &err)

	if err := s.validateID(id); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, repositories.ValidationError("recipe", id, fmt.Errorf("update recipe request cannot be nil"))
	}
	if err := validateRequest(s.validator, id, req); err != nil {
		return nil, err
	}

	return s.recipeRepo.Update(ctx, id, req.fields())
}

// DeleteRecipe reads the recipe first and only issues the delete when it
// exists. The returned recipe is the state before deletion.
func (s *recipeService) DeleteRecipe(ctx context.Context, id string) (recipe *models.Recipe, err error) {
	defer s.observe("delete", time.Now(), func() string { return id }, &err)

	if err := s.validateID(id); err != nil {
		return nil, err
	}

	existing, err := s.recipeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return existing, nil
}

// Health pings the backing store
func (s *recipeService) Health(ctx context.Context) *repositories.HealthStatus {
	return repositories.CheckHealth(ctx, s.recipeRepo, s.backend)
}

func (s *recipeService) validateID(id string) error {
	return validateRequest(s.validator, id, &RecipeIDRequest{ID: id})
}

// observe logs the outcome of an operation and records its metrics
func (s *recipeService) observe(operation string, start time.Time, id func() string, errp *error) {
	duration := time.Since(start)
	outcome := "ok"

	fields := logrus.Fields{
		"operation": operation,
		"duration":  duration,
	}
	if recipeID := id(); recipeID != "" {
		fields["recipe_id"] = recipeID
	}

	if err := *errp; err != nil {
		kind := repositories.KindOf(err)
		outcome = kind.String()
		fields["error"] = err.Error()
		fields["error_kind"] = outcome

		entry := s.logger.WithFields(fields)
		switch kind {
		case repositories.KindNotFound, repositories.KindValidationFailed:
			entry.Info("Recipe operation rejected")
		default:
			entry.Error("Recipe operation failed")
		}
	} else {
		s.logger.WithFields(fields).Info("Recipe operation completed")
	}

	metrics.RecipeOperations.WithLabelValues(operation, outcome).Inc()
	metrics.StoreLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func idOf(recipe *models.Recipe) string {
	if recipe == nil {
		return ""
	}
	return recipe.ID
}
