package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/youlserf/recipehub/internal/models"
	"github.com/youlserf/recipehub/internal/repositories"
)

const entity = "recipe"

// RecipeRepository keeps recipes in process memory. Items are copied on the
// way in and out so callers never share state with the store.
type RecipeRepository struct {
	mu     sync.RWMutex
	items  map[string]*models.Recipe
	closed bool
}

// NewRecipeRepository creates an empty in-memory recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{items: make(map[string]*models.Recipe)}
}

func (r *RecipeRepository) Put(ctx context.Context, recipe *models.Recipe) error {
	if err := r.check(ctx, "put", recipe.ID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[recipe.ID] = recipe.Clone()
	return nil
}

func (r *RecipeRepository) Get(ctx context.Context, id string) (*models.Recipe, error) {
	if err := r.check(ctx, "get", id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	recipe, ok := r.items[id]
	if !ok {
		return nil, repositories.NotFoundError(entity, id)
	}
	return recipe.Clone(), nil
}

func (r *RecipeRepository) Update(ctx context.Context, id string, fields models.RecipeFields) (*models.Recipe, error) {
	if err := r.check(ctx, "update", id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	recipe, ok := r.items[id]
	if !ok {
		recipe = &models.Recipe{ID: id}
		r.items[id] = recipe
	}
	recipe.Apply(fields)
	return recipe.Clone(), nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	if err := r.check(ctx, "delete", id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

// List returns recipes ordered by ID
func (r *RecipeRepository) List(ctx context.Context) ([]*models.Recipe, error) {
	if err := r.check(ctx, "list", ""); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	recipes := make([]*models.Recipe, 0, len(r.items))
	for _, recipe := range r.items {
		recipes = append(recipes, recipe.Clone())
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes, nil
}

func (r *RecipeRepository) Ping(ctx context.Context) error {
	return r.check(ctx, "ping", "")
}

func (r *RecipeRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *RecipeRepository) check(ctx context.Context, op, id string) error {
	if err := ctx.Err(); err != nil {
		return repositories.UnavailableError(op, entity, id, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return repositories.UnavailableError(op, entity, id, repositories.ErrConnection)
	}
	return nil
}
