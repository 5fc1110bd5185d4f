package memory

import (
	"context"
	"testing"

	"github.com/youlserf/recipehub/internal/models"
	"github.com/youlserf/recipehub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipeRepository()

	recipe := models.NewRecipe(models.RecipeFields{
		Name:         "Soup",
		Ingredients:  []interface{}{"water", "salt"},
		Instructions: "Boil.",
	})
	require.NoError(t, repo.Put(ctx, recipe))

	// Mutating the caller's copy must not leak into the store
	recipe.Name = "changed"
	got, err := repo.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", got.Name)

	updated, err := repo.Update(ctx, recipe.ID, models.RecipeFields{
		Name:         "Stew",
		Ingredients:  []interface{}{"beef"},
		Instructions: "Simmer.",
	})
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, updated.ID)
	assert.Equal(t, "Stew", updated.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, recipe.ID))
	_, err = repo.Get(ctx, recipe.ID)
	assert.True(t, repositories.IsNotFound(err))

	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestClosedRepositoryIsUnavailable(t *testing.T) {
	repo := NewRecipeRepository()
	require.NoError(t, repo.Close())

	_, err := repo.List(context.Background())
	assert.True(t, repositories.IsUnavailable(err))
	assert.True(t, repositories.IsUnavailable(repo.Ping(context.Background())))
}

func TestCanceledContextIsUnavailable(t *testing.T) {
	repo := NewRecipeRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Put(ctx, models.NewRecipe(models.RecipeFields{Name: "x", Ingredients: "y", Instructions: "z"}))
	assert.True(t, repositories.IsUnavailable(err))
}

func TestIngredientsAreNotShared(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipeRepository()

	ingredients := []interface{}{"flour", map[string]interface{}{"item": "milk", "qty": "1 cup"}}
	recipe := models.NewRecipe(models.RecipeFields{Name: "Pancakes", Ingredients: ingredients, Instructions: "Fry."})
	require.NoError(t, repo.Put(ctx, recipe))

	ingredients[0] = "sugar"
	ingredients[1].(map[string]interface{})["item"] = "water"

	got, err := repo.Get(ctx, recipe.ID)
	require.NoError(t, err)
	want := []interface{}{"flour", map[string]interface{}{"item": "milk", "qty": "1 cup"}}
	assert.Equal(t, want, got.Ingredients)

	got.Ingredients.([]interface{})[0] = "salt"

	again, err := repo.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, want, again.Ingredients)
}
