package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/youlserf/recipehub/internal/models"
	"github.com/youlserf/recipehub/internal/repositories"

	"github.com/sirupsen/logrus"
)

// RecipeRepository implements the RecipeRepository interface for SQLite.
// Ingredients are stored as a JSON document in a TEXT column.
type RecipeRepository struct {
	*BaseRepository
}

// NewRecipeRepository creates a new SQLite recipe repository
func NewRecipeRepository(db *sql.DB, table string, logger *logrus.Logger) repositories.RecipeRepository {
	return &RecipeRepository{
		BaseRepository: NewBaseRepository(db, table, "recipe", logger),
	}
}

// Put writes a recipe, replacing any row with the same ID
func (r *RecipeRepository) Put(ctx context.Context, recipe *models.Recipe) error {
	if err := r.validateID(recipe.ID); err != nil {
		return err
	}

	ingredients, err := encodeIngredients(recipe.Ingredients)
	if err != nil {
		return repositories.ValidationError("recipe", recipe.ID, err)
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO "%s" (id, name, ingredients, instructions)
		VALUES (?, ?, ?, ?)`, r.table)

	_, err = r.executeExec(ctx, "put", recipe.ID, query,
		recipe.ID,
		recipe.Name,
		ingredients,
		recipe.Instructions,
	)
	return err
}

// Get retrieves a recipe by ID
func (r *RecipeRepository) Get(ctx context.Context, id string) (*models.Recipe, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, ingredients, instructions
		FROM "%s"
		WHERE id = ?`, r.table)

	row := r.executeQueryRow(ctx, "get", query, id)

	recipe, err := scanRecipe(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.NotFoundError("recipe", id)
		}
		return nil, r.wrapError("get", id, err)
	}

	return recipe, nil
}

// Update sets name, ingredients and instructions on the row at id. A missing
// row is inserted, mirroring the attribute-set semantics of the document store.
func (r *RecipeRepository) Update(ctx context.Context, id string, fields models.RecipeFields) (*models.Recipe, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	ingredients, err := encodeIngredients(fields.Ingredients)
	if err != nil {
		return nil, repositories.ValidationError("recipe", id, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO "%s" (id, name, ingredients, instructions)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			ingredients = excluded.ingredients,
			instructions = excluded.instructions`, r.table)

	if _, err := r.executeExec(ctx, "update", id, query,
		id,
		fields.Name,
		ingredients,
		fields.Instructions,
	); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{ID: id}
	recipe.Apply(fields)
	return recipe, nil
}

// Delete deletes a recipe by ID
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	if err := r.validateID(id); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM \"%s\" WHERE id = ?", r.table)
	_, err := r.executeExec(ctx, "delete", id, query, id)
	return err
}

// List retrieves every recipe
func (r *RecipeRepository) List(ctx context.Context) ([]*models.Recipe, error) {
	query := fmt.Sprintf(`
		SELECT id, name, ingredients, instructions
		FROM "%s"`, r.table)

	rows, err := r.executeQuery(ctx, "list", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := make([]*models.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, r.wrapError("list", "", err)
		}
		recipes = append(recipes, recipe)
	}

	if err = rows.Err(); err != nil {
		return nil, r.wrapError("list", "", err)
	}

	return recipes, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(s scanner) (*models.Recipe, error) {
	var (
		recipe      models.Recipe
		ingredients sql.NullString
	)

	if err := s.Scan(&recipe.ID, &recipe.Name, &ingredients, &recipe.Instructions); err != nil {
		return nil, err
	}

	if ingredients.Valid && ingredients.String != "" {
		if err := json.Unmarshal([]byte(ingredients.String), &recipe.Ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients: %w", err)
		}
	}

	return &recipe, nil
}

func encodeIngredients(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode ingredients: %w", err)
	}
	return string(b), nil
}
