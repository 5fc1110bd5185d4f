package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/youlserf/recipehub/internal/services"
)

// RecipeImporter loads recipes from a JSON file into the configured store
type RecipeImporter struct {
	recipeService services.RecipeService
	logger        *logrus.Logger
	backupPath    string
}

// NewRecipeImporter creates a new importer. An empty backupPath disables backups.
func NewRecipeImporter(recipeService services.RecipeService, backupPath string, logger *logrus.Logger) *RecipeImporter {
	if logger == nil {
		logger = logrus.New()
	}
	return &RecipeImporter{
		recipeService: recipeService,
		logger:        logger,
		backupPath:    backupPath,
	}
}

// JSONRecipe represents the JSON structure of a recipe in a seed file.
// Any id present in the file is ignored.
type JSONRecipe struct {
	ID           string      `json:"id,omitempty"`
	Name         string      `json:"name"`
	Ingredients  interface{} `json:"ingredients"`
	Instructions string      `json:"instructions"`
}

// ImportResult contains the results of an import
type ImportResult struct {
	Processed int
	Imported  int
	Skipped   int
	IDs       []string
	Errors    []string
	Warnings  []string
}

// LoadRecipes reads a seed file. Both a bare array and {"recipes": [...]} are accepted.
func LoadRecipes(path string) ([]JSONRecipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var recipes []JSONRecipe
	if err := json.Unmarshal(data, &recipes); err == nil {
		return recipes, nil
	}

	var wrapped struct {
		Recipes []JSONRecipe `json:"recipes"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return wrapped.Recipes, nil
}

// ImportFile backs up and imports the seed file at path
func (m *RecipeImporter) ImportFile(ctx context.Context, path string, dryRun bool) (*ImportResult, error) {
	recipes, err := LoadRecipes(path)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	if m.backupPath != "" && !dryRun {
		if err := m.backup(path); err != nil {
			m.logger.WithError(err).Warn("Failed to back up seed file")
			result.Warnings = append(result.Warnings, fmt.Sprintf("Failed to back up seed file: %v", err))
		}
	}

	return m.importRecipes(ctx, recipes, dryRun, result)
}

// Import stores each recipe through the recipe service. Invalid entries are
// skipped and reported; a store failure aborts the import.
func (m *RecipeImporter) Import(ctx context.Context, recipes []JSONRecipe, dryRun bool) (*ImportResult, error) {
	return m.importRecipes(ctx, recipes, dryRun, &ImportResult{})
}

func (m *RecipeImporter) importRecipes(ctx context.Context, recipes []JSONRecipe, dryRun bool, result *ImportResult) (*ImportResult, error) {
	m.logger.WithFields(logrus.Fields{
		"recipes": len(recipes),
		"dry_run": dryRun,
	}).Info("Starting recipe import...")

	validator := services.NewValidator()

	for i, r := range recipes {
		result.Processed++

		if r.ID != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("recipe %d: id %q ignored", i, r.ID))
		}

		req := &services.CreateRecipeRequest{
			Name:         r.Name,
			Ingredients:  r.Ingredients,
			Instructions: r.Instructions,
		}

		if err := validator.Struct(req); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("recipe %d (%s): %v", i, r.Name, err))
			continue
		}

		if dryRun {
			continue
		}

		recipe, err := m.recipeService.CreateRecipe(ctx, req)
		if err != nil {
			return result, fmt.Errorf("recipe %d (%s): %w", i, r.Name, err)
		}
		result.Imported++
		result.IDs = append(result.IDs, recipe.ID)
	}

	m.logger.WithFields(logrus.Fields{
		"processed": result.Processed,
		"imported":  result.Imported,
		"skipped":   result.Skipped,
	}).Info("Recipe import completed")

	return result, nil
}

func (m *RecipeImporter) backup(src string) error {
	if err := os.MkdirAll(m.backupPath, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	dst := filepath.Join(m.backupPath, fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(src)))
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return err
	}

	m.logger.WithField("backup_file", dst).Info("Seed file backed up")
	return nil
}
