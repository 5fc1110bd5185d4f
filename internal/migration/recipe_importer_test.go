package migration

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youlserf/recipehub/internal/repositories"
	"github.com/youlserf/recipehub/internal/repositories/memory"
	"github.com/youlserf/recipehub/internal/services"
)

func newImporter(t *testing.T, backupPath string) (*RecipeImporter, *memory.RecipeRepository) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	repo := memory.NewRecipeRepository()
	svc := services.NewRecipeService(repo, repositories.BackendMemory, logger)
	return NewRecipeImporter(svc, backupPath, logger), repo
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const seed = `[
  {"id": "keep-me-out", "name": "Soup", "ingredients": ["water", "salt"], "instructions": "Boil."},
  {"name": "Salad", "ingredients": {"lettuce": 1}, "instructions": "Toss."},
  {"name": "", "ingredients": ["nothing"], "instructions": "Skip."}
]`

func TestLoadRecipes(t *testing.T) {
	recipes, err := LoadRecipes(writeSeed(t, seed))
	require.NoError(t, err)
	assert.Len(t, recipes, 3)

	recipes, err = LoadRecipes(writeSeed(t, `{"recipes": [{"name": "Tea", "ingredients": ["leaves"], "instructions": "Steep."}]}`))
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Tea", recipes[0].Name)

	_, err = LoadRecipes(writeSeed(t, `not json`))
	assert.Error(t, err)

	_, err = LoadRecipes(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestImportFile(t *testing.T) {
	backupDir := filepath.Join(t.TempDir(), "backup")
	importer, repo := newImporter(t, backupDir)

	result, err := importer.ImportFile(t.Context(), writeSeed(t, seed), false)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)
	assert.Len(t, result.Warnings, 1)

	stored, err := repo.List(t.Context())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, r := range stored {
		assert.NotEqual(t, "keep-me-out", r.ID)
		assert.Contains(t, result.IDs, r.ID)
	}

	backups, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestImportDryRun(t *testing.T) {
	importer, repo := newImporter(t, "")

	recipes, err := LoadRecipes(writeSeed(t, seed))
	require.NoError(t, err)

	result, err := importer.Import(t.Context(), recipes, true)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	stored, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestImportStopsOnStoreFailure(t *testing.T) {
	importer, repo := newImporter(t, "")
	require.NoError(t, repo.Close())

	recipes, err := LoadRecipes(writeSeed(t, seed))
	require.NoError(t, err)

	result, err := importer.Import(t.Context(), recipes, false)
	require.Error(t, err)
	assert.True(t, repositories.IsUnavailable(err))
	assert.Equal(t, 0, result.Imported)
}
