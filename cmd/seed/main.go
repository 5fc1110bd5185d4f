package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/youlserf/recipehub/internal/config"
	"github.com/youlserf/recipehub/internal/migration"
	"github.com/youlserf/recipehub/pkg/server"
)

func main() {
	var (
		file   = flag.String("file", "./data/recipes.json", "JSON file with recipes to import")
		backup = flag.String("backup", "", "Directory to copy the seed file into before importing")
		dryRun = flag.Bool("dry-run", false, "Validate the file without storing anything")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	absPath, err := filepath.Abs(*file)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to get absolute seed file path")
	}

	container, err := server.NewContainer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	logger := container.Logger
	logger.WithFields(logrus.Fields{
		"file":    absPath,
		"store":   cfg.Store.Type,
		"dry_run": *dryRun,
	}).Info("Starting recipe seeding")

	importer := migration.NewRecipeImporter(container.RecipeService, *backup, logger)
	result, err := importer.ImportFile(context.Background(), absPath, *dryRun)
	if result != nil {
		fmt.Printf("Import Results:\n")
		fmt.Printf("  Processed: %d\n", result.Processed)
		fmt.Printf("  Imported:  %d\n", result.Imported)
		fmt.Printf("  Skipped:   %d\n", result.Skipped)
		for _, msg := range result.Warnings {
			fmt.Printf("  Warning: %s\n", msg)
		}
		for _, msg := range result.Errors {
			fmt.Printf("  Error: %s\n", msg)
		}
	}
	if err != nil {
		logger.WithError(err).Fatal("Seeding failed")
	}
}
