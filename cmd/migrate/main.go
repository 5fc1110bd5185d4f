package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/youlserf/recipehub/internal/config"
	"github.com/youlserf/recipehub/internal/database"
	"github.com/youlserf/recipehub/internal/repositories"
)

func main() {
	var (
		action  = flag.String("action", "up", "Migration action: up, down, status, create-table")
		dbPath  = flag.String("db", "", "SQLite database file path (defaults to SQLITE_PATH)")
		table   = flag.String("table", "", "Recipe table name (defaults to RECIPE_TABLE)")
		wait    = flag.Duration("wait", 2*time.Minute, "Maximum time to wait for a DynamoDB table to become active")
		verbose = flag.Bool("verbose", config.GetEnvAsBool("MIGRATE_VERBOSE", false), "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if *table != "" {
		cfg.Store.TableName = *table
	}
	if *dbPath != "" {
		cfg.Store.SQLitePath = *dbPath
	}

	repoConfig, err := cfg.RepositoryConfig()
	if err != nil {
		logger.WithError(err).Fatal("Invalid store configuration")
	}

	logger.WithFields(logrus.Fields{
		"action": *action,
		"table":  repoConfig.TableName,
	}).Info("Starting migration tool")

	switch *action {
	case "up", "down", "status":
		manager := database.NewMigrationManager(database.SQLiteDSN(repoConfig.SQLite), repoConfig.TableName, logger)
		err = runSQLite(manager, *action)
	case "create-table":
		err = createTable(repoConfig, *wait, logger)
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, status, create-table")
	}
	if err != nil {
		logger.WithError(err).Fatal("Migration failed")
	}

	logger.Info("Migration tool completed successfully")
}

func runSQLite(manager *database.MigrationManager, action string) error {
	switch action {
	case "up":
		return manager.RunMigrations()
	case "down":
		return manager.RollbackMigration()
	}

	status, err := manager.GetMigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)
	return nil
}

func createTable(repoConfig *repositories.Config, wait time.Duration, logger *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), repoConfig.ConnectTimeout+wait)
	defer cancel()

	client, err := database.NewDynamoDBClient(ctx, repoConfig.DynamoDB)
	if err != nil {
		return err
	}

	created, err := database.EnsureTable(ctx, client, repoConfig.TableName, logger)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	return database.WaitForTable(ctx, client, repoConfig.TableName, wait)
}
