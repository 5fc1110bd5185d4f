package database

import (
	"bytes"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"text/template"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]{0,254}$`)

// ValidateTableName reports whether name can be used as a table name by every backend
func ValidateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// MigrationManager handles SQLite schema migrations
type MigrationManager struct {
	dsn    string
	table  string
	logger *logrus.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(dsn, table string, logger *logrus.Logger) *MigrationManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &MigrationManager{
		dsn:    dsn,
		table:  table,
		logger: logger,
	}
}

// MigrationInfo contains information about the applied schema version
type MigrationInfo struct {
	Version uint
	Dirty   bool
	Applied bool
}

// RunMigrations executes all pending migrations
func (m *MigrationManager) RunMigrations() error {
	m.logger.WithField("table", m.table).Info("Starting database migrations...")

	mig, err := m.initMigrate()
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer mig.Close()

	currentVersion, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		m.logger.Warn("Database is in dirty state, attempting to force version")
		if err := mig.Force(int(currentVersion)); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
	}

	m.logger.WithField("current_version", currentVersion).Debug("Current migration version")

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.WithField("new_version", newVersion).Info("Migrations completed successfully")
	return nil
}

// RollbackMigration rolls back the last migration
func (m *MigrationManager) RollbackMigration() error {
	m.logger.Info("Rolling back last migration...")

	mig, err := m.initMigrate()
	if err != nil {
		return fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer mig.Close()

	currentVersion, _, err := mig.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("no migrations to rollback")
		}
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	m.logger.WithField("current_version", currentVersion).Info("Rolling back from version")

	if err := mig.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	return nil
}

// GetMigrationStatus returns the current migration status
func (m *MigrationManager) GetMigrationStatus() (*MigrationInfo, error) {
	mig, err := m.initMigrate()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migrate: %w", err)
	}
	defer mig.Close()

	version, dirty, err := mig.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return &MigrationInfo{}, nil
		}
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationInfo{
		Version: version,
		Dirty:   dirty,
		Applied: true,
	}, nil
}

// initMigrate opens a dedicated connection for golang-migrate; closing the
// returned instance closes that connection only.
func (m *MigrationManager) initMigrate() (*migrate.Migrate, error) {
	source, err := renderMigrations(m.table)
	if err != nil {
		return nil, err
	}

	sourceDriver, err := iofs.New(source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	db, err := sql.Open("sqlite3", m.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
}

// renderMigrations substitutes the configured table name into the embedded migrations
func renderMigrations(table string) (fs.FS, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, err
	}

	base, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	entries, err := fs.ReadDir(base, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	rendered := &renderedFS{base: base, files: make(map[string][]byte, len(entries))}
	for _, entry := range entries {
		raw, err := fs.ReadFile(base, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		tmpl, err := template.New(entry.Name()).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, struct{ Table string }{Table: table}); err != nil {
			return nil, fmt.Errorf("failed to render migration %s: %w", entry.Name(), err)
		}

		rendered.files[entry.Name()] = buf.Bytes()
	}

	return rendered, nil
}

// renderedFS serves rendered migration bodies in place of the embedded
// templates. Directory listings come from the embedded tree.
type renderedFS struct {
	base  fs.FS
	files map[string][]byte
}

func (r *renderedFS) Open(name string) (fs.File, error) {
	data, ok := r.files[name]
	if !ok {
		return r.base.Open(name)
	}

	f, err := r.base.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return nil, err
	}

	return &renderedFile{
		Reader: bytes.NewReader(data),
		info:   renderedInfo{FileInfo: info, size: int64(len(data))},
	}, nil
}

type renderedFile struct {
	*bytes.Reader
	info fs.FileInfo
}

func (f *renderedFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *renderedFile) Close() error               { return nil }

type renderedInfo struct {
	fs.FileInfo
	size int64
}

func (i renderedInfo) Size() int64 { return i.size }
