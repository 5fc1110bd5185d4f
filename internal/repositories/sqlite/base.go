package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/youlserf/recipehub/internal/repositories"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// BaseRepository provides query execution and logging shared by SQLite repositories
type BaseRepository struct {
	db     *sql.DB
	table  string
	entity string
	logger *logrus.Logger
	closed atomic.Bool
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sql.DB, table, entity string, logger *logrus.Logger) *BaseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseRepository{
		db:     db,
		table:  table,
		entity: entity,
		logger: logger,
	}
}

// Ping verifies the database connection is alive
func (r *BaseRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return repositories.UnavailableError("ping", r.entity, "", err)
	}
	return nil
}

// Close closes the underlying database handle
func (r *BaseRepository) Close() error {
	r.closed.Store(true)
	return r.db.Close()
}

// logQuery logs a query with its execution time
func (r *BaseRepository) logQuery(operation string, query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     strings.Join(strings.Fields(query), " "),
		"args":      len(args),
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository) executeQuery(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, r.wrapError(operation, "", err)
	}

	return rows, nil
}

// executeQueryRow executes a single-row query and logs the result
func (r *BaseRepository) executeQueryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, nil)

	return row
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository) executeExec(ctx context.Context, operation, id, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(operation, query, args, duration, err)

	if err != nil {
		return nil, r.wrapError(operation, id, err)
	}

	return result, nil
}

// wrapError classifies a driver error into a repository error
func (r *BaseRepository) wrapError(operation, id string, err error) error {
	if r.closed.Load() {
		return repositories.UnavailableError(operation, r.entity, id, repositories.ErrConnection)
	}
	if isUnavailable(err) {
		return repositories.UnavailableError(operation, r.entity, id, err)
	}
	return repositories.NewRepositoryError(operation, r.entity, id, err)
}

// isUnavailable reports whether err means the database cannot serve requests
// right now, as opposed to a failure of the statement itself.
func isUnavailable(err error) bool {
	if errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen:
			return true
		}
	}
	return false
}

// validateID validates that an ID is not empty
func (r *BaseRepository) validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return repositories.NewRepositoryError("validate", r.entity, id, repositories.ErrInvalidID)
	}
	return nil
}
