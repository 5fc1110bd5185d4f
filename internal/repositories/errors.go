package repositories

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies repository failures
type Kind int

const (
	// KindUnknown is any failure the store layer could not classify
	KindUnknown Kind = iota
	// KindNotFound is returned when an entity is not found
	KindNotFound
	// KindValidationFailed is returned when input or entity validation fails
	KindValidationFailed
	// KindStoreUnavailable is returned when the backing store cannot be reached
	KindStoreUnavailable
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidationFailed:
		return "ValidationFailed"
	case KindStoreUnavailable:
		return "StoreUnavailable"
	default:
		return "Unknown"
	}
}

// Common repository errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidID is returned when an invalid ID is provided
	ErrInvalidID = errors.New("invalid ID")

	// ErrValidation is returned when entity validation fails
	ErrValidation = errors.New("validation error")

	// ErrConnection is returned when the store connection fails
	ErrConnection = errors.New("store connection error")

	// ErrUnsupported is returned when an unsupported operation is attempted
	ErrUnsupported = errors.New("unsupported operation")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Entity type
	ID      string // Entity ID (if applicable)
	Kind    Kind   // Failure classification
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error, classifying err
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Kind:   classify(err),
		Err:    err,
	}
}

// UnavailableError creates a "store unavailable" repository error
func UnavailableError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Kind:   KindStoreUnavailable,
		Err:    err,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Kind:    KindNotFound,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// ValidationError creates a "validation" repository error
func ValidationError(entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "validate",
		Entity:  entity,
		ID:      id,
		Kind:    KindValidationFailed,
		Err:     fmt.Errorf("%w: %v", ErrValidation, err),
		Message: fmt.Sprintf("validation failed for %s: %v", entity, err),
	}
}

// ConnectionError creates a "connection" repository error
func ConnectionError(entity string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "connect",
		Entity:  entity,
		Kind:    KindStoreUnavailable,
		Err:     fmt.Errorf("%w: %v", ErrConnection, err),
		Message: fmt.Sprintf("%s connection failed: %v", entity, err),
	}
}

// KindOf returns the classification of err. Errors that did not come from the
// store layer are classified by their sentinel, falling back to KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.Kind
	}

	return classify(err)
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsValidation checks if an error is a "validation" error
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidationFailed
}

// IsUnavailable checks if an error is a "store unavailable" error
func IsUnavailable(err error) bool {
	return err != nil && KindOf(err) == KindStoreUnavailable
}

func classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidID):
		return KindValidationFailed
	case errors.Is(err, ErrConnection),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindStoreUnavailable
	default:
		return KindUnknown
	}
}
