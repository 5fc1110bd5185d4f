package repositories

import (
	"context"
	"time"
)

// Factory creates repository implementations
type Factory interface {
	// CreateRecipeRepository opens the configured store and returns a recipe repository
	CreateRecipeRepository(ctx context.Context, config *Config) (RecipeRepository, error)
}

// HealthStatus represents the health status of the backing store
type HealthStatus struct {
	Healthy      bool              `json:"healthy"`
	Message      string            `json:"message,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	CheckedAt    time.Time         `json:"checked_at"`
	ResponseTime time.Duration     `json:"response_time"`
}

// CheckHealth pings the repository and reports the outcome
func CheckHealth(ctx context.Context, repo RecipeRepository, backend Backend) *HealthStatus {
	start := time.Now()
	err := repo.Ping(ctx)

	status := &HealthStatus{
		Healthy:      err == nil,
		Details:      map[string]string{"backend": string(backend)},
		CheckedAt:    start,
		ResponseTime: time.Since(start),
	}
	if err != nil {
		status.Message = err.Error()
	}

	return status
}
